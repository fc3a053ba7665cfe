package gateway

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"playgrid/backend/internal/auth"
	"playgrid/backend/internal/hub"
	"playgrid/backend/internal/room"
	"playgrid/backend/internal/session"
	"playgrid/backend/internal/store"
)

// Gateway authenticates live connections, routes inbound events to the room
// state machine and delivers outbound notifications.
type Gateway struct {
	machine  *room.Machine
	hub      *hub.Hub
	sessions *session.Store
	users    *store.Users
	secret   string
	upgrader websocket.Upgrader
}

// New wires the gateway.
func New(machine *room.Machine, h *hub.Hub, sessions *session.Store, users *store.Users, secret string) *Gateway {
	return &Gateway{
		machine:  machine,
		hub:      h,
		sessions: sessions,
		users:    users,
		secret:   secret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeWS upgrades an authenticated request to a live connection and runs
// its read loop until the peer goes away.
func (g *Gateway) ServeWS(c *gin.Context) {
	user, sess, err := auth.ResolveRequest(c.Request, g.secret, g.sessions, g.users)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": false,
			"errors": gin.H{"message": "Authentication error: Invalid session."},
		})
		return
	}

	ws, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	conn := &connection{
		gateway:   g,
		ws:        ws,
		send:      make(hub.Client, 256),
		user:      user,
		sessionID: sess.ID,
		connID:    uuid.NewString(),
	}

	if err := g.sessions.SetConnection(c.Request.Context(), sess.ID, conn.connID); err != nil {
		log.Printf("failed to record connection on session: %v", err)
	}
	log.Printf("User connected: %s (connection %s)", user.Username, conn.connID)

	go conn.writePump()
	conn.readPump(c.Request.Context())
}
