package gateway

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"playgrid/backend/internal/hub"
	"playgrid/backend/internal/models"
	"playgrid/backend/internal/room"
)

const (
	// Ping at 54s against a 60s read deadline, leaving slack for the pong
	// to travel back.
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// Inbound event names. Anything else is ignored.
const (
	eventJoinRoom  = "joinRoom"
	eventLeaveRoom = "leaveRoom"
	eventStartGame = "startGame"
	eventMakeMove  = "makeMove"
)

// inboundFrame is one client message: a name plus its typed payload.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type roomRef struct {
	RoomID string `json:"roomId"`
}

type movePayload struct {
	RoomID string `json:"roomId"`
	Index  int    `json:"index"`
}

// connection is one authenticated live connection.
type connection struct {
	gateway   *Gateway
	ws        *websocket.Conn
	send      hub.Client
	user      *models.User
	sessionID string
	connID    string

	code      string // room the connection is subscribed to, "" if none
	closeOnce sync.Once
}

// handlers is the closed dispatch table for inbound events.
var handlers = map[string]func(*connection, context.Context, json.RawMessage){
	eventJoinRoom:  (*connection).handleJoin,
	eventLeaveRoom: (*connection).handleLeave,
	eventStartGame: (*connection).handleStart,
	eventMakeMove:  (*connection).handleMove,
}

// readPump consumes inbound frames until the connection drops, then runs the
// implicit-leave cleanup.
func (c *connection) readPump(ctx context.Context) {
	defer c.teardown(ctx)

	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket read error for %s: %v", c.user.Username, err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var frame inboundFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			c.sendError("Malformed message")
			continue
		}
		handler, ok := handlers[frame.Event]
		if !ok {
			continue
		}
		handler(c, ctx, frame.Data)
	}
}

// writePump drains the send queue and keeps the ping/pong heartbeat going.
func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// teardown makes a dropped connection an implicit leave: clear the session's
// connection pointer, run the room cleanup, detach from the hub.
func (c *connection) teardown(ctx context.Context) {
	log.Printf("User disconnected: %s", c.user.Username)

	if err := c.gateway.sessions.ClearConnection(ctx, c.sessionID); err != nil {
		log.Printf("failed to clear connection on session: %v", err)
	}
	if err := c.gateway.machine.Disconnect(ctx, c.user); err != nil {
		log.Printf("disconnect cleanup failed for %s: %v", c.user.Username, err)
	}
	if c.code != "" {
		c.gateway.hub.Unsubscribe(c.code, c.user.ID, c.send)
		c.code = ""
	}

	c.closeOnce.Do(func() { close(c.send) })
	c.ws.Close()
}

func (c *connection) handleJoin(ctx context.Context, data json.RawMessage) {
	var ref roomRef
	_ = json.Unmarshal(data, &ref)

	replies, err := c.gateway.machine.Join(ctx, c.user, ref.RoomID)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	code := room.Canonical(ref.RoomID)
	if c.code != "" && c.code != code {
		c.gateway.hub.Unsubscribe(c.code, c.user.ID, c.send)
	}
	c.gateway.hub.Subscribe(code, c.user.ID, c.send)
	c.code = code

	c.deliver(replies)
}

func (c *connection) handleLeave(ctx context.Context, data json.RawMessage) {
	var ref roomRef
	_ = json.Unmarshal(data, &ref)

	replies, err := c.gateway.machine.Leave(ctx, c.user, ref.RoomID)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	code := room.Canonical(ref.RoomID)
	c.gateway.hub.Unsubscribe(code, c.user.ID, c.send)
	if c.code == code {
		c.code = ""
	}

	c.deliver(replies)
}

func (c *connection) handleStart(ctx context.Context, data json.RawMessage) {
	var ref roomRef
	_ = json.Unmarshal(data, &ref)

	replies, err := c.gateway.machine.Start(ctx, c.user, ref.RoomID)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.deliver(replies)
}

func (c *connection) handleMove(ctx context.Context, data json.RawMessage) {
	var mv movePayload
	_ = json.Unmarshal(data, &mv)

	replies, err := c.gateway.machine.Move(ctx, c.user, mv.RoomID, mv.Index)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.deliver(replies)
}

// deliver queues actor-directed replies on this connection.
func (c *connection) deliver(events []room.Event) {
	for _, event := range events {
		message, err := json.Marshal(event)
		if err != nil {
			continue
		}
		select {
		case c.send <- message:
		default:
		}
	}
}

// sendError reports a failed event to the originating actor only.
func (c *connection) sendError(message string) {
	c.deliver([]room.Event{{
		Name: room.EventRoomError,
		Data: room.MessagePayload{Message: message},
	}})
}
