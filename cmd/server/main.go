package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"playgrid/backend/internal/auth"
	"playgrid/backend/internal/config"
	"playgrid/backend/internal/database"
	"playgrid/backend/internal/gateway"
	"playgrid/backend/internal/handler"
	"playgrid/backend/internal/hub"
	"playgrid/backend/internal/room"
	"playgrid/backend/internal/session"
	"playgrid/backend/internal/store"
)

func main() {
	cfg := config.Load()

	// Connect to the database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Connect to Redis (session store)
	rdb, err := session.NewClient(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	users := store.NewUsers(db)
	rooms := store.NewRooms(db)
	boards := store.NewBoards(db)
	sessions := session.NewStore(rdb)

	broadcast := hub.NewHub()
	machine := room.NewMachine(rooms, boards, broadcast)
	ws := gateway.New(machine, broadcast, sessions, users, cfg.CookieSecret)

	authHandler := handler.NewAuth(users, sessions, cfg.CookieSecret)
	roomHandler := handler.NewRooms(rooms)

	router := gin.Default()

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Live connection endpoint (authenticates via the session cookie)
	router.GET("/ws", ws.ServeWS)

	// API routes
	api := router.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.POST("/verify-token", authHandler.VerifyToken)

			profile := authRoutes.Group("/profile")
			profile.Use(auth.Middleware(cfg.CookieSecret, sessions, users))
			{
				profile.GET("", authHandler.GetProfile)
				profile.PUT("", authHandler.UpdateProfile)
			}
		}

		// Room routes (protected)
		roomRoutes := api.Group("/room")
		roomRoutes.Use(auth.Middleware(cfg.CookieSecret, sessions, users))
		{
			roomRoutes.POST("/create", roomHandler.Create)
			roomRoutes.GET("/:code/status", roomHandler.Status)
		}
	}

	addr := ":" + cfg.Port
	fmt.Printf("Server is running on %s\n", addr)
	log.Fatal(router.Run(addr))
}
