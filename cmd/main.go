package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"lendly/backend/internal/api/handler"
	"lendly/backend/internal/chat"
	"lendly/backend/internal/config"
	"lendly/backend/internal/lending"
	"lendly/backend/internal/models"
	"lendly/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ChatRoom{},
		&models.Message{},
		&models.Item{},
		&models.BorrowRequest{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Lendly Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	chatService := chat.NewService(s)
	lendingService := lending.NewService(s)

	r := gin.Default()
	h := handler.NewHandler(chatService, lendingService, s, []byte(cfg.JWTSecret))

	api := r.Group("/api", h.AuthMiddleware())
	{
		api.GET("/items", h.ListItems)
		api.GET("/items/:itemID", h.GetItem)
		api.POST("/items", h.CreateItem)
		api.PATCH("/items/:itemID/availability", h.SetItemAvailability)
		api.GET("/my/items", h.MyItems)

		api.POST("/borrow-requests", h.CreateBorrowRequest)
		api.GET("/my/borrow-requests", h.MyBorrowRequests)
		api.GET("/my/lending-requests", h.MyLendingRequests)
		api.PATCH("/borrow-requests/:requestID/status", h.UpdateBorrowRequestStatus)

		api.GET("/chat/rooms", h.ListChatRooms)
		api.GET("/chat/rooms/:roomID/unread", h.UnreadCount)

		api.GET("/profile/stats", h.ProfileStats)
	}

	ws := r.Group("/ws", h.AuthMiddleware())
	{
		ws.GET("/chat", h.ServeChatSocket)
		ws.GET("/rooms", h.ServeRoomListSocket)
	}

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
