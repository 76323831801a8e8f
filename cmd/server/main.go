package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/avukelic/homespace/internal/blob"
	"github.com/avukelic/homespace/internal/broker"
	"github.com/avukelic/homespace/internal/config"
	"github.com/avukelic/homespace/internal/database"
	postgresrepo "github.com/avukelic/homespace/internal/repository/postgres"
	"github.com/avukelic/homespace/internal/service"
	"github.com/avukelic/homespace/internal/transport/http/handlers"
	"github.com/avukelic/homespace/internal/transport/http/middleware"
	"github.com/avukelic/homespace/internal/transport/ws"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	cfg := config.Load()

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	// Broadcast transport
	var pubsub broker.PubSub
	if cfg.RedisURL != "" {
		rb, err := broker.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer rb.Close()
		pubsub = rb
		log.Println("Connected to redis")
	} else {
		pubsub = broker.NewMemory()
		log.Println("Using in-process broker")
	}

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	messageRepo := postgresrepo.NewMessageRepo(pool)
	galleryRepo := postgresrepo.NewGalleryRepo(pool)
	wishlistRepo := postgresrepo.NewWishlistRepo(pool)
	worklogRepo := postgresrepo.NewWorklogRepo(pool)
	petRepo := postgresrepo.NewPetRepo(pool)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	chatService := service.NewChatService(messageRepo, userRepo, pubsub)
	blobs := blob.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	galleryService := service.NewGalleryService(galleryRepo, blobs)
	wishlistService := service.NewWishlistService(wishlistRepo)
	worklogService := service.NewWorklogService(worklogRepo)
	petService := service.NewPetService(petRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	chatHandler := handlers.NewChatHandler(chatService)
	galleryHandler := handlers.NewGalleryHandler(galleryService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	worklogHandler := handlers.NewWorklogHandler(worklogService)
	petHandler := handlers.NewPetHandler(petService)

	// WebSocket hub
	hub := ws.NewHub(pubsub)
	go func() {
		if err := hub.Run(context.Background()); err != nil {
			log.Fatalf("ws hub stopped: %v", err)
		}
	}()

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/v1/chat/messages", chatHandler.History)
	mux.HandleFunc("GET /api/v1/gallery", galleryHandler.List)
	mux.HandleFunc("GET /api/v1/gallery/{id}/comments", galleryHandler.ListComments)
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, cfg.JWTSecret))

	// Protected - Chat
	mux.Handle("POST /api/v1/chat/messages", auth(http.HandlerFunc(chatHandler.Post)))

	// Protected - Gallery
	mux.Handle("POST /api/v1/gallery", auth(http.HandlerFunc(galleryHandler.Upload)))
	mux.Handle("POST /api/v1/gallery/{id}/comments", auth(http.HandlerFunc(galleryHandler.Comment)))
	mux.Handle("DELETE /api/v1/comments/{id}", auth(http.HandlerFunc(galleryHandler.DeleteComment)))

	// Protected - Wishlist
	mux.Handle("GET /api/v1/wishlist", auth(http.HandlerFunc(wishlistHandler.List)))
	mux.Handle("POST /api/v1/wishlist", auth(http.HandlerFunc(wishlistHandler.Add)))
	mux.Handle("POST /api/v1/wishlist/{id}/claim", auth(http.HandlerFunc(wishlistHandler.Claim)))
	mux.Handle("POST /api/v1/wishlist/{id}/unclaim", auth(http.HandlerFunc(wishlistHandler.Unclaim)))
	mux.Handle("DELETE /api/v1/wishlist/{id}", auth(http.HandlerFunc(wishlistHandler.Delete)))

	// Protected - Worklog
	mux.Handle("GET /api/v1/worklog", auth(http.HandlerFunc(worklogHandler.List)))
	mux.Handle("POST /api/v1/worklog/start", auth(http.HandlerFunc(worklogHandler.Start)))
	mux.Handle("POST /api/v1/worklog/stop", auth(http.HandlerFunc(worklogHandler.Stop)))
	mux.Handle("DELETE /api/v1/worklog/{id}", auth(http.HandlerFunc(worklogHandler.Delete)))

	// Protected - Pet
	mux.Handle("GET /api/v1/pet", auth(http.HandlerFunc(petHandler.Get)))
	mux.Handle("POST /api/v1/pet/feed", auth(http.HandlerFunc(petHandler.Feed)))
	mux.Handle("POST /api/v1/pet/play", auth(http.HandlerFunc(petHandler.Play)))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, middleware.CORS(mux)))
}
