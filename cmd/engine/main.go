package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"moodmap/internal/config"
	"moodmap/internal/database"
	"moodmap/internal/engine"
	"moodmap/internal/handlers"
	"moodmap/internal/middleware"
	"moodmap/internal/utils"
	"moodmap/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	metrics := utils.NewMetricsCollector()

	store, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}()

	hub := websocket.NewHub()
	go hub.Run()

	system := actor.NewActorSystem()
	moodEngine := engine.NewEngine(system, store, hub, metrics)

	server := handlers.NewServer(system, system.Root, moodEngine, metrics, hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", server.HandleHealth())
	if cfg.Server.MetricsEnabled {
		mux.HandleFunc("/metrics", server.HandleMetrics())
	}
	mux.HandleFunc("/users", server.HandleUsers())
	mux.HandleFunc("/records", server.HandleRecords())
	mux.HandleFunc("/records/history", server.HandleMoodHistory())
	mux.HandleFunc("/feed", server.HandleFeed())
	mux.HandleFunc("/comments", server.HandleComments())
	mux.HandleFunc("/comments/replies", server.HandleReplies())
	mux.HandleFunc("/follow", server.HandleFollowRequests())
	mux.HandleFunc("/follow/respond", server.HandleFollowResponse())
	mux.HandleFunc("/follow/following", server.HandleFollowing())
	mux.HandleFunc("/ws", server.HandleWebSocket())

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	handler := middleware.CORSMiddleware(corsConfig)(mux)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
