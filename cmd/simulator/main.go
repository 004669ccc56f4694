package main

import (
	"context"
	"log"
	"time"

	"moodmap/simulator"
)

func main() {
	// Define simulation configuration
	config := simulator.SimConfig{
		NumUsers:         10,
		SimulationTime:   10 * time.Minute,
		RecordFrequency:  100.0,
		CommentFrequency: 60.0,
		FeedFrequency:    120.0,
		DisconnectRate:   0.01,
		ReconnectRate:    0.05,
		ZipfS:            1.07,
		EngineURL:        "http://localhost:8080",
	}

	sim := simulator.NewEnhancedSimulator(config)
	ctx, cancel := context.WithTimeout(context.Background(), config.SimulationTime)
	defer cancel()

	// Log configuration
	log.Printf("Starting simulation with configuration:")
	log.Printf("- Engine URL: %s", config.EngineURL)
	log.Printf("- Number of users: %d", config.NumUsers)
	log.Printf("- Simulation time: %v", config.SimulationTime)
	log.Printf("- Record frequency: %.2f records/user/hour", config.RecordFrequency)
	log.Printf("- Comment frequency: %.2f comments/user/hour", config.CommentFrequency)
	log.Printf("- Feed fetch frequency: %.2f fetches/user/hour", config.FeedFrequency)
	log.Printf("- Disconnect rate: %.2f", config.DisconnectRate)
	log.Printf("- Reconnect rate: %.2f", config.ReconnectRate)
	log.Printf("- Zipf parameter: %.2f", config.ZipfS)

	// Start simulation
	if err := sim.Run(ctx); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	// Print final metrics
	metrics := sim.GetMetrics()
	log.Printf("\nSimulation completed. Final metrics:")
	log.Printf("- Total users: %d", metrics.TotalUsers)
	log.Printf("- Active users at end: %d", metrics.ActiveUsers)
	log.Printf("- Total records: %d", metrics.TotalRecords)
	log.Printf("- Total comments: %d", metrics.TotalComments)
	log.Printf("- Total feed fetches: %d", metrics.TotalFeedFetches)
	log.Printf("- Error count: %d", metrics.ErrorCount)
}
