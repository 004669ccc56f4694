package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"moodmap/internal/models"
)

type ErrorResponse struct {
	Code    string  `json:"Code"`
	Message string  `json:"Message"`
	Origin  *string `json:"Origin"`
}

var simEmotions = []string{
	"ANGER", "CONFUSED", "DISGUSTED", "FEAR",
	"HAPPY", "SADNESS", "SHAME", "SURPRISED",
}

var simSituations = []string{
	"ALONE", "ONE_PERSON", "MULTIPLE_PEOPLE", "CROWD",
}

var simReasons = []string{
	"long day", "good news", "exam stress", "nice weather",
	"traffic jam", "great lunch", "missed bus", "won the game",
}

var simTimeRanges = []string{
	"All time", "Last 24 hours", "Last 7 days", "Last 30 days",
}

func (s *EnhancedSimulator) SimulateActivities(ctx context.Context) error {
	log.Printf("Starting activities simulation...")

	// Signal when enough records exist to start comments and feed fetches
	recordsAvailable := make(chan struct{})

	var wg sync.WaitGroup

	// Start record simulation
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.simulateRecords(ctx, recordsAvailable)
	}()

	// Wait for some records before starting comments and feed fetches
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.stats.mu.RLock()
				if s.stats.TotalRecords >= 10 {
					s.stats.mu.RUnlock()
					close(recordsAvailable)
					return
				}
				s.stats.mu.RUnlock()
			}
		}
	}()

	// Start comment simulation after some records are available
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			return
		case <-recordsAvailable:
			log.Printf("Starting comments after records available...")
			s.simulateComments(ctx)
		}
	}()

	// Start feed fetch simulation after some records are available
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			return
		case <-recordsAvailable:
			log.Printf("Starting feed fetches after records available...")
			s.simulateFeedFetches(ctx)
		}
	}()

	wg.Wait()
	return nil
}

func (s *EnhancedSimulator) simulateRecords(ctx context.Context, recordsAvailable chan struct{}) {
	log.Printf("Starting record simulation...")

	tickInterval := 500 * time.Millisecond
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	const numWorkers = 5
	recordJobs := make(chan *SimulatedUser, s.config.NumUsers)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for user := range recordJobs {
				if !user.IsConnected {
					continue
				}

				if rand.Float64() < (s.config.RecordFrequency/3600.0)/2.0 {
					recordData := map[string]interface{}{
						"author":    user.Username,
						"emotion":   simEmotions[rand.Intn(len(simEmotions))],
						"situation": simSituations[rand.Intn(len(simSituations))],
						"reason":    simReasons[rand.Intn(len(simReasons))],
						"trigger":   fmt.Sprintf("trigger_%d", rand.Intn(100)),
					}

					// Roughly half of the records carry a location
					if rand.Float64() < 0.5 {
						recordData["latitude"] = rand.Float64()*180.0 - 90.0
						recordData["longitude"] = rand.Float64()*360.0 - 180.0
					}

					// Occasionally post privately
					if rand.Float64() < 0.1 {
						recordData["private"] = true
					}

					start := time.Now()
					resp, err := s.makeRequest("POST", "/records", recordData)
					if err != nil {
						log.Printf("Debug: Worker %d failed to create record: %v", workerID, err)
						s.recordRequestMetrics(start, err)
						continue
					}

					var record models.MoodRecord
					if err := json.Unmarshal(resp, &record); err == nil && record.ID != "" {
						s.mu.Lock()
						user.Records = append(user.Records, record.ID)
						s.mu.Unlock()
					}

					s.stats.mu.Lock()
					recordCount := s.stats.TotalRecords + 1
					s.stats.TotalRecords = recordCount
					s.stats.mu.Unlock()

					log.Printf("Created record by user %s (Total: %d)", user.Username, recordCount)
					s.recordRequestMetrics(start, nil)

					// If we hit the threshold, signal that records are available
					if recordCount == 10 {
						select {
						case <-recordsAvailable: // Check if already closed
						default:
							close(recordsAvailable)
						}
					}
				}
			}
		}(i)
	}

	// Main event loop
	for {
		select {
		case <-ctx.Done():
			close(recordJobs)
			wg.Wait()
			return
		case <-ticker.C:
			s.mu.RLock()
			for _, user := range s.users {
				if user.IsConnected {
					select {
					case recordJobs <- user:
					default: // Don't block if channel is full
					}
				}
			}
			s.mu.RUnlock()
		}
	}
}

func (s *EnhancedSimulator) simulateComments(ctx context.Context) {
	log.Printf("Starting comment simulation...")

	tickInterval := 500 * time.Millisecond
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	const numWorkers = 5
	commentJobs := make(chan *SimulatedUser, s.config.NumUsers)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for user := range commentJobs {
				if !user.IsConnected {
					continue
				}

				if rand.Float64() < (s.config.CommentFrequency/3600.0)/2.0 {
					recordID, err := s.getRandomRecordFromFeed(user)
					if err != nil {
						log.Printf("Debug: Worker %d failed to find record: %v", workerID, err)
						continue
					}

					// Mostly top-level comments, occasionally a sub-reply
					if rand.Float64() < 0.7 {
						data := map[string]interface{}{
							"recordId": recordID,
							"author":   user.Username,
							"text":     fmt.Sprintf("Comment from %s at %s", user.Username, time.Now().Format(time.RFC3339)),
						}

						start := time.Now()
						_, err := s.makeRequest("POST", "/comments", data)
						if err != nil {
							log.Printf("Debug: Worker %d failed to create comment: %v", workerID, err)
						} else {
							s.stats.mu.Lock()
							s.stats.TotalComments++
							commentCount := s.stats.TotalComments
							s.stats.mu.Unlock()
							log.Printf("Created comment by user %s (Total: %d)", user.Username, commentCount)
						}
						s.recordRequestMetrics(start, err)
					} else {
						commentID, err := s.getRandomTopLevelComment(recordID)
						if err != nil {
							continue
						}

						data := map[string]interface{}{
							"parentCommentId": commentID,
							"author":          user.Username,
							"text":            fmt.Sprintf("Reply from %s at %s", user.Username, time.Now().Format(time.RFC3339)),
						}

						start := time.Now()
						_, err = s.makeRequest("POST", "/comments/replies", data)
						if err != nil {
							log.Printf("Debug: Worker %d failed to create reply: %v", workerID, err)
						} else {
							s.stats.mu.Lock()
							s.stats.TotalComments++
							s.stats.mu.Unlock()
							log.Printf("Created reply by user %s", user.Username)
						}
						s.recordRequestMetrics(start, err)
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(commentJobs)
			wg.Wait()
			return
		case <-ticker.C:
			s.mu.RLock()
			for _, user := range s.users {
				if user.IsConnected {
					select {
					case commentJobs <- user:
					default: // Don't block if channel is full
					}
				}
			}
			s.mu.RUnlock()
		}
	}
}

func (s *EnhancedSimulator) simulateFeedFetches(ctx context.Context) {
	log.Printf("Starting feed fetch simulation...")

	tickInterval := 500 * time.Millisecond
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	const numWorkers = 5
	feedJobs := make(chan *SimulatedUser, s.config.NumUsers)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for user := range feedJobs {
				if !user.IsConnected || len(user.Following) == 0 {
					continue
				}

				if rand.Float64() < (s.config.FeedFrequency/3600.0)/2.0 {
					endpoint := fmt.Sprintf("/feed?user=%s", user.Username)

					// Half the fetches apply a filter
					if rand.Float64() < 0.5 {
						emotion := simEmotions[rand.Intn(len(simEmotions))]
						timeRange := simTimeRanges[rand.Intn(len(simTimeRanges))]
						endpoint = fmt.Sprintf("/feed?user=%s&emotion=%s&timeRange=%s",
							user.Username, emotion, timeRange)
					}

					start := time.Now()
					_, err := s.makeRequest("GET", endpoint, nil)
					if err != nil {
						log.Printf("Debug: Worker %d failed to fetch feed: %v", workerID, err)
					} else {
						s.stats.mu.Lock()
						s.stats.TotalFeedFetches++
						s.stats.mu.Unlock()
					}
					s.recordRequestMetrics(start, err)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(feedJobs)
			wg.Wait()
			return
		case <-ticker.C:
			s.mu.RLock()
			for _, user := range s.users {
				if user.IsConnected {
					select {
					case feedJobs <- user:
					default: // Don't block if channel is full
					}
				}
			}
			s.mu.RUnlock()
		}
	}
}

// Helper functions

func (s *EnhancedSimulator) getRandomRecordFromFeed(user *SimulatedUser) (string, error) {
	if len(user.Following) == 0 {
		return "", fmt.Errorf("no follows")
	}

	resp, err := s.makeRequest("GET", fmt.Sprintf("/feed?user=%s", user.Username), nil)
	if err != nil {
		return "", err
	}

	// First try to parse as error response
	var errorResp ErrorResponse
	if err := json.Unmarshal(resp, &errorResp); err == nil && errorResp.Code != "" {
		return "", fmt.Errorf("feed request failed: %s", errorResp.Message)
	}

	var records []*models.MoodRecord
	if err := json.Unmarshal(resp, &records); err != nil {
		return "", fmt.Errorf("failed to parse feed: %v", err)
	}

	if len(records) == 0 {
		return "", fmt.Errorf("empty feed for %s", user.Username)
	}

	return records[rand.Intn(len(records))].ID, nil
}

func (s *EnhancedSimulator) getRandomTopLevelComment(recordID string) (string, error) {
	resp, err := s.makeRequest("GET", fmt.Sprintf("/comments?recordId=%s", recordID), nil)
	if err != nil {
		return "", err
	}

	var comments []*models.CommentNode
	if err := json.Unmarshal(resp, &comments); err != nil {
		return "", err
	}

	if len(comments) == 0 {
		return "", fmt.Errorf("no comments found")
	}

	return comments[rand.Intn(len(comments))].ID, nil
}
