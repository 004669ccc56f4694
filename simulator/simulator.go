package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

type SimConfig struct {
	NumUsers         int
	SimulationTime   time.Duration
	RecordFrequency  float64
	CommentFrequency float64
	FeedFrequency    float64
	DisconnectRate   float64
	ReconnectRate    float64
	ZipfS            float64
	EngineURL        string
}

type SimulationStats struct {
	mu               sync.RWMutex
	StartTime        time.Time
	TotalRequests    int64
	SuccessRequests  int64
	FailedRequests   int64
	AverageLatency   time.Duration
	ActiveUsers      int
	TotalRecords     int
	TotalComments    int
	TotalFeedFetches int
	RequestLatencies []time.Duration
}

// Track simulated users with their client-side state
type SimulatedUser struct {
	Username    string
	IsConnected bool
	LastActive  time.Time
	Records     []string // IDs of records created by this user
	Following   []string // Usernames this user follows
}

type EnhancedSimulator struct {
	config SimConfig
	stats  *SimulationStats
	users  []*SimulatedUser
	client *http.Client
	mu     sync.RWMutex
}

func NewEnhancedSimulator(config SimConfig) *EnhancedSimulator {
	return &EnhancedSimulator{
		config: config,
		stats: &SimulationStats{
			StartTime:        time.Now(),
			RequestLatencies: make([]time.Duration, 0),
		},
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *EnhancedSimulator) Run(ctx context.Context) error {
	log.Printf("Starting enhanced simulation...")

	// Initialize users and the follow graph first
	if err := s.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %v", err)
	}

	// Start concurrent simulations
	var wg sync.WaitGroup

	// Start activities
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.SimulateActivities(ctx); err != nil {
			log.Printf("Activities simulation error: %v", err)
		}
	}()

	// Simulate connection states
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.simulateConnectivity(ctx)
	}()

	// Collect metrics
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.collectMetrics(ctx)
	}()

	wg.Wait()
	return nil
}

func (s *EnhancedSimulator) initialize(ctx context.Context) error {
	log.Printf("Starting initialization...")

	// Phase 1: Create initial user base
	log.Printf("Phase 1: Creating %d users...", s.config.NumUsers)
	if err := s.createInitialUsers(ctx); err != nil {
		return fmt.Errorf("failed to create initial users: %v", err)
	}

	// Phase 2: Build a follow graph with Zipf-distributed popularity
	log.Printf("Phase 2: Building follow graph...")
	if err := s.buildFollowGraph(ctx); err != nil {
		return fmt.Errorf("failed to build follow graph: %v", err)
	}

	log.Printf("Initialization completed successfully")
	return nil
}

func (s *EnhancedSimulator) createInitialUsers(ctx context.Context) error {
	s.users = make([]*SimulatedUser, 0, s.config.NumUsers)
	s.mu.Lock()
	defer s.mu.Unlock()

	// Limit the number of workers to not overwhelm the actor system
	numWorkers := 5
	userJobs := make(chan int, numWorkers)
	results := make(chan *SimulatedUser, numWorkers)

	var wg sync.WaitGroup

	// Rate limiter shared by all workers
	rateLimiter := time.NewTicker(200 * time.Millisecond)
	defer rateLimiter.Stop()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			client := &http.Client{
				Timeout: 5 * time.Second,
			}

			for userNum := range userJobs {
				<-rateLimiter.C

				user := &SimulatedUser{
					Username:    fmt.Sprintf("user_%d", userNum),
					IsConnected: true,
					Records:     make([]string, 0),
					Following:   make([]string, 0),
				}

				// Exponential backoff on retries
				var err error
				for retries := 0; retries < 3; retries++ {
					if err = s.registerUserWithClient(ctx, user, client); err == nil {
						results <- user
						break
					}
					backoffDuration := time.Duration(math.Pow(2, float64(retries))) * time.Second
					log.Printf("Worker %d: Retry %d for user %s after %v delay",
						workerID, retries+1, user.Username, backoffDuration)
					time.Sleep(backoffDuration)
				}

				if err != nil {
					log.Printf("Worker %d: Failed to register user %s after retries: %v",
						workerID, user.Username, err)
				}
			}
		}(i)
	}

	// Send jobs to workers
	go func() {
		for i := 0; i < s.config.NumUsers; i++ {
			userJobs <- i
		}
		close(userJobs)
	}()

	// Close results when workers are done
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results and track progress
	successCount := 0
	progressTicker := time.NewTicker(2 * time.Second)
	defer progressTicker.Stop()

	for user := range results {
		s.users = append(s.users, user)
		successCount++

		select {
		case <-progressTicker.C:
			log.Printf("Progress: %d/%d users created (%.2f%%)",
				successCount, s.config.NumUsers,
				float64(successCount)/float64(s.config.NumUsers)*100)
		default:
		}

		time.Sleep(50 * time.Millisecond)
	}

	log.Printf("Successfully created %d users", len(s.users))
	return nil
}

func (s *EnhancedSimulator) registerUserWithClient(ctx context.Context, user *SimulatedUser, client *http.Client) error {
	// First verify if the user already exists
	existingResp, err := s.makeRequestWithClient(client, "GET",
		fmt.Sprintf("/users?username=%s", user.Username), nil)
	if err == nil {
		var existingUser struct {
			Username string `json:"username"`
		}
		if json.Unmarshal(existingResp, &existingUser) == nil && existingUser.Username == user.Username {
			return nil // Already registered
		}
	}

	data := map[string]interface{}{
		"username": user.Username,
	}

	resp, err := s.makeRequestWithClient(client, "POST", "/users", data)
	if err != nil {
		return fmt.Errorf("failed to register user: %v", err)
	}

	var result struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to parse registration response: %v", err)
	}

	// Give the actor system time to process the registration
	time.Sleep(200 * time.Millisecond)

	return nil
}

// buildFollowGraph sends follow requests with the lower-numbered users acting
// as the popular accounts, then accepts each request on the target's behalf so
// feeds have content to aggregate.
func (s *EnhancedSimulator) buildFollowGraph(ctx context.Context) error {
	zipf := rand.NewZipf(rand.New(rand.NewSource(time.Now().UnixNano())),
		s.config.ZipfS, 1, uint64(maxInt(len(s.users)-1, 1)))

	followCounts := make([]int, len(s.users))

	for _, user := range s.users {
		// Each user follows 1 to 10 accounts, biased toward popular ones
		numFollows := (int(zipf.Uint64()) % 10) + 1

		for i := 0; i < numFollows; i++ {
			targetIdx := int(zipf.Uint64()) % len(s.users)
			target := s.users[targetIdx]
			if target.Username == user.Username || contains(user.Following, target.Username) {
				continue
			}

			if err := s.followAndAccept(ctx, user.Username, target.Username); err != nil {
				log.Printf("Failed to establish follow %s -> %s: %v", user.Username, target.Username, err)
				continue
			}
			user.Following = append(user.Following, target.Username)
			followCounts[targetIdx]++
		}

		time.Sleep(50 * time.Millisecond)
	}

	log.Printf("\nFollow Graph Statistics:")
	for i, count := range followCounts {
		if count > 0 {
			log.Printf("%s: %d followers", s.users[i].Username, count)
		}
	}

	return nil
}

func (s *EnhancedSimulator) followAndAccept(ctx context.Context, follower, target string) error {
	data := map[string]interface{}{
		"follower": follower,
		"target":   target,
	}

	resp, err := s.makeRequest("POST", "/follow", data)
	if err != nil {
		return fmt.Errorf("failed to send follow request: %v", err)
	}

	var request struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &request); err != nil {
		return fmt.Errorf("failed to parse follow request response: %v", err)
	}

	acceptData := map[string]interface{}{
		"requestId": request.ID,
		"target":    target,
		"accept":    true,
	}

	if _, err := s.makeRequest("POST", "/follow/respond", acceptData); err != nil {
		return fmt.Errorf("failed to accept follow request: %v", err)
	}

	return nil
}

// Helper method to make HTTP requests
func (s *EnhancedSimulator) makeRequest(method, endpoint string, data interface{}) ([]byte, error) {
	return s.makeRequestWithClient(s.client, method, endpoint, data)
}

func (s *EnhancedSimulator) makeRequestWithClient(client *http.Client, method, endpoint string, data interface{}) ([]byte, error) {
	var body []byte
	var err error

	if data != nil {
		body, err = json.Marshal(data)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, s.config.EngineURL+endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	s.recordRequestMetrics(start, err)

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (s *EnhancedSimulator) simulateConnectivity(ctx context.Context) {
	log.Printf("Starting connectivity simulation...")
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			for _, user := range s.users {
				if user.IsConnected {
					if rand.Float64() < s.config.DisconnectRate {
						user.IsConnected = false
						s.stats.mu.Lock()
						s.stats.ActiveUsers--
						s.stats.mu.Unlock()
					}
				} else {
					if rand.Float64() < s.config.ReconnectRate {
						user.IsConnected = true
						s.stats.mu.Lock()
						s.stats.ActiveUsers++
						s.stats.mu.Unlock()
					}
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *EnhancedSimulator) recordRequestMetrics(start time.Time, err error) {
	s.stats.mu.Lock()
	defer s.stats.mu.Unlock()

	latency := time.Since(start)
	s.stats.TotalRequests++
	s.stats.RequestLatencies = append(s.stats.RequestLatencies, latency)

	if err != nil {
		s.stats.FailedRequests++
	} else {
		s.stats.SuccessRequests++
	}

	totalLatency := s.stats.AverageLatency * time.Duration(s.stats.TotalRequests-1)
	s.stats.AverageLatency = (totalLatency + latency) / time.Duration(s.stats.TotalRequests)
}

func (s *EnhancedSimulator) collectMetrics(ctx context.Context) {
	log.Printf("Starting metrics collection...")
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.stats.mu.RLock()
			elapsed := time.Since(s.stats.StartTime)
			requestRate := float64(s.stats.TotalRequests) / elapsed.Seconds()
			successRate := 0.0
			if s.stats.TotalRequests > 0 {
				successRate = float64(s.stats.SuccessRequests) / float64(s.stats.TotalRequests) * 100
			}

			activeUsers := 0
			s.mu.RLock()
			for _, user := range s.users {
				if user.IsConnected {
					activeUsers++
				}
			}
			s.mu.RUnlock()

			s.stats.ActiveUsers = activeUsers

			log.Printf("\nSimulation Metrics (%.1f seconds elapsed):", elapsed.Seconds())
			log.Printf("- Request Rate: %.2f req/sec", requestRate)
			log.Printf("- Success Rate: %.1f%%", successRate)
			log.Printf("- Average Latency: %v", s.stats.AverageLatency)
			log.Printf("- Active Users: %d/%d", activeUsers, len(s.users))
			log.Printf("- Total Records: %d", s.stats.TotalRecords)
			log.Printf("- Total Comments: %d", s.stats.TotalComments)
			log.Printf("- Total Feed Fetches: %d", s.stats.TotalFeedFetches)
			log.Printf("- Failed Requests: %d", s.stats.FailedRequests)

			s.stats.mu.RUnlock()
		}
	}
}

// SimulationMetrics holds the metrics of the simulation
type SimulationMetrics struct {
	TotalUsers        int
	ActiveUsers       int
	TotalRecords      int
	TotalComments     int
	TotalFeedFetches  int
	AverageLatency    time.Duration
	ErrorCount        int
	RequestsPerSecond float64
}

// GetMetrics returns the current simulation metrics
func (s *EnhancedSimulator) GetMetrics() SimulationMetrics {
	s.stats.mu.RLock()
	defer s.stats.mu.RUnlock()

	elapsed := time.Since(s.stats.StartTime)
	requestRate := float64(s.stats.TotalRequests) / elapsed.Seconds()

	return SimulationMetrics{
		TotalUsers:        len(s.users),
		ActiveUsers:       s.stats.ActiveUsers,
		TotalRecords:      s.stats.TotalRecords,
		TotalComments:     s.stats.TotalComments,
		TotalFeedFetches:  s.stats.TotalFeedFetches,
		AverageLatency:    s.stats.AverageLatency,
		ErrorCount:        int(s.stats.FailedRequests),
		RequestsPerSecond: requestRate,
	}
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
