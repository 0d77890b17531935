package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
	password    string
	totalSeeded int
)

// Metrics
var (
	totalRequests uint64
	success201    uint64 // Transfers committed
	fail422       uint64 // Rejections (insufficient funds etc.)
	failOther     uint64
)

// tokens caches one bearer token per source account.
var tokens sync.Map

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.StringVar(&workload, "workload", "uniform", "Workload type: uniform | hotspot")
	flag.StringVar(&password, "password", "seedpass1", "Password of the seeded accounts")
	flag.IntVar(&totalSeeded, "accounts", 1000, "Number of seeded accounts (numbers start at 10001)")
}

func main() {
	flag.Parse()
	log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s", workload, concurrency, duration)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, start)
	}

	wg.Wait()
	printResults(time.Since(start))
}

func worker(wg *sync.WaitGroup, start time.Time) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}

	for time.Since(start) < duration {
		from, to := generateAccounts()

		token, err := tokenFor(client, from)
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		payload := map[string]interface{}{
			"to_account_number": to,
			"amount":            "1.00",
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", targetURL+"/api/v1/transfers", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		switch resp.StatusCode {
		case 201:
			atomic.AddUint64(&success201, 1)
		case 422:
			atomic.AddUint64(&fail422, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
		resp.Body.Close()
	}
}

// tokenFor logs the source account in once and reuses the token.
func tokenFor(client *http.Client, account int64) (string, error) {
	if cached, ok := tokens.Load(account); ok {
		return cached.(string), nil
	}
	payload := map[string]interface{}{
		"account_number": account,
		"password":       password,
	}
	body, _ := json.Marshal(payload)
	resp, err := client.Post(targetURL+"/api/v1/login", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("login for %d returned %d", account, resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	tokens.Store(account, out.Token)
	return out.Token, nil
}

func generateAccounts() (int64, int64) {
	base := int64(10_001)

	if workload == "hotspot" {
		// Hotspot: 90% of traffic bounces between the first two accounts
		if rand.Float32() < 0.90 {
			if rand.Float32() < 0.5 {
				return base, base + 1
			}
			return base + 1, base
		}
	}

	// Uniform Random
	a := rand.Intn(totalSeeded)
	b := rand.Intn(totalSeeded)
	for a == b {
		b = rand.Intn(totalSeeded)
	}
	return base + int64(a), base + int64(b)
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)
	s201 := atomic.LoadUint64(&success201)
	f422 := atomic.LoadUint64(&fail422)
	fErr := atomic.LoadUint64(&failOther)

	tps := float64(total) / d.Seconds()

	results := map[string]interface{}{
		"workload":       workload,
		"duration_sec":   d.Seconds(),
		"total_requests": total,
		"throughput_tps": tps,
		"committed":      s201,
		"rejected":       f422,
		"errors":         fErr,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	// Also save to file
	filename := fmt.Sprintf("results_%s.json", workload)
	file, _ := os.Create(filename)
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
