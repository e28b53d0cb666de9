package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/openmohaa/rating-api/internal/models"
)

const (
	defaultBaseURL = "http://localhost:8080"
	ratePath       = "/api/v1/ratings/rate"
	jobsPath       = "/api/v1/ratings/jobs"
)

func ptr(v float64) *float64 { return &v }

// demoMatch is a 2v2 where the allied side, despite the weaker prior, wins.
func demoMatch() models.MatchRequest {
	return models.MatchRequest{
		MatchID: "seed-match-001",
		Teams: []models.TeamInput{
			{
				Rank: 0,
				Players: []models.PlayerInput{
					{ID: "allies-rookie", Mean: ptr(22), StdDev: ptr(7)},
					{ID: "allies-medic", Mean: ptr(24), StdDev: ptr(5), Weight: ptr(0.5)},
				},
			},
			{
				Rank: 1,
				Players: []models.PlayerInput{
					{ID: "axis-veteran", Mean: ptr(30), StdDev: ptr(4)},
					{ID: "axis-sniper"},
				},
			},
		},
	}
}

func main() {
	baseURL := flag.String("url", defaultBaseURL, "rating API base URL")
	async := flag.Bool("async", false, "submit as an async job instead of rating inline")
	flag.Parse()

	payload, err := json.Marshal(demoMatch())
	if err != nil {
		log.Fatalf("Failed to marshal JSON: %v", err)
	}

	path := ratePath
	if *async {
		path = jobsPath
	}

	req, err := http.NewRequest(http.MethodPost, *baseURL+path, bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Response: %s\n", string(body))

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted {
		fmt.Println("Seed match rated")
	} else {
		fmt.Println("Seed match rejected")
	}
}
