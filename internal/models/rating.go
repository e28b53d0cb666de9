package models

import "time"

// PlayerInput is one player in a match request. Mean and StdDev default to
// the preset's prior; Weight defaults to 1 (played the whole match).
type PlayerInput struct {
	ID     string   `json:"id" validate:"required,max=128"`
	Mean   *float64 `json:"mean,omitempty"`
	StdDev *float64 `json:"std_dev,omitempty" validate:"omitempty,gt=0"`
	Weight *float64 `json:"weight,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// TeamInput is a team and its finishing rank. Lower ranks are better and
// equal ranks are draws. Rank is ignored for quality requests.
type TeamInput struct {
	Players []PlayerInput `json:"players" validate:"required,min=1,dive"`
	Rank    int           `json:"rank" validate:"gte=0"`
}

// GameOverride replaces individual fields of the selected preset.
type GameOverride struct {
	InitialMean     *float64 `json:"initial_mean,omitempty"`
	InitialStdDev   *float64 `json:"initial_std_dev,omitempty" validate:"omitempty,gt=0"`
	Beta            *float64 `json:"beta,omitempty" validate:"omitempty,gt=0"`
	DynamicsFactor  *float64 `json:"dynamics_factor,omitempty" validate:"omitempty,gte=0"`
	DrawProbability *float64 `json:"draw_probability,omitempty" validate:"omitempty,gte=0,lt=1"`
}

// MatchRequest is the body of the rate, quality and async job endpoints.
type MatchRequest struct {
	MatchID string        `json:"match_id,omitempty"`
	Preset  string        `json:"preset,omitempty"`
	Engine  string        `json:"engine,omitempty" validate:"omitempty,oneof=auto factorgraph twoteam elo-fide elo-gaussian"`
	Game    *GameOverride `json:"game,omitempty"`
	Teams   []TeamInput   `json:"teams" validate:"required,min=2,dive"`
}

// RatingOutput is a posterior rating. Conservative is mean - 3*std_dev.
type RatingOutput struct {
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Conservative float64 `json:"conservative"`
}

type RateResponse struct {
	MatchID            string                  `json:"match_id,omitempty"`
	Ratings            map[string]RatingOutput `json:"ratings"`
	Iterations         int                     `json:"iterations"`
	OutcomeProbability float64                 `json:"outcome_probability"`
	Engine             string                  `json:"engine"`
}

type QualityResponse struct {
	Quality     float64 `json:"quality"`
	LogEvidence float64 `json:"log_evidence"`
	Engine      string  `json:"engine"`
}

type BatchRequest struct {
	Matches []MatchRequest `json:"matches" validate:"required,min=1,dive"`
}

// BatchItem is the outcome of one match of a batch. Exactly one of Result
// and Error is set.
type BatchItem struct {
	Index     int           `json:"index"`
	RequestID string        `json:"request_id"`
	Result    *RateResponse `json:"result,omitempty"`
	Error     string        `json:"error,omitempty"`
}

type BatchResponse struct {
	Results []BatchItem `json:"results"`
	Failed  int         `json:"failed"`
}

// JobStatus is the lifecycle of an async rating job.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

type JobAccepted struct {
	JobID  string    `json:"job_id"`
	Status JobStatus `json:"status"`
}

// JobResult is what is cached for an async job and returned when polling.
type JobResult struct {
	JobID       string        `json:"job_id"`
	Status      JobStatus     `json:"status"`
	Result      *RateResponse `json:"result,omitempty"`
	Error       string        `json:"error,omitempty"`
	SubmittedAt time.Time     `json:"submitted_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

type PresetOutput struct {
	Name            string  `json:"name"`
	InitialMean     float64 `json:"initial_mean"`
	InitialStdDev   float64 `json:"initial_std_dev"`
	Beta            float64 `json:"beta"`
	DynamicsFactor  float64 `json:"dynamics_factor"`
	DrawProbability float64 `json:"draw_probability"`
}
