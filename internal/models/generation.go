package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Generation statuses
const (
	GenerationSuccess = "success"
	GenerationFailed  = "failed"
)

// Params the generator was called with, stored with every generation record
type GenerationParams struct {
	Tone        string  `json:"tone"`
	MaxTweets   int     `json:"max_tweets"`
	Temperature float64 `json:"temperature"`
	Error       string  `json:"error,omitempty"`
}

// Generation is a single generator call log record
// ThreadID is nil for failed calls that produced no thread
type Generation struct {
	ID           int64
	ThreadID     *int64
	UserID       int64
	CreatedAt    time.Time
	Params       GenerationParams
	ProcessingMS int64
	Status       string
}

// GenerationStats aggregates the generation log for one user
type GenerationStats struct {
	TotalThreads    int64
	TotalTweets     int64
	TotalRuns       int64
	SuccessfulRuns  int64
	FailedRuns      int64
	SuccessRate     decimal.Decimal // percentage, 2 decimal places
	AvgProcessingMS decimal.Decimal // 2 decimal places
}
