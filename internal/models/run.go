package models

import (
	"time"

	"github.com/google/uuid"
)

// Run modes.
const (
	ModeAnalyze    = "analyze"
	ModeAutoSearch = "auto-search"
)

// RunResult is the outcome of one fetch-and-rank cycle.
type RunResult struct {
	RunID     uuid.UUID       `json:"runId"`
	Mode      string          `json:"mode"`
	Hashtag   string          `json:"hashtag,omitempty"`
	Profiles  []ScoredProfile `json:"profiles"`
	Errors    []FetchError    `json:"errors"`
	Total     int             `json:"total"`
	ScrapedAt time.Time       `json:"scrapedAt"`
	Message   string          `json:"message,omitempty"`
}
