package models

import "time"

// RunStatus is the lifecycle state of a recent run.
type RunStatus string

const (
	RunLoading RunStatus = "loading"
	RunSuccess RunStatus = "success"
	RunError   RunStatus = "error"
)

// Run is one entry of the recent-runs history.
type Run struct {
	ID        string          `json:"id"`
	URL       string          `json:"url"`
	Status    RunStatus       `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Result    *ScrapeResponse `json:"result,omitempty"`
}

// RunUpdate is a partial update applied to a Run. Nil fields are left as is.
type RunUpdate struct {
	Status *RunStatus
	Result *ScrapeResponse
}

// RunsResponse is the response for GET /api/v1/runs.
type RunsResponse struct {
	Runs  []Run `json:"runs"`
	Total int   `json:"total"`
}
