package job

import "linksift/internal/core/links"

// Job is the internal storage shape for an async discovery job.
type Job struct {
	JobID   string    `json:"job_id"`
	Type    Type      `json:"type"`
	Status  Status    `json:"status"`
	Results JobResult `json:"results,omitempty"`
}

type Type string

const (
	TypeDiscover Type = "discover"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type JobResult struct {
	DiscoverResult *DiscoverResult `json:"discover_result,omitempty"`
}

// DiscoverResult is the stored outcome of a discovery job. Records carry
// the formatted output rows; Error is set on failed jobs.
type DiscoverResult struct {
	URL     string         `json:"url"`
	Records []links.Record `json:"records,omitempty"`
	Stats   *Stats         `json:"stats,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type Stats struct {
	TotalInternal int `json:"total_internal"`
	TotalExternal int `json:"total_external"`
	TotalLinks    int `json:"total_links"`
}
