package domain

import "time"

// Job tracks one submission of a job-based tool while the vendor works on it.
type Job struct {
	JobID       string            `json:"job_id"`
	UserID      string            `json:"user_id"`
	Tool        string            `json:"tool"`
	VendorJobID string            `json:"vendor_job_id"`
	Status      string            `json:"status"`
	Prompt      string            `json:"prompt,omitempty"`
	Payload     map[string]string `json:"payload,omitempty"`
	Seed        any               `json:"seed,omitempty"`
	CreditCost  int               `json:"credit_cost"`
	ResultURLs  []string          `json:"result_urls,omitempty"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	// Deadline is when polling gives up; the sweeper times out jobs left
	// open past it.
	Deadline    time.Time  `json:"deadline"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusSuccess    = "success"
	StatusFailed     = "failed"
	StatusTimeout    = "timeout"
)

func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusSuccess, StatusFailed, StatusTimeout:
		return true
	}
	return false
}

// IsTerminal reports whether no further polling will change the job.
func IsTerminal(s string) bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusTimeout:
		return true
	}
	return false
}

// Open reports whether j should still be polling.
func (j *Job) Open() bool {
	return !IsTerminal(j.Status)
}
