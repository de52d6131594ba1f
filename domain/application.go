package domain

import "time"

// ApplicationEvent is published after a user applies to a job.
type ApplicationEvent struct {
	Username  string    `json:"username"`
	JobID     int       `json:"jobId"`
	AppliedAt time.Time `json:"appliedAt"`
}
