package domain

import "time"

// ActivityLog records one top-level session of a graph.
type ActivityLog struct {
	ID        string     `json:"id"`
	Graph     string     `json:"graph"`
	Course    string     `json:"course,omitempty"`
	Owner     string     `json:"owner,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// ActivityEvent records one visit to a logged node. Opened on entry,
// closed on exit with the name of the event that caused it.
type ActivityEvent struct {
	ID         string     `json:"id"`
	ActivityID string     `json:"activity_id"`
	Node       string     `json:"node"`
	Owner      string     `json:"owner,omitempty"`
	StateID    string     `json:"state_id,omitempty"`
	ExitEvent  string     `json:"exit_event,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}
