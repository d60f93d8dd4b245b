package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventNodeEnter EventType = "node_enter"
	EventNodeLeave EventType = "node_leave"
	EventPush      EventType = "push"
	EventPop       EventType = "pop"
	EventResume    EventType = "resume"
)

// StackEvent describes one observable engine action.
type StackEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	StateID   string    `json:"state_id"`
	Graph     string    `json:"graph"`
	Node      string    `json:"node"`
	Trigger   string    `json:"trigger,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability. Nil fields
// are skipped.
type LifecycleHooks struct {
	OnNodeEnter func(context.Context, *StackEvent)
	OnNodeLeave func(context.Context, *StackEvent)
	OnPush      func(context.Context, *StackEvent)
	OnPop       func(context.Context, *StackEvent)
	OnResume    func(context.Context, *StackEvent)
}
