// Package events records what happens during a run as an append-only journal
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is one journal entry of a run. Version is its 1-based position in
// the run's stream.
type Event interface {
	Type() string
	StreamID() string
	Data() interface{}
	Timestamp() time.Time
	Version() int
}

// EventHandler reacts to journal entries as they are appended
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore keeps one stream of events per run
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// RunEvent is the Event implementation stored by the journal
type RunEvent struct {
	Kind     string
	RunID    string
	Payload  interface{}
	At       time.Time
	Sequence int
}

func (e RunEvent) Type() string { return e.Kind }
func (e RunEvent) StreamID() string { return e.RunID }
func (e RunEvent) Data() interface{} { return e.Payload }
func (e RunEvent) Timestamp() time.Time { return e.At }
func (e RunEvent) Version() int { return e.Sequence }

// NewEvent stamps a payload with the current UTC time. The store assigns
// the sequence number on append.
func NewEvent(eventType, runID string, data interface{}) Event {
	return RunEvent{
		Kind:    eventType,
		RunID:   runID,
		Payload: data,
		At:      time.Now().UTC(),
	}
}

// NewRunID returns the stream ID of a new run
func NewRunID() string {
	return uuid.NewString()
}
