package myevents

import "time"

// EventEnvelope is the outbox record of an event that still has to be (or has been) published
type EventEnvelope struct {
	UID           string
	CreatedAt     time.Time
	Topic         string
	AggregateUID  string
	EventTypeName string
	EventPayload  string `datastore:",noindex"`
	Published     bool
	PublishedAt   time.Time
}

func (e EventEnvelope) String() string {
	return e.Topic + "." + e.EventTypeName + "." + e.AggregateUID
}

// Event is anything that can be published; the aggregate name groups the events of one checkout session
type Event interface {
	GetEventTypeName() string
	GetAggregateName() string
}
