// Package shared contains common domain types, errors, and events.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the observability side of the system.
// Events are informational: no state change depends on a subscriber running.
const (
	// Doubt lifecycle
	EventDoubtCreated  EventType = "doubt.created"
	EventDoubtResolved EventType = "doubt.resolved"
	EventDoubtReopened EventType = "doubt.reopened"
	EventDoubtDeleted  EventType = "doubt.deleted"

	// Comments
	EventCommentAdded EventType = "comment.added"

	// Notifications
	EventNotificationCreated EventType = "notification.created"
	EventNotificationRead    EventType = "notification.read"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Doubt Events
// ═══════════════════════════════════════════════════════════════════════════

// DoubtCreatedEvent is emitted when a student posts a new doubt.
type DoubtCreatedEvent struct {
	BaseEvent
	OwnerID string `json:"owner_id"`
	Title   string `json:"title"`
}

// Payload implements Event interface.
func (e DoubtCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"owner_id": e.OwnerID,
		"title":    e.Title,
	}
}

// NewDoubtCreatedEvent creates a new DoubtCreatedEvent.
func NewDoubtCreatedEvent(doubtID, ownerID, title string) DoubtCreatedEvent {
	return DoubtCreatedEvent{
		BaseEvent: NewBaseEvent(EventDoubtCreated, doubtID),
		OwnerID:   ownerID,
		Title:     title,
	}
}

// DoubtResolvedEvent is emitted when a mentor resolves a doubt.
type DoubtResolvedEvent struct {
	BaseEvent
	OwnerID        string `json:"owner_id"`
	MentorID       string `json:"mentor_id"`
	NotificationID string `json:"notification_id,omitempty"`
}

// Payload implements Event interface.
func (e DoubtResolvedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"owner_id":        e.OwnerID,
		"mentor_id":       e.MentorID,
		"notification_id": e.NotificationID,
	}
}

// NewDoubtResolvedEvent creates a new DoubtResolvedEvent.
func NewDoubtResolvedEvent(doubtID, ownerID, mentorID string) DoubtResolvedEvent {
	return DoubtResolvedEvent{
		BaseEvent: NewBaseEvent(EventDoubtResolved, doubtID),
		OwnerID:   ownerID,
		MentorID:  mentorID,
	}
}

// DoubtReopenedEvent is emitted when the owning student reopens a doubt.
type DoubtReopenedEvent struct {
	BaseEvent
	OwnerID string `json:"owner_id"`
}

// Payload implements Event interface.
func (e DoubtReopenedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"owner_id": e.OwnerID,
	}
}

// NewDoubtReopenedEvent creates a new DoubtReopenedEvent.
func NewDoubtReopenedEvent(doubtID, ownerID string) DoubtReopenedEvent {
	return DoubtReopenedEvent{
		BaseEvent: NewBaseEvent(EventDoubtReopened, doubtID),
		OwnerID:   ownerID,
	}
}

// DoubtDeletedEvent is emitted when a doubt is deleted.
type DoubtDeletedEvent struct {
	BaseEvent
}

// Payload implements Event interface.
func (e DoubtDeletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{}
}

// NewDoubtDeletedEvent creates a new DoubtDeletedEvent.
func NewDoubtDeletedEvent(doubtID string) DoubtDeletedEvent {
	return DoubtDeletedEvent{
		BaseEvent: NewBaseEvent(EventDoubtDeleted, doubtID),
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Comment Events
// ═══════════════════════════════════════════════════════════════════════════

// CommentAddedEvent is emitted when a mentor comments on a doubt.
type CommentAddedEvent struct {
	BaseEvent
	DoubtID  string `json:"doubt_id"`
	AuthorID string `json:"author_id"`
}

// Payload implements Event interface.
func (e CommentAddedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"doubt_id":  e.DoubtID,
		"author_id": e.AuthorID,
	}
}

// NewCommentAddedEvent creates a new CommentAddedEvent.
func NewCommentAddedEvent(commentID, doubtID, authorID string) CommentAddedEvent {
	return CommentAddedEvent{
		BaseEvent: NewBaseEvent(EventCommentAdded, commentID),
		DoubtID:   doubtID,
		AuthorID:  authorID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Notification Events
// ═══════════════════════════════════════════════════════════════════════════

// NotificationCreatedEvent is emitted when a notification is persisted.
type NotificationCreatedEvent struct {
	BaseEvent
	RecipientID string `json:"recipient_id"`
	DoubtID     string `json:"doubt_id"`
}

// Payload implements Event interface.
func (e NotificationCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"recipient_id": e.RecipientID,
		"doubt_id":     e.DoubtID,
	}
}

// NewNotificationCreatedEvent creates a new NotificationCreatedEvent.
func NewNotificationCreatedEvent(notificationID, recipientID, doubtID string) NotificationCreatedEvent {
	return NotificationCreatedEvent{
		BaseEvent:   NewBaseEvent(EventNotificationCreated, notificationID),
		RecipientID: recipientID,
		DoubtID:     doubtID,
	}
}

// NotificationReadEvent is emitted when a recipient acknowledges a notification.
type NotificationReadEvent struct {
	BaseEvent
	RecipientID string `json:"recipient_id"`
}

// Payload implements Event interface.
func (e NotificationReadEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"recipient_id": e.RecipientID,
	}
}

// NewNotificationReadEvent creates a new NotificationReadEvent.
func NewNotificationReadEvent(notificationID, recipientID string) NotificationReadEvent {
	return NotificationReadEvent{
		BaseEvent:   NewBaseEvent(EventNotificationRead, notificationID),
		RecipientID: recipientID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
