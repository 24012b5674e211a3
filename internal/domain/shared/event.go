package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents something that happened in the domain
type DomainEvent interface {
	GetEventID() uuid.UUID
	EventType() string
	GetAggregateType() string
	GetAggregateID() uuid.UUID
	GetTenantID() uuid.UUID
	GetOccurredAt() time.Time
}

// BaseDomainEvent provides common fields for domain events
type BaseDomainEvent struct {
	ID            uuid.UUID `json:"event_id"`
	Type          string    `json:"event_type"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   uuid.UUID `json:"aggregate_id"`
	TenantID      uuid.UUID `json:"tenant_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType, aggregateType string, aggregateID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:            uuid.New(),
		Type:          eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		TenantID:      tenantID,
		OccurredAt:    time.Now(),
	}
}

// GetEventID returns the unique event ID
func (e BaseDomainEvent) GetEventID() uuid.UUID { return e.ID }

// EventType returns the event type name
func (e BaseDomainEvent) EventType() string { return e.Type }

// GetAggregateType returns the kind of aggregate that raised the event
func (e BaseDomainEvent) GetAggregateType() string { return e.AggregateType }

// GetAggregateID returns the ID of the aggregate that raised the event
func (e BaseDomainEvent) GetAggregateID() uuid.UUID { return e.AggregateID }

// GetTenantID returns the tenant the event belongs to
func (e BaseDomainEvent) GetTenantID() uuid.UUID { return e.TenantID }

// GetOccurredAt returns when the event occurred
func (e BaseDomainEvent) GetOccurredAt() time.Time { return e.OccurredAt }
