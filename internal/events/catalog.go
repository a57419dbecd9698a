// Package events provides the catalog change notification bus and its SQLite log.
package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is anything the bus carries and the log stores.
type Event interface {
	EventType() string
	EntityType() string // EntityCatalog or EntityRecord
	EntityID() int64
	OccurredAt() time.Time
}

// BaseEvent carries the envelope fields shared by every event.
type BaseEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity_type"`
	ID        int64     `json:"entity_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityType() string    { return e.Entity }
func (e BaseEvent) EntityID() int64       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps an envelope with the current UTC time.
func NewBaseEvent(eventType, entityType string, entityID int64) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Entity:    entityType,
		ID:        entityID,
		Timestamp: time.Now().UTC(),
	}
}

// Event types.
const (
	EventCatalogChanged = "catalog.changed"
)

// Entity types.
const (
	EntityCatalog = "catalog"
	EntityRecord  = "record"
)

// ChangeReason says which store operation produced a CatalogChanged.
type ChangeReason string

const (
	ReasonLoaded        ChangeReason = "loaded"
	ReasonAdded         ChangeReason = "added"
	ReasonStatusChanged ChangeReason = "status_changed"
	ReasonSeasons       ChangeReason = "seasons_updated"
	ReasonRemoved       ChangeReason = "removed"
)

// CatalogChanged is emitted after every successful catalog persist.
// It carries no record data: subscribers re-query the store.
type CatalogChanged struct {
	BaseEvent
	Reason ChangeReason `json:"reason"`
	Size   int          `json:"size"` // catalog size after the change
}

// NewCatalogChanged builds a CatalogChanged for recordID (0 for whole-catalog changes).
func NewCatalogChanged(reason ChangeReason, recordID int64, size int) *CatalogChanged {
	entity := EntityRecord
	if recordID == 0 {
		entity = EntityCatalog
	}
	return &CatalogChanged{
		BaseEvent: NewBaseEvent(EventCatalogChanged, entity, recordID),
		Reason:    reason,
		Size:      size,
	}
}

// Decode rebuilds a logged event from its payload.
func Decode(raw RawEvent) (Event, error) {
	var e Event
	switch raw.EventType {
	case EventCatalogChanged:
		e = &CatalogChanged{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", raw.EventType)
	}
	if err := json.Unmarshal([]byte(raw.Payload), e); err != nil {
		return nil, fmt.Errorf("decode event %d: %w", raw.ID, err)
	}
	return e, nil
}
