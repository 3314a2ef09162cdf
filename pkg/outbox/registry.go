package outbox

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/garzamfg/shopfloor-backend/pkg/config"
	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	"github.com/garzamfg/shopfloor-backend/pkg/enums"
	"github.com/garzamfg/shopfloor-backend/pkg/outbox/payloads"
)

// EventDescriptor links an event type to its aggregate/topic/payload schema.
type EventDescriptor struct {
	EventType      enums.OutboxEventType
	AggregateType  enums.OutboxAggregateType
	Topic          string
	PayloadFactory func() interface{}
}

// ResolvedEvent is the result of decoding an outbox row.
type ResolvedEvent struct {
	Descriptor EventDescriptor
	Envelope   PayloadEnvelope
	Payload    interface{}
}

// EventRegistry maps each supported event type to its descriptor.
type EventRegistry struct {
	entries map[enums.OutboxEventType]EventDescriptor
}

// NonRetryableError signals the publisher should stop retrying a row.
type NonRetryableError struct {
	Err error
}

// Error implements error.
func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

// Unwrap exposes the wrapped error.
func (e NonRetryableError) Unwrap() error {
	return e.Err
}

// NewNonRetryableError wraps an error to signal no retries.
func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}

// NewEventRegistry builds the registry. All shop floor events flow through the
// single events topic; connected clients filter by event type.
func NewEventRegistry(cfg config.PubSubConfig) (*EventRegistry, error) {
	if cfg.EventsTopic == "" {
		return nil, fmt.Errorf("events topic is required")
	}

	reg := &EventRegistry{entries: make(map[enums.OutboxEventType]EventDescriptor)}
	topic := cfg.EventsTopic

	for _, desc := range []EventDescriptor{
		{
			EventType:      enums.EventItemCreated,
			AggregateType:  enums.AggregateInventoryItem,
			PayloadFactory: func() interface{} { return &payloads.ItemEvent{} },
		},
		{
			EventType:      enums.EventItemUpdated,
			AggregateType:  enums.AggregateInventoryItem,
			PayloadFactory: func() interface{} { return &payloads.ItemEvent{} },
		},
		{
			EventType:      enums.EventItemDeleted,
			AggregateType:  enums.AggregateInventoryItem,
			PayloadFactory: func() interface{} { return &payloads.ItemEvent{} },
		},
		{
			EventType:      enums.EventOrderCreated,
			AggregateType:  enums.AggregateManufacturingOrder,
			PayloadFactory: func() interface{} { return &payloads.OrderCreatedEvent{} },
		},
		{
			EventType:      enums.EventOrderStatusChanged,
			AggregateType:  enums.AggregateManufacturingOrder,
			PayloadFactory: func() interface{} { return &payloads.OrderStatusEvent{} },
		},
		{
			EventType:      enums.EventOrderCompleted,
			AggregateType:  enums.AggregateManufacturingOrder,
			PayloadFactory: func() interface{} { return &payloads.OrderCompletedEvent{} },
		},
		{
			EventType:      enums.EventOrderUpdated,
			AggregateType:  enums.AggregateManufacturingOrder,
			PayloadFactory: func() interface{} { return &payloads.OrderUpdatedEvent{} },
		},
		{
			EventType:      enums.EventOrderDeleted,
			AggregateType:  enums.AggregateManufacturingOrder,
			PayloadFactory: func() interface{} { return &payloads.OrderDeletedEvent{} },
		},
		{
			EventType:      enums.EventCardStatusChanged,
			AggregateType:  enums.AggregateProductionCard,
			PayloadFactory: func() interface{} { return &payloads.CardStatusEvent{} },
		},
		{
			EventType:      enums.EventCardCompleted,
			AggregateType:  enums.AggregateProductionCard,
			PayloadFactory: func() interface{} { return &payloads.CardCompletedEvent{} },
		},
		{
			EventType:      enums.EventCardUpdated,
			AggregateType:  enums.AggregateProductionCard,
			PayloadFactory: func() interface{} { return &payloads.CardUpdatedEvent{} },
		},
		{
			EventType:      enums.EventCardDeleted,
			AggregateType:  enums.AggregateProductionCard,
			PayloadFactory: func() interface{} { return &payloads.CardDeletedEvent{} },
		},
		{
			EventType:      enums.EventCardPriorityChanged,
			AggregateType:  enums.AggregateProductionCard,
			PayloadFactory: func() interface{} { return &payloads.CardPriorityEvent{} },
		},
		{
			EventType:      enums.EventComponentCompleted,
			AggregateType:  enums.AggregateProductionCard,
			PayloadFactory: func() interface{} { return &payloads.ComponentCompletedEvent{} },
		},
		{
			EventType:      enums.EventComponentTimerSynced,
			AggregateType:  enums.AggregateProductionCard,
			PayloadFactory: func() interface{} { return &payloads.ComponentTimerSyncedEvent{} },
		},
		{
			EventType:      enums.EventMaterialUsageUpdated,
			AggregateType:  enums.AggregateProductionCard,
			PayloadFactory: func() interface{} { return &payloads.MaterialUsageEvent{} },
		},
	} {
		desc.Topic = topic
		reg.register(desc)
	}

	return reg, nil
}

func (r *EventRegistry) register(desc EventDescriptor) {
	if desc.PayloadFactory == nil {
		return
	}
	r.entries[desc.EventType] = desc
}

// Resolve validates the row and decodes its typed payload.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	desc, ok := r.entries[event.EventType]
	if !ok {
		return nil, NewNonRetryableError(fmt.Errorf("unsupported event type %s", event.EventType))
	}
	if desc.AggregateType != event.AggregateType {
		return nil, NewNonRetryableError(fmt.Errorf("aggregate mismatch: expected %s got %s", desc.AggregateType, event.AggregateType))
	}
	if event.AggregateID == uuid.Nil {
		return nil, NewNonRetryableError(fmt.Errorf("missing aggregate_id"))
	}

	var envelope PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode envelope: %w", err))
	}

	trimmed := bytes.TrimSpace(envelope.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, NewNonRetryableError(fmt.Errorf("payload missing for %s", event.EventType))
	}

	payload := desc.PayloadFactory()
	if err := json.Unmarshal(envelope.Data, payload); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode %s payload: %w", event.EventType, err))
	}

	return &ResolvedEvent{
		Descriptor: desc,
		Envelope:   envelope,
		Payload:    payload,
	}, nil
}
