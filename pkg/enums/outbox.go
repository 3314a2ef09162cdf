package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateInventoryItem      OutboxAggregateType = "inventory_item"
	AggregateManufacturingOrder OutboxAggregateType = "manufacturing_order"
	AggregateProductionCard     OutboxAggregateType = "production_card"
)

// String implements fmt.Stringer.
func (o OutboxAggregateType) String() string {
	return string(o)
}

// OutboxEventType names the domain events rebroadcast to connected clients.
type OutboxEventType string

const (
	EventItemCreated          OutboxEventType = "item.created"
	EventItemUpdated          OutboxEventType = "item.updated"
	EventItemDeleted          OutboxEventType = "item.deleted"
	EventOrderCreated         OutboxEventType = "order.created"
	EventOrderStatusChanged   OutboxEventType = "order.status_changed"
	EventOrderCompleted       OutboxEventType = "order.completed"
	EventOrderUpdated         OutboxEventType = "order.updated"
	EventOrderDeleted         OutboxEventType = "order.deleted"
	EventCardStatusChanged    OutboxEventType = "card.status_changed"
	EventCardCompleted        OutboxEventType = "card.completed"
	EventCardUpdated          OutboxEventType = "card.updated"
	EventCardDeleted          OutboxEventType = "card.deleted"
	EventCardPriorityChanged  OutboxEventType = "card.priority_changed"
	EventComponentCompleted   OutboxEventType = "component.completed"
	EventComponentTimerSynced OutboxEventType = "component.timer_synced"
	EventMaterialUsageUpdated OutboxEventType = "material.usage_updated"
)

// String implements fmt.Stringer.
func (o OutboxEventType) String() string {
	return string(o)
}

// ParseOutboxEventType validates a raw event type string.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	switch OutboxEventType(value) {
	case EventItemCreated, EventItemUpdated, EventItemDeleted,
		EventOrderCreated, EventOrderStatusChanged, EventOrderCompleted,
		EventOrderUpdated, EventOrderDeleted,
		EventCardStatusChanged, EventCardCompleted, EventCardUpdated,
		EventCardDeleted, EventCardPriorityChanged,
		EventComponentCompleted, EventComponentTimerSynced,
		EventMaterialUsageUpdated:
		return OutboxEventType(value), nil
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}
