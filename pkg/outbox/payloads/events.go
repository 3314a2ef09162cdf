package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garzamfg/shopfloor-backend/pkg/enums"
	"github.com/garzamfg/shopfloor-backend/pkg/lifecycle"
)

// ItemEvent carries the fields clients need to refresh a catalog row.
type ItemEvent struct {
	ItemID    uuid.UUID        `json:"itemId"`
	SKU       string           `json:"sku"`
	Name      string           `json:"name"`
	ItemType  enums.ItemType   `json:"itemType"`
	Status    enums.ItemStatus `json:"status"`
	Stock     int              `json:"stock"`
	UnitPrice decimal.Decimal  `json:"unitPrice"`
}

// OrderCreatedEvent signals a new manufacturing order entered the queue.
type OrderCreatedEvent struct {
	OrderID   uuid.UUID `json:"orderId"`
	ModelID   uuid.UUID `json:"modelId"`
	ModelName string    `json:"modelName"`
	Quantity  int       `json:"quantity"`
	DueDate   time.Time `json:"dueDate"`
	CardCount int       `json:"cardCount"`
}

// OrderStatusEvent is emitted on every order lifecycle transition.
type OrderStatusEvent struct {
	OrderID        uuid.UUID        `json:"orderId"`
	PreviousStatus lifecycle.Status `json:"previousStatus"`
	Status         lifecycle.Status `json:"status"`
	OccurredAt     time.Time        `json:"occurredAt"`
}

// OrderCompletedEvent surfaces the totals when an order finishes.
type OrderCompletedEvent struct {
	OrderID          uuid.UUID `json:"orderId"`
	ModelID          uuid.UUID `json:"modelId"`
	Quantity         int       `json:"quantity"`
	TotalTimeMinutes int       `json:"totalTimeMinutes"`
	StockUpdated     bool      `json:"stockUpdated"`
}

// OrderUpdatedEvent reports a mutable-field edit on a pending or running order.
type OrderUpdatedEvent struct {
	OrderID uuid.UUID `json:"orderId"`
}

// OrderDeletedEvent reports a cancelled-and-removed order.
type OrderDeletedEvent struct {
	OrderID uuid.UUID `json:"orderId"`
}

// CardStatusEvent is emitted on every production card lifecycle transition.
type CardStatusEvent struct {
	CardID         uuid.UUID        `json:"cardId"`
	OrderID        uuid.UUID        `json:"orderId"`
	CardNumber     int              `json:"cardNumber"`
	PreviousStatus lifecycle.Status `json:"previousStatus"`
	Status         lifecycle.Status `json:"status"`
	OccurredAt     time.Time        `json:"occurredAt"`
}

// CardCompletedEvent reports a finished card plus order rollup progress.
type CardCompletedEvent struct {
	CardID           uuid.UUID `json:"cardId"`
	OrderID          uuid.UUID `json:"orderId"`
	CardNumber       int       `json:"cardNumber"`
	TotalTimeMinutes int       `json:"totalTimeMinutes"`
	CompletedCards   int       `json:"completedCards"`
	TotalCards       int       `json:"totalCards"`
	StockUpdated     bool      `json:"stockUpdated"`
}

// CardUpdatedEvent reports edits to notes, due date, or component checklists.
type CardUpdatedEvent struct {
	CardID  uuid.UUID `json:"cardId"`
	OrderID uuid.UUID `json:"orderId"`
}

// CardDeletedEvent reports a removed card.
type CardDeletedEvent struct {
	CardID  uuid.UUID `json:"cardId"`
	OrderID uuid.UUID `json:"orderId"`
}

// CardPriorityEvent reports a priority change so boards can resort.
type CardPriorityEvent struct {
	CardID   uuid.UUID          `json:"cardId"`
	OrderID  uuid.UUID          `json:"orderId"`
	Priority enums.CardPriority `json:"priority"`
}

// ComponentCompletedEvent reports a component checklist line flipping done.
type ComponentCompletedEvent struct {
	ParentID      uuid.UUID `json:"parentId"`
	AggregateType string    `json:"aggregateType"`
	ComponentID   uuid.UUID `json:"componentId"`
	Completed     bool      `json:"completed"`
}

// ComponentTimerSyncedEvent mirrors a component timer snapshot to clients.
type ComponentTimerSyncedEvent struct {
	ParentID       uuid.UUID `json:"parentId"`
	ComponentID    uuid.UUID `json:"componentId"`
	ElapsedMinutes int       `json:"elapsedMinutes"`
	IsPaused       bool      `json:"isPaused"`
}

// MaterialUsageEvent reports actual material quantities recorded on a component.
type MaterialUsageEvent struct {
	ParentID     uuid.UUID `json:"parentId"`
	ComponentID  uuid.UUID `json:"componentId"`
	MaterialID   uuid.UUID `json:"materialId"`
	QuantityUsed float64   `json:"quantityUsed"`
}
