package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/garzamfg/shopfloor-backend/pkg/enums"
	"github.com/garzamfg/shopfloor-backend/pkg/lifecycle"
	"github.com/garzamfg/shopfloor-backend/pkg/timetrack"
	"github.com/garzamfg/shopfloor-backend/pkg/types"
)

// ProductionCard is the unit-of-work record for building exactly one physical
// instance of a model within an order. An order of quantity N spawns cards
// numbered 1..N, each carrying its own deep clone of the order's component
// list. The (order_id, card_number) pair is unique.
type ProductionCard struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ux_production_cards_order_number,priority:1"`
	OrderName  string    `gorm:"column:order_name;not null"`
	CardNumber int       `gorm:"column:card_number;not null;uniqueIndex:ux_production_cards_order_number,priority:2"`
	TotalCards int       `gorm:"column:total_cards;not null"`

	ModelID   uuid.UUID `gorm:"column:model_id;type:uuid;not null"`
	ModelName string    `gorm:"column:model_name;not null"`
	ModelSKU  string    `gorm:"column:model_sku;not null"`

	Quantity int                `gorm:"column:quantity;not null;default:1"`
	DueDate  time.Time          `gorm:"column:due_date;not null"`
	Status   lifecycle.Status   `gorm:"column:status;type:production_status;not null;default:'pending'"`
	Priority enums.CardPriority `gorm:"column:priority;type:card_priority;not null;default:'normal'"`

	Components     []types.ComponentProgress `gorm:"column:components;type:jsonb;serializer:json"`
	Notes          *string                   `gorm:"column:notes"`
	EstimatedHours float64                   `gorm:"column:estimated_hours;not null;default:0"`
	StartedAt      *time.Time                `gorm:"column:started_at"`
	CompletedAt    *time.Time                `gorm:"column:completed_at"`
	Timer          *timetrack.Tracker        `gorm:"column:timer;type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IsOverdue reports the derived overdue state; it is computed, never stored.
func (c ProductionCard) IsOverdue(now time.Time) bool {
	return c.DueDate.Before(now) && !c.Status.IsTerminal()
}
