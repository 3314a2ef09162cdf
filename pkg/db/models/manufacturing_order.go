package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/garzamfg/shopfloor-backend/pkg/lifecycle"
	"github.com/garzamfg/shopfloor-backend/pkg/timetrack"
	"github.com/garzamfg/shopfloor-backend/pkg/types"
)

// ManufacturingOrder is a bulk request to build Quantity units of a model for
// a client. The component list is owned by value: each entry is a snapshot
// resolved at creation time and never shared with production cards.
type ManufacturingOrder struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ModelID   uuid.UUID `gorm:"column:model_id;type:uuid;not null"`
	ModelName string    `gorm:"column:model_name;not null"`
	ModelSKU  string    `gorm:"column:model_sku;not null"`

	Quantity   int              `gorm:"column:quantity;not null"`
	ClientName string           `gorm:"column:client_name;not null"`
	DueDate    time.Time        `gorm:"column:due_date;not null"`
	Status     lifecycle.Status `gorm:"column:status;type:production_status;not null;default:'pending'"`

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
func (o ManufacturingOrder) IsOverdue(now time.Time) bool {
	return o.DueDate.Before(now) && !o.Status.IsTerminal()
}
