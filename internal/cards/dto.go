package cards

import (
	"time"

	"github.com/google/uuid"

	"github.com/garzamfg/shopfloor-backend/pkg/enums"
	"github.com/garzamfg/shopfloor-backend/pkg/lifecycle"
)

// UpdateCardInput carries the editable fields of a production card. Nil means
// leave unchanged.
type UpdateCardInput struct {
	Notes   *string    `json:"notes,omitempty"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

// CardFilters narrows shop floor board listings. AsOf anchors the overdue
// comparison; zero means now.
type CardFilters struct {
	Status   *lifecycle.Status
	Priority *enums.CardPriority
	OrderID  *uuid.UUID
	ModelID  *uuid.UUID
	Overdue  bool
	AsOf     time.Time
	Query    string
}

// CardStats is the shop floor rollup shown on the board header.
type CardStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Paused     int64 `json:"paused"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	Overdue    int64 `json:"overdue"`
}
