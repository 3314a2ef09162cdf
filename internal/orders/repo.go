package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	"github.com/garzamfg/shopfloor-backend/pkg/lifecycle"
	"github.com/garzamfg/shopfloor-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.ManufacturingOrder) (*models.ManufacturingOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) Save(ctx context.Context, order *models.ManufacturingOrder) (*models.ManufacturingOrder, error) {
	if err := r.db.WithContext(ctx).Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ManufacturingOrder, error) {
	var order models.ManufacturingOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ManufacturingOrder{}).Error
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.ManufacturingOrder{})

	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}
	if filters.ModelID != nil {
		qb = qb.Where("model_id = ?", *filters.ModelID)
	}
	if filters.Overdue {
		asOf := filters.AsOf
		if asOf.IsZero() {
			asOf = time.Now().UTC()
		}
		qb = qb.Where("due_date < ? AND status NOT IN ?", asOf, []lifecycle.Status{lifecycle.StatusCompleted, lifecycle.StatusCancelled})
	}
	if filters.DueFrom != nil {
		qb = qb.Where("due_date >= ?", *filters.DueFrom)
	}
	if filters.DueTo != nil {
		qb = qb.Where("due_date <= ?", *filters.DueTo)
	}
	if client := strings.TrimSpace(filters.ClientName); client != "" {
		qb = qb.Where("LOWER(client_name) = ?", strings.ToLower(client))
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(client_name) LIKE ? OR LOWER(model_name) LIKE ? OR LOWER(model_sku) LIKE ?)", pattern, pattern, pattern)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.ManufacturingOrder
	err = qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &OrderList{Orders: rows, NextCursor: nextCursor}, nil
}

// ListActive returns the open queue ordered by nearest due date first.
func (r *repository) ListActive(ctx context.Context, limit int) ([]models.ManufacturingOrder, error) {
	var rows []models.ManufacturingOrder
	err := r.db.WithContext(ctx).
		Where("status IN ?", []lifecycle.Status{lifecycle.StatusPending, lifecycle.StatusInProgress, lifecycle.StatusPaused}).
		Order("due_date ASC").
		Limit(pagination.NormalizeLimit(limit)).
		Find(&rows).Error
	return rows, err
}

func (r *repository) Stats(ctx context.Context) (*OrderStats, error) {
	type statusCount struct {
		Status lifecycle.Status
		Count  int64
	}
	var counts []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.ManufacturingOrder{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&counts).Error
	if err != nil {
		return nil, err
	}

	stats := &OrderStats{}
	for _, row := range counts {
		stats.Total += row.Count
		switch row.Status {
		case lifecycle.StatusPending:
			stats.Pending = row.Count
		case lifecycle.StatusInProgress:
			stats.InProgress = row.Count
		case lifecycle.StatusPaused:
			stats.Paused = row.Count
		case lifecycle.StatusCompleted:
			stats.Completed = row.Count
		case lifecycle.StatusCancelled:
			stats.Cancelled = row.Count
		}
	}

	err = r.db.WithContext(ctx).
		Model(&models.ManufacturingOrder{}).
		Where("due_date < ? AND status NOT IN ?", time.Now().UTC(), []lifecycle.Status{lifecycle.StatusCompleted, lifecycle.StatusCancelled}).
		Count(&stats.Overdue).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
