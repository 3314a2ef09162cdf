package cards

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

// boardOrder sorts the shop floor board: urgent work first, then the nearest
// due date, then stable card numbering within an order.
const boardOrder = `CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'low' THEN 3 ELSE 2 END, due_date ASC, card_number ASC`

type repository struct {
	db *gorm.DB
}

// NewRepository builds a production card repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBatch(ctx context.Context, cards []models.ProductionCard) error {
	if len(cards) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&cards).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error) {
	var card models.ProductionCard
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *repository) Save(ctx context.Context, card *models.ProductionCard) (*models.ProductionCard, error) {
	if err := r.db.WithContext(ctx).Save(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProductionCard{}).Error
}

func (r *repository) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.ProductionCard{}).Error
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.ProductionCard, error) {
	var rows []models.ProductionCard
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("card_number ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) List(ctx context.Context, filters CardFilters, limit int) ([]models.ProductionCard, error) {
	qb := r.applyFilters(r.db.WithContext(ctx).Model(&models.ProductionCard{}), filters)

	var rows []models.ProductionCard
	err := qb.Order(boardOrder).Limit(pagination.NormalizeLimit(limit)).Find(&rows).Error
	return rows, err
}

func (r *repository) CountCompletedByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductionCard{}).
		Where("order_id = ? AND status = ?", orderID, lifecycle.StatusCompleted).
		Count(&count).Error
	return count, err
}

func (r *repository) Stats(ctx context.Context) (*CardStats, error) {
	type statusCount struct {
		Status lifecycle.Status
		Count  int64
	}
	var counts []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.ProductionCard{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&counts).Error
	if err != nil {
		return nil, err
	}

	stats := &CardStats{}
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
		Model(&models.ProductionCard{}).
		Where("due_date < ? AND status NOT IN ?", time.Now().UTC(), []lifecycle.Status{lifecycle.StatusCompleted, lifecycle.StatusCancelled}).
		Count(&stats.Overdue).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *repository) applyFilters(qb *gorm.DB, filters CardFilters) *gorm.DB {
	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}
	if filters.Priority != nil {
		qb = qb.Where("priority = ?", *filters.Priority)
	}
	if filters.OrderID != nil {
		qb = qb.Where("order_id = ?", *filters.OrderID)
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
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(order_name) LIKE ? OR LOWER(model_name) LIKE ? OR LOWER(model_sku) LIKE ?)", pattern, pattern, pattern)
	}
	return qb
}
