package cards

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	"github.com/garzamfg/shopfloor-backend/pkg/enums"
	"github.com/garzamfg/shopfloor-backend/pkg/lifecycle"
)

func setupCardsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	productionCards := `
CREATE TABLE IF NOT EXISTS production_cards (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  order_name TEXT NOT NULL,
  card_number INTEGER NOT NULL,
  total_cards INTEGER NOT NULL,
  model_id TEXT NOT NULL,
  model_name TEXT NOT NULL,
  model_sku TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  due_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  priority TEXT NOT NULL DEFAULT 'normal',
  components TEXT,
  notes TEXT,
  estimated_hours REAL NOT NULL DEFAULT 0,
  started_at DATETIME,
  completed_at DATETIME,
  timer TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(productionCards).Error)
	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_production_cards_order_number ON production_cards (order_id, card_number);`).Error)
	return db
}

func newCard(t *testing.T, db *gorm.DB, orderID uuid.UUID, number int, priority enums.CardPriority, due time.Time) *models.ProductionCard {
	t.Helper()

	card := &models.ProductionCard{
		ID:         uuid.New(),
		OrderID:    orderID,
		OrderName:  "Taller Norte",
		CardNumber: number,
		TotalCards: 5,
		ModelID:    uuid.New(),
		ModelName:  "Dining Table",
		ModelSKU:   "MOD-TBL",
		Quantity:   1,
		DueDate:    due,
		Status:     lifecycle.StatusPending,
		Priority:   priority,
	}
	require.NoError(t, db.Create(card).Error)
	return card
}

func TestCardsRepoCreateBatchAndListByOrder(t *testing.T) {
	db := setupCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	due := time.Now().Add(72 * time.Hour)
	batch := []models.ProductionCard{}
	for n := 3; n >= 1; n-- {
		batch = append(batch, models.ProductionCard{
			ID:         uuid.New(),
			OrderID:    orderID,
			OrderName:  "Taller Norte",
			CardNumber: n,
			TotalCards: 3,
			ModelID:    uuid.New(),
			ModelName:  "Chair",
			ModelSKU:   "MOD-CHR",
			Quantity:   1,
			DueDate:    due,
			Status:     lifecycle.StatusPending,
			Priority:   enums.CardPriorityNormal,
		})
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))
	require.NoError(t, repo.CreateBatch(ctx, nil))

	rows, err := repo.ListByOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	// numbered ascending regardless of insert order
	assert.Equal(t, 1, rows[0].CardNumber)
	assert.Equal(t, 3, rows[2].CardNumber)
}

func TestCardsRepoBoardOrdering(t *testing.T) {
	db := setupCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(96 * time.Hour)

	normal := newCard(t, db, orderID, 1, enums.CardPriorityNormal, soon)
	urgent := newCard(t, db, orderID, 2, enums.CardPriorityUrgent, later)
	high := newCard(t, db, orderID, 3, enums.CardPriorityHigh, later)
	low := newCard(t, db, orderID, 4, enums.CardPriorityLow, soon)

	rows, err := repo.List(ctx, CardFilters{OrderID: &orderID}, 10)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, urgent.ID, rows[0].ID)
	assert.Equal(t, high.ID, rows[1].ID)
	assert.Equal(t, normal.ID, rows[2].ID)
	assert.Equal(t, low.ID, rows[3].ID)
}

func TestCardsRepoListFilters(t *testing.T) {
	db := setupCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	now := time.Now()
	overdue := newCard(t, db, orderID, 1, enums.CardPriorityNormal, now.Add(-48*time.Hour))
	done := newCard(t, db, orderID, 2, enums.CardPriorityNormal, now.Add(-48*time.Hour))
	require.NoError(t, db.Model(done).Update("status", lifecycle.StatusCompleted).Error)
	newCard(t, db, orderID, 3, enums.CardPriorityNormal, now.Add(48*time.Hour))

	rows, err := repo.List(ctx, CardFilters{OrderID: &orderID, Overdue: true, AsOf: now}, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, overdue.ID, rows[0].ID)

	status := lifecycle.StatusCompleted
	rows, err = repo.List(ctx, CardFilters{OrderID: &orderID, Status: &status}, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, done.ID, rows[0].ID)
}

func TestCardsRepoCountCompletedByOrder(t *testing.T) {
	db := setupCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	due := time.Now().Add(24 * time.Hour)
	first := newCard(t, db, orderID, 1, enums.CardPriorityNormal, due)
	newCard(t, db, orderID, 2, enums.CardPriorityNormal, due)
	require.NoError(t, db.Model(first).Update("status", lifecycle.StatusCompleted).Error)

	count, err := repo.CountCompletedByOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCardsRepoDeleteByOrder(t *testing.T) {
	db := setupCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	other := uuid.New()
	due := time.Now().Add(24 * time.Hour)
	newCard(t, db, orderID, 1, enums.CardPriorityNormal, due)
	newCard(t, db, orderID, 2, enums.CardPriorityNormal, due)
	kept := newCard(t, db, other, 1, enums.CardPriorityNormal, due)

	require.NoError(t, repo.DeleteByOrder(ctx, orderID))

	rows, err := repo.ListByOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = repo.ListByOrder(ctx, other)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, kept.ID, rows[0].ID)
}

func TestCardsRepoStats(t *testing.T) {
	db := setupCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	before, err := repo.Stats(ctx)
	require.NoError(t, err)

	orderID := uuid.New()
	newCard(t, db, orderID, 1, enums.CardPriorityNormal, time.Now().Add(24*time.Hour))
	running := newCard(t, db, orderID, 2, enums.CardPriorityNormal, time.Now().Add(24*time.Hour))
	require.NoError(t, db.Model(running).Update("status", lifecycle.StatusInProgress).Error)

	after, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.Total+2, after.Total)
	assert.Equal(t, before.Pending+1, after.Pending)
	assert.Equal(t, before.InProgress+1, after.InProgress)
}
