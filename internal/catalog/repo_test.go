package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	dbtypes "github.com/garzamfg/shopfloor-backend/pkg/db/types"
	"github.com/garzamfg/shopfloor-backend/pkg/enums"
	"github.com/garzamfg/shopfloor-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	inventoryItems := `
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  type TEXT NOT NULL,
  sku TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  unit TEXT NOT NULL DEFAULT 'pcs',
  unit_price TEXT NOT NULL DEFAULT '0',
  status TEXT NOT NULL DEFAULT 'active',
  min_stock INTEGER NOT NULL DEFAULT 0,
  max_stock INTEGER NOT NULL DEFAULT 0,
  location TEXT,
  supplier TEXT,
  can_manufacture INTEGER NOT NULL DEFAULT 0,
  estimated_manufacturing_hours REAL NOT NULL DEFAULT 0,
  component_ids TEXT NOT NULL DEFAULT '{}',
  bill_of_materials TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(inventoryItems).Error)
	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_inventory_items_sku ON inventory_items (sku);`).Error)
	return db
}

func newItem(t *testing.T, db *gorm.DB, name, sku string, itemType enums.ItemType, quantity int) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{
		ID:           uuid.New(),
		Name:         name,
		Type:         itemType,
		SKU:          sku,
		Quantity:     quantity,
		Unit:         "pcs",
		UnitPrice:    decimal.NewFromInt(10),
		Status:       enums.ItemStatusActive,
		ComponentIDs: dbtypes.UUIDArray{},
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestCatalogRepoCreateAndFind(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sku := "SKU-" + uuid.NewString()[:8]
	created := newItem(t, db, "Pine Plank", sku, enums.ItemTypeMaterial, 40)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pine Plank", byID.Name)

	bySKU, err := repo.FindBySKU(ctx, sku)
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySKU.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCatalogRepoFindByIDs(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	a := newItem(t, db, "Bolt", "SKU-"+uuid.NewString()[:8], enums.ItemTypeMaterial, 5)
	b := newItem(t, db, "Nut", "SKU-"+uuid.NewString()[:8], enums.ItemTypeMaterial, 5)

	rows, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestCatalogRepoListFiltersAndPagination(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	token := uuid.NewString()[:8]
	base := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		item := newItem(t, db, "Widget "+token, "SKU-"+token+"-"+uuid.NewString()[:4], enums.ItemTypeComponent, i)
		require.NoError(t, db.Model(item).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	page, err := repo.List(ctx, pagination.Params{Limit: 2}, ItemFilters{Query: token})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)
	// newest first
	assert.True(t, page.Items[0].CreatedAt.After(page.Items[1].CreatedAt))

	rest, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: page.NextCursor}, ItemFilters{Query: token})
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Empty(t, rest.NextCursor)
}

func TestCatalogRepoListLowStock(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	token := uuid.NewString()[:8]
	low := newItem(t, db, "Low "+token, "SKU-"+uuid.NewString()[:8], enums.ItemTypeMaterial, 2)
	require.NoError(t, db.Model(low).Update("min_stock", 5).Error)
	ok := newItem(t, db, "Ok "+token, "SKU-"+uuid.NewString()[:8], enums.ItemTypeMaterial, 20)
	require.NoError(t, db.Model(ok).Update("min_stock", 5).Error)

	page, err := repo.List(ctx, pagination.Params{}, ItemFilters{Query: token, LowStock: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, low.ID, page.Items[0].ID)
}

func TestCatalogRepoAdjustQuantity(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := newItem(t, db, "Hinge", "SKU-"+uuid.NewString()[:8], enums.ItemTypeMaterial, 10)

	require.NoError(t, repo.AdjustQuantity(ctx, item.ID, -4))
	reloaded, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, reloaded.Quantity)

	err = repo.AdjustQuantity(ctx, item.ID, -7)
	assert.ErrorIs(t, err, ErrQuantityBelowZero)
	reloaded, err = repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, reloaded.Quantity)

	err = repo.AdjustQuantity(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCatalogRepoDelete(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := newItem(t, db, "Dowel", "SKU-"+uuid.NewString()[:8], enums.ItemTypeMaterial, 3)
	require.NoError(t, repo.Delete(ctx, item.ID))

	_, err := repo.FindByID(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
