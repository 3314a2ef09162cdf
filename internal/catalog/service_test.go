package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	"github.com/garzamfg/shopfloor-backend/pkg/enums"
	pkgerrors "github.com/garzamfg/shopfloor-backend/pkg/errors"
	"github.com/garzamfg/shopfloor-backend/pkg/logger"
	"github.com/garzamfg/shopfloor-backend/pkg/outbox"
	"github.com/garzamfg/shopfloor-backend/pkg/pagination"
)

type stubCatalogRepo struct {
	items map[uuid.UUID]*models.InventoryItem
	skus  map[string]*models.InventoryItem

	createErr      error
	adjustErr      error
	adjustedDeltas []int
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		items: make(map[uuid.UUID]*models.InventoryItem),
		skus:  make(map[string]*models.InventoryItem),
	}
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCatalogRepo) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.items[item.ID] = item
	s.skus[item.SKU] = item
	return item, nil
}

func (s *stubCatalogRepo) Save(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	s.items[item.ID] = item
	return item, nil
}

func (s *stubCatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubCatalogRepo) FindBySKU(ctx context.Context, sku string) (*models.InventoryItem, error) {
	item, ok := s.skus[sku]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubCatalogRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			rows = append(rows, *item)
		}
	}
	return rows, nil
}

func (s *stubCatalogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func (s *stubCatalogRepo) List(ctx context.Context, params pagination.Params, filters ItemFilters) (*ItemList, error) {
	var rows []models.InventoryItem
	for _, item := range s.items {
		rows = append(rows, *item)
	}
	return &ItemList{Items: rows}, nil
}

func (s *stubCatalogRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	if s.adjustErr != nil {
		return s.adjustErr
	}
	item, ok := s.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if item.Quantity+delta < 0 {
		return ErrQuantityBelowZero
	}
	item.Quantity += delta
	s.adjustedDeltas = append(s.adjustedDeltas, delta)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newCatalogService(t *testing.T, repo Repository, ob *stubOutboxPublisher) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "catalog-test"})
	svc, err := NewService(repo, stubTxRunner{}, ob, logg)
	require.NoError(t, err)
	return svc
}

func validCreateInput() CreateItemInput {
	return CreateItemInput{
		Name:      "Oak Board",
		Type:      enums.ItemTypeMaterial,
		SKU:       "MAT-OAK-01",
		Quantity:  10,
		Unit:      "m",
		UnitPrice: decimal.NewFromFloat(12.50),
		MinStock:  2,
		MaxStock:  50,
	}
}

func TestCreateItemEmitsEvent(t *testing.T) {
	repo := newStubCatalogRepo()
	ob := &stubOutboxPublisher{}
	svc := newCatalogService(t, repo, ob)

	item, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, enums.ItemStatusActive, item.Status)

	require.Len(t, ob.events, 1)
	assert.Equal(t, enums.EventItemCreated, ob.events[0].EventType)
	assert.Equal(t, enums.AggregateInventoryItem, ob.events[0].AggregateType)
	assert.Equal(t, item.ID, ob.events[0].AggregateID)
}

func TestCreateItemValidation(t *testing.T) {
	svc := newCatalogService(t, newStubCatalogRepo(), &stubOutboxPublisher{})
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateItemInput)
	}{
		{"missing name", func(in *CreateItemInput) { in.Name = " " }},
		{"missing sku", func(in *CreateItemInput) { in.SKU = "" }},
		{"bad type", func(in *CreateItemInput) { in.Type = "gadget" }},
		{"negative quantity", func(in *CreateItemInput) { in.Quantity = -1 }},
		{"negative price", func(in *CreateItemInput) { in.UnitPrice = decimal.NewFromInt(-1) }},
		{"manufacturable material", func(in *CreateItemInput) { in.CanManufacture = true }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)
			_, err := svc.Create(ctx, input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestCreateItemDuplicateSKU(t *testing.T) {
	repo := newStubCatalogRepo()
	repo.createErr = errors.New(`duplicate key value violates unique constraint "ux_inventory_items_sku"`)
	svc := newCatalogService(t, repo, &stubOutboxPublisher{})

	_, err := svc.Create(context.Background(), validCreateInput())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestGetItemNotFound(t *testing.T) {
	svc := newCatalogService(t, newStubCatalogRepo(), &stubOutboxPublisher{})

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateItemAppliesPartialFields(t *testing.T) {
	repo := newStubCatalogRepo()
	ob := &stubOutboxPublisher{}
	svc := newCatalogService(t, repo, ob)
	ctx := context.Background()

	item, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	name := "Oak Board Premium"
	minStock := 4
	status := enums.ItemStatusInactive
	updated, err := svc.Update(ctx, item.ID, UpdateItemInput{
		Name:     &name,
		MinStock: &minStock,
		Status:   &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "Oak Board Premium", updated.Name)
	assert.Equal(t, 4, updated.MinStock)
	assert.Equal(t, enums.ItemStatusInactive, updated.Status)
	// untouched fields survive
	assert.Equal(t, 10, updated.Quantity)

	require.Len(t, ob.events, 2)
	assert.Equal(t, enums.EventItemUpdated, ob.events[1].EventType)
}

func TestUpdateItemRejectsInvalidStatus(t *testing.T) {
	repo := newStubCatalogRepo()
	svc := newCatalogService(t, repo, &stubOutboxPublisher{})
	ctx := context.Background()

	item, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	bad := enums.ItemStatus("retired")
	_, err = svc.Update(ctx, item.ID, UpdateItemInput{Status: &bad})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDeleteItemEmitsEvent(t *testing.T) {
	repo := newStubCatalogRepo()
	ob := &stubOutboxPublisher{}
	svc := newCatalogService(t, repo, ob)
	ctx := context.Background()

	item, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, item.ID))
	require.Len(t, ob.events, 2)
	assert.Equal(t, enums.EventItemDeleted, ob.events[1].EventType)

	err = svc.Delete(ctx, item.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAdjustQuantity(t *testing.T) {
	repo := newStubCatalogRepo()
	ob := &stubOutboxPublisher{}
	svc := newCatalogService(t, repo, ob)
	ctx := context.Background()

	item, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	updated, err := svc.AdjustQuantity(ctx, item.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	_, err = svc.AdjustQuantity(ctx, item.ID, -20)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.AdjustQuantity(ctx, item.ID, 0)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.AdjustQuantity(ctx, uuid.New(), 1)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
