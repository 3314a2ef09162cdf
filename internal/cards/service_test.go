package cards

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/garzamfg/shopfloor-backend/internal/catalog"
	"github.com/garzamfg/shopfloor-backend/internal/progress"
	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	"github.com/garzamfg/shopfloor-backend/pkg/enums"
	pkgerrors "github.com/garzamfg/shopfloor-backend/pkg/errors"
	"github.com/garzamfg/shopfloor-backend/pkg/lifecycle"
	"github.com/garzamfg/shopfloor-backend/pkg/logger"
	"github.com/garzamfg/shopfloor-backend/pkg/outbox"
	"github.com/garzamfg/shopfloor-backend/pkg/outbox/payloads"
	"github.com/garzamfg/shopfloor-backend/pkg/pagination"
	"github.com/garzamfg/shopfloor-backend/pkg/types"
)

var baseTime = time.Date(2025, time.July, 7, 8, 0, 0, 0, time.UTC)

type stubCardsRepo struct {
	cards     map[uuid.UUID]*models.ProductionCard
	createErr error
}

func newStubCardsRepo() *stubCardsRepo {
	return &stubCardsRepo{cards: make(map[uuid.UUID]*models.ProductionCard)}
}

func (s *stubCardsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCardsRepo) CreateBatch(ctx context.Context, cards []models.ProductionCard) error {
	if s.createErr != nil {
		return s.createErr
	}
	for i := range cards {
		card := cards[i]
		s.cards[card.ID] = &card
	}
	return nil
}

func (s *stubCardsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error) {
	card, ok := s.cards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return card, nil
}

func (s *stubCardsRepo) Save(ctx context.Context, card *models.ProductionCard) (*models.ProductionCard, error) {
	s.cards[card.ID] = card
	return card, nil
}

func (s *stubCardsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.cards, id)
	return nil
}

func (s *stubCardsRepo) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	for id, card := range s.cards {
		if card.OrderID == orderID {
			delete(s.cards, id)
		}
	}
	return nil
}

func (s *stubCardsRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.ProductionCard, error) {
	var rows []models.ProductionCard
	for _, card := range s.cards {
		if card.OrderID == orderID {
			rows = append(rows, *card)
		}
	}
	return rows, nil
}

func (s *stubCardsRepo) List(ctx context.Context, filters CardFilters, limit int) ([]models.ProductionCard, error) {
	var rows []models.ProductionCard
	for _, card := range s.cards {
		rows = append(rows, *card)
	}
	return rows, nil
}

func (s *stubCardsRepo) CountCompletedByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	for _, card := range s.cards {
		if card.OrderID == orderID && card.Status == lifecycle.StatusCompleted {
			count++
		}
	}
	return count, nil
}

func (s *stubCardsRepo) Stats(ctx context.Context) (*CardStats, error) {
	return &CardStats{Total: int64(len(s.cards))}, nil
}

type stubStockRepo struct {
	items          map[uuid.UUID]*models.InventoryItem
	adjustErr      error
	adjustedDeltas map[uuid.UUID][]int
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{
		items:          make(map[uuid.UUID]*models.InventoryItem),
		adjustedDeltas: make(map[uuid.UUID][]int),
	}
}

func (s *stubStockRepo) WithTx(tx *gorm.DB) catalog.Repository { return s }

func (s *stubStockRepo) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	panic("not implemented")
}

func (s *stubStockRepo) Save(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	panic("not implemented")
}

func (s *stubStockRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubStockRepo) FindBySKU(ctx context.Context, sku string) (*models.InventoryItem, error) {
	panic("not implemented")
}

func (s *stubStockRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			rows = append(rows, *item)
		}
	}
	return rows, nil
}

func (s *stubStockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	panic("not implemented")
}

func (s *stubStockRepo) List(ctx context.Context, params pagination.Params, filters catalog.ItemFilters) (*catalog.ItemList, error) {
	panic("not implemented")
}

func (s *stubStockRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	if s.adjustErr != nil {
		return s.adjustErr
	}
	s.adjustedDeltas[id] = append(s.adjustedDeltas[id], delta)
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

func (s *stubOutboxPublisher) eventTypes() []enums.OutboxEventType {
	out := make([]enums.OutboxEventType, 0, len(s.events))
	for _, event := range s.events {
		out = append(out, event.EventType)
	}
	return out
}

type cardFixture struct {
	svc   Service
	repo  *stubCardsRepo
	stock *stubStockRepo
	ob    *stubOutboxPublisher
	clock *time.Time
}

func newCardFixture(t *testing.T) *cardFixture {
	t.Helper()

	repo := newStubCardsRepo()
	stock := newStubStockRepo()
	ob := &stubOutboxPublisher{}
	current := baseTime
	logg := logger.New(logger.Options{ServiceName: "cards-test"})
	svc, err := NewService(repo, stock, stubTxRunner{}, ob, logg, func() time.Time { return current })
	require.NoError(t, err)
	return &cardFixture{svc: svc, repo: repo, stock: stock, ob: ob, clock: &current}
}

func (f *cardFixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func testOrder(quantity int) *models.ManufacturingOrder {
	return &models.ManufacturingOrder{
		ID:         uuid.New(),
		ModelID:    uuid.New(),
		ModelName:  "Bookshelf",
		ModelSKU:   "MOD-BKS",
		Quantity:   quantity,
		ClientName: "Muebles Sur",
		DueDate:    baseTime.Add(7 * 24 * time.Hour),
		Status:     lifecycle.StatusPending,
	}
}

func testComponents(ids ...uuid.UUID) []types.ComponentProgress {
	out := make([]types.ComponentProgress, 0, len(ids))
	for _, id := range ids {
		out = append(out, types.ComponentProgress{
			ComponentID:      id,
			ComponentName:    "Side Panel",
			ComponentSKU:     "CMP-PNL",
			QuantityRequired: 1,
		})
	}
	return out
}

func TestCreateBatchSpawnsNumberedClones(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()

	order := testOrder(3)
	components := testComponents(uuid.New(), uuid.New())

	batch, err := f.svc.CreateBatch(ctx, nil, order, components, 2.0)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	for i, card := range batch {
		assert.Equal(t, i+1, card.CardNumber)
		assert.Equal(t, 3, card.TotalCards)
		assert.Equal(t, order.ID, card.OrderID)
		assert.Equal(t, 2.0, card.EstimatedHours)
		assert.Equal(t, lifecycle.StatusPending, card.Status)
		assert.Equal(t, enums.CardPriorityNormal, card.Priority)
		require.Len(t, card.Components, 2)
	}

	// component lists are deep clones, not shared slices
	batch[0].Components[0].IsCompleted = true
	assert.False(t, batch[1].Components[0].IsCompleted)
	assert.False(t, components[0].IsCompleted)
}

func TestCreateBatchRejectsZeroQuantity(t *testing.T) {
	f := newCardFixture(t)

	_, err := f.svc.CreateBatch(context.Background(), nil, testOrder(0), nil, 1)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func seedCard(t *testing.T, f *cardFixture, componentIDs ...uuid.UUID) *models.ProductionCard {
	t.Helper()

	batch, err := f.svc.CreateBatch(context.Background(), nil, testOrder(1), testComponents(componentIDs...), 1.5)
	require.NoError(t, err)
	return &batch[0]
}

func TestCardLifecycleRoundTrip(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()
	componentID := uuid.New()
	card := seedCard(t, f, componentID)

	started, err := f.svc.Start(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusInProgress, started.Status)
	require.NotNil(t, started.StartedAt)
	require.NotNil(t, started.Timer)

	f.advance(10 * time.Minute)
	paused, err := f.svc.Pause(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusPaused, paused.Status)

	f.advance(20 * time.Minute)
	resumed, err := f.svc.Resume(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusInProgress, resumed.Status)

	f.advance(5 * time.Minute)
	elapsed, err := f.svc.GetElapsed(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, elapsed)

	_, err = f.svc.CompleteComponent(ctx, card.ID, componentID)
	require.NoError(t, err)

	completed, err := f.svc.Complete(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, 15, completed.Timer.TotalTimeMinutes)

	// the built unit goes back to model stock
	assert.Equal(t, []int{1}, f.stock.adjustedDeltas[card.ModelID])

	eventTypes := f.ob.eventTypes()
	assert.Contains(t, eventTypes, enums.EventCardStatusChanged)
	assert.Contains(t, eventTypes, enums.EventComponentCompleted)
	assert.Contains(t, eventTypes, enums.EventCardCompleted)
}

func TestCompleteRequiresAllComponents(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()
	card := seedCard(t, f, uuid.New(), uuid.New())

	_, err := f.svc.Start(ctx, card.ID)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, card.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestCompleteSurvivesStockFailure(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()
	componentID := uuid.New()
	card := seedCard(t, f, componentID)
	f.stock.adjustErr = errors.New("stock row locked")

	_, err := f.svc.Start(ctx, card.ID)
	require.NoError(t, err)
	_, err = f.svc.CompleteComponent(ctx, card.ID, componentID)
	require.NoError(t, err)

	completed, err := f.svc.Complete(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusCompleted, completed.Status)

	last := f.ob.events[len(f.ob.events)-1]
	require.Equal(t, enums.EventCardCompleted, last.EventType)
	payload, ok := last.Data.(payloads.CardCompletedEvent)
	require.True(t, ok)
	assert.False(t, payload.StockUpdated)
}

func TestCompleteReportsStockRestock(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()
	componentID := uuid.New()
	card := seedCard(t, f, componentID)

	_, err := f.svc.Start(ctx, card.ID)
	require.NoError(t, err)
	_, err = f.svc.CompleteComponent(ctx, card.ID, componentID)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, card.ID)
	require.NoError(t, err)

	last := f.ob.events[len(f.ob.events)-1]
	require.Equal(t, enums.EventCardCompleted, last.EventType)
	payload, ok := last.Data.(payloads.CardCompletedEvent)
	require.True(t, ok)
	assert.True(t, payload.StockUpdated)
}

func TestCompleteComponentRequiresWorkingCard(t *testing.T) {
	f := newCardFixture(t)
	componentID := uuid.New()
	card := seedCard(t, f, componentID)

	_, err := f.svc.CompleteComponent(context.Background(), card.ID, componentID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestCancelIsNotIdempotent(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()
	card := seedCard(t, f, uuid.New())

	cancelled, err := f.svc.Cancel(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusCancelled, cancelled.Status)

	_, err = f.svc.Cancel(ctx, card.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestSetPriorityBlockedOnTerminalCard(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()
	card := seedCard(t, f, uuid.New())

	updated, err := f.svc.SetPriority(ctx, card.ID, enums.CardPriorityUrgent)
	require.NoError(t, err)
	assert.Equal(t, enums.CardPriorityUrgent, updated.Priority)
	assert.Contains(t, f.ob.eventTypes(), enums.EventCardPriorityChanged)

	_, err = f.svc.Cancel(ctx, card.ID)
	require.NoError(t, err)

	_, err = f.svc.SetPriority(ctx, card.ID, enums.CardPriorityLow)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestDeleteBlockedWhileInProgress(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()
	card := seedCard(t, f, uuid.New())

	_, err := f.svc.Start(ctx, card.ID)
	require.NoError(t, err)

	err = f.svc.Delete(ctx, card.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	_, err = f.svc.Pause(ctx, card.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, card.ID))
	assert.Contains(t, f.ob.eventTypes(), enums.EventCardDeleted)
}

func TestComponentTimerSyncEvents(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()
	componentID := uuid.New()
	card := seedCard(t, f, componentID)

	_, err := f.svc.Start(ctx, card.ID)
	require.NoError(t, err)

	_, err = f.svc.StartComponentTimer(ctx, card.ID, componentID)
	require.NoError(t, err)

	f.advance(12 * time.Minute)
	elapsed, err := f.svc.ComponentElapsed(ctx, card.ID, componentID)
	require.NoError(t, err)
	assert.Equal(t, 12, elapsed)

	_, err = f.svc.PauseComponentTimer(ctx, card.ID, componentID)
	require.NoError(t, err)

	last := f.ob.events[len(f.ob.events)-1]
	assert.Equal(t, enums.EventComponentTimerSynced, last.EventType)
}

func TestAddComponentMaterial(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()
	componentID := uuid.New()
	card := seedCard(t, f, componentID)

	material := &models.InventoryItem{ID: uuid.New(), Name: "Wood Glue", SKU: "MAT-GLU", Unit: "l"}
	f.stock.items[material.ID] = material

	updated, err := f.svc.AddComponentMaterial(ctx, card.ID, componentID, progress.MaterialInput{
		MaterialID:     material.ID,
		ActualQuantity: 0.25,
	})
	require.NoError(t, err)
	require.Len(t, updated.Components[0].Materials, 1)
	assert.Equal(t, "Wood Glue", updated.Components[0].Materials[0].MaterialName)
	assert.Contains(t, f.ob.eventTypes(), enums.EventMaterialUsageUpdated)

	_, err = f.svc.AddComponentMaterial(ctx, card.ID, componentID, progress.MaterialInput{
		MaterialID:     uuid.New(),
		ActualQuantity: 1,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestReplaceComponentMaterialsSkipsUnresolved(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()
	componentID := uuid.New()
	card := seedCard(t, f, componentID)

	material := &models.InventoryItem{ID: uuid.New(), Name: "Varnish", SKU: "MAT-VRN", Unit: "l"}
	f.stock.items[material.ID] = material

	updated, err := f.svc.ReplaceComponentMaterials(ctx, card.ID, componentID, []progress.MaterialInput{
		{MaterialID: material.ID, ActualQuantity: 1.5},
		{MaterialID: uuid.New(), ActualQuantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, updated.Components[0].Materials, 1)
	assert.Equal(t, material.ID, updated.Components[0].Materials[0].MaterialID)
}
