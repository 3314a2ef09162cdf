package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
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
	"github.com/garzamfg/shopfloor-backend/pkg/timetrack"
	"github.com/garzamfg/shopfloor-backend/pkg/types"
)

const entityName = "manufacturing order"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes manufacturing order operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ManufacturingOrder, error)
	List(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error)
	ListActive(ctx context.Context, limit int) ([]models.ManufacturingOrder, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.ManufacturingOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*OrderStats, error)

	Start(ctx context.Context, id uuid.UUID) (*models.ManufacturingOrder, error)
	Pause(ctx context.Context, id uuid.UUID) (*models.ManufacturingOrder, error)
	Resume(ctx context.Context, id uuid.UUID) (*models.ManufacturingOrder, error)
	Complete(ctx context.Context, id uuid.UUID) (*models.ManufacturingOrder, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.ManufacturingOrder, error)
	GetElapsed(ctx context.Context, id uuid.UUID) (int, error)

	CompleteComponent(ctx context.Context, orderID, componentID uuid.UUID) (*models.ManufacturingOrder, error)
	StartComponentTimer(ctx context.Context, orderID, componentID uuid.UUID) (*models.ManufacturingOrder, error)
	PauseComponentTimer(ctx context.Context, orderID, componentID uuid.UUID) (*models.ManufacturingOrder, error)
	ResumeComponentTimer(ctx context.Context, orderID, componentID uuid.UUID) (*models.ManufacturingOrder, error)
	ComponentElapsed(ctx context.Context, orderID, componentID uuid.UUID) (int, error)
	ReplaceComponentMaterials(ctx context.Context, orderID, componentID uuid.UUID, inputs []progress.MaterialInput) (*models.ManufacturingOrder, error)
	AddComponentMaterial(ctx context.Context, orderID, componentID uuid.UUID, input progress.MaterialInput) (*models.ManufacturingOrder, error)
}

type service struct {
	repo   Repository
	stock  catalog.Repository
	cards  CardFactory
	tx     txRunner
	outbox outboxPublisher
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds the order service with its required dependencies.
func NewService(repo Repository, stock catalog.Repository, cards CardFactory, tx txRunner, ob outboxPublisher, logg *logger.Logger, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if cards == nil {
		return nil, fmt.Errorf("card factory required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, stock: stock, cards: cards, tx: tx, outbox: ob, logg: logg, now: now}, nil
}

// Create queues a new order and cuts its card batch in the same transaction.
// The model's component list and bill of materials are resolved against the
// catalog at this moment; later catalog edits never touch the snapshots.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	now := s.now()
	if err := validateCreateOrder(input, now); err != nil {
		return nil, err
	}

	model, err := s.stock.FindByID(ctx, input.ModelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "model not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load model")
	}
	if model.Type != enums.ItemTypeModel || !model.CanManufacture {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "item is not a manufacturable model")
	}

	components, err := s.buildComponents(ctx, model, input.ComponentIDs)
	if err != nil {
		return nil, err
	}

	order := &models.ManufacturingOrder{
		ID:             uuid.New(),
		ModelID:        model.ID,
		ModelName:      model.Name,
		ModelSKU:       model.SKU,
		Quantity:       input.Quantity,
		ClientName:     strings.TrimSpace(input.ClientName),
		DueDate:        input.DueDate,
		Status:         lifecycle.StatusPending,
		Components:     components,
		Notes:          input.Notes,
		EstimatedHours: model.EstimatedManufacturingHours * float64(input.Quantity),
	}

	var cards []models.ProductionCard
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert manufacturing order")
		}
		cards, err = s.cards.CreateBatch(ctx, tx, order, components, model.EstimatedManufacturingHours)
		if err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateManufacturingOrder,
			AggregateID:   order.ID,
			Data: payloads.OrderCreatedEvent{
				OrderID:   order.ID,
				ModelID:   order.ModelID,
				ModelName: order.ModelName,
				Quantity:  order.Quantity,
				DueDate:   order.DueDate,
				CardCount: len(cards),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "manufacturing order created")
	return &CreateOrderResult{Order: order, Cards: cards}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.ManufacturingOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return s.load(ctx, s.repo, id)
}

func (s *service) List(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	if filters.Overdue && filters.AsOf.IsZero() {
		filters.AsOf = s.now()
	}
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list manufacturing orders")
	}
	return list, nil
}

func (s *service) ListActive(ctx context.Context, limit int) ([]models.ManufacturingOrder, error) {
	rows, err := s.repo.ListActive(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active orders")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.ManufacturingOrder, error) {
	return s.mutate(ctx, id, func(order *models.ManufacturingOrder) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureMutable(entityName, order.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		if input.ClientName != nil {
			name := strings.TrimSpace(*input.ClientName)
			if name == "" {
				return outbox.DomainEvent{}, pkgerrors.New(pkgerrors.CodeValidation, "client name required")
			}
			order.ClientName = name
		}
		if input.DueDate != nil {
			order.DueDate = *input.DueDate
		}
		if input.Notes != nil {
			order.Notes = input.Notes
		}
		return orderUpdatedEvent(order), nil
	})
}

// Delete removes an order and its whole card batch. Orders with work in
// flight cannot be removed; pause or cancel them first.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		if order.Status == lifecycle.StatusInProgress {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "an in-progress manufacturing order cannot be deleted")
		}
		if err := s.cards.DeleteByOrder(ctx, tx, id); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete manufacturing order")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderDeleted,
			AggregateType: enums.AggregateManufacturingOrder,
			AggregateID:   order.ID,
			Data:          payloads.OrderDeletedEvent{OrderID: order.ID},
		})
	})
	if err != nil {
		return err
	}

	s.logg.Info(s.logg.WithOrderID(ctx, id.String()), "manufacturing order deleted")
	return nil
}

func (s *service) Stats(ctx context.Context) (*OrderStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order stats")
	}
	return stats, nil
}

func (s *service) Start(ctx context.Context, id uuid.UUID) (*models.ManufacturingOrder, error) {
	now := s.now()
	return s.mutate(ctx, id, func(order *models.ManufacturingOrder) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureStart(entityName, order.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		timer, err := timetrack.Start(order.Timer, now)
		if err != nil {
			return outbox.DomainEvent{}, err
		}
		previous := order.Status
		order.Status = lifecycle.StatusInProgress
		order.Timer = timer
		if order.StartedAt == nil {
			startedAt := now
			order.StartedAt = &startedAt
		}
		return orderStatusEvent(order, previous, now), nil
	})
}

func (s *service) Pause(ctx context.Context, id uuid.UUID) (*models.ManufacturingOrder, error) {
	now := s.now()
	return s.mutate(ctx, id, func(order *models.ManufacturingOrder) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsurePause(entityName, order.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		if err := order.Timer.Pause(now); err != nil {
			return outbox.DomainEvent{}, err
		}
		previous := order.Status
		order.Status = lifecycle.StatusPaused
		return orderStatusEvent(order, previous, now), nil
	})
}

func (s *service) Resume(ctx context.Context, id uuid.UUID) (*models.ManufacturingOrder, error) {
	now := s.now()
	return s.mutate(ctx, id, func(order *models.ManufacturingOrder) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureResume(entityName, order.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		if err := order.Timer.Resume(now); err != nil {
			return outbox.DomainEvent{}, err
		}
		previous := order.Status
		order.Status = lifecycle.StatusInProgress
		return orderStatusEvent(order, previous, now), nil
	})
}

// Complete closes the order once every component is done. Finished units are
// added to model stock best-effort: a stock failure is logged and swallowed,
// and the completed event reports whether the restock landed.
func (s *service) Complete(ctx context.Context, id uuid.UUID) (*models.ManufacturingOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	now := s.now()

	var completed *models.ManufacturingOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := lifecycle.EnsureComplete(entityName, order.Status); err != nil {
			return err
		}
		if !progress.AllCompleted(order.Components) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "all components must be completed first")
		}

		previous := order.Status
		order.Status = lifecycle.StatusCompleted
		completedAt := now
		order.CompletedAt = &completedAt
		order.Timer.Close(now)

		if _, err := repo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save manufacturing order")
		}

		stockUpdated := true
		if err := s.stock.WithTx(tx).AdjustQuantity(ctx, order.ModelID, order.Quantity); err != nil {
			stockUpdated = false
			s.logg.Warn(s.logg.WithOrderID(ctx, order.ID.String()), "stock restock on order completion failed: "+err.Error())
		}

		if err := s.outbox.Emit(ctx, tx, orderStatusEvent(order, previous, now)); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCompleted,
			AggregateType: enums.AggregateManufacturingOrder,
			AggregateID:   order.ID,
			Data: payloads.OrderCompletedEvent{
				OrderID:          order.ID,
				ModelID:          order.ModelID,
				Quantity:         order.Quantity,
				TotalTimeMinutes: order.Timer.TotalTimeMinutes,
				StockUpdated:     stockUpdated,
			},
		}); err != nil {
			return err
		}
		completed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithOrderID(ctx, completed.ID.String()), "manufacturing order completed")
	return completed, nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*models.ManufacturingOrder, error) {
	now := s.now()
	return s.mutate(ctx, id, func(order *models.ManufacturingOrder) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureCancel(entityName, order.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		previous := order.Status
		order.Status = lifecycle.StatusCancelled
		order.Timer.Close(now)
		return orderStatusEvent(order, previous, now), nil
	})
}

func (s *service) GetElapsed(ctx context.Context, id uuid.UUID) (int, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return order.Timer.ElapsedMinutes(s.now()), nil
}

func (s *service) CompleteComponent(ctx context.Context, orderID, componentID uuid.UUID) (*models.ManufacturingOrder, error) {
	now := s.now()
	return s.mutate(ctx, orderID, func(order *models.ManufacturingOrder) (outbox.DomainEvent, error) {
		if err := ensureWorking(order.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		if _, err := progress.Complete(order.Components, componentID, now); err != nil {
			return outbox.DomainEvent{}, err
		}
		return orderUpdatedEvent(order), nil
	})
}

func (s *service) StartComponentTimer(ctx context.Context, orderID, componentID uuid.UUID) (*models.ManufacturingOrder, error) {
	now := s.now()
	return s.mutate(ctx, orderID, func(order *models.ManufacturingOrder) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureMutable(entityName, order.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		if _, err := progress.StartTimer(order.Components, componentID, now); err != nil {
			return outbox.DomainEvent{}, err
		}
		return orderUpdatedEvent(order), nil
	})
}

func (s *service) PauseComponentTimer(ctx context.Context, orderID, componentID uuid.UUID) (*models.ManufacturingOrder, error) {
	now := s.now()
	return s.mutate(ctx, orderID, func(order *models.ManufacturingOrder) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureMutable(entityName, order.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		if _, err := progress.PauseTimer(order.Components, componentID, now); err != nil {
			return outbox.DomainEvent{}, err
		}
		return orderUpdatedEvent(order), nil
	})
}

func (s *service) ResumeComponentTimer(ctx context.Context, orderID, componentID uuid.UUID) (*models.ManufacturingOrder, error) {
	now := s.now()
	return s.mutate(ctx, orderID, func(order *models.ManufacturingOrder) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureMutable(entityName, order.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		if _, err := progress.ResumeTimer(order.Components, componentID, now); err != nil {
			return outbox.DomainEvent{}, err
		}
		return orderUpdatedEvent(order), nil
	})
}

func (s *service) ComponentElapsed(ctx context.Context, orderID, componentID uuid.UUID) (int, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return 0, err
	}
	return progress.TimerElapsed(order.Components, componentID, s.now())
}

func (s *service) ReplaceComponentMaterials(ctx context.Context, orderID, componentID uuid.UUID, inputs []progress.MaterialInput) (*models.ManufacturingOrder, error) {
	now := s.now()
	resolved, err := s.resolveByIDs(ctx, materialIDs(inputs))
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, orderID, func(order *models.ManufacturingOrder) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureMutable(entityName, order.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		if _, err := progress.ReplaceMaterials(order.Components, componentID, inputs, resolved, now); err != nil {
			return outbox.DomainEvent{}, err
		}
		return orderUpdatedEvent(order), nil
	})
}

func (s *service) AddComponentMaterial(ctx context.Context, orderID, componentID uuid.UUID, input progress.MaterialInput) (*models.ManufacturingOrder, error) {
	now := s.now()
	resolved, err := s.resolveByIDs(ctx, []uuid.UUID{input.MaterialID})
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, orderID, func(order *models.ManufacturingOrder) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureMutable(entityName, order.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		if _, err := progress.AppendMaterial(order.Components, componentID, input, resolved, now); err != nil {
			return outbox.DomainEvent{}, err
		}
		return orderUpdatedEvent(order), nil
	})
}

// buildComponents resolves a component list and the model's bill of materials
// against the catalog. The caller's explicit list wins when present; otherwise
// the model's declared components are used. Stale ids are skipped either way,
// matching how the shop treats a model whose parts list drifted.
func (s *service) buildComponents(ctx context.Context, model *models.InventoryItem, override []uuid.UUID) ([]types.ComponentProgress, error) {
	componentIDs := []uuid.UUID(model.ComponentIDs)
	if len(override) > 0 {
		componentIDs = override
	}
	resolvedComponents, err := s.resolveByIDs(ctx, componentIDs)
	if err != nil {
		return nil, err
	}

	materialIDs := make([]uuid.UUID, 0)
	for _, lines := range model.BillOfMaterials {
		for _, line := range lines {
			materialIDs = append(materialIDs, line.MaterialID)
		}
	}
	resolvedMaterials, err := s.resolveByIDs(ctx, materialIDs)
	if err != nil {
		return nil, err
	}

	return progress.BuildComponents(componentIDs, resolvedComponents, model.BillOfMaterials, resolvedMaterials), nil
}

func (s *service) resolveByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.InventoryItem, error) {
	rows, err := s.stock.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve catalog items")
	}
	resolved := make(map[uuid.UUID]models.InventoryItem, len(rows))
	for _, row := range rows {
		resolved[row.ID] = row
	}
	return resolved, nil
}

// mutate loads the order inside a transaction, applies fn, saves the result,
// and queues the event fn returns.
func (s *service) mutate(ctx context.Context, id uuid.UUID, fn func(order *models.ManufacturingOrder) (outbox.DomainEvent, error)) (*models.ManufacturingOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var mutated *models.ManufacturingOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		event, err := fn(order)
		if err != nil {
			return err
		}
		if _, err := repo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save manufacturing order")
		}
		mutated = order
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return mutated, nil
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.ManufacturingOrder, error) {
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "manufacturing order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load manufacturing order")
	}
	return order, nil
}

func validateCreateOrder(input CreateOrderInput, now time.Time) error {
	if input.ModelID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "model id required")
	}
	if input.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if strings.TrimSpace(input.ClientName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "client name required")
	}
	if !input.DueDate.After(now) {
		return pkgerrors.New(pkgerrors.CodeValidation, "due date must be in the future")
	}
	return nil
}

func materialIDs(inputs []progress.MaterialInput) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, input := range inputs {
		ids = append(ids, input.MaterialID)
	}
	return ids
}

func ensureWorking(status lifecycle.Status) error {
	if status != lifecycle.StatusInProgress && status != lifecycle.StatusPaused {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "manufacturing order must be in progress or paused").
			WithDetails(map[string]any{"status": status.String()})
	}
	return nil
}

func orderStatusEvent(order *models.ManufacturingOrder, previous lifecycle.Status, now time.Time) outbox.DomainEvent {
	return outbox.DomainEvent{
		EventType:     enums.EventOrderStatusChanged,
		AggregateType: enums.AggregateManufacturingOrder,
		AggregateID:   order.ID,
		Data: payloads.OrderStatusEvent{
			OrderID:        order.ID,
			PreviousStatus: previous,
			Status:         order.Status,
			OccurredAt:     now,
		},
	}
}

func orderUpdatedEvent(order *models.ManufacturingOrder) outbox.DomainEvent {
	return outbox.DomainEvent{
		EventType:     enums.EventOrderUpdated,
		AggregateType: enums.AggregateManufacturingOrder,
		AggregateID:   order.ID,
		Data:          payloads.OrderUpdatedEvent{OrderID: order.ID},
	}
}
