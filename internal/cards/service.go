package cards

import (
	"context"
	"fmt"
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
	"github.com/garzamfg/shopfloor-backend/pkg/timetrack"
	"github.com/garzamfg/shopfloor-backend/pkg/types"
)

const entityName = "production card"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes production card operations, including the batch hooks the
// order engine calls when it spawns or removes an order's cards.
type Service interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, order *models.ManufacturingOrder, components []types.ComponentProgress, perUnitHours float64) ([]models.ProductionCard, error)
	DeleteByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error

	Get(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error)
	List(ctx context.Context, filters CardFilters, limit int) ([]models.ProductionCard, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.ProductionCard, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCardInput) (*models.ProductionCard, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*CardStats, error)

	Start(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error)
	Pause(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error)
	Resume(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error)
	Complete(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error)
	SetPriority(ctx context.Context, id uuid.UUID, priority enums.CardPriority) (*models.ProductionCard, error)
	GetElapsed(ctx context.Context, id uuid.UUID) (int, error)

	CompleteComponent(ctx context.Context, cardID, componentID uuid.UUID) (*models.ProductionCard, error)
	StartComponentTimer(ctx context.Context, cardID, componentID uuid.UUID) (*models.ProductionCard, error)
	PauseComponentTimer(ctx context.Context, cardID, componentID uuid.UUID) (*models.ProductionCard, error)
	ResumeComponentTimer(ctx context.Context, cardID, componentID uuid.UUID) (*models.ProductionCard, error)
	ComponentElapsed(ctx context.Context, cardID, componentID uuid.UUID) (int, error)
	ReplaceComponentMaterials(ctx context.Context, cardID, componentID uuid.UUID, inputs []progress.MaterialInput) (*models.ProductionCard, error)
	AddComponentMaterial(ctx context.Context, cardID, componentID uuid.UUID, input progress.MaterialInput) (*models.ProductionCard, error)
}

type service struct {
	repo   Repository
	stock  catalog.Repository
	tx     txRunner
	outbox outboxPublisher
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds the card service with its required dependencies.
func NewService(repo Repository, stock catalog.Repository, tx txRunner, ob outboxPublisher, logg *logger.Logger, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("card repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("catalog repository required")
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
	return &service{repo: repo, stock: stock, tx: tx, outbox: ob, logg: logg, now: now}, nil
}

// CreateBatch spawns one card per unit of the order, numbered 1..N. Every card
// gets its own deep clone of the component list so progress never leaks
// between cards or back into the order.
func (s *service) CreateBatch(ctx context.Context, tx *gorm.DB, order *models.ManufacturingOrder, components []types.ComponentProgress, perUnitHours float64) ([]models.ProductionCard, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}
	if order.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order quantity must be at least 1")
	}

	batch := make([]models.ProductionCard, 0, order.Quantity)
	for n := 1; n <= order.Quantity; n++ {
		batch = append(batch, models.ProductionCard{
			ID:             uuid.New(),
			OrderID:        order.ID,
			OrderName:      order.ClientName,
			CardNumber:     n,
			TotalCards:     order.Quantity,
			ModelID:        order.ModelID,
			ModelName:      order.ModelName,
			ModelSKU:       order.ModelSKU,
			Quantity:       1,
			DueDate:        order.DueDate,
			Status:         lifecycle.StatusPending,
			Priority:       enums.CardPriorityNormal,
			Components:     types.CloneComponents(components),
			EstimatedHours: perUnitHours,
		})
	}

	if err := s.repo.WithTx(tx).CreateBatch(ctx, batch); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert production cards")
	}
	return batch, nil
}

func (s *service) DeleteByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	if err := s.repo.WithTx(tx).DeleteByOrder(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order cards")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card id required")
	}
	return s.load(ctx, s.repo, id)
}

func (s *service) List(ctx context.Context, filters CardFilters, limit int) ([]models.ProductionCard, error) {
	if filters.Overdue && filters.AsOf.IsZero() {
		filters.AsOf = s.now()
	}
	rows, err := s.repo.List(ctx, filters, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list production cards")
	}
	return rows, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.ProductionCard, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	rows, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order cards")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCardInput) (*models.ProductionCard, error) {
	return s.mutate(ctx, id, func(card *models.ProductionCard) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureMutable(entityName, card.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		if input.Notes != nil {
			card.Notes = input.Notes
		}
		if input.DueDate != nil {
			card.DueDate = *input.DueDate
		}
		return cardUpdatedEvent(card), nil
	})
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "card id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		card, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		if card.Status == lifecycle.StatusInProgress {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "an in-progress production card cannot be deleted")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete production card")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCardDeleted,
			AggregateType: enums.AggregateProductionCard,
			AggregateID:   card.ID,
			Data:          payloads.CardDeletedEvent{CardID: card.ID, OrderID: card.OrderID},
		})
	})
}

func (s *service) Stats(ctx context.Context) (*CardStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "card stats")
	}
	return stats, nil
}

func (s *service) Start(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error) {
	now := s.now()
	return s.mutate(ctx, id, func(card *models.ProductionCard) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureStart(entityName, card.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		timer, err := timetrack.Start(card.Timer, now)
		if err != nil {
			return outbox.DomainEvent{}, err
		}
		previous := card.Status
		card.Status = lifecycle.StatusInProgress
		card.Timer = timer
		if card.StartedAt == nil {
			startedAt := now
			card.StartedAt = &startedAt
		}
		return cardStatusEvent(card, previous, now), nil
	})
}

func (s *service) Pause(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error) {
	now := s.now()
	return s.mutate(ctx, id, func(card *models.ProductionCard) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsurePause(entityName, card.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		if err := card.Timer.Pause(now); err != nil {
			return outbox.DomainEvent{}, err
		}
		previous := card.Status
		card.Status = lifecycle.StatusPaused
		return cardStatusEvent(card, previous, now), nil
	})
}

func (s *service) Resume(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error) {
	now := s.now()
	return s.mutate(ctx, id, func(card *models.ProductionCard) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureResume(entityName, card.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		if err := card.Timer.Resume(now); err != nil {
			return outbox.DomainEvent{}, err
		}
		previous := card.Status
		card.Status = lifecycle.StatusInProgress
		return cardStatusEvent(card, previous, now), nil
	})
}

// Complete closes the card. Every component must already be done. The built
// unit is added back to model stock best-effort: a stock failure is logged and
// swallowed so the completion itself never rolls back, and the completed event
// reports whether the restock landed.
func (s *service) Complete(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card id required")
	}
	now := s.now()

	var completed *models.ProductionCard
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		card, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := lifecycle.EnsureComplete(entityName, card.Status); err != nil {
			return err
		}
		if !progress.AllCompleted(card.Components) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "all components must be completed first")
		}

		previous := card.Status
		card.Status = lifecycle.StatusCompleted
		completedAt := now
		card.CompletedAt = &completedAt
		card.Timer.Close(now)

		if _, err := repo.Save(ctx, card); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save production card")
		}

		stockUpdated := true
		if err := s.stock.WithTx(tx).AdjustQuantity(ctx, card.ModelID, card.Quantity); err != nil {
			stockUpdated = false
			s.logg.Warn(s.logg.WithCardID(ctx, card.ID.String()), "stock restock on card completion failed: "+err.Error())
		}

		completedCards, err := repo.CountCompletedByOrder(ctx, card.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count completed cards")
		}

		if err := s.outbox.Emit(ctx, tx, cardStatusEvent(card, previous, now)); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCardCompleted,
			AggregateType: enums.AggregateProductionCard,
			AggregateID:   card.ID,
			Data: payloads.CardCompletedEvent{
				CardID:           card.ID,
				OrderID:          card.OrderID,
				CardNumber:       card.CardNumber,
				TotalTimeMinutes: card.Timer.TotalTimeMinutes,
				CompletedCards:   int(completedCards),
				TotalCards:       card.TotalCards,
				StockUpdated:     stockUpdated,
			},
		}); err != nil {
			return err
		}
		completed = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithCardID(ctx, completed.ID.String()), "production card completed")
	return completed, nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error) {
	now := s.now()
	return s.mutate(ctx, id, func(card *models.ProductionCard) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureCancel(entityName, card.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		previous := card.Status
		card.Status = lifecycle.StatusCancelled
		card.Timer.Close(now)
		return cardStatusEvent(card, previous, now), nil
	})
}

func (s *service) SetPriority(ctx context.Context, id uuid.UUID, priority enums.CardPriority) (*models.ProductionCard, error) {
	if !priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid card priority")
	}
	return s.mutate(ctx, id, func(card *models.ProductionCard) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureMutable(entityName, card.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		card.Priority = priority
		return outbox.DomainEvent{
			EventType:     enums.EventCardPriorityChanged,
			AggregateType: enums.AggregateProductionCard,
			AggregateID:   card.ID,
			Data:          payloads.CardPriorityEvent{CardID: card.ID, OrderID: card.OrderID, Priority: priority},
		}, nil
	})
}

func (s *service) GetElapsed(ctx context.Context, id uuid.UUID) (int, error) {
	card, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return card.Timer.ElapsedMinutes(s.now()), nil
}

func (s *service) CompleteComponent(ctx context.Context, cardID, componentID uuid.UUID) (*models.ProductionCard, error) {
	now := s.now()
	return s.mutate(ctx, cardID, func(card *models.ProductionCard) (outbox.DomainEvent, error) {
		if err := ensureWorking(card.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		component, err := progress.Complete(card.Components, componentID, now)
		if err != nil {
			return outbox.DomainEvent{}, err
		}
		return outbox.DomainEvent{
			EventType:     enums.EventComponentCompleted,
			AggregateType: enums.AggregateProductionCard,
			AggregateID:   card.ID,
			Data: payloads.ComponentCompletedEvent{
				ParentID:      card.ID,
				AggregateType: enums.AggregateProductionCard.String(),
				ComponentID:   component.ComponentID,
				Completed:     true,
			},
		}, nil
	})
}

func (s *service) StartComponentTimer(ctx context.Context, cardID, componentID uuid.UUID) (*models.ProductionCard, error) {
	now := s.now()
	return s.mutate(ctx, cardID, func(card *models.ProductionCard) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureMutable(entityName, card.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		component, err := progress.StartTimer(card.Components, componentID, now)
		if err != nil {
			return outbox.DomainEvent{}, err
		}
		return componentTimerEvent(card, component, now), nil
	})
}

func (s *service) PauseComponentTimer(ctx context.Context, cardID, componentID uuid.UUID) (*models.ProductionCard, error) {
	now := s.now()
	return s.mutate(ctx, cardID, func(card *models.ProductionCard) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureMutable(entityName, card.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		component, err := progress.PauseTimer(card.Components, componentID, now)
		if err != nil {
			return outbox.DomainEvent{}, err
		}
		return componentTimerEvent(card, component, now), nil
	})
}

func (s *service) ResumeComponentTimer(ctx context.Context, cardID, componentID uuid.UUID) (*models.ProductionCard, error) {
	now := s.now()
	return s.mutate(ctx, cardID, func(card *models.ProductionCard) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureMutable(entityName, card.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		component, err := progress.ResumeTimer(card.Components, componentID, now)
		if err != nil {
			return outbox.DomainEvent{}, err
		}
		return componentTimerEvent(card, component, now), nil
	})
}

func (s *service) ComponentElapsed(ctx context.Context, cardID, componentID uuid.UUID) (int, error) {
	card, err := s.Get(ctx, cardID)
	if err != nil {
		return 0, err
	}
	return progress.TimerElapsed(card.Components, componentID, s.now())
}

func (s *service) ReplaceComponentMaterials(ctx context.Context, cardID, componentID uuid.UUID, inputs []progress.MaterialInput) (*models.ProductionCard, error) {
	now := s.now()
	resolved, err := s.resolveMaterials(ctx, materialIDs(inputs))
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, cardID, func(card *models.ProductionCard) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureMutable(entityName, card.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		if _, err := progress.ReplaceMaterials(card.Components, componentID, inputs, resolved, now); err != nil {
			return outbox.DomainEvent{}, err
		}
		return cardUpdatedEvent(card), nil
	})
}

func (s *service) AddComponentMaterial(ctx context.Context, cardID, componentID uuid.UUID, input progress.MaterialInput) (*models.ProductionCard, error) {
	now := s.now()
	resolved, err := s.resolveMaterials(ctx, []uuid.UUID{input.MaterialID})
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, cardID, func(card *models.ProductionCard) (outbox.DomainEvent, error) {
		if err := lifecycle.EnsureMutable(entityName, card.Status); err != nil {
			return outbox.DomainEvent{}, err
		}
		if _, err := progress.AppendMaterial(card.Components, componentID, input, resolved, now); err != nil {
			return outbox.DomainEvent{}, err
		}
		return outbox.DomainEvent{
			EventType:     enums.EventMaterialUsageUpdated,
			AggregateType: enums.AggregateProductionCard,
			AggregateID:   card.ID,
			Data: payloads.MaterialUsageEvent{
				ParentID:     card.ID,
				ComponentID:  componentID,
				MaterialID:   input.MaterialID,
				QuantityUsed: input.ActualQuantity,
			},
		}, nil
	})
}

// mutate loads the card inside a transaction, applies fn, saves the result,
// and queues the event fn returns.
func (s *service) mutate(ctx context.Context, id uuid.UUID, fn func(card *models.ProductionCard) (outbox.DomainEvent, error)) (*models.ProductionCard, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card id required")
	}

	var mutated *models.ProductionCard
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		card, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		event, err := fn(card)
		if err != nil {
			return err
		}
		if _, err := repo.Save(ctx, card); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save production card")
		}
		mutated = card
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return mutated, nil
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.ProductionCard, error) {
	card, err := repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "production card not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load production card")
	}
	return card, nil
}

func (s *service) resolveMaterials(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.InventoryItem, error) {
	rows, err := s.stock.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve materials")
	}
	resolved := make(map[uuid.UUID]models.InventoryItem, len(rows))
	for _, row := range rows {
		resolved[row.ID] = row
	}
	return resolved, nil
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
		return pkgerrors.New(pkgerrors.CodeStateConflict, "production card must be in progress or paused").
			WithDetails(map[string]any{"status": status.String()})
	}
	return nil
}

func cardStatusEvent(card *models.ProductionCard, previous lifecycle.Status, now time.Time) outbox.DomainEvent {
	return outbox.DomainEvent{
		EventType:     enums.EventCardStatusChanged,
		AggregateType: enums.AggregateProductionCard,
		AggregateID:   card.ID,
		Data: payloads.CardStatusEvent{
			CardID:         card.ID,
			OrderID:        card.OrderID,
			CardNumber:     card.CardNumber,
			PreviousStatus: previous,
			Status:         card.Status,
			OccurredAt:     now,
		},
	}
}

func cardUpdatedEvent(card *models.ProductionCard) outbox.DomainEvent {
	return outbox.DomainEvent{
		EventType:     enums.EventCardUpdated,
		AggregateType: enums.AggregateProductionCard,
		AggregateID:   card.ID,
		Data:          payloads.CardUpdatedEvent{CardID: card.ID, OrderID: card.OrderID},
	}
}

func componentTimerEvent(card *models.ProductionCard, component *types.ComponentProgress, now time.Time) outbox.DomainEvent {
	return outbox.DomainEvent{
		EventType:     enums.EventComponentTimerSynced,
		AggregateType: enums.AggregateProductionCard,
		AggregateID:   card.ID,
		Data: payloads.ComponentTimerSyncedEvent{
			ParentID:       card.ID,
			ComponentID:    component.ComponentID,
			ElapsedMinutes: component.Timer.ElapsedMinutes(now),
			IsPaused:       component.Timer != nil && component.Timer.IsPaused,
		},
	}
}
