package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/garzamfg/shopfloor-backend/pkg/db"
	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	dbtypes "github.com/garzamfg/shopfloor-backend/pkg/db/types"
	"github.com/garzamfg/shopfloor-backend/pkg/enums"
	pkgerrors "github.com/garzamfg/shopfloor-backend/pkg/errors"
	"github.com/garzamfg/shopfloor-backend/pkg/logger"
	"github.com/garzamfg/shopfloor-backend/pkg/outbox"
	"github.com/garzamfg/shopfloor-backend/pkg/outbox/payloads"
	"github.com/garzamfg/shopfloor-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes stock catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error)
	Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	GetBySKU(ctx context.Context, sku string) (*models.InventoryItem, error)
	List(ctx context.Context, params pagination.Params, filters ItemFilters) (*ItemList, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*models.InventoryItem, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	logg   *logger.Logger
}

// NewService builds the catalog service with its required dependencies.
func NewService(repo Repository, tx txRunner, ob outboxPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
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
	return &service{repo: repo, tx: tx, outbox: ob, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	item := &models.InventoryItem{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Type:        input.Type,
		SKU:         strings.TrimSpace(input.SKU),
		Quantity:    input.Quantity,
		Unit:        defaultUnit(input.Unit),
		UnitPrice:   input.UnitPrice,
		Status:      enums.ItemStatusActive,
		MinStock:    input.MinStock,
		MaxStock:    input.MaxStock,
		Location:    input.Location,
		Supplier:    input.Supplier,

		CanManufacture:              input.CanManufacture,
		EstimatedManufacturingHours: input.EstimatedManufacturingHours,
		ComponentIDs:                dbtypes.UUIDArray(input.ComponentIDs),
		BillOfMaterials:             input.BillOfMaterials,
	}
	if item.ComponentIDs == nil {
		item.ComponentIDs = dbtypes.UUIDArray{}
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, item); err != nil {
			if dbpkg.IsUniqueViolation(err, "ux_inventory_items_sku") {
				return pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert inventory item")
		}
		return s.outbox.Emit(ctx, tx, itemEvent(enums.EventItemCreated, item))
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithItemID(ctx, item.ID.String()), "inventory item created")
	return item, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	return s.find(ctx, id)
}

func (s *service) GetBySKU(ctx context.Context, sku string) (*models.InventoryItem, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	item, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ItemFilters) (*ItemList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory items")
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if err := validateUpdateInput(input); err != nil {
		return nil, err
	}

	var updated *models.InventoryItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
		}

		applyUpdateToItem(item, input)

		if _, err := repo.Save(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory item")
		}
		updated = item
		return s.outbox.Emit(ctx, tx, itemEvent(enums.EventItemUpdated, item))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory item")
		}
		return s.outbox.Emit(ctx, tx, itemEvent(enums.EventItemDeleted, item))
	})
	if err != nil {
		return err
	}

	s.logg.Info(s.logg.WithItemID(ctx, id.String()), "inventory item deleted")
	return nil
}

func (s *service) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*models.InventoryItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must be non-zero")
	}

	var updated *models.InventoryItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.AdjustQuantity(ctx, id, delta); err != nil {
			switch err {
			case gorm.ErrRecordNotFound:
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			case ErrQuantityBelowZero:
				return pkgerrors.New(pkgerrors.CodeValidation, "adjustment would make quantity negative")
			default:
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust quantity")
			}
		}
		item, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload inventory item")
		}
		updated = item
		return s.outbox.Emit(ctx, tx, itemEvent(enums.EventItemUpdated, item))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return item, nil
}

func validateCreateInput(input CreateItemInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if strings.TrimSpace(input.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid item type")
	}
	if input.Quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if input.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	if input.MinStock < 0 || input.MaxStock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock thresholds must not be negative")
	}
	if input.EstimatedManufacturingHours < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "estimated manufacturing hours must not be negative")
	}
	if input.CanManufacture && input.Type != enums.ItemTypeModel {
		return pkgerrors.New(pkgerrors.CodeValidation, "only models can be manufacturable")
	}
	return nil
}

func validateUpdateInput(input UpdateItemInput) error {
	if input.Quantity != nil && *input.Quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid item status")
	}
	if input.MinStock != nil && *input.MinStock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "min stock must not be negative")
	}
	if input.MaxStock != nil && *input.MaxStock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "max stock must not be negative")
	}
	if input.EstimatedManufacturingHours != nil && *input.EstimatedManufacturingHours < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "estimated manufacturing hours must not be negative")
	}
	return nil
}

func applyUpdateToItem(item *models.InventoryItem, input UpdateItemInput) {
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.Unit != nil {
		item.Unit = defaultUnit(*input.Unit)
	}
	if input.UnitPrice != nil {
		item.UnitPrice = *input.UnitPrice
	}
	if input.Status != nil {
		item.Status = *input.Status
	}
	if input.MinStock != nil {
		item.MinStock = *input.MinStock
	}
	if input.MaxStock != nil {
		item.MaxStock = *input.MaxStock
	}
	if input.Location != nil {
		item.Location = input.Location
	}
	if input.Supplier != nil {
		item.Supplier = input.Supplier
	}
	if input.CanManufacture != nil {
		item.CanManufacture = *input.CanManufacture
	}
	if input.EstimatedManufacturingHours != nil {
		item.EstimatedManufacturingHours = *input.EstimatedManufacturingHours
	}
	if input.ComponentIDs != nil {
		item.ComponentIDs = dbtypes.UUIDArray(*input.ComponentIDs)
	}
	if input.BillOfMaterials != nil {
		item.BillOfMaterials = *input.BillOfMaterials
	}
}

func defaultUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return "pcs"
	}
	return unit
}

func itemEvent(eventType enums.OutboxEventType, item *models.InventoryItem) outbox.DomainEvent {
	return outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateInventoryItem,
		AggregateID:   item.ID,
		Version:       1,
		Data: payloads.ItemEvent{
			ItemID:    item.ID,
			SKU:       item.SKU,
			Name:      item.Name,
			ItemType:  item.Type,
			Status:    item.Status,
			Stock:     item.Quantity,
			UnitPrice: item.UnitPrice,
		},
	}
}
