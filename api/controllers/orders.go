package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/garzamfg/shopfloor-backend/api/middleware"
	"github.com/garzamfg/shopfloor-backend/api/responses"
	"github.com/garzamfg/shopfloor-backend/api/validators"
	"github.com/garzamfg/shopfloor-backend/internal/orders"
	"github.com/garzamfg/shopfloor-backend/internal/progress"
	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	pkgerrors "github.com/garzamfg/shopfloor-backend/pkg/errors"
	"github.com/garzamfg/shopfloor-backend/pkg/logger"
	"github.com/garzamfg/shopfloor-backend/pkg/pagination"
)

type elapsedResponse struct {
	ElapsedMinutes int `json:"elapsed_minutes"`
}

type materialInputRequest struct {
	MaterialID      string   `json:"material_id" validate:"required,uuid4"`
	PlannedQuantity *float64 `json:"planned_quantity,omitempty" validate:"omitempty,gte=0"`
	ActualQuantity  float64  `json:"actual_quantity" validate:"gte=0"`
	Note            *string  `json:"note,omitempty"`
}

type replaceMaterialsRequest struct {
	Materials []materialInputRequest `json:"materials" validate:"required,dive"`
}

func (m materialInputRequest) toInput(adjustedBy *string) (progress.MaterialInput, error) {
	materialID, err := uuid.Parse(strings.TrimSpace(m.MaterialID))
	if err != nil {
		return progress.MaterialInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid material id")
	}
	return progress.MaterialInput{
		MaterialID:      materialID,
		PlannedQuantity: m.PlannedQuantity,
		ActualQuantity:  m.ActualQuantity,
		Note:            m.Note,
		AdjustedBy:      adjustedBy,
	}, nil
}

func actorEmail(r *http.Request) *string {
	email := strings.TrimSpace(middleware.UserEmailFromContext(r.Context()))
	if email == "" {
		return nil
	}
	return &email
}

// OrderCreate opens a manufacturing order and cuts its production card batch.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var body orders.CreateOrderInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters, err := buildOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrderActive lists the orders currently on the floor, soonest due first.
func OrderActive(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListActive(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func OrderStats(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orders.UpdateOrderInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// OrderLifecycle routes a status transition to the matching service call.
func OrderLifecycle(svc orders.Service, logg *logger.Logger, transition func(orders.Service, *http.Request, uuid.UUID) (*models.ManufacturingOrder, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := transition(svc, r, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderStart(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return OrderLifecycle(svc, logg, func(s orders.Service, r *http.Request, id uuid.UUID) (*models.ManufacturingOrder, error) {
		return s.Start(r.Context(), id)
	})
}

func OrderPause(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return OrderLifecycle(svc, logg, func(s orders.Service, r *http.Request, id uuid.UUID) (*models.ManufacturingOrder, error) {
		return s.Pause(r.Context(), id)
	})
}

func OrderResume(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return OrderLifecycle(svc, logg, func(s orders.Service, r *http.Request, id uuid.UUID) (*models.ManufacturingOrder, error) {
		return s.Resume(r.Context(), id)
	})
}

func OrderComplete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return OrderLifecycle(svc, logg, func(s orders.Service, r *http.Request, id uuid.UUID) (*models.ManufacturingOrder, error) {
		return s.Complete(r.Context(), id)
	})
}

func OrderCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return OrderLifecycle(svc, logg, func(s orders.Service, r *http.Request, id uuid.UUID) (*models.ManufacturingOrder, error) {
		return s.Cancel(r.Context(), id)
	})
}

func OrderElapsed(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		minutes, err := svc.GetElapsed(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, elapsedResponse{ElapsedMinutes: minutes})
	}
}

func orderComponentIDs(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	orderID, err := parseUUIDParam(r, "orderID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	componentID, err := parseUUIDParam(r, "componentID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return orderID, componentID, nil
}

// OrderComponentOp handles the component-scoped operations that only need IDs.
func OrderComponentOp(svc orders.Service, logg *logger.Logger, op func(orders.Service, *http.Request, uuid.UUID, uuid.UUID) (*models.ManufacturingOrder, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, componentID, err := orderComponentIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := op(svc, r, orderID, componentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderComponentComplete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return OrderComponentOp(svc, logg, func(s orders.Service, r *http.Request, orderID, componentID uuid.UUID) (*models.ManufacturingOrder, error) {
		return s.CompleteComponent(r.Context(), orderID, componentID)
	})
}

func OrderComponentTimerStart(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return OrderComponentOp(svc, logg, func(s orders.Service, r *http.Request, orderID, componentID uuid.UUID) (*models.ManufacturingOrder, error) {
		return s.StartComponentTimer(r.Context(), orderID, componentID)
	})
}

func OrderComponentTimerPause(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return OrderComponentOp(svc, logg, func(s orders.Service, r *http.Request, orderID, componentID uuid.UUID) (*models.ManufacturingOrder, error) {
		return s.PauseComponentTimer(r.Context(), orderID, componentID)
	})
}

func OrderComponentTimerResume(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return OrderComponentOp(svc, logg, func(s orders.Service, r *http.Request, orderID, componentID uuid.UUID) (*models.ManufacturingOrder, error) {
		return s.ResumeComponentTimer(r.Context(), orderID, componentID)
	})
}

func OrderComponentElapsed(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, componentID, err := orderComponentIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		minutes, err := svc.ComponentElapsed(r.Context(), orderID, componentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, elapsedResponse{ElapsedMinutes: minutes})
	}
}

// OrderComponentMaterialsReplace swaps the usage ledger of a component.
func OrderComponentMaterialsReplace(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, componentID, err := orderComponentIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body replaceMaterialsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		adjustedBy := actorEmail(r)
		inputs := make([]progress.MaterialInput, 0, len(body.Materials))
		for _, entry := range body.Materials {
			input, err := entry.toInput(adjustedBy)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			inputs = append(inputs, input)
		}

		order, err := svc.ReplaceComponentMaterials(r.Context(), orderID, componentID, inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderComponentMaterialAdd appends a single usage entry to a component.
func OrderComponentMaterialAdd(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, componentID, err := orderComponentIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body materialInputRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput(actorEmail(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AddComponentMaterial(r.Context(), orderID, componentID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func buildOrderFilters(r *http.Request) (orders.OrderFilters, error) {
	var filters orders.OrderFilters

	status, err := parseStatusParam(r.URL.Query().Get("status"))
	if err != nil {
		return filters, err
	}
	filters.Status = status

	modelID, err := parseUUIDQuery(r, "model_id")
	if err != nil {
		return filters, err
	}
	filters.ModelID = modelID

	filters.Overdue = parseBoolQuery(r, "overdue")

	dueFrom, err := parseDateQuery(r, "due_from")
	if err != nil {
		return filters, err
	}
	filters.DueFrom = dueFrom

	dueTo, err := parseDateQuery(r, "due_to")
	if err != nil {
		return filters, err
	}
	filters.DueTo = dueTo

	filters.ClientName = strings.TrimSpace(r.URL.Query().Get("client_name"))
	filters.Query = strings.TrimSpace(r.URL.Query().Get("q"))

	return filters, nil
}
