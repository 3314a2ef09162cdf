package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/garzamfg/shopfloor-backend/api/responses"
	"github.com/garzamfg/shopfloor-backend/api/validators"
	"github.com/garzamfg/shopfloor-backend/internal/cards"
	"github.com/garzamfg/shopfloor-backend/internal/progress"
	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	"github.com/garzamfg/shopfloor-backend/pkg/enums"
	pkgerrors "github.com/garzamfg/shopfloor-backend/pkg/errors"
	"github.com/garzamfg/shopfloor-backend/pkg/logger"
	"github.com/garzamfg/shopfloor-backend/pkg/pagination"
)

type setPriorityRequest struct {
	Priority string `json:"priority" validate:"required"`
}

// CardList returns the production board, highest urgency first.
func CardList(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cards service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := buildCardFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), filters, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CardStats(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cards service unavailable"))
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

func CardDetail(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cards service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "cardID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, card)
	}
}

func CardUpdate(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cards service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "cardID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cards.UpdateCardInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, card)
	}
}

func CardDelete(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cards service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "cardID")
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

// CardLifecycle routes a status transition to the matching service call.
func CardLifecycle(svc cards.Service, logg *logger.Logger, transition func(cards.Service, *http.Request, uuid.UUID) (*models.ProductionCard, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cards service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "cardID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := transition(svc, r, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, card)
	}
}

func CardStart(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return CardLifecycle(svc, logg, func(s cards.Service, r *http.Request, id uuid.UUID) (*models.ProductionCard, error) {
		return s.Start(r.Context(), id)
	})
}

func CardPause(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return CardLifecycle(svc, logg, func(s cards.Service, r *http.Request, id uuid.UUID) (*models.ProductionCard, error) {
		return s.Pause(r.Context(), id)
	})
}

func CardResume(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return CardLifecycle(svc, logg, func(s cards.Service, r *http.Request, id uuid.UUID) (*models.ProductionCard, error) {
		return s.Resume(r.Context(), id)
	})
}

func CardComplete(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return CardLifecycle(svc, logg, func(s cards.Service, r *http.Request, id uuid.UUID) (*models.ProductionCard, error) {
		return s.Complete(r.Context(), id)
	})
}

func CardCancel(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return CardLifecycle(svc, logg, func(s cards.Service, r *http.Request, id uuid.UUID) (*models.ProductionCard, error) {
		return s.Cancel(r.Context(), id)
	})
}

// CardSetPriority reorders the card on the board.
func CardSetPriority(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cards service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "cardID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setPriorityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		priority, err := enums.ParseCardPriority(body.Priority)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid priority %q", body.Priority)))
			return
		}

		card, err := svc.SetPriority(r.Context(), id, priority)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, card)
	}
}

func CardElapsed(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cards service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "cardID")
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

func cardComponentIDs(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	cardID, err := parseUUIDParam(r, "cardID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	componentID, err := parseUUIDParam(r, "componentID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return cardID, componentID, nil
}

// CardComponentOp handles the component-scoped operations that only need IDs.
func CardComponentOp(svc cards.Service, logg *logger.Logger, op func(cards.Service, *http.Request, uuid.UUID, uuid.UUID) (*models.ProductionCard, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cards service unavailable"))
			return
		}

		cardID, componentID, err := cardComponentIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := op(svc, r, cardID, componentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, card)
	}
}

func CardComponentComplete(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return CardComponentOp(svc, logg, func(s cards.Service, r *http.Request, cardID, componentID uuid.UUID) (*models.ProductionCard, error) {
		return s.CompleteComponent(r.Context(), cardID, componentID)
	})
}

func CardComponentTimerStart(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return CardComponentOp(svc, logg, func(s cards.Service, r *http.Request, cardID, componentID uuid.UUID) (*models.ProductionCard, error) {
		return s.StartComponentTimer(r.Context(), cardID, componentID)
	})
}

func CardComponentTimerPause(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return CardComponentOp(svc, logg, func(s cards.Service, r *http.Request, cardID, componentID uuid.UUID) (*models.ProductionCard, error) {
		return s.PauseComponentTimer(r.Context(), cardID, componentID)
	})
}

func CardComponentTimerResume(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return CardComponentOp(svc, logg, func(s cards.Service, r *http.Request, cardID, componentID uuid.UUID) (*models.ProductionCard, error) {
		return s.ResumeComponentTimer(r.Context(), cardID, componentID)
	})
}

func CardComponentElapsed(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cards service unavailable"))
			return
		}

		cardID, componentID, err := cardComponentIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		minutes, err := svc.ComponentElapsed(r.Context(), cardID, componentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, elapsedResponse{ElapsedMinutes: minutes})
	}
}

// CardComponentMaterialsReplace swaps the usage ledger of a component.
func CardComponentMaterialsReplace(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cards service unavailable"))
			return
		}

		cardID, componentID, err := cardComponentIDs(r)
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

		card, err := svc.ReplaceComponentMaterials(r.Context(), cardID, componentID, inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, card)
	}
}

// CardComponentMaterialAdd appends a single usage entry to a component.
func CardComponentMaterialAdd(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cards service unavailable"))
			return
		}

		cardID, componentID, err := cardComponentIDs(r)
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

		card, err := svc.AddComponentMaterial(r.Context(), cardID, componentID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, card)
	}
}

func buildCardFilters(r *http.Request) (cards.CardFilters, error) {
	var filters cards.CardFilters

	status, err := parseStatusParam(r.URL.Query().Get("status"))
	if err != nil {
		return filters, err
	}
	filters.Status = status

	if raw := strings.TrimSpace(r.URL.Query().Get("priority")); raw != "" {
		priority, err := enums.ParseCardPriority(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid priority %q", raw))
		}
		filters.Priority = &priority
	}

	orderID, err := parseUUIDQuery(r, "order_id")
	if err != nil {
		return filters, err
	}
	filters.OrderID = orderID

	modelID, err := parseUUIDQuery(r, "model_id")
	if err != nil {
		return filters, err
	}
	filters.ModelID = modelID

	filters.Overdue = parseBoolQuery(r, "overdue")
	filters.Query = strings.TrimSpace(r.URL.Query().Get("q"))

	return filters, nil
}
