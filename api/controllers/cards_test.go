package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/garzamfg/shopfloor-backend/api/middleware"
	"github.com/garzamfg/shopfloor-backend/internal/cards"
	"github.com/garzamfg/shopfloor-backend/internal/progress"
	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	"github.com/garzamfg/shopfloor-backend/pkg/enums"
)

// stubCardsService embeds the interface so tests only implement what they call.
type stubCardsService struct {
	cards.Service
	card         *models.ProductionCard
	err          error
	lastPriority enums.CardPriority
	lastInput    progress.MaterialInput
	elapsed      int
}

func (s *stubCardsService) SetPriority(ctx context.Context, id uuid.UUID, priority enums.CardPriority) (*models.ProductionCard, error) {
	s.lastPriority = priority
	return s.card, s.err
}

func (s *stubCardsService) AddComponentMaterial(ctx context.Context, cardID, componentID uuid.UUID, input progress.MaterialInput) (*models.ProductionCard, error) {
	s.lastInput = input
	return s.card, s.err
}

func (s *stubCardsService) GetElapsed(ctx context.Context, id uuid.UUID) (int, error) {
	return s.elapsed, s.err
}

func TestCardSetPriorityRejectsUnknownValue(t *testing.T) {
	svc := &stubCardsService{}
	handler := CardSetPriority(svc, testLogger())

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/"+id+"/priority", bytes.NewReader([]byte(`{"priority":"blazing"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParams(req, map[string]string{"cardID": id})
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.lastPriority != "" {
		t.Fatalf("service should not be called on invalid priority")
	}
}

func TestCardSetPriorityPassesParsedValue(t *testing.T) {
	svc := &stubCardsService{card: &models.ProductionCard{ID: uuid.New()}}
	handler := CardSetPriority(svc, testLogger())

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/"+id+"/priority", bytes.NewReader([]byte(`{"priority":"urgent"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParams(req, map[string]string{"cardID": id})
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastPriority != enums.CardPriorityUrgent {
		t.Fatalf("expected urgent got %q", svc.lastPriority)
	}
}

func TestCardComponentMaterialAddCarriesActor(t *testing.T) {
	svc := &stubCardsService{card: &models.ProductionCard{ID: uuid.New()}}
	handler := CardComponentMaterialAdd(svc, testLogger())

	cardID := uuid.NewString()
	componentID := uuid.NewString()
	materialID := uuid.NewString()
	body := []byte(`{"material_id":"` + materialID + `","actual_quantity":2.5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/"+cardID+"/components/"+componentID+"/materials", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParams(req, map[string]string{"cardID": cardID, "componentID": componentID})
	req = req.WithContext(middleware.WithUserEmail(req.Context(), "ana@garzamfg.com"))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastInput.MaterialID.String() != materialID {
		t.Fatalf("material id mismatch: %s", svc.lastInput.MaterialID)
	}
	if svc.lastInput.ActualQuantity != 2.5 {
		t.Fatalf("actual quantity mismatch: %v", svc.lastInput.ActualQuantity)
	}
	if svc.lastInput.AdjustedBy == nil || *svc.lastInput.AdjustedBy != "ana@garzamfg.com" {
		t.Fatalf("expected adjusted_by from context got %+v", svc.lastInput.AdjustedBy)
	}
}

func TestCardElapsedResponseShape(t *testing.T) {
	svc := &stubCardsService{elapsed: 95}
	handler := CardElapsed(svc, testLogger())

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/"+id+"/elapsed", nil)
	req = withURLParams(req, map[string]string{"cardID": id})
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			ElapsedMinutes int `json:"elapsed_minutes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ElapsedMinutes != 95 {
		t.Fatalf("expected 95 minutes got %d", envelope.Data.ElapsedMinutes)
	}
}
