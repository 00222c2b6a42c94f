package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mealplan_delivery_service/internal/app"
	"mealplan_delivery_service/internal/domain/delivery"
	"mealplan_delivery_service/internal/domain/ingredient"
	"mealplan_delivery_service/internal/domain/user"
	idb "mealplan_delivery_service/internal/infra/database"

	"github.com/go-chi/chi/v5"
)

type dispatchResponse struct {
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason,omitempty"`
	Date      string `json:"date,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDispatchRun runs the full evaluator pipeline for one user right now,
// exactly as a scheduler tick would.
func (s *Server) handleDispatchRun(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	res, err := s.dispatch.RunForUser(r.Context(), email)
	s.writeDispatchResult(w, res, err)
}

// handleSendNow dispatches immediately, keeping every gate except the
// delivery-minute match.
func (s *Server) handleSendNow(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	res, err := s.dispatch.SendNow(r.Context(), email)
	s.writeDispatchResult(w, res, err)
}

func (s *Server) writeDispatchResult(w http.ResponseWriter, res *app.Result, err error) {
	if err != nil {
		switch {
		case errors.Is(err, idb.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
		case errors.Is(err, app.ErrProfileInvalid), errors.Is(err, app.ErrNoIngredients):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, app.ErrGenerationFailed), errors.Is(err, app.ErrDispatchFailed):
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		default:
			s.log.Errorf("Dispatch request failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		return
	}

	out := dispatchResponse{Outcome: string(res.Outcome), Reason: res.Reason, MessageID: res.MessageID}
	if res.Record != nil {
		out.Date = res.Record.PlanDate.Format("2006-01-02")
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTodayPlan(w http.ResponseWriter, r *http.Request) {
	email := user.NormalizeEmail(chi.URLParam(r, "email"))

	// The profile's zone decides what "today" means for this user.
	profile, err := s.dispatch.Profile(r.Context(), email)
	if err != nil {
		if errors.Is(err, idb.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
			return
		}
		s.log.Errorf("Profile lookup failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	localDate := delivery.DateOf(delivery.LocalNow(profile.Timezone, time.Now().UTC()))
	rec, err := s.plans.FindForDay(r.Context(), email, localDate)
	if err != nil {
		if errors.Is(err, idb.ErrPlanNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no plan for today"})
			return
		}
		s.log.Errorf("Plan lookup failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":    rec.PlanDate.Format("2006-01-02"),
		"origin":  rec.Origin,
		"sent":    rec.SentAt.Valid,
		"content": rec.Content,
	})
}

type scheduleRequest struct {
	DeliveryEnabled   *bool   `json:"delivery_enabled"`
	DeliveryTime      *string `json:"delivery_time"`
	DeliveryStartDate *string `json:"delivery_start_date"`
	Timezone          *string `json:"timezone"`
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	profile, err := s.schedule.UpdateSchedule(r.Context(), email, user.ScheduleFields{
		DeliveryEnabled:   req.DeliveryEnabled,
		DeliveryTime:      req.DeliveryTime,
		DeliveryStartDate: req.DeliveryStartDate,
		Timezone:          req.Timezone,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidScheduleField):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, idb.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
		default:
			s.log.Errorf("Schedule update failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		return
	}

	resp := map[string]any{
		"email":            profile.Email,
		"delivery_enabled": profile.DeliveryEnabled,
		"delivery_time":    profile.DeliveryTime,
		"timezone":         profile.Timezone,
	}
	if profile.DeliveryStartDate.Valid {
		resp["delivery_start_date"] = profile.DeliveryStartDate.Time.Format("2006-01-02")
	}
	writeJSON(w, http.StatusOK, resp)
}

type ingredientPayload struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	email := user.NormalizeEmail(chi.URLParam(r, "email"))
	items, err := s.ingredients.ListByUser(r.Context(), email)
	if err != nil {
		s.log.Errorf("Ingredient list failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	out := make([]ingredientPayload, 0, len(items))
	for _, it := range items {
		out = append(out, ingredientPayload{Name: it.Name, Quantity: it.Quantity, Unit: it.Unit})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReplaceIngredients(w http.ResponseWriter, r *http.Request) {
	email := user.NormalizeEmail(chi.URLParam(r, "email"))

	var payload []ingredientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	for _, it := range payload {
		if it.Name == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ingredient name is required"})
			return
		}
	}

	items := make([]ingredient.Ingredient, 0, len(payload))
	for _, it := range payload {
		items = append(items, ingredient.Ingredient{
			UserEmail: email,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
		})
	}
	if err := s.ingredients.ReplaceForUser(r.Context(), email, items); err != nil {
		s.log.Errorf("Ingredient replace failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": len(items)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
