/*
handlers.go - HTTP API handlers for the loan schedule service

PURPOSE:
  Exposes schedule generation via REST API. Handles HTTP request/response
  and JSON serialization, and delegates computation to the loan package.

ENDPOINTS:
  GET    /api/methods               List repayment methods
  POST   /api/schedules/preview     Compute a schedule without saving it
  POST   /api/schedules             Compute and save a schedule
  GET    /api/schedules             List saved schedules
  GET    /api/schedules/{id}        Get a saved schedule
  DELETE /api/schedules/{id}        Delete a saved schedule

REQUEST FLOW:
  1. Decode the body into a ScheduleRequest
  2. Build a loan.Params snapshot (request values + configured defaults)
  3. Look the schedule up in the cache, compute it on a miss
  4. Optionally save, then serialize

Every request builds its own Params, so concurrent requests share no
mutable state.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, unknown method, malformed body
  - 404: Schedule not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/warp/loan-schedule/cache"
	"github.com/warp/loan-schedule/loan"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store loan.Store
	Cache cache.Cache

	// Applied when a request leaves precision or scale out
	DefaultPrecision int32
	DefaultScale     int32

	// Requests with more periods are rejected before any allocation
	MaxPeriods int
}

// DefaultMaxPeriods is 100 years of monthly payments.
const DefaultMaxPeriods = 1200

// NewHandler creates a handler with the library default precision and scale.
func NewHandler(store loan.Store, c cache.Cache) *Handler {
	return &Handler{
		Store:            store,
		Cache:            c,
		DefaultPrecision: loan.DefaultPrecision,
		DefaultScale:     loan.DefaultScale,
		MaxPeriods:       DefaultMaxPeriods,
	}
}

// =============================================================================
// METHODS
// =============================================================================

// ListMethods returns the supported repayment methods.
func (h *Handler) ListMethods(w http.ResponseWriter, r *http.Request) {
	methods := loan.Methods()
	dtos := make([]MethodDTO, len(methods))
	for i, m := range methods {
		dtos[i] = MethodDTO{Name: string(m), Description: methodDescriptions[m]}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SCHEDULES
// =============================================================================

// PreviewSchedule computes a schedule without saving it.
func (h *Handler) PreviewSchedule(w http.ResponseWriter, r *http.Request) {
	s, cached, err := h.decodeAndCompute(r)
	if err != nil {
		writeLoanError(w, "Failed to compute schedule", err)
		return
	}

	dto := toScheduleDTO(s)
	dto.Cached = cached
	writeJSON(w, http.StatusOK, dto)
}

// CreateSchedule computes a schedule and saves it.
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	s, _, err := h.decodeAndCompute(r)
	if err != nil {
		writeLoanError(w, "Failed to compute schedule", err)
		return
	}

	saved := loan.NewSavedSchedule(s)
	if err := h.Store.Save(r.Context(), saved); err != nil {
		log.WithFields(log.Fields{
			"id":    saved.ID,
			"error": err,
		}).Error("Failed to save schedule")
		writeError(w, http.StatusInternalServerError, "Failed to save schedule", err)
		return
	}

	log.WithFields(log.Fields{
		"id":      saved.ID,
		"method":  s.Method,
		"periods": s.Params.Periods,
	}).Info("Schedule saved")

	writeJSON(w, http.StatusCreated, toSavedScheduleDTO(saved))
}

// ListSchedules returns all saved schedules, newest first.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list schedules", err)
		return
	}

	dtos := make([]ScheduleDTO, len(list))
	for i, saved := range list {
		dtos[i] = toSavedScheduleDTO(saved)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSchedule returns a single saved schedule.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	saved, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeLoanError(w, "Failed to get schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, toSavedScheduleDTO(saved))
}

// DeleteSchedule removes a saved schedule.
func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.Delete(r.Context(), id); err != nil {
		writeLoanError(w, "Failed to delete schedule", err)
		return
	}

	log.WithField("id", id).Info("Schedule deleted")
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// COMPUTATION
// =============================================================================

func (h *Handler) decodeAndCompute(r *http.Request) (loan.Schedule, bool, error) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return loan.Schedule{}, false, &loan.ValidationError{Message: "invalid request body: " + err.Error(), Err: loan.ErrInvalidParameter}
	}

	method := loan.Method(req.Method)
	if req.Method == "" {
		method = loan.MethodEqualPayment
	}

	p, err := h.params(req)
	if err != nil {
		return loan.Schedule{}, false, err
	}
	return h.compute(r.Context(), method, p)
}

// params builds the snapshot for a request.
func (h *Handler) params(req ScheduleRequest) (loan.Params, error) {
	if req.Capital == nil || req.Interest == nil || req.Periods == nil {
		return loan.Params{}, &loan.ValidationError{Message: "Missing parameters", Err: loan.ErrMissingParameters}
	}
	if h.MaxPeriods > 0 && *req.Periods > h.MaxPeriods {
		return loan.Params{}, &loan.ValidationError{
			Field:   "periods",
			Message: fmt.Sprintf("periods can't exceed %d", h.MaxPeriods),
			Err:     loan.ErrInvalidParameter,
		}
	}

	p := loan.Params{
		Capital:       *req.Capital,
		Rate:          *req.Interest,
		Periods:       *req.Periods,
		Precision:     h.DefaultPrecision,
		HighPrecision: req.HighPrecision,
		Scale:         h.DefaultScale,
	}
	if req.Precision != nil {
		p.Precision = int32(*req.Precision)
	}
	if req.Scale != nil {
		p.Scale = int32(*req.Scale)
	}
	return p, nil
}

// compute returns the cached schedule when present. cached reports a hit.
func (h *Handler) compute(ctx context.Context, method loan.Method, p loan.Params) (s loan.Schedule, cached bool, err error) {
	key := cache.Key(method, p)
	if h.Cache != nil {
		if hit, ok := h.Cache.Get(ctx, key); ok {
			// The key leaves out parameters that don't affect the records.
			hit.Params = p
			return hit, true, nil
		}
	}

	s, err = loan.Compute(method, p)
	if err != nil {
		return loan.Schedule{}, false, err
	}

	if h.Cache != nil {
		if err := h.Cache.Set(ctx, key, s); err != nil {
			log.WithFields(log.Fields{
				"key":   key,
				"error": err,
			}).Warn("Failed to cache schedule")
		}
	}
	return s, false, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeLoanError maps loan errors to HTTP status codes.
func writeLoanError(w http.ResponseWriter, message string, err error) {
	switch {
	case loan.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case loan.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		log.WithField("error", err).Error(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
