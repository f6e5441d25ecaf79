// Package rest exposes the business services as REST resources.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/umk/paradigms/internal/services"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// API holds the stores behind the REST resources.
type API struct {
	Taxes        *services.TaxStore
	Users        *services.UserStore
	Calculations *services.CalculationStore

	Logger *slog.Logger
}

func New(logger *slog.Logger) *API {
	return &API{
		Taxes:        services.NewTaxStore(),
		Users:        services.NewUserStore(),
		Calculations: services.NewCalculationStore(),
		Logger:       logger,
	}
}

// Routes mounts the resources under /api.
func (a *API) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/tax-calculations", func(r chi.Router) {
			r.Get("/", a.listTaxes)
			r.Post("/", a.createTax)
			r.Get("/{id}", a.getTax)
			r.Put("/{id}", a.updateTax)
			r.Delete("/{id}", a.deleteTax)
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", a.listUsers)
			r.Post("/", a.createUser)
			r.Get("/{id}", a.getUser)
			r.Put("/{id}", a.updateUser)
			r.Delete("/{id}", a.deleteUser)
		})
		r.Route("/calculations", func(r chi.Router) {
			r.Get("/", a.listCalculations)
			r.Post("/", a.createCalculation)
			r.Get("/{id}", a.getCalculation)
			r.Delete("/{id}", a.deleteCalculation)
		})
	})
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.Logger.Error("failed to write response", slog.String("err", err.Error()))
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, errorBody{Error: http.StatusText(status), Message: msg})
}

// writeServiceError maps service sentinels to HTTP statuses.
func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		a.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		a.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalid):
		a.writeError(w, http.StatusBadRequest, err.Error())
	default:
		a.Logger.Error("request failed", slog.String("err", err.Error()))
		a.writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// decode reads a JSON body into v and validates it.
func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.writeError(w, http.StatusBadRequest, "JSON body required")
		return false
	}
	if err := validate.Struct(v); err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (a *API) id(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, http.StatusNotFound, "Resource not found")
		return 0, false
	}
	return id, true
}

// paging reads limit and offset. limit is capped at maxLimit.
func (a *API) paging(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	limit, offset = defaultLimit, 0

	q := r.URL.Query()
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			a.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return 0, 0, false
		}
		limit = min(v, maxLimit)
	}
	if s := q.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			a.writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return 0, 0, false
		}
		offset = v
	}
	return limit, offset, true
}

func pageBody[T any](key string, p services.Page[T]) map[string]any {
	return map[string]any{
		key:        p.Items,
		"total":    p.Total,
		"limit":    p.Limit,
		"offset":   p.Offset,
		"has_more": p.HasMore,
	}
}
