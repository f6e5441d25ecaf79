package rest

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/umk/paradigms/internal/services"
)

type calculationRequest struct {
	Operation string    `json:"operation" validate:"required"`
	Operands  []float64 `json:"operands" validate:"required,min=2"`
}

func (a *API) listCalculations(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := a.paging(w, r)
	if !ok {
		return
	}
	op := r.URL.Query().Get("operation")

	body := pageBody("calculations", a.Calculations.List(op, limit, offset))
	body["filter"] = nil
	if op != "" {
		body["filter"] = map[string]string{"operation": op}
	}
	a.writeJSON(w, http.StatusOK, body)
}

// createCalculation keeps every body field other than operation and
// operands as metadata of the record.
func (a *API) createCalculation(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil || len(fields) == 0 {
		a.writeError(w, http.StatusBadRequest, "JSON body required")
		return
	}

	var req calculationRequest
	metadata := make(map[string]any, len(fields))
	for k, v := range fields {
		var err error
		switch k {
		case "operation":
			err = json.Unmarshal(v, &req.Operation)
		case "operands":
			err = json.Unmarshal(v, &req.Operands)
		default:
			var m any
			err = json.Unmarshal(v, &m)
			metadata[k] = m
		}
		if err != nil {
			a.writeError(w, http.StatusBadRequest, "invalid field "+k+": "+err.Error())
			return
		}
	}
	if err := validate.Struct(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !slices.Contains(services.Operations, req.Operation) {
		a.writeError(w, http.StatusBadRequest, "unsupported operation: "+req.Operation)
		return
	}

	rec, err := a.Calculations.Create(req.Operation, req.Operands, metadata)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, rec)
}

func (a *API) getCalculation(w http.ResponseWriter, r *http.Request) {
	id, ok := a.id(w, r)
	if !ok {
		return
	}
	rec, err := a.Calculations.Get(id)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, rec)
}

func (a *API) deleteCalculation(w http.ResponseWriter, r *http.Request) {
	id, ok := a.id(w, r)
	if !ok {
		return
	}
	if err := a.Calculations.Delete(id); err != nil {
		a.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
