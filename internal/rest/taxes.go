package rest

import (
	"net/http"

	"github.com/umk/paradigms/internal/services"
)

type taxRequest struct {
	Income     *float64 `json:"income" validate:"required,gte=0"`
	Deductions *float64 `json:"deductions" validate:"omitempty,gte=0"`
	TaxRate    *float64 `json:"tax_rate" validate:"omitempty,gte=0"`
	Type       string   `json:"type" validate:"omitempty,oneof=simple progressive"`
}

type taxUpdateRequest struct {
	Income     *float64 `json:"income" validate:"omitempty,gte=0"`
	Deductions *float64 `json:"deductions" validate:"omitempty,gte=0"`
	TaxRate    *float64 `json:"tax_rate" validate:"omitempty,gte=0"`
}

func (a *API) listTaxes(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := a.paging(w, r)
	if !ok {
		return
	}
	a.writeJSON(w, http.StatusOK, pageBody("calculations", a.Taxes.List(limit, offset)))
}

func (a *API) createTax(w http.ResponseWriter, r *http.Request) {
	var req taxRequest
	if !a.decode(w, r, &req) {
		return
	}

	in := services.TaxInput{Income: *req.Income, TaxRate: services.DefaultTaxRate, Type: req.Type}
	if req.Deductions != nil {
		in.Deductions = *req.Deductions
	}
	if req.TaxRate != nil {
		in.TaxRate = *req.TaxRate
	}

	rec, err := a.Taxes.Create(in)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, rec)
}

func (a *API) getTax(w http.ResponseWriter, r *http.Request) {
	id, ok := a.id(w, r)
	if !ok {
		return
	}
	rec, err := a.Taxes.Get(id)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, rec)
}

func (a *API) updateTax(w http.ResponseWriter, r *http.Request) {
	id, ok := a.id(w, r)
	if !ok {
		return
	}
	var req taxUpdateRequest
	if !a.decode(w, r, &req) {
		return
	}
	rec, err := a.Taxes.Update(id, services.TaxUpdate{
		Income:     req.Income,
		Deductions: req.Deductions,
		TaxRate:    req.TaxRate,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, rec)
}

func (a *API) deleteTax(w http.ResponseWriter, r *http.Request) {
	id, ok := a.id(w, r)
	if !ok {
		return
	}
	if err := a.Taxes.Delete(id); err != nil {
		a.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
