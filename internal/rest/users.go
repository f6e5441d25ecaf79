package rest

import (
	"net/http"

	"github.com/umk/paradigms/internal/services"
)

type userRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Age   *int   `json:"age" validate:"omitempty,gte=0,lte=150"`
}

type userUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Age   *int    `json:"age" validate:"omitempty,gte=0,lte=150"`
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := a.paging(w, r)
	if !ok {
		return
	}
	a.writeJSON(w, http.StatusOK, pageBody("users", a.Users.Page(limit, offset)))
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !a.decode(w, r, &req) {
		return
	}
	u, err := a.Users.Create(req.Name, req.Email, req.Age)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, u)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := a.id(w, r)
	if !ok {
		return
	}
	u, err := a.Users.Get(id)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, u)
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := a.id(w, r)
	if !ok {
		return
	}
	var req userUpdateRequest
	if !a.decode(w, r, &req) {
		return
	}
	u, err := a.Users.Update(id, services.UserUpdate{Name: req.Name, Email: req.Email, Age: req.Age})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, u)
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := a.id(w, r)
	if !ok {
		return
	}
	if err := a.Users.Delete(id); err != nil {
		a.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
