package handlers

import (
	"fmt"
	"net/http"

	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/service"
	"github.com/Leganyst/campaign-platform/internal/view"
)

const usersPath = "/admin/users"

type UserHandler struct {
	*Responder
	svc *service.UserService
}

func NewUserHandler(resp *Responder, svc *service.UserService) *UserHandler {
	return &UserHandler{Responder: resp, svc: svc}
}

// assignPage: данные шаблона user_assign.
type assignPage struct {
	Action  string
	Options *service.AssignmentOptions
}

// List handles GET /admin/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context(), actor(r))
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "users", "Users", nil, users)
}

// AssignForm handles GET /admin/users/assign/{id}
func (h *UserHandler) AssignForm(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, usersPath)
		return
	}
	opts, err := h.svc.AssignmentOptions(r.Context(), actor(r), id)
	if err != nil {
		h.fail(w, r, err, usersPath)
		return
	}
	h.render(w, r, http.StatusOK, "user_assign", "Assign", form.New(nil), assignPage{
		Action:  fmt.Sprintf("%s/assign/%d", usersPath, id),
		Options: opts,
	})
}

// Assign handles POST /admin/users/assign/{id}
func (h *UserHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, usersPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}

	in := service.AssignInput{}
	if f.Required("character", "role").Valid() {
		in.CharacterID = f.Int64("character")
		in.RoleID = f.Int64("role")
	}
	if f.Valid() {
		err = h.svc.Assign(r.Context(), actor(r), id, in)
		if err == nil {
			h.redirect(w, r, view.FlashSuccess, "flash.assigned", usersPath)
			return
		}
		if !f.ApplyError(err) {
			h.fail(w, r, err, usersPath)
			return
		}
	}

	// Форма перерисовывается с актуальными списками персонажей и ролей.
	opts, err := h.svc.AssignmentOptions(r.Context(), actor(r), id)
	if err != nil {
		h.fail(w, r, err, usersPath)
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, "user_assign", "Assign", f, assignPage{
		Action:  fmt.Sprintf("%s/assign/%d", usersPath, id),
		Options: opts,
	})
}

func userPath(id int64) string {
	return fmt.Sprintf("%s/view/%d", usersPath, id)
}

// Show handles GET /admin/users/view/{id}
func (h *UserHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, usersPath)
		return
	}
	p, err := h.svc.Profile(r.Context(), actor(r), id)
	if err != nil {
		h.fail(w, r, err, usersPath)
		return
	}
	h.render(w, r, http.StatusOK, "user", p.User.Username, nil, p)
}

// SetAdmin handles POST /admin/users/admin/{id}
func (h *UserHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, usersPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}
	if err := h.svc.SetAdmin(r.Context(), actor(r), id, f.Bool("admin")); err != nil {
		h.fail(w, r, err, userPath(id))
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.updated", userPath(id))
}

// Delete handles GET and POST /admin/users/delete/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err == nil {
		err = h.svc.DeleteUser(r.Context(), actor(r), id)
	}
	if err != nil {
		h.fail(w, r, err, usersPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.deleted", usersPath)
}
