package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/service"
	"github.com/Leganyst/campaign-platform/internal/view"
)

const rolesPath = "/admin/roles"

type RoleHandler struct {
	*Responder
	svc *service.RoleService
}

func NewRoleHandler(resp *Responder, svc *service.RoleService) *RoleHandler {
	return &RoleHandler{Responder: resp, svc: svc}
}

func validateRole(f *form.Form) bool {
	return f.Required("name", "description").
		MaxLength("name", 60).
		MaxLength("description", 200).
		Valid()
}

func roleInput(f *form.Form) service.RoleInput {
	return service.RoleInput{Name: f.Get("name"), Description: f.Get("description")}
}

// List handles GET /admin/roles
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.svc.List(r.Context(), actor(r))
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "roles", "Roles", nil, roles)
}

// AddForm handles GET /admin/roles/add
func (h *RoleHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, rolesPath)
		return
	}
	h.render(w, r, http.StatusOK, "role_form", "Add role", form.New(nil), rolesPath+"/add")
}

// Add handles POST /admin/roles/add
func (h *RoleHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, rolesPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}
	action := rolesPath + "/add"
	if !validateRole(f) {
		h.render(w, r, http.StatusUnprocessableEntity, "role_form", "Add role", f, action)
		return
	}

	_, err = h.svc.Add(r.Context(), actor(r), roleInput(f))
	if f.ApplyError(err) {
		h.render(w, r, http.StatusUnprocessableEntity, "role_form", "Add role", f, action)
		return
	}
	if err != nil {
		h.fail(w, r, err, rolesPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.added", rolesPath)
}

// EditForm handles GET /admin/roles/edit/{id}
func (h *RoleHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, rolesPath)
		return
	}
	role, err := h.svc.Get(r.Context(), actor(r), id)
	if err != nil {
		h.fail(w, r, err, rolesPath)
		return
	}
	f := form.New(url.Values{"name": {role.Name}, "description": {role.Description}})
	h.render(w, r, http.StatusOK, "role_form", "Edit role", f, fmt.Sprintf("%s/edit/%d", rolesPath, id))
}

// Edit handles POST /admin/roles/edit/{id}
func (h *RoleHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, rolesPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}
	action := fmt.Sprintf("%s/edit/%d", rolesPath, id)
	if !validateRole(f) {
		h.render(w, r, http.StatusUnprocessableEntity, "role_form", "Edit role", f, action)
		return
	}

	_, err = h.svc.Edit(r.Context(), actor(r), id, roleInput(f))
	if f.ApplyError(err) {
		h.render(w, r, http.StatusUnprocessableEntity, "role_form", "Edit role", f, action)
		return
	}
	if err != nil {
		h.fail(w, r, err, rolesPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.updated", rolesPath)
}

// Delete handles GET and POST /admin/roles/delete/{id}
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err == nil {
		err = h.svc.Delete(r.Context(), actor(r), id)
	}
	if err != nil {
		h.fail(w, r, err, rolesPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.deleted", rolesPath)
}
