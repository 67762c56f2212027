package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/service"
	"github.com/Leganyst/campaign-platform/internal/view"
)

const charactersPath = "/admin/characters"

type CharacterHandler struct {
	*Responder
	svc *service.CharacterService
}

func NewCharacterHandler(resp *Responder, svc *service.CharacterService) *CharacterHandler {
	return &CharacterHandler{Responder: resp, svc: svc}
}

// List handles GET /admin/characters
func (h *CharacterHandler) List(w http.ResponseWriter, r *http.Request) {
	chars, err := h.svc.List(r.Context(), actor(r))
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "characters", "Characters", nil, chars)
}

// AddForm handles GET /admin/characters/add
func (h *CharacterHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	h.render(w, r, http.StatusOK, "character_form", "Add character", form.New(nil), charactersPath+"/add")
}

// Add handles POST /admin/characters/add
func (h *CharacterHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}
	action := charactersPath + "/add"
	if !f.Required("name").MaxLength("name", 60).Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, "character_form", "Add character", f, action)
		return
	}

	_, err = h.svc.Add(r.Context(), actor(r), service.CharacterInput{Name: f.Get("name")})
	if f.ApplyError(err) {
		h.render(w, r, http.StatusUnprocessableEntity, "character_form", "Add character", f, action)
		return
	}
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.added", charactersPath)
}

// EditForm handles GET /admin/characters/edit/{id}
func (h *CharacterHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	c, err := h.svc.Get(r.Context(), actor(r), id)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	f := form.New(url.Values{"name": {c.Name}})
	h.render(w, r, http.StatusOK, "character_form", "Edit character", f, fmt.Sprintf("%s/edit/%d", charactersPath, id))
}

// Edit handles POST /admin/characters/edit/{id}
func (h *CharacterHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}
	action := fmt.Sprintf("%s/edit/%d", charactersPath, id)
	if !f.Required("name").MaxLength("name", 60).Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, "character_form", "Edit character", f, action)
		return
	}

	_, err = h.svc.Edit(r.Context(), actor(r), id, service.CharacterInput{Name: f.Get("name")})
	if f.ApplyError(err) {
		h.render(w, r, http.StatusUnprocessableEntity, "character_form", "Edit character", f, action)
		return
	}
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.updated", charactersPath)
}

// Delete handles GET and POST /admin/characters/delete/{id}
func (h *CharacterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err == nil {
		err = h.svc.Delete(r.Context(), actor(r), id)
	}
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.deleted", charactersPath)
}
