package handlers

import (
	"fmt"
	"net/http"

	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/service"
	"github.com/Leganyst/campaign-platform/internal/view"
)

const attributesPath = "/admin/attributes"

// AttributeHandler: справочник атрибутов и ранги атрибутов у персонажей.
type AttributeHandler struct {
	*Responder
	svc *service.AttributeService
}

func NewAttributeHandler(resp *Responder, svc *service.AttributeService) *AttributeHandler {
	return &AttributeHandler{Responder: resp, svc: svc}
}

type attributesPage struct {
	Attributes []model.Attribute
	Types      []model.AttributeType
}

func (h *AttributeHandler) catalog(r *http.Request) (*attributesPage, error) {
	attrs, err := h.svc.List(r.Context(), actor(r))
	if err != nil {
		return nil, err
	}
	types, err := h.svc.ListTypes(r.Context(), actor(r))
	if err != nil {
		return nil, err
	}
	return &attributesPage{Attributes: attrs, Types: types}, nil
}

// List handles GET /admin/attributes
func (h *AttributeHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog(r)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "attributes", "Attributes", form.New(nil), p)
}

// Add handles POST /admin/attributes/add
func (h *AttributeHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, attributesPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}

	f.Required("name", "type").MaxLength("name", 200).MaxLength("description", 200)
	in := service.AttributeInput{
		Name:        f.Get("name"),
		Description: f.Get("description"),
		TypeID:      f.Int64("type"),
	}
	if f.Valid() {
		_, err = h.svc.Add(r.Context(), actor(r), in)
		if err == nil {
			h.redirect(w, r, view.FlashSuccess, "flash.added", attributesPath)
			return
		}
		if !f.ApplyError(err) {
			h.fail(w, r, err, attributesPath)
			return
		}
	}

	p, err := h.catalog(r)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, "attributes", "Attributes", f, p)
}

// Delete handles POST /admin/attributes/delete/{id}
func (h *AttributeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err == nil {
		err = h.svc.Delete(r.Context(), actor(r), id)
	}
	if err != nil {
		h.fail(w, r, err, attributesPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.deleted", attributesPath)
}

type characterAttributesPage struct {
	CharacterID int64
	Ranks       []model.CharacterAttribute
	Attributes  []model.Attribute
}

func characterAttributesPath(characterID int64) string {
	return fmt.Sprintf("%s/attributes/%d", charactersPath, characterID)
}

func (h *AttributeHandler) ranks(r *http.Request, characterID int64) (*characterAttributesPage, error) {
	ranks, err := h.svc.CharacterAttributes(r.Context(), actor(r), characterID)
	if err != nil {
		return nil, err
	}
	attrs, err := h.svc.List(r.Context(), actor(r))
	if err != nil {
		return nil, err
	}
	return &characterAttributesPage{CharacterID: characterID, Ranks: ranks, Attributes: attrs}, nil
}

// CharacterAttributes handles GET /admin/characters/attributes/{id}
func (h *AttributeHandler) CharacterAttributes(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	p, err := h.ranks(r, id)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	h.render(w, r, http.StatusOK, "character_attributes", "Character attributes", form.New(nil), p)
}

// SetRank handles POST /admin/characters/attributes/{id}/set
func (h *AttributeHandler) SetRank(w http.ResponseWriter, r *http.Request) {
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

	f.Required("attribute", "rank").MaxLength("comments", 1024)
	in := service.CharacterAttributeInput{
		AttributeID: f.Int64("attribute"),
		Rank:        f.Int("rank"),
		Comment:     f.Get("comments"),
	}
	if f.Valid() {
		err = h.svc.SetCharacterAttribute(r.Context(), actor(r), id, in)
		if err == nil {
			h.redirect(w, r, view.FlashSuccess, "flash.updated", characterAttributesPath(id))
			return
		}
		if !f.ApplyError(err) {
			h.fail(w, r, err, characterAttributesPath(id))
			return
		}
	}

	p, err := h.ranks(r, id)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, "character_attributes", "Character attributes", f, p)
}

// RemoveRank handles POST /admin/characters/attributes/{id}/remove/{attr}
func (h *AttributeHandler) RemoveRank(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	attrID, err := pathInt(r, "attr")
	if err == nil {
		err = h.svc.RemoveCharacterAttribute(r.Context(), actor(r), id, attrID)
	}
	if err != nil {
		h.fail(w, r, err, characterAttributesPath(id))
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.deleted", characterAttributesPath(id))
}
