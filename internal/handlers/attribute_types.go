package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/service"
	"github.com/Leganyst/campaign-platform/internal/view"
)

const attributeTypesPath = "/admin/attribute-types"

type AttributeTypeHandler struct {
	*Responder
	svc *service.AttributeService
}

func NewAttributeTypeHandler(resp *Responder, svc *service.AttributeService) *AttributeTypeHandler {
	return &AttributeTypeHandler{Responder: resp, svc: svc}
}

func (h *AttributeTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.svc.ListTypes(r.Context(), actor(r))
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "attribute_types", "Attribute types", nil, types)
}

func (h *AttributeTypeHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, attributeTypesPath)
		return
	}
	h.render(w, r, http.StatusOK, "attribute_type_form", "Add attribute type", form.New(nil), attributeTypesPath+"/add")
}

func (h *AttributeTypeHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, attributeTypesPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}
	action := attributeTypesPath + "/add"
	if !f.Required("name").MaxLength("name", 200).Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, "attribute_type_form", "Add attribute type", f, action)
		return
	}

	_, err = h.svc.AddType(r.Context(), actor(r), service.AttributeTypeInput{Name: f.Get("name")})
	if f.ApplyError(err) {
		h.render(w, r, http.StatusUnprocessableEntity, "attribute_type_form", "Add attribute type", f, action)
		return
	}
	if err != nil {
		h.fail(w, r, err, attributeTypesPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.added", attributeTypesPath)
}

func (h *AttributeTypeHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, attributeTypesPath)
		return
	}
	t, err := h.svc.GetType(r.Context(), actor(r), id)
	if err != nil {
		h.fail(w, r, err, attributeTypesPath)
		return
	}
	h.render(w, r, http.StatusOK, "attribute_type_form", "Edit attribute type",
		form.New(url.Values{"name": {t.Name}}), fmt.Sprintf("%s/edit/%d", attributeTypesPath, id))
}

func (h *AttributeTypeHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, attributeTypesPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}
	action := fmt.Sprintf("%s/edit/%d", attributeTypesPath, id)
	if !f.Required("name").MaxLength("name", 200).Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, "attribute_type_form", "Edit attribute type", f, action)
		return
	}

	_, err = h.svc.EditType(r.Context(), actor(r), id, service.AttributeTypeInput{Name: f.Get("name")})
	if f.ApplyError(err) {
		h.render(w, r, http.StatusUnprocessableEntity, "attribute_type_form", "Edit attribute type", f, action)
		return
	}
	if err != nil {
		h.fail(w, r, err, attributeTypesPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.updated", attributeTypesPath)
}

func (h *AttributeTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err == nil {
		err = h.svc.DeleteType(r.Context(), actor(r), id)
	}
	if err != nil {
		h.fail(w, r, err, attributeTypesPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.deleted", attributeTypesPath)
}
