package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/service"
	"github.com/Leganyst/campaign-platform/internal/view"
)

const itemsPath = "/admin/items"

type ItemHandler struct {
	*Responder
	svc *service.ItemService
}

func NewItemHandler(resp *Responder, svc *service.ItemService) *ItemHandler {
	return &ItemHandler{Responder: resp, svc: svc}
}

func itemInput(f *form.Form) service.ItemInput {
	return service.ItemInput{
		Name:        f.Get("name"),
		Description: f.Get("description"),
		ItemAttr:    f.Get("item_attr"),
	}
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), actor(r))
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "items", "Items", nil, items)
}

func (h *ItemHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, itemsPath)
		return
	}
	h.render(w, r, http.StatusOK, "item_form", "Add item", form.New(nil), itemsPath+"/add")
}

func (h *ItemHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, itemsPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}
	action := itemsPath + "/add"
	if !f.Required("name").MaxLength("name", 200).Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, "item_form", "Add item", f, action)
		return
	}

	_, err = h.svc.Add(r.Context(), actor(r), itemInput(f))
	if f.ApplyError(err) {
		h.render(w, r, http.StatusUnprocessableEntity, "item_form", "Add item", f, action)
		return
	}
	if err != nil {
		h.fail(w, r, err, itemsPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.added", itemsPath)
}

func (h *ItemHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, itemsPath)
		return
	}
	it, err := h.svc.Get(r.Context(), actor(r), id)
	if err != nil {
		h.fail(w, r, err, itemsPath)
		return
	}
	f := form.New(url.Values{
		"name":        {it.Name},
		"description": {it.Description},
		"item_attr":   {it.ItemAttr},
	})
	h.render(w, r, http.StatusOK, "item_form", "Edit item", f, fmt.Sprintf("%s/edit/%d", itemsPath, id))
}

func (h *ItemHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, itemsPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}
	action := fmt.Sprintf("%s/edit/%d", itemsPath, id)
	if !f.Required("name").MaxLength("name", 200).Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, "item_form", "Edit item", f, action)
		return
	}

	_, err = h.svc.Edit(r.Context(), actor(r), id, itemInput(f))
	if f.ApplyError(err) {
		h.render(w, r, http.StatusUnprocessableEntity, "item_form", "Edit item", f, action)
		return
	}
	if err != nil {
		h.fail(w, r, err, itemsPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.updated", itemsPath)
}

// Delete отклоняется, пока предмет лежит в чьём-то инвентаре.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err == nil {
		err = h.svc.Delete(r.Context(), actor(r), id)
	}
	if err != nil {
		h.fail(w, r, err, itemsPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.deleted", itemsPath)
}
