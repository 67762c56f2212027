package handlers

import (
	"fmt"
	"net/http"

	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/service"
	"github.com/Leganyst/campaign-platform/internal/view"
)

// InventoryHandler: инвентарь персонажа.
type InventoryHandler struct {
	*Responder
	svc *service.ItemService
}

func NewInventoryHandler(resp *Responder, svc *service.ItemService) *InventoryHandler {
	return &InventoryHandler{Responder: resp, svc: svc}
}

type inventoryPage struct {
	CharacterID int64
	Stacks      []model.Inventory
	Items       []model.Item
}

func inventoryPath(characterID int64) string {
	return fmt.Sprintf("%s/inventory/%d", charactersPath, characterID)
}

func (h *InventoryHandler) page(r *http.Request, characterID int64) (*inventoryPage, error) {
	stacks, err := h.svc.Inventory(r.Context(), actor(r), characterID)
	if err != nil {
		return nil, err
	}
	items, err := h.svc.List(r.Context(), actor(r))
	if err != nil {
		return nil, err
	}
	return &inventoryPage{CharacterID: characterID, Stacks: stacks, Items: items}, nil
}

// Show handles GET /admin/characters/inventory/{id}
func (h *InventoryHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	p, err := h.page(r, id)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	h.render(w, r, http.StatusOK, "inventory", "Inventory", form.New(nil), p)
}

// Add handles POST /admin/characters/inventory/{id}/add
func (h *InventoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, func(r *http.Request, characterID, itemID int64, qty int) error {
		_, err := h.svc.AddItem(r.Context(), actor(r), characterID, itemID, qty)
		return err
	})
}

// Remove handles POST /admin/characters/inventory/{id}/remove
func (h *InventoryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, func(r *http.Request, characterID, itemID int64, qty int) error {
		_, err := h.svc.RemoveItem(r.Context(), actor(r), characterID, itemID, qty)
		return err
	})
}

func (h *InventoryHandler) change(w http.ResponseWriter, r *http.Request, op func(r *http.Request, characterID, itemID int64, qty int) error) {
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

	f.Required("item", "quantity")
	itemID, qty := f.Int64("item"), f.Int("quantity")
	if f.Valid() {
		err = op(r, id, itemID, qty)
		if err == nil {
			h.redirect(w, r, view.FlashSuccess, "flash.updated", inventoryPath(id))
			return
		}
		if !f.ApplyError(err) {
			h.fail(w, r, err, inventoryPath(id))
			return
		}
	}

	p, err := h.page(r, id)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, "inventory", "Inventory", f, p)
}
