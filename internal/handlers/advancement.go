package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/service"
	"github.com/Leganyst/campaign-platform/internal/view"
)

const (
	advancementAdminPath = "/admin/advancement"
	advancementPath      = "/advancement"
)

// AdvancementHandler: списки развития для администратора и доступные опции для игрока.
type AdvancementHandler struct {
	*Responder
	svc        *service.AdvancementService
	attributes *service.AttributeService
	characters *service.CharacterService
}

func NewAdvancementHandler(resp *Responder, svc *service.AdvancementService, attributes *service.AttributeService, characters *service.CharacterService) *AdvancementHandler {
	return &AdvancementHandler{Responder: resp, svc: svc, attributes: attributes, characters: characters}
}

type advancementListPage struct {
	List       *model.AdvancementList
	Attributes []model.Attribute
}

type availablePage struct {
	ListID      int64
	Characters  []model.Character
	CharacterID int64
	Options     []model.AdvancementListAttribute
}

func advancementListPath(id int64) string {
	return fmt.Sprintf("%s/view/%d", advancementAdminPath, id)
}

// Lists handles GET /admin/advancement
func (h *AdvancementHandler) Lists(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, "/")
		return
	}
	lists, err := h.svc.Lists(r.Context(), actor(r))
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "advancement_lists", "Advancement", form.New(nil), lists)
}

// CreateList handles POST /admin/advancement/add
func (h *AdvancementHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, advancementAdminPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}

	if f.Required("name").MaxLength("name", 200).Valid() {
		l, err := h.svc.CreateList(r.Context(), actor(r), service.AdvancementListInput{
			Name:        f.Get("name"),
			ChargenOnly: f.Bool("chargen_only"),
			StaffOnly:   f.Bool("staff_only"),
		})
		if err == nil {
			h.redirect(w, r, view.FlashSuccess, "flash.added", advancementListPath(l.ID))
			return
		}
		if !f.ApplyError(err) {
			h.fail(w, r, err, advancementAdminPath)
			return
		}
	}

	lists, err := h.svc.Lists(r.Context(), actor(r))
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, "advancement_lists", "Advancement", f, lists)
}

func (h *AdvancementHandler) listPage(r *http.Request, id int64) (*advancementListPage, error) {
	l, err := h.svc.GetList(r.Context(), actor(r), id)
	if err != nil {
		return nil, err
	}
	attrs, err := h.attributes.List(r.Context(), actor(r))
	if err != nil {
		return nil, err
	}
	return &advancementListPage{List: l, Attributes: attrs}, nil
}

// Show handles GET /admin/advancement/view/{id}
func (h *AdvancementHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, advancementAdminPath)
		return
	}
	p, err := h.listPage(r, id)
	if err != nil {
		h.fail(w, r, err, advancementAdminPath)
		return
	}
	h.render(w, r, http.StatusOK, "advancement_list", p.List.Name, form.New(nil), p)
}

// AddOption handles POST /admin/advancement/options/{id}
func (h *AdvancementHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, advancementAdminPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}

	f.Required("attribute")
	in := service.OptionInput{
		AttributeID:          f.Int64("attribute"),
		StaffOnly:            f.Bool("staff_only"),
		FreeWithRequirements: f.Bool("free_with_requirements"),
		Requirements:         requirements(f),
	}
	if f.Valid() {
		_, err = h.svc.AddOption(r.Context(), actor(r), id, in)
		if err == nil {
			h.redirect(w, r, view.FlashSuccess, "flash.added", advancementListPath(id))
			return
		}
		if !f.ApplyError(err) {
			h.fail(w, r, err, advancementListPath(id))
			return
		}
	}

	p, err := h.listPage(r, id)
	if err != nil {
		h.fail(w, r, err, advancementAdminPath)
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, "advancement_list", p.List.Name, f, p)
}

// requirements собирает пары req_attribute/req_rank; строки без атрибута пропускаются.
func requirements(f *form.Form) []service.RequirementInput {
	attrs, ranks := f.Values["req_attribute"], f.Values["req_rank"]
	var out []service.RequirementInput
	for i, a := range attrs {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			f.AddError("requirements", form.MsgNumber)
			return nil
		}
		rank := 0
		if i < len(ranks) && strings.TrimSpace(ranks[i]) != "" {
			rank, err = strconv.Atoi(strings.TrimSpace(ranks[i]))
			if err != nil {
				f.AddError("requirements", form.MsgNumber)
				return nil
			}
		}
		out = append(out, service.RequirementInput{AttributeID: id, Rank: rank})
	}
	return out
}

// Visible handles GET /advancement
func (h *AdvancementHandler) Visible(w http.ResponseWriter, r *http.Request) {
	lists, err := h.svc.Lists(r.Context(), actor(r))
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "advancement", "Advancement", nil, lists)
}

// Available handles GET /advancement/options/{id}?character=N
func (h *AdvancementHandler) Available(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err, advancementPath)
		return
	}
	chars, err := h.characters.Owned(r.Context(), actor(r))
	if err != nil {
		h.fail(w, r, err, advancementPath)
		return
	}
	p := availablePage{ListID: id, Characters: chars}

	if raw := r.URL.Query().Get("character"); raw != "" {
		p.CharacterID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.badRequest(w, r)
			return
		}
		p.Options, err = h.svc.AvailableOptions(r.Context(), actor(r), id, p.CharacterID)
		if err != nil {
			h.fail(w, r, err, advancementPath)
			return
		}
	}
	h.render(w, r, http.StatusOK, "advancement_options", "Available options", nil, p)
}
