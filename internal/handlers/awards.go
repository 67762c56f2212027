package handlers

import (
	"net/http"

	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/repository"
	"github.com/Leganyst/campaign-platform/internal/service"
	"github.com/Leganyst/campaign-platform/internal/view"
)

const awardsPath = "/admin/awards"

// AwardHandler: типы наград, начисления и история пользователя.
type AwardHandler struct {
	*Responder
	awards     *service.AwardService
	users      *service.UserService
	characters *service.CharacterService
}

func NewAwardHandler(resp *Responder, awards *service.AwardService, users *service.UserService, characters *service.CharacterService) *AwardHandler {
	return &AwardHandler{Responder: resp, awards: awards, users: users, characters: characters}
}

type awardsPage struct {
	Types      []model.AwardType
	Users      []model.User
	Characters []model.Character
}

type awardHistoryPage struct {
	User   *model.User
	Logs   []model.AwardLog
	Totals []repository.AwardTotal
}

func (h *AwardHandler) page(r *http.Request) (*awardsPage, error) {
	types, err := h.awards.ListTypes(r.Context(), actor(r))
	if err != nil {
		return nil, err
	}
	users, err := h.users.List(r.Context(), actor(r))
	if err != nil {
		return nil, err
	}
	chars, err := h.characters.List(r.Context(), actor(r))
	if err != nil {
		return nil, err
	}
	return &awardsPage{Types: types, Users: users, Characters: chars}, nil
}

func (h *AwardHandler) rerender(w http.ResponseWriter, r *http.Request, f *form.Form) {
	p, err := h.page(r)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, "awards", "Awards", f, p)
}

// List handles GET /admin/awards
func (h *AwardHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := h.page(r)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "awards", "Awards", form.New(nil), p)
}

// AddType handles POST /admin/awards/types/add
func (h *AwardHandler) AddType(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, awardsPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}

	if f.Required("name").MaxLength("name", 32).Valid() {
		_, err = h.awards.AddType(r.Context(), actor(r), f.Get("name"))
		if err == nil {
			h.redirect(w, r, view.FlashSuccess, "flash.added", awardsPath)
			return
		}
		if !f.ApplyError(err) {
			h.fail(w, r, err, awardsPath)
			return
		}
	}
	h.rerender(w, r, f)
}

// Grant handles POST /admin/awards/grant
func (h *AwardHandler) Grant(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, awardsPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}

	f.Required("user", "award_type", "amount").MaxLength("reason", 512)
	in := service.GrantInput{
		UserID:      f.Int64("user"),
		AwardTypeID: f.Int64("award_type"),
		Amount:      f.Int("amount"),
		Reason:      f.Get("reason"),
		Date:        f.Date("date"),
	}
	if f.Get("character") != "" {
		id := f.Int64("character")
		in.CharacterID = &id
	}
	if f.Valid() {
		_, err = h.awards.GrantAward(r.Context(), actor(r), in)
		if err == nil {
			h.redirect(w, r, view.FlashSuccess, "flash.added", awardsPath)
			return
		}
		if !f.ApplyError(err) {
			h.fail(w, r, err, awardsPath)
			return
		}
	}
	h.rerender(w, r, f)
}

// History handles GET /admin/awards/user/{id}
func (h *AwardHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, awardsPath)
		return
	}
	p, err := h.users.Profile(r.Context(), actor(r), id)
	if err != nil {
		h.fail(w, r, err, awardsPath)
		return
	}
	totals, err := h.awards.AwardTotals(r.Context(), actor(r), id)
	if err != nil {
		h.fail(w, r, err, awardsPath)
		return
	}
	logs, err := h.awards.History(r.Context(), actor(r), id)
	if err != nil {
		h.fail(w, r, err, awardsPath)
		return
	}
	h.render(w, r, http.StatusOK, "award_history", "Awards", nil, awardHistoryPage{User: p.User, Logs: logs, Totals: totals})
}
