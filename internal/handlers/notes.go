package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/service"
	"github.com/Leganyst/campaign-platform/internal/view"
)

const notesPath = "/admin/notes"

// NoteHandler: заметки мастера о персонаже.
type NoteHandler struct {
	*Responder
	svc *service.NoteService
}

func NewNoteHandler(resp *Responder, svc *service.NoteService) *NoteHandler {
	return &NoteHandler{Responder: resp, svc: svc}
}

type notesPage struct {
	CharacterID int64
	Notes       []model.CharacterNote
}

func characterNotesPath(characterID int64) string {
	return fmt.Sprintf("%s/notes/%d", charactersPath, characterID)
}

func noteForm(f *form.Form) *form.Form {
	return f.Required("title").MaxLength("title", 200)
}

// List handles GET /admin/characters/notes/{id}
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	notes, err := h.svc.List(r.Context(), actor(r), id)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	h.render(w, r, http.StatusOK, "notes", "Notes", form.New(nil), notesPage{CharacterID: id, Notes: notes})
}

// Add handles POST /admin/characters/notes/{id}/add
func (h *NoteHandler) Add(w http.ResponseWriter, r *http.Request) {
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

	if noteForm(f).Valid() {
		_, err = h.svc.Add(r.Context(), actor(r), id, service.NoteInput{Title: f.Get("title"), Body: f.Raw("body")})
		if err == nil {
			h.redirect(w, r, view.FlashSuccess, "flash.added", characterNotesPath(id))
			return
		}
		if !f.ApplyError(err) {
			h.fail(w, r, err, characterNotesPath(id))
			return
		}
	}

	notes, err := h.svc.List(r.Context(), actor(r), id)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, "notes", "Notes", f, notesPage{CharacterID: id, Notes: notes})
}

// EditForm handles GET /admin/notes/edit/{id}
func (h *NoteHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	n, err := h.svc.Get(r.Context(), actor(r), id)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	f := form.New(url.Values{"title": {n.Title}, "body": {n.Body}})
	h.render(w, r, http.StatusOK, "note_form", "Edit note", f, fmt.Sprintf("%s/edit/%d", notesPath, id))
}

// Edit handles POST /admin/notes/edit/{id}
func (h *NoteHandler) Edit(w http.ResponseWriter, r *http.Request) {
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
	action := fmt.Sprintf("%s/edit/%d", notesPath, id)
	if !noteForm(f).Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, "note_form", "Edit note", f, action)
		return
	}

	n, err := h.svc.Update(r.Context(), actor(r), id, service.NoteInput{Title: f.Get("title"), Body: f.Raw("body")})
	if f.ApplyError(err) {
		h.render(w, r, http.StatusUnprocessableEntity, "note_form", "Edit note", f, action)
		return
	}
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.updated", characterNotesPath(n.CharacterID))
}

// Delete handles POST /admin/notes/delete/{id}
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	n, err := h.svc.Get(r.Context(), actor(r), id)
	if err == nil {
		err = h.svc.Delete(r.Context(), actor(r), id)
	}
	if err != nil {
		h.fail(w, r, err, charactersPath)
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.deleted", characterNotesPath(n.CharacterID))
}
