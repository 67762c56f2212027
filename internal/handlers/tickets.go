package handlers

import (
	"fmt"
	"net/http"

	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/service"
	"github.com/Leganyst/campaign-platform/internal/view"
)

const (
	ticketsPath      = "/tickets"
	adminTicketsPath = "/admin/tickets"
)

var ticketStatuses = []model.TicketStatus{
	model.TicketStatusOpen,
	model.TicketStatusInProgress,
	model.TicketStatusResolved,
	model.TicketStatusClosed,
}

// TicketHandler: обращения игроков и их разбор персоналом.
type TicketHandler struct {
	*Responder
	svc   *service.TicketService
	users *service.UserService
}

func NewTicketHandler(resp *Responder, svc *service.TicketService, users *service.UserService) *TicketHandler {
	return &TicketHandler{Responder: resp, svc: svc, users: users}
}

type ticketsPage struct {
	Buckets []model.Bucket
	Tickets []model.BucketTicket
}

type ticketPage struct {
	Ticket   *model.BucketTicket
	Users    []model.User
	Statuses []model.TicketStatus
}

func ticketPath(id int64) string {
	return fmt.Sprintf("%s/view/%d", ticketsPath, id)
}

func (h *TicketHandler) listPage(r *http.Request) (*ticketsPage, error) {
	buckets, err := h.svc.ListBuckets(r.Context(), actor(r))
	if err != nil {
		return nil, err
	}
	tickets, err := h.svc.TicketsVisibleTo(r.Context(), actor(r))
	if err != nil {
		return nil, err
	}
	return &ticketsPage{Buckets: buckets, Tickets: tickets}, nil
}

// List handles GET /tickets
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := h.listPage(r)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "tickets", "Tickets", form.New(nil), p)
}

// Open handles POST /tickets/open
func (h *TicketHandler) Open(w http.ResponseWriter, r *http.Request) {
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}

	if f.Required("bucket", "title").MaxLength("title", 128).Valid() {
		t, err := h.svc.OpenTicket(r.Context(), actor(r), f.Int64("bucket"), f.Get("title"))
		if err == nil {
			h.redirect(w, r, view.FlashSuccess, "flash.added", ticketPath(t.ID))
			return
		}
		if !f.ApplyError(err) {
			h.fail(w, r, err, ticketsPath)
			return
		}
	}

	p, err := h.listPage(r)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, "tickets", "Tickets", f, p)
}

func (h *TicketHandler) loadTicket(r *http.Request, id int64) (*ticketPage, error) {
	t, err := h.svc.Get(r.Context(), actor(r), id)
	if err != nil {
		return nil, err
	}
	p := &ticketPage{Ticket: t}
	if actor(r).IsAdmin {
		if p.Users, err = h.users.List(r.Context(), actor(r)); err != nil {
			return nil, err
		}
		p.Statuses = ticketStatuses
	}
	return p, nil
}

func (h *TicketHandler) showTicket(w http.ResponseWriter, r *http.Request, status int, id int64, f *form.Form) {
	p, err := h.loadTicket(r, id)
	if err != nil {
		h.fail(w, r, err, ticketsPath)
		return
	}
	h.render(w, r, status, "ticket", p.Ticket.Title, f, p)
}

// Show handles GET /tickets/view/{id}
func (h *TicketHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err, ticketsPath)
		return
	}
	h.showTicket(w, r, http.StatusOK, id, form.New(nil))
}

// Comment handles POST /tickets/comment/{id}
func (h *TicketHandler) Comment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err, ticketsPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}

	if f.Required("comment").MaxLength("comment", 1024).Valid() {
		_, err = h.svc.CommentTicket(r.Context(), actor(r), id, f.Get("comment"))
		if err == nil {
			h.redirect(w, r, view.FlashSuccess, "flash.added", ticketPath(id))
			return
		}
		if !f.ApplyError(err) {
			h.fail(w, r, err, ticketPath(id))
			return
		}
	}
	h.showTicket(w, r, http.StatusUnprocessableEntity, id, f)
}

// Buckets handles GET /admin/tickets
func (h *TicketHandler) Buckets(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, "/")
		return
	}
	p, err := h.listPage(r)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "ticket_buckets", "Tickets", form.New(nil), p)
}

// AddBucket handles POST /admin/tickets/buckets/add
func (h *TicketHandler) AddBucket(w http.ResponseWriter, r *http.Request) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		h.fail(w, r, err, adminTicketsPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}

	if f.Required("name").MaxLength("name", 64).Valid() {
		_, err = h.svc.CreateBucket(r.Context(), actor(r), f.Get("name"))
		if err == nil {
			h.redirect(w, r, view.FlashSuccess, "flash.added", adminTicketsPath)
			return
		}
		if !f.ApplyError(err) {
			h.fail(w, r, err, adminTicketsPath)
			return
		}
	}

	p, err := h.listPage(r)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, "ticket_buckets", "Tickets", f, p)
}

// staffChange разбирает форму администратора над тикетом и вызывает apply.
func (h *TicketHandler) staffChange(w http.ResponseWriter, r *http.Request, validate func(*form.Form), apply func(id int64, f *form.Form) error) {
	id, err := adminID(r)
	if err != nil {
		h.fail(w, r, err, ticketsPath)
		return
	}
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}

	validate(f)
	if f.Valid() {
		err = apply(id, f)
		if err == nil {
			h.redirect(w, r, view.FlashSuccess, "flash.updated", ticketPath(id))
			return
		}
		if !f.ApplyError(err) {
			h.fail(w, r, err, ticketPath(id))
			return
		}
	}
	h.showTicket(w, r, http.StatusUnprocessableEntity, id, f)
}

// Assign handles POST /admin/tickets/assign/{id}; пустой assignee снимает назначение.
func (h *TicketHandler) Assign(w http.ResponseWriter, r *http.Request) {
	h.staffChange(w, r,
		func(f *form.Form) { f.Int64("assignee") },
		func(id int64, f *form.Form) error {
			var assignee *int64
			if f.Get("assignee") != "" {
				v := f.Int64("assignee")
				assignee = &v
			}
			return h.svc.AssignTicket(r.Context(), actor(r), id, assignee)
		})
}

// Status handles POST /admin/tickets/status/{id}
func (h *TicketHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.staffChange(w, r,
		func(f *form.Form) {
			f.Required("status").OneOf("status", "1", "2", "3", "4")
		},
		func(id int64, f *form.Form) error {
			return h.svc.SetTicketStatus(r.Context(), actor(r), id, model.TicketStatus(f.Int("status")))
		})
}

// Access handles POST /admin/tickets/access/{id}
func (h *TicketHandler) Access(w http.ResponseWriter, r *http.Request) {
	h.staffChange(w, r,
		func(f *form.Form) {
			f.Required("user")
			f.Int64("user")
		},
		func(id int64, f *form.Form) error {
			return h.svc.GrantTicketAccess(r.Context(), actor(r), id, f.Int64("user"), f.Bool("can_read"), f.Bool("can_write"))
		})
}
