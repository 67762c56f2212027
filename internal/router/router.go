// Package router собирает HTTP-маршруты приложения.
package router

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Leganyst/campaign-platform/internal/handlers"
	"github.com/Leganyst/campaign-platform/internal/middleware"
)

// Handlers: все обработчики, которые регистрирует роутер.
type Handlers struct {
	Base           *handlers.Responder
	Characters     *handlers.CharacterHandler
	Roles          *handlers.RoleHandler
	Users          *handlers.UserHandler
	Items          *handlers.ItemHandler
	AttributeTypes *handlers.AttributeTypeHandler
	Attributes     *handlers.AttributeHandler
	Inventory      *handlers.InventoryHandler
	Notes          *handlers.NoteHandler
	Awards         *handlers.AwardHandler
	Advancement    *handlers.AdvancementHandler
	Tickets        *handlers.TicketHandler
	Auth           *handlers.AuthHandler
	Health         http.HandlerFunc
}

// crud: маршруты справочника в форме list/add/edit/delete.
type crud interface {
	List(http.ResponseWriter, *http.Request)
	AddForm(http.ResponseWriter, *http.Request)
	Add(http.ResponseWriter, *http.Request)
	EditForm(http.ResponseWriter, *http.Request)
	Edit(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

func registerCRUD(mux *http.ServeMux, prefix string, h crud) {
	auth := middleware.RequireUser
	mux.HandleFunc("GET "+prefix, auth(h.List))
	mux.HandleFunc("GET "+prefix+"/add", auth(h.AddForm))
	mux.HandleFunc("POST "+prefix+"/add", auth(h.Add))
	mux.HandleFunc("GET "+prefix+"/edit/{id}", auth(h.EditForm))
	mux.HandleFunc("POST "+prefix+"/edit/{id}", auth(h.Edit))
	mux.HandleFunc("GET "+prefix+"/delete/{id}", auth(h.Delete))
	mux.HandleFunc("POST "+prefix+"/delete/{id}", auth(h.Delete))
}

// registerCharacterPages: атрибуты, инвентарь и заметки персонажа.
// Маршруты вида /admin/characters/{id}/... пересекаются с /admin/characters/edit/{id},
// поэтому раздел идёт перед {id}.
func registerCharacterPages(mux *http.ServeMux, h Handlers) {
	auth := middleware.RequireUser
	mux.HandleFunc("GET /admin/attributes", auth(h.Attributes.List))
	mux.HandleFunc("POST /admin/attributes/add", auth(h.Attributes.Add))
	mux.HandleFunc("POST /admin/attributes/delete/{id}", auth(h.Attributes.Delete))
	mux.HandleFunc("GET /admin/characters/attributes/{id}", auth(h.Attributes.CharacterAttributes))
	mux.HandleFunc("POST /admin/characters/attributes/{id}/set", auth(h.Attributes.SetRank))
	mux.HandleFunc("POST /admin/characters/attributes/{id}/remove/{attr}", auth(h.Attributes.RemoveRank))

	mux.HandleFunc("GET /admin/characters/inventory/{id}", auth(h.Inventory.Show))
	mux.HandleFunc("POST /admin/characters/inventory/{id}/add", auth(h.Inventory.Add))
	mux.HandleFunc("POST /admin/characters/inventory/{id}/remove", auth(h.Inventory.Remove))

	mux.HandleFunc("GET /admin/characters/notes/{id}", auth(h.Notes.List))
	mux.HandleFunc("POST /admin/characters/notes/{id}/add", auth(h.Notes.Add))
	mux.HandleFunc("GET /admin/notes/edit/{id}", auth(h.Notes.EditForm))
	mux.HandleFunc("POST /admin/notes/edit/{id}", auth(h.Notes.Edit))
	mux.HandleFunc("POST /admin/notes/delete/{id}", auth(h.Notes.Delete))
}

func registerAwards(mux *http.ServeMux, h *handlers.AwardHandler) {
	auth := middleware.RequireUser
	mux.HandleFunc("GET /admin/awards", auth(h.List))
	mux.HandleFunc("POST /admin/awards/types/add", auth(h.AddType))
	mux.HandleFunc("POST /admin/awards/grant", auth(h.Grant))
	mux.HandleFunc("GET /admin/awards/user/{id}", auth(h.History))
}

func registerAdvancement(mux *http.ServeMux, h *handlers.AdvancementHandler) {
	auth := middleware.RequireUser
	mux.HandleFunc("GET /admin/advancement", auth(h.Lists))
	mux.HandleFunc("POST /admin/advancement/add", auth(h.CreateList))
	mux.HandleFunc("GET /admin/advancement/view/{id}", auth(h.Show))
	mux.HandleFunc("POST /admin/advancement/options/{id}", auth(h.AddOption))
	mux.HandleFunc("GET /advancement", auth(h.Visible))
	mux.HandleFunc("GET /advancement/options/{id}", auth(h.Available))
}

func registerTickets(mux *http.ServeMux, h *handlers.TicketHandler) {
	auth := middleware.RequireUser
	mux.HandleFunc("GET /tickets", auth(h.List))
	mux.HandleFunc("POST /tickets/open", auth(h.Open))
	mux.HandleFunc("GET /tickets/view/{id}", auth(h.Show))
	mux.HandleFunc("POST /tickets/comment/{id}", auth(h.Comment))
	mux.HandleFunc("GET /admin/tickets", auth(h.Buckets))
	mux.HandleFunc("POST /admin/tickets/buckets/add", auth(h.AddBucket))
	mux.HandleFunc("POST /admin/tickets/assign/{id}", auth(h.Assign))
	mux.HandleFunc("POST /admin/tickets/status/{id}", auth(h.Status))
	mux.HandleFunc("POST /admin/tickets/access/{id}", auth(h.Access))
}

// NewRouter возвращает корневой http.Handler с цепочкой middleware:
// Recover -> WithLogging -> LoadUser -> mux.
func NewRouter(h Handlers, sessions middleware.SessionResolver, cookieName string, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Base.Home)
	mux.Handle("GET /healthz", h.Health)

	registerCRUD(mux, "/admin/characters", h.Characters)
	registerCRUD(mux, "/admin/roles", h.Roles)
	registerCRUD(mux, "/admin/items", h.Items)
	registerCRUD(mux, "/admin/attribute-types", h.AttributeTypes)

	mux.HandleFunc("GET /admin/users", middleware.RequireUser(h.Users.List))
	mux.HandleFunc("GET /admin/users/assign/{id}", middleware.RequireUser(h.Users.AssignForm))
	mux.HandleFunc("POST /admin/users/assign/{id}", middleware.RequireUser(h.Users.Assign))
	mux.HandleFunc("GET /admin/users/view/{id}", middleware.RequireUser(h.Users.Show))
	mux.HandleFunc("POST /admin/users/admin/{id}", middleware.RequireUser(h.Users.SetAdmin))
	mux.HandleFunc("GET /admin/users/delete/{id}", middleware.RequireUser(h.Users.Delete))
	mux.HandleFunc("POST /admin/users/delete/{id}", middleware.RequireUser(h.Users.Delete))

	registerCharacterPages(mux, h)
	registerAwards(mux, h.Awards)
	registerAdvancement(mux, h.Advancement)
	registerTickets(mux, h.Tickets)

	mux.HandleFunc("GET /auth/register", h.Auth.RegisterForm)
	mux.HandleFunc("POST /auth/register", h.Auth.Register)
	mux.HandleFunc("GET /auth/login", h.Auth.LoginForm)
	mux.HandleFunc("POST /auth/login", h.Auth.Login)
	mux.HandleFunc("GET /auth/logout", h.Auth.Logout)
	mux.HandleFunc("POST /auth/logout", h.Auth.Logout)

	var handler http.Handler = mux
	handler = middleware.LoadUser(sessions, cookieName, handler)
	handler = middleware.WithLogging(log, handler)
	handler = middleware.Recover(log, handler)
	return handler
}
