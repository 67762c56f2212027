package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/config"
	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/service"
	"github.com/Leganyst/campaign-platform/internal/view"
)

// registerField описывает поле формы регистрации.
// Поле с Options рисуется как select.
type registerField struct {
	Label   string
	Type    string
	Name    string
	Options []string
}

// numberRange возвращает числа from..to в виде строк.
func numberRange(from, to int) []string {
	out := make([]string, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, strconv.Itoa(n))
	}
	return out
}

func birthDays() []string { return numberRange(1, 31) }

func birthYears() []string { return numberRange(service.MinBirthYear, time.Now().Year()) }

func registerFields() []registerField {
	return []registerField{
		{Label: "Email", Type: "email", Name: "email"},
		{Label: "Username", Type: "text", Name: "username"},
		{Label: "First name", Type: "text", Name: "first_name"},
		{Label: "Last name", Type: "text", Name: "last_name"},
		{Label: "Phone", Type: "tel", Name: "phone"},
		{Label: "Birth month", Name: "birth_month", Options: service.BirthMonths},
		{Label: "Birth day", Name: "birth_day", Options: birthDays()},
		{Label: "Birth year", Name: "birth_year", Options: birthYears()},
		{Label: "Emergency contact name", Type: "text", Name: "emergency_contact_name"},
		{Label: "Emergency contact number", Type: "tel", Name: "emergency_contact_number"},
		{Label: "Password", Type: "password", Name: "password"},
		{Label: "Confirm password", Type: "password", Name: "confirm_password"},
	}
}

type AuthHandler struct {
	*Responder
	svc     *service.IdentityService
	session config.SessionConfig
}

func NewAuthHandler(resp *Responder, svc *service.IdentityService, session config.SessionConfig) *AuthHandler {
	return &AuthHandler{Responder: resp, svc: svc, session: session}
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", "Register", form.New(nil), registerFields())
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}

	f.Required("email", "username", "first_name", "last_name", "phone",
		"birth_month", "birth_day", "birth_year",
		"emergency_contact_name", "emergency_contact_number",
		"password", "confirm_password").
		OneOf("birth_month", service.BirthMonths...).
		OneOf("birth_day", birthDays()...).
		OneOf("birth_year", birthYears()...).
		Email("email").
		MaxLength("email", 60).
		MaxLength("username", 200).
		MaxLength("first_name", 60).
		MaxLength("last_name", 60).
		MaxLength("phone", 20).
		MaxLength("emergency_contact_name", 60).
		MaxLength("emergency_contact_number", 20).
		EqualTo("confirm_password", "password")
	in := service.RegisterInput{
		Email:                  f.Get("email"),
		Username:               f.Get("username"),
		FirstName:              f.Get("first_name"),
		LastName:               f.Get("last_name"),
		Phone:                  f.Get("phone"),
		BirthMonth:             f.Get("birth_month"),
		BirthDay:               f.Int("birth_day"),
		BirthYear:              f.Int("birth_year"),
		EmergencyContactName:   f.Get("emergency_contact_name"),
		EmergencyContactNumber: f.Get("emergency_contact_number"),
		Password:               f.Raw("password"),
		ConfirmPassword:        f.Raw("confirm_password"),
	}
	if !f.Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, "register", "Register", f, registerFields())
		return
	}

	_, err = h.svc.Register(r.Context(), in)
	if f.ApplyError(err) {
		h.render(w, r, http.StatusUnprocessableEntity, "register", "Register", f, registerFields())
		return
	}
	if err != nil {
		h.fail(w, r, err, "/auth/register")
		return
	}
	h.redirect(w, r, view.FlashSuccess, "flash.registered", "/auth/login")
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", "Log in", form.New(nil), nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	f, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r)
		return
	}
	if !f.Required("email", "password").Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, "login", "Log in", f, nil)
		return
	}

	sess, err := h.svc.Login(r.Context(), f.Get("email"), f.Raw("password"))
	if apperrors.CodeOf(err) == apperrors.CodeUnauthenticated {
		// Не уточняем, что именно неверно: email или пароль.
		f.AddError("password", service.MsgBadCredentials)
		h.render(w, r, http.StatusUnauthorized, "login", "Log in", f, nil)
		return
	}
	if err != nil {
		h.fail(w, r, err, "/auth/login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.redirect(w, r, view.FlashSuccess, "", "/")
}

// Logout handles GET and POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(h.session.CookieName); err == nil {
		if err := h.svc.Logout(r.Context(), c.Value); err != nil {
			h.fail(w, r, err, "/")
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.redirect(w, r, view.FlashSuccess, "flash.logged_out", "/auth/login")
}
