package view

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookie = "flash"

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash: одноразовое сообщение, переживающее редирект.
// Message хранит ключ перевода.
type Flash struct {
	Kind    FlashKind
	Message string
}

func SetFlash(w http.ResponseWriter, kind FlashKind, message string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(string(kind) + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash читает сообщение и сразу удаляет cookie.
func PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	kind, msg, ok := strings.Cut(string(raw), "|")
	if !ok || msg == "" {
		return nil
	}
	return &Flash{Kind: FlashKind(kind), Message: msg}
}
