package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/auth"
	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/i18n"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/service"
	"github.com/Leganyst/campaign-platform/internal/view"
)

// Responder: общие для всех обработчиков рендеринг, редиректы и обработка ошибок.
type Responder struct {
	views *view.Renderer
	log   *zap.Logger
	lang  language.Tag
}

func NewResponder(views *view.Renderer, log *zap.Logger, defaultLang language.Tag) *Responder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Responder{views: views, log: log, lang: defaultLang}
}

func (h *Responder) render(w http.ResponseWriter, r *http.Request, status int, page, title string, f *form.Form, data any) {
	u, _ := auth.UserFrom(r.Context())
	err := h.views.Render(w, status, page, view.Page{
		Title: title,
		User:  u,
		Flash: view.PopFlash(w, r),
		Form:  f,
		Data:  data,
		Lang:  i18n.FromRequest(r, h.lang),
	})
	if err != nil {
		h.log.Error("render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// redirect ставит flash-сообщение и отправляет 303 на target.
func (h *Responder) redirect(w http.ResponseWriter, r *http.Request, kind view.FlashKind, msg, target string) {
	if msg != "" {
		view.SetFlash(w, kind, msg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// fail отображает ошибку сервиса по её коду.
// Конфликты целостности показываются flash-сообщением с возвратом на back.
func (h *Responder) fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	code := apperrors.CodeOf(err)
	msg := err.Error()
	if code.Expected() {
		h.log.Debug("request rejected",
			zap.String("path", r.URL.Path),
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}

	switch code {
	case apperrors.CodeUnauthenticated:
		h.redirect(w, r, view.FlashError, msg, "/auth/login")
	case apperrors.CodeAlreadyExists, apperrors.CodeFailedPrecondition:
		h.redirect(w, r, view.FlashError, msg, back)
	case apperrors.CodePermissionDenied, apperrors.CodeNotFound, apperrors.CodeInvalidArgument:
		h.render(w, r, code.HTTPStatus(), "error", http.StatusText(code.HTTPStatus()), nil, msg)
	default:
		h.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Stringer("grpc_code", code.GRPCCode()),
			zap.Error(err),
		)
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Message != "" {
			msg = appErr.Message
		} else {
			msg = "storage error"
		}
		h.render(w, r, http.StatusInternalServerError, "error", http.StatusText(http.StatusInternalServerError), nil, msg)
	}
}

func (h *Responder) badRequest(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusBadRequest, "error", http.StatusText(http.StatusBadRequest), nil, nil)
}

func actor(r *http.Request) *model.User {
	u, _ := auth.UserFrom(r.Context())
	return u
}

// pathID разбирает {id}; некорректный id трактуется как отсутствующая запись.
func pathID(r *http.Request) (int64, error) {
	return pathInt(r, "id")
}

func pathInt(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NotFound("not found")
	}
	return id, nil
}

// adminID проверяет права администратора раньше разбора {id}.
func adminID(r *http.Request) (int64, error) {
	if err := service.CheckAdmin(actor(r)); err != nil {
		return 0, err
	}
	return pathID(r)
}

// parseForm разбирает тело POST-запроса.
func parseForm(r *http.Request) (*form.Form, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return form.New(r.PostForm), nil
}
