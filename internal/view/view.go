// Package view рендерит HTML-страницы из встроенных шаблонов.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"gorm.io/datatypes"

	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/i18n"
	"github.com/Leganyst/campaign-platform/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "templates/layout.html"

// Page: данные, доступные каждому шаблону.
type Page struct {
	Title string
	User  *model.User
	Flash *Flash
	Form  *form.Form
	Data  any
	Lang  language.Tag
}

// T переводит ключ на язык страницы.
func (p Page) T(key string) string {
	return i18n.T(p.Lang, key)
}

// FieldError возвращает переведённую ошибку поля формы.
func (p Page) FieldError(field string) string {
	if p.Form == nil {
		return ""
	}
	msg, ok := p.Form.Errors[field]
	if !ok {
		return ""
	}
	return p.T(msg)
}

// Value возвращает введённое значение поля формы.
func (p Page) Value(field string) string {
	if p.Form == nil {
		return ""
	}
	return p.Form.Get(field)
}

// funcs доступны во всех шаблонах.
var funcs = template.FuncMap{
	"since": humanize.Time,
	"date":  formatDate,
}

func formatDate(d datatypes.Date) string {
	return time.Time(d).Format(form.DateLayout)
}

type Renderer struct {
	pages map[string]*template.Template
}

// New разбирает layout и все страницы. Имя страницы совпадает с именем файла без расширения.
func New() (*Renderer, error) {
	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	r := &Renderer{pages: map[string]*template.Template{}}
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(f), path.Ext(f))
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render пишет страницу со статусом status. Шаблон рендерится в буфер,
// чтобы ошибка шаблона не оставила наполовину записанный ответ.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data Page) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
