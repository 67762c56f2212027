// Package form разбирает и проверяет данные HTML-форм.
package form

import (
	"errors"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
)

// Ключи сообщений, общие с каталогом переводов.
const (
	MsgRequired = "this field is required"
	MsgTooLong  = "value is too long"
	MsgEmail    = "invalid email address"
	MsgNumber   = "must be a number"
	MsgChoice   = "invalid choice"
	MsgMismatch = "passwords must match"
	MsgDate     = "invalid date"
)

// DateLayout: формат полей <input type="date">.
const DateLayout = "2006-01-02"

// Form хранит значения формы и ошибки по полям.
type Form struct {
	Values url.Values
	Errors map[string]string
}

func New(values url.Values) *Form {
	if values == nil {
		values = url.Values{}
	}
	return &Form{Values: values, Errors: map[string]string{}}
}

// Get возвращает значение поля без пробелов по краям.
func (f *Form) Get(field string) string {
	return strings.TrimSpace(f.Values.Get(field))
}

// Raw возвращает значение как есть (для паролей).
func (f *Form) Raw(field string) string {
	return f.Values.Get(field)
}

// AddError запоминает первую ошибку поля.
func (f *Form) AddError(field, msg string) {
	if _, exists := f.Errors[field]; exists {
		return
	}
	f.Errors[field] = msg
}

func (f *Form) Valid() bool {
	return len(f.Errors) == 0
}

func (f *Form) Required(fields ...string) *Form {
	for _, field := range fields {
		if f.Get(field) == "" {
			f.AddError(field, MsgRequired)
		}
	}
	return f
}

func (f *Form) MaxLength(field string, n int) *Form {
	if utf8.RuneCountInString(f.Get(field)) > n {
		f.AddError(field, MsgTooLong)
	}
	return f
}

func (f *Form) Email(field string) *Form {
	v := f.Get(field)
	if v == "" {
		return f
	}
	if _, err := mail.ParseAddress(v); err != nil {
		f.AddError(field, MsgEmail)
	}
	return f
}

// EqualTo проверяет совпадение двух полей, ошибка вешается на field.
func (f *Form) EqualTo(field, other string) *Form {
	if f.Raw(field) != f.Raw(other) {
		f.AddError(field, MsgMismatch)
	}
	return f
}

func (f *Form) OneOf(field string, allowed ...string) *Form {
	v := f.Get(field)
	if v == "" {
		return f
	}
	for _, a := range allowed {
		if v == a {
			return f
		}
	}
	f.AddError(field, MsgChoice)
	return f
}

// Int разбирает целое; пустое значение даёт 0 без ошибки.
func (f *Form) Int(field string) int {
	v := f.Get(field)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f.AddError(field, MsgNumber)
		return 0
	}
	return n
}

func (f *Form) Int64(field string) int64 {
	v := f.Get(field)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		f.AddError(field, MsgNumber)
		return 0
	}
	return n
}

// Date разбирает дату; пустое значение даёт нулевое время без ошибки.
func (f *Form) Date(field string) time.Time {
	v := f.Get(field)
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		f.AddError(field, MsgDate)
		return time.Time{}
	}
	return t
}

// Bool: чекбокс считается отмеченным при любом непустом значении, кроме "false" и "0".
func (f *Form) Bool(field string) bool {
	switch strings.ToLower(f.Get(field)) {
	case "", "0", "false", "off":
		return false
	default:
		return true
	}
}

// ApplyError переносит ошибку поля из сервиса в форму.
// Возвращает false, если ошибка не относится к конкретному полю.
func (f *Form) ApplyError(err error) bool {
	var e *apperrors.Error
	if !errors.As(err, &e) || e.Field == "" || e.Code != apperrors.CodeInvalidArgument {
		return false
	}
	f.AddError(e.Field, e.Message)
	return true
}
