package apperrors

import (
	"errors"

	"gorm.io/gorm"
)

// Error: доменная ошибка с кодом.
type Error struct {
	Code    Code   // машиночитаемый код
	Message string // сообщение для логов и пользователя
	Field   string // поле формы, если ошибка относится к нему
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil && e.Message == "" {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Invalid создаёт ошибку валидации конкретного поля.
func Invalid(field, message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message, Field: field}
}

// Конструкторы для самых частых случаев.
func NotFound(message string) *Error         { return New(CodeNotFound, message) }
func PermissionDenied(message string) *Error { return New(CodePermissionDenied, message) }
func AlreadyExists(message string) *Error    { return New(CodeAlreadyExists, message) }

// CodeOf извлекает код из цепочки ошибок. Для nil возвращает "".
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// HasCode проверяет код ошибки в цепочке.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// FromStorage переводит ошибки GORM в доменные коды.
// Неизвестные ошибки возвращаются как CodeInternal.
func FromStorage(err error, message string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(CodeNotFound, message, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Wrap(CodeAlreadyExists, message, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Wrap(CodeFailedPrecondition, message, err)
	default:
		return Wrap(CodeInternal, message, err)
	}
}
