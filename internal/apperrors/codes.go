// Package apperrors описывает типизированные ошибки уровня приложения.
package apperrors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code: машиночитаемый код ошибки.
type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodePermissionDenied   Code = "PERMISSION_DENIED"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus возвращает HTTP-статус для кода.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeFailedPrecondition:
		return http.StatusConflict
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// GRPCCode возвращает соответствующий gRPC-код.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeInvalidArgument:
		return codes.InvalidArgument
	case CodeNotFound:
		return codes.NotFound
	case CodeAlreadyExists:
		return codes.AlreadyExists
	case CodePermissionDenied:
		return codes.PermissionDenied
	case CodeUnauthenticated:
		return codes.Unauthenticated
	case CodeFailedPrecondition:
		return codes.FailedPrecondition
	case CodeInternal:
		return codes.Internal
	default:
		return codes.Unknown
	}
}

// Expected сообщает, является ли ошибка ожидаемым исходом запроса
// (показывается пользователю), а не сбоем.
func (c Code) Expected() bool {
	switch c {
	case CodeInvalidArgument, CodeNotFound, CodeAlreadyExists,
		CodePermissionDenied, CodeUnauthenticated, CodeFailedPrecondition:
		return true
	default:
		return false
	}
}
