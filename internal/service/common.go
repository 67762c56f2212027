package service

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/model"
)

// Сообщения об ошибках. Они же ключи каталога переводов.
const (
	MsgLoginRequired    = "login required"
	MsgAdminRequired    = "admin privileges required"
	MsgFieldRequired    = "this field is required"
	MsgFieldTooLong     = "value is too long"
	MsgCharacterMissing = "character not found"
	MsgRoleMissing      = "role not found"
	MsgUserMissing      = "user not found"
	MsgItemMissing      = "item not found"
	MsgTypeMissing      = "attribute type not found"
	MsgAttrMissing      = "attribute not found"
	MsgNoteMissing      = "note not found"
	MsgAwardTypeMissing = "award type not found"
	MsgListMissing      = "advancement list not found"
	MsgBucketMissing    = "bucket not found"
	MsgTicketMissing    = "ticket not found"
	MsgDuplicate        = "an entry with this name already exists"
	MsgRoleDuplicate    = "role name already in use"
	MsgInUse            = "entry is still in use"
	MsgTargetIsAdmin    = "cannot assign to an admin account"
	MsgUserHasChars     = "user still owns characters"
	MsgUserHasTickets   = "user still has open tickets"
	MsgSelfDelete       = "you cannot delete your own account"
	MsgSelfDemote       = "you cannot revoke your own admin rights"
	MsgQuantity         = "quantity must be greater than zero"
	MsgRank             = "rank must not be negative"
	MsgAmount           = "amount must not be zero"
	MsgNotEnoughItems   = "not enough items in inventory"
	MsgForeignCharacter = "character does not belong to this user"
	MsgStatus           = "unknown ticket status"
	MsgNoWriteAccess    = "no write access to this ticket"
	MsgNoReadAccess     = "no read access to this ticket"
	MsgChargenOnly      = "this list is only available during character generation"
	MsgStorage          = "storage error"
)

// requireAdmin: проверка прав перед любым чтением или изменением.
func requireAdmin(actor *model.User) error {
	if actor == nil {
		return apperrors.New(apperrors.CodeUnauthenticated, MsgLoginRequired)
	}
	if !actor.IsAdmin {
		return apperrors.PermissionDenied(MsgAdminRequired)
	}
	return nil
}

func requireUser(actor *model.User) error {
	if actor == nil {
		return apperrors.New(apperrors.CodeUnauthenticated, MsgLoginRequired)
	}
	return nil
}

// cleanRequired обрезает пробелы и проверяет обязательное поле.
func cleanRequired(field, v string, max int) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperrors.Invalid(field, MsgFieldRequired)
	}
	if max > 0 && utf8.RuneCountInString(v) > max {
		return "", apperrors.Invalid(field, MsgFieldTooLong)
	}
	return v, nil
}

func cleanOptional(field, v string, max int) (string, error) {
	v = strings.TrimSpace(v)
	if max > 0 && utf8.RuneCountInString(v) > max {
		return "", apperrors.Invalid(field, MsgFieldTooLong)
	}
	return v, nil
}

func storageErr(err error, msg string) error {
	return apperrors.FromStorage(err, msg)
}

func actorField(actor *model.User) zap.Field {
	if actor == nil {
		return zap.Skip()
	}
	return zap.Int64("actor_id", actor.ID)
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// CheckAdmin: та же проверка прав, что выполняют операции сервисов.
// Нужна обработчикам, которые показывают форму без обращения к сервису.
func CheckAdmin(actor *model.User) error {
	return requireAdmin(actor)
}
