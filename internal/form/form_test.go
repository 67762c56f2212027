package form

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
)

func TestForm_Checks(t *testing.T) {
	f := New(url.Values{
		"name":     {"  "},
		"email":    {"nope"},
		"password": {"a"},
		"confirm":  {"b"},
		"count":    {"x1"},
		"status":   {"weird"},
		"long":     {"abcdef"},
		"day":      {"2025-02-30"},
	})

	f.Required("name").
		Email("email").
		EqualTo("confirm", "password").
		OneOf("status", "open", "closed").
		MaxLength("long", 5)
	assert.Zero(t, f.Int("count"))
	assert.True(t, f.Date("day").IsZero())

	assert.False(t, f.Valid())
	assert.Equal(t, map[string]string{
		"name":    MsgRequired,
		"email":   MsgEmail,
		"confirm": MsgMismatch,
		"count":   MsgNumber,
		"status":  MsgChoice,
		"long":    MsgTooLong,
		"day":     MsgDate,
	}, f.Errors)
}

func TestForm_ValidValues(t *testing.T) {
	f := New(url.Values{
		"name":  {" Aria "},
		"email": {"a@example.com"},
		"qty":   {"12"},
		"id":    {"9000000000"},
		"flag":  {"on"},
		"day":   {"2025-03-14"},
	})

	f.Required("name", "email").Email("email")
	assert.Equal(t, "Aria", f.Get("name"))
	assert.Equal(t, 12, f.Int("qty"))
	assert.Equal(t, int64(9000000000), f.Int64("id"))
	assert.Zero(t, f.Int("missing"))
	assert.True(t, f.Bool("flag"))
	assert.False(t, f.Bool("missing"))
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), f.Date("day"))
	assert.True(t, f.Date("missing").IsZero())
	assert.True(t, f.Valid())
}

func TestForm_FirstErrorWins(t *testing.T) {
	f := New(nil)
	f.AddError("name", "first")
	f.AddError("name", "second")
	assert.Equal(t, "first", f.Errors["name"])
}

func TestForm_ApplyError(t *testing.T) {
	f := New(nil)

	assert.True(t, f.ApplyError(apperrors.Invalid("name", MsgRequired)))
	assert.Equal(t, MsgRequired, f.Errors["name"])

	assert.False(t, f.ApplyError(apperrors.NotFound("gone")))
	assert.False(t, f.ApplyError(&apperrors.Error{Code: apperrors.CodeAlreadyExists, Field: "name", Message: "dup"}))
	assert.False(t, f.ApplyError(apperrors.New(apperrors.CodeInvalidArgument, "no field")))
	assert.Len(t, f.Errors, 1)
}
