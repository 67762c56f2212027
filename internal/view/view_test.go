package view

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gorm.io/datatypes"

	"github.com/Leganyst/campaign-platform/internal/form"
	"github.com/Leganyst/campaign-platform/internal/i18n"
	"github.com/Leganyst/campaign-platform/internal/model"
)

func TestRenderer_ListPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, "characters", Page{
		Title: "Characters",
		User:  &model.User{Username: "gm", IsAdmin: true},
		Data: []model.Character{
			{ID: 1, Name: "Aria <3", User: &model.User{Username: "ann"}},
		},
		Lang: language.English,
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "Aria &lt;3")
	assert.Contains(t, body, "/admin/characters/edit/1")
	assert.Contains(t, body, "ann")
}

func TestRenderer_FormErrorsAreTranslated(t *testing.T) {
	require.NoError(t, i18n.Load())
	r, err := New()
	require.NoError(t, err)

	f := form.New(url.Values{"description": {"Support class"}})
	f.Required("name", "description")

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusUnprocessableEntity, "role_form", Page{
		Title: "Add role",
		Form:  f,
		Data:  "/admin/roles/add",
		Lang:  language.Russian,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Обязательное поле.")
	assert.Contains(t, body, `value="Support class"`)
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.Error(t, r.Render(httptest.NewRecorder(), http.StatusOK, "nope", Page{}))
	assert.Error(t, r.Render(httptest.NewRecorder(), http.StatusOK, "layout", Page{}))
}

func TestFormatDate(t *testing.T) {
	d := datatypes.Date(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-03-14", formatDate(d))
}

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	SetFlash(rec, FlashError, "role name already in use")

	req := httptest.NewRequest(http.MethodGet, "/admin/roles", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	out := httptest.NewRecorder()
	fl := PopFlash(out, req)
	require.NotNil(t, fl)
	assert.Equal(t, FlashError, fl.Kind)
	assert.Equal(t, "role name already in use", fl.Message)

	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	assert.Nil(t, PopFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestRenderer_UsersShowJoinedAge(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, "users", Page{
		Title: "Users",
		Data: []model.User{
			{ID: 2, Username: "player", CreatedAt: time.Now().Add(-50 * time.Hour)},
			{ID: 3, Username: "legacy"},
		},
		Lang: language.English,
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "2 days ago")
	assert.Equal(t, 1, strings.Count(body, " ago"))
	assert.Contains(t, body, "/admin/users/assign/3")
}
