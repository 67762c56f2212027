package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

func TestLoadAndTranslate(t *testing.T) {
	require.NoError(t, Load())
	require.NoError(t, Load())

	assert.Equal(t, "Role not found.", T(language.English, "role not found"))
	assert.Equal(t, "Роль не найдена.", T(language.Russian, "role not found"))
	assert.Equal(t, "no such key", T(language.Russian, "no such key"))
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
		accept string
		want   language.Tag
	}{
		{name: "default", target: "/", want: language.English},
		{name: "accept ru", target: "/", accept: "ru-RU,ru;q=0.9,en;q=0.8", want: language.Russian},
		{name: "accept unsupported", target: "/", accept: "de-DE", want: language.English},
		{name: "query wins", target: "/?lang=ru", accept: "en-US", want: language.Russian},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			got := FromRequest(r, language.English)
			base, _ := got.Base()
			wantBase, _ := tt.want.Base()
			assert.Equal(t, wantBase, base)
		})
	}
}

func TestParse(t *testing.T) {
	base, _ := Parse("ru").Base()
	assert.Equal(t, "ru", base.String())

	base, _ = Parse("???").Base()
	assert.Equal(t, "en", base.String())
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	read := func(name string) catalogFile {
		data, err := localesFS.ReadFile("locales/" + name)
		require.NoError(t, err)
		var c catalogFile
		require.NoError(t, yaml.Unmarshal(data, &c))
		return c
	}
	en, ru := read("en.yaml"), read("ru.yaml")

	for key := range en.Messages {
		assert.Contains(t, ru.Messages, key)
	}
	for key := range ru.Messages {
		assert.Contains(t, en.Messages, key)
	}
}
