// Package i18n регистрирует переводы сообщений и выбирает язык запроса.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

var (
	supported = []language.Tag{language.English, language.Russian}
	matcher   = language.NewMatcher(supported)

	once    sync.Once
	loadErr error
)

// Load регистрирует встроенные каталоги в x/text/message. Повторные вызовы безопасны.
func Load() error {
	once.Do(func() {
		loadErr = register(localesFS)
	})
	return loadErr
}

func register(fsys fs.FS) error {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no catalogs found")
	}
	sort.Strings(paths)

	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parse catalog %s: %w", p, err)
		}
		want := strings.TrimSuffix(path.Base(p), path.Ext(p))
		if file.Locale != want {
			return fmt.Errorf("catalog %s: locale %q must match file name", p, file.Locale)
		}
		tag, err := language.Parse(file.Locale)
		if err != nil {
			return fmt.Errorf("catalog %s: %w", p, err)
		}
		for key, value := range file.Messages {
			if err := message.SetString(tag, key, value); err != nil {
				return fmt.Errorf("catalog %s: key %q: %w", p, key, err)
			}
		}
	}
	return nil
}

// Supported возвращает поддерживаемые языки.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Parse разбирает код языка и приводит его к поддерживаемому.
func Parse(locale string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return language.English
	}
	return Match(tag)
}

// Match выбирает ближайший поддерживаемый язык.
func Match(tags ...language.Tag) language.Tag {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

// FromRequest выбирает язык по query-параметру lang, затем по Accept-Language.
func FromRequest(r *http.Request, fallback language.Tag) language.Tag {
	if r == nil {
		return fallback
	}
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			return Match(tag)
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return Match(tags...)
		}
	}
	return fallback
}

// Printer возвращает принтер для языка.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// T переводит ключ; неизвестный ключ возвращается как есть.
func T(tag language.Tag, key string) string {
	return message.NewPrinter(tag).Sprintf(key)
}
