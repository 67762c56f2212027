package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "campaign.yaml", `
db:
  driver: sqlite
  path: /tmp/campaign.db
http:
  addr: ":9090"
  read_timeout: 5s
log:
  level: debug
  format: console
`)
	cfg := Default()
	require.NoError(t, LoadFile(path, &cfg))

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/campaign.db", cfg.DB.Path)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	// Values missing from the file keep their defaults.
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile_TOML(t *testing.T) {
	path := writeFile(t, "campaign.toml", `
default_locale = "ru"

[db]
host = "db.internal"
name = "cyaniel"

[session]
cookie_name = "sid"
ttl = "2h"
`)
	cfg := Default()
	require.NoError(t, LoadFile(path, &cfg))

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "cyaniel", cfg.DB.Name)
	assert.Equal(t, "sid", cfg.Session.CookieName)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "ru", cfg.DefaultLocale)
}

func TestLoadFile_UnknownExtension(t *testing.T) {
	path := writeFile(t, "campaign.ini", "x=1")
	cfg := Default()
	assert.Error(t, LoadFile(path, &cfg))
}

func TestParseEnv_OverridesFileValues(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "override.db")
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("SESSION_TTL", "30m")

	cfg := Default()
	cfg.HTTP.Addr = ":9090"
	require.NoError(t, ParseEnv(&cfg))

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "override.db", cfg.DB.Path)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestDBConfig_Validate(t *testing.T) {
	cfg := defaultDBConfig()
	require.NoError(t, cfg.Validate())

	cfg.Host = ""
	assert.Error(t, cfg.Validate())

	cfg = defaultDBConfig()
	cfg.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = defaultDBConfig()
	cfg.Driver = " SQLite "
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DriverSQLite, cfg.Driver)
}

func TestDBConfig_DSN(t *testing.T) {
	cfg := defaultDBConfig()
	assert.Equal(t,
		"host=postgres user=campaign password=campaign dbname=campaign_db port=5432 sslmode=disable TimeZone=UTC",
		cfg.DSN(),
	)

	cfg.Driver = DriverSQLite
	cfg.Path = "file::memory:?cache=shared"
	assert.Equal(t, "file::memory:?cache=shared&_foreign_keys=on", cfg.DSN())
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Session.TTL = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Log.Format = "xml"
	assert.Error(t, cfg.Validate())
}
