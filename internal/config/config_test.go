package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "maitred.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
journal:
  backend: postgres
  postgres:
    host: db.internal
    user: maitred
    password: secret
    database: maitred
amqp:
  enabled: true
  host: mq.internal
  user: guest
  password: guest
floor_plan_dir: ./floorplan
menu:
  cache_ttl_seconds: 60
  dishes:
    - ref: margherita
      name: Margherita
      price_cents: 1250
    - ref: truffle
      name: Truffle Special
      price_cents: 4800
      available: false
`))
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Journal.Backend)
	assert.Equal(t, "db.internal", cfg.Journal.Postgres.Host)
	assert.Equal(t, 5432, cfg.Journal.Postgres.Port, "port defaults when omitted")

	assert.True(t, cfg.AMQP.Enabled)
	assert.Equal(t, 5672, cfg.AMQP.Port)
	assert.Equal(t, "maitred.events", cfg.AMQP.Exchange)

	assert.Equal(t, time.Minute, cfg.Menu.CacheTTL)
	require.Len(t, cfg.Menu.Dishes, 2)
	assert.True(t, cfg.Menu.Dishes[0].DishAvailable(), "availability defaults to true")
	assert.False(t, cfg.Menu.Dishes[1].DishAvailable())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Journal.Backend)
	assert.Equal(t, "maitred.db", cfg.Journal.SQLitePath)
	assert.False(t, cfg.AMQP.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Menu.CacheTTL)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, BackendSQLite, cfg.Journal.Backend)
	assert.Equal(t, "maitred.db", cfg.Journal.SQLitePath)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	_, err := Load(writeConfig(t, `journal: {backend: etcd}`))
	assert.ErrorContains(t, err, "unknown journal backend")

	_, err = Load(writeConfig(t, `journal: {backend: postgres}`))
	assert.ErrorContains(t, err, "database is required")

	_, err = Load(writeConfig(t, `
menu:
  dishes:
    - name: unnamed
      price_cents: 100
`))
	assert.ErrorContains(t, err, "ref is required")

	_, err = Load(writeConfig(t, `unknown_key: 1`))
	assert.Error(t, err, "unknown keys are a config mistake, not noise")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
