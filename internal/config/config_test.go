package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbind/internal/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "formbind.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	path := writeFile(t, `
server:
  addr: ":9000"
  shutdown_timeout: 3s
store:
  driver: sqlite
  dsn: file:people.db
log:
  level: debug
binding:
  max_index: 50
`)
	t.Setenv("FORMBIND_LOG_FORMAT", "json")
	t.Setenv("FORMBIND_STORE_DSN", "file:env.db")

	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	fs.String("addr", "", "")
	fs.Int("max-index", 0, "")
	require.NoError(t, fs.Parse([]string{"--max-index=7"}))

	v := config.New()
	require.NoError(t, config.BindFlags(v, fs))
	cfg, err := config.Load(v, path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr, "unchanged flag must not override the file")
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "file:env.db", cfg.Store.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 7, cfg.Binding.MaxIndex)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeFile(t, "store:\n  driver: postgres\n")
	_, err = config.Load(config.New(), path)
	assert.ErrorContains(t, err, "store.driver")

	path = writeFile(t, "binding:\n  max_index: -1\n")
	_, err = config.Load(config.New(), path)
	assert.ErrorContains(t, err, "binding.max_index")
}
