package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("gatepass", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, "http://localhost:8000/api", d.ServerURL)
	assert.Equal(t, "durable", d.SessionPersistence)
	assert.Equal(t, 24*time.Hour, d.SessionMaxAge)
	assert.Equal(t, 5*time.Minute, d.SessionCheckInterval)
	assert.Equal(t, "session.db", filepath.Base(d.DatabasePath))
	require.NoError(t, d.Validate())
}

func TestLoad_DefaultsOnly(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(Defaults(), *cfg))
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Cleanup(func() { _ = os.Unsetenv("GATEPASS_LOG_LEVEL") })

	file := filepath.Join(dir, "gatepass.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server_url: http://file.example/api
request_timeout: 7s
log_level: info
download_dir: /tmp/from-file
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GATEPASS_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("GATEPASS_REQUEST_TIMEOUT", "9s")

	cfg, err := Load(newFlags(t, "--config", file, "--server", "https://flag.example/api", "--session", "ephemeral"))
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example/api", cfg.ServerURL, "flag beats file")
	assert.Equal(t, 9*time.Second, cfg.RequestTimeout, "env beats file")
	assert.Equal(t, "debug", cfg.LogLevel, ".env feeds the environment")
	assert.Equal(t, "/tmp/from-file", cfg.DownloadDir)
	assert.Equal(t, "ephemeral", cfg.SessionPersistence)
	assert.Equal(t, 24*time.Hour, cfg.SessionMaxAge, "untouched keys keep defaults")

}

func TestLoad_NilFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GATEPASS_SESSION_MAX_AGE", "2h")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.SessionMaxAge)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load(newFlags(t, "--config", "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GATEPASS_SERVER_URL", "localhost:8000")
	t.Setenv("GATEPASS_LOG_FORMAT", "xml")

	_, err := Load(newFlags(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server_url")
	assert.Contains(t, err.Error(), "log_format")
}

func TestValidate_CollectsAll(t *testing.T) {
	c := Defaults()
	c.RequestTimeout = 0
	c.SessionPersistence = "cookie"
	c.SessionCheckInterval = -time.Second
	c.LogLevel = "loud"

	err := c.Validate()
	require.Error(t, err)
	for _, want := range []string{"request_timeout", "session_persistence", "session_check_interval", "log_level"} {
		assert.Contains(t, err.Error(), want)
	}

	c = Defaults()
	c.DatabasePath = ""
	require.ErrorContains(t, c.Validate(), "database_path")

	c.SessionPersistence = "ephemeral"
	require.NoError(t, c.Validate())
}
