package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestDurationJSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, 90*time.Second, d.Duration)

	require.NoError(t, json.Unmarshal([]byte(`1000`), &d))
	assert.Equal(t, time.Microsecond, d.Duration)

	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &d))

	b, err := json.Marshal(Duration{2 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"2s"`, string(b))
}

func TestLoad(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"mode": "production",
		"addr": ":9000",
		"jwt": {"secret": "from-file", "token_lifetime": "1h"},
		"session": {"tick": "500ms"}
	}`), 0o600))

	t.Setenv("SWEEPER_ADDR", ":9999")
	t.Setenv("SWEEPER_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.Production())
	assert.Equal(t, ":9999", c.Addr)
	assert.Equal(t, "from-file", c.Jwt.Secret)
	assert.Equal(t, time.Hour, c.Jwt.TokenLifetime.Duration)
	assert.Equal(t, 500*time.Millisecond, c.Session.Tick.Duration)
	assert.Equal(t, 30*time.Minute, c.Session.IdleTimeout.Duration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)

	assert.True(t, c.OriginAllowed("https://A.example"))
	assert.False(t, c.OriginAllowed("https://evil.example"))
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default().Addr, c.Addr)
	assert.True(t, c.Development())
	assert.True(t, c.OriginAllowed("https://anywhere.example"))
}

func TestLoadBadEnv(t *testing.T) {
	for _, key := range []string{"SWEEPER_TICK", "SWEEPER_IDLE_TIMEOUT", "SWEEPER_SWEEP_INTERVAL"} {
		t.Run(key, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(key, "often")
			_, err := Load("")
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoadSessionDurations(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SWEEPER_TICK", "250ms")
	t.Setenv("SWEEPER_IDLE_TIMEOUT", "10m")
	t.Setenv("SWEEPER_SWEEP_INTERVAL", "30s")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, c.Session.Tick.Duration)
	assert.Equal(t, 10*time.Minute, c.Session.IdleTimeout.Duration)
	assert.Equal(t, 30*time.Second, c.Session.SweepInterval.Duration)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(".env", []byte("SWEEPER_MODE=production\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SWEEPER_MODE") })

	c, err := Load("")
	require.NoError(t, err)
	assert.True(t, c.Production())
}

func TestNewLogger(t *testing.T) {
	c := Default()
	log, err := NewLogger(&c)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	c.Mode = "production"
	log, err = NewLogger(&c)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	c.Log.Level = "warn"
	c.Log.File = filepath.Join(t.TempDir(), "sweeper.log")
	log, err = NewLogger(&c)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	log.Warn("written")
	assert.FileExists(t, c.Log.File)

	c.Log.Level = "loud"
	_, err = NewLogger(&c)
	assert.Error(t, err)
}
