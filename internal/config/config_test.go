package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/nova/internal/config"
	"github.com/aretw0/nova/internal/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nova.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, runtime.DefaultTiming(), cfg.EngineTiming())
	assert.Equal(t, "Santhosh_M_Resume.pdf", cfg.Asset.Name)
	assert.Equal(t, 1.2, cfg.Voice.Pitch)
	assert.Equal(t, []string{"Google US English", "Microsoft Zira"}, cfg.Voice.Voices)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
timing:
  reveal: 10ms
  feedback_close: 1s
anchors: ["#about"]
redis:
  addr: localhost:6379
  ttl: 1h
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10*time.Millisecond, cfg.Timing.Reveal)
	assert.Equal(t, time.Second, cfg.Timing.FeedbackClose)
	assert.Equal(t, 500*time.Millisecond, cfg.Timing.Options, "unset keys keep defaults")
	assert.Equal(t, []string{"#about"}, cfg.Anchors)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "server:\n  addr: \":9000\"\n")
	t.Setenv("NOVA_SERVER_ADDR", ":7000")
	t.Setenv("NOVA_TIMING_GREET", "5s")
	t.Setenv("NOVA_ANCHORS", "#a,#b")
	t.Setenv("NOVA_VOICE_ENABLED", "false")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Timing.Greet)
	assert.Equal(t, []string{"#a", "#b"}, cfg.Anchors)
	assert.False(t, cfg.Voice.Enabled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	t.Chdir(t.TempDir())
	cfg, err := config.Load("")
	require.NoError(t, err, "the default file is optional")
	assert.Equal(t, config.Default().Server, cfg.Server)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := config.Load(writeFile(t, "timing: [not, a, map]"))
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = config.Load(writeFile(t, "timing:\n  reveal: -1s\nanchors: [contact]\n"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "timing.reveal must not be negative")
	assert.ErrorContains(t, err, `anchor "contact" must look like #id`)

	t.Setenv("NOVA_TIMING_OPTIONS", "soon")
	_, err = config.Load(writeFile(t, ""))
	assert.ErrorContains(t, err, "parse env")
}
