package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load()
	require.NoError(t, err)
	assert.Equal(t, GetDefaults(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  url: https://marv.example.org
  rate_limit: 5
listing:
  page_size: 0
  timezone: UTC
log:
  level: debug
`)

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "https://marv.example.org", cfg.Server.URL)
	assert.Equal(t, 5.0, cfg.Server.RateLimit)
	assert.Equal(t, 0, cfg.Listing.PageSize)
	assert.Equal(t, time.UTC, cfg.Listing.Location())
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.True(t, cfg.General.ConfirmDestructiveOps, "unset keys keep defaults")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("LAZYMARV_SERVER_URL", "http://env.example.org:9000")
	t.Setenv("LAZYMARV_LISTING_PAGE_SIZE", "7")

	cfg, err := NewLoader(writeConfig(t, "server:\n  url: http://file.example.org\n")).Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.org:9000", cfg.Server.URL)
	assert.Equal(t, 7, cfg.Listing.PageSize)
}

func TestValidation(t *testing.T) {
	cases := map[string]string{
		"bad url":       "server:\n  url: not a url\n",
		"negative page": "listing:\n  page_size: -1\n",
		"negative rate": "server:\n  rate_limit: -2\n",
		"unknown level": "log:\n  level: chatty\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader(writeConfig(t, body)).Load()
			assert.Error(t, err)
		})
	}
}

func TestMalformedFile(t *testing.T) {
	_, err := NewLoader(writeConfig(t, "server: [unclosed\n")).Load()
	assert.Error(t, err)
}

func TestWatchReloads(t *testing.T) {
	path := writeConfig(t, "listing:\n  page_size: 10\n")
	l := NewLoader(path)
	_, err := l.Load()
	require.NoError(t, err)

	changed := make(chan *Config, 4)
	l.Watch(func(_ fsnotify.Event, cfg *Config, err error) {
		if err == nil {
			changed <- cfg
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("listing:\n  page_size: 25\n"), 0o644))

	// a write may surface as several events, the first possibly on a truncated file
	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changed:
			if cfg.Listing.PageSize != 25 {
				continue
			}
			assert.Equal(t, 25, l.Current().Listing.PageSize)
			return
		case <-timeout:
			t.Fatal("config change not observed")
		}
	}
}

func TestLogPath(t *testing.T) {
	c := LogConfig{File: "/tmp/custom.log"}
	p, err := c.LogPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.log", p)
}
