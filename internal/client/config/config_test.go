package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:5000", c.ServerURL)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 5*time.Second, c.ToastDelay)
	assert.Equal(t, "photobooth.db", c.DatabasePath)
	assert.Equal(t, "downloads", c.DownloadDir)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Chdir(t.TempDir())

	path := writeTempJSON(t, "", "", map[string]any{
		"server_url":  "http://json:1",
		"folder_id":   "json-folder",
		"toast_delay": "2s",
	})
	t.Setenv("PHOTOBOOTH_SERVER_URL", "http://env:1")
	t.Setenv("PHOTOBOOTH_TOKEN", "env-token")

	os.Args = []string{"photobooth", "-c", path, "-f", "flag-folder"}
	cfg := LoadConfig()

	want := defaults()
	want.ServerURL = "http://json:1"
	want.FolderID = "flag-folder"
	want.Token = "env-token"
	want.ToastDelay = 2 * time.Second
	assert.Empty(t, cmp.Diff(want, cfg))
}
