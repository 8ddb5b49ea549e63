package config

import "time"

// S3Config describes the optional bucket that mirrors uploaded photos.
type S3Config struct {
	Bucket    string `env:"BUCKET"`
	Region    string `env:"REGION"`
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
}

// Config holds runtime settings for the Photobooth terminal client.
//
// Fields:
//   - ServerURL: base URL of the Photobooth backend.
//   - FolderID, Token: initial upload target; a scanned link replaces them.
//   - SessionCookie: value of the owner's session cookie, empty for guests.
//   - OnlineCheckInterval: how often the client probes /check_auth.
//   - ToastDelay: how long a toast stays on screen.
//   - CameraSource: image file or directory of frames used as the camera.
type Config struct {
	ServerURL           string        `env:"SERVER_URL"`
	FolderID            string        `env:"FOLDER_ID"`
	Token               string        `env:"TOKEN"`
	SessionCookie       string        `env:"SESSION"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`
	ToastDelay          time.Duration `env:"TOAST_DELAY"`
	DatabasePath        string        `env:"DATABASE_PATH"`
	DownloadDir         string        `env:"DOWNLOAD_DIR"`
	CameraSource        string        `env:"CAMERA"`
	ScanAutostart       bool          `env:"SCAN_AUTOSTART"`
	LogLevel            string        `env:"LOG_LEVEL"`
	S3                  S3Config      `envPrefix:"S3_"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.OnlineCheckInterval = 3 * time.Second
	c.ToastDelay = 5 * time.Second
	c.DatabasePath = "photobooth.db"
	c.DownloadDir = "downloads"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including an optional .env file), JSON (if present) and
// command-line flags (if present). Later sources take precedence over
// earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
