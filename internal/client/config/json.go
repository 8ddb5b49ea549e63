package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/photobooth/internal/flagx"
	"github.com/dmitrijs2005/photobooth/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	ServerURL           string          `json:"server_url"`
	FolderID            string          `json:"folder_id"`
	Token               string          `json:"token"`
	SessionCookie       string          `json:"session"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	ToastDelay          *timex.Duration `json:"toast_delay"`
	DatabasePath        string          `json:"database_path"`
	DownloadDir         string          `json:"download_dir"`
	CameraSource        string          `json:"camera"`
	ScanAutostart       *bool           `json:"scan_autostart"`
	LogLevel            string          `json:"log_level"`
	S3                  *JsonS3Config   `json:"s3"`
}

type JsonS3Config struct {
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// parseJson overlays Config with values loaded from the JSON file passed via
// -c or -config. Keys missing from the file leave the current values alone.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.FolderID, jc.FolderID)
	setString(&cfg.Token, jc.Token)
	setString(&cfg.SessionCookie, jc.SessionCookie)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.DownloadDir, jc.DownloadDir)
	setString(&cfg.CameraSource, jc.CameraSource)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.ToastDelay != nil {
		cfg.ToastDelay = jc.ToastDelay.Duration
	}
	if jc.ScanAutostart != nil {
		cfg.ScanAutostart = *jc.ScanAutostart
	}
	if s3 := jc.S3; s3 != nil {
		setString(&cfg.S3.Bucket, s3.Bucket)
		setString(&cfg.S3.Region, s3.Region)
		setString(&cfg.S3.Endpoint, s3.Endpoint)
		setString(&cfg.S3.AccessKey, s3.AccessKey)
		setString(&cfg.S3.SecretKey, s3.SecretKey)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
