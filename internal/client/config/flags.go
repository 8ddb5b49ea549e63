package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/photobooth/internal/flagx"
)

var knownFlags = []string{"-a", "-f", "-t", "-s", "-i", "-d", "-db", "-camera", "-autostart", "-l"}

// parseFlags populates Config fields from command-line flags.
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags, "-autostart")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the Photobooth server")
	fs.StringVar(&cfg.FolderID, "f", cfg.FolderID, "folder to upload into")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "upload token of the folder")
	fs.StringVar(&cfg.SessionCookie, "s", cfg.SessionCookie, "session cookie of the booth owner")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DownloadDir, "d", cfg.DownloadDir, "directory for downloaded photos")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "path to the local history database")
	fs.StringVar(&cfg.CameraSource, "camera", cfg.CameraSource, "image file or directory used as camera")
	fs.BoolVar(&cfg.ScanAutostart, "autostart", cfg.ScanAutostart, "start scanning on launch")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
