// Package cli provides the interactive Photobooth terminal client.
//
// It wires configuration, the local history database, the backend API
// client and the upload, scan and item controllers behind a REPL. Terminal
// views stand in for the page: progress lines, a result panel, scanner
// messages and colored toasts.
//
// Key features:
//   - pick / upload image files into the current folder
//   - scan a QR upload link from a camera source
//   - delete photos and folders, share, download, deactivate QR codes
//   - local upload history that survives restarts
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// A background watcher polls /check_auth and flips the prompt between
// online and offline.
package cli
