// Package items implements the per-item actions of the photo and folder
// lists: confirmed deletes, share links, QR deactivation and downloads.
package items
