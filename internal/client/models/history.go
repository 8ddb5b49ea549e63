package models

import "time"

// UploadRecord is one row of the local upload history.
type UploadRecord struct {
	ID         string
	PhotoID    int64
	FolderID   string
	FileName   string
	FileSize   int64
	FileURL    string
	Digest     string
	MirrorKey  string
	UploadedAt time.Time
	Deleted    bool
}
