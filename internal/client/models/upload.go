package models

// UploadRequest is the form sent to POST /upload.
type UploadRequest struct {
	File     File
	FolderID string
	Token    string
}

// UploadOutcome is the JSON body returned by POST /upload.
type UploadOutcome struct {
	Success  bool   `json:"success"`
	FileName string `json:"file_name,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
	FileURL  string `json:"file_url,omitempty"`
	Error    string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"`
	PhotoID  int64  `json:"photo_id,omitempty"`
}
