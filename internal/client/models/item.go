package models

type ItemKind string

const (
	ItemPhoto  ItemKind = "photo"
	ItemFolder ItemKind = "folder"
)

// Item is a deletable entry of a rendered photo or folder list.
type Item struct {
	Kind ItemKind
	ID   string
	Name string
}

// ActionResult is the JSON body of the photo/folder action endpoints.
type ActionResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	ShareURL string `json:"share_url,omitempty"`
}

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthStatus is the body of GET /check_auth.
type AuthStatus struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// Download describes a photo saved by GET /photo/download/{id}.
type Download struct {
	PhotoID string
	Path    string
	Size    int64
}
