package metadata

import (
	"context"
)

// Keys persisted between runs.
const (
	KeyFolderID = "folder_id"
	KeyToken    = "token"
	KeyPage     = "page"
)

type Repository interface {
	// Get returns "" and no error when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
