package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/photobooth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/photobooth/internal/dbx"
)

var ErrNotScanLink = errors.New("not an upload link")

// SessionState is the upload target and current page kept across restarts.
type SessionState struct {
	FolderID string
	Token    string
	Page     string
}

// SessionService persists SessionState in the metadata table.
type SessionService interface {
	Load(ctx context.Context) (SessionState, error)
	SetTarget(ctx context.Context, folderID, token string) error
	SetPage(ctx context.Context, page string) error
	Clear(ctx context.Context) error
}

type sessionService struct {
	db *sql.DB
}

func NewSessionService(db *sql.DB) SessionService {
	return &sessionService{db: db}
}

func (s *sessionService) Load(ctx context.Context) (SessionState, error) {
	repo := metadata.NewSQLiteRepository(s.db)
	all, err := repo.List(ctx)
	if err != nil {
		return SessionState{}, err
	}
	return SessionState{
		FolderID: all[metadata.KeyFolderID],
		Token:    all[metadata.KeyToken],
		Page:     all[metadata.KeyPage],
	}, nil
}

// SetTarget stores folder and token together; an empty token is removed.
func (s *sessionService) SetTarget(ctx context.Context, folderID, token string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metadata.KeyFolderID, folderID); err != nil {
			return err
		}
		if token == "" {
			return repo.Delete(ctx, metadata.KeyToken)
		}
		return repo.Set(ctx, metadata.KeyToken, token)
	})
}

func (s *sessionService) SetPage(ctx context.Context, page string) error {
	return metadata.NewSQLiteRepository(s.db).Set(ctx, metadata.KeyPage, page)
}

func (s *sessionService) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Clear(ctx)
}

// ParseScanLink extracts folder and token from a scanned upload link such
// as https://host/scan?token=abc&folder=f1. It returns the link's path and
// query as the page to show.
func ParseScanLink(raw string) (folderID, token, page string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrNotScanLink, err)
	}
	q := u.Query()
	folderID, token = q.Get("folder"), q.Get("token")
	if !strings.Contains(u.Path, "/scan") || folderID == "" || token == "" {
		return "", "", "", ErrNotScanLink
	}
	return folderID, token, u.RequestURI(), nil
}
