// Package services contains application services of the Photobooth client.
// This file defines the upload history service: it records successful
// uploads and keeps local rows in step with server-side deletions.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/dmitrijs2005/photobooth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/photobooth/internal/client/repositories/uploads"
	"github.com/dmitrijs2005/photobooth/internal/dbx"
)

// KeyLastUpload holds the id of the most recent history row.
const KeyLastUpload = "last_upload"

// HistoryService defines the local upload history operations.
//
// Contract:
//   - Record/SetMirrorKey: store a finished upload and, later, its mirror key.
//   - List: newest live records first; limit <= 0 lists everything.
//   - Duplicates: live records with the same content digest.
//   - MarkPhotoDeleted/MarkFolderDeleted: hide rows removed on the server.
type HistoryService interface {
	Record(ctx context.Context, rec *models.UploadRecord) error
	SetMirrorKey(ctx context.Context, id, key string) error
	List(ctx context.Context, limit int) ([]*models.UploadRecord, error)
	Last(ctx context.Context) (*models.UploadRecord, error)
	Duplicates(ctx context.Context, digest string) ([]*models.UploadRecord, error)
	MarkPhotoDeleted(ctx context.Context, photoID string) error
	MarkFolderDeleted(ctx context.Context, folderID string) error
}

type historyService struct {
	db *sql.DB
}

func NewHistoryService(db *sql.DB) HistoryService {
	return &historyService{db: db}
}

func (s *historyService) uploads(tx dbx.DBTX) uploads.Repository {
	return uploads.NewSQLiteRepository(tx)
}

// Record inserts rec and marks it as the last upload in one transaction.
func (s *historyService) Record(ctx context.Context, rec *models.UploadRecord) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.uploads(tx).Insert(ctx, rec); err != nil {
			return err
		}
		if err := metadata.NewSQLiteRepository(tx).Set(ctx, KeyLastUpload, rec.ID); err != nil {
			return err
		}
		return nil
	})
}

func (s *historyService) SetMirrorKey(ctx context.Context, id, key string) error {
	return s.uploads(s.db).SetMirrorKey(ctx, id, key)
}

func (s *historyService) List(ctx context.Context, limit int) ([]*models.UploadRecord, error) {
	return s.uploads(s.db).List(ctx, limit)
}

// Last returns the most recent upload, or uploads.ErrNotFound.
func (s *historyService) Last(ctx context.Context) (*models.UploadRecord, error) {
	id, err := metadata.NewSQLiteRepository(s.db).Get(ctx, KeyLastUpload)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, uploads.ErrNotFound
	}
	return s.uploads(s.db).GetByID(ctx, id)
}

func (s *historyService) Duplicates(ctx context.Context, digest string) ([]*models.UploadRecord, error) {
	if digest == "" {
		return nil, nil
	}
	return s.uploads(s.db).FindByDigest(ctx, digest)
}

func (s *historyService) MarkPhotoDeleted(ctx context.Context, photoID string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(photoID), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid photo id %q: %w", photoID, err)
	}
	_, err = s.uploads(s.db).MarkDeleted(ctx, id)
	return err
}

func (s *historyService) MarkFolderDeleted(ctx context.Context, folderID string) error {
	_, err := s.uploads(s.db).MarkFolderDeleted(ctx, folderID)
	return err
}
