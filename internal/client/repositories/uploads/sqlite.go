package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/dmitrijs2005/photobooth/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `id, photo_id, folder_id, file_name, file_size, file_url, digest, mirror_key, uploaded_at, deleted`

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.UploadRecord) error {
	query := `INSERT INTO uploads (id, photo_id, folder_id, file_name, file_size, file_url, digest, mirror_key, uploaded_at, deleted)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.PhotoID, rec.FolderID, rec.FileName, rec.FileSize, rec.FileURL,
		rec.Digest, rec.MirrorKey, rec.UploadedAt.UTC().UnixMilli(), rec.Deleted)
	if err != nil {
		return fmt.Errorf("failed to insert upload: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]*models.UploadRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM uploads WHERE deleted = 0 ORDER BY uploaded_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.query(ctx, query, args...)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.UploadRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM uploads WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upload %s: %w", id, err)
	}
	return rec, nil
}

func (r *SQLiteRepository) FindByDigest(ctx context.Context, digest string) ([]*models.UploadRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM uploads WHERE digest = ? AND deleted = 0 ORDER BY uploaded_at DESC`
	return r.query(ctx, query, digest)
}

func (r *SQLiteRepository) MarkDeleted(ctx context.Context, photoID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE uploads SET deleted = 1 WHERE photo_id = ? AND deleted = 0`, photoID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark photo %d deleted: %w", photoID, err)
	}
	return result.RowsAffected()
}

func (r *SQLiteRepository) MarkFolderDeleted(ctx context.Context, folderID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE uploads SET deleted = 1 WHERE folder_id = ? AND deleted = 0`, folderID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark folder %s deleted: %w", folderID, err)
	}
	return result.RowsAffected()
}

func (r *SQLiteRepository) SetMirrorKey(ctx context.Context, id, key string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE uploads SET mirror_key = ? WHERE id = ?`, key, id)
	if err != nil {
		return fmt.Errorf("failed to set mirror key: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]*models.UploadRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error selecting uploads: %w", err)
	}
	defer rows.Close()

	var result []*models.UploadRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan upload row: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.UploadRecord, error) {
	rec := &models.UploadRecord{}
	var uploadedAt int64
	err := s.Scan(&rec.ID, &rec.PhotoID, &rec.FolderID, &rec.FileName, &rec.FileSize,
		&rec.FileURL, &rec.Digest, &rec.MirrorKey, &uploadedAt, &rec.Deleted)
	if err != nil {
		return nil, err
	}
	rec.UploadedAt = time.UnixMilli(uploadedAt).UTC()
	return rec, nil
}
