package items

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/photobooth/internal/client/client"
	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/dmitrijs2005/photobooth/internal/filex"
	"github.com/dmitrijs2005/photobooth/internal/logging"
	"github.com/patrickmn/go-cache"
)

const (
	FolderListPath = "/folders"
	folderViewPath = "/folder/view/"

	ShareLinkTTL = time.Hour
)

type Deps struct {
	API       API
	Confirmer Confirmer
	Notifier  Notifier
	View      View
	Navigator Navigator

	// Optional.
	History History
	Logger  logging.Logger
}

type Manager struct {
	deps   Deps
	log    logging.Logger
	shares *cache.Cache
}

func NewManager(deps Deps) *Manager {
	l := deps.Logger
	if l == nil {
		l = logging.Nop()
	}
	return &Manager{
		deps:   deps,
		log:    l.With("component", "items"),
		shares: cache.New(ShareLinkTTL, 10*time.Minute),
	}
}

// DeletePhoto asks for confirmation and deletes the photo. It reports
// whether the photo is gone; a declined prompt is (false, nil).
func (m *Manager) DeletePhoto(ctx context.Context, item models.Item) (bool, error) {
	prompt := fmt.Sprintf(`Are you sure you want to delete the photo "%s"? This action cannot be undone.`, item.Name)
	ok, err := m.deps.Confirmer.Confirm(ctx, prompt)
	if err != nil || !ok {
		return false, err
	}

	res, err := m.deps.API.DeletePhoto(ctx, item.ID)
	if err = actionError(res, err); err != nil {
		m.log.Warn(ctx, "delete photo failed", "photo_id", item.ID, "err", err)
		m.deps.Notifier.Show(serverMessage(err, "Error deleting photo."), models.LevelDanger)
		return false, err
	}

	m.shares.Delete(item.ID)
	m.deps.View.Remove(item)
	m.deps.Notifier.Show("Photo deleted successfully.", models.LevelSuccess)

	if m.deps.History != nil {
		if err := m.deps.History.MarkPhotoDeleted(ctx, item.ID); err != nil {
			m.log.Error(ctx, "failed to update history", "photo_id", item.ID, "err", err)
		}
	}
	return true, nil
}

// DeleteFolder asks for confirmation and deletes the folder with all its
// photos. When the folder's own page is open, it moves to the folder list.
func (m *Manager) DeleteFolder(ctx context.Context, item models.Item) (bool, error) {
	prompt := fmt.Sprintf(`Are you sure you want to delete the folder "%s" and all its photos? This action cannot be undone.`, item.Name)
	ok, err := m.deps.Confirmer.Confirm(ctx, prompt)
	if err != nil || !ok {
		return false, err
	}

	res, err := m.deps.API.DeleteFolder(ctx, item.ID)
	if err = actionError(res, err); err != nil {
		m.log.Warn(ctx, "delete folder failed", "folder_id", item.ID, "err", err)
		m.deps.Notifier.Show(serverMessage(err, "Error deleting folder."), models.LevelDanger)
		return false, err
	}

	m.deps.View.Remove(item)
	m.deps.Notifier.Show("Folder and all its photos deleted successfully.", models.LevelSuccess)

	if m.deps.History != nil {
		if err := m.deps.History.MarkFolderDeleted(ctx, item.ID); err != nil {
			m.log.Error(ctx, "failed to update history", "folder_id", item.ID, "err", err)
		}
	}

	if strings.Contains(m.deps.Navigator.Location(), folderViewPath) {
		if err := m.deps.Navigator.Navigate(FolderListPath); err != nil {
			m.log.Warn(ctx, "navigation failed", "err", err)
		}
	}
	return true, nil
}

// SharePhoto returns a public link for the photo. Links are remembered
// for ShareLinkTTL.
func (m *Manager) SharePhoto(ctx context.Context, photoID string) (string, error) {
	if v, ok := m.shares.Get(photoID); ok {
		return v.(string), nil
	}

	res, err := m.deps.API.SharePhoto(ctx, photoID)
	if err == nil && res != nil && res.Success && res.ShareURL == "" {
		err = errors.New("server returned no share url")
	}
	if err = actionError(res, err); err != nil {
		m.deps.Notifier.Show(serverMessage(err, "Error sharing photo."), models.LevelDanger)
		return "", err
	}

	m.shares.Set(photoID, res.ShareURL, cache.DefaultExpiration)
	return res.ShareURL, nil
}

// DeactivateQR stops the folder's QR code from accepting guest uploads.
func (m *Manager) DeactivateQR(ctx context.Context, item models.Item) (bool, error) {
	prompt := fmt.Sprintf(`Are you sure you want to deactivate the QR code of the folder "%s"? Guests will no longer be able to upload with it.`, item.Name)
	ok, err := m.deps.Confirmer.Confirm(ctx, prompt)
	if err != nil || !ok {
		return false, err
	}

	res, err := m.deps.API.DeactivateQR(ctx, item.ID)
	if err = actionError(res, err); err != nil {
		m.deps.Notifier.Show(serverMessage(err, "Error deactivating QR code."), models.LevelDanger)
		return false, err
	}

	msg := res.Message
	if msg == "" {
		msg = "QR code deactivated successfully."
	}
	m.deps.Notifier.Show(msg, models.LevelSuccess)
	return true, nil
}

// DownloadPhoto saves the photo into dir under the server's file name,
// never overwriting an existing file.
func (m *Manager) DownloadPhoto(ctx context.Context, photoID, dir string) (*models.Download, error) {
	d, err := m.download(ctx, photoID, dir)
	if err != nil {
		m.log.Warn(ctx, "download failed", "photo_id", photoID, "err", err)
		m.deps.Notifier.Show(serverMessage(err, "Error downloading photo."), models.LevelDanger)
		return nil, err
	}
	m.deps.Notifier.Show("Photo saved to "+d.Path, models.LevelSuccess)
	return d, nil
}

func (m *Manager) download(ctx context.Context, photoID, dir string) (*models.Download, error) {
	dir, err := filex.EnsureSubdDir(dir)
	if err != nil {
		return nil, err
	}

	body, name, err := m.deps.API.DownloadPhoto(ctx, photoID)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	path, err := filex.UniquePath(dir, name)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, err
	}

	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("save %s: %w", path, err)
	}

	return &models.Download{PhotoID: photoID, Path: path, Size: n}, nil
}

// actionError folds a {success:false} body into the error path.
func actionError(res *models.ActionResult, err error) error {
	if err != nil {
		return err
	}
	if res == nil || !res.Success {
		msg := ""
		if res != nil {
			msg = res.Message
		}
		return &client.StatusError{Status: 200, Message: msg}
	}
	return nil
}

func serverMessage(err error, fallback string) string {
	var se *client.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
