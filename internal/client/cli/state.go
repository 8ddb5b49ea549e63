package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/photobooth/internal/client/config"
	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/dmitrijs2005/photobooth/internal/client/services"
	"github.com/dmitrijs2005/photobooth/internal/logging"
)

// pageState is the client's "window.location": the page being shown and
// the folder and token uploads go to. Changes are persisted so the next
// start resumes where the user left off.
type pageState struct {
	sessions services.SessionService
	out      io.Writer
	log      logging.Logger

	mu       sync.RWMutex
	folderID string
	token    string
	page     string
}

// loadPageState restores the saved session; a folder given in the
// configuration replaces the saved target.
func loadPageState(ctx context.Context, sessions services.SessionService, c *config.Config, out io.Writer, log logging.Logger) (*pageState, error) {
	st, err := sessions.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	p := &pageState{sessions: sessions, out: out, log: log,
		folderID: st.FolderID, token: st.Token, page: st.Page}

	if c.FolderID != "" && (c.FolderID != st.FolderID || c.Token != st.Token) {
		if err := p.SetTarget(ctx, c.FolderID, c.Token); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *pageState) FolderID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.folderID
}

func (p *pageState) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

func (p *pageState) Location() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.page
}

func (p *pageState) SetTarget(ctx context.Context, folderID, token string) error {
	if err := p.sessions.SetTarget(ctx, folderID, token); err != nil {
		return err
	}
	p.mu.Lock()
	p.folderID, p.token = folderID, token
	p.mu.Unlock()
	return nil
}

// Navigate opens target. An upload link from a QR code switches the upload
// target to its folder and token; anything else just changes the page.
// A scan link with an empty folder or token is rejected rather than followed.
func (p *pageState) Navigate(target string) error {
	ctx := context.Background()

	if strings.Contains(target, "/scan") {
		folder, token, page, err := services.ParseScanLink(target)
		if err != nil {
			return err
		}
		if err := p.SetTarget(ctx, folder, token); err != nil {
			return err
		}
		if err := p.setPage(ctx, page); err != nil {
			return err
		}
		fmt.Fprintf(p.out, "Upload target set to folder %s\n", folder)
		return nil
	}

	if err := p.setPage(ctx, target); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Now at %s\n", target)
	return nil
}

func (p *pageState) setPage(ctx context.Context, page string) error {
	if err := p.sessions.SetPage(ctx, page); err != nil {
		p.log.Error(ctx, "failed to save page", "page", page, "err", err)
		return err
	}
	p.mu.Lock()
	p.page = page
	p.mu.Unlock()
	return nil
}

// selection is the staged file list, the terminal's file input.
type selection struct {
	mu    sync.Mutex
	files []models.File
}

func (s *selection) Add(files ...models.File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append(s.files, files...)
}

func (s *selection) Files() []models.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.files)
}

func (s *selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
}
