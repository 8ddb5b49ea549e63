package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/photobooth/internal/client/client"
	"github.com/dmitrijs2005/photobooth/internal/client/config"
	"github.com/dmitrijs2005/photobooth/internal/client/items"
	"github.com/dmitrijs2005/photobooth/internal/client/mirror"
	"github.com/dmitrijs2005/photobooth/internal/client/notify"
	"github.com/dmitrijs2005/photobooth/internal/client/scan"
	"github.com/dmitrijs2005/photobooth/internal/client/services"
	"github.com/dmitrijs2005/photobooth/internal/client/upload"
	"github.com/dmitrijs2005/photobooth/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds a single /check_auth probe.
const pingTimeout = 3 * time.Second

type App struct {
	config *config.Config
	log    logging.Logger

	db      *sql.DB
	api     client.Client
	history services.HistoryService
	page    *pageState

	toasts  *notify.TerminalContainer
	toaster *notify.Toaster
	files   *selection
	results *resultView
	uploads *upload.Controller
	scanner *scan.Session
	items   *items.Manager

	scanInit sync.Once
	scanOK   bool

	reader *bufio.Reader
	out    io.Writer

	mu       sync.Mutex
	mode     Mode
	userName string
}

type appOptions struct {
	in     io.Reader
	out    io.Writer
	logOut io.Writer
	fd     int
}

type Option func(*appOptions)

// WithIO replaces stdin and stdout. Confirmations then read whole lines.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *appOptions) {
		o.in, o.out, o.fd = in, out, -1
	}
}

func WithLogOutput(w io.Writer) Option {
	return func(o *appOptions) { o.logOut = w }
}

func NewApp(ctx context.Context, c *config.Config, opts ...Option) (*App, error) {
	o := &appOptions{in: os.Stdin, out: os.Stdout, logOut: os.Stderr, fd: int(os.Stdin.Fd())}
	for _, opt := range opts {
		opt(o)
	}

	out := &lockedWriter{w: o.out}
	log := logging.New(c.LogLevel, o.logOut)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "err", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.ServerURL,
		client.WithSessionCookie(c.SessionCookie),
		client.WithLogger(log),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	page, err := loadPageState(ctx, services.NewSessionService(db), c, out, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var m upload.Mirror
	if c.S3.Bucket != "" {
		s3m, err := mirror.NewS3Mirror(ctx, mirror.Config{
			Bucket:    c.S3.Bucket,
			Region:    c.S3.Region,
			Endpoint:  c.S3.Endpoint,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
		}, mirror.WithLogger(log))
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		m = s3m
	}

	a := &App{
		config:  c,
		log:     log,
		db:      db,
		api:     api,
		history: services.NewHistoryService(db),
		page:    page,
		toasts:  notify.NewTerminalContainer(out),
		files:   &selection{},
		results: &resultView{out: out},
		reader:  bufio.NewReader(o.in),
		out:     out,
		mode:    ModeOffline,
	}
	a.toaster = notify.NewToaster(a.toasts, c.ToastDelay)

	a.uploads = upload.New(upload.Deps{
		Uploader: api,
		Progress: newProgressView(out),
		Results:  a.results,
		Files:    a.files,
		Notifier: a.toaster,
		Target:   page,
		Recorder: a.history,
		Mirror:   m,
		Logger:   log,
	})

	a.scanner = scan.NewSession(scan.Deps{
		Camera:    scan.NewFileCamera(c.CameraSource),
		Decoder:   scan.NewQRDecoder(),
		View:      &scanView{out: out},
		Navigator: page,
		Logger:    log,
	})

	a.items = items.NewManager(items.Deps{
		API:       api,
		Confirmer: &terminalConfirmer{reader: a.reader, out: out, fd: o.fd},
		Notifier:  a.toaster,
		View:      &itemView{out: out},
		Navigator: page,
		History:   a.history,
		Logger:    log,
	})

	return a, nil
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "switched mode", "mode", mode)
	}
}

// Run starts the connectivity watcher and the REPL, and releases every
// resource once the user exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		a.Close()
	}()

	fmt.Fprintln(a.out, "Welcome to Photobooth (type 'help' for commands)")

	if a.config.ScanAutostart || a.config.CameraSource != "" {
		a.initScanner(ctx, a.config.ScanAutostart)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) Close() {
	a.scanner.Stop()
	a.toaster.Close()
	if err := a.api.Close(); err != nil {
		a.log.Warn(context.Background(), "error closing api client", "err", err)
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "error closing database", "err", err)
	}
}

func (a *App) initScanner(ctx context.Context, autostart bool) bool {
	a.scanInit.Do(func() {
		a.scanOK = a.scanner.Init(ctx, autostart)
	})
	return a.scanOK
}

// checkOnline probes the server once and updates the mode and user name.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	st, err := a.api.CheckAuth(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			a.log.Debug(ctx, "server unreachable", "err", err)
		}
		a.setMode(ctx, ModeOffline)
		return
	}

	name := ""
	if st.Authenticated && st.User != nil {
		name = st.User.Name
	}
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher probes the server right away and then every
// interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	s += string(a.mode)
	a.mu.Unlock()

	if folder := a.page.FolderID(); folder != "" {
		s += " folder " + folder
	}
	return fmt.Sprintf("(%s)", s)
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
