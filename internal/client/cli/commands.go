package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/dmitrijs2005/photobooth/internal/client/scan"
	"github.com/dmitrijs2005/photobooth/internal/client/upload"
	"github.com/dustin/go-humanize"
)

// defaultHistoryLimit is how many rows `history` prints without an argument.
const defaultHistoryLimit = 20

// usageError is printed verbatim by the REPL.
type usageError string

func (e usageError) Error() string { return "Usage: " + string(e) }

// Pick stages files for the next upload.
func (a *App) Pick(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("pick <path> [path...]")
	}
	for _, p := range args {
		f, err := models.NewLocalFile(p)
		if err != nil {
			fmt.Fprintf(a.out, "Cannot read %s: %v\n", p, err)
			continue
		}
		a.files.Add(f)
		fmt.Fprintf(a.out, "Selected %s (%s)\n", f.Name, upload.FormatFileSize(f.Size))
	}
	return nil
}

// Upload sends the staged files, plus any given paths, and waits for them.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if err := a.Pick(ctx, args); err != nil {
			return err
		}
	}
	files := a.files.Files()
	if len(files) == 0 {
		return usageError("upload [path...] (or pick files first)")
	}

	batch := a.uploads.HandleFiles(ctx, files)
	for _, r := range batch.Wait() {
		if r.Err != nil {
			a.log.Debug(ctx, "upload failed", "file", r.File.Name, "err", r.Err)
		}
	}
	return nil
}

func (a *App) Reset(ctx context.Context, _ []string) error {
	a.uploads.Reset()
	fmt.Fprintln(a.out, "Ready for a new upload.")
	return nil
}

func (a *App) Scan(ctx context.Context, _ []string) error {
	if !a.initScanner(ctx, false) {
		return scan.ErrUnsupported
	}
	if a.scanner.Scanning() {
		fmt.Fprintln(a.out, "Already scanning.")
		return nil
	}
	return a.scanner.Start(ctx)
}

func (a *App) Stop(ctx context.Context, _ []string) error {
	a.scanner.Stop()
	return nil
}

func itemFromArgs(kind models.ItemKind, args []string) models.Item {
	name := args[0]
	if len(args) > 1 {
		name = strings.Join(args[1:], " ")
	}
	return models.Item{Kind: kind, ID: args[0], Name: name}
}

func (a *App) DeletePhoto(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("delphoto <id> [name]")
	}
	_, err := a.items.DeletePhoto(ctx, itemFromArgs(models.ItemPhoto, args))
	return err
}

func (a *App) DeleteFolder(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("delfolder <id> [name]")
	}
	_, err := a.items.DeleteFolder(ctx, itemFromArgs(models.ItemFolder, args))
	return err
}

func (a *App) Share(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("share <photo id>")
	}
	url, err := a.items.SharePhoto(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Share link: %s\n", url)
	return nil
}

func (a *App) Deactivate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("deactivate <folder id> [name]")
	}
	_, err := a.items.DeactivateQR(ctx, itemFromArgs(models.ItemFolder, args))
	return err
}

func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("download <photo id>")
	}
	_, err := a.items.DownloadPhoto(ctx, args[0], a.config.DownloadDir)
	return err
}

// History prints the newest uploads recorded on this machine.
func (a *App) History(ctx context.Context, args []string) error {
	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return usageError("history [count]")
		}
		limit = n
	}

	recs, err := a.history.List(ctx, limit)
	if err != nil {
		a.log.Error(ctx, "error listing history", "err", err)
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No uploads yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PHOTO\tFILE\tSIZE\tFOLDER\tUPLOADED\tURL")
	for _, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.PhotoID, r.FileName, upload.FormatFileSize(r.FileSize), r.FolderID,
			humanize.Time(r.UploadedAt), r.FileURL)
	}
	return tw.Flush()
}

func (a *App) Toasts(ctx context.Context, _ []string) error {
	active := a.toasts.Active()
	if len(active) == 0 {
		fmt.Fprintln(a.out, "No notifications.")
		return nil
	}
	for _, t := range active {
		fmt.Fprintf(a.out, "%s (%s)\n", t.Message, humanize.Time(t.CreatedAt))
	}
	return nil
}

// Folder switches the upload target.
func (a *App) Folder(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return usageError("folder <id> [token]")
	}
	token := ""
	if len(args) == 2 {
		token = args[1]
	}
	if err := a.page.SetTarget(ctx, args[0], token); err != nil {
		a.log.Error(ctx, "error saving upload target", "err", err)
		return err
	}
	fmt.Fprintf(a.out, "Upload target set to folder %s\n", args[0])
	return nil
}

// Goto opens a page or an upload link, as a scanned code would.
func (a *App) Goto(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("goto <path or upload link>")
	}
	if err := a.page.Navigate(args[0]); err != nil {
		fmt.Fprintf(a.out, "Cannot open %s: %v\n", args[0], err)
		return err
	}
	return nil
}

func (a *App) Status(ctx context.Context, _ []string) error {
	a.mu.Lock()
	mode, user := a.mode, a.userName
	a.mu.Unlock()
	if user == "" {
		user = "guest"
	}

	folder := a.page.FolderID()
	if folder == "" {
		folder = "(none)"
	}

	fmt.Fprintf(a.out, "Server:   %s (%s)\n", a.config.ServerURL, mode)
	fmt.Fprintf(a.out, "User:     %s\n", user)
	fmt.Fprintf(a.out, "Folder:   %s\n", folder)
	if page := a.page.Location(); page != "" {
		fmt.Fprintf(a.out, "Page:     %s\n", page)
	}
	fmt.Fprintf(a.out, "Scanner:  %s\n", a.scanner.State())
	fmt.Fprintf(a.out, "Selected: %d file(s)\n", len(a.files.Files()))
	if r, ok := a.results.Last(); ok {
		fmt.Fprintf(a.out, "Last:     %s\n", r.Details)
	}
	return nil
}

// describeError turns a command error into the line the REPL prints, or
// "" when the command already reported it.
func describeError(err error) string {
	var ue usageError
	switch {
	case errors.As(err, &ue):
		return ue.Error()
	case errors.Is(err, scan.ErrUnsupported):
		return "Scanning is not available."
	}
	return ""
}
