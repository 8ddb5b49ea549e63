package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Pick(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	Scan(ctx context.Context, args []string) error
	Stop(ctx context.Context, args []string) error
	DeletePhoto(ctx context.Context, args []string) error
	DeleteFolder(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Deactivate(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Toasts(ctx context.Context, args []string) error
	Folder(ctx context.Context, args []string) error
	Goto(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  pick <paths>              stage image files
  upload [paths]            upload staged files (and paths)
  reset                     clear the result and the selection
  scan | stop               start or stop the QR scanner
  folder <id> [token]       set the upload folder
  goto <path|link>          open a page or an upload link
  delphoto <id> [name]      delete a photo
  delfolder <id> [name]     delete a folder and its photos
  share <id>                get a share link for a photo
  deactivate <id> [name]    deactivate a folder's QR code
  download <id>             save a photo to the download directory
  history [count]           list recent uploads
  toasts                    list visible notifications
  status                    show the client state
  exit | quit               leave the program`

// runREPL starts a simple read–eval–print loop for the Photobooth client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on a. The loop exits on EOF or when the user types
// "exit" or "quit". Handlers report their own failures through toasts;
// only usage errors are printed here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "photobooth %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			fmt.Fprintln(out, helpText)
		case "pick":
			cmdErr = a.Pick(ctx, args)
		case "upload":
			cmdErr = a.Upload(ctx, args)
		case "reset":
			cmdErr = a.Reset(ctx, args)
		case "scan":
			cmdErr = a.Scan(ctx, args)
		case "stop":
			cmdErr = a.Stop(ctx, args)
		case "delphoto":
			cmdErr = a.DeletePhoto(ctx, args)
		case "delfolder":
			cmdErr = a.DeleteFolder(ctx, args)
		case "share":
			cmdErr = a.Share(ctx, args)
		case "deactivate":
			cmdErr = a.Deactivate(ctx, args)
		case "download":
			cmdErr = a.Download(ctx, args)
		case "history":
			cmdErr = a.History(ctx, args)
		case "toasts":
			cmdErr = a.Toasts(ctx, args)
		case "folder":
			cmdErr = a.Folder(ctx, args)
		case "goto":
			cmdErr = a.Goto(ctx, args)
		case "status":
			cmdErr = a.Status(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			if msg := describeError(cmdErr); msg != "" {
				fmt.Fprintln(out, msg)
			}
		}
	}
}
