package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type call struct {
	name string
	args []string
}

type fakeExec struct {
	calls []call
	errs  map[string]error
}

func (f *fakeExec) rec(name string, args []string) error {
	f.calls = append(f.calls, call{name: name, args: args})
	return f.errs[name]
}

func (f *fakeExec) Pick(_ context.Context, a []string) error   { return f.rec("pick", a) }
func (f *fakeExec) Upload(_ context.Context, a []string) error { return f.rec("upload", a) }
func (f *fakeExec) Reset(_ context.Context, a []string) error  { return f.rec("reset", a) }
func (f *fakeExec) Scan(_ context.Context, a []string) error   { return f.rec("scan", a) }
func (f *fakeExec) Stop(_ context.Context, a []string) error   { return f.rec("stop", a) }
func (f *fakeExec) DeletePhoto(_ context.Context, a []string) error {
	return f.rec("delphoto", a)
}
func (f *fakeExec) DeleteFolder(_ context.Context, a []string) error {
	return f.rec("delfolder", a)
}
func (f *fakeExec) Share(_ context.Context, a []string) error { return f.rec("share", a) }
func (f *fakeExec) Deactivate(_ context.Context, a []string) error {
	return f.rec("deactivate", a)
}
func (f *fakeExec) Download(_ context.Context, a []string) error { return f.rec("download", a) }
func (f *fakeExec) History(_ context.Context, a []string) error  { return f.rec("history", a) }
func (f *fakeExec) Toasts(_ context.Context, a []string) error   { return f.rec("toasts", a) }
func (f *fakeExec) Folder(_ context.Context, a []string) error   { return f.rec("folder", a) }
func (f *fakeExec) Goto(_ context.Context, a []string) error     { return f.rec("goto", a) }
func (f *fakeExec) Status(_ context.Context, a []string) error   { return f.rec("status", a) }

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	input := readerFromLines(
		"pick a.jpg b.png",
		"upload",
		"",
		"reset",
		"scan",
		"stop",
		"delphoto 7 first dance",
		"delfolder f1",
		"share 7",
		"deactivate f1 Wedding",
		"download 7",
		"history 5",
		"toasts",
		"folder f1 tok",
		"goto /folders",
		"status",
		"exit",
		"status",
	)
	exec := &fakeExec{}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "(online)" }, input, &out)

	names := make([]string, 0, len(exec.calls))
	for _, c := range exec.calls {
		names = append(names, c.name)
	}
	assert.Equal(t, []string{"pick", "upload", "reset", "scan", "stop", "delphoto", "delfolder",
		"share", "deactivate", "download", "history", "toasts", "folder", "goto", "status"}, names)
	assert.Equal(t, []string{"a.jpg", "b.png"}, exec.calls[0].args)
	assert.Equal(t, []string{"7", "first", "dance"}, exec.calls[5].args)
	assert.Contains(t, out.String(), "photobooth (online)> ")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_HelpUnknownAndErrors(t *testing.T) {
	input := readerFromLines("help", "frobnicate", "share", "download 1", "quit")
	exec := &fakeExec{errs: map[string]error{
		"share":    usageError("share <photo id>"),
		"download": errors.New("already reported"),
	}}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "" }, input, &out)

	s := out.String()
	assert.Contains(t, s, "Available commands:")
	assert.Contains(t, s, "Unknown command: frobnicate")
	assert.Contains(t, s, "Usage: share <photo id>")
	assert.NotContains(t, s, "already reported")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	exec := &fakeExec{}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("status")), &out)

	assert.Len(t, exec.calls, 1, "a last line without newline still runs")
	assert.NotContains(t, out.String(), "Bye!")
}
