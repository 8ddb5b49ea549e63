package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubdDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubdDir("downloads")
	require.NoError(t, err)

	want := filepath.Join(tmp, "downloads")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureSubdDir_AbsoluteAndIdempotent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "downloads")

	first, err := EnsureSubdDir(target)
	require.NoError(t, err)
	second, err := EnsureSubdDir(target)
	require.NoError(t, err)

	assert.Equal(t, target, first)
	assert.Equal(t, first, second)
}

func TestEnsureSubdDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("downloads", []byte("x"), 0o660))

	_, err := EnsureSubdDir("downloads")
	require.Error(t, err)
}

func TestContentType(t *testing.T) {
	dir := t.TempDir()

	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	write := func(name string, b []byte) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, b, 0o600))
		return p
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "jpeg by extension", path: write("a.JPG", []byte("not really")), want: "image/jpeg"},
		{name: "png by extension", path: write("b.png", pngHeader), want: "image/png"},
		{name: "png sniffed without extension", path: write("camera-roll", pngHeader), want: "image/png"},
		{name: "plain text sniffed", path: write("notes", []byte("hello there")), want: "text/plain"},
		{name: "empty file", path: write("empty", nil), want: "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ContentType(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentType_MissingFile(t *testing.T) {
	_, err := ContentType(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()

	p, err := UniquePath(dir, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), p)

	require.NoError(t, os.WriteFile(p, nil, 0o600))
	p2, err := UniquePath(dir, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a-1.jpg"), p2)

	require.NoError(t, os.WriteFile(p2, nil, 0o600))
	p3, err := UniquePath(dir, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a-2.jpg"), p3)
}

func TestUniquePath_StripsDirectories(t *testing.T) {
	dir := t.TempDir()

	p, err := UniquePath(dir, "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "passwd"), p)

	p, err = UniquePath(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "download"), p)
}
