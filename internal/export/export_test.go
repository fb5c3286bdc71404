package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/docchat/internal/workspace"
)

func TestFormatChat(t *testing.T) {
	got := FormatChat([]workspace.ChatMessage{
		{Author: "ana", Text: "hola", Timestamp: "10:00"},
		{Author: "bo", Text: "a: b", Timestamp: "10:01"},
	})
	require.Equal(t, "[10:00] ana: hola\n[10:01] bo: a: b", got)
}

func TestFormatSnapshots(t *testing.T) {
	ts := "2024-03-09T14:05:06.000Z"
	parsed, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	date := parsed.Local().Format("2006-01-02 15:04:05")

	got := FormatSnapshots([]workspace.Snapshot{
		{Timestamp: ts, Author: "ana", Content: "first"},
		{Timestamp: "yesterday", Author: "bo", Content: "second\nline"},
	})

	want := "[" + date + " - ana]\nfirst\n" +
		"\n" +
		"[yesterday - bo]\nsecond\nline\n"
	require.Equal(t, want, got)
}

func TestEmptyExportsAreEmpty(t *testing.T) {
	require.Equal(t, "", FormatChat(nil))
	require.Equal(t, "", FormatDocument(""))
	require.Equal(t, "", FormatSnapshots([]workspace.Snapshot{}))

	dir := t.TempDir()
	for _, name := range []string{ChatFileName, DocumentFileName, SnapshotsFileName} {
		path, err := WriteFile(dir, name, "")
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Empty(t, data)
	}
}

func TestWriteFileCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")

	path, err := WriteFile(dir, DocumentFileName, "contents")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, DocumentFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "contents", string(data))
}

func TestSanitizeFilename(t *testing.T) {
	require.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	require.Equal(t, "a_b.txt", sanitizeFilename("a:b.txt"))
	require.Equal(t, "export.txt", sanitizeFilename(".."))
	require.Equal(t, "export.txt", sanitizeFilename(""))
}
