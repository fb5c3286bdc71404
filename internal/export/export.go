// Package export renders chat history, the document and its snapshot history
// as plain text and writes them out as files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/docchat/internal/protocol"
	"github.com/yourusername/docchat/internal/workspace"
)

// File names used for each export
const (
	ChatFileName      = "chat-history.txt"
	DocumentFileName  = "document.txt"
	SnapshotsFileName = "document-history.txt"
)

const snapshotDateLayout = "2006-01-02 15:04:05"

// FormatChat renders one `[timestamp] author: text` line per message
func FormatChat(msgs []workspace.ChatMessage) string {
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = fmt.Sprintf("[%s] %s: %s", m.Timestamp, m.Author, m.Text)
	}
	return strings.Join(lines, "\n")
}

// FormatDocument returns the document as-is
func FormatDocument(content string) string {
	return content
}

// FormatSnapshots renders `[date - author]` headed blocks separated by a
// blank line
func FormatSnapshots(snaps []workspace.Snapshot) string {
	blocks := make([]string, len(snaps))
	for i, s := range snaps {
		blocks[i] = fmt.Sprintf("[%s - %s]\n%s\n", formatSnapshotDate(s.Timestamp), s.Author, s.Content)
	}
	return strings.Join(blocks, "\n")
}

// formatSnapshotDate renders ISO timestamps in local time; anything else is
// kept verbatim
func formatSnapshotDate(ts string) string {
	for _, layout := range []string{protocol.TimeLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Local().Format(snapshotDateLayout)
		}
	}
	return ts
}

// WriteFile stores content under dir/name, creating dir when needed, and
// returns the written path
func WriteFile(dir, name, content string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, sanitizeFilename(name))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("sync export file: %w", err)
	}
	return path, nil
}

// sanitizeFilename keeps names inside the export directory
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 32 {
			return -1
		}
		return r
	}, name)

	if name == "" || name == "." || name == ".." {
		return "export.txt"
	}
	return name
}
