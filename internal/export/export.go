// Package export writes stored notes out as Markdown files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Jericoz-JC/flux-notes/internal/models"
	"github.com/Jericoz-JC/flux-notes/internal/store"
)

var unsafeChars = regexp.MustCompile(`[^\w\- ]+`)

// Notes exports every note to dir as a Markdown file and returns the
// number of files written. Files are named after the note title; the
// note id disambiguates collisions.
func Notes(db *store.DB, dir string) (int, error) {
	notes, err := db.ListNotes()
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("export: mkdir: %w", err)
	}

	seen := make(map[string]bool, len(notes))
	written := 0
	for _, n := range notes {
		name := fileName(n, seen)
		seen[name] = true
		if err := writeAtomic(filepath.Join(dir, name), render(n)); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// fileName derives a safe unique file name from the note title.
func fileName(n models.Note, seen map[string]bool) string {
	base := strings.TrimSpace(unsafeChars.ReplaceAllString(n.Title, ""))
	if base == "" {
		base = "untitled"
	}
	name := base + ".md"
	if seen[name] {
		name = fmt.Sprintf("%s-%s.md", base, n.ID[:8])
	}
	return name
}

func render(n models.Note) []byte {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(n.Title)
	b.WriteString("\n\n")
	b.WriteString(n.Body)
	if !strings.HasSuffix(n.Body, "\n") {
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// writeAtomic writes content via tmp file, fsync, rename.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".flux-tmp-*")
	if err != nil {
		return fmt.Errorf("export: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("export: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("export: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("export: rename: %w", err)
	}
	success = true
	return nil
}
