// Package fsutil contains the filesystem side of the downloader: the
// existing-output guard that decides whether an item can be skipped,
// and the resolution step that locates a produced file whose actual
// name may drift from the expected one.
//
// All access goes through an afero.Fs so the logic can be tested
// against an in-memory filesystem.
package fsutil

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/petrhaj/youtube-grabber/internal/model"
)

// ErrNotLocated is returned when a transfer reported success but no
// file matching the naming heuristic could be found. The item still
// counts as downloaded; only tagging is skipped.
var ErrNotLocated = errors.New("produced file could not be located")

// resolvePrefixLen is how many leading characters of the sanitized
// title the fuzzy resolution step compares. Kept short deliberately:
// external tools truncate and re-sanitize names in their own ways.
const resolvePrefixLen = 20

// EnsureDir creates the directory and any missing parents.
func EnsureDir(fs afero.Fs, path string) error {
	return fs.MkdirAll(path, 0755)
}

// Guard answers the skip question for one item: does a file with the
// exact expected name already exist in the destination directory?
//
// The match is deliberately exact, not fuzzy, so the skip decision
// stays deterministic and independent of prior runs' naming drift.
type Guard struct {
	fs afero.Fs
}

// NewGuard creates a Guard over the given filesystem.
func NewGuard(fs afero.Fs) *Guard {
	return &Guard{fs: fs}
}

// Exists computes the expected filename via the naming convention and
// reports whether it is already present under root. The expected path
// is returned either way.
func (g *Guard) Exists(root string, index int, title string, format model.Format) (string, bool) {
	expected := filepath.Join(root, model.OutputFileName(index, title, format))
	ok, err := afero.Exists(g.fs, expected)
	return expected, err == nil && ok
}

// ResolveDownloaded locates the file produced for an item.
//
// The exact expected name is tried first. If absent, the destination
// directory is scanned for a file with the right extension whose
// sanitized name shares the first resolvePrefixLen characters of the
// sanitized title. Returns ErrNotLocated when nothing matches.
func ResolveDownloaded(fs afero.Fs, root string, index int, title string, format model.Format) (string, error) {
	expected := filepath.Join(root, model.OutputFileName(index, title, format))
	if ok, err := afero.Exists(fs, expected); err == nil && ok {
		return expected, nil
	}

	prefix := model.SanitizeTitle(title)
	if len(prefix) > resolvePrefixLen {
		prefix = prefix[:resolvePrefixLen]
	}
	suffix := "." + format.Ext()

	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		if strings.Contains(model.SanitizeTitle(entry.Name()), prefix) {
			return filepath.Join(root, entry.Name()), nil
		}
	}
	return "", ErrNotLocated
}
