package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"animopt/internal/logging"
)

// ErrFingerprint reports a document whose stored fingerprint does not match
// its payload.
var ErrFingerprint = errors.New("archive: fingerprint mismatch")

// Load reads and verifies a document from path. Documents without a
// fingerprint load without verification; documents with one must match.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("archive: read %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("archive: parse %s: %w", path, err)
	}
	if doc.Fingerprint != "" && doc.Fingerprint != doc.computeFingerprint() {
		return nil, fmt.Errorf("%w: %s", ErrFingerprint, path)
	}
	return &doc, nil
}

// Save writes a document to path atomically via a temp file.
func Save(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("archive: marshal document: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("archive: create directory: %w", err)
		}
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("archive: write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("archive: rename temp file: %w", err)
	}
	return nil
}

// Archive stores optimized animation documents under one directory, one file
// per animation name. Writes are serialized across processes with a lock file
// so concurrent CLI invocations cannot interleave.
type Archive struct {
	dir    string
	logger *slog.Logger
}

// Entry summarizes one archived document.
type Entry struct {
	Name      string
	Path      string
	CreatedAt time.Time
	KeyCount  int
}

// New creates an archive rooted at dir.
func New(dir string, logger *slog.Logger) *Archive {
	return &Archive{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "archive"),
	}
}

// Store writes doc under the archive directory, keyed by the animation name,
// and returns the path written. An existing document for the same name is
// replaced.
func (a *Archive) Store(doc *Document) (string, error) {
	name := slugify(doc.Animation.Name)
	if name == "" {
		return "", errors.New("archive: animation name is required")
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("archive: create directory: %w", err)
	}

	lock := flock.New(filepath.Join(a.dir, ".lock"))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("archive: acquire lock: %w", err)
	}
	defer lock.Unlock()

	path := filepath.Join(a.dir, name+".json")
	if err := Save(path, doc); err != nil {
		return "", err
	}

	a.logger.Debug("stored document",
		logging.String(logging.FieldAnimation, doc.Animation.Name),
		logging.String("path", path),
	)
	return path, nil
}

// List returns the archived documents, newest first. Unreadable files are
// skipped with a warning rather than failing the listing.
func (a *Archive) List() ([]Entry, error) {
	files, err := filepath.Glob(filepath.Join(a.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("archive: list %s: %w", a.dir, err)
	}

	var entries []Entry
	for _, path := range files {
		doc, err := Load(path)
		if err != nil {
			a.logger.Warn("skipping unreadable document",
				logging.String("path", path),
				logging.Error(err),
			)
			continue
		}
		keys := 0
		for i := range doc.Animation.Tracks {
			tr := &doc.Animation.Tracks[i]
			keys += len(tr.Translations) + len(tr.Rotations) + len(tr.Scales)
		}
		entries = append(entries, Entry{
			Name:      doc.Animation.Name,
			Path:      path,
			CreatedAt: doc.CreatedAt,
			KeyCount:  keys,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// slugify reduces an animation name to a safe file stem.
func slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
