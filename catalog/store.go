package catalog

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/go-crypt/x/blake2b"

	"github.com/poiesic/campfinder/core"
)

// document is the on-disk shape of the catalog file.
type document struct {
	Initiatives []*core.Initiative `json:"initiatives"`
}

// Store reads and writes the initiative catalog file.
type Store struct {
	path   string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewStore creates a store backed by the JSON file at path.
// The file does not need to exist yet; Load treats a missing file as an
// empty catalog.
func NewStore(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, ErrPathRequired
	}

	s := &Store{
		path:   path,
		logger: slog.Default().With("component", "catalog-store"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Path returns the catalog file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted catalog. A missing file yields an empty catalog;
// any other read or parse failure is logged and likewise yields an empty
// catalog so callers can proceed with zero results instead of crashing.
// Records failing domain validation are quarantined with a warning.
func (s *Store) Load() []*core.Initiative {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("catalog file not found, starting empty", "path", s.path)
			return []*core.Initiative{}
		}
		s.logger.Error("error reading catalog file", "path", s.path, "err", err)
		return []*core.Initiative{}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Error("error parsing catalog file", "path", s.path, "err", err)
		return []*core.Initiative{}
	}

	// Quarantine malformed records and duplicate ids at the boundary.
	// First occurrence wins so insertion order is preserved.
	seen := make(map[string]bool, len(doc.Initiatives))
	initiatives := make([]*core.Initiative, 0, len(doc.Initiatives))
	for _, initiative := range doc.Initiatives {
		if err := core.ValidateInitiative(initiative); err != nil {
			s.logger.Warn("quarantining malformed catalog record", "err", err)
			continue
		}
		if seen[initiative.CampfireId] {
			s.logger.Warn("quarantining duplicate catalog record", "campfireId", initiative.CampfireId)
			continue
		}
		seen[initiative.CampfireId] = true
		initiatives = append(initiatives, initiative)
	}

	return initiatives
}

// Save serializes the full collection as {"initiatives": [...]}, overwriting
// the file. The caller supplies the complete desired collection; no merging
// is performed.
func (s *Store) Save(initiatives []*core.Initiative) error {
	doc := document{Initiatives: initiatives}
	if doc.Initiatives == nil {
		doc.Initiatives = []*core.Initiative{}
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}

	s.logger.Info("saved catalog", "path", s.path, "count", len(initiatives))
	return nil
}

// Fingerprint returns a short BLAKE2b digest of the catalog file contents,
// used to log which catalog snapshot a process is serving. A missing file
// yields an empty fingerprint and no error.
func (s *Store) Fingerprint() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
