// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const fileSuffix = ".gob.gz"

// Descriptor identifies the layout of a persisted state.
type Descriptor struct {
	// Kind names the model type, e.g. "recommendation.knn".
	Kind string `json:"kind"`

	// SchemaVersion is bumped whenever the state struct changes shape.
	SchemaVersion int `json:"schema_version"`
}

// Metadata describes a stored artifact.
type Metadata struct {
	Descriptor

	Name      string    `json:"name"`
	Version   int       `json:"version"`
	TrainedAt time.Time `json:"trained_at"`
	SavedAt   time.Time `json:"saved_at"`

	// SampleCount is the number of training rows (interactions or reservations).
	SampleCount int `json:"sample_count"`
	UserCount   int `json:"user_count,omitempty"`
	ItemCount   int `json:"item_count,omitempty"`

	// FeatureNames is the fitted column schema, when the model has one.
	FeatureNames []string `json:"feature_names,omitempty"`

	Checksum           string `json:"checksum"`
	SizeBytes          int64  `json:"size_bytes"`
	TrainingDurationMS int64  `json:"training_duration_ms"`
}

// Store manages versioned artifacts in one directory.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per artifact name
	versions map[string]int
}

// NewStore creates a store rooted at baseDir, creating it if needed, and
// indexes any artifacts already present.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan existing artifacts: %w", err)
	}
	return s, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string { return s.baseDir }

func (s *Store) scan() error {
	versions, err := s.listVersions()
	if err != nil {
		return err
	}
	for name, vs := range versions {
		s.versions[name] = vs[0]
	}
	return nil
}

// listVersions returns every version on disk per name, newest first.
func (s *Store) listVersions() (map[string][]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]int)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}
		name, version, ok := parseFilename(strings.TrimSuffix(entry.Name(), fileSuffix))
		if !ok {
			continue
		}
		out[name] = append(out[name], version)
	}
	for _, vs := range out {
		sort.Sort(sort.Reverse(sort.IntSlice(vs)))
	}
	return out, nil
}

// parseFilename splits "anomaly_v3" into ("anomaly", 3).
func parseFilename(base string) (name string, version int, ok bool) {
	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0, false
	}
	if _, err := fmt.Sscanf(base[idx+2:], "%d", &version); err != nil || version <= 0 {
		return "", 0, false
	}
	return base[:idx], version, true
}

// storedFile is the on-disk layout.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// Save writes state as version of name. meta must carry the Descriptor of
// the state; Name, Version, Checksum, SizeBytes and SavedAt are filled in.
//
//nolint:gocritic // meta is copied intentionally before being completed
func (s *Store) Save(ctx context.Context, name string, version int, state interface{}, meta Metadata) error {
	path := s.path(name, version)
	if err := ctx.Err(); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	if meta.Kind == "" {
		return &PersistenceError{Op: "save", Path: path, Err: errors.New("metadata has no kind")}
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(state); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: fmt.Errorf("encode state: %w", err)}
	}

	hash := sha256.Sum256(raw.Bytes())
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: fmt.Errorf("compress state: %w", err)}
	}
	if err := gzw.Close(); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: fmt.Errorf("finalize compression: %w", err)}
	}

	meta.Name = name
	meta.Version = version
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(path, storedFile{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}

	if current, ok := s.versions[name]; !ok || version > current {
		s.versions[name] = version
	}
	return nil
}

func writeAtomic(path string, sf storedFile) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()           //nolint:errcheck // already failing
			_ = os.Remove(tmp.Name()) //nolint:errcheck // best-effort cleanup
		}
	}()

	if err = gob.NewEncoder(tmp).Encode(sf); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}

// Load decodes version of name into target. Version 0 loads the latest.
// The stored Descriptor must equal want.
func (s *Store) Load(ctx context.Context, name string, version int, want Descriptor, target interface{}) (*Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		latest, ok := s.versions[name]
		if !ok {
			return nil, &PersistenceError{Op: "load", Path: filepath.Join(s.baseDir, name), Err: ErrNotFound}
		}
		version = latest
	}
	path := s.path(name, version)
	if err := ctx.Err(); err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}

	sf, err := readFile(path)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}

	if sf.Metadata.Descriptor != want {
		return nil, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("%w: stored %s/v%d, want %s/v%d",
			ErrSchema, sf.Metadata.Kind, sf.Metadata.SchemaVersion, want.Kind, want.SchemaVersion)}
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // read-only

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}

	hash := sha256.Sum256(raw)
	if got := hex.EncodeToString(hash[:]); got != sf.Metadata.Checksum {
		return nil, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("%w: expected %s, got %s", ErrChecksum, sf.Metadata.Checksum, got)}
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}

	meta := sf.Metadata
	return &meta, nil
}

func readFile(path string) (*storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the store directory and a trusted name
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &sf, nil
}

// LatestVersion returns the newest version stored for name.
func (s *Store) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.versions[name]
	return v, ok
}

// List returns metadata of the latest version of every artifact.
func (s *Store) List(ctx context.Context) ([]Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Metadata, 0, len(s.versions))
	for name, version := range s.versions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sf, err := readFile(s.path(name, version))
		if err != nil {
			continue
		}
		out = append(out, sf.Metadata)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Prune deletes all but the newest keep versions of name.
func (s *Store) Prune(ctx context.Context, name string, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 1 {
		keep = 1
	}
	all, err := s.listVersions()
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	versions := all[name]
	for i := keep; i < len(versions); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		_ = os.Remove(s.path(name, versions[i])) //nolint:errcheck // best-effort cleanup of old versions
	}
	return nil
}

func (s *Store) path(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, fileSuffix))
}

//nolint:gochecknoinits // gob.Register must run before any encode/decode
func init() {
	gob.Register(storedFile{})
	gob.Register(Metadata{})
}
