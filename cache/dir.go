package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	gzipSuffix = ".gz"
	tempPrefix = ".tmp-"
)

// DefaultStaleTempAge is how old an unpublished temp file must be before
// Sweep treats it as abandoned.
const DefaultStaleTempAge = time.Hour

// DirConfig configures a DirStore.
type DirConfig struct {
	// Dir is the cache directory. It is created if missing.
	Dir string

	// Compress stores entries gzip-compressed with a ".gz" suffix.
	Compress bool

	// StaleTempAge defaults to DefaultStaleTempAge.
	StaleTempAge time.Duration
}

// DirStore keeps entries as files named "{key}.{ext}" (plus ".gz" when
// compressed) in a single directory. Writes land in a temp file in the same
// directory and are published with a rename.
type DirStore struct {
	dir      string
	compress bool
	staleAge time.Duration
	now      func() time.Time
}

// NewDirStore creates the directory if needed and returns a store over it.
func NewDirStore(cfg DirConfig) (*DirStore, error) {
	if cfg.Dir == "" {
		return nil, errors.New("cache: directory is required")
	}
	if cfg.StaleTempAge <= 0 {
		cfg.StaleTempAge = DefaultStaleTempAge
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create %s: %w", cfg.Dir, err)
	}
	return &DirStore{
		dir:      cfg.Dir,
		compress: cfg.Compress,
		staleAge: cfg.StaleTempAge,
		now:      time.Now,
	}, nil
}

// Dir returns the cache directory.
func (s *DirStore) Dir() string { return s.dir }

// names returns the preferred file name for id first, then the alternate
// encoding, so entries written under the other Compress setting still hit.
func (s *DirStore) names(id ID) [2]string {
	plain := id.Name()
	if s.compress {
		return [2]string{plain + gzipSuffix, plain}
	}
	return [2]string{plain, plain + gzipSuffix}
}

// Get reads and, if needed, decompresses the entry for id.
func (s *DirStore) Get(ctx context.Context, id ID) ([]byte, bool, error) {
	if err := id.Validate(); err != nil {
		return nil, false, err
	}
	for _, name := range s.names(id) {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		data, err := s.read(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("cache: read %s: %w", name, err)
		}
		return data, true, nil
	}
	return nil, false, nil
}

func (s *DirStore) read(name string) ([]byte, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !strings.HasSuffix(name, gzipSuffix) {
		return io.ReadAll(f)
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// Put writes data for id, replacing any existing entry. The entry in the
// other encoding, if any, is removed once the new one is published.
func (s *DirStore) Put(ctx context.Context, id ID, data []byte) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	names := s.names(id)
	final := names[0]
	tmp, err := os.CreateTemp(s.dir, tempPrefix+final+"-*")
	if err != nil {
		return fmt.Errorf("cache: create temp for %s: %w", final, err)
	}
	published := false
	defer func() {
		if !published {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := s.encode(tmp, data); err != nil {
		return fmt.Errorf("cache: write %s: %w", final, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("cache: chmod %s: %w", final, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: close %s: %w", final, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, final)); err != nil {
		return fmt.Errorf("cache: publish %s: %w", final, err)
	}
	published = true
	return s.remove(names[1])
}

func (s *DirStore) encode(w io.Writer, data []byte) error {
	if !s.compress {
		_, err := io.Copy(w, bytes.NewReader(data))
		return err
	}
	zw := gzip.NewWriter(w)
	if _, err := zw.Write(data); err != nil {
		return err
	}
	return zw.Close()
}

// Sweep removes every entry whose key is not live, plus temp files older
// than the configured stale age. Files that are not cache entries are left
// alone.
func (s *DirStore) Sweep(ctx context.Context, live KeySet) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("cache: list %s: %w", s.dir, err)
	}

	var errs []error
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, tempPrefix) {
			if s.staleTemp(entry) {
				errs = append(errs, s.remove(name))
			}
			continue
		}
		id, ok := ParseName(strings.TrimSuffix(name, gzipSuffix))
		if !ok || live.Has(id.Key) {
			continue
		}
		errs = append(errs, s.remove(name))
	}
	return errors.Join(errs...)
}

func (s *DirStore) staleTemp(entry fs.DirEntry) bool {
	info, err := entry.Info()
	if err != nil {
		return false
	}
	return s.now().Sub(info.ModTime()) > s.staleAge
}

func (s *DirStore) remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("cache: remove %s: %w", name, err)
}

// Check verifies the directory is writable.
func (s *DirStore) Check(_ context.Context) error {
	f, err := os.CreateTemp(s.dir, tempPrefix+"check-*")
	if err != nil {
		return fmt.Errorf("cache: %s is not writable: %w", s.dir, err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

var _ Store = (*DirStore)(nil)
