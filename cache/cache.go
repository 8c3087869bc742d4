package cache

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors for cache operations.
var (
	ErrNilStore   = errors.New("cache: store is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrInvalidExt = errors.New("cache: extension is invalid")
)

// ID addresses one stored artifact: a content key plus the output file
// extension.
type ID struct {
	Key Key
	Ext string
}

// Name returns the entry name "{key}.{ext}".
func (id ID) Name() string {
	return string(id.Key) + "." + id.Ext
}

// Validate checks that the ID can be used as a file or object name.
func (id ID) Validate() error {
	if err := ValidateKey(string(id.Key)); err != nil {
		return err
	}
	if id.Ext == "" || strings.ContainsAny(id.Ext, "./\\\n\r") {
		return ErrInvalidExt
	}
	return nil
}

// ParseName is the inverse of ID.Name. It reports false for names that are
// not cache entries.
func ParseName(name string) (ID, bool) {
	key, ext, ok := strings.Cut(name, ".")
	if !ok {
		return ID{}, false
	}
	id := ID{Key: Key(key), Ext: ext}
	if id.Validate() != nil {
		return ID{}, false
	}
	return id, true
}

// KeySet is a set of keys still referenced by a build.
type KeySet map[Key]struct{}

// NewKeySet returns a set holding keys.
func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Add inserts k.
func (s KeySet) Add(k Key) { s[k] = struct{}{} }

// Has reports whether k is in the set.
func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Store persists encoded artifacts by ID.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Get: returns (nil, false, nil) on miss; errors are reserved for I/O failures.
// - Put: a reader never observes a partially written entry. Putting an ID
// that already exists is a no-op, since equal keys imply equal content.
// - Sweep: deletes every entry whose key is not in live. Entries that vanish
// concurrently are not an error.
type Store interface {
	Get(ctx context.Context, id ID) ([]byte, bool, error)
	Put(ctx context.Context, id ID, data []byte) error
	Sweep(ctx context.Context, live KeySet) error
}
