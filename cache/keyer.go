package cache

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// KeySize is the number of digest bytes in a Key.
const KeySize = 20

// Key is the lowercase hex form of a KeySize-byte digest.
type Key string

func (k Key) String() string { return string(k) }

// ValidateKey checks that key is exactly 2*KeySize lowercase hex characters.
func ValidateKey(key string) error {
	if len(key) != 2*KeySize {
		return ErrInvalidKey
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return ErrInvalidKey
		}
	}
	return nil
}

// Canonical is implemented by configurations with a stable byte form.
type Canonical interface {
	MarshalCanonical() []byte
}

// Keyer derives deterministic cache keys.
//
// Contract:
// - Determinism: equal content and equal canonical bytes produce the same key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	Key(content []byte, cfg Canonical) Key
}

// ShakeKeyer hashes content followed by the canonical config with
// SHAKE256 and keeps KeySize bytes of output.
type ShakeKeyer struct{}

// NewShakeKeyer creates a SHAKE256 keyer.
func NewShakeKeyer() *ShakeKeyer {
	return &ShakeKeyer{}
}

// Key derives the key for content encoded with cfg.
func (k *ShakeKeyer) Key(content []byte, cfg Canonical) Key {
	h := sha3.NewShake256()
	_, _ = h.Write(content)
	_, _ = h.Write(cfg.MarshalCanonical())

	var sum [KeySize]byte
	_, _ = h.Read(sum[:])
	return Key(hex.EncodeToString(sum[:]))
}

var _ Keyer = (*ShakeKeyer)(nil)
