// Package determinism provides primitives for guaranteeing deterministic execution.
// Map iteration, hashing and rounding used by catalog, pricing and quote go through here.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/shopspring/decimal"
)

// SortedKeys returns the keys of a string-keyed map in ascending order
func SortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

// RangeMapSorted iterates over a map in sorted key order
func RangeMapSorted[K ~string, V any](m map[K]V, fn func(K, V) bool) {
	for _, k := range SortedKeys(m) {
		if !fn(k, m[k]) {
			break
		}
	}
}

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// IsZero reports whether the hash was never computed
func (h ContentHash) IsZero() bool {
	return h == ContentHash{}
}

// Hasher accumulates NUL-separated parts into a content hash.
// Callers must feed parts in a deterministic order.
type Hasher struct {
	parts [][]byte
}

// NewHasher creates a Hasher scoped to a namespace
func NewHasher(namespace string) *Hasher {
	h := &Hasher{}
	h.Write(namespace)
	return h
}

// Write appends string parts
func (h *Hasher) Write(parts ...string) *Hasher {
	for _, p := range parts {
		h.parts = append(h.parts, []byte(p))
	}
	return h
}

// WriteDecimal appends a decimal in canonical form
func (h *Hasher) WriteDecimal(d decimal.Decimal) *Hasher {
	return h.Write(d.String())
}

// Sum returns the content hash of everything written so far
func (h *Hasher) Sum() ContentHash {
	digest := sha256.New()
	for _, p := range h.parts {
		digest.Write(p)
		digest.Write([]byte{0})
	}
	var out ContentHash
	copy(out[:], digest.Sum(nil))
	return out
}

// RoundCents rounds a monetary amount to two decimal places, half away from zero
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
