package scheduler

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"
)

// Keys derives stable ordering keys from identifiers and a seed. Two Keys
// with the same seed order any collection the same way on every platform.
type Keys struct {
	seed uint64
}

func NewKeys(seed uint64) Keys {
	return Keys{seed: seed}
}

// Hash returns the first 64 bits of the SHA-256 digest of x.
func Hash(x string) uint64 {
	sum := sha256.Sum256([]byte(x))
	return binary.BigEndian.Uint64(sum[:8])
}

func (k Keys) Seed() uint64 {
	return k.seed
}

func (k Keys) Key(x string) uint64 {
	return Hash(x) ^ k.seed
}

// Less orders two identifiers by key, falling back to the identifiers themselves.
func (k Keys) Less(a, b string) bool {
	ka, kb := k.Key(a), k.Key(b)
	if ka != kb {
		return ka < kb
	}
	return a < b
}

// SortByKey returns a key-ordered copy of xs.
func (k Keys) SortByKey(xs []string) []string {
	out := append([]string(nil), xs...)
	sort.SliceStable(out, func(i, j int) bool {
		return k.Less(out[i], out[j])
	})
	return out
}

// Pick returns key(discriminator) mod n.
func (k Keys) Pick(n int, discriminator string) int {
	if n <= 0 {
		return 0
	}
	return int(k.Key(discriminator) % uint64(n))
}

// SeedIndex returns seed mod n.
func (k Keys) SeedIndex(n int) int {
	if n <= 0 {
		return 0
	}
	return int(k.seed % uint64(n))
}
