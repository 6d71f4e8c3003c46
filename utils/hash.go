package utils

import "github.com/benbjohnson/immutable"

type (
	// HashableEq is implemented by keys of hashed persistent maps.
	HashableEq[T any] interface {
		Hash() uint32
		Equal(T) bool
	}

	hashableHasher[T HashableEq[T]] struct{}
)

func (hashableHasher[T]) Equal(a, b T) bool { return a.Equal(b) }
func (hashableHasher[T]) Hash(a T) uint32   { return a.Hash() }

// HashableHasher is the hasher of a hashable key type.
func HashableHasher[T HashableEq[T]]() immutable.Hasher[T] { return hashableHasher[T]{} }

// NewImmMap creates an empty persistent map with hashable keys.
func NewImmMap[K HashableEq[K], V any]() *immutable.Map[K, V] {
	return immutable.NewMap[K, V](HashableHasher[K]())
}

// HashCombine mixes hash values with the boost hash_combine scheme.
func HashCombine(hs ...uint32) (seed uint32) {
	for _, h := range hs {
		seed ^= h + 0x9e3779b9 + (seed << 6) + (seed >> 2)
	}
	return
}
