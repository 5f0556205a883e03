package strata

import "iter"

// Kind tells how a container occupies its keyspace.
type Kind int

const (
	// Terminal containers store everything at their root key itself.
	Terminal Kind = iota
	// NonTerminal containers spread over the key range below their root.
	NonTerminal
)

// Unit is the key type of containers that have no keys of their own.
type Unit struct{}

// KV is a decoded key-value pair produced by iteration.
type KV[K, V any] struct {
	Key   K
	Value V
}

// Pair composes a map's own key with the inner container's key.
type Pair[K, S any] struct {
	Key K
	Sub S
}

// Container is a typed layout over raw storage. K is the container's full
// key type, V its value type, R the read accessor, M the mutating accessor.
// Containers are plain descriptors with no storage of their own; bind one
// to a Storage with Access or AccessMut. Constructed by NewItem, NewColumn,
// NewMap and NewSet.
type Container[K, V, R, M any] struct {
	kind        Kind
	access      func(Storage) R
	accessMut   func(StorageMut) M
	decodeKey   func(data []byte) (K, error)
	decodeValue func(data []byte) (V, error)
	bounded     bool
}

func (c Container[K, V, R, M]) Kind() Kind {
	return c.kind
}

// Access binds the container to read-only storage.
func (c Container[K, V, R, M]) Access(s Storage) R {
	return c.access(s)
}

// AccessMut binds the container to mutable storage.
func (c Container[K, V, R, M]) AccessMut(ms StorageMut) M {
	return c.accessMut(ms)
}

// DecodeKey parses a raw relative key into the container's key type.
func (c Container[K, V, R, M]) DecodeKey(data []byte) (K, error) {
	return c.decodeKey(data)
}

// DecodeValue parses raw stored bytes into the container's value type.
func (c Container[K, V, R, M]) DecodeValue(data []byte) (V, error) {
	return c.decodeValue(data)
}

// SupportsBoundedIteration reports whether bounded iteration is available.
// Maps with dynamically sized keys over non-terminal inner containers use a
// length-prefixed key layout whose byte order does not match key order, so
// their accessors refuse range bounds.
func (c Container[K, V, R, M]) SupportsBoundedIteration() bool {
	return c.bounded
}

// KeyBound delimits one side of a typed iteration range.
// The zero value is an open bound.
type KeyBound[K any] struct {
	kind BoundKind
	key  K
}

func KeyIncluded[K any](key K) KeyBound[K] {
	return KeyBound[K]{kind: BoundIncluded, key: key}
}

func KeyExcluded[K any](key K) KeyBound[K] {
	return KeyBound[K]{kind: BoundExcluded, key: key}
}

func KeyUnbounded[K any]() KeyBound[K] {
	return KeyBound[K]{}
}

func (b KeyBound[K]) raw(enc func(K) []byte) Bound {
	switch b.kind {
	case BoundIncluded:
		return Included(enc(b.key))
	case BoundExcluded:
		return Excluded(enc(b.key))
	default:
		return Unbounded()
	}
}

// iterAccess is the shared iteration half of container accessors. Raw pairs
// are decoded lazily; a decode failure yields the error for that item and
// the walk continues.
type iterAccess[K, V any] struct {
	s           Storage
	decodeKey   func(data []byte) (K, error)
	decodeValue func(data []byte) (V, error)
}

func (a iterAccess[K, V]) iterable() IterableStorage {
	is, ok := a.s.(IterableStorage)
	if !ok {
		panic("strata: storage does not support iteration")
	}
	return is
}

func (a iterAccess[K, V]) revIterable() RevIterableStorage {
	rs, ok := a.s.(RevIterableStorage)
	if !ok {
		panic("strata: storage does not support reverse iteration")
	}
	return rs
}

func (a iterAccess[K, V]) decodePairs(raw iter.Seq2[[]byte, []byte]) iter.Seq2[KV[K, V], error] {
	return func(yield func(KV[K, V], error) bool) {
		for k, v := range raw {
			key, err := a.decodeKey(k)
			if err != nil {
				if !yield(KV[K, V]{}, err) {
					return
				}
				continue
			}
			value, err := a.decodeValue(v)
			if err != nil {
				if !yield(KV[K, V]{}, err) {
					return
				}
				continue
			}
			if !yield(KV[K, V]{Key: key, Value: value}, nil) {
				return
			}
		}
	}
}

func (a iterAccess[K, V]) decodeKeys(raw iter.Seq[[]byte]) iter.Seq2[K, error] {
	return func(yield func(K, error) bool) {
		for k := range raw {
			key, err := a.decodeKey(k)
			if !yield(key, err) {
				return
			}
		}
	}
}

func (a iterAccess[K, V]) decodeValues(raw iter.Seq[[]byte]) iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		for v := range raw {
			value, err := a.decodeValue(v)
			if !yield(value, err) {
				return
			}
		}
	}
}

func (a iterAccess[K, V]) rawPairs(start, end Bound) iter.Seq2[KV[K, V], error] {
	return a.decodePairs(a.iterable().Pairs(start, end))
}

func (a iterAccess[K, V]) rawKeys(start, end Bound) iter.Seq2[K, error] {
	return a.decodeKeys(a.iterable().Keys(start, end))
}

func (a iterAccess[K, V]) rawValues(start, end Bound) iter.Seq2[V, error] {
	return a.decodeValues(a.iterable().Values(start, end))
}

func (a iterAccess[K, V]) rawRevPairs(start, end Bound) iter.Seq2[KV[K, V], error] {
	return a.decodePairs(a.revIterable().RevPairs(start, end))
}

func (a iterAccess[K, V]) rawRevKeys(start, end Bound) iter.Seq2[K, error] {
	return a.decodeKeys(a.revIterable().RevKeys(start, end))
}

func (a iterAccess[K, V]) rawRevValues(start, end Bound) iter.Seq2[V, error] {
	return a.decodeValues(a.revIterable().RevValues(start, end))
}

// Pairs iterates all entries in ascending key order.
func (a iterAccess[K, V]) Pairs() iter.Seq2[KV[K, V], error] {
	return a.rawPairs(Unbounded(), Unbounded())
}

// Keys iterates all keys in ascending order.
func (a iterAccess[K, V]) Keys() iter.Seq2[K, error] {
	return a.rawKeys(Unbounded(), Unbounded())
}

// Values iterates all values in ascending key order.
func (a iterAccess[K, V]) Values() iter.Seq2[V, error] {
	return a.rawValues(Unbounded(), Unbounded())
}

// RevPairs iterates all entries in descending key order.
func (a iterAccess[K, V]) RevPairs() iter.Seq2[KV[K, V], error] {
	return a.rawRevPairs(Unbounded(), Unbounded())
}

// RevKeys iterates all keys in descending order.
func (a iterAccess[K, V]) RevKeys() iter.Seq2[K, error] {
	return a.rawRevKeys(Unbounded(), Unbounded())
}

// RevValues iterates all values in descending key order.
func (a iterAccess[K, V]) RevValues() iter.Seq2[V, error] {
	return a.rawRevValues(Unbounded(), Unbounded())
}
