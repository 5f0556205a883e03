package strata

import "iter"

// NewSet describes a collection of keys of type K with no associated
// values. Members are stored as empty-valued entries under their encoded
// key.
func NewSet[K any](keys KeyCodec[K]) Container[K, Unit, *SetAccess[K], *SetMutAccess[K]] {
	decodeValue := func(data []byte) (Unit, error) {
		return Unit{}, nil
	}
	return Container[K, Unit, *SetAccess[K], *SetMutAccess[K]]{
		kind:    NonTerminal,
		bounded: true,
		access: func(s Storage) *SetAccess[K] {
			return newSetAccess(s, keys)
		},
		accessMut: func(ms StorageMut) *SetMutAccess[K] {
			return &SetMutAccess[K]{SetAccess: *newSetAccess(ms, keys), ms: ms}
		},
		decodeKey:   keys.DecodeKey,
		decodeValue: decodeValue,
	}
}

func newSetAccess[K any](s Storage, keys KeyCodec[K]) *SetAccess[K] {
	return &SetAccess[K]{
		iterAccess: iterAccess[K, Unit]{
			s:         s,
			decodeKey: keys.DecodeKey,
			decodeValue: func(data []byte) (Unit, error) {
				return Unit{}, nil
			},
		},
		keys: keys,
	}
}

// SetAccess reads set membership.
type SetAccess[K any] struct {
	iterAccess[K, Unit]
	keys KeyCodec[K]
}

// Has reports whether key is a member.
func (a *SetAccess[K]) Has(key K) bool {
	return a.s.Has(a.keys.EncodeKey(key))
}

// BoundedKeys iterates members within the given range, ascending.
func (a *SetAccess[K]) BoundedKeys(start, end KeyBound[K]) iter.Seq2[K, error] {
	return a.rawKeys(start.raw(a.keys.EncodeKey), end.raw(a.keys.EncodeKey))
}

// BoundedRevKeys iterates members within the given range, descending.
func (a *SetAccess[K]) BoundedRevKeys(start, end KeyBound[K]) iter.Seq2[K, error] {
	return a.rawRevKeys(start.raw(a.keys.EncodeKey), end.raw(a.keys.EncodeKey))
}

// SetMutAccess reads and writes set membership.
type SetMutAccess[K any] struct {
	SetAccess[K]
	ms StorageMut
}

// Insert adds key to the set. Inserting an existing member is a no-op.
func (a *SetMutAccess[K]) Insert(key K) {
	a.ms.Set(a.keys.EncodeKey(key), []byte{})
}

// Remove deletes key from the set. Removing an absent member is a no-op.
func (a *SetMutAccess[K]) Remove(key K) {
	a.ms.Remove(a.keys.EncodeKey(key))
}
