package strata

import (
	"fmt"
	"iter"
)

// keyStrategy determines how a map key and the inner container's key share
// a composite byte key.
type keyStrategy int

const (
	// stratLenPrefix prepends a one-byte length before the map key. Needed
	// when the key length varies and the inner container appends more
	// bytes, at the cost of breaking lexicographic key order.
	stratLenPrefix keyStrategy = iota
	// stratUseRest lets the map key consume every remaining byte. Valid
	// when the inner container appends nothing.
	stratUseRest
	// stratUseN takes exactly the key codec's fixed length.
	stratUseN
)

func strategyFor(kk KeyKind, inner Kind) keyStrategy {
	if kk.Fixed() {
		return stratUseN
	}
	if inner == Terminal {
		return stratUseRest
	}
	return stratLenPrefix
}

// NewMap describes a mapping from keys of type K to inner containers.
// The inner container is scoped to a branch keyed by the encoded map key,
// so Map composes: Map of Item, Map of Column, Map of Map, and so on.
//
// Bounded iteration is unavailable when K has dynamic length and the inner
// container is non-terminal; see Container.SupportsBoundedIteration.
func NewMap[K, IK, IV, IR, IM any](keys KeyCodec[K], inner Container[IK, IV, IR, IM]) Container[Pair[K, IK], IV, *MapAccess[K, IK, IV, IR, IM], *MapMutAccess[K, IK, IV, IR, IM]] {
	strat := strategyFor(keys.Kind(), inner.kind)
	decodeKey := func(data []byte) (Pair[K, IK], error) {
		return mapDecodeKey(keys, inner.decodeKey, strat, data)
	}
	return Container[Pair[K, IK], IV, *MapAccess[K, IK, IV, IR, IM], *MapMutAccess[K, IK, IV, IR, IM]]{
		kind:    NonTerminal,
		bounded: strat != stratLenPrefix,
		access: func(s Storage) *MapAccess[K, IK, IV, IR, IM] {
			return &MapAccess[K, IK, IV, IR, IM]{
				iterAccess: iterAccess[Pair[K, IK], IV]{
					s:           s,
					decodeKey:   decodeKey,
					decodeValue: inner.decodeValue,
				},
				keys:  keys,
				inner: inner,
				strat: strat,
			}
		},
		accessMut: func(ms StorageMut) *MapMutAccess[K, IK, IV, IR, IM] {
			m := &MapMutAccess[K, IK, IV, IR, IM]{ms: ms}
			m.MapAccess = MapAccess[K, IK, IV, IR, IM]{
				iterAccess: iterAccess[Pair[K, IK], IV]{
					s:           ms,
					decodeKey:   decodeKey,
					decodeValue: inner.decodeValue,
				},
				keys:  keys,
				inner: inner,
				strat: strat,
			}
			return m
		},
		decodeKey:   decodeKey,
		decodeValue: inner.decodeValue,
	}
}

func mapDecodeKey[K, IK any](keys KeyCodec[K], decodeInner func([]byte) (IK, error), strat keyStrategy, data []byte) (Pair[K, IK], error) {
	var zero Pair[K, IK]
	var rawKey, rest []byte
	switch strat {
	case stratLenPrefix:
		if len(data) < 1 {
			return zero, dataErrf(data, ErrInvalidKeyLength, "map key: missing length byte")
		}
		n := int(data[0])
		if len(data) < 1+n {
			return zero, dataErrf(data, ErrInvalidKeyLength, "map key: length byte says %d, %d bytes left", n, len(data)-1)
		}
		rawKey, rest = data[1:1+n], data[1+n:]
	case stratUseRest:
		rawKey, rest = data, nil
	case stratUseN:
		n := keys.Kind().Size()
		if len(data) < n {
			return zero, dataErrf(data, ErrInvalidKeyLength, "map key: got %d bytes, want at least %d", len(data), n)
		}
		rawKey, rest = data[:n], data[n:]
	}
	key, err := keys.DecodeKey(rawKey)
	if err != nil {
		return zero, err
	}
	sub, err := decodeInner(rest)
	if err != nil {
		return zero, err
	}
	return Pair[K, IK]{Key: key, Sub: sub}, nil
}

// MapAccess reads map entries.
type MapAccess[K, IK, IV, IR, IM any] struct {
	iterAccess[Pair[K, IK], IV]
	keys  KeyCodec[K]
	inner Container[IK, IV, IR, IM]
	strat keyStrategy
}

// subKey builds the composite key fragment the inner container lives under.
func (a *MapAccess[K, IK, IV, IR, IM]) subKey(key K) []byte {
	enc := a.keys.EncodeKey(key)
	if a.strat != stratLenPrefix {
		return enc
	}
	if len(enc) > 255 {
		panic(fmt.Sprintf("strata: map key is %d bytes, length-prefixed keys max out at 255", len(enc)))
	}
	return concat([]byte{byte(len(enc))}, enc)
}

// Entry returns the inner container's read accessor scoped to key.
func (a *MapAccess[K, IK, IV, IR, IM]) Entry(key K) IR {
	return a.inner.access(NewBranch(a.s, a.subKey(key)))
}

func (a *MapAccess[K, IK, IV, IR, IM]) keyBound(b KeyBound[K]) Bound {
	if a.strat == stratLenPrefix {
		panic("strata: bounded iteration over length-prefixed map keys")
	}
	return b.raw(a.keys.EncodeKey)
}

// BoundedPairs iterates entries whose map key falls within the given
// range, ascending. Panics when the map's key layout is length-prefixed.
func (a *MapAccess[K, IK, IV, IR, IM]) BoundedPairs(start, end KeyBound[K]) iter.Seq2[KV[Pair[K, IK], IV], error] {
	return a.rawPairs(a.keyBound(start), a.keyBound(end))
}

// BoundedKeys iterates keys within the given range, ascending.
func (a *MapAccess[K, IK, IV, IR, IM]) BoundedKeys(start, end KeyBound[K]) iter.Seq2[Pair[K, IK], error] {
	return a.rawKeys(a.keyBound(start), a.keyBound(end))
}

// BoundedValues iterates values within the given range, ascending.
func (a *MapAccess[K, IK, IV, IR, IM]) BoundedValues(start, end KeyBound[K]) iter.Seq2[IV, error] {
	return a.rawValues(a.keyBound(start), a.keyBound(end))
}

// BoundedRevPairs iterates entries within the given range, descending.
func (a *MapAccess[K, IK, IV, IR, IM]) BoundedRevPairs(start, end KeyBound[K]) iter.Seq2[KV[Pair[K, IK], IV], error] {
	return a.rawRevPairs(a.keyBound(start), a.keyBound(end))
}

// BoundedRevKeys iterates keys within the given range, descending.
func (a *MapAccess[K, IK, IV, IR, IM]) BoundedRevKeys(start, end KeyBound[K]) iter.Seq2[Pair[K, IK], error] {
	return a.rawRevKeys(a.keyBound(start), a.keyBound(end))
}

// BoundedRevValues iterates values within the given range, descending.
func (a *MapAccess[K, IK, IV, IR, IM]) BoundedRevValues(start, end KeyBound[K]) iter.Seq2[IV, error] {
	return a.rawRevValues(a.keyBound(start), a.keyBound(end))
}

// MapMutAccess reads and writes map entries.
type MapMutAccess[K, IK, IV, IR, IM any] struct {
	MapAccess[K, IK, IV, IR, IM]
	ms StorageMut
}

// EntryMut returns the inner container's mutating accessor scoped to key.
func (a *MapMutAccess[K, IK, IV, IR, IM]) EntryMut(key K) IM {
	return a.inner.accessMut(NewBranchMut(a.ms, a.subKey(key)))
}
