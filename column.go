package strata

import (
	"iter"
	"math"
)

// Column bookkeeping lives in the metadata partition of the container's
// keyspace: one key for the last id ever assigned, one for the live row
// count. Both are 4-byte big-endian.
var (
	colMetaLastID = []byte{0}
	colMetaLen    = []byte{1}
)

// NewColumn describes an append-only sequence of T rows keyed by
// automatically assigned uint32 ids starting at 1. Ids are never reused:
// removing rows leaves gaps.
func NewColumn[T any](enc Encoding) Container[uint32, T, *ColumnAccess[T], *ColumnMutAccess[T]] {
	decodeValue := func(data []byte) (T, error) {
		var v T
		if err := enc.DecodeValue(data, &v); err != nil {
			return v, dataErrf(data, err, "column value")
		}
		return v, nil
	}
	return Container[uint32, T, *ColumnAccess[T], *ColumnMutAccess[T]]{
		kind:    NonTerminal,
		bounded: true,
		access: func(s Storage) *ColumnAccess[T] {
			return newColumnAccess[T](s, enc, decodeValue)
		},
		accessMut: func(ms StorageMut) *ColumnMutAccess[T] {
			return &ColumnMutAccess[T]{ColumnAccess: *newColumnAccess[T](ms, enc, decodeValue), ms: ms}
		},
		decodeKey:   Uint32Key.DecodeKey,
		decodeValue: decodeValue,
	}
}

func newColumnAccess[T any](s Storage, enc Encoding, decodeValue func([]byte) (T, error)) *ColumnAccess[T] {
	return &ColumnAccess[T]{
		iterAccess: iterAccess[uint32, T]{
			s:           s,
			decodeKey:   Uint32Key.DecodeKey,
			decodeValue: decodeValue,
		},
		enc: enc,
	}
}

// ColumnAccess reads column rows.
type ColumnAccess[T any] struct {
	iterAccess[uint32, T]
	enc Encoding
}

// Get returns the row with the given id, or nil if the id holds no row.
func (a *ColumnAccess[T]) Get(id uint32) (*T, error) {
	data := a.s.Get(Uint32Key.EncodeKey(id))
	if data == nil {
		return nil, nil
	}
	v := new(T)
	if err := a.enc.DecodeValue(data, v); err != nil {
		return nil, dataErrf(data, err, "column value")
	}
	return v, nil
}

// GetOr returns the row with the given id, or def if the id holds no row.
func (a *ColumnAccess[T]) GetOr(id uint32, def T) (T, error) {
	v, err := a.Get(id)
	if err != nil {
		return def, err
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}

// Has reports whether the id holds a row.
func (a *ColumnAccess[T]) Has(id uint32) bool {
	return a.s.Has(Uint32Key.EncodeKey(id))
}

// Len returns the number of live rows.
func (a *ColumnAccess[T]) Len() (uint32, error) {
	return a.counter(colMetaLen)
}

// IsEmpty reports whether the column holds no rows.
func (a *ColumnAccess[T]) IsEmpty() (bool, error) {
	n, err := a.Len()
	return n == 0, err
}

func (a *ColumnAccess[T]) counter(key []byte) (uint32, error) {
	data := a.s.GetMeta(key)
	if data == nil {
		return 0, nil
	}
	u, err := getBE(data, 4)
	if err != nil {
		return 0, dataErrf(data, ErrInconsistentState, "column counter")
	}
	return uint32(u), nil
}

// BoundedPairs iterates rows with ids in the given range, ascending.
func (a *ColumnAccess[T]) BoundedPairs(start, end KeyBound[uint32]) iter.Seq2[KV[uint32, T], error] {
	return a.rawPairs(start.raw(Uint32Key.EncodeKey), end.raw(Uint32Key.EncodeKey))
}

// BoundedKeys iterates ids in the given range, ascending.
func (a *ColumnAccess[T]) BoundedKeys(start, end KeyBound[uint32]) iter.Seq2[uint32, error] {
	return a.rawKeys(start.raw(Uint32Key.EncodeKey), end.raw(Uint32Key.EncodeKey))
}

// BoundedValues iterates rows with ids in the given range, ascending.
func (a *ColumnAccess[T]) BoundedValues(start, end KeyBound[uint32]) iter.Seq2[T, error] {
	return a.rawValues(start.raw(Uint32Key.EncodeKey), end.raw(Uint32Key.EncodeKey))
}

// BoundedRevPairs iterates rows with ids in the given range, descending.
func (a *ColumnAccess[T]) BoundedRevPairs(start, end KeyBound[uint32]) iter.Seq2[KV[uint32, T], error] {
	return a.rawRevPairs(start.raw(Uint32Key.EncodeKey), end.raw(Uint32Key.EncodeKey))
}

// BoundedRevKeys iterates ids in the given range, descending.
func (a *ColumnAccess[T]) BoundedRevKeys(start, end KeyBound[uint32]) iter.Seq2[uint32, error] {
	return a.rawRevKeys(start.raw(Uint32Key.EncodeKey), end.raw(Uint32Key.EncodeKey))
}

// BoundedRevValues iterates rows with ids in the given range, descending.
func (a *ColumnAccess[T]) BoundedRevValues(start, end KeyBound[uint32]) iter.Seq2[T, error] {
	return a.rawRevValues(start.raw(Uint32Key.EncodeKey), end.raw(Uint32Key.EncodeKey))
}

// ColumnMutAccess reads and writes column rows.
type ColumnMutAccess[T any] struct {
	ColumnAccess[T]
	ms StorageMut
}

func (a *ColumnMutAccess[T]) setCounter(key []byte, v uint32) {
	a.ms.SetMeta(key, putBE(uint64(v), 4))
}

// Push appends a row under the next free id and returns that id.
// Fails with ErrIDOverflow once the id space is exhausted.
func (a *ColumnMutAccess[T]) Push(v *T) (uint32, error) {
	last, err := a.counter(colMetaLastID)
	if err != nil {
		return 0, err
	}
	if last == math.MaxUint32 {
		return 0, ErrIDOverflow
	}
	id := last + 1
	data, err := a.enc.EncodeValue(v)
	if err != nil {
		return 0, err
	}
	length, err := a.Len()
	if err != nil {
		return 0, err
	}
	a.ms.Set(Uint32Key.EncodeKey(id), data)
	a.setCounter(colMetaLastID, id)
	a.setCounter(colMetaLen, length+1)
	return id, nil
}

// Set replaces an existing row. Fails with ErrNotFound if the id holds no
// row; Push is the only way to create one.
func (a *ColumnMutAccess[T]) Set(id uint32, v *T) error {
	key := Uint32Key.EncodeKey(id)
	if !a.ms.Has(key) {
		return ErrNotFound
	}
	data, err := a.enc.EncodeValue(v)
	if err != nil {
		return err
	}
	a.ms.Set(key, data)
	return nil
}

// Update applies f to an existing row and stores the result; a nil result
// removes the row. Fails with ErrNotFound if the id holds no row.
func (a *ColumnMutAccess[T]) Update(id uint32, f func(v *T) *T) error {
	v, err := a.Get(id)
	if err != nil {
		return err
	}
	if v == nil {
		return ErrNotFound
	}
	v = f(v)
	if v == nil {
		return a.Remove(id)
	}
	return a.Set(id, v)
}

// Remove deletes the row with the given id. Removing an absent id is a
// no-op. Fails with ErrInconsistentState when a row existed but the length
// counter is missing.
func (a *ColumnMutAccess[T]) Remove(id uint32) error {
	key := Uint32Key.EncodeKey(id)
	if !a.ms.Has(key) {
		return nil
	}
	a.ms.Remove(key)
	data := a.ms.GetMeta(colMetaLen)
	if data == nil {
		return ErrInconsistentState
	}
	u, err := getBE(data, 4)
	if err != nil || u == 0 {
		return dataErrf(data, ErrInconsistentState, "column length")
	}
	a.setCounter(colMetaLen, uint32(u)-1)
	return nil
}
