package strata

// NewItem describes a single value of type T stored directly at the
// container's root key. Items are terminal: they occupy exactly one key.
func NewItem[T any](enc Encoding) Container[Unit, T, *ItemAccess[T], *ItemMutAccess[T]] {
	return Container[Unit, T, *ItemAccess[T], *ItemMutAccess[T]]{
		kind: Terminal,
		access: func(s Storage) *ItemAccess[T] {
			return &ItemAccess[T]{s: s, enc: enc}
		},
		accessMut: func(ms StorageMut) *ItemMutAccess[T] {
			return &ItemMutAccess[T]{ItemAccess: ItemAccess[T]{s: ms, enc: enc}, ms: ms}
		},
		decodeKey: func(data []byte) (Unit, error) {
			if len(data) != 0 {
				return Unit{}, dataErrf(data, ErrInvalidKeyLength, "item key: got %d bytes, want none", len(data))
			}
			return Unit{}, nil
		},
		decodeValue: func(data []byte) (T, error) {
			var v T
			if err := enc.DecodeValue(data, &v); err != nil {
				return v, dataErrf(data, err, "item value")
			}
			return v, nil
		},
	}
}

// ItemAccess reads a single stored value.
type ItemAccess[T any] struct {
	s   Storage
	enc Encoding
}

// Get returns the stored value, or nil if nothing is stored.
func (a *ItemAccess[T]) Get() (*T, error) {
	data := a.s.Get(nil)
	if data == nil {
		return nil, nil
	}
	v := new(T)
	if err := a.enc.DecodeValue(data, v); err != nil {
		return nil, dataErrf(data, err, "item value")
	}
	return v, nil
}

// GetOr returns the stored value, or def if nothing is stored.
func (a *ItemAccess[T]) GetOr(def T) (T, error) {
	v, err := a.Get()
	if err != nil {
		return def, err
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}

// Has reports whether a value is stored.
func (a *ItemAccess[T]) Has() bool {
	return a.s.Has(nil)
}

// ItemMutAccess reads and writes a single stored value.
type ItemMutAccess[T any] struct {
	ItemAccess[T]
	ms StorageMut
}

// Set stores the value, replacing any previous one.
func (a *ItemMutAccess[T]) Set(v *T) error {
	data, err := a.enc.EncodeValue(v)
	if err != nil {
		return err
	}
	a.ms.Set(nil, data)
	return nil
}

// Update applies f to the current value (nil if absent) and stores the
// result; a nil result removes the value.
func (a *ItemMutAccess[T]) Update(f func(v *T) *T) error {
	v, err := a.Get()
	if err != nil {
		return err
	}
	v = f(v)
	if v == nil {
		a.ms.Remove(nil)
		return nil
	}
	return a.Set(v)
}

// Remove deletes the stored value if present.
func (a *ItemMutAccess[T]) Remove() {
	a.ms.Remove(nil)
}
