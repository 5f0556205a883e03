package strata

import (
	"bytes"
	"iter"
	"slices"
	"sort"
)

// MemBackend is a transient in-memory Backend keeping entries in a sorted
// slice. Intended for tests and small data sets. Not safe for concurrent use.
type MemBackend struct {
	items []memKV // sorted by key
}

type memKV struct {
	key   []byte
	value []byte
}

var _ ReverseIterableBackend = (*MemBackend)(nil)

// NewMemBackend returns an empty in-memory backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{}
}

func (b *MemBackend) find(key []byte) (idx int, ok bool) {
	items := b.items
	i := sort.Search(len(items), func(i int) bool {
		return bytes.Compare(items[i].key, key) >= 0
	})
	if i < len(items) && bytes.Equal(items[i].key, key) {
		return i, true
	}
	return i, false
}

func (b *MemBackend) Get(key []byte) []byte {
	i, ok := b.find(key)
	if !ok {
		return nil
	}
	v := b.items[i].value
	if v == nil {
		v = []byte{}
	}
	return v
}

func (b *MemBackend) Set(key, value []byte) {
	key = slices.Clone(key)
	value = slices.Clone(value)
	i, ok := b.find(key)
	if ok {
		b.items[i].value = value
		return
	}
	b.items = slices.Insert(b.items, i, memKV{key: key, value: value})
}

func (b *MemBackend) Remove(key []byte) {
	i, ok := b.find(key)
	if !ok {
		return
	}
	b.items = slices.Delete(b.items, i, i+1)
}

// Len reports the number of stored entries, metadata included.
func (b *MemBackend) Len() int {
	return len(b.items)
}

// indexRange maps bounds onto a half-open index interval [lo, hi).
func (b *MemBackend) indexRange(start, end Bound) (lo, hi int) {
	items := b.items
	switch start.Kind {
	case BoundUnbounded:
		lo = 0
	case BoundIncluded:
		lo = sort.Search(len(items), func(i int) bool {
			return bytes.Compare(items[i].key, start.Key) >= 0
		})
	case BoundExcluded:
		lo = sort.Search(len(items), func(i int) bool {
			return bytes.Compare(items[i].key, start.Key) > 0
		})
	}
	switch end.Kind {
	case BoundUnbounded:
		hi = len(items)
	case BoundIncluded:
		hi = sort.Search(len(items), func(i int) bool {
			return bytes.Compare(items[i].key, end.Key) > 0
		})
	case BoundExcluded:
		hi = sort.Search(len(items), func(i int) bool {
			return bytes.Compare(items[i].key, end.Key) >= 0
		})
	}
	if hi < lo {
		hi = lo
	}
	return
}

// snapshot copies the selected entries so mutation during iteration cannot
// corrupt the walk.
func (b *MemBackend) snapshot(start, end Bound) []memKV {
	lo, hi := b.indexRange(start, end)
	return slices.Clone(b.items[lo:hi])
}

func (b *MemBackend) Pairs(start, end Bound) iter.Seq2[[]byte, []byte] {
	snap := b.snapshot(start, end)
	return func(yield func([]byte, []byte) bool) {
		for _, kv := range snap {
			if !yield(kv.key, kv.value) {
				return
			}
		}
	}
}

func (b *MemBackend) Keys(start, end Bound) iter.Seq[[]byte] {
	snap := b.snapshot(start, end)
	return func(yield func([]byte) bool) {
		for _, kv := range snap {
			if !yield(kv.key) {
				return
			}
		}
	}
}

func (b *MemBackend) Values(start, end Bound) iter.Seq[[]byte] {
	snap := b.snapshot(start, end)
	return func(yield func([]byte) bool) {
		for _, kv := range snap {
			if !yield(kv.value) {
				return
			}
		}
	}
}

func (b *MemBackend) RevPairs(start, end Bound) iter.Seq2[[]byte, []byte] {
	snap := b.snapshot(start, end)
	return func(yield func([]byte, []byte) bool) {
		for i := len(snap) - 1; i >= 0; i-- {
			if !yield(snap[i].key, snap[i].value) {
				return
			}
		}
	}
}

func (b *MemBackend) RevKeys(start, end Bound) iter.Seq[[]byte] {
	snap := b.snapshot(start, end)
	return func(yield func([]byte) bool) {
		for i := len(snap) - 1; i >= 0; i-- {
			if !yield(snap[i].key) {
				return
			}
		}
	}
}

func (b *MemBackend) RevValues(start, end Bound) iter.Seq[[]byte] {
	snap := b.snapshot(start, end)
	return func(yield func([]byte) bool) {
		for i := len(snap) - 1; i >= 0; i-- {
			if !yield(snap[i].value) {
				return
			}
		}
	}
}
