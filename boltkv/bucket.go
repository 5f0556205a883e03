package boltkv

import (
	"bytes"
	"iter"
	"slices"

	"go.etcd.io/bbolt"

	"github.com/stratakv/strata"
)

// Bucket adapts a Bolt bucket to the strata backend interfaces. All
// returned keys and values are copied out of the transaction's pages.
// Writing while an iteration is in progress is not supported; collect the
// keys first, then mutate.
type Bucket struct {
	b *bbolt.Bucket
}

var _ strata.ReverseIterableBackend = (*Bucket)(nil)

// NewBucket wraps a Bolt bucket obtained from a live transaction. The
// result is only valid for the duration of that transaction.
func NewBucket(b *bbolt.Bucket) *Bucket {
	if b == nil {
		panic("boltkv: nil bucket")
	}
	return &Bucket{b: b}
}

func (b *Bucket) Get(key []byte) []byte {
	// Bucket.Get cannot tell an absent key from a present empty value,
	// so probe with a cursor instead.
	k, v := b.b.Cursor().Seek(key)
	if k == nil || !bytes.Equal(k, key) {
		return nil
	}
	return append([]byte{}, v...)
}

func (b *Bucket) Set(key, value []byte) {
	ensure(b.b.Put(key, value))
}

func (b *Bucket) Remove(key []byte) {
	ensure(b.b.Delete(key))
}

// Put and Delete only fail on misuse: a read-only transaction, oversized
// or empty keys. Those are programmer errors, not runtime conditions.
func ensure(err error) {
	if err != nil {
		panic(err)
	}
}

func (b *Bucket) seekFirst(c *bbolt.Cursor, start strata.Bound) ([]byte, []byte) {
	switch start.Kind {
	case strata.BoundIncluded:
		return c.Seek(start.Key)
	case strata.BoundExcluded:
		k, v := c.Seek(start.Key)
		if k != nil && bytes.Equal(k, start.Key) {
			k, v = c.Next()
		}
		return k, v
	default:
		return c.First()
	}
}

func (b *Bucket) seekLast(c *bbolt.Cursor, end strata.Bound) ([]byte, []byte) {
	switch end.Kind {
	case strata.BoundIncluded:
		k, v := c.Seek(end.Key)
		if k == nil {
			return c.Last()
		}
		if bytes.Equal(k, end.Key) {
			return k, v
		}
		return c.Prev()
	case strata.BoundExcluded:
		k, _ := c.Seek(end.Key)
		if k == nil {
			return c.Last()
		}
		return c.Prev()
	default:
		return c.Last()
	}
}

func withinEnd(key []byte, end strata.Bound) bool {
	switch end.Kind {
	case strata.BoundIncluded:
		return bytes.Compare(key, end.Key) <= 0
	case strata.BoundExcluded:
		return bytes.Compare(key, end.Key) < 0
	default:
		return true
	}
}

func withinStart(key []byte, start strata.Bound) bool {
	switch start.Kind {
	case strata.BoundIncluded:
		return bytes.Compare(key, start.Key) >= 0
	case strata.BoundExcluded:
		return bytes.Compare(key, start.Key) > 0
	default:
		return true
	}
}

func (b *Bucket) Pairs(start, end strata.Bound) iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		c := b.b.Cursor()
		for k, v := b.seekFirst(c, start); k != nil && withinEnd(k, end); k, v = c.Next() {
			if !yield(slices.Clone(k), append([]byte{}, v...)) {
				return
			}
		}
	}
}

func (b *Bucket) Keys(start, end strata.Bound) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		c := b.b.Cursor()
		for k, _ := b.seekFirst(c, start); k != nil && withinEnd(k, end); k, _ = c.Next() {
			if !yield(slices.Clone(k)) {
				return
			}
		}
	}
}

func (b *Bucket) Values(start, end strata.Bound) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		c := b.b.Cursor()
		for k, v := b.seekFirst(c, start); k != nil && withinEnd(k, end); k, v = c.Next() {
			if !yield(append([]byte{}, v...)) {
				return
			}
		}
	}
}

func (b *Bucket) RevPairs(start, end strata.Bound) iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		c := b.b.Cursor()
		for k, v := b.seekLast(c, end); k != nil && withinStart(k, start); k, v = c.Prev() {
			if !yield(slices.Clone(k), append([]byte{}, v...)) {
				return
			}
		}
	}
}

func (b *Bucket) RevKeys(start, end strata.Bound) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		c := b.b.Cursor()
		for k, _ := b.seekLast(c, end); k != nil && withinStart(k, start); k, _ = c.Prev() {
			if !yield(slices.Clone(k)) {
				return
			}
		}
	}
}

func (b *Bucket) RevValues(start, end strata.Bound) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		c := b.b.Cursor()
		for k, v := b.seekLast(c, end); k != nil && withinStart(k, start); k, v = c.Prev() {
			if !yield(append([]byte{}, v...)) {
				return
			}
		}
	}
}
