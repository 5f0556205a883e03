package strata

import (
	"iter"
	"log/slog"
)

const debugLogBranches = false

// Branch is a read-only view of a Storage restricted to keys starting with
// a fixed prefix. Keys passed in are extended with the prefix before they
// reach the underlying storage, and keys coming back out of iteration have
// the prefix stripped. Metadata keys are prefixed the same way, so nested
// containers get disjoint bookkeeping.
type Branch struct {
	s      Storage
	prefix []byte
}

// NewBranch restricts s to keys starting with prefix. An empty prefix
// yields a transparent view.
func NewBranch(s Storage, prefix []byte) Branch {
	return Branch{s: s, prefix: prefix}
}

// BranchMut is a Branch over a mutable storage.
type BranchMut struct {
	Branch
	ms StorageMut
}

func NewBranchMut(ms StorageMut, prefix []byte) BranchMut {
	return BranchMut{Branch: Branch{s: ms, prefix: prefix}, ms: ms}
}

var (
	_ Storage            = Branch{}
	_ IterableStorage    = Branch{}
	_ RevIterableStorage = Branch{}
	_ StorageMut         = BranchMut{}
)

func (b Branch) key(key []byte) []byte {
	if len(b.prefix) == 0 {
		return key
	}
	return concat(b.prefix, key)
}

func (b Branch) Get(key []byte) []byte { return b.s.Get(b.key(key)) }
func (b Branch) Has(key []byte) bool   { return b.s.Has(b.key(key)) }

func (b Branch) GetMeta(key []byte) []byte { return b.s.GetMeta(b.key(key)) }
func (b Branch) HasMeta(key []byte) bool   { return b.s.HasMeta(b.key(key)) }

func (b BranchMut) Set(key, value []byte)     { b.ms.Set(b.key(key), value) }
func (b BranchMut) Remove(key []byte)         { b.ms.Remove(b.key(key)) }
func (b BranchMut) SetMeta(key, value []byte) { b.ms.SetMeta(b.key(key), value) }
func (b BranchMut) RemoveMeta(key []byte)     { b.ms.RemoveMeta(b.key(key)) }

// subBounds translates bounds expressed relative to the branch into bounds
// over the parent key space. The translated range covers exactly the parent
// keys that start with the prefix and whose remainder falls within the
// original bounds. With an all-0xFF prefix there is no key following the
// prefixed range, so an open end stays open.
func subBounds(prefix []byte, start, end Bound) (Bound, Bound) {
	if len(prefix) == 0 {
		return start, end
	}
	switch start.Kind {
	case BoundUnbounded:
		start = Included(prefix)
	case BoundIncluded:
		start = Included(concat(prefix, start.Key))
	case BoundExcluded:
		start = Excluded(concat(prefix, start.Key))
	}
	switch end.Kind {
	case BoundUnbounded:
		if next, ok := prefixSuccessor(prefix); ok {
			end = Excluded(next)
		}
	case BoundIncluded:
		// The prefixed key may itself prefix longer keys in the branch;
		// the first key past all of them is key ++ 0x00's upper neighbor,
		// i.e. everything below key ++ 0x00 stays in range.
		end = Excluded(concat(prefix, end.Key, []byte{0}))
	case BoundExcluded:
		end = Excluded(concat(prefix, end.Key))
	}
	return start, end
}

func (b Branch) iterable() IterableStorage {
	is, ok := b.s.(IterableStorage)
	if !ok {
		panic("strata: storage does not support iteration")
	}
	return is
}

func (b Branch) revIterable() RevIterableStorage {
	rs, ok := b.s.(RevIterableStorage)
	if !ok {
		panic("strata: storage does not support reverse iteration")
	}
	return rs
}

func (b Branch) strip(key []byte) []byte {
	return key[len(b.prefix):]
}

func (b Branch) bounds(start, end Bound) (Bound, Bound) {
	start, end = subBounds(b.prefix, start, end)
	if debugLogBranches {
		slog.Debug("branch bounds", hexAttr("prefix", b.prefix), hexAttr("start", start.Key), hexAttr("end", end.Key))
	}
	return start, end
}

func (b Branch) Pairs(start, end Bound) iter.Seq2[[]byte, []byte] {
	start, end = b.bounds(start, end)
	inner := b.iterable().Pairs(start, end)
	return func(yield func([]byte, []byte) bool) {
		for k, v := range inner {
			if !yield(b.strip(k), v) {
				return
			}
		}
	}
}

func (b Branch) Keys(start, end Bound) iter.Seq[[]byte] {
	start, end = b.bounds(start, end)
	inner := b.iterable().Keys(start, end)
	return func(yield func([]byte) bool) {
		for k := range inner {
			if !yield(b.strip(k)) {
				return
			}
		}
	}
}

func (b Branch) Values(start, end Bound) iter.Seq[[]byte] {
	start, end = b.bounds(start, end)
	return b.iterable().Values(start, end)
}

func (b Branch) RevPairs(start, end Bound) iter.Seq2[[]byte, []byte] {
	start, end = b.bounds(start, end)
	inner := b.revIterable().RevPairs(start, end)
	return func(yield func([]byte, []byte) bool) {
		for k, v := range inner {
			if !yield(b.strip(k), v) {
				return
			}
		}
	}
}

func (b Branch) RevKeys(start, end Bound) iter.Seq[[]byte] {
	start, end = b.bounds(start, end)
	inner := b.revIterable().RevKeys(start, end)
	return func(yield func([]byte) bool) {
		for k := range inner {
			if !yield(b.strip(k)) {
				return
			}
		}
	}
}

func (b Branch) RevValues(start, end Bound) iter.Seq[[]byte] {
	start, end = b.bounds(start, end)
	return b.revIterable().RevValues(start, end)
}
