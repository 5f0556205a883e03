package strata

import "iter"

// BoundKind determines how an iteration Bound treats its key.
type BoundKind int

const (
	// BoundUnbounded leaves that side of the range open.
	BoundUnbounded BoundKind = iota
	// BoundIncluded includes the key itself in the range.
	BoundIncluded
	// BoundExcluded stops just short of the key.
	BoundExcluded
)

// Bound delimits one side of an iteration range over raw keys.
// The zero value is an open bound.
type Bound struct {
	Kind BoundKind
	Key  []byte
}

func Included(key []byte) Bound {
	return Bound{Kind: BoundIncluded, Key: key}
}

func Excluded(key []byte) Bound {
	return Bound{Kind: BoundExcluded, Key: key}
}

func Unbounded() Bound {
	return Bound{}
}

// Backend is a flat binary key-value store. Get returns nil for absent keys;
// a present key with an empty value must come back as a non-nil empty slice.
// Backends that can enumerate keys in lexicographic order additionally
// implement IterableBackend, and usually ReverseIterableBackend too.
type Backend interface {
	Get(key []byte) []byte
	Set(key, value []byte)
	Remove(key []byte)
}

// IterableBackend enumerates keys in ascending lexicographic order within
// the given bounds.
type IterableBackend interface {
	Backend
	Keys(start, end Bound) iter.Seq[[]byte]
	Values(start, end Bound) iter.Seq[[]byte]
	Pairs(start, end Bound) iter.Seq2[[]byte, []byte]
}

// ReverseIterableBackend enumerates the same ranges in descending order.
type ReverseIterableBackend interface {
	IterableBackend
	RevKeys(start, end Bound) iter.Seq[[]byte]
	RevValues(start, end Bound) iter.Seq[[]byte]
	RevPairs(start, end Bound) iter.Seq2[[]byte, []byte]
}

// Storage is the read-only view containers operate on. Metadata lives in a
// separate partition of the key space and never shows up in iteration.
type Storage interface {
	Get(key []byte) []byte
	Has(key []byte) bool
	GetMeta(key []byte) []byte
	HasMeta(key []byte) bool
}

// StorageMut extends Storage with writes.
type StorageMut interface {
	Storage
	Set(key, value []byte)
	Remove(key []byte)
	SetMeta(key, value []byte)
	RemoveMeta(key []byte)
}

// IterableStorage enumerates main-partition keys in ascending order.
type IterableStorage interface {
	Keys(start, end Bound) iter.Seq[[]byte]
	Values(start, end Bound) iter.Seq[[]byte]
	Pairs(start, end Bound) iter.Seq2[[]byte, []byte]
}

// RevIterableStorage enumerates the same ranges in descending order.
type RevIterableStorage interface {
	RevKeys(start, end Bound) iter.Seq[[]byte]
	RevValues(start, end Bound) iter.Seq[[]byte]
	RevPairs(start, end Bound) iter.Seq2[[]byte, []byte]
}

// metaPrefix segregates bookkeeping keys from user data. User keys are
// written verbatim, so the main partition keeps backend byte order, while
// every metadata key gets this byte prepended. The 0xFF byte range is
// reserved: callers must not root containers at prefixes starting with
// 0xFF or feed raw 0xFF-prefixed keys to byte-keyed containers bound to
// the storage root. Iteration stays below 0xFF and will not surface such
// keys.
const metaPrefix byte = 0xFF

// NewStorage wraps a Backend into the StorageMut containers expect.
// If the backend supports iteration, so does the returned storage.
func NewStorage(b Backend) StorageMut {
	return &backendStorage{b}
}

type backendStorage struct {
	b Backend
}

var (
	_ StorageMut         = (*backendStorage)(nil)
	_ IterableStorage    = (*backendStorage)(nil)
	_ RevIterableStorage = (*backendStorage)(nil)
)

func metaKey(key []byte) []byte {
	return concat([]byte{metaPrefix}, key)
}

func (s *backendStorage) Get(key []byte) []byte { return s.b.Get(key) }
func (s *backendStorage) Has(key []byte) bool   { return s.b.Get(key) != nil }
func (s *backendStorage) Set(key, value []byte) { s.b.Set(key, value) }
func (s *backendStorage) Remove(key []byte)     { s.b.Remove(key) }

func (s *backendStorage) GetMeta(key []byte) []byte {
	return s.b.Get(metaKey(key))
}
func (s *backendStorage) HasMeta(key []byte) bool {
	return s.b.Get(metaKey(key)) != nil
}
func (s *backendStorage) SetMeta(key, value []byte) {
	s.b.Set(metaKey(key), value)
}
func (s *backendStorage) RemoveMeta(key []byte) {
	s.b.Remove(metaKey(key))
}

// mainBounds clips a raw range to the main partition, keeping metadata
// keys out of backend-level scans.
func mainBounds(start, end Bound) (Bound, Bound) {
	if end.Kind == BoundUnbounded {
		end = Excluded([]byte{metaPrefix})
	}
	return start, end
}

func (s *backendStorage) iterable() IterableBackend {
	ib, ok := s.b.(IterableBackend)
	if !ok {
		panic("strata: backend does not support iteration")
	}
	return ib
}

func (s *backendStorage) revIterable() ReverseIterableBackend {
	rb, ok := s.b.(ReverseIterableBackend)
	if !ok {
		panic("strata: backend does not support reverse iteration")
	}
	return rb
}

func (s *backendStorage) Keys(start, end Bound) iter.Seq[[]byte] {
	start, end = mainBounds(start, end)
	return s.iterable().Keys(start, end)
}

func (s *backendStorage) Values(start, end Bound) iter.Seq[[]byte] {
	start, end = mainBounds(start, end)
	return s.iterable().Values(start, end)
}

func (s *backendStorage) Pairs(start, end Bound) iter.Seq2[[]byte, []byte] {
	start, end = mainBounds(start, end)
	return s.iterable().Pairs(start, end)
}

func (s *backendStorage) RevKeys(start, end Bound) iter.Seq[[]byte] {
	start, end = mainBounds(start, end)
	return s.revIterable().RevKeys(start, end)
}

func (s *backendStorage) RevValues(start, end Bound) iter.Seq[[]byte] {
	start, end = mainBounds(start, end)
	return s.revIterable().RevValues(start, end)
}

func (s *backendStorage) RevPairs(start, end Bound) iter.Seq2[[]byte, []byte] {
	start, end = mainBounds(start, end)
	return s.revIterable().RevPairs(start, end)
}
