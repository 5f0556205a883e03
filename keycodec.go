package strata

import (
	"fmt"
	"slices"
	"unicode/utf8"
)

// KeyKind describes the encoded shape of a key: either every encoding has
// the same fixed byte length, or the length varies per value.
type KeyKind struct {
	size int // 0 for dynamic
}

// Dynamic marks keys of varying encoded length.
var Dynamic = KeyKind{}

// FixedSize marks keys whose encoding is always n bytes long.
func FixedSize(n int) KeyKind {
	if n <= 0 {
		panic(fmt.Sprintf("strata: invalid fixed key size %d", n))
	}
	return KeyKind{size: n}
}

func (k KeyKind) Fixed() bool {
	return k.size != 0
}

func (k KeyKind) Size() int {
	return k.size
}

// KeyCodec converts typed keys to and from byte strings. Encodings preserve
// order: the byte strings of two keys compare lexicographically the same way
// the keys themselves do.
type KeyCodec[K any] interface {
	EncodeKey(key K) []byte
	DecodeKey(data []byte) (K, error)
	Kind() KeyKind
}

// StringKey encodes strings as their UTF-8 bytes. Decoding rejects byte
// strings that are not valid UTF-8.
var StringKey KeyCodec[string] = stringKey{}

type stringKey struct{}

func (stringKey) EncodeKey(key string) []byte {
	return []byte(key)
}

func (stringKey) DecodeKey(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", dataErrf(data, ErrInvalidUTF8, "string key")
	}
	return string(data), nil
}

func (stringKey) Kind() KeyKind {
	return Dynamic
}

// BytesKey passes keys through verbatim.
var BytesKey KeyCodec[[]byte] = bytesKey{size: 0}

// FixedBytesKey passes n-byte keys through verbatim, declaring their fixed
// length so composite keys can split them without a length prefix.
func FixedBytesKey(n int) KeyCodec[[]byte] {
	if n <= 0 {
		panic(fmt.Sprintf("strata: invalid fixed key size %d", n))
	}
	return bytesKey{size: n}
}

type bytesKey struct {
	size int
}

func (k bytesKey) EncodeKey(key []byte) []byte {
	if k.size != 0 && len(key) != k.size {
		panic(fmt.Sprintf("strata: key is %d bytes, want %d", len(key), k.size))
	}
	return slices.Clone(key)
}

func (k bytesKey) DecodeKey(data []byte) ([]byte, error) {
	if k.size != 0 && len(data) != k.size {
		return nil, dataErrf(data, ErrInvalidKeyLength, "bytes key: got %d bytes, want %d", len(data), k.size)
	}
	return slices.Clone(data), nil
}

func (k bytesKey) Kind() KeyKind {
	return KeyKind{size: k.size}
}

type unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

type signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned integer keys in big-endian byte order, which matches numeric
// order under lexicographic byte comparison.
var (
	Uint8Key  KeyCodec[uint8]  = uintKey[uint8]{1}
	Uint16Key KeyCodec[uint16] = uintKey[uint16]{2}
	Uint32Key KeyCodec[uint32] = uintKey[uint32]{4}
	Uint64Key KeyCodec[uint64] = uintKey[uint64]{8}
)

// Signed integer keys: big-endian with the sign bit flipped, so negative
// values sort below zero and positives, preserving numeric order.
var (
	Int8Key  KeyCodec[int8]  = intKey[int8]{1}
	Int16Key KeyCodec[int16] = intKey[int16]{2}
	Int32Key KeyCodec[int32] = intKey[int32]{4}
	Int64Key KeyCodec[int64] = intKey[int64]{8}
)

type uintKey[T unsigned] struct {
	size int
}

func (k uintKey[T]) EncodeKey(key T) []byte {
	return putBE(uint64(key), k.size)
}

func (k uintKey[T]) DecodeKey(data []byte) (T, error) {
	u, err := getBE(data, k.size)
	if err != nil {
		return 0, err
	}
	return T(u), nil
}

func (k uintKey[T]) Kind() KeyKind {
	return KeyKind{size: k.size}
}

type intKey[T signed] struct {
	size int
}

func (k intKey[T]) signBit() uint64 {
	return 1 << (k.size*8 - 1)
}

func (k intKey[T]) EncodeKey(key T) []byte {
	u := uint64(key) ^ k.signBit()
	return putBE(u, k.size)
}

func (k intKey[T]) DecodeKey(data []byte) (T, error) {
	u, err := getBE(data, k.size)
	if err != nil {
		return 0, err
	}
	u ^= k.signBit()
	shift := 64 - 8*k.size
	return T(int64(u<<shift) >> shift), nil
}

func (k intKey[T]) Kind() KeyKind {
	return KeyKind{size: k.size}
}

func putBE(u uint64, size int) []byte {
	buf := make([]byte, size)
	for i := size - 1; i >= 0; i-- {
		buf[i] = byte(u)
		u >>= 8
	}
	return buf
}

func getBE(data []byte, size int) (uint64, error) {
	if len(data) != size {
		return 0, dataErrf(data, ErrInvalidKeyLength, "integer key: got %d bytes, want %d", len(data), size)
	}
	var u uint64
	for _, b := range data {
		u = u<<8 | uint64(b)
	}
	return u, nil
}
