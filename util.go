package strata

import (
	"encoding/hex"
	"log/slog"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func ensure(err error) {
	if err != nil {
		panic(err)
	}
}

// prefixSuccessor returns the smallest byte string greater than every
// string prefixed by data. Trailing 0xFF bytes are dropped before bumping
// the last byte: the successor of 01FF is 02, not 0200, since the bare key
// 02 sorts between them. ok is false when data is all 0xFF and no
// successor exists.
func prefixSuccessor(data []byte) (out []byte, ok bool) {
	i := len(data)
	for i > 0 && data[i-1] == 0xFF {
		i--
	}
	if i == 0 {
		return nil, false
	}
	out = append([]byte(nil), data[:i]...)
	out[i-1]++
	return out, true
}

// concat joins byte strings into a freshly allocated buffer.
func concat(chunks ...[]byte) []byte {
	var n int
	for _, c := range chunks {
		n += len(c)
	}
	buf := make([]byte, 0, n)
	for _, c := range chunks {
		buf = append(buf, c...)
	}
	return buf
}

type hexBytes []byte

func (b hexBytes) String() string {
	return hex.EncodeToString(b)
}

func hexstr(b []byte) string {
	if b == nil {
		return "<nil>"
	}
	if len(b) == 0 {
		return "<empty>"
	}
	return hex.EncodeToString(b)
}

func hexAttr(key string, b []byte) slog.Attr {
	return slog.String(key, hexstr(b))
}
