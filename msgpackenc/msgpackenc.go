// Package msgpackenc serializes container values as MessagePack with
// sorted map keys, so equal values always encode to equal bytes.
package msgpackenc

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

type Encoding struct{}

// New returns the MessagePack value encoding.
func New() Encoding {
	return Encoding{}
}

func (Encoding) EncodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	enc.Reset(&buf)
	enc.SetSortMapKeys(true)
	err := enc.Encode(v)
	msgpack.PutEncoder(enc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T using msgpack: %w", v, err)
	}
	return buf.Bytes(), nil
}

func (Encoding) DecodeValue(data []byte, v any) error {
	var r bytes.Reader
	r.Reset(data)
	dec := msgpack.GetDecoder()
	dec.Reset(&r)
	err := dec.Decode(v)
	msgpack.PutDecoder(dec)
	if err != nil {
		return fmt.Errorf("failed to decode msgpack into %T: %w", v, err)
	}
	return nil
}
