// Package cborenc serializes container values as canonical CBOR.
package cborenc

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

type Encoding struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// New returns the CBOR value encoding. Encoding is canonical, so equal
// values always encode to equal bytes.
func New() (Encoding, error) {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return Encoding{}, err
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return Encoding{}, err
	}
	return Encoding{enc: enc, dec: dec}, nil
}

// MustNew is New for use in variable initializers.
func MustNew() Encoding {
	e, err := New()
	if err != nil {
		panic(err)
	}
	return e
}

func (e Encoding) EncodeValue(v any) ([]byte, error) {
	data, err := e.enc.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T using CBOR: %w", v, err)
	}
	return data, nil
}

func (e Encoding) DecodeValue(data []byte, v any) error {
	if err := e.dec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode CBOR into %T: %w", v, err)
	}
	return nil
}
