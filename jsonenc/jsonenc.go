// Package jsonenc serializes container values as JSON. Mainly useful for
// debugging stores with external tools; msgpackenc and cborenc are more
// compact.
package jsonenc

import (
	"encoding/json"
	"fmt"
)

type Encoding struct{}

// New returns the JSON value encoding.
func New() Encoding {
	return Encoding{}
}

func (Encoding) EncodeValue(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T to JSON: %w", v, err)
	}
	return data, nil
}

func (Encoding) DecodeValue(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode JSON into %T: %w", v, err)
	}
	return nil
}
