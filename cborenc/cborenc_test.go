package cborenc

import "testing"

type payload struct {
	Name  string `cbor:"n"`
	Count int    `cbor:"c"`
}

func TestRoundTrip(t *testing.T) {
	enc := MustNew()
	data, err := enc.EncodeValue(&payload{Name: "x", Count: 3})
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	var got payload
	if err := enc.DecodeValue(data, &got); err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if got.Name != "x" || got.Count != 3 {
		t.Fatalf("got %+v", got)
	}
}

func TestCanonicalMaps(t *testing.T) {
	enc := MustNew()
	m := map[string]int{"a": 1, "b": 2, "c": 3}
	first, err := enc.EncodeValue(m)
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	again, err := enc.EncodeValue(m)
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	if string(again) != string(first) {
		t.Fatalf("encoding is not canonical: %x vs %x", again, first)
	}
}

func TestDecodeError(t *testing.T) {
	var got payload
	if err := MustNew().DecodeValue([]byte{0xFF}, &got); err == nil {
		t.Fatalf("DecodeValue(garbage) succeeded")
	}
}
