package msgpackenc

import "testing"

type payload struct {
	Name  string `msgpack:"n"`
	Count int    `msgpack:"c"`
}

func TestRoundTrip(t *testing.T) {
	enc := New()
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

func TestDeterministicMaps(t *testing.T) {
	enc := New()
	m := map[string]int{"a": 1, "b": 2, "c": 3, "d": 4}
	first, err := enc.EncodeValue(m)
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := enc.EncodeValue(m)
		if err != nil {
			t.Fatalf("EncodeValue: %v", err)
		}
		if string(again) != string(first) {
			t.Fatalf("encoding is not deterministic: %x vs %x", again, first)
		}
	}
}

func TestDecodeError(t *testing.T) {
	var got payload
	if err := New().DecodeValue([]byte{0xC1}, &got); err == nil {
		t.Fatalf("DecodeValue(garbage) succeeded")
	}
}
