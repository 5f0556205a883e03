package strata

import (
	"testing"

	"github.com/stratakv/strata/msgpackenc"
)

func newTestStorage() StorageMut {
	return NewStorage(NewMemBackend())
}

func TestItemGetSet(t *testing.T) {
	item := NewItem[uint64](msgpackenc.New())
	s := newTestStorage()
	a := item.AccessMut(s)

	if v := must(a.Get()); v != nil {
		t.Fatalf("Get on empty = %v, wanted nil", v)
	}
	if a.Has() {
		t.Fatalf("Has on empty = true")
	}
	if got := must(a.GetOr(42)); got != 42 {
		t.Fatalf("GetOr = %d, wanted 42", got)
	}

	v := uint64(7)
	ensure(a.Set(&v))
	if got := must(a.Get()); got == nil || *got != 7 {
		t.Fatalf("Get = %v, wanted 7", got)
	}
	if !a.Has() {
		t.Fatalf("Has = false after Set")
	}
	if got := must(a.GetOr(42)); got != 7 {
		t.Fatalf("GetOr = %d, wanted 7", got)
	}

	a.Remove()
	if a.Has() {
		t.Fatalf("Has = true after Remove")
	}
}

func TestItemUpdate(t *testing.T) {
	item := NewItem[uint64](msgpackenc.New())
	s := newTestStorage()
	a := item.AccessMut(s)

	ensure(a.Update(func(v *uint64) *uint64 {
		if v != nil {
			t.Fatalf("Update callback got %v, wanted nil", v)
		}
		n := uint64(1)
		return &n
	}))
	ensure(a.Update(func(v *uint64) *uint64 {
		n := *v + 1
		return &n
	}))
	if got := must(a.Get()); *got != 2 {
		t.Fatalf("Get = %d, wanted 2", *got)
	}

	ensure(a.Update(func(v *uint64) *uint64 { return nil }))
	if a.Has() {
		t.Fatalf("Has = true after removing Update")
	}
}

func TestItemReadOnlyAccess(t *testing.T) {
	item := NewItem[string](msgpackenc.New())
	s := newTestStorage()

	v := "hello"
	ensure(item.AccessMut(s).Set(&v))

	r := item.Access(s)
	if got := must(r.Get()); got == nil || *got != "hello" {
		t.Fatalf("Get = %v, wanted hello", got)
	}
}

func TestItemKind(t *testing.T) {
	item := NewItem[uint64](msgpackenc.New())
	if item.Kind() != Terminal {
		t.Fatalf("Kind = %v, wanted Terminal", item.Kind())
	}
	if _, err := item.DecodeKey([]byte{1}); err == nil {
		t.Fatalf("DecodeKey(non-empty) succeeded, wanted error")
	}
	if _, err := item.DecodeKey(nil); err != nil {
		t.Fatalf("DecodeKey(empty) = %v", err)
	}
}
