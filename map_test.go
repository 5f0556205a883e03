package strata

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stratakv/strata/msgpackenc"
)

func TestMapOfItem(t *testing.T) {
	m := NewMap(StringKey, NewItem[uint64](msgpackenc.New()))
	s := newTestStorage()
	a := m.AccessMut(s)

	ensure(a.EntryMut("foo").Set(ptr(uint64(1))))
	ensure(a.EntryMut("bar").Set(ptr(uint64(2))))

	if got := must(a.Entry("foo").Get()); *got != 1 {
		t.Fatalf("Entry(foo).Get = %d, wanted 1", *got)
	}
	if got := must(a.Entry("bar").Get()); *got != 2 {
		t.Fatalf("Entry(bar).Get = %d, wanted 2", *got)
	}
	if got := must(a.Entry("baz").Get()); got != nil {
		t.Fatalf("Entry(baz).Get = %v, wanted nil", got)
	}

	a.EntryMut("foo").Remove()
	if a.Entry("foo").Has() {
		t.Fatalf("Has = true after Remove")
	}
}

func TestMapOfItemRawLayout(t *testing.T) {
	// A dynamic key over a terminal container consumes the whole key, no
	// length prefix.
	m := NewMap(StringKey, NewItem[uint64](msgpackenc.New()))
	s := newTestStorage()
	ensure(m.AccessMut(s).EntryMut("foo").Set(ptr(uint64(1))))

	if !s.Has([]byte("foo")) {
		t.Fatalf("backend key is not the bare map key")
	}
}

func TestMapIteration(t *testing.T) {
	m := NewMap(StringKey, NewItem[uint64](msgpackenc.New()))
	s := newTestStorage()
	a := m.AccessMut(s)

	ensure(a.EntryMut("foo").Set(ptr(uint64(1))))
	ensure(a.EntryMut("bar").Set(ptr(uint64(2))))

	var keys []string
	var vals []uint64
	for kv, err := range a.Pairs() {
		ensure(err)
		keys = append(keys, kv.Key.Key)
		vals = append(vals, kv.Value)
	}
	if len(keys) != 2 || keys[0] != "bar" || keys[1] != "foo" {
		t.Fatalf("keys = %v, wanted [bar foo]", keys)
	}
	if vals[0] != 2 || vals[1] != 1 {
		t.Fatalf("vals = %v, wanted [2 1]", vals)
	}

	keys = nil
	for k, err := range a.RevKeys() {
		ensure(err)
		keys = append(keys, k.Key)
	}
	if len(keys) != 2 || keys[0] != "foo" || keys[1] != "bar" {
		t.Fatalf("rev keys = %v, wanted [foo bar]", keys)
	}
}

func TestMapBoundedIteration(t *testing.T) {
	m := NewMap(StringKey, NewItem[uint64](msgpackenc.New()))
	if !m.SupportsBoundedIteration() {
		t.Fatalf("SupportsBoundedIteration = false for dynamic-terminal map")
	}
	s := newTestStorage()
	a := m.AccessMut(s)
	for i, k := range []string{"alpha", "beta", "gamma", "delta"} {
		ensure(a.EntryMut(k).Set(ptr(uint64(i))))
	}

	var keys []string
	for k, err := range a.BoundedKeys(KeyIncluded("beta"), KeyExcluded("gamma")) {
		ensure(err)
		keys = append(keys, k.Key)
	}
	if len(keys) != 2 || keys[0] != "beta" || keys[1] != "delta" {
		t.Fatalf("bounded keys = %v, wanted [beta delta]", keys)
	}
}

func TestMapOfMap(t *testing.T) {
	m := NewMap(StringKey, NewMap(StringKey, NewItem[uint64](msgpackenc.New())))
	s := newTestStorage()
	a := m.AccessMut(s)

	ensure(a.EntryMut("foo").EntryMut("bar").Set(ptr(uint64(1))))
	ensure(a.EntryMut("foo").EntryMut("baz").Set(ptr(uint64(2))))
	ensure(a.EntryMut("qux").EntryMut("bar").Set(ptr(uint64(3))))

	if got := must(a.Entry("foo").Entry("bar").Get()); *got != 1 {
		t.Fatalf("foo/bar = %d, wanted 1", *got)
	}
	if got := must(a.Entry("qux").Entry("bar").Get()); *got != 3 {
		t.Fatalf("qux/bar = %d, wanted 3", *got)
	}

	// Outer keys are length-prefixed, so foo's children stay disjoint from
	// a hypothetical "foob"/"ar" entry.
	ensure(a.EntryMut("foob").EntryMut("ar").Set(ptr(uint64(9))))
	var keys []string
	for k, err := range a.Entry("foo").Keys() {
		ensure(err)
		keys = append(keys, k.Key)
	}
	if len(keys) != 2 || keys[0] != "bar" || keys[1] != "baz" {
		t.Fatalf("foo children = %v, wanted [bar baz]", keys)
	}

	var pairs [][2]string
	for kv, err := range a.Pairs() {
		ensure(err)
		pairs = append(pairs, [2]string{kv.Key.Key, kv.Key.Sub.Key})
	}
	// Length-prefixed keys sort by length first, so "foob" lands after
	// "qux" despite the usual string order.
	want := [][2]string{{"foo", "bar"}, {"foo", "baz"}, {"qux", "bar"}, {"foob", "ar"}}
	if len(pairs) != len(want) {
		t.Fatalf("pairs = %v, wanted %v", pairs, want)
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Fatalf("pair %d = %v, wanted %v", i, pairs[i], want[i])
		}
	}
}

func TestMapOfMapRawLayout(t *testing.T) {
	m := NewMap(StringKey, NewMap(StringKey, NewItem[uint64](msgpackenc.New())))
	s := newTestStorage()
	ensure(m.AccessMut(s).EntryMut("foo").EntryMut("bar").Set(ptr(uint64(1))))

	want := append([]byte{3}, []byte("foobar")...)
	if !s.Has(want) {
		t.Fatalf("backend key %x missing, length prefix not applied", want)
	}
}

func TestMapDynamicNonTerminalForbidsBounds(t *testing.T) {
	m := NewMap(StringKey, NewMap(StringKey, NewItem[uint64](msgpackenc.New())))
	if m.SupportsBoundedIteration() {
		t.Fatalf("SupportsBoundedIteration = true for dynamic-nonterminal map")
	}

	s := newTestStorage()
	a := m.Access(s)
	defer func() {
		if recover() == nil {
			t.Fatalf("BoundedKeys did not panic")
		}
	}()
	a.BoundedKeys(KeyIncluded("a"), KeyExcluded("b"))
}

func TestMapFixedKeyOverNonTerminal(t *testing.T) {
	m := NewMap(Uint16Key, NewMap(StringKey, NewItem[uint64](msgpackenc.New())))
	if !m.SupportsBoundedIteration() {
		t.Fatalf("SupportsBoundedIteration = false for fixed-nonterminal map")
	}
	s := newTestStorage()
	a := m.AccessMut(s)

	ensure(a.EntryMut(1).EntryMut("x").Set(ptr(uint64(10))))
	ensure(a.EntryMut(2).EntryMut("y").Set(ptr(uint64(20))))
	ensure(a.EntryMut(3).EntryMut("z").Set(ptr(uint64(30))))

	var got []uint16
	for kv, err := range a.BoundedPairs(KeyIncluded[uint16](2), KeyUnbounded[uint16]()) {
		ensure(err)
		got = append(got, kv.Key.Key)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("bounded pairs = %v, wanted [2 3]", got)
	}
}

func TestMapOfColumn(t *testing.T) {
	m := NewMap(StringKey, NewColumn[string](msgpackenc.New()))
	s := newTestStorage()
	a := m.AccessMut(s)

	if id := must(a.EntryMut("logs").Push(ptr("first"))); id != 1 {
		t.Fatalf("Push = %d, wanted 1", id)
	}
	if id := must(a.EntryMut("logs").Push(ptr("second"))); id != 2 {
		t.Fatalf("Push = %d, wanted 2", id)
	}
	if id := must(a.EntryMut("audit").Push(ptr("other"))); id != 1 {
		t.Fatalf("Push in sibling = %d, wanted 1", id)
	}

	if n := must(a.Entry("logs").Len()); n != 2 {
		t.Fatalf("logs Len = %d, wanted 2", n)
	}
	if n := must(a.Entry("audit").Len()); n != 1 {
		t.Fatalf("audit Len = %d, wanted 1", n)
	}
	if got := must(a.Entry("logs").Get(2)); *got != "second" {
		t.Fatalf("logs Get(2) = %q, wanted second", *got)
	}
}

func TestMapKeyTooLongPanics(t *testing.T) {
	m := NewMap(StringKey, NewMap(StringKey, NewItem[uint64](msgpackenc.New())))
	s := newTestStorage()
	a := m.AccessMut(s)

	longest := strings.Repeat("x", 255)
	ensure(a.EntryMut(longest).EntryMut("k").Set(ptr(uint64(1))))
	if got := must(a.Entry(longest).Entry("k").Get()); *got != 1 {
		t.Fatalf("Get = %v, wanted 1", got)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("256-byte key did not panic")
		}
	}()
	a.EntryMut(strings.Repeat("x", 256))
}

func TestMapDecodeKey(t *testing.T) {
	m := NewMap(StringKey, NewMap(StringKey, NewItem[uint64](msgpackenc.New())))
	k := must(m.DecodeKey(append([]byte{3}, []byte("foobar")...)))
	if k.Key != "foo" || k.Sub.Key != "bar" {
		t.Fatalf("DecodeKey = %+v, wanted foo/bar", k)
	}

	if _, err := m.DecodeKey(nil); err == nil {
		t.Fatalf("DecodeKey(empty) succeeded, wanted error")
	}
	if _, err := m.DecodeKey([]byte{5, 'a'}); err == nil {
		t.Fatalf("DecodeKey(truncated) succeeded, wanted error")
	}

	fm := NewMap(Uint16Key, NewItem[uint64](msgpackenc.New()))
	fk := must(fm.DecodeKey([]byte{0x01, 0x02}))
	if fk.Key != 0x0102 {
		t.Fatalf("DecodeKey = %+v, wanted 0x0102", fk)
	}
	if _, err := fm.DecodeKey([]byte{0x01}); err == nil {
		t.Fatalf("DecodeKey(short fixed) succeeded, wanted error")
	}
}

func TestMapDecodeErrorsDoNotAbortIteration(t *testing.T) {
	m := NewMap(StringKey, NewItem[uint64](msgpackenc.New()))
	s := newTestStorage()
	a := m.AccessMut(s)

	ensure(a.EntryMut("good").Set(ptr(uint64(1))))
	s.Set([]byte("bad\xff"), []byte{0xC1}) // invalid UTF-8 key

	var goodKeys []string
	var errCount int
	for kv, err := range a.Pairs() {
		if err != nil {
			errCount++
			continue
		}
		goodKeys = append(goodKeys, kv.Key.Key)
	}
	if errCount != 1 {
		t.Fatalf("errCount = %d, wanted 1", errCount)
	}
	if len(goodKeys) != 1 || goodKeys[0] != "good" {
		t.Fatalf("goodKeys = %v, wanted [good]", goodKeys)
	}
}

func TestMapColumnMetaIsolation(t *testing.T) {
	// Column counters live in the metadata partition and must not surface
	// as map entries.
	m := NewMap(StringKey, NewColumn[string](msgpackenc.New()))
	s := newTestStorage()
	a := m.AccessMut(s)

	must(a.EntryMut("logs").Push(ptr("first")))

	var count int
	for _, err := range a.Pairs() {
		ensure(err)
		count++
	}
	if count != 1 {
		t.Fatalf("pairs = %d, wanted 1", count)
	}

	raw := concat([]byte{4}, []byte("logs"), Uint32Key.EncodeKey(1))
	if !s.Has(raw) {
		t.Fatalf("expected raw key %x", raw)
	}
	if !bytes.Equal(s.GetMeta(concat([]byte{4}, []byte("logs"), colMetaLastID)), putBE(1, 4)) {
		t.Fatalf("last-id counter not in meta partition")
	}
}
