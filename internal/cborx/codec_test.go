package cborx

import (
	"bytes"
	"testing"
)

func TestEncodeKeyOrdering(t *testing.T) {
	v := Map([]MapEntry{
		{Key: Text("zebra"), Value: Uint(1)},
		{Key: Text("apple"), Value: Uint(2)},
		{Key: Text("mango"), Value: Uint(3)},
	})
	b, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	entries, ok := decoded[0].AsMap()
	if !ok {
		t.Fatalf("expected a map, got kind %v", decoded[0].Kind)
	}

	want := []string{"apple", "mango", "zebra"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		got, ok := entries[i].Key.AsText()
		if !ok || got != w {
			t.Errorf("entry %d: got key %q, want %q", i, got, w)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	build := func() Value {
		return Map([]MapEntry{
			{Key: Text("b"), Value: Text("2")},
			{Key: Text("a"), Value: Text("1")},
		})
	}
	b1, err := Encode(build())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b2, err := Encode(build())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(b1, b2) {
		t.Fatalf("encoding not deterministic: %x != %x", b1, b2)
	}

	// Equal-by-value maps built with a different field order must still
	// produce byte-identical output.
	reordered := Map([]MapEntry{
		{Key: Text("a"), Value: Text("1")},
		{Key: Text("b"), Value: Text("2")},
	})
	b3, err := Encode(reordered)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(b1, b3) {
		t.Fatalf("encoding depends on caller-supplied key order: %x != %x", b1, b3)
	}
}

func TestDecodeEmptyIsMalformed(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Fatal("expected an error decoding empty input")
	}
}

func TestDecodeTruncated(t *testing.T) {
	full, err := Encode(Map([]MapEntry{{Key: Text("k"), Value: Text("value")}}))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, err = Decode(full[:len(full)-2])
	if err == nil {
		t.Fatal("expected an error decoding truncated input")
	}
}

func TestUnwrapSelfDescribe(t *testing.T) {
	inner := Text("hello")
	tagged := Tag(55799, inner)
	got := UnwrapSelfDescribe(tagged)
	if got.Kind != KindText || got.Text != "hello" {
		t.Fatalf("UnwrapSelfDescribe did not unwrap: %+v", got)
	}

	other := Tag(42, inner)
	got = UnwrapSelfDescribe(other)
	if got.Kind != KindTag || got.Tag.Number != 42 {
		t.Fatalf("UnwrapSelfDescribe touched a non-self-describe tag: %+v", got)
	}
}

func TestRoundTripPrimitives(t *testing.T) {
	values := []Value{
		Uint(0), Uint(23), Uint(1000000),
		NegInt(-1), NegInt(-1000),
		Bytes([]byte{0x01, 0x02, 0x03}),
		Text("mediachain"),
		Bool(true), Bool(false),
		Null(),
		Array([]Value{Uint(1), Text("a"), Bool(true)}),
	}
	for _, v := range values {
		b, err := Encode(v)
		if err != nil {
			t.Fatalf("Encode(%+v): %v", v, err)
		}
		decoded, err := Decode(b)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if len(decoded) != 1 {
			t.Fatalf("expected 1 top-level value, got %d", len(decoded))
		}
	}
}

func TestConcatenatedTopLevelValues(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []Value{Uint(1), Text("two"), Bool(true)} {
		b, err := Encode(v)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		buf.Write(b)
	}

	values, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("got %d top-level values, want 3", len(values))
	}
}
