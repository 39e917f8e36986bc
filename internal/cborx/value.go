// Package cborx provides a minimal CBOR value model and a deterministic
// codec on top of github.com/fxamacker/cbor/v2. It exists so the record
// layer (internal/record) has a stable, content-address-safe wire
// representation to target instead of depending on Go struct tags.
package cborx

// Kind discriminates the variants of a CBOR value this system produces
// or consumes. The record layer never needs the full generality of CBOR
// (no indefinite-length items, no simple values beyond bool/null), so
// this set is intentionally narrow.
type Kind int

const (
	KindUint Kind = iota
	KindNegInt
	KindBytes
	KindText
	KindArray
	KindMap
	KindTag
	KindBool
	KindNull
	KindFloat
)

// MapEntry is one key/value pair of a CBOR map. Key is itself a Value
// because CBOR maps are not restricted to text-string keys, though the
// record layer (per spec) only ever uses text-string keys.
type MapEntry struct {
	Key   Value
	Value Value
}

// Value is a tagged union over the CBOR major types this system uses.
// Exactly one of the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind Kind

	Uint   uint64
	NegInt int64 // stored as the Go negative value, e.g. CBOR -5 is NegInt: -5
	Bytes  []byte
	Text   string
	Array  []Value
	Map    []MapEntry
	Tag    *TagValue
	Bool   bool
	Float  float64
}

// TagValue is a CBOR tag number wrapping a content value (major type 6).
type TagValue struct {
	Number  uint64
	Content Value
}

func Uint(v uint64) Value  { return Value{Kind: KindUint, Uint: v} }
func NegInt(v int64) Value { return Value{Kind: KindNegInt, NegInt: v} }
func Bytes(v []byte) Value { return Value{Kind: KindBytes, Bytes: v} }
func Text(v string) Value  { return Value{Kind: KindText, Text: v} }
func Array(v []Value) Value {
	return Value{Kind: KindArray, Array: v}
}
func Map(entries []MapEntry) Value { return Value{Kind: KindMap, Map: entries} }
func Tag(number uint64, content Value) Value {
	return Value{Kind: KindTag, Tag: &TagValue{Number: number, Content: content}}
}
func Bool(v bool) Value  { return Value{Kind: KindBool, Bool: v} }
func Null() Value        { return Value{Kind: KindNull} }
func Float(v float64) Value { return Value{Kind: KindFloat, Float: v} }

// Int builds the shortest-appropriate Value for a signed integer.
func Int(v int64) Value {
	if v < 0 {
		return NegInt(v)
	}
	return Uint(uint64(v))
}

// IsNull reports whether v is the CBOR null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsText returns the text string content of v and whether v is a text value.
func (v Value) AsText() (string, bool) {
	if v.Kind == KindText {
		return v.Text, true
	}
	return "", false
}

// AsBytes returns the byte-string content of v and whether v is a byte value.
func (v Value) AsBytes() ([]byte, bool) {
	if v.Kind == KindBytes {
		return v.Bytes, true
	}
	return nil, false
}

// AsMap returns the map entries of v and whether v is a map value.
func (v Value) AsMap() ([]MapEntry, bool) {
	if v.Kind == KindMap {
		return v.Map, true
	}
	return nil, false
}

// AsArray returns the array elements of v and whether v is an array value.
func (v Value) AsArray() ([]Value, bool) {
	if v.Kind == KindArray {
		return v.Array, true
	}
	return nil, false
}

// Get returns the value stored under a text key in a CBOR map, if present.
func (v Value) Get(key string) (Value, bool) {
	entries, ok := v.AsMap()
	if !ok {
		return Value{}, false
	}
	for _, e := range entries {
		if t, ok := e.Key.AsText(); ok && t == key {
			return e.Value, true
		}
	}
	return Value{}, false
}
