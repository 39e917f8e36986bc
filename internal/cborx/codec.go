package cborx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"reflect"
	"sort"

	"github.com/fxamacker/cbor/v2"
)

// selfDescribeTag is RFC 8949's self-describe CBOR tag. The decoder
// tolerates it prefixing a top-level value; the encoder never emits it.
const selfDescribeTag = 55799

var (
	encMode = func() cbor.EncMode {
		mode, err := cbor.EncOptions{
			Sort:          cbor.SortBytewiseLexical,
			ShortestFloat: cbor.ShortestFloat16,
			IndefLength:   cbor.IndefLengthForbidden,
			TimeTag:       cbor.EncTagNone,
		}.EncMode()
		if err != nil {
			panic(fmt.Sprintf("cborx: building encode mode: %v", err))
		}
		return mode
	}()

	decMode = func() cbor.DecMode {
		mode, err := cbor.DecOptions{
			DefaultMapType:  reflect.TypeOf(map[string]interface{}(nil)),
			DupMapKey:       cbor.DupMapKeyEnforcedAPF,
			IndefLength:     cbor.IndefLengthAllowed,
			TagsMd:          cbor.TagsAllowed,
			IntDec:          cbor.IntDecConvertNone,
			MaxNestedLevels: 64,
		}.DecMode()
		if err != nil {
			panic(fmt.Sprintf("cborx: building decode mode: %v", err))
		}
		return mode
	}()
)

// ErrTruncated is returned when the input ends before a complete CBOR
// item could be read.
var ErrTruncated = errors.New("cborx: truncated CBOR input")

// ErrMalformed is returned when the input bytes are not well-formed CBOR.
var ErrMalformed = errors.New("cborx: malformed CBOR input")

// Encode renders v to its deterministic CBOR byte encoding: map keys in
// bytewise lexicographic order, shortest-form integers, definite-length
// maps/arrays/strings. Encoding a Value built by this package's
// constructors never fails.
func Encode(v Value) ([]byte, error) {
	native := toNative(v)
	b, err := encMode.Marshal(native)
	if err != nil {
		return nil, fmt.Errorf("cborx: encode: %w", err)
	}
	return b, nil
}

// Decode reads a sequence of top-level CBOR items from data. A leading
// self-describe tag is not stripped here: Decode returns tags as Values
// of KindTag, and callers unwrap it with UnwrapSelfDescribe. An empty or
// malformed stream returns ErrMalformed/ErrTruncated.
func Decode(data []byte) ([]Value, error) {
	if len(data) == 0 {
		return nil, ErrMalformed
	}

	r := bytes.NewReader(data)
	dec := decMode.NewDecoder(r)

	var values []Value
	for {
		var raw interface{}
		err := dec.Decode(&raw)
		if err != nil {
			if err == io.EOF {
				break
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, ErrTruncated
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		values = append(values, fromNative(raw))
	}

	if len(values) == 0 {
		return nil, ErrMalformed
	}
	return values, nil
}

// toNative converts a Value tree into the plain Go types that
// github.com/fxamacker/cbor/v2 knows how to marshal deterministically.
func toNative(v Value) interface{} {
	switch v.Kind {
	case KindUint:
		return v.Uint
	case KindNegInt:
		return v.NegInt
	case KindBytes:
		return v.Bytes
	case KindText:
		return v.Text
	case KindArray:
		out := make([]interface{}, len(v.Array))
		for i, e := range v.Array {
			out[i] = toNative(e)
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.Map))
		for _, e := range v.Map {
			key, ok := e.Key.AsText()
			if !ok {
				// Non-text keys never occur in records this system
				// produces; fall back to a best-effort string form
				// rather than silently dropping the entry.
				key = fmt.Sprintf("%v", toNative(e.Key))
			}
			out[key] = toNative(e.Value)
		}
		return out
	case KindTag:
		return cbor.Tag{Number: v.Tag.Number, Content: toNative(v.Tag.Content)}
	case KindBool:
		return v.Bool
	case KindNull:
		return nil
	case KindFloat:
		return v.Float
	default:
		return nil
	}
}

// fromNative converts the interface{} produced by decMode back into a Value.
func fromNative(raw interface{}) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(x)
	case uint64:
		return Uint(x)
	case int64:
		return Int(x)
	case []byte:
		return Bytes(x)
	case string:
		return Text(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case []interface{}:
		elems := make([]Value, len(x))
		for i, e := range x {
			elems[i] = fromNative(e)
		}
		return Array(elems)
	case map[string]interface{}:
		entries := make([]MapEntry, 0, len(x))
		for k, val := range x {
			entries = append(entries, MapEntry{Key: Text(k), Value: fromNative(val)})
		}
		// A Go map does not keep the wire order, so entries are returned
		// in the order Encode emits text keys: shorter first, then bytewise.
		sort.Slice(entries, func(i, j int) bool {
			a, b := entries[i].Key.Text, entries[j].Key.Text
			if len(a) != len(b) {
				return len(a) < len(b)
			}
			return a < b
		})
		return Map(entries)
	case map[interface{}]interface{}:
		entries := make([]MapEntry, 0, len(x))
		for k, val := range x {
			entries = append(entries, MapEntry{Key: fromNative(k), Value: fromNative(val)})
		}
		return Map(entries)
	case cbor.Tag:
		return Tag(x.Number, fromNative(x.Content))
	case big.Int:
		// Bignum tags 2/3 (and negative integers below int64) arrive as
		// big.Int; FromBigInt gives them the same form the encoder uses.
		return FromBigInt(&x)
	case *big.Int:
		return FromBigInt(x)
	default:
		// Any other library type (for example a time value for tags 0
		// and 1) falls back to its string form.
		return Value{Kind: KindText, Text: fmt.Sprintf("%v", x)}
	}
}

// UnwrapSelfDescribe strips a top-level self-describe tag (55799) from v,
// returning its wrapped content. Any other tag, or a non-tag value, is
// returned unchanged.
func UnwrapSelfDescribe(v Value) Value {
	if v.Kind == KindTag && v.Tag.Number == selfDescribeTag {
		return v.Tag.Content
	}
	return v
}
