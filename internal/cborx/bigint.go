package cborx

import "math/big"

// Bignum tag numbers from RFC 8949 §3.4.3.
const (
	tagPositiveBignum = 2
	tagNegativeBignum = 3
)

var (
	maxInt64  = big.NewInt(0).SetInt64(1<<63 - 1)
	maxUint64 = new(big.Int).SetUint64(^uint64(0))
)

// FromBigInt renders an arbitrary-precision integer as a Value: a plain
// Uint/NegInt when it fits in 64 bits, otherwise a CBOR bignum (tag 2
// for non-negative, tag 3 for negative, per RFC 8949 §3.4.3) wrapping
// the big-endian magnitude. This is how journal indices (spec.md §3,
// "index fits an arbitrary-precision integer") stay representable even
// once they outgrow int64.
func FromBigInt(v *big.Int) Value {
	if v.Sign() >= 0 && v.Cmp(maxUint64) <= 0 {
		return Uint(v.Uint64())
	}
	if v.Sign() < 0 && v.IsInt64() {
		return NegInt(v.Int64())
	}
	if v.Sign() >= 0 {
		return Tag(tagPositiveBignum, Bytes(v.Bytes()))
	}
	mag := new(big.Int).Neg(v)
	// CBOR negative bignum N encodes -1-N as an unsigned bignum.
	mag.Sub(mag, big.NewInt(1))
	return Tag(tagNegativeBignum, Bytes(mag.Bytes()))
}

// ToBigInt recovers the integer FromBigInt encoded, accepting both the
// plain-integer and bignum-tag forms.
func ToBigInt(v Value) (*big.Int, bool) {
	switch v.Kind {
	case KindUint:
		return new(big.Int).SetUint64(v.Uint), true
	case KindNegInt:
		return big.NewInt(v.NegInt), true
	case KindTag:
		b, ok := v.Tag.Content.AsBytes()
		if !ok {
			return nil, false
		}
		mag := new(big.Int).SetBytes(b)
		switch v.Tag.Number {
		case tagPositiveBignum:
			return mag, true
		case tagNegativeBignum:
			return new(big.Int).Neg(mag.Add(mag, big.NewInt(1))), true
		default:
			return nil, false
		}
	default:
		return nil, false
	}
}
