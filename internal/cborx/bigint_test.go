package cborx

import (
	"math/big"
	"testing"
)

func TestFromBigIntRoundTrip(t *testing.T) {
	cases := []string{
		"0", "1", "23", "-1", "-1000",
		"18446744073709551615",                    // max uint64
		"-9223372036854775808",                     // min int64
		"340282366920938463463374607431768211456",  // 2^128, exceeds uint64
		"-340282366920938463463374607431768211456", // negative, exceeds int64
	}
	for _, c := range cases {
		n, ok := new(big.Int).SetString(c, 10)
		if !ok {
			t.Fatalf("bad test fixture %q", c)
		}
		v := FromBigInt(n)
		got, ok := ToBigInt(v)
		if !ok {
			t.Fatalf("ToBigInt(%q) failed to decode", c)
		}
		if got.Cmp(n) != 0 {
			t.Errorf("round trip mismatch for %q: got %s", c, got.String())
		}
	}
}

func TestFromBigIntShortestForm(t *testing.T) {
	small := FromBigInt(big.NewInt(42))
	if small.Kind != KindUint {
		t.Errorf("small positive int should encode as plain Uint, got kind %v", small.Kind)
	}

	big1 := new(big.Int)
	big1.SetString("340282366920938463463374607431768211456", 10)
	v := FromBigInt(big1)
	if v.Kind != KindTag {
		t.Errorf("huge int should encode as a bignum tag, got kind %v", v.Kind)
	}
}
