package mcverify

import (
	"math/big"
	"testing"

	"github.com/mediachain/mcrecord/internal/mhash"
	"github.com/mediachain/mcrecord/internal/record"
)

func TestRunDecodesValidBlock(t *testing.T) {
	block := record.JournalBlock{
		Index: big.NewInt(1),
		Entries: []record.JournalEntry{
			record.CanonicalEntry{
				Index: big.NewInt(1),
				Ref:   mhash.ReferenceForBytes([]byte("entity-1")),
				Meta:  record.Metadata{},
			},
		},
		Meta: record.Metadata{},
	}
	data, err := record.ToCborBytes(block)
	if err != nil {
		t.Fatalf("ToCborBytes: %v", err)
	}

	summary, err := Run(data, Options{Preset: record.DefaultPreset()}, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.BlocksDecoded != 1 {
		t.Errorf("BlocksDecoded = %d, want 1", summary.BlocksDecoded)
	}
	if summary.Errors != 0 {
		t.Errorf("Errors = %d, want 0", summary.Errors)
	}
}

func TestRunPropagatesFirstErrorByDefault(t *testing.T) {
	malformed := []byte{0xA0} // empty map: TypeNameNotFound

	summary, err := Run(malformed, Options{Preset: record.DefaultPreset()}, nil, nil)
	if err == nil {
		t.Fatal("expected the first decode error to propagate")
	}
	if summary.Errors != 1 {
		t.Errorf("Errors = %d, want 1", summary.Errors)
	}
}

func TestRunTolerantContinuesPastErrors(t *testing.T) {
	good := record.CanonicalEntry{
		Index: big.NewInt(1),
		Ref:   mhash.ReferenceForBytes([]byte("ref")),
		Meta:  record.Metadata{},
	}
	goodBytes, err := record.ToCborBytes(good)
	if err != nil {
		t.Fatalf("ToCborBytes: %v", err)
	}

	var data []byte
	data = append(data, []byte{0xA0}...) // malformed: TypeNameNotFound
	data = append(data, goodBytes...)

	summary, err := Run(data, Options{Preset: record.DefaultPreset(), Tolerant: true}, nil, nil)
	if err != nil {
		t.Fatalf("tolerant Run should not return an error: %v", err)
	}
	if summary.Errors != 1 {
		t.Errorf("Errors = %d, want 1", summary.Errors)
	}
	if summary.RecordsDecoded != 1 {
		t.Errorf("RecordsDecoded = %d, want 1", summary.RecordsDecoded)
	}
}
