package record

import (
	"errors"
	"testing"

	"github.com/mediachain/mcrecord/internal/cborx"
	"github.com/mediachain/mcrecord/internal/mctype"
	"github.com/mediachain/mcrecord/internal/mhash"
)

func refValue(t *testing.T, seed string) cborx.Value {
	t.Helper()
	return cborx.Map([]cborx.MapEntry{
		{Key: cborx.Text("@link"), Value: cborx.Bytes(mhash.ReferenceForBytes([]byte(seed)).Bytes())},
	})
}

// S5: construct {"type":"artefactCreatedBy","artefact":{...},
// "chain":{...},"entity":{...}}; transactor preset -> ArtefactChainCell
// (not ArtefactCreationCell); datastore preset -> ArtefactCreationCell
// with entity populated.
func TestS5SubtypeCollapseUnderTransactorPreset(t *testing.T) {
	m := cborx.Map([]cborx.MapEntry{
		{Key: cborx.Text("type"), Value: cborx.Text(mctype.TagArtefactCreationCell)},
		{Key: cborx.Text("artefact"), Value: refValue(t, "artefact")},
		{Key: cborx.Text("chain"), Value: refValue(t, "chain")},
		{Key: cborx.Text("entity"), Value: refValue(t, "entity")},
	})

	under, err := FromCbor(m, NewTransactorPreset())
	if err != nil {
		t.Fatalf("transactor preset: %v", err)
	}
	generic, ok := under.(ArtefactChainCell)
	if !ok {
		t.Fatalf("transactor preset decoded as %T, want ArtefactChainCell", under)
	}
	if !generic.Artefact.Equal(mhash.ReferenceForBytes([]byte("artefact"))) {
		t.Errorf("generic.Artefact mismatch")
	}
	if generic.Chain == nil || !generic.Chain.Equal(mhash.ReferenceForBytes([]byte("chain"))) {
		t.Errorf("generic.Chain mismatch")
	}

	specific, err := FromCbor(m, NewDatastorePreset())
	if err != nil {
		t.Fatalf("datastore preset: %v", err)
	}
	creation, ok := specific.(ArtefactCreationCell)
	if !ok {
		t.Fatalf("datastore preset decoded as %T, want ArtefactCreationCell", specific)
	}
	if !creation.Entity.Equal(mhash.ReferenceForBytes([]byte("entity"))) {
		t.Errorf("creation.Entity mismatch")
	}
}

// S6: decoding the single CBOR byte sequence 0xA0 (empty map) ->
// TypeNameNotFound.
func TestS6EmptyMapIsTypeNameNotFound(t *testing.T) {
	_, err := FromCborBytes([]byte{0xA0}, DefaultPreset())
	if err == nil {
		t.Fatal("expected an error")
	}
	var recErr *Error
	if !errors.As(err, &recErr) {
		t.Fatalf("error is %T, want *record.Error", err)
	}
	if recErr.Kind != KindTypeNameNotFound {
		t.Errorf("error kind = %v, want TypeNameNotFound", recErr.Kind)
	}
}

// Property 6: decoding a map with type="artefact" via the entity decoder
// directly (decodeEntity) yields UnexpectedObjectType("entity").
func TestStrictTypeCheckAtDirectDecoder(t *testing.T) {
	m := cborx.Map([]cborx.MapEntry{
		{Key: cborx.Text("type"), Value: cborx.Text(mctype.TagArtefact)},
	})
	_, err := decodeEntity(m)
	var recErr *Error
	if !errors.As(err, &recErr) {
		t.Fatalf("error is %T, want *record.Error", err)
	}
	if recErr.Kind != KindUnexpectedObjectType {
		t.Errorf("kind = %v, want UnexpectedObjectType", recErr.Kind)
	}
	if recErr.Subject != mctype.TagEntity {
		t.Errorf("subject = %q, want %q", recErr.Subject, mctype.TagEntity)
	}
}

// Property 7: any reference-shaped value whose @link is not a valid
// multihash yields ReferenceDecodingFailed when required.
func TestRequiredReferenceStrictness(t *testing.T) {
	badRef := cborx.Map([]cborx.MapEntry{
		{Key: cborx.Text("@link"), Value: cborx.Bytes([]byte{0xff})},
	})
	m := cborx.Map([]cborx.MapEntry{
		{Key: cborx.Text("type"), Value: cborx.Text(mctype.TagArtefactChainCell)},
		{Key: cborx.Text("artefact"), Value: badRef},
	})
	_, err := FromCbor(m, DefaultPreset())
	var recErr *Error
	if !errors.As(err, &recErr) {
		t.Fatalf("error is %T, want *record.Error", err)
	}
	if recErr.Kind != KindReferenceDecodingFailed {
		t.Errorf("kind = %v, want ReferenceDecodingFailed", recErr.Kind)
	}
}

// Property 8: an optional reference field whose value is a malformed
// reference map decodes to absent rather than an error.
func TestOptionalReferenceLeniency(t *testing.T) {
	badRef := cborx.Map([]cborx.MapEntry{
		{Key: cborx.Text("@link"), Value: cborx.Bytes([]byte{0xff})},
	})
	m := cborx.Map([]cborx.MapEntry{
		{Key: cborx.Text("type"), Value: cborx.Text(mctype.TagArtefactChainCell)},
		{Key: cborx.Text("artefact"), Value: refValue(t, "ok")},
		{Key: cborx.Text("chain"), Value: badRef},
	})
	decoded, err := FromCbor(m, DefaultPreset())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cell, ok := decoded.(ArtefactChainCell)
	if !ok {
		t.Fatalf("decoded as %T", decoded)
	}
	if cell.Chain != nil {
		t.Errorf("malformed optional chain should decode to absent, got %+v", cell.Chain)
	}
}

// Property 9: removing any required field from an otherwise valid map
// yields RequiredFieldNotFound(fieldName).
func TestRequiredFieldAbsence(t *testing.T) {
	m := cborx.Map([]cborx.MapEntry{
		{Key: cborx.Text("type"), Value: cborx.Text(mctype.TagArtefactChainCell)},
	})
	_, err := FromCbor(m, DefaultPreset())
	var recErr *Error
	if !errors.As(err, &recErr) {
		t.Fatalf("error is %T, want *record.Error", err)
	}
	if recErr.Kind != KindRequiredFieldNotFound {
		t.Errorf("kind = %v, want RequiredFieldNotFound", recErr.Kind)
	}
	if recErr.Field != "artefact" {
		t.Errorf("field = %q, want %q", recErr.Field, "artefact")
	}
}

// The §9 open-question quirk: non-map elements of a JournalBlock's
// entries array are silently dropped under the default (lenient)
// decoder, but rejected under the strict variant.
func TestJournalBlockNonMapEntrySkippedByDefault(t *testing.T) {
	m := cborx.Map([]cborx.MapEntry{
		{Key: cborx.Text("type"), Value: cborx.Text(mctype.TagJournalBlock)},
		{Key: cborx.Text("index"), Value: cborx.Uint(1)},
		{Key: cborx.Text("entries"), Value: cborx.Array([]cborx.Value{
			cborx.Text("not a map"),
			cborx.Map([]cborx.MapEntry{
				{Key: cborx.Text("type"), Value: cborx.Text(mctype.TagCanonicalEntry)},
				{Key: cborx.Text("index"), Value: cborx.Uint(1)},
				{Key: cborx.Text("ref"), Value: refValue(t, "entry")},
			}),
		})},
	})

	decoded, err := FromCbor(m, DefaultPreset())
	if err != nil {
		t.Fatalf("lenient decode failed: %v", err)
	}
	block := decoded.(JournalBlock)
	if len(block.Entries) != 1 {
		t.Fatalf("got %d entries, want 1 (non-map element should be skipped)", len(block.Entries))
	}

	_, err = FromCbor(m, NewDatastorePresetStrict())
	if err == nil {
		t.Fatal("strict preset should reject a non-map array element")
	}
}

// An unknown type tag is rejected by both presets — the registry is closed.
func TestUnknownTypeTagRejected(t *testing.T) {
	m := cborx.Map([]cborx.MapEntry{
		{Key: cborx.Text("type"), Value: cborx.Text("notARealType")},
	})
	_, err := FromCbor(m, DefaultPreset())
	var recErr *Error
	if !errors.As(err, &recErr) || recErr.Kind != KindUnexpectedObjectType {
		t.Fatalf("got %v, want UnexpectedObjectType", err)
	}
}

func TestFromCborRejectsNonMap(t *testing.T) {
	_, err := FromCbor(cborx.Text("not a map"), DefaultPreset())
	var recErr *Error
	if !errors.As(err, &recErr) || recErr.Kind != KindUnexpectedCborType {
		t.Fatalf("got %v, want UnexpectedCborType", err)
	}
}
