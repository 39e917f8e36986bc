package record

import (
	"math/big"

	"github.com/mediachain/mcrecord/internal/cborx"
	"github.com/mediachain/mcrecord/internal/mctype"
)

// referenceValue renders a Reference in its sole wire form:
// {"@link": <raw multihash bytes>} (spec.md §3, §6).
func referenceValue(ref Reference) cborx.Value {
	return cborx.Map([]cborx.MapEntry{
		{Key: cborx.Text("@link"), Value: cborx.Bytes(ref.Bytes())},
	})
}

// overlay builds the final CBOR map for a record: the raw metadata map
// first, then structural fields layered on top in the fixed precedence
// spec.md §4.5 describes (type tag, then required fields in table
// order, then optional fields if present). Structural keys always win
// on collision with a metadata key (spec.md §3 invariant).
//
// internal/cborx.Encode sorts map keys deterministically regardless of
// the order entries are supplied in, so this function does not need to
// presort — only to apply the overlay precedence.
func overlay(meta Metadata, structural ...cborx.MapEntry) cborx.Value {
	fields := make(map[string]cborx.Value, len(meta)+len(structural))
	for k, v := range meta {
		fields[k] = v
	}
	for _, e := range structural {
		key, _ := e.Key.AsText()
		fields[key] = e.Value
	}
	entries := make([]cborx.MapEntry, 0, len(fields))
	for k, v := range fields {
		entries = append(entries, cborx.MapEntry{Key: cborx.Text(k), Value: v})
	}
	return cborx.Map(entries)
}

func typeField(tag string) cborx.MapEntry {
	return cborx.MapEntry{Key: cborx.Text("type"), Value: cborx.Text(tag)}
}

func optionalRefField(key string, ref Reference) (cborx.MapEntry, bool) {
	if ref == nil {
		return cborx.MapEntry{}, false
	}
	return cborx.MapEntry{Key: cborx.Text(key), Value: referenceValue(ref)}, true
}

// ToCbor renders any record to its canonical CBOR map. Required fields
// absent (e.g. a nil Reference on a required field) is a programmer
// error, not a representable state — callers must only construct
// records with all required fields set.
func ToCbor(r Record) cborx.Value {
	switch v := r.(type) {
	case Entity:
		return overlay(v.Meta, typeField(mctype.TagEntity))
	case Artefact:
		return overlay(v.Meta, typeField(mctype.TagArtefact))

	case EntityChainCell:
		entries := []cborx.MapEntry{typeField(mctype.TagEntityChainCell), refField("entity", v.Entity)}
		if e, ok := optionalRefField("chain", v.Chain); ok {
			entries = append(entries, e)
		}
		return overlay(v.Meta, entries...)
	case EntityUpdateCell:
		entries := []cborx.MapEntry{typeField(mctype.TagEntityUpdateCell), refField("entity", v.Entity)}
		if e, ok := optionalRefField("chain", v.Chain); ok {
			entries = append(entries, e)
		}
		return overlay(v.Meta, entries...)
	case EntityLinkCell:
		entries := []cborx.MapEntry{
			typeField(mctype.TagEntityLinkCell),
			refField("entity", v.Entity),
			refField("entityLink", v.EntityLink),
		}
		if e, ok := optionalRefField("chain", v.Chain); ok {
			entries = append(entries, e)
		}
		return overlay(v.Meta, entries...)

	case ArtefactChainCell:
		entries := []cborx.MapEntry{typeField(mctype.TagArtefactChainCell), refField("artefact", v.Artefact)}
		if e, ok := optionalRefField("chain", v.Chain); ok {
			entries = append(entries, e)
		}
		return overlay(v.Meta, entries...)
	case ArtefactUpdateCell:
		entries := []cborx.MapEntry{typeField(mctype.TagArtefactUpdateCell), refField("artefact", v.Artefact)}
		if e, ok := optionalRefField("chain", v.Chain); ok {
			entries = append(entries, e)
		}
		return overlay(v.Meta, entries...)
	case ArtefactCreationCell:
		entries := []cborx.MapEntry{
			typeField(mctype.TagArtefactCreationCell),
			refField("artefact", v.Artefact),
			refField("entity", v.Entity),
		}
		if e, ok := optionalRefField("chain", v.Chain); ok {
			entries = append(entries, e)
		}
		return overlay(v.Meta, entries...)
	case ArtefactDerivationCell:
		entries := []cborx.MapEntry{
			typeField(mctype.TagArtefactDerivationCell),
			refField("artefact", v.Artefact),
			refField("artefactOrigin", v.ArtefactOrigin),
		}
		if e, ok := optionalRefField("chain", v.Chain); ok {
			entries = append(entries, e)
		}
		return overlay(v.Meta, entries...)
	case ArtefactOwnershipCell:
		entries := []cborx.MapEntry{
			typeField(mctype.TagArtefactOwnershipCell),
			refField("artefact", v.Artefact),
			refField("entity", v.Entity),
		}
		if e, ok := optionalRefField("chain", v.Chain); ok {
			entries = append(entries, e)
		}
		return overlay(v.Meta, entries...)
	case ArtefactReferenceCell:
		entries := []cborx.MapEntry{
			typeField(mctype.TagArtefactReferenceCell),
			refField("artefact", v.Artefact),
			refField("entity", v.Entity),
		}
		if e, ok := optionalRefField("chain", v.Chain); ok {
			entries = append(entries, e)
		}
		return overlay(v.Meta, entries...)

	case CanonicalEntry:
		entries := []cborx.MapEntry{
			typeField(mctype.TagCanonicalEntry),
			{Key: cborx.Text("index"), Value: indexValue(v.Index)},
			refField("ref", v.Ref),
		}
		return overlay(v.Meta, entries...)
	case ChainEntry:
		entries := []cborx.MapEntry{
			typeField(mctype.TagChainEntry),
			{Key: cborx.Text("index"), Value: indexValue(v.Index)},
			refField("ref", v.Ref),
			refField("chain", v.Chain),
		}
		if e, ok := optionalRefField("chainPrevious", v.ChainPrevious); ok {
			entries = append(entries, e)
		}
		return overlay(v.Meta, entries...)

	case JournalBlock:
		entries := []cborx.MapEntry{
			typeField(mctype.TagJournalBlock),
			{Key: cborx.Text("index"), Value: indexValue(v.Index)},
			{Key: cborx.Text("entries"), Value: journalEntriesValue(v.Entries)},
		}
		if e, ok := optionalRefField("chain", v.Chain); ok {
			entries = append(entries, e)
		}
		return overlay(v.Meta, entries...)
	}

	panic("record: ToCbor called with unrecognized record type")
}

// ToCborBytes is the canonical byte encoding of r: the system's
// content-address function operates on exactly these bytes.
func ToCborBytes(r Record) ([]byte, error) {
	return cborx.Encode(ToCbor(r))
}

func refField(key string, ref Reference) cborx.MapEntry {
	return cborx.MapEntry{Key: cborx.Text(key), Value: referenceValue(ref)}
}

func indexValue(index *big.Int) cborx.Value {
	return cborx.FromBigInt(index)
}

func journalEntriesValue(entries []JournalEntry) cborx.Value {
	values := make([]cborx.Value, len(entries))
	for i, e := range entries {
		values[i] = ToCbor(e)
	}
	return cborx.Array(values)
}
