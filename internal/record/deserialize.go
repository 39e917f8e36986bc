package record

import (
	"math/big"

	"github.com/mediachain/mcrecord/internal/cborx"
	"github.com/mediachain/mcrecord/internal/mctype"
	"github.com/mediachain/mcrecord/internal/mhash"
)

// VariantDecoder decodes a CBOR map already known to carry one of a
// decoder's accepted type tags into a concrete Record. Each decoder
// re-validates the tag itself (spec.md §4.6 step 5) so it can be
// invoked directly (bypassing dispatch) and still fail correctly —
// this is what testable property 6 (the strict type check) exercises.
type VariantDecoder func(m cborx.Value) (Record, error)

// DeserializerMap is a request-scoped policy mapping each type tag to
// the decoder invoked for that tag. It is built once and never mutated
// (spec.md §5): safe to share across goroutines.
type DeserializerMap map[string]VariantDecoder

// toRawMeta captures every top-level field of a decoded CBOR map,
// structural keys included, as the record's raw Metadata (spec.md §4.4).
func toRawMeta(m cborx.Value) Metadata {
	entries, _ := m.AsMap()
	out := make(Metadata, len(entries))
	for _, e := range entries {
		if key, ok := e.Key.AsText(); ok {
			out[key] = e.Value
		}
	}
	return out
}

func getRequired(m cborx.Value, key string) (cborx.Value, *Error) {
	v, ok := m.Get(key)
	if !ok {
		return cborx.Value{}, newRequiredFieldNotFound(key)
	}
	return v, nil
}

func getRequiredText(m cborx.Value, key string) (string, *Error) {
	v, err := getRequired(m, key)
	if err != nil {
		return "", err
	}
	t, ok := v.AsText()
	if !ok {
		return "", newUnexpectedCborType(key, "expected text string")
	}
	return t, nil
}

func getRequiredIndex(m cborx.Value, key string) (*big.Int, *Error) {
	v, err := getRequired(m, key)
	if err != nil {
		return nil, err
	}
	n, ok := cborx.ToBigInt(v)
	if !ok {
		return nil, newUnexpectedCborType(key, "expected integer")
	}
	return n, nil
}

// decodeReference is the multihash reference decoder: it decodes v (a
// CBOR map of shape {"@link": bytes}) into a Reference. Any failure of
// the envelope or the multihash itself is ReferenceDecodingFailed.
func decodeReference(v cborx.Value) (Reference, *Error) {
	link, ok := v.Get("@link")
	if !ok {
		return nil, newReferenceDecodingFailed("missing @link field")
	}
	raw, ok := link.AsBytes()
	if !ok {
		return nil, newReferenceDecodingFailed("@link is not a byte string")
	}
	ref, err := mhash.ReferenceFromBytes(raw)
	if err != nil {
		return nil, newReferenceDecodingFailed(err.Error())
	}
	return ref, nil
}

// getRequiredReference reads a required reference-shaped field. Any
// decoding failure (missing field, wrong CBOR kind, invalid multihash)
// is surfaced as an error — required references have no leniency.
func getRequiredReference(m cborx.Value, key string) (Reference, *Error) {
	v, err := getRequired(m, key)
	if err != nil {
		return nil, err
	}
	ref, err := decodeReference(v)
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// getOptionalReference reads an optional reference-shaped field. A
// missing field returns nil; a present-but-undecodable field also
// returns nil rather than an error — spec.md §4.6's stated
// rationale is that optional chain pointers are speculative.
func getOptionalReference(m cborx.Value, key string) Reference {
	v, ok := m.Get(key)
	if !ok {
		return nil
	}
	ref, err := decodeReference(v)
	if err != nil {
		return nil
	}
	return ref
}

// --- Canonical object decoders ------------------------------------------

func decodeEntity(m cborx.Value) (Record, error) {
	if err := requireTag(m, mctype.TagEntity); err != nil {
		return nil, err
	}
	return Entity{Meta: toRawMeta(m)}, nil
}

func decodeArtefact(m cborx.Value) (Record, error) {
	if err := requireTag(m, mctype.TagArtefact); err != nil {
		return nil, err
	}
	return Artefact{Meta: toRawMeta(m)}, nil
}

func requireTag(m cborx.Value, want string) *Error {
	tag, err := getRequiredText(m, "type")
	if err != nil {
		if err.Kind == KindRequiredFieldNotFound {
			return newTypeNameNotFound()
		}
		return err
	}
	if tag != want {
		return newUnexpectedObjectType(want)
	}
	return nil
}

func requireTagIn(m cborx.Value, want []string) (string, *Error) {
	tag, err := getRequiredText(m, "type")
	if err != nil {
		if err.Kind == KindRequiredFieldNotFound {
			return "", newTypeNameNotFound()
		}
		return "", err
	}
	for _, w := range want {
		if tag == w {
			return tag, nil
		}
	}
	return "", newUnexpectedObjectType(tag)
}

// --- Entity chain cell decoders ------------------------------------------

func decodeEntityChainCellGeneric(m cborx.Value) (Record, error) {
	if _, err := requireTagIn(m, mctype.EntityChainCellTags); err != nil {
		return nil, err
	}
	entity, err := getRequiredReference(m, "entity")
	if err != nil {
		return nil, err
	}
	return EntityChainCell{
		Entity: entity,
		Chain:  getOptionalReference(m, "chain"),
		Meta:   toRawMeta(m),
	}, nil
}

func decodeEntityUpdateCell(m cborx.Value) (Record, error) {
	if err := requireTag(m, mctype.TagEntityUpdateCell); err != nil {
		return nil, err
	}
	entity, err := getRequiredReference(m, "entity")
	if err != nil {
		return nil, err
	}
	return EntityUpdateCell{
		Entity: entity,
		Chain:  getOptionalReference(m, "chain"),
		Meta:   toRawMeta(m),
	}, nil
}

func decodeEntityChainCellSpecific(m cborx.Value) (Record, error) {
	if err := requireTag(m, mctype.TagEntityChainCell); err != nil {
		return nil, err
	}
	entity, err := getRequiredReference(m, "entity")
	if err != nil {
		return nil, err
	}
	return EntityChainCell{
		Entity: entity,
		Chain:  getOptionalReference(m, "chain"),
		Meta:   toRawMeta(m),
	}, nil
}

func decodeEntityLinkCell(m cborx.Value) (Record, error) {
	if err := requireTag(m, mctype.TagEntityLinkCell); err != nil {
		return nil, err
	}
	entity, err := getRequiredReference(m, "entity")
	if err != nil {
		return nil, err
	}
	link, err := getRequiredReference(m, "entityLink")
	if err != nil {
		return nil, err
	}
	return EntityLinkCell{
		Entity:     entity,
		EntityLink: link,
		Chain:      getOptionalReference(m, "chain"),
		Meta:       toRawMeta(m),
	}, nil
}

// --- Artefact chain cell decoders ----------------------------------------

func decodeArtefactChainCellGeneric(m cborx.Value) (Record, error) {
	if _, err := requireTagIn(m, mctype.ArtefactChainCellTags); err != nil {
		return nil, err
	}
	artefact, err := getRequiredReference(m, "artefact")
	if err != nil {
		return nil, err
	}
	return ArtefactChainCell{
		Artefact: artefact,
		Chain:    getOptionalReference(m, "chain"),
		Meta:     toRawMeta(m),
	}, nil
}

func decodeArtefactChainCellSpecific(m cborx.Value) (Record, error) {
	if err := requireTag(m, mctype.TagArtefactChainCell); err != nil {
		return nil, err
	}
	artefact, err := getRequiredReference(m, "artefact")
	if err != nil {
		return nil, err
	}
	return ArtefactChainCell{
		Artefact: artefact,
		Chain:    getOptionalReference(m, "chain"),
		Meta:     toRawMeta(m),
	}, nil
}

func decodeArtefactUpdateCell(m cborx.Value) (Record, error) {
	if err := requireTag(m, mctype.TagArtefactUpdateCell); err != nil {
		return nil, err
	}
	artefact, err := getRequiredReference(m, "artefact")
	if err != nil {
		return nil, err
	}
	return ArtefactUpdateCell{
		Artefact: artefact,
		Chain:    getOptionalReference(m, "chain"),
		Meta:     toRawMeta(m),
	}, nil
}

func decodeArtefactCreationCell(m cborx.Value) (Record, error) {
	if err := requireTag(m, mctype.TagArtefactCreationCell); err != nil {
		return nil, err
	}
	artefact, err := getRequiredReference(m, "artefact")
	if err != nil {
		return nil, err
	}
	entity, err := getRequiredReference(m, "entity")
	if err != nil {
		return nil, err
	}
	return ArtefactCreationCell{
		Artefact: artefact,
		Entity:   entity,
		Chain:    getOptionalReference(m, "chain"),
		Meta:     toRawMeta(m),
	}, nil
}

func decodeArtefactDerivationCell(m cborx.Value) (Record, error) {
	if err := requireTag(m, mctype.TagArtefactDerivationCell); err != nil {
		return nil, err
	}
	artefact, err := getRequiredReference(m, "artefact")
	if err != nil {
		return nil, err
	}
	origin, err := getRequiredReference(m, "artefactOrigin")
	if err != nil {
		return nil, err
	}
	return ArtefactDerivationCell{
		Artefact:       artefact,
		ArtefactOrigin: origin,
		Chain:          getOptionalReference(m, "chain"),
		Meta:           toRawMeta(m),
	}, nil
}

func decodeArtefactOwnershipCell(m cborx.Value) (Record, error) {
	if err := requireTag(m, mctype.TagArtefactOwnershipCell); err != nil {
		return nil, err
	}
	artefact, err := getRequiredReference(m, "artefact")
	if err != nil {
		return nil, err
	}
	entity, err := getRequiredReference(m, "entity")
	if err != nil {
		return nil, err
	}
	return ArtefactOwnershipCell{
		Artefact: artefact,
		Entity:   entity,
		Chain:    getOptionalReference(m, "chain"),
		Meta:     toRawMeta(m),
	}, nil
}

func decodeArtefactReferenceCell(m cborx.Value) (Record, error) {
	if err := requireTag(m, mctype.TagArtefactReferenceCell); err != nil {
		return nil, err
	}
	artefact, err := getRequiredReference(m, "artefact")
	if err != nil {
		return nil, err
	}
	entity, err := getRequiredReference(m, "entity")
	if err != nil {
		return nil, err
	}
	return ArtefactReferenceCell{
		Artefact: artefact,
		Entity:   entity,
		Chain:    getOptionalReference(m, "chain"),
		Meta:     toRawMeta(m),
	}, nil
}

// --- Journal entry & block decoders --------------------------------------

func decodeCanonicalEntry(m cborx.Value) (Record, error) {
	if err := requireTag(m, mctype.TagCanonicalEntry); err != nil {
		return nil, err
	}
	index, err := getRequiredIndex(m, "index")
	if err != nil {
		return nil, err
	}
	ref, err := getRequiredReference(m, "ref")
	if err != nil {
		return nil, err
	}
	return CanonicalEntry{Index: index, Ref: ref, Meta: toRawMeta(m)}, nil
}

func decodeChainEntry(m cborx.Value) (Record, error) {
	if err := requireTag(m, mctype.TagChainEntry); err != nil {
		return nil, err
	}
	index, err := getRequiredIndex(m, "index")
	if err != nil {
		return nil, err
	}
	ref, err := getRequiredReference(m, "ref")
	if err != nil {
		return nil, err
	}
	chain, err := getRequiredReference(m, "chain")
	if err != nil {
		return nil, err
	}
	return ChainEntry{
		Index:         index,
		Ref:           ref,
		Chain:         chain,
		ChainPrevious: getOptionalReference(m, "chainPrevious"),
		Meta:          toRawMeta(m),
	}, nil
}

// JournalEntryDeserializer decodes a journal entry map by reading its
// type tag and dispatching to the canonical-entry or chain-entry
// decoder; any other tag is UnexpectedObjectType.
func JournalEntryDeserializer(m cborx.Value) (JournalEntry, *Error) {
	tag, err := getRequiredText(m, "type")
	if err != nil {
		if err.Kind == KindRequiredFieldNotFound {
			return nil, newTypeNameNotFound()
		}
		return nil, err
	}
	switch tag {
	case mctype.TagCanonicalEntry:
		r, decErr := decodeCanonicalEntry(m)
		if decErr != nil {
			return nil, decErr.(*Error)
		}
		return r.(CanonicalEntry), nil
	case mctype.TagChainEntry:
		r, decErr := decodeChainEntry(m)
		if decErr != nil {
			return nil, decErr.(*Error)
		}
		return r.(ChainEntry), nil
	default:
		return nil, newUnexpectedObjectType(tag)
	}
}

// decodeJournalBlock decodes a JournalBlock. Per spec.md §4.6 and the
// §9 open question, array elements of "entries" that are not CBOR maps
// are silently skipped rather than failing the whole block — a
// deliberately preserved quirk of the system this was derived from. Any
// entry that IS a map but fails to decode aborts the whole block
// (fail-fast; partial blocks are never surfaced).
func decodeJournalBlock(m cborx.Value) (Record, error) {
	return decodeJournalBlockWith(m, false)
}

// decodeJournalBlockStrict is decodeJournalBlock with spec.md §9's skip
// quirk turned off: a non-map array element is UnexpectedCborType
// instead of being silently dropped. Selected via
// NewTransactorPresetStrict/NewDatastorePresetStrict, which cmd/mcverify
// wires to its strict_array_elements config flag.
func decodeJournalBlockStrict(m cborx.Value) (Record, error) {
	return decodeJournalBlockWith(m, true)
}

func decodeJournalBlockWith(m cborx.Value, strict bool) (Record, error) {
	if err := requireTag(m, mctype.TagJournalBlock); err != nil {
		return nil, err
	}
	index, err := getRequiredIndex(m, "index")
	if err != nil {
		return nil, err
	}
	entriesField, err := getRequired(m, "entries")
	if err != nil {
		return nil, err
	}
	rawEntries, ok := entriesField.AsArray()
	if !ok {
		return nil, newUnexpectedCborType("entries", "expected array")
	}

	entries := make([]JournalEntry, 0, len(rawEntries))
	for _, item := range rawEntries {
		if _, isMap := item.AsMap(); !isMap {
			if strict {
				return nil, newUnexpectedCborType("entries", "expected array of maps")
			}
			continue
		}
		entry, decErr := JournalEntryDeserializer(item)
		if decErr != nil {
			return nil, decErr
		}
		entries = append(entries, entry)
	}

	return JournalBlock{
		Index:   index,
		Chain:   getOptionalReference(m, "chain"),
		Entries: entries,
		Meta:    toRawMeta(m),
	}, nil
}

// --- Presets & dispatch ---------------------------------------------------

// NewTransactorPreset builds the DeserializerMap the consensus
// transactor uses: all entity-cell tags collapse into the generic
// EntityChainCell decoder, all artefact-cell tags collapse into the
// generic ArtefactChainCell decoder — the transactor treats cells
// uniformly as chain links and does not need subtype fields.
func NewTransactorPreset() DeserializerMap {
	m := DeserializerMap{
		mctype.TagEntity:       decodeEntity,
		mctype.TagArtefact:     decodeArtefact,
		mctype.TagCanonicalEntry: decodeCanonicalEntry,
		mctype.TagChainEntry:     decodeChainEntry,
		mctype.TagJournalBlock:   decodeJournalBlock,
	}
	for _, tag := range mctype.EntityChainCellTags {
		m[tag] = decodeEntityChainCellGeneric
	}
	for _, tag := range mctype.ArtefactChainCellTags {
		m[tag] = decodeArtefactChainCellGeneric
	}
	return m
}

// NewDatastorePreset builds the DeserializerMap peers and durable
// stores use: the transactor preset, with every subtype tag overridden
// by its specific decoder. This is the default preset.
func NewDatastorePreset() DeserializerMap {
	m := NewTransactorPreset()
	m[mctype.TagEntityChainCell] = decodeEntityChainCellSpecific
	m[mctype.TagEntityUpdateCell] = decodeEntityUpdateCell
	m[mctype.TagEntityLinkCell] = decodeEntityLinkCell
	m[mctype.TagArtefactChainCell] = decodeArtefactChainCellSpecific
	m[mctype.TagArtefactUpdateCell] = decodeArtefactUpdateCell
	m[mctype.TagArtefactCreationCell] = decodeArtefactCreationCell
	m[mctype.TagArtefactDerivationCell] = decodeArtefactDerivationCell
	m[mctype.TagArtefactOwnershipCell] = decodeArtefactOwnershipCell
	m[mctype.TagArtefactReferenceCell] = decodeArtefactReferenceCell
	return m
}

// DefaultPreset is the datastore preset (spec.md §4.6: "Default preset
// is the datastore preset").
func DefaultPreset() DeserializerMap { return NewDatastorePreset() }

// NewTransactorPresetStrict is NewTransactorPreset with the §9
// non-map-array-element quirk disabled.
func NewTransactorPresetStrict() DeserializerMap {
	m := NewTransactorPreset()
	m[mctype.TagJournalBlock] = decodeJournalBlockStrict
	return m
}

// NewDatastorePresetStrict is NewDatastorePreset with the §9
// non-map-array-element quirk disabled.
func NewDatastorePresetStrict() DeserializerMap {
	m := NewDatastorePreset()
	m[mctype.TagJournalBlock] = decodeJournalBlockStrict
	return m
}

// FromCbor parses value into a concrete Record using the policy in m
// (spec.md §4.6 dispatch algorithm).
func FromCbor(value cborx.Value, m DeserializerMap) (Record, error) {
	if _, ok := value.AsMap(); !ok {
		return nil, newUnexpectedCborType("", "expected cbor map")
	}
	tag, err := getRequiredText(value, "type")
	if err != nil {
		if err.Kind == KindRequiredFieldNotFound {
			return nil, newTypeNameNotFound()
		}
		return nil, err
	}
	if _, ok := mctype.FromString(tag); !ok {
		return nil, newUnexpectedObjectType(tag)
	}
	decoder, ok := m[tag]
	if !ok {
		return nil, newUnexpectedObjectType(tag)
	}
	return decoder(value)
}

// FromCborBytes decodes a CBOR byte stream and dispatches its first
// top-level value (after unwrapping a leading self-describe tag) to
// FromCbor. An empty or malformed stream is CborDecodingFailed.
func FromCborBytes(data []byte, m DeserializerMap) (Record, error) {
	values, err := cborx.Decode(data)
	if err != nil {
		return nil, newCborDecodingFailed(err.Error())
	}
	if len(values) == 0 {
		return nil, newCborDecodingFailed("empty cbor stream")
	}
	top := cborx.UnwrapSelfDescribe(values[0])
	return FromCbor(top, m)
}
