// Package record implements mediachain's closed record sum type: the
// canonical objects, chain cells, journal entries, and journal blocks
// that are serialized to and from CBOR (spec.md §3, §4.4).
package record

import (
	"math/big"

	"github.com/mediachain/mcrecord/internal/mctype"
	"github.com/mediachain/mcrecord/internal/mhash"
)

// Record is the closed sum type over all 14 serializable variants. Raw
// carries every top-level field exactly as decoded (structural keys
// included), so a caller that only needs pass-through access never has
// to re-derive it; Kind is the type tag's discriminator.
type Record interface {
	Kind() mctype.Kind
	Raw() Metadata
}

// Reference is re-exported for callers that only import this package.
type Reference = mhash.Reference

// --- Canonical objects -----------------------------------------------

// Entity is a top-level identity record with no structural fields
// beyond its metadata, which is inlined at the top level of the
// encoded map (spec.md §3 table).
type Entity struct {
	Meta Metadata
}

func (e Entity) Kind() mctype.Kind { return mctype.KindEntity }
func (e Entity) Raw() Metadata     { return e.Meta }

// Artefact is a top-level identity record, structurally identical to
// Entity but tagged "artefact".
type Artefact struct {
	Meta Metadata
}

func (a Artefact) Kind() mctype.Kind { return mctype.KindArtefact }
func (a Artefact) Raw() Metadata     { return a.Meta }

// --- Entity chain cells ------------------------------------------------

// EntityChainCell is a generic link in an entity's history chain.
type EntityChainCell struct {
	Entity Reference
	Chain  Reference // optional; nil if absent
	Meta   Metadata
}

func (c EntityChainCell) Kind() mctype.Kind { return mctype.KindEntityChainCell }
func (c EntityChainCell) Raw() Metadata     { return c.Meta }

// EntityUpdateCell has the same field shape as EntityChainCell; the two
// are distinguished only by their type tag (spec.md §9 open question).
type EntityUpdateCell struct {
	Entity Reference
	Chain  Reference
	Meta   Metadata
}

func (c EntityUpdateCell) Kind() mctype.Kind { return mctype.KindEntityUpdateCell }
func (c EntityUpdateCell) Raw() Metadata     { return c.Meta }

// EntityLinkCell extends EntityChainCell with a link to another entity.
type EntityLinkCell struct {
	Entity     Reference
	Chain      Reference
	EntityLink Reference
	Meta       Metadata
}

func (c EntityLinkCell) Kind() mctype.Kind { return mctype.KindEntityLinkCell }
func (c EntityLinkCell) Raw() Metadata     { return c.Meta }

// --- Artefact chain cells ----------------------------------------------

// ArtefactChainCell is a generic link in an artefact's history chain.
type ArtefactChainCell struct {
	Artefact Reference
	Chain    Reference
	Meta     Metadata
}

func (c ArtefactChainCell) Kind() mctype.Kind { return mctype.KindArtefactChainCell }
func (c ArtefactChainCell) Raw() Metadata     { return c.Meta }

// ArtefactUpdateCell has the same field shape as ArtefactChainCell.
type ArtefactUpdateCell struct {
	Artefact Reference
	Chain    Reference
	Meta     Metadata
}

func (c ArtefactUpdateCell) Kind() mctype.Kind { return mctype.KindArtefactUpdateCell }
func (c ArtefactUpdateCell) Raw() Metadata     { return c.Meta }

// ArtefactCreationCell records which entity created an artefact.
type ArtefactCreationCell struct {
	Artefact Reference
	Chain    Reference
	Entity   Reference
	Meta     Metadata
}

func (c ArtefactCreationCell) Kind() mctype.Kind { return mctype.KindArtefactCreationCell }
func (c ArtefactCreationCell) Raw() Metadata     { return c.Meta }

// ArtefactDerivationCell records that an artefact derives from another.
type ArtefactDerivationCell struct {
	Artefact       Reference
	Chain          Reference
	ArtefactOrigin Reference
	Meta           Metadata
}

func (c ArtefactDerivationCell) Kind() mctype.Kind { return mctype.KindArtefactDerivationCell }
func (c ArtefactDerivationCell) Raw() Metadata     { return c.Meta }

// ArtefactOwnershipCell records an entity's rights ownership of an artefact.
type ArtefactOwnershipCell struct {
	Artefact Reference
	Chain    Reference
	Entity   Reference
	Meta     Metadata
}

func (c ArtefactOwnershipCell) Kind() mctype.Kind { return mctype.KindArtefactOwnershipCell }
func (c ArtefactOwnershipCell) Raw() Metadata     { return c.Meta }

// ArtefactReferenceCell records that an entity referenced an artefact.
type ArtefactReferenceCell struct {
	Artefact Reference
	Chain    Reference
	Entity   Reference
	Meta     Metadata
}

func (c ArtefactReferenceCell) Kind() mctype.Kind { return mctype.KindArtefactReferenceCell }
func (c ArtefactReferenceCell) Raw() Metadata     { return c.Meta }

// --- Journal entries & blocks -------------------------------------------

// JournalEntry is the narrow sum type of the two journal entry variants.
type JournalEntry interface {
	Record
	journalEntry()
}

// CanonicalEntry records the insertion of a new canonical object at Index.
type CanonicalEntry struct {
	Index *big.Int
	Ref   Reference
	Meta  Metadata
}

func (e CanonicalEntry) Kind() mctype.Kind { return mctype.KindCanonicalEntry }
func (e CanonicalEntry) Raw() Metadata     { return e.Meta }
func (e CanonicalEntry) journalEntry()     {}

// ChainEntry records a chain-cell update at Index, optionally pointing
// back at the previous cell in the chain.
type ChainEntry struct {
	Index         *big.Int
	Ref           Reference
	Chain         Reference
	ChainPrevious Reference // optional
	Meta          Metadata
}

func (e ChainEntry) Kind() mctype.Kind { return mctype.KindChainEntry }
func (e ChainEntry) Raw() Metadata     { return e.Meta }
func (e ChainEntry) journalEntry()     {}

// JournalBlock is an ordered batch of journal entries at Index.
type JournalBlock struct {
	Index   *big.Int
	Chain   Reference // optional
	Entries []JournalEntry
	Meta    Metadata
}

func (b JournalBlock) Kind() mctype.Kind { return mctype.KindJournalBlock }
func (b JournalBlock) Raw() Metadata     { return b.Meta }
