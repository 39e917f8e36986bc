// Package mctype holds the closed enumeration of mediachain record
// kinds and their stable wire tag strings (spec.md §3's "type" column).
// The registry is deliberately just a pair of lookup tables — no
// interfaces, no inheritance — matching spec.md §9's guidance that the
// deserializer map is a strategy object, not a class hierarchy.
package mctype

// Kind is a closed discriminator over the 14 record variants.
type Kind int

const (
	KindEntity Kind = iota
	KindArtefact
	KindEntityChainCell
	KindEntityUpdateCell
	KindEntityLinkCell
	KindArtefactChainCell
	KindArtefactUpdateCell
	KindArtefactCreationCell
	KindArtefactDerivationCell
	KindArtefactOwnershipCell
	KindArtefactReferenceCell
	KindCanonicalEntry
	KindChainEntry
	KindJournalBlock
)

// Tag strings are the system's compatibility contract (spec.md §6):
// changing any of them is a breaking change.
const (
	TagEntity                 = "entity"
	TagArtefact               = "artefact"
	TagEntityChainCell        = "entityChainCell"
	TagEntityUpdateCell       = "entityUpdate"
	TagEntityLinkCell         = "entityLink"
	TagArtefactChainCell      = "artefactChainCell"
	TagArtefactUpdateCell     = "artefactUpdate"
	TagArtefactCreationCell   = "artefactCreatedBy"
	TagArtefactDerivationCell = "artefactDerivedBy"
	TagArtefactOwnershipCell  = "artefactRightsOwnedBy"
	TagArtefactReferenceCell  = "artefactReferencedBy"
	TagCanonicalEntry         = "insert"
	TagChainEntry             = "update"
	TagJournalBlock           = "journalBlock"
)

var kindToTag = map[Kind]string{
	KindEntity:                 TagEntity,
	KindArtefact:               TagArtefact,
	KindEntityChainCell:        TagEntityChainCell,
	KindEntityUpdateCell:       TagEntityUpdateCell,
	KindEntityLinkCell:         TagEntityLinkCell,
	KindArtefactChainCell:      TagArtefactChainCell,
	KindArtefactUpdateCell:     TagArtefactUpdateCell,
	KindArtefactCreationCell:   TagArtefactCreationCell,
	KindArtefactDerivationCell: TagArtefactDerivationCell,
	KindArtefactOwnershipCell:  TagArtefactOwnershipCell,
	KindArtefactReferenceCell:  TagArtefactReferenceCell,
	KindCanonicalEntry:         TagCanonicalEntry,
	KindChainEntry:             TagChainEntry,
	KindJournalBlock:           TagJournalBlock,
}

var tagToKind = func() map[string]Kind {
	m := make(map[string]Kind, len(kindToTag))
	for k, t := range kindToTag {
		m[t] = k
	}
	return m
}()

// EntityChainCellTags is the closed subset of tags that collapse into
// the generic EntityChainCell under the transactor preset.
var EntityChainCellTags = []string{TagEntityChainCell, TagEntityUpdateCell, TagEntityLinkCell}

// ArtefactChainCellTags is the closed subset of tags that collapse into
// the generic ArtefactChainCell under the transactor preset.
var ArtefactChainCellTags = []string{
	TagArtefactChainCell, TagArtefactUpdateCell, TagArtefactCreationCell,
	TagArtefactDerivationCell, TagArtefactOwnershipCell, TagArtefactReferenceCell,
}

// String returns the stable wire tag for k. Panics if k is not a
// registered kind — every Kind constant above has an entry, so this
// only fires on a programmer error (an unregistered new constant).
func (k Kind) String() string {
	tag, ok := kindToTag[k]
	if !ok {
		panic("mctype: unregistered kind")
	}
	return tag
}

// FromString looks up the Kind for a wire tag string. ok is false if
// the tag is not one of the 14 registered variants — the registry is
// closed, so unknown tags never decode.
func FromString(tag string) (Kind, bool) {
	k, ok := tagToKind[tag]
	return k, ok
}
