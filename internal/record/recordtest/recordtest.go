// Package recordtest provides gopter property generators over every
// record kind (spec.md §2 item 8, "Test fixtures / generators"). It is
// imported both by this module's own property tests and by downstream
// consumers (transactor/peer test suites, out of scope here) that want
// record fixtures without reimplementing generation.
package recordtest

import (
	"math/big"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"github.com/mediachain/mcrecord/internal/cborx"
	"github.com/mediachain/mcrecord/internal/mhash"
	"github.com/mediachain/mcrecord/internal/record"
)

// structuralKeys mirrors spec.md §3's collision list; metadata generators
// avoid them so generated records don't accidentally exercise the
// structural-precedence overlay rule (that is covered by dedicated
// table tests, not property tests).
var structuralKeys = map[string]bool{
	"type": true, "artefact": true, "entity": true, "chain": true,
	"entityLink": true, "artefactOrigin": true, "index": true, "ref": true,
	"chainPrevious": true, "entries": true, "@link": true,
}

func genBytes(n int) gopter.Gen {
	return gen.SliceOfN(n, gen.UInt8Range(0, 255)).Map(func(bs []uint8) []byte {
		out := make([]byte, len(bs))
		for i, b := range bs {
			out[i] = byte(b)
		}
		return out
	})
}

// Reference generates a content address over random bytes, matching how
// every real Reference is derived from a canonical encoding.
func Reference() gopter.Gen {
	return genBytes(24).Map(func(b []byte) record.Reference {
		return mhash.ReferenceForBytes(b)
	})
}

// optionalReference generates a present Reference about half the time
// and an absent one (nil) otherwise.
func optionalReference() gopter.Gen {
	return gen.Bool().FlatMap(func(v interface{}) gopter.Gen {
		if v.(bool) {
			return Reference()
		}
		return gen.Const(record.Reference(nil))
	}, nil)
}

func metadataKey() gopter.Gen {
	return gen.Identifier().SuchThat(func(s string) bool { return !structuralKeys[s] })
}

func metadataValue() gopter.Gen {
	return gen.OneGenOf(
		gen.AlphaString().Map(func(s string) cborx.Value { return cborx.Text(s) }),
		gen.Bool().Map(func(b bool) cborx.Value { return cborx.Bool(b) }),
		gen.Int64Range(-100000, 100000).Map(func(n int64) cborx.Value { return cborx.Int(n) }),
		genBytes(8).Map(func(b []byte) cborx.Value { return cborx.Bytes(b) }),
	)
}

// Metadata generates a pass-through metadata map (spec.md §3 "Metadata
// map") of non-structural keys; its size follows gopter's MinSize and
// MaxSize generator parameters.
func Metadata() gopter.Gen {
	return gen.MapOf(metadataKey(), metadataValue()).Map(func(m map[string]cborx.Value) record.Metadata {
		return record.Metadata(m)
	})
}

func genIndex() gopter.Gen {
	return gen.Int64Range(0, 1<<40).Map(func(n int64) *big.Int { return big.NewInt(n) })
}

// build folds a fixed slice of generators into one that produces
// []interface{}, then projects the result into the concrete record
// type via build. Kept as one helper rather than duplicating
// CombineGens+Map at every call site.
func build(gens []gopter.Gen, f func(args []interface{}) record.Record) gopter.Gen {
	return gopter.CombineGens(gens...).Map(func(values []interface{}) record.Record {
		return f(values)
	})
}

// Entity generates an Entity record.
func Entity() gopter.Gen {
	return Metadata().Map(func(m record.Metadata) record.Record {
		return record.Entity{Meta: m}
	})
}

// Artefact generates an Artefact record.
func Artefact() gopter.Gen {
	return Metadata().Map(func(m record.Metadata) record.Record {
		return record.Artefact{Meta: m}
	})
}

// EntityChainCell generates an EntityChainCell record.
func EntityChainCell() gopter.Gen {
	return build([]gopter.Gen{Reference(), optionalReference(), Metadata()}, func(a []interface{}) record.Record {
		return record.EntityChainCell{
			Entity: a[0].(record.Reference),
			Chain:  a[1].(record.Reference),
			Meta:   a[2].(record.Metadata),
		}
	})
}

// EntityUpdateCell generates an EntityUpdateCell record.
func EntityUpdateCell() gopter.Gen {
	return build([]gopter.Gen{Reference(), optionalReference(), Metadata()}, func(a []interface{}) record.Record {
		return record.EntityUpdateCell{
			Entity: a[0].(record.Reference),
			Chain:  a[1].(record.Reference),
			Meta:   a[2].(record.Metadata),
		}
	})
}

// EntityLinkCell generates an EntityLinkCell record.
func EntityLinkCell() gopter.Gen {
	return build([]gopter.Gen{Reference(), Reference(), optionalReference(), Metadata()}, func(a []interface{}) record.Record {
		return record.EntityLinkCell{
			Entity:     a[0].(record.Reference),
			EntityLink: a[1].(record.Reference),
			Chain:      a[2].(record.Reference),
			Meta:       a[3].(record.Metadata),
		}
	})
}

// ArtefactChainCell generates an ArtefactChainCell record.
func ArtefactChainCell() gopter.Gen {
	return build([]gopter.Gen{Reference(), optionalReference(), Metadata()}, func(a []interface{}) record.Record {
		return record.ArtefactChainCell{
			Artefact: a[0].(record.Reference),
			Chain:    a[1].(record.Reference),
			Meta:     a[2].(record.Metadata),
		}
	})
}

// ArtefactUpdateCell generates an ArtefactUpdateCell record.
func ArtefactUpdateCell() gopter.Gen {
	return build([]gopter.Gen{Reference(), optionalReference(), Metadata()}, func(a []interface{}) record.Record {
		return record.ArtefactUpdateCell{
			Artefact: a[0].(record.Reference),
			Chain:    a[1].(record.Reference),
			Meta:     a[2].(record.Metadata),
		}
	})
}

// ArtefactCreationCell generates an ArtefactCreationCell record.
func ArtefactCreationCell() gopter.Gen {
	return build([]gopter.Gen{Reference(), Reference(), optionalReference(), Metadata()}, func(a []interface{}) record.Record {
		return record.ArtefactCreationCell{
			Artefact: a[0].(record.Reference),
			Entity:   a[1].(record.Reference),
			Chain:    a[2].(record.Reference),
			Meta:     a[3].(record.Metadata),
		}
	})
}

// ArtefactDerivationCell generates an ArtefactDerivationCell record.
func ArtefactDerivationCell() gopter.Gen {
	return build([]gopter.Gen{Reference(), Reference(), optionalReference(), Metadata()}, func(a []interface{}) record.Record {
		return record.ArtefactDerivationCell{
			Artefact:       a[0].(record.Reference),
			ArtefactOrigin: a[1].(record.Reference),
			Chain:          a[2].(record.Reference),
			Meta:           a[3].(record.Metadata),
		}
	})
}

// ArtefactOwnershipCell generates an ArtefactOwnershipCell record.
func ArtefactOwnershipCell() gopter.Gen {
	return build([]gopter.Gen{Reference(), Reference(), optionalReference(), Metadata()}, func(a []interface{}) record.Record {
		return record.ArtefactOwnershipCell{
			Artefact: a[0].(record.Reference),
			Entity:   a[1].(record.Reference),
			Chain:    a[2].(record.Reference),
			Meta:     a[3].(record.Metadata),
		}
	})
}

// ArtefactReferenceCell generates an ArtefactReferenceCell record.
func ArtefactReferenceCell() gopter.Gen {
	return build([]gopter.Gen{Reference(), Reference(), optionalReference(), Metadata()}, func(a []interface{}) record.Record {
		return record.ArtefactReferenceCell{
			Artefact: a[0].(record.Reference),
			Entity:   a[1].(record.Reference),
			Chain:    a[2].(record.Reference),
			Meta:     a[3].(record.Metadata),
		}
	})
}

// CanonicalEntry generates a CanonicalEntry journal entry.
func CanonicalEntry() gopter.Gen {
	return build([]gopter.Gen{genIndex(), Reference(), Metadata()}, func(a []interface{}) record.Record {
		return record.CanonicalEntry{
			Index: a[0].(*big.Int),
			Ref:   a[1].(record.Reference),
			Meta:  a[2].(record.Metadata),
		}
	})
}

// ChainEntry generates a ChainEntry journal entry.
func ChainEntry() gopter.Gen {
	return build([]gopter.Gen{genIndex(), Reference(), Reference(), optionalReference(), Metadata()}, func(a []interface{}) record.Record {
		return record.ChainEntry{
			Index:         a[0].(*big.Int),
			Ref:           a[1].(record.Reference),
			Chain:         a[2].(record.Reference),
			ChainPrevious: a[3].(record.Reference),
			Meta:          a[4].(record.Metadata),
		}
	})
}

// JournalEntry generates either journal entry variant.
func JournalEntry() gopter.Gen {
	return gen.OneGenOf(CanonicalEntry(), ChainEntry()).Map(func(r record.Record) record.JournalEntry {
		return r.(record.JournalEntry)
	})
}

// JournalBlock generates a JournalBlock with a small number of entries.
func JournalBlock() gopter.Gen {
	return build([]gopter.Gen{
		genIndex(),
		optionalReference(),
		gen.SliceOfN(3, JournalEntry()),
		Metadata(),
	}, func(a []interface{}) record.Record {
		return record.JournalBlock{
			Index:   a[0].(*big.Int),
			Chain:   a[1].(record.Reference),
			Entries: a[2].([]record.JournalEntry),
			Meta:    a[3].(record.Metadata),
		}
	})
}

// AnyRecord generates a record of any of the 14 kinds, uniformly at random.
func AnyRecord() gopter.Gen {
	return gen.OneGenOf(
		Entity(), Artefact(),
		EntityChainCell(), EntityUpdateCell(), EntityLinkCell(),
		ArtefactChainCell(), ArtefactUpdateCell(), ArtefactCreationCell(),
		ArtefactDerivationCell(), ArtefactOwnershipCell(), ArtefactReferenceCell(),
		CanonicalEntry(), ChainEntry(), JournalBlock(),
	)
}
