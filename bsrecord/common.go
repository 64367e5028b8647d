package bsrecord

import (
	"github.com/biogo/hts/sam"

	"github.com/grail-oss/bsformat/cigarfix"
)

// EndPos returns the first reference position past the end of r's
// alignment (r.Pos + reference bases consumed by r.Cigar).
func EndPos(r *sam.Record) int {
	return r.Pos + RefLen(r.Cigar)
}

// RefLen returns the number of reference bases c consumes.
func RefLen(c sam.Cigar) int {
	ref, _ := c.Lengths()
	return ref
}

// QueryLen returns the number of query (read) bases c consumes.
func QueryLen(c sam.Cigar) int {
	_, query := c.Lengths()
	return query
}

// FullAndPartialOps walks c's reference-consuming operations and
// returns (k, partial) such that the first k operations of c fully
// consume no more than nRefTarget reference bases, and the
// (k+1)-th operation would need to contribute exactly partial more
// reference bases to reach nRefTarget exactly. partial is 0 when an
// operation boundary already lands on nRefTarget. When c is exhausted
// before reaching nRefTarget, k is len(c) and partial is the
// remaining shortfall, so callers check k < len(c) before splitting.
func FullAndPartialOps(c sam.Cigar, nRefTarget int) (k, partial int) {
	rlen := 0
	i := 0
	for ; i < len(c); i++ {
		if cigarfix.EatsRef(c[i].Type()) {
			if rlen+c[i].Len() > nRefTarget {
				break
			}
			rlen += c[i].Len()
		}
	}
	return i, nRefTarget - rlen
}

// spliceCommon copies the fields every splicer constructor derives
// from "a" unchanged: identity (Name), alignment anchor (Ref, Pos,
// MapQ), and the three pairing/strand flag bits. It always clears the
// mate fields, since every splicer output either has no mate (it is
// itself the whole fragment) or is about to be re-evaluated for
// pairing by the caller.
func spliceCommon(c, a *sam.Record) {
	c.Name = a.Name
	c.Ref = a.Ref
	c.Pos = a.Pos
	c.MapQ = a.MapQ
	c.Flags = a.Flags & (sam.Read1 | sam.Read2 | sam.Reverse)
	c.MateRef = nil
	c.MatePos = -1
}

// allocSeq allocates a Seq sized to hold qlen bases.
func allocSeq(qlen int) sam.Seq {
	return sam.Seq{Length: qlen, Seq: make([]sam.Doublet, (qlen+1)/2)}
}

// packedBytes views a Seq's packed doublets as a plain byte slice,
// the representation the nibble package operates on. sam.Doublet's
// underlying type is byte, but Go does not permit converting a
// []Doublet to []byte without an explicit element-wise copy.
func packedBytes(s sam.Seq) []byte {
	b := make([]byte, len(s.Seq))
	for i, d := range s.Seq {
		b[i] = byte(d)
	}
	return b
}

func setPackedBytes(s sam.Seq, b []byte) {
	for i, v := range b {
		s.Seq[i] = sam.Doublet(v)
	}
}

// packedOut allocates a plain byte buffer sized to hold s's packed
// doublets, for nibble functions that write a merged result before it
// is committed back into a Seq with commitPackedOut.
func packedOut(s sam.Seq) []byte {
	return make([]byte, len(s.Seq))
}

// commitPackedOut copies a buffer built by packedOut/nibble.MergeByByte
// back into s.Seq.
func commitPackedOut(s sam.Seq, b []byte) {
	setPackedBytes(s, b)
}
