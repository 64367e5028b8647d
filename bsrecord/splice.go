package bsrecord

import (
	"github.com/biogo/hts/sam"

	"github.com/grail-oss/bsformat/nibble"
)

// TruncateOverlap builds a new record holding the prefix of a's
// alignment that consumes exactly overlap reference bases (or all of
// a, if a consumes fewer). It is used for the dovetail case, where the
// kept prefix is the part of the positive-strand mate that the
// negative-strand mate also covers.
func TruncateOverlap(a *sam.Record, overlap int) (*sam.Record, error) {
	k, partial := FullAndPartialOps(a.Cigar, overlap)
	usePartial := k < len(a.Cigar) && partial > 0

	cigar := make(sam.Cigar, k, k+1)
	copy(cigar, a.Cigar[:k])
	if usePartial {
		cigar = append(cigar, sam.NewCigarOp(a.Cigar[k].Type(), partial))
	}

	c := &sam.Record{}
	spliceCommon(c, a)
	c.Cigar = cigar
	c.TempLen = RefLen(cigar)

	qlen := QueryLen(cigar)
	c.Seq = allocSeq(qlen)
	copy(c.Seq.Seq, a.Seq.Seq[:len(c.Seq.Seq)])

	nm, err := NM(a)
	if err != nil {
		return nil, err
	}
	if err := SetNM(c, nm); err != nil {
		return nil, err
	}
	cv, err := CV(a)
	if err != nil {
		return nil, err
	}
	if err := SetCV(c, cv); err != nil {
		return nil, err
	}
	return c, nil
}

// MergeOverlap splices a (the positive-strand mate) and b (the
// negative-strand mate) together when their alignments overlap but
// a's 5' end extends past b's 5' start by head reference bases. head
// must be strictly positive; a head of exactly zero is the
// perfectly-stacked case handled by KeepBetterEnd instead.
func MergeOverlap(a, b *sam.Record, head int) (*sam.Record, error) {
	k, partial := FullAndPartialOps(a.Cigar, head)
	usePartial := k < len(a.Cigar) && partial > 0

	var boundaryOp sam.CigarOpType
	if usePartial {
		boundaryOp = a.Cigar[k].Type()
	} else {
		boundaryOp = a.Cigar[k-1].Type()
	}
	mergeMid := len(b.Cigar) > 0 && boundaryOp == b.Cigar[0].Type()

	cigar := make(sam.Cigar, 0, k+1+len(b.Cigar))
	cigar = append(cigar, a.Cigar[:k]...)
	if usePartial {
		cigar = append(cigar, sam.NewCigarOp(boundaryOp, partial))
	}
	aSeqLen := QueryLen(cigar)

	bRest := b.Cigar
	if mergeMid {
		last := len(cigar) - 1
		cigar[last] = sam.NewCigarOp(boundaryOp, cigar[last].Len()+b.Cigar[0].Len())
		bRest = b.Cigar[1:]
	}
	cigar = append(cigar, bRest...)

	c := &sam.Record{}
	spliceCommon(c, a)
	c.Cigar = cigar
	c.TempLen = RefLen(cigar)

	bSeqLen := b.Seq.Length
	c.Seq = allocSeq(aSeqLen + bSeqLen)
	out := packedOut(c.Seq)
	nibble.MergeByByte(out, packedBytes(a.Seq), aSeqLen, packedBytes(b.Seq), bSeqLen)
	commitPackedOut(c.Seq, out)

	aNM, err := NM(a)
	if err != nil {
		return nil, err
	}
	bNM, err := NM(b)
	if err != nil {
		return nil, err
	}
	if err := SetNM(c, aNM+bNM); err != nil {
		return nil, err
	}
	cv, err := CV(a)
	if err != nil {
		return nil, err
	}
	if err := SetCV(c, cv); err != nil {
		return nil, err
	}
	return c, nil
}

// MergeNonOverlap splices a and b together with a reference-skip
// spacer between them, for mates whose alignments do not overlap at
// all.
func MergeNonOverlap(a, b *sam.Record, spacer int) (*sam.Record, error) {
	cigar := make(sam.Cigar, 0, len(a.Cigar)+len(b.Cigar)+1)
	cigar = append(cigar, a.Cigar...)
	cigar = append(cigar, sam.NewCigarOp(sam.CigarSkipped, spacer))
	cigar = append(cigar, b.Cigar...)

	c := &sam.Record{}
	spliceCommon(c, a)
	c.Cigar = cigar
	c.TempLen = RefLen(cigar)

	aSeqLen, bSeqLen := a.Seq.Length, b.Seq.Length
	c.Seq = allocSeq(aSeqLen + bSeqLen)
	out := packedOut(c.Seq)
	nibble.MergeByByte(out, packedBytes(a.Seq), aSeqLen, packedBytes(b.Seq), bSeqLen)
	commitPackedOut(c.Seq, out)

	aNM, err := NM(a)
	if err != nil {
		return nil, err
	}
	bNM, err := NM(b)
	if err != nil {
		return nil, err
	}
	if err := SetNM(c, aNM+bNM); err != nil {
		return nil, err
	}
	cv, err := CV(a)
	if err != nil {
		return nil, err
	}
	if err := SetCV(c, cv); err != nil {
		return nil, err
	}
	return c, nil
}
