package matepair

import (
	"math"

	"github.com/biogo/hts/sam"

	"github.com/grail-oss/bsformat/bsrecord"
	"github.com/grail-oss/bsformat/cigarfix"
)

// NoFragLen is the sentinel Merge returns as fragLen when one and two
// are not, in fact, mates, or the pair is geometrically degenerate
// (zero or negative residual dovetail overlap). Callers must check for it
// before trusting merged.
const NoFragLen = math.MinInt32

// AreMates reports whether one and two are the two ends of the same
// fragment: one's mate reference and position must name two's own
// reference and position, and the two records must carry opposite
// strand flags. It does not require one to be the positive-strand
// mate. The check is one-directional: two's mate fields are not
// examined.
func AreMates(one, two *sam.Record) bool {
	if one.MateRef == nil || two.Ref == nil {
		return false
	}
	if one.MateRef.ID() != two.Ref.ID() || one.MatePos != two.Pos {
		return false
	}
	oneRev := one.Flags&sam.Reverse != 0
	twoRev := two.Flags&sam.Reverse != 0
	return oneRev != twoRev
}

// Merge splices the positive-strand mate one and the negative-strand
// mate two into a single fragment record, classifying their geometry
// into the non-overlapping, overlapping, perfectly-stacked, or
// dovetailed case. It returns NoFragLen and a nil merged record when
// one and two fail the mate preconditions, or when a dovetailed pair
// has no positive residual overlap (the pair is degenerate and
// produces no merged output). fragLen is two's reference end position
// minus one's start, matching the original fragment-length formula,
// not the merged record's own CIGAR reference length (the two agree
// except in the perfectly-stacked case, where KeepBetterEnd may keep
// whichever mate has the longer CIGAR, and in a dovetailed pair whose
// two ends past one's end, where the truncated record cannot extend
// beyond one's own alignment).
func Merge(one, two *sam.Record) (merged *sam.Record, fragLen int, err error) {
	if !AreMates(one, two) {
		return nil, NoFragLen, nil
	}

	s1, e1 := one.Pos, bsrecord.EndPos(one)
	s2, e2 := two.Pos, bsrecord.EndPos(two)

	var c *sam.Record
	switch {
	case s2-e1 >= 0:
		c, err = bsrecord.MergeNonOverlap(one, two, s2-e1)
	default:
		h := s2 - s1
		switch {
		case h > 0:
			c, err = bsrecord.MergeOverlap(one, two, h)
		case h == 0:
			c, err = KeepBetterEnd(one, two), nil
		default:
			overlap := e2 - s1
			if overlap <= 0 {
				return nil, NoFragLen, nil
			}
			c, err = bsrecord.TruncateOverlap(one, overlap)
		}
	}
	if err != nil {
		return nil, NoFragLen, err
	}

	c.Cigar, err = cigarfix.Repair(c.Cigar)
	if err != nil {
		return nil, NoFragLen, err
	}
	c.TempLen = bsrecord.RefLen(c.Cigar)
	return c, e2 - s1, nil
}

// KeepBetterEnd handles the head == 0 case: one and two start at the
// same reference position, so the merged fragment is just whichever
// record's CIGAR consumes more reference, with mate linkage cleared
// and the flag stripped to the three bits every splicer output keeps.
// Ties keep one.
func KeepBetterEnd(one, two *sam.Record) *sam.Record {
	src := one
	if bsrecord.RefLen(two.Cigar) > bsrecord.RefLen(one.Cigar) {
		src = two
	}

	c := &sam.Record{}
	*c = *src
	c.MateRef = nil
	c.MatePos = -1
	c.Flags = src.Flags & (sam.Read1 | sam.Read2 | sam.Reverse)
	c.TempLen = bsrecord.RefLen(c.Cigar)
	return c
}
