package cigarfix

import (
	"errors"

	"github.com/biogo/hts/sam"
)

// ErrCigarEatsNoRef is returned when a Cigar has no operation that
// consumes reference bases, so Repair cannot locate an alignment
// boundary.
var ErrCigarEatsNoRef = errors.New("cigarfix: cigar eats no reference bases")

// EatsRef reports whether op consumes reference bases.
func EatsRef(op sam.CigarOpType) bool {
	return op.Consumes().Reference != 0
}

// EatsQuery reports whether op consumes query (read) bases.
func EatsQuery(op sam.CigarOpType) bool {
	return op.Consumes().Query != 0
}

// Repair rewrites c so that:
//   - no operation at either external end fails to consume reference
//     bases, except soft clips (external insertions become soft clips);
//   - no soft clip appears in the interior of the alignment (interior
//     soft clips become insertions);
//   - no two adjacent operations share an operation code.
//
// It returns ErrCigarEatsNoRef if c has no reference-consuming
// operation at all. Repair never mutates c in place; it builds and
// returns a new Cigar, since c may be shared by a caller that still
// needs the original operations (e.g. during testing for idempotence).
func Repair(c sam.Cigar) (sam.Cigar, error) {
	fixed, err := fixExternalInsertions(c)
	if err != nil {
		return nil, err
	}
	fixed = fixInternalSoftClips(fixed)
	return Coalesce(fixed), nil
}

// fixExternalInsertions rewrites any run of non-reference-consuming
// operations at either end of c into soft clips.
func fixExternalInsertions(c sam.Cigar) (sam.Cigar, error) {
	out := make(sam.Cigar, len(c))
	copy(out, c)

	i := 0
	for i < len(out) && !EatsRef(out[i].Type()) {
		out[i] = sam.NewCigarOp(sam.CigarSoftClipped, out[i].Len())
		i++
	}
	if i == len(out) {
		return nil, ErrCigarEatsNoRef
	}

	j := len(out) - 1
	for j >= 0 && !EatsRef(out[j].Type()) {
		out[j] = sam.NewCigarOp(sam.CigarSoftClipped, out[j].Len())
		j--
	}
	if j < 0 {
		return nil, ErrCigarEatsNoRef
	}
	return out, nil
}

// fixInternalSoftClips rewrites any soft clip strictly between the
// first and last reference-consuming operations of c into an
// insertion. It is a no-op when c has fewer than three operations,
// since there can be no interior position to fix.
func fixInternalSoftClips(c sam.Cigar) sam.Cigar {
	if len(c) < 3 {
		return c
	}

	first := 0
	for first < len(c) && !EatsRef(c[first].Type()) {
		first++
	}
	last := len(c) - 1
	for last >= 0 && !EatsRef(c[last].Type()) {
		last--
	}
	if first >= last {
		return c
	}

	out := make(sam.Cigar, len(c))
	copy(out, c)
	for i := first + 1; i < last; i++ {
		if out[i].Type() == sam.CigarSoftClipped {
			out[i] = sam.NewCigarOp(sam.CigarInsertion, out[i].Len())
		}
	}
	return out
}

// Coalesce merges adjacent operations of c that share an operation
// code, preserving order. It is a no-op for Cigars shorter than two
// operations.
func Coalesce(c sam.Cigar) sam.Cigar {
	if len(c) < 2 {
		return c
	}

	out := make(sam.Cigar, 0, len(c))
	out = append(out, c[0])
	for _, op := range c[1:] {
		last := len(out) - 1
		if out[last].Type() == op.Type() {
			out[last] = sam.NewCigarOp(op.Type(), out[last].Len()+op.Len())
		} else {
			out = append(out, op)
		}
	}
	return out
}
