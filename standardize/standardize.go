package standardize

import (
	"errors"
	"fmt"

	"github.com/biogo/hts/sam"

	"github.com/grail-oss/bsformat/nibble"
)

// Format names one of the supported upstream bisulfite aligners.
type Format int

const (
	Abismal Format = iota
	Walt
	Bsmap
	Bismark
)

func (f Format) String() string {
	switch f {
	case Abismal:
		return "abismal"
	case Walt:
		return "walt"
	case Bsmap:
		return "bsmap"
	case Bismark:
		return "bismark"
	default:
		return fmt.Sprintf("standardize.Format(%d)", int(f))
	}
}

// ErrUnknownFormat is returned by NewStandardizer for a Format value
// outside the four known aligners.
var ErrUnknownFormat = errors.New("standardize: unknown input format")

// ErrAligntagMissing is returned when a record lacks an aux tag this
// package reads: ZS (bsmap), XR (bismark), NM (bsmap and bismark), or
// CV (FlipConversion and IsARich).
var ErrAligntagMissing = errors.New("standardize: expected aligner tag missing")

var (
	nmTag = sam.NewTag("NM")
	cvTag = sam.NewTag("CV")
	zsTag = sam.NewTag("ZS")
	xrTag = sam.NewTag("XR")
)

// Standardizer rewrites one record in place into the common NM/CV aux
// shape, orienting its sequence T-rich-forward-strand-relative.
type Standardizer interface {
	Standardize(r *sam.Record) error
}

// NewStandardizer returns the Standardizer for f.
func NewStandardizer(f Format) (Standardizer, error) {
	switch f {
	case Abismal, Walt:
		return passthrough{}, nil
	case Bsmap:
		return bsmap{}, nil
	case Bismark:
		return bismark{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
}

type passthrough struct{}

func (passthrough) Standardize(r *sam.Record) error {
	return blankQual(r)
}

type bsmap struct{}

func (bsmap) Standardize(r *sam.Record) error {
	a := r.AuxFields.Get(zsTag)
	if a == nil {
		return fmt.Errorf("%w: ZS", ErrAligntagMissing)
	}
	zs, ok := a.Value().(string)
	if !ok || len(zs) < 2 {
		return fmt.Errorf("standardize: ZS tag has unexpected value %v", a.Value())
	}
	cv := byte('T')
	if zs[1] == '-' {
		cv = 'A'
	}
	return retag(r, cv, reorient)
}

type bismark struct{}

func (bismark) Standardize(r *sam.Record) error {
	a := r.AuxFields.Get(xrTag)
	if a == nil {
		return fmt.Errorf("%w: XR", ErrAligntagMissing)
	}
	xr, ok := a.Value().(string)
	if !ok {
		return fmt.Errorf("standardize: XR tag has unexpected value %v", a.Value())
	}
	cv := byte('T')
	if xr == "GA" {
		cv = 'A'
	}
	return retag(r, cv, reorient)
}

// retag reads the NM tag before dropping every aux field, then
// re-appends exactly NM and CV, matching the original's "truncate aux
// region, then append the two tags we want" sequence.
func retag(r *sam.Record, cv byte, then func(*sam.Record) error) error {
	a := r.AuxFields.Get(nmTag)
	if a == nil {
		return fmt.Errorf("%w: NM", ErrAligntagMissing)
	}
	nm := a.Value()

	r.AuxFields = r.AuxFields[:0]

	nmAux, err := sam.NewAux(nmTag, nm)
	if err != nil {
		return fmt.Errorf("standardize: re-adding NM: %w", err)
	}
	cvAux, err := sam.NewAux(cvTag, cv)
	if err != nil {
		return fmt.Errorf("standardize: re-adding CV: %w", err)
	}
	r.AuxFields = append(r.AuxFields, nmAux, cvAux)

	return then(r)
}

// reorient reverse-complements the sequence of reverse-strand records
// before blanking quality. abismal and walt already emit reads
// oriented by their own convention and must not be re-flipped here;
// only bsmap and bismark route through reorient, matching the
// original's standardize_format, which returns immediately for
// abismal/walt and calls the revcomp step only on the bsmap and
// bismark branches.
func reorient(r *sam.Record) error {
	if r.Flags&sam.Reverse != 0 {
		revCompSeq(r)
	}
	return blankQual(r)
}

// blankQual blanks per-base qualities, which carry no signal past
// this point, for every format.
func blankQual(r *sam.Record) error {
	for i := range r.Qual {
		r.Qual[i] = 0xff
	}
	return nil
}

func revCompSeq(r *sam.Record) {
	qlen := r.Seq.Length
	buf := make([]byte, len(r.Seq.Seq))
	for i, d := range r.Seq.Seq {
		buf[i] = byte(d)
	}
	nibble.RevComp(buf, qlen)
	for i, v := range buf {
		r.Seq.Seq[i] = sam.Doublet(v)
	}
}

// FlipConversion re-orients a record that standardization (or
// merging) determined to be A-rich: it toggles the reverse-strand
// flag, reverse-complements the sequence, and rewrites the CV tag to
// 'T', since every record the pipeline emits must be T-rich.
func FlipConversion(r *sam.Record) error {
	r.Flags ^= sam.Reverse
	revCompSeq(r)

	a := r.AuxFields.Get(cvTag)
	if a == nil {
		return fmt.Errorf("%w: CV", ErrAligntagMissing)
	}
	cvAux, err := sam.NewAux(cvTag, byte('T'))
	if err != nil {
		return fmt.Errorf("standardize: rewriting CV: %w", err)
	}
	for i, f := range r.AuxFields {
		if f.Tag() == cvTag {
			r.AuxFields[i] = cvAux
			break
		}
	}
	return nil
}

// IsARich reports whether r's CV tag is currently 'A'.
func IsARich(r *sam.Record) (bool, error) {
	a := r.AuxFields.Get(cvTag)
	if a == nil {
		return false, fmt.Errorf("%w: CV", ErrAligntagMissing)
	}
	switch v := a.Value().(type) {
	case byte:
		return v == 'A', nil
	case string:
		return len(v) == 1 && v[0] == 'A', nil
	default:
		return false, fmt.Errorf("standardize: CV tag has unexpected value %v", v)
	}
}
