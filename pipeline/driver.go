package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/biogo/hts/sam"

	"github.com/grail-oss/bsformat/matepair"
	"github.com/grail-oss/bsformat/standardize"
)

// RecordSource produces records one at a time, returning io.EOF once
// the stream is exhausted.
type RecordSource interface {
	Read() (*sam.Record, error)
}

// RecordSink accepts records in the order they should appear in the
// output stream.
type RecordSink interface {
	Write(*sam.Record) error
}

// Driver runs the single-threaded merge state machine over a stream
// of name-sorted records.
type Driver struct {
	// SuffixLen is the number of trailing bytes of a read name that
	// varies between mates; names with those bytes stripped that are
	// byte-equal are considered the same fragment.
	SuffixLen int
	// MaxFragLen bounds the accepted merged fragment length; a merge
	// producing a fragment length outside (0, MaxFragLen) is rejected
	// and both mates are emitted individually instead.
	MaxFragLen int
	// Standardize rewrites each record into the common NM/CV aux shape
	// before mate-pairing logic sees it.
	Standardize standardize.Standardizer
	// SingleEnd disables all mate-pairing logic; every record is
	// standardized, flipped if A-rich, and emitted on its own.
	SingleEnd bool
}

// Run drives in to completion, writing every surviving, normalized
// record to out. It returns the first error encountered from
// standardization, merging, or I/O; ctx is checked between records so
// a caller can abort a long-running pipeline.
func (d *Driver) Run(ctx context.Context, in RecordSource, out RecordSink) error {
	if d.SingleEnd {
		return d.runSingleEnd(ctx, in, out)
	}

	prev, err := in.Read()
	if err != nil {
		if err == io.EOF {
			return fmt.Errorf("pipeline: empty input stream")
		}
		return fmt.Errorf("pipeline: reading first record: %w", err)
	}
	if err := d.Standardize.Standardize(prev); err != nil {
		return fmt.Errorf("pipeline: standardizing record %q: %w", prev.Name, err)
	}

	prevWasMerged := false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		current, err := in.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("pipeline: reading record: %w", err)
		}

		if err := d.Standardize.Standardize(current); err != nil {
			return fmt.Errorf("pipeline: standardizing record %q: %w", current.Name, err)
		}

		if sameName(prev, current, d.SuffixLen) {
			one, two := prev, current
			if current.Flags&sam.Reverse == 0 {
				// current is forward-strand: swap so one is the
				// positive-strand side C4 expects as its first argument.
				one, two = current, prev
			}

			merged, fragLen, err := matepair.Merge(one, two)
			if err != nil {
				return fmt.Errorf("pipeline: merging %q: %w", current.Name, err)
			}

			if fragLen != matepair.NoFragLen && fragLen > 0 && fragLen < d.MaxFragLen {
				if err := flipIfARich(merged); err != nil {
					return fmt.Errorf("pipeline: orienting merged record %q: %w", merged.Name, err)
				}
				if err := out.Write(merged); err != nil {
					return fmt.Errorf("pipeline: writing merged record: %w", err)
				}
			} else {
				if err := emitOne(out, one); err != nil {
					return err
				}
				if err := emitOne(out, two); err != nil {
					return err
				}
			}
			prevWasMerged = true
		} else {
			if !prevWasMerged {
				if err := emitOne(out, prev); err != nil {
					return err
				}
			}
			prevWasMerged = false
		}

		prev = current
	}

	if !prevWasMerged {
		if err := emitOne(out, prev); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) runSingleEnd(ctx context.Context, in RecordSource, out RecordSink) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := in.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("pipeline: reading record: %w", err)
		}
		if err := d.Standardize.Standardize(r); err != nil {
			return fmt.Errorf("pipeline: standardizing record %q: %w", r.Name, err)
		}
		if err := emitOne(out, r); err != nil {
			return err
		}
	}
}

func emitOne(out RecordSink, r *sam.Record) error {
	if err := flipIfARich(r); err != nil {
		return fmt.Errorf("pipeline: orienting record %q: %w", r.Name, err)
	}
	if err := out.Write(r); err != nil {
		return fmt.Errorf("pipeline: writing record %q: %w", r.Name, err)
	}
	return nil
}

func flipIfARich(r *sam.Record) error {
	aRich, err := standardize.IsARich(r)
	if err != nil {
		return err
	}
	if aRich {
		return standardize.FlipConversion(r)
	}
	return nil
}

// sameName reports whether prev and current are the same fragment's
// two ends: byte-equal over the first len(name)-suffixLen bytes of
// each name.
func sameName(prev, current *sam.Record, suffixLen int) bool {
	p, c := prev.Name, current.Name
	if len(p) <= suffixLen || len(c) <= suffixLen {
		return p == c
	}
	return p[:len(p)-suffixLen] == c[:len(c)-suffixLen]
}
