package pipeline

import (
	"context"
	"io"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	records []*sam.Record
	i       int
}

func (s *sliceSource) Read() (*sam.Record, error) {
	if s.i >= len(s.records) {
		return nil, io.EOF
	}
	r := s.records[s.i]
	s.i++
	return r, nil
}

type sliceSink struct {
	records []*sam.Record
}

func (s *sliceSink) Write(r *sam.Record) error {
	s.records = append(s.records, r)
	return nil
}

// identityStandardizer sets CV to 'T' and leaves everything else alone,
// since Driver.Run requires the aux shape flipIfARich depends on.
type identityStandardizer struct{}

func (identityStandardizer) Standardize(r *sam.Record) error {
	cvTag := sam.NewTag("CV")
	a, err := sam.NewAux(cvTag, byte('T'))
	if err != nil {
		return err
	}
	r.AuxFields = append(r.AuxFields, a)
	return nil
}

func rec(name string, pos int, cigar sam.Cigar, flags sam.Flags, ref *sam.Reference, mateRef *sam.Reference, matePos int) *sam.Record {
	return &sam.Record{Name: name, Pos: pos, Cigar: cigar, Flags: flags, Ref: ref, MateRef: mateRef, MatePos: matePos, Seq: sam.NewSeq([]byte("ACGT"))}
}

func TestDriverRunMergesMatesIntoOne(t *testing.T) {
	ref := &sam.Reference{}
	one := rec("r", 100, sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 60)}, sam.Paired|sam.Read1, ref, ref, 100)
	two := rec("r", 100, sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 50)}, sam.Paired|sam.Read2|sam.Reverse, ref, ref, 100)

	src := &sliceSource{records: []*sam.Record{one, two}}
	sink := &sliceSink{}
	d := &Driver{SuffixLen: 0, MaxFragLen: 10000, Standardize: identityStandardizer{}}

	require.NoError(t, d.Run(context.Background(), src, sink))
	require.Len(t, sink.records, 1)
	require.Equal(t, "r", sink.records[0].Name)
}

func TestDriverRunPassesThroughUnrelatedRecords(t *testing.T) {
	ref := &sam.Reference{}
	a := rec("a", 100, sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 10)}, 0, ref, nil, -1)
	b := rec("b", 200, sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 10)}, 0, ref, nil, -1)

	src := &sliceSource{records: []*sam.Record{a, b}}
	sink := &sliceSink{}
	d := &Driver{SuffixLen: 0, MaxFragLen: 10000, Standardize: identityStandardizer{}}

	require.NoError(t, d.Run(context.Background(), src, sink))
	require.Len(t, sink.records, 2)
	require.Equal(t, "a", sink.records[0].Name)
	require.Equal(t, "b", sink.records[1].Name)
}

func TestDriverRunEmptyStreamIsError(t *testing.T) {
	src := &sliceSource{}
	sink := &sliceSink{}
	d := &Driver{SuffixLen: 0, MaxFragLen: 10000, Standardize: identityStandardizer{}}

	err := d.Run(context.Background(), src, sink)
	require.Error(t, err)
}

func TestDriverRunSingleEndSkipsMerging(t *testing.T) {
	ref := &sam.Reference{}
	one := rec("r", 100, sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 60)}, sam.Paired|sam.Read1, ref, ref, 100)
	two := rec("r", 100, sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 50)}, sam.Paired|sam.Read2|sam.Reverse, ref, ref, 100)

	src := &sliceSource{records: []*sam.Record{one, two}}
	sink := &sliceSink{}
	d := &Driver{SingleEnd: true, Standardize: identityStandardizer{}}

	require.NoError(t, d.Run(context.Background(), src, sink))
	require.Len(t, sink.records, 2)
}

func TestDriverRunRejectsMergeOverMaxFragLen(t *testing.T) {
	ref := &sam.Reference{}
	one := rec("r", 100, sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 60)}, sam.Paired|sam.Read1, ref, ref, 100)
	two := rec("r", 100, sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 50)}, sam.Paired|sam.Read2|sam.Reverse, ref, ref, 100)

	src := &sliceSource{records: []*sam.Record{one, two}}
	sink := &sliceSink{}
	d := &Driver{SuffixLen: 0, MaxFragLen: 10, Standardize: identityStandardizer{}}

	require.NoError(t, d.Run(context.Background(), src, sink))
	require.Len(t, sink.records, 2)
}
