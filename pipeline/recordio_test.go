package pipeline

import (
	"io"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	records []*sam.Record
	i       int
}

func (f *fakeReader) Read() (*sam.Record, error) {
	if f.i >= len(f.records) {
		return nil, io.EOF
	}
	r := f.records[f.i]
	f.i++
	return r, nil
}

type fakeWriter struct {
	records []*sam.Record
}

func (f *fakeWriter) Write(r *sam.Record) error {
	f.records = append(f.records, r)
	return nil
}

func TestSourceFromAdaptsReader(t *testing.T) {
	want := &sam.Record{Name: "r"}
	src := SourceFrom(&fakeReader{records: []*sam.Record{want}})
	got, err := src.Read()
	require.NoError(t, err)
	require.Same(t, want, got)
}

func TestSinkToAdaptsWriter(t *testing.T) {
	w := &fakeWriter{}
	sink := SinkTo(w)
	r := &sam.Record{Name: "r"}
	require.NoError(t, sink.Write(r))
	require.Len(t, w.records, 1)
	require.Same(t, r, w.records[0])
}
