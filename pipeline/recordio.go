package pipeline

import "github.com/biogo/hts/sam"

// samReader is implemented by both github.com/biogo/hts/sam.Reader and
// github.com/biogo/hts/bam.Reader, letting the same adapter wrap
// either container format.
type samReader interface {
	Read() (*sam.Record, error)
}

// samWriter is implemented by both github.com/biogo/hts/sam.Writer and
// github.com/biogo/hts/bam.Writer.
type samWriter interface {
	Write(*sam.Record) error
}

// SourceFrom adapts a biogo/hts sam/bam reader into a RecordSource.
func SourceFrom(r samReader) RecordSource {
	return recordSource{r}
}

type recordSource struct {
	r samReader
}

func (s recordSource) Read() (*sam.Record, error) {
	return s.r.Read()
}

// SinkTo adapts a biogo/hts sam/bam writer into a RecordSink.
func SinkTo(w samWriter) RecordSink {
	return recordSink{w}
}

type recordSink struct {
	w samWriter
}

func (s recordSink) Write(r *sam.Record) error {
	return s.w.Write(r)
}
