/*Package pipeline drives the record-by-record state machine that
  walks a name-sorted stream of standardized, paired-end-aware
  alignments: it standardizes each record, recognizes adjacent mate
  pairs by their learned name suffix, merges or passes through
  records, and writes a T-rich-normalized stream to a sink.

  The driver is agnostic to the concrete record source and sink — BAM,
  SAM, or an in-memory fixture — through the small RecordSource and
  RecordSink interfaces.
*/
package pipeline
