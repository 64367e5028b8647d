/*Package bsrecord builds new sam.Record values by splicing together
  two existing, position-overlapping records: a positive-strand mate
  "a" and a negative-strand mate "b" (or, for TruncateOverlap, a single
  record truncated to a reference span).

  The three constructors here — TruncateOverlap, MergeOverlap, and
  MergeNonOverlap — never mutate their inputs; each returns a freshly
  built record so a caller holding references to "a" and "b" can keep
  using them (the pipeline driver needs this when a merge is rejected
  for exceeding the maximum fragment length and both mates must still
  be emitted individually).
*/
package bsrecord
