/*Package matepair classifies and merges the two alignment records of a
  paired-end fragment into one.

  Merge expects its first argument to already be the positive-strand
  mate; callers (the pipeline driver) are responsible for swapping the
  pair into that order before calling in. The four geometric cases —
  non-overlapping, overlapping, perfectly stacked, and dovetailed — are
  distinguished purely from the two records' positions and reference
  spans, then dispatched to the bsrecord splicer constructors.
*/
package matepair
