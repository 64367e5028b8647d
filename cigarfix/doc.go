/*Package cigarfix repairs CIGAR strings that result from splicing two
  alignment records together.

  Splicing can leave a CIGAR in a shape htslib-family tools don't expect:
  an insertion at either external end (should be a soft clip, since
  nothing external to the alignment can be an insertion relative to the
  reference), a soft clip in the interior (should be an insertion, since
  soft clips are only meaningful at the ends of an alignment), or two
  adjacent operations of the same type (should be coalesced into one).
  Repair fixes all three in one call, one pass per kind of fix, and
  returns a possibly shorter Cigar.
*/
package cigarfix
