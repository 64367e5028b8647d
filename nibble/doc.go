/*Package nibble implements reverse-complement and byte-granular
  concatenation of 4-bit-per-base packed nucleotide buffers, the same
  packing github.com/biogo/hts/sam uses for sam.Seq (upper nibble of
  each byte holds the earlier base; an odd-length sequence leaves the
  low nibble of the final byte unused).

  These operations work directly on the packed bytes rather than
  expanding to one byte per base and re-packing, which matters when
  splicing together the two ends of a merged paired-end fragment: the
  junction between the two reads' packed buffers can land on a byte
  boundary or straddle one, and RevComp/MergeByByte handle both without
  an intermediate allocation proportional to the expanded sequence.
*/
package nibble
