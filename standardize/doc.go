/*Package standardize normalizes records from the four supported
  bisulfite aligners into the single aux-tag shape the rest of the
  pipeline expects: an NM (mismatch count) and a CV (conversion, 'A'
  or 'T') tag. bsmap and bismark records are rewritten to carry
  exactly those two tags, every other aligner-specific tag dropped;
  abismal and walt records already carry them and their aux tags are
  left as they are. Base qualities are blanked for every format, since
  they carry no signal past this point.
*/
package standardize
