/*Package suffix learns how much of a read name is a per-mate suffix
  (the part that differs between the two ends of a fragment, such as
  a trailing "/1"/"/2" or ".1"/".2") from a sample of names drawn from
  the head of a sorted stream, and verifies that the learned or
  user-supplied length actually groups mates adjacently once applied.
*/
package suffix
