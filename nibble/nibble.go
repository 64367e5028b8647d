package nibble

// complement4 maps a 4-bit IUPAC nucleotide code, in the encoding
// github.com/biogo/hts/sam uses for sam.Doublet (0='=', 1=A, 2=C, 4=G,
// 8=T, 15=N, with the remaining values the two- and three-base
// ambiguity codes), to its complement.
var complement4 = [16]byte{
	0x0, 0x8, 0x4, 0xc, 0x2, 0xa, 0x6, 0xe,
	0x1, 0x9, 0x5, 0xd, 0x3, 0xb, 0x7, 0xf,
}

// Table maps a byte packing two 4-bit bases (hi, lo) to the byte
// (complement(lo), complement(hi)): complementing each base and
// swapping their order within the byte, the way RevComp needs when it
// walks a packed buffer from both ends toward the middle.
var Table [256]byte

func init() {
	for b := 0; b < 256; b++ {
		hi := byte(b) >> 4
		lo := byte(b) & 0xf
		Table[b] = complement4[lo]<<4 | complement4[hi]
	}
}

// RevComp reverse-complements a 4-bit-per-base packed buffer in
// place. qlen is the number of bases packed into seq; len(seq) must
// equal (qlen+1)/2.
func RevComp(seq []byte, qlen int) {
	n := (qlen + 1) / 2
	for p1, p2 := 0, n-1; p1 <= p2; p1, p2 = p1+1, p2-1 {
		if p1 == p2 {
			seq[p1] = Table[seq[p1]]
		} else {
			seq[p1], seq[p2] = Table[seq[p2]], Table[seq[p1]]
		}
	}
	if qlen%2 == 1 {
		// The byte-level swap above leaves the low nibble of the new
		// last byte holding the high nibble that belongs one position
		// earlier; slide every byte left by a nibble to fix it.
		for i := 0; i < n-1; i++ {
			seq[i] = (seq[i] << 4) | (seq[i+1] >> 4)
		}
		seq[n-1] <<= 4
	}
}

// MergeByByte writes the first aUsed bases of a, then the reverse
// complement of b's bLen bases, into dst. dst must already be sized
// to hold ceil((aUsed+bLen)/2) bytes. a and b are left untouched.
//
// This implements the four-case parity matrix required when the
// junction between a's contribution and b's reverse-complemented
// contribution does or does not land on a byte boundary.
func MergeByByte(dst, a []byte, aUsed int, b []byte, bLen int) {
	aOdd := aUsed%2 == 1
	bOdd := bLen%2 == 1
	cOdd := (aUsed+bLen)%2 == 1

	aBytes := (aUsed + 1) / 2
	bBytes := (bLen + 1) / 2

	copy(dst[:aBytes], a[:aBytes])

	if aOdd {
		dst[aBytes-1] &= 0xf0
		if bOdd {
			dst[aBytes-1] |= Table[b[bBytes-1]]
		} else {
			dst[aBytes-1] |= Table[b[bBytes-1]] >> 4
		}
	}

	if cOdd {
		for i := 0; i < bBytes-1; i++ {
			dst[aBytes+i] = (Table[b[bBytes-1-i]] << 4) | (Table[b[bBytes-2-i]] >> 4)
		}
		dst[aBytes+bBytes-1] = Table[b[0]] << 4
		return
	}

	offset := 0
	if aOdd && bOdd {
		offset = 1
	}
	for i := 0; i < bBytes-offset; i++ {
		dst[aBytes+i] = Table[b[bBytes-1-i-offset]]
	}
}
