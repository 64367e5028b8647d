package nibble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// pack4 packs a slice of 4-bit codes (one per base) into bytes, upper
// nibble first, matching sam.Doublet's layout.
func pack4(codes []byte) []byte {
	out := make([]byte, (len(codes)+1)/2)
	for i, c := range codes {
		if i%2 == 0 {
			out[i/2] = c << 4
		} else {
			out[i/2] |= c
		}
	}
	return out
}

func unpack4(buf []byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = buf[i/2] >> 4
		} else {
			out[i] = buf[i/2] & 0xf
		}
	}
	return out
}

const (
	A = 1
	C = 2
	G = 4
	T = 8
)

func TestRevCompEvenLength(t *testing.T) {
	seq := pack4([]byte{A, C, G, T})
	RevComp(seq, 4)
	assert.Equal(t, []byte{A, C, G, T}, unpack4(seq, 4))
}

func TestRevCompOddLength(t *testing.T) {
	seq := pack4([]byte{A, C, G})
	RevComp(seq, 3)
	assert.Equal(t, []byte{C, G, T}, unpack4(seq, 3))
}

func TestRevCompSingleBase(t *testing.T) {
	seq := pack4([]byte{A})
	RevComp(seq, 1)
	assert.Equal(t, []byte{T}, unpack4(seq, 1))
}

func TestRevCompIsInvolution(t *testing.T) {
	codes := []byte{A, C, G, T, A, C, G}
	seq := pack4(codes)
	RevComp(seq, len(codes))
	RevComp(seq, len(codes))
	assert.Equal(t, codes, unpack4(seq, len(codes)))
}

// revcomp returns the reverse complement of a slice of 4-bit codes,
// used to compute expected values independently of the code under
// test.
func revcomp(codes []byte) []byte {
	out := make([]byte, len(codes))
	for i, c := range codes {
		out[len(codes)-1-i] = complement(c)
	}
	return out
}

func TestMergeByByteBothEven(t *testing.T) {
	aCodes := []byte{A, C}
	bCodes := []byte{G, T}
	a := pack4(aCodes)
	b := pack4(bCodes)
	dst := make([]byte, 2)
	MergeByByte(dst, a, 2, b, 2)
	assert.Equal(t, append(append([]byte{}, aCodes...), revcomp(bCodes)...), unpack4(dst, 4))
}

func TestMergeByByteAOddBEven(t *testing.T) {
	aCodes := []byte{A, C, G}
	bCodes := []byte{T, T}
	a := pack4(aCodes)
	b := pack4(bCodes)
	dst := make([]byte, (5+1)/2)
	MergeByByte(dst, a, 3, b, 2)
	got := unpack4(dst, 5)
	assert.Equal(t, append(append([]byte{}, aCodes...), revcomp(bCodes)...), got)
}

func TestMergeByByteAEvenBOdd(t *testing.T) {
	aCodes := []byte{A, C}
	bCodes := []byte{G, T, A}
	a := pack4(aCodes)
	b := pack4(bCodes)
	dst := make([]byte, (5+1)/2)
	MergeByByte(dst, a, 2, b, 3)
	got := unpack4(dst, 5)
	assert.Equal(t, append(append([]byte{}, aCodes...), revcomp(bCodes)...), got)
}

func TestMergeByByteBothOdd(t *testing.T) {
	aCodes := []byte{A, C, G}
	bCodes := []byte{T, A, C}
	a := pack4(aCodes)
	b := pack4(bCodes)
	dst := make([]byte, (6+1)/2)
	MergeByByte(dst, a, 3, b, 3)
	got := unpack4(dst, 6)
	assert.Equal(t, append(append([]byte{}, aCodes...), revcomp(bCodes)...), got)
}

func complement(code byte) byte {
	switch code {
	case A:
		return T
	case T:
		return A
	case C:
		return G
	case G:
		return C
	default:
		return code
	}
}
