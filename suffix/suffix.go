package suffix

import (
	"errors"
	"fmt"

	farm "github.com/dgryski/go-farm"
)

// ErrNoValidSuffix is returned when no suffix length up to the
// shortest sampled name produces a repeat count below 2 — the sample
// does not look mate-paired at all.
var ErrNoValidSuffix = errors.New("suffix: no suffix length groups names into mate pairs")

// ErrSuffixTooLong is returned when a user-supplied suffix length is
// not strictly shorter than the shortest sampled name.
var ErrSuffixTooLong = errors.New("suffix: suffix length exceeds shortest sampled name")

// ErrMatesNotAdjacent is returned by CheckAdjacent when a stripped
// name reappears somewhere other than immediately after its first
// occurrence, meaning the stream is not grouped by mate pair.
var ErrMatesNotAdjacent = errors.New("suffix: mates are not adjacent in the stream")

// Guess learns the suffix length from names, which the caller must
// already have sorted. It tries suffix lengths 0, 1, 2, ... up to one
// less than the shortest name, returning the first length whose
// MaxRepeatCount is at least 1. The accompanying repeatCount is that
// length's MaxRepeatCount; a repeatCount of 2 or more means the
// stream does not look mate-paired at this or any longer suffix
// length (three or more reads would mutually look like mates), and
// the caller should treat the guess as unusable.
func Guess(names []string) (suffLen int, repeatCount int) {
	maxSuffLen := minLen(names) - 1

	suffLen = 0
	repeatCount = 0
	for suffLen <= maxSuffLen && repeatCount == 0 {
		repeatCount = MaxRepeatCount(names, suffLen)
		if repeatCount == 0 {
			suffLen++
		}
	}
	return suffLen, repeatCount
}

// Verify checks that a user-supplied suffLen is usable: strictly
// shorter than the shortest sampled name, and producing a
// MaxRepeatCount below 2.
func Verify(names []string, suffLen int) error {
	if suffLen >= minLen(names) {
		return fmt.Errorf("%w: suffix length %d", ErrSuffixTooLong, suffLen)
	}
	if MaxRepeatCount(names, suffLen) >= 2 {
		return fmt.Errorf("%w: suffix length %d", ErrNoValidSuffix, suffLen)
	}
	return nil
}

// MaxRepeatCount measures the longest run of consecutive names (in
// sorted order) that share both a length and a prefix of
// len(name)-suffLen bytes, counting each name that matches its
// predecessor: a mate pair counts 1, three such names count 2, and
// names that match no neighbour count 0. The scan stops early once the running
// count reaches 2, since that alone is enough to show suffLen is too
// long; the returned value need not be the true maximum in that case.
func MaxRepeatCount(names []string, suffLen int) int {
	repeatCount := 0
	tmp := 0
	for i := 1; i < len(names) && repeatCount < 2; i++ {
		prev, cur := names[i-1], names[i]
		if len(prev) == len(cur) && prev[:len(prev)-suffLen] == cur[:len(cur)-suffLen] {
			tmp++
		} else {
			tmp = 0
		}
		if tmp > repeatCount {
			repeatCount = tmp
		}
	}
	return repeatCount
}

// CheckAdjacent strips suffLen bytes from every name in names (in
// stream order, not necessarily sorted) and confirms that any name
// appearing more than once appears only immediately after its first
// occurrence — the shape a stream produces when every mate pair is
// adjacent. It hashes stripped names with farm.Hash64 to avoid an
// O(n) string key on every lookup for large samples; a hash
// collision cannot produce a false pass, since the full stripped name
// is compared before accepting a match.
func CheckAdjacent(names []string, suffLen int) error {
	type seen struct {
		name string
		idx  int
	}
	first := make(map[uint64][]seen, len(names))

	for i, name := range names {
		stripped := removeSuffix(name, suffLen)
		h := farm.Hash64([]byte(stripped))

		bucket := first[h]
		matched := -1
		for _, s := range bucket {
			if s.name == stripped {
				matched = s.idx
				break
			}
		}
		if matched < 0 {
			first[h] = append(bucket, seen{stripped, i})
			continue
		}
		if matched != i-1 {
			return fmt.Errorf("%w: %q at index %d and %d", ErrMatesNotAdjacent, stripped, matched, i)
		}
	}
	return nil
}

func removeSuffix(s string, suffLen int) string {
	if len(s) > suffLen {
		return s[:len(s)-suffLen]
	}
	return s
}

func minLen(names []string) int {
	min := -1
	for _, n := range names {
		if min < 0 || len(n) < min {
			min = len(n)
		}
	}
	if min < 0 {
		return 0
	}
	return min
}
