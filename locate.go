package gcis

import (
	"sort"

	"github.com/viniciusth/rmq"
)

// Index is the preparatory locate/count self-index over a single
// decoded text T named in spec.md §1 scope item (d): SA(T), LCP(T), and
// an RMQ oracle over LCP, adapted from
// github.com/viniciusth/suffixset's findBoundaries binary search (which
// does the same thing over a concatenation of case-folded,
// Unicode-normalized words with document-listing on top — none of
// which applies here, since T is a single opaque byte string).
type Index struct {
	text []byte
	sa   []int
	lcp  []int
	q    *rmq.RMQHybridNaive[int]
}

// NewIndex builds a locate/count index over text.
func NewIndex(text []byte) (*Index, error) {
	sa, err := BuildSuffixArray(text)
	if err != nil {
		return nil, err
	}
	lcp := BuildLCPArray(sa, text)
	return &Index{text: text, sa: sa, lcp: lcp, q: rmq.NewRMQHybridNaive(lcp)}, nil
}

// findBoundaries returns the inclusive [l, r] range of SA entries whose
// suffix has pattern as a prefix, or (-1, -1) if there is no match.
// Ported from suffixset.go's findBoundaries, dropping the word-boundary
// and case/normalization handling that don't apply to a single text.
func (idx *Index) findBoundaries(pattern []byte) (int, int) {
	str, sa, lcp, q := idx.text, idx.sa, idx.lcp, idx.q
	n := len(sa)
	bestIdx, best := -1, -1

	expandBest := func(i int) bool {
		bestIdx = i
		j := sa[i]
		for best < len(pattern) && j+best < n && pattern[best] == str[j+best] {
			best++
		}
		switch {
		case best == len(pattern):
			return true
		case j+best == n:
			return false
		default:
			return pattern[best] < str[j+best]
		}
	}

	l := sort.Search(n, func(i int) bool {
		if bestIdx == -1 {
			bestIdx = i
			best = 0
			return expandBest(i)
		}
		lo, hi := bestIdx, i
		if lo > hi {
			lo, hi = hi, lo
		}
		lcpLen := lcp[q.Query(lo, hi-1)]
		if lcpLen < best {
			return i > bestIdx
		}
		return expandBest(i)
	})

	if l == n || best < len(pattern) {
		return -1, -1
	}

	r := sort.Search(n-l, func(i int) bool {
		if i == 0 {
			return false
		}
		lcpLen := lcp[q.Query(l, l+i-1)]
		return lcpLen < len(pattern)
	})

	return l, l + r - 1
}

// Locate returns every starting offset of pattern in T, in ascending
// order.
func (idx *Index) Locate(pattern []byte) []int {
	l, r := idx.findBoundaries(pattern)
	if l == -1 {
		return nil
	}
	out := make([]int, 0, r-l+1)
	for i := l; i <= r; i++ {
		out = append(out, idx.sa[i])
	}
	sort.Ints(out)
	return out
}

// Count returns the number of occurrences of pattern in T.
func (idx *Index) Count(pattern []byte) int {
	l, r := idx.findBoundaries(pattern)
	if l == -1 {
		return 0
	}
	return r - l + 1
}

// Contains reports whether pattern occurs in T at all. It runs the same
// boundary search as Count, including the second binary search for the
// right end of the range.
func (idx *Index) Contains(pattern []byte) bool {
	l, _ := idx.findBoundaries(pattern)
	return l != -1
}
