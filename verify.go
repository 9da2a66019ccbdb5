package gcis

import "bytes"

// VerifySuffixArray checks that sa is a valid, sorted suffix array of
// text: a permutation of 0..n-1 whose induced suffix order is
// non-decreasing. Restored from the original CLI's `#if CHECK`
// suffix_array_check (SPEC_FULL.md §9), wired into the -s/-l/-A CLI
// modes behind a -verify flag rather than always-on, matching the
// original's opt-in.
func VerifySuffixArray(sa []int, text []byte) error {
	n := len(sa)
	if n != len(text) {
		return newCorruptInput("sa", "length mismatch with text")
	}
	seen := make([]bool, n)
	for _, p := range sa {
		if p < 0 || p >= n || seen[p] {
			return newCorruptInput("sa", "not a permutation of [0, n)")
		}
		seen[p] = true
	}
	for i := 1; i < n; i++ {
		if bytes.Compare(text[sa[i-1]:], text[sa[i]:]) > 0 {
			return newCorruptInput("sa", "suffixes out of order")
		}
	}
	return nil
}

// VerifyLCPArray checks that lcp[i] really is the common prefix length
// of the suffixes at adjacent SA ranks i and i+1, under this module's
// lcp.go convention (lcp has length n-1, lcp[i] = lcp(SA[i], SA[i+1])).
func VerifyLCPArray(sa, lcp []int, text []byte) error {
	n := len(sa)
	if len(lcp) != n-1 {
		return newCorruptInput("lcp", "length mismatch with suffix array")
	}
	for i := 0; i < n-1; i++ {
		want := commonPrefixBytes(text[sa[i]:], text[sa[i+1]:])
		if lcp[i] != want {
			return newCorruptInput("lcp", "value does not match adjacent suffixes")
		}
	}
	return nil
}

func commonPrefixBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
