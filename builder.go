package gcis

import "sort"

// Level is the raw (pre-serialization) form of one grammar level: the
// distinct right-hand sides introduced at this level, sorted
// non-decreasing (spec.md §3's "Per-level compact representation"), and
// the id of the first rule in the level. Rule ids within a level are
// Base, Base+1, ..., Base+len(Rules)-1, in sorted order.
type Level struct {
	Rules [][]int
	Base  int
}

// Grammar is the straight-line grammar induced from a text, before the
// index overlay is built. Symbol values < 256 are terminals (byte
// values); values >= 256 are non-terminal ids, assigned level by level,
// in rule-sorted order within each level. Xs is the id of the top rule,
// always the numerically last id assigned.
type Grammar struct {
	Levels   []Level
	Top      []int
	Xs       int
	TextSize []int // TextSize[0] = len(T); TextSize[i] = len(S_i) for level i >= 1
}

// TotalRules returns the size of π: 1 (top) + 256 (terminals) + the
// number of non-terminals introduced across all levels.
func (g *Grammar) TotalRules() int { return g.Xs + 1 }

// IsTerminal reports whether a symbol id is a terminal (byte value).
func IsTerminal(sym int) bool { return sym < 256 }

// RuleRHS returns the right-hand side of non-terminal id. Panics if id is
// a terminal (terminals have no rule).
func (g *Grammar) RuleRHS(id int) []int {
	if id == g.Xs {
		return g.Top
	}
	for i := range g.Levels {
		lv := &g.Levels[i]
		if id >= lv.Base && id < lv.Base+len(lv.Rules) {
			return lv.Rules[id-lv.Base]
		}
	}
	panic("gcis: RuleRHS called on a terminal or unknown id")
}

// BuildGrammar runs the GCIS construction of spec.md §4.4: repeated
// LMS-substring induced reduction until the current level's sequence
// collapses to a single top rule.
//
// Each level classifies its sequence and finds LMS positions via
// ClassifyLMSTypes/FindLMSPositions (sais.go): the bucket-based induced sort
// there is written, and tightly coupled, to producing a full suffix array
// via recursion over a fixed-size alphabet, so the per-level dedupe-and-sort-
// then-reduce pass here runs on top of that shared LMS primitive rather than
// through the bucket machinery itself; see DESIGN.md for why the bucket-level
// plumbing past LMS detection is not reused.
func BuildGrammar(text []byte) (*Grammar, error) {
	seq := make([]int, len(text))
	for i, b := range text {
		seq[i] = int(b)
	}

	g := &Grammar{TextSize: []int{len(text)}}
	base := 256

	for {
		lms := FindLMSPositions(seq)
		if len(lms) <= 1 || len(seq) <= 1 {
			g.Top = append([]int(nil), seq...)
			g.Xs = base
			return g, nil
		}

		segments := partitionSegments(seq, lms)

		var multi [][]int
		for _, s := range segments {
			if len(s) >= 2 {
				multi = append(multi, s)
			}
		}
		sortedKeys, keyToSubstring := dedupeAndSort(multi)

		idOf := make(map[string]int, len(sortedKeys))
		rules := make([][]int, len(sortedKeys))
		for i, k := range sortedKeys {
			idOf[k] = i
			rules[i] = keyToSubstring[k]
		}

		reduced := make([]int, len(segments))
		for i, s := range segments {
			if len(s) == 1 {
				// A length-1 segment is already a single existing symbol
				// (terminal or non-terminal); reusing its id in place
				// keeps every minted rule at the required length >= 2 and
				// this is what makes the tail segment (which always ends
				// at the current sequence's sentinel-carrying symbol,
				// propagated unchanged level to level) a no-op passthrough
				// rather than a spurious one-symbol rule.
				reduced[i] = s[0]
				continue
			}
			reduced[i] = base + idOf[encodeIntKey(s)]
		}

		g.Levels = append(g.Levels, Level{Rules: rules, Base: base})
		base += len(rules)
		seq = reduced
		g.TextSize = append(g.TextSize, len(seq))
	}
}

// partitionSegments tiles seq into non-overlapping, gap-free runs: a head
// run from 0 up to the first LMS position, then a run between each pair
// of consecutive LMS positions, then a tail run from the last LMS
// position to the end. Concatenating the runs in order reproduces seq
// exactly, which is what lets Decode reconstruct T by plain concatenation
// of rule expansions instead of needing to undo any shared boundary
// symbol. Head and tail runs may have length 1 (a bare existing symbol,
// including the sentinel); every run strictly between two LMS positions
// has length >= 2, per FindLMSPositions' spacing guarantee.
func partitionSegments(seq []int, lms []int) [][]int {
	bounds := make([]int, 0, len(lms)+2)
	bounds = append(bounds, 0)
	bounds = append(bounds, lms...)
	bounds = append(bounds, len(seq))

	out := make([][]int, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		start, end := bounds[i], bounds[i+1]
		sub := make([]int, end-start)
		copy(sub, seq[start:end])
		out[i] = sub
	}
	return out
}

// dedupeAndSort returns the sorted set of distinct encoded substrings and
// a map back to the decoded []int form. Sorting by the big-endian encoded
// key is equivalent to lexicographic sorting of the int sequences,
// because fixed-width big-endian encoding of non-negative integers is
// order-preserving.
func dedupeAndSort(substrings [][]int) ([]string, map[string][]int) {
	seen := make(map[string][]int)
	for _, s := range substrings {
		k := encodeIntKey(s)
		if _, ok := seen[k]; !ok {
			seen[k] = s
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, seen
}

// encodeIntKey packs a []int into a fixed-width (4 bytes/symbol)
// big-endian string, used both for map-keying and for order-preserving
// comparison.
func encodeIntKey(s []int) string {
	buf := make([]byte, 4*len(s))
	for i, v := range s {
		buf[4*i] = byte(v >> 24)
		buf[4*i+1] = byte(v >> 16)
		buf[4*i+2] = byte(v >> 8)
		buf[4*i+3] = byte(v)
	}
	return string(buf)
}
