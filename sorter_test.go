package gcis

import (
	"bytes"
	"sort"
	"testing"
)

// naiveReverseLexOrder sorts indices by the reverse-lexicographic order
// of the expansions described by (pos, len) pairs read as substrings of
// revSource (rev(T) for rules, T for suffixes), exactly the reference
// comparison spec.md §8's "Sort correctness" property calls for.
func naiveReverseLexOrder(revSource []byte, recs []SuffixInfo) []int {
	idx := make([]int, len(recs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := recs[idx[a]], recs[idx[b]]
		return bytes.Compare(revSource[ra.Pos:ra.Pos+ra.Len], revSource[rb.Pos:rb.Pos+rb.Len]) < 0
	})
	return idx
}

func TestSortSuffixesMatchesNaiveOrder(t *testing.T) {
	text := []byte("mississippi\x00")
	var recs []SuffixInfo
	for i := 0; i < len(text); i++ {
		recs = append(recs, SuffixInfo{ID: i, Pos: i, Len: len(text) - i})
	}

	naive := naiveReverseLexOrder(text, recs)

	sorted, err := SortSuffixes(text, recs)
	if err != nil {
		t.Fatalf("SortSuffixes: %v", err)
	}
	if len(sorted) != len(recs) {
		t.Fatalf("len(sorted) = %d, want %d", len(sorted), len(recs))
	}
	for i, id := range naive {
		if sorted[i].ID != recs[id].ID {
			t.Errorf("position %d: sorted ID = %d, want %d", i, sorted[i].ID, recs[id].ID)
		}
	}
}

func TestSortRulesUsesReversedText(t *testing.T) {
	text := []byte("abcabc\x00")
	rev := reverseBytes(text)

	var recs []RuleInfo
	for i := 0; i < len(rev); i++ {
		recs = append(recs, RuleInfo{ID: i, Pos: i, Len: len(rev) - i})
	}

	naive := naiveReverseLexOrder(rev, toSuffixInfos(recs))
	sorted, err := SortRules(text, recs)
	if err != nil {
		t.Fatalf("SortRules: %v", err)
	}
	for i, id := range naive {
		if sorted[i].ID != recs[id].ID {
			t.Errorf("position %d: sorted ID = %d, want %d", i, sorted[i].ID, recs[id].ID)
		}
	}
}

func toSuffixInfos(rs []RuleInfo) []SuffixInfo {
	out := make([]SuffixInfo, len(rs))
	for i, r := range rs {
		out[i] = SuffixInfo{ID: r.ID, Pos: r.Pos, Len: r.Len}
	}
	return out
}

func TestSortSuffixesStableOnEqualExpansions(t *testing.T) {
	text := []byte("aaaa\x00")
	recs := []SuffixInfo{
		{ID: 0, Pos: 0, Len: 1},
		{ID: 1, Pos: 1, Len: 1},
		{ID: 2, Pos: 2, Len: 1},
	}
	sorted, err := SortSuffixes(text, recs)
	if err != nil {
		t.Fatalf("SortSuffixes: %v", err)
	}
	if len(sorted) != 3 {
		t.Fatalf("len(sorted) = %d, want 3", len(sorted))
	}
	for i, r := range sorted {
		if r.ID != i {
			t.Errorf("position %d: sorted ID = %d, want %d (input order kept for equal expansions)", i, r.ID, i)
		}
	}
}
