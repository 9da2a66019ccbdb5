package gcis

import (
	"sort"

	"github.com/viniciusth/rmq"
)

// RuleInfo is a `{id, pos, len}` record for one non-terminal, with pos a
// position in rev(T) (spec.md §4.8): the reverse-lex sort compares rule
// expansions by their lexicographic order read backwards, which is
// exactly forward lexicographic order of their occurrence in rev(T).
type RuleInfo struct {
	ID  int
	Pos int
	Len int
}

// SuffixInfo is the `suffix_info` specialization of spec.md §4.8: same
// shape as RuleInfo, but Pos is a position directly in T (no reversal).
type SuffixInfo struct {
	ID  int
	Pos int
	Len int
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

// rmqContext bundles the ISA/LCP/RMQ oracle built once over a byte
// string and shared by every comparison in the sort that follows,
// matching spec.md §4.8 steps 2-5.
type rmqContext struct {
	isa []int
	lcp []int
	q   *rmq.RMQHybridNaive[int]
}

func buildRMQContext(s []byte) (*rmqContext, error) {
	sa, err := BuildSuffixArray(s)
	if err != nil {
		return nil, err
	}
	isa := make([]int, len(sa))
	for rank, p := range sa {
		isa[p] = rank
	}
	lcp := BuildLCPArray(sa, s)
	return &rmqContext{isa: isa, lcp: lcp, q: rmq.NewRMQHybridNaive(lcp)}, nil
}

// lcpBetweenRanks returns lcp(SA[ia], SA[ib]) via RMQ over lcp.go's
// Kasai convention, where lcp[k] = lcp(SA[k], SA[k+1]); the common
// prefix of the suffixes at ranks ia < ib is min(lcp[ia..ib-1]), so the
// query range is [ia, ib-1] (this module's lcp.go layout, not the
// 1-indexed "min+1..max" phrasing spec.md §9 uses for a different array
// convention — same correction, expressed against the array this
// module actually builds; see DESIGN.md).
func (c *rmqContext) lcpBetweenRanks(ia, ib int) int {
	if ia == ib {
		return len(c.lcp) // shared position: unboundedly equal prefix
	}
	lo, hi := ia, ib
	if lo > hi {
		lo, hi = hi, lo
	}
	return c.lcp[c.q.Query(lo, hi-1)]
}

// compare implements the decision rule of spec.md §4.8: if either
// record's length doesn't exceed the shared prefix, one expansion is a
// prefix of the other, so the shorter one is smaller and equal lengths
// compare equal; otherwise order by suffix rank.
func (c *rmqContext) compare(aPos, aLen, bPos, bLen int) int {
	if aPos == bPos {
		switch {
		case aLen < bLen:
			return -1
		case aLen > bLen:
			return 1
		default:
			return 0
		}
	}
	ia, ib := c.isa[aPos], c.isa[bPos]
	l := c.lcpBetweenRanks(ia, ib)
	switch {
	case aLen <= l || bLen <= l:
		switch {
		case aLen < bLen:
			return -1
		case aLen > bLen:
			return 1
		default:
			return 0
		}
	case ia < ib:
		return -1
	default:
		return 1
	}
}

// SortRules reverse-lexicographically sorts rule records by expansion,
// per spec.md §4.8: build rev(T), its SA/ISA/LCP/RMQ, compare by the
// corrected formulation, sort, then let rev(T)/SA/LCP/RMQ go out of
// scope (spec.md §5's "freed as soon as RMQ is built" / §9's note about
// not retaining SA — nothing here is retained either way, matching the
// Go GC contract documented in DESIGN.md).
func SortRules(text []byte, infos []RuleInfo) ([]RuleInfo, error) {
	rev := reverseBytes(text)
	ctx, err := buildRMQContext(rev)
	if err != nil {
		return nil, err
	}
	sorted := append([]RuleInfo(nil), infos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return ctx.compare(sorted[i].Pos, sorted[i].Len, sorted[j].Pos, sorted[j].Len) < 0
	})
	return sorted, nil
}

// SortSuffixes is the suffix_info specialization of SortRules: same
// comparator, built over T directly instead of rev(T).
func SortSuffixes(text []byte, infos []SuffixInfo) ([]SuffixInfo, error) {
	ctx, err := buildRMQContext(text)
	if err != nil {
		return nil, err
	}
	sorted := append([]SuffixInfo(nil), infos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return ctx.compare(sorted[i].Pos, sorted[i].Len, sorted[j].Pos, sorted[j].Len) < 0
	})
	return sorted, nil
}
