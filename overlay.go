package gcis

// Overlay is the index overlay of spec.md §3/§4.7: the depth-first
// traversal of the expanded grammar tree, producing the permutation π,
// the DFUDS tree encoding, the first-occurrence and leaf bit vectors,
// the wavelet tree over repeated non-terminals, and the per-rule /
// per-leaf expansion-position bookkeeping that the reverse-lex sorter
// consumes.
type Overlay struct {
	Pi    []int // Pi[slot] = rule id
	PiInv []int // PiInv[id] = slot, -1 if unvisited (never happens for a well-formed grammar)

	Focc *SparseBitVector
	L    *SparseBitVector
	T    *SparseBitVector // terminal-leaf marker, named `t` in spec.md §3

	BVDfuds *DenseBitVector

	WT  *WaveletTree
	Str []byte

	RulesDerivation *BitVector
	RulesPos        []int
	RulesExpansionLen []int
	RulesExpansionPos []int

	SuffixesExpansionPos []int
	PrevRule             []int

	// Rules is spec.md §3's `rules[]`: one {id, pos, len} record per
	// non-terminal (plus the top rule), reverse-lexicographically sorted
	// by expansion — the array the overlay DFS is "followed by" per
	// spec.md §1 item 3.
	Rules []RuleInfo
}

// BuildOverlay runs the preorder DFS of spec.md §4.7 over g, rooted at
// the top rule, using text (= g.Decode(), passed in rather than
// recomputed so callers that already have T don't pay for it twice),
// then reverse-lexicographically sorts the rule array per spec.md §4.8.
func BuildOverlay(g *Grammar, text []byte) (*Overlay, error) {
	total := g.TotalRules()
	lens := g.ExpansionLengths()

	pi := make([]int, total)
	piInv := make([]int, total)
	for i := range piInv {
		piInv[i] = -1
	}
	pi[0] = g.Xs
	piInv[g.Xs] = 0
	for b := 0; b < 256; b++ {
		pi[1+b] = b
		piInv[b] = 1 + b
	}
	piIdx := 257

	ov := &Overlay{
		Pi:                pi,
		PiInv:             piInv,
		RulesExpansionLen: lens,
		RulesExpansionPos: make([]int, total),
	}

	n := len(text)
	lBits := make([]bool, n)

	// π slots 0 (top rule) and 1..256 (terminals) are pre-seeded above, so
	// their focc bits are pre-seeded as first occurrences too.
	foccBits := make([]bool, 257)
	for i := range foccBits {
		foccBits[i] = true
	}
	var tBits []bool
	var bvBits []bool
	var wtSeq []int
	var suffixesExpansionPos, prevRule []int

	// walk visits symbol as a child occurrence starting at byte offset
	// `offset` in text, and is called once per edge of the grammar tree
	// (plus once for the synthetic root edge into the top rule).
	var walk func(symbol, offset, prevSibling int)
	walk = func(symbol, offset, prevSibling int) {
		suffixesExpansionPos = append(suffixesExpansionPos, offset)
		prevRule = append(prevRule, prevSibling)

		if IsTerminal(symbol) {
			tBits = append(tBits, true)
			ov.Str = append(ov.Str, byte(symbol))
			foccBits = append(foccBits, false)
			bvBits = append(bvBits, false)
			lBits[offset] = true
			return
		}

		if piInv[symbol] == -1 || symbol == g.Xs {
			if symbol != g.Xs {
				piInv[symbol] = piIdx
				pi[piIdx] = symbol
				piIdx++
				foccBits = append(foccBits, true)
			}

			rhs := g.RuleRHS(symbol)
			for k := 0; k < len(rhs); k++ {
				bvBits = append(bvBits, true)
			}
			bvBits = append(bvBits, false)

			childOffset := offset
			prevChild := -1
			for _, child := range rhs {
				walk(child, childOffset, prevChild)
				prevChild = child
				childOffset += lens[child]
			}
			ov.RulesExpansionPos[symbol] = offset
			return
		}

		// non-first occurrence: a collapsed leaf in the DFS tree.
		wtSeq = append(wtSeq, symbol)
		bvBits = append(bvBits, false)
		foccBits = append(foccBits, false)
		tBits = append(tBits, false)
		lBits[offset] = true
	}

	walk(g.Xs, 0, -1)

	ov.Pi = pi
	ov.PiInv = piInv
	ov.Focc = NewSparseBitVectorFromBits(foccBits)
	ov.L = NewSparseBitVectorFromBits(lBits)
	ov.T = NewSparseBitVectorFromBits(tBits)
	ov.BVDfuds = NewDenseBitVectorFromBits(bvBits)
	ov.SuffixesExpansionPos = suffixesExpansionPos
	ov.PrevRule = prevRule

	alphabetBits := widthFor(uint64(total))
	ov.WT = BuildWaveletTree(wtSeq, alphabetBits)

	ov.RulesDerivation, ov.RulesPos = buildRulesDerivation(g, total)

	sortedRules, err := SortRules(text, rulePositionsInRevText(g, ov, n))
	if err != nil {
		return nil, err
	}
	ov.Rules = sortedRules

	return ov, nil
}

// rulePositionsInRevText builds the {id, pos, len} records SortRules
// expects: pos is where the rule's expansion appears in rev(T), derived
// from its forward position in T (RulesExpansionPos/RulesExpansionLen)
// via pos_rev = n - pos_fwd - len, the same mapping original_source's
// sorter documents ("Starting position in the rev(text) of the rule's
// expansion"). Covers every non-terminal id plus the top rule, matching
// spec.md §3's `rules[]` definition ("one per non-terminal, plus the top
// rule").
func rulePositionsInRevText(g *Grammar, ov *Overlay, n int) []RuleInfo {
	infos := make([]RuleInfo, 0, g.Xs-256+1)
	for r := 256; r <= g.Xs; r++ {
		l := ov.RulesExpansionLen[r]
		p := ov.RulesExpansionPos[r]
		infos = append(infos, RuleInfo{ID: r, Pos: n - p - l, Len: l})
	}
	return infos
}

// buildRulesDerivation concatenates every non-terminal's (and the top
// rule's) right-hand side, full and un-factored, per spec.md §3's
// `rules_derivation`/`rules_pos`. Terminal ids (< 256) contribute a
// zero-length span so rules_pos stays indexable over the full [0,
// total_rules] id range.
func buildRulesDerivation(g *Grammar, total int) (*BitVector, []int) {
	w := widthFor(uint64(total))
	pos := make([]int, total+1)
	var flat []int
	for r := 0; r < total; r++ {
		pos[r] = len(flat)
		if IsTerminal(r) {
			continue
		}
		flat = append(flat, g.RuleRHS(r)...)
	}
	pos[total] = len(flat)

	bv := NewBitVector(len(flat), w)
	for i, v := range flat {
		bv.Set(i, uint64(v))
	}
	return bv, pos
}

// WaveletTree answers access/rank/select over a sequence of small
// non-negative integers via a balanced bit-plane decomposition, in the
// shape of sniperkit-xrank's wltree.go (other_examples) but built
// directly on this module's own DenseBitVector rather than an external
// bitvector/huffman package.
type WaveletTree struct {
	levels []*DenseBitVector // MSB-first
	bits   int
	n      int
}

// BuildWaveletTree builds a wavelet tree over seq, whose values are
// assumed to fit in `bits` bits.
func BuildWaveletTree(seq []int, bits int) *WaveletTree {
	wt := &WaveletTree{bits: bits, n: len(seq)}
	if bits == 0 {
		return wt
	}
	cur := append([]int(nil), seq...)
	wt.levels = make([]*DenseBitVector, bits)
	for lvl := 0; lvl < bits; lvl++ {
		shift := uint(bits - 1 - lvl)
		marks := make([]bool, len(cur))
		zeros := make([]int, 0, len(cur))
		ones := make([]int, 0, len(cur))
		for i, v := range cur {
			if (v>>shift)&1 == 1 {
				marks[i] = true
				ones = append(ones, v)
			} else {
				zeros = append(zeros, v)
			}
		}
		wt.levels[lvl] = NewDenseBitVectorFromBits(marks)
		cur = append(zeros, ones...)
	}
	return wt
}

// Access returns the value at position i of the original sequence.
func (wt *WaveletTree) Access(i int) int {
	pos := i
	val := 0
	for lvl := 0; lvl < wt.bits; lvl++ {
		bv := wt.levels[lvl]
		val <<= 1
		if bv.Bit(pos) {
			val |= 1
			zeros := bv.Len() - bv.Ones()
			pos = zeros + bv.Rank1(pos)
		} else {
			pos = bv.Rank0(pos)
		}
	}
	return val
}

// Rank returns the number of occurrences of symbol in positions [0, i).
func (wt *WaveletTree) Rank(i, symbol int) int {
	lo, hi := 0, i
	for lvl := 0; lvl < wt.bits; lvl++ {
		bv := wt.levels[lvl]
		bit := (symbol >> uint(wt.bits-1-lvl)) & 1
		if bit == 1 {
			zeros := bv.Len() - bv.Ones()
			lo = zeros + bv.Rank1(lo)
			hi = zeros + bv.Rank1(hi)
		} else {
			lo = bv.Rank0(lo)
			hi = bv.Rank0(hi)
		}
	}
	return hi - lo
}

// Select returns the position of the k-th (1-indexed) occurrence of
// symbol, found by binary search over Rank since no dedicated select
// index is kept per level (spec.md §4.2's "implementation freedom").
func (wt *WaveletTree) Select(k, symbol int) int {
	lo, hi := 0, wt.n
	for lo < hi {
		mid := (lo + hi) / 2
		if wt.Rank(mid+1, symbol) < k {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
