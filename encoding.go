package gcis

// IntCodecData is the encoded form of a sequence of non-negative integers
// under one of the pluggable codecs of spec.md §4.5/§9. Exactly one of
// Dense/Flat is populated, depending on which codec produced it.
type IntCodecData struct {
	Dense *DenseBitVector // UnaryCodec: one 1 per value, gap = value
	Flat  *BitVector      // GapCodec: fixed-width packed values
}

// IntCodec is the pluggable per-level integer codec named in spec.md §9
// ("virtual dispatch for per-level integer codec"). Each implementation
// encodes a sequence of rule-lcp or rule-suffix lengths and supports
// O(ish) random access by index, which is what rules_lcp_select/
// rules_delim_select ultimately need.
type IntCodec interface {
	Name() string
	EncodeInts(vals []int) IntCodecData
	// At returns the 0-indexed i-th value.
	At(data IntCodecData, i int) int
	// Count returns how many values were encoded.
	Count(data IntCodecData) int
}

// UnaryCodec represents value v as v zero bits followed by a single 1
// bit, concatenated across all values (spec.md §3's "unary... form",
// where "the gap between consecutive 1s encodes lcp_i"). This is the
// default codec, matching spec.md §4.5's baseline description.
type UnaryCodec struct{}

func (UnaryCodec) Name() string { return "unary" }

func (UnaryCodec) EncodeInts(vals []int) IntCodecData {
	total := 0
	for _, v := range vals {
		total += v + 1
	}
	bits := make([]bool, total)
	pos := 0
	for _, v := range vals {
		pos += v
		if pos < len(bits) {
			bits[pos] = true
		}
		pos++
	}
	return IntCodecData{Dense: NewDenseBitVectorFromBits(bits)}
}

// RunningSum returns the sum of the first i (1-indexed) values, read
// directly from the position of the i-th set bit: rules_lcp_select(i) in
// spec.md §3's vocabulary.
func (UnaryCodec) RunningSum(data IntCodecData, i int) int {
	if i <= 0 {
		return 0
	}
	pos := data.Dense.Select1(i)
	return pos - (i - 1)
}

func (c UnaryCodec) At(data IntCodecData, i int) int {
	return c.RunningSum(data, i+1) - c.RunningSum(data, i)
}

func (UnaryCodec) Count(data IntCodecData) int { return data.Dense.Ones() }

// GapCodec stores each value as a fixed-width packed integer instead of
// a unary run. Access is O(1) rather than O(log n), at the cost of
// needing ceil(log2(max+1)) bits per value regardless of how small most
// values are — the classic unary-vs-binary space/speed trade spec.md §9
// asks the per-level codec to be pluggable over.
type GapCodec struct{}

func (GapCodec) Name() string { return "gap" }

func (GapCodec) EncodeInts(vals []int) IntCodecData {
	maxV := uint64(0)
	for _, v := range vals {
		if uint64(v) > maxV {
			maxV = uint64(v)
		}
	}
	w := widthFor(maxV)
	bv := NewBitVector(len(vals), w)
	for i, v := range vals {
		bv.Set(i, uint64(v))
	}
	return IntCodecData{Flat: bv}
}

func (GapCodec) At(data IntCodecData, i int) int { return int(data.Flat.Get(i)) }
func (GapCodec) Count(data IntCodecData) int     { return data.Flat.Len() }

// EncodedLevel is the serialized per-level representation of spec.md §3:
// rules_lcp, rules_delim (both under the chosen IntCodec), first_symbol[]
// and rules_concat[] (both bit-packed at the minimum width addressing
// this level's symbol range).
type EncodedLevel struct {
	RuleCount   int
	Codec       IntCodec
	RulesLCP    IntCodecData
	RulesDelim  IntCodecData
	FirstSymbol *BitVector
	RulesConcat *BitVector
	SuffixWidth int
}

// EncodeLevel builds the compact representation of a Level: rules are
// already sorted non-decreasing (BuildGrammar's invariant), so each
// rule's shared prefix with its predecessor (lcp_i) and remaining suffix
// factor directly from adjacent comparison.
func EncodeLevel(lv Level, codec IntCodec) EncodedLevel {
	n := len(lv.Rules)
	lcps := make([]int, n)
	sufLens := make([]int, n)
	firstSymbols := make([]int, n)
	var concatSyms []int
	maxSym := uint64(0)

	for i, rule := range lv.Rules {
		lcp := 0
		if i > 0 {
			lcp = commonPrefixLen(lv.Rules[i-1], rule)
		}
		suf := rule[lcp:]
		lcps[i] = lcp
		sufLens[i] = len(suf)
		firstSymbols[i] = suf[0]
		concatSyms = append(concatSyms, suf[1:]...)
		for _, s := range rule {
			if uint64(s) > maxSym {
				maxSym = uint64(s)
			}
		}
	}

	w := widthFor(maxSym)
	fsBV := NewBitVector(n, w)
	for i, s := range firstSymbols {
		fsBV.Set(i, uint64(s))
	}
	concatBV := NewBitVector(len(concatSyms), w)
	for i, s := range concatSyms {
		concatBV.Set(i, uint64(s))
	}

	return EncodedLevel{
		RuleCount:   n,
		Codec:       codec,
		RulesLCP:    codec.EncodeInts(lcps),
		RulesDelim:  codec.EncodeInts(sufLens),
		FirstSymbol: fsBV,
		RulesConcat: concatBV,
		SuffixWidth: w,
	}
}

// copyLCP copies the first lcpLen symbols of the previously decoded rule
// into dst, mirroring original_source/include/index_builder.hpp's
// copy_lcp contract (spec.md §4.5).
func copyLCP(dst []int, lcpLen int, prev []int) {
	copy(dst[:lcpLen], prev[:lcpLen])
}

// copySuffix copies suffixLen-1 symbols (the suffix minus its already-
// placed first symbol) from the level's concat stream starting at
// concatIdx, mirroring copy_suffix's contract.
func copySuffix(dst []int, concat *BitVector, concatIdx, count int) {
	for k := 0; k < count; k++ {
		dst[k] = int(concat.Get(concatIdx + k))
	}
}

// DecodeLevel reconstructs every rule's right-hand side in order, using a
// shared "previous rule" scratch buffer exactly as spec.md §4.5 specifies
// ("decoding rules in order 1..total_rules with a shared scratch buffer").
func DecodeLevel(el EncodedLevel) [][]int {
	rules := make([][]int, el.RuleCount)
	var prev []int
	concatIdx := 0
	for i := 0; i < el.RuleCount; i++ {
		lcp := el.Codec.At(el.RulesLCP, i)
		sufLen := el.Codec.At(el.RulesDelim, i)
		rule := make([]int, lcp+sufLen)
		if lcp > 0 {
			copyLCP(rule, lcp, prev)
		}
		rule[lcp] = int(el.FirstSymbol.Get(i))
		if sufLen > 1 {
			copySuffix(rule[lcp+1:], el.RulesConcat, concatIdx, sufLen-1)
			concatIdx += sufLen - 1
		}
		rules[i] = rule
		prev = rule
	}
	return rules
}

// commonPrefixLen returns the length of the longest common prefix of a
// and b.
func commonPrefixLen(a, b []int) int {
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
