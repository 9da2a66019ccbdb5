package gcis

import "fmt"

const (
	fileMagic   = "GCIS"
	fileVersion = 1
)

// byteCursor is a tiny sequential reader over a byte slice, used to
// keep LoadGrammar's field-by-field decoding linear without repeated
// offset bookkeeping at every call site.
type byteCursor struct {
	buf []byte
	off int
}

func (c *byteCursor) uvarint() uint64 {
	v, n := readUvarint(c.buf[c.off:])
	c.off += n
	return v
}

func (c *byteCursor) take(n int) []byte {
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b
}

// IntCodecData.Bytes/readIntCodecData tag which codec produced a stream
// (0 = UnaryCodec/Dense, 1 = GapCodec/Flat) so LoadGrammar can
// reconstruct the right IntCodec without a separate field.
func (d IntCodecData) Bytes() []byte {
	if d.Dense != nil {
		return append([]byte{0}, d.Dense.Bytes()...)
	}
	return append([]byte{1}, d.Flat.Bytes()...)
}

func readIntCodecData(buf []byte) (IntCodecData, int) {
	if buf[0] == 0 {
		dv, n := ReadDenseBitVector(buf[1:])
		return IntCodecData{Dense: dv}, n + 1
	}
	fv, n := ReadBitVector(buf[1:])
	return IntCodecData{Flat: fv}, n + 1
}

// Bytes serializes one level block per spec.md §4.5's layout:
// (rule_count, suffix_width, rules_lcp_bv, rules_delim_bv,
// first_symbol[], rules_concat[]); concat_size is recovered from
// RulesConcat's own length prefix, so it isn't duplicated here.
func (el EncodedLevel) Bytes() []byte {
	out := appendUvarint(nil, uint64(el.RuleCount))
	out = appendUvarint(out, uint64(el.SuffixWidth))
	out = append(out, el.RulesLCP.Bytes()...)
	out = append(out, el.RulesDelim.Bytes()...)
	out = append(out, el.FirstSymbol.Bytes()...)
	out = append(out, el.RulesConcat.Bytes()...)
	return out
}

// ReadEncodedLevel deserializes a level block written by Bytes,
// returning the number of bytes consumed.
func ReadEncodedLevel(buf []byte) (EncodedLevel, int) {
	ruleCount, n1 := readUvarint(buf)
	suffixWidth, n2 := readUvarint(buf[n1:])
	off := n1 + n2
	lcpData, n3 := readIntCodecData(buf[off:])
	off += n3
	delimData, n4 := readIntCodecData(buf[off:])
	off += n4
	fs, n5 := ReadBitVector(buf[off:])
	off += n5
	concat, n6 := ReadBitVector(buf[off:])
	off += n6

	var codec IntCodec = UnaryCodec{}
	if lcpData.Flat != nil {
		codec = GapCodec{}
	}
	return EncodedLevel{
		RuleCount:   int(ruleCount),
		Codec:       codec,
		RulesLCP:    lcpData,
		RulesDelim:  delimData,
		FirstSymbol: fs,
		RulesConcat: concat,
		SuffixWidth: int(suffixWidth),
	}, off
}

// SaveGrammar serializes g to the compressed file format of spec.md §6:
// a header {magic, version, level_count, top_rule_id, per_level_sizes[]},
// then per-level blocks in order, then the top rule bytes and the
// text-size metadata.
func SaveGrammar(g *Grammar, codec IntCodec) []byte {
	blocks := make([][]byte, len(g.Levels))
	for i, lv := range g.Levels {
		blocks[i] = EncodeLevel(lv, codec).Bytes()
	}

	out := []byte(fileMagic)
	out = appendUvarint(out, fileVersion)
	out = appendUvarint(out, uint64(len(g.Levels)))
	out = appendUvarint(out, uint64(g.Xs))
	for _, b := range blocks {
		out = appendUvarint(out, uint64(len(b)))
	}
	for _, b := range blocks {
		out = append(out, b...)
	}

	out = appendUvarint(out, uint64(len(g.Top)))
	for _, s := range g.Top {
		out = appendUvarint(out, uint64(s))
	}
	out = appendUvarint(out, uint64(len(g.TextSize)))
	for _, s := range g.TextSize {
		out = appendUvarint(out, uint64(s))
	}
	return out
}

// LoadGrammar deserializes a Grammar written by SaveGrammar.
func LoadGrammar(buf []byte) (*Grammar, error) {
	if len(buf) < 4 || string(buf[:4]) != fileMagic {
		return nil, newCorruptInput("magic", "missing or mismatched magic bytes")
	}
	c := &byteCursor{buf: buf, off: 4}

	version := c.uvarint()
	if version != fileVersion {
		return nil, newCorruptInput("version", fmt.Sprintf("unsupported version %d", version))
	}
	levelCount := int(c.uvarint())
	xs := int(c.uvarint())

	sizes := make([]int, levelCount)
	for i := range sizes {
		sizes[i] = int(c.uvarint())
	}

	levels := make([]Level, levelCount)
	base := 256
	for i := 0; i < levelCount; i++ {
		block := c.take(sizes[i])
		el, _ := ReadEncodedLevel(block)
		rules := DecodeLevel(el)
		levels[i] = Level{Rules: rules, Base: base}
		base += len(rules)
	}

	topLen := int(c.uvarint())
	top := make([]int, topLen)
	for i := range top {
		top[i] = int(c.uvarint())
	}
	tsLen := int(c.uvarint())
	textSize := make([]int, tsLen)
	for i := range textSize {
		textSize[i] = int(c.uvarint())
	}

	return &Grammar{Levels: levels, Top: top, Xs: xs, TextSize: textSize}, nil
}
