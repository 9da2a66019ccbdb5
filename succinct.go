package gcis

import "math/bits"

// block sizing for DenseBitVector's rank/select index, grounded on
// vsivsi-rsdic's large/small block split (rankBlocks/pointerBlocks at
// coarse granularity, a per-64-bit-word count at fine granularity).
const (
	denseSmallBlockBits = 64
	denseLargeBlockBits = 512 // 8 words per large block
	denseWordsPerLarge  = denseLargeBlockBits / denseSmallBlockBits
)

// DenseBitVector is a succinct bit vector with O(1) rank1 and O(log n)
// select1, backed by a flat word array plus a two-level block index.
type DenseBitVector struct {
	words     []uint64
	nbits     int
	ones      int
	largeRank []int // cumulative ones before each large block
}

// NewDenseBitVectorFromBits builds a DenseBitVector from an explicit []bool.
func NewDenseBitVectorFromBits(bitsIn []bool) *DenseBitVector {
	nwords := (len(bitsIn) + 63) / 64
	words := make([]uint64, nwords)
	for i, b := range bitsIn {
		if b {
			words[i/64] |= 1 << uint(i%64)
		}
	}
	return newDenseBitVector(words, len(bitsIn))
}

// NewDenseBitVectorFromWords builds a DenseBitVector from pre-packed words
// (LSB-first) and an explicit bit length.
func NewDenseBitVectorFromWords(words []uint64, nbits int) *DenseBitVector {
	return newDenseBitVector(words, nbits)
}

func newDenseBitVector(words []uint64, nbits int) *DenseBitVector {
	d := &DenseBitVector{words: words, nbits: nbits}
	d.buildIndex()
	return d
}

func (d *DenseBitVector) buildIndex() {
	nLarge := (d.nbits + denseLargeBlockBits - 1) / denseLargeBlockBits
	if nLarge == 0 {
		nLarge = 1
	}
	d.largeRank = make([]int, nLarge+1)
	cum := 0
	for lb := 0; lb < nLarge; lb++ {
		d.largeRank[lb] = cum
		startWord := lb * denseWordsPerLarge
		for w := startWord; w < startWord+denseWordsPerLarge && w < len(d.words); w++ {
			cum += bits.OnesCount64(d.words[w])
		}
	}
	d.largeRank[nLarge] = cum
	d.ones = cum
}

// Len returns the number of bits.
func (d *DenseBitVector) Len() int { return d.nbits }

// Ones returns the total number of set bits.
func (d *DenseBitVector) Ones() int { return d.ones }

// Bit returns the i-th bit.
func (d *DenseBitVector) Bit(i int) bool {
	return d.words[i/64]&(1<<uint(i%64)) != 0
}

// Rank1 returns the number of 1s in [0, i).
func (d *DenseBitVector) Rank1(i int) int {
	if i <= 0 {
		return 0
	}
	if i > d.nbits {
		i = d.nbits
	}
	lb := i / denseLargeBlockBits
	rank := d.largeRank[lb]
	startWord := lb * denseWordsPerLarge
	word := i / 64
	for w := startWord; w < word; w++ {
		rank += bits.OnesCount64(d.words[w])
	}
	rem := i % 64
	if rem > 0 {
		mask := uint64(1)<<uint(rem) - 1
		rank += bits.OnesCount64(d.words[word] & mask)
	}
	return rank
}

// Rank0 returns the number of 0s in [0, i).
func (d *DenseBitVector) Rank0(i int) int {
	if i > d.nbits {
		i = d.nbits
	}
	return i - d.Rank1(i)
}

// Select1 returns the position of the k-th (1-indexed) set bit, or -1 if
// there are fewer than k ones.
func (d *DenseBitVector) Select1(k int) int {
	if k <= 0 || k > d.ones {
		return -1
	}
	// Binary search over large blocks for the block containing the k-th one.
	lo, hi := 0, len(d.largeRank)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if d.largeRank[mid] < k {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	lb := lo
	remaining := k - d.largeRank[lb]
	startWord := lb * denseWordsPerLarge
	for w := startWord; w < startWord+denseWordsPerLarge && w < len(d.words); w++ {
		c := bits.OnesCount64(d.words[w])
		if remaining <= c {
			return w*64 + selectInWord(d.words[w], remaining)
		}
		remaining -= c
	}
	return -1
}

// Select0 returns the position of the k-th (1-indexed) zero bit, or -1.
func (d *DenseBitVector) Select0(k int) int {
	if k <= 0 || k > d.nbits-d.ones {
		return -1
	}
	lo, hi := 0, d.nbits
	for lo < hi {
		mid := (lo + hi) / 2
		if mid+1-d.Rank1(mid+1) < k {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// selectInWord returns the 0-based bit position of the k-th (1-indexed)
// set bit within w.
func selectInWord(w uint64, k int) int {
	for i := 0; i < 64; i++ {
		if w&(1<<uint(i)) != 0 {
			k--
			if k == 0 {
				return i
			}
		}
	}
	return -1
}

// Bytes serializes the bit vector (length + packed words); the rank/select
// index is rebuilt on load rather than stored.
func (d *DenseBitVector) Bytes() []byte {
	out := appendUvarint(nil, uint64(d.nbits))
	for _, w := range d.words {
		out = appendUint64LE(out, w)
	}
	return out
}

// ReadDenseBitVector deserializes a DenseBitVector written by Bytes,
// returning the bytes consumed.
func ReadDenseBitVector(buf []byte) (*DenseBitVector, int) {
	nbits, n := readUvarint(buf)
	off := n
	nwords := (int(nbits) + 63) / 64
	words := make([]uint64, nwords)
	for i := 0; i < nwords; i++ {
		words[i] = readUint64LE(buf[off:])
		off += 8
	}
	return newDenseBitVector(words, int(nbits)), off
}
