package tbwt

import "math/bits"

// rsaBitVector wraps a frozen bitvector snapshot with a two-level
// Jacobson rank structure and a select index, giving Rank/Select/Access
// in amortized O(1). It must never be mutated directly - din/dout are
// rebuilt into a fresh rsaBitVector exactly once at construction and
// once more at the end of each Tunnel call.
type rsaBitVector struct {
	bv            *bitvector
	totalOnesRank int
	chunks        []rankChunk
	wordsPerChunk int
	oneSelect     []int
	zeroSelect    []int
}

type rankChunk struct {
	onesBeforeChunk int
	// onesBeforeWord[k] is the cumulative ones count of words
	// [chunkStart .. chunkStart+k), i.e. before word k of the chunk.
	onesBeforeWord []int
}

// wordsPerRankChunk controls the Jacobson rank chunk size in 64-bit
// words. Larger chunks trade rank speed for less auxiliary memory.
const wordsPerRankChunk = 4

func newRSABitVector(bv *bitvector) *rsaBitVector {
	chunks, totalOnes := buildJacobsonRank(bv)
	oneSelect, zeroSelect := buildSelectIndex(bv)

	return &rsaBitVector{
		bv:            bv,
		totalOnesRank: totalOnes,
		chunks:        chunks,
		wordsPerChunk: wordsPerRankChunk,
		oneSelect:     oneSelect,
		zeroSelect:    zeroSelect,
	}
}

// Len returns the number of bits in the vector.
func (r *rsaBitVector) Len() int {
	return r.bv.len()
}

// Access returns the bit at position i.
func (r *rsaBitVector) Access(i int) bool {
	return r.bv.getBit(i)
}

// Rank returns the number of bits equal to val in [0, i) - exclusive,
// 0-indexed, matching the convention used throughout this package
// (lf, inverse_lf, backward_step all assume an exclusive rank).
func (r *rsaBitVector) Rank(val bool, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= r.bv.len() {
		if val {
			return r.totalOnesRank
		}
		return r.bv.len() - r.totalOnesRank
	}

	wordIdx := i / wordBits
	chunkIdx := wordIdx / r.wordsPerChunk
	wordInChunk := wordIdx % r.wordsPerChunk
	chunk := r.chunks[chunkIdx]

	onesBeforeWord := chunk.onesBeforeChunk + chunk.onesBeforeWord[wordInChunk]

	bitOffset := uint(i % wordBits)
	word := r.bv.word(wordIdx)
	mask := (uint64(1) << bitOffset) - 1
	onesInPartialWord := bits.OnesCount64(word & mask)

	ones := onesBeforeWord + onesInPartialWord
	if val {
		return ones
	}
	return i - ones
}

// Select returns the position of the bit equal to val whose exclusive
// rank is exactly the given rank (a 0-indexed "this is the (rank+1)-th
// such bit" query). ok is false if no such bit exists.
func (r *rsaBitVector) Select(val bool, rank int) (int, bool) {
	if rank < 0 {
		return 0, false
	}
	var table []int
	if val {
		table = r.oneSelect
	} else {
		table = r.zeroSelect
	}
	if rank >= len(table) {
		return 0, false
	}
	return table[rank], true
}

func buildJacobsonRank(bv *bitvector) ([]rankChunk, int) {
	numWords := bv.numWords()
	numChunks := (numWords + wordsPerRankChunk - 1) / wordsPerRankChunk
	if numChunks == 0 {
		numChunks = 1
	}

	chunks := make([]rankChunk, numChunks)
	cumulativeOnes := 0

	for c := 0; c < numChunks; c++ {
		start := c * wordsPerRankChunk
		end := start + wordsPerRankChunk
		if end > numWords {
			end = numWords
		}

		onesBeforeWord := make([]int, 0, wordsPerRankChunk)
		withinChunk := 0
		for w := start; w < end; w++ {
			onesBeforeWord = append(onesBeforeWord, withinChunk)
			withinChunk += bits.OnesCount64(bv.word(w))
		}
		for len(onesBeforeWord) < wordsPerRankChunk {
			onesBeforeWord = append(onesBeforeWord, withinChunk)
		}

		chunks[c] = rankChunk{onesBeforeChunk: cumulativeOnes, onesBeforeWord: onesBeforeWord}
		cumulativeOnes += withinChunk
	}

	return chunks, cumulativeOnes
}

// buildSelectIndex builds a flat position table per value, giving O(1)
// select at the cost of O(n) memory.
// TODO: replace with a sampled select structure (Clark's or a sparse
// bit array) once profiling shows the flat tables dominate index size
// on large texts.
func buildSelectIndex(bv *bitvector) (oneSelect, zeroSelect []int) {
	for i := 0; i < bv.len(); i++ {
		if bv.getBit(i) {
			oneSelect = append(oneSelect, i)
		} else {
			zeroSelect = append(zeroSelect, i)
		}
	}
	return oneSelect, zeroSelect
}
