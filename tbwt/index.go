package tbwt

// Index is the TBWT's core aggregate: the last column L, the first
// column F (stored as cumulative per-symbol counts), per-symbol
// rank/select bitvectors over L, and the din/dout bitvectors that
// mark node boundaries on the F side and L side respectively.
//
// An Index is constructed once from a classic BWT (From/FromRaw), then
// mutated in place by MarkTunnel (din/dout raw bits only) and Tunnel
// (rebuilds L, din, dout, the per-symbol rank bitvectors, and F).
// After Tunnel returns, every query here is a pure read and safe to
// call concurrently from goroutines that each own their own offset
// stack (see BackwardStep).
type Index struct {
	charMap CharMap
	sigma   int

	l []byte // last column, compacted symbols; n' <= n
	f []int  // f[c] = number of symbols strictly smaller than c

	rankL []*rsaBitVector // per-symbol rank/select over l, len sigma

	dinRaw  *bitvector
	doutRaw *bitvector

	din  *rsaBitVector // ranked, read-only; rebuilt at construction and at the end of Tunnel
	dout *rsaBitVector

	originalLen int // n: length of the original sentinel-terminated text
}

// CharMap returns the alphabet bijection this Index was built with.
func (idx *Index) CharMap() CharMap { return idx.charMap }

// Sigma returns the alphabet size.
func (idx *Index) Sigma() int { return idx.sigma }

// Len returns n, the length of the original sentinel-terminated text.
// It does not change across MarkTunnel/Tunnel calls.
func (idx *Index) Len() int { return idx.originalLen }

// NumNodes returns the number of active nodes, i.e. len(L). Before any
// tunneling this equals Len(); tunneling only ever shrinks it.
func (idx *Index) NumNodes() int { return len(idx.l) }

// L returns the current last column. Callers must not mutate the
// returned slice.
func (idx *Index) L() []byte { return idx.l }

// From builds an Index from a compact BWT already encoded over
// [0, sigma), as classic BWT/suffix-array construction would produce.
// The compacted sentinel value 0 must appear exactly once.
func From(bwt []byte, sigma int) (*Index, error) {
	if sigma <= 0 {
		return nil, inputFormatErrorf("sigma must be positive, got %d", sigma)
	}
	if len(bwt) == 0 {
		return nil, inputFormatErrorf("bwt must not be empty")
	}

	sentinelCount := 0
	for _, c := range bwt {
		if int(c) >= sigma {
			return nil, inputFormatErrorf("symbol %d outside alphabet [0, %d)", c, sigma)
		}
		if c == 0 {
			sentinelCount++
		}
	}
	if sentinelCount != 1 {
		return nil, inputFormatErrorf("bwt must contain exactly one sentinel (compacted value 0), found %d", sentinelCount)
	}

	return buildIndex(bwt, sigma, identityCharMap(sigma)), nil
}

// FromRaw builds an Index over an arbitrary byte alphabet. char_map is
// derived as the sorted set of distinct bytes in raw; raw is
// re-encoded against it. The lexicographically smallest byte becomes
// the sentinel and must appear exactly once.
func FromRaw(raw []byte) (*Index, error) {
	if len(raw) == 0 {
		return nil, inputFormatErrorf("raw bwt must not be empty")
	}

	cm, compact, err := charMapFromRaw(raw)
	if err != nil {
		return nil, err
	}

	sentinelCount := 0
	for _, c := range compact {
		if c == 0 {
			sentinelCount++
		}
	}
	if sentinelCount != 1 {
		return nil, inputFormatErrorf("raw bwt must contain exactly one occurrence of its smallest symbol (the sentinel), found %d", sentinelCount)
	}

	return buildIndex(compact, len(cm.symbols), cm), nil
}

// buildIndex assembles the rank/select structures, F array, and
// all-ones din/dout bitvectors shared by From and FromRaw.
func buildIndex(l []byte, sigma int, cm CharMap) *Index {
	n := len(l)

	rankL := make([]*rsaBitVector, sigma)
	occ := make([]int, sigma)
	for c := 0; c < sigma; c++ {
		bv := newBitVector(n)
		for j, sym := range l {
			if int(sym) == c {
				bv.setBit(j, true)
			}
		}
		rankL[c] = newRSABitVector(bv)
	}
	for _, sym := range l {
		occ[sym]++
	}

	f := make([]int, sigma)
	for c := 1; c < sigma; c++ {
		f[c] = f[c-1] + occ[c-1]
	}

	dinRaw := newFilledBitVector(n+1, true)
	doutRaw := newFilledBitVector(n+1, true)

	return &Index{
		charMap:     cm,
		sigma:       sigma,
		l:           append([]byte(nil), l...),
		f:           f,
		rankL:       rankL,
		dinRaw:      dinRaw,
		doutRaw:     doutRaw,
		din:         newRSABitVector(dinRaw),
		dout:        newRSABitVector(doutRaw),
		originalLen: n,
	}
}

// lf is the LF-mapping: lf(p) = f[L[p]] + rank_{L[p]}(p), the F
// position the symbol at L-position p maps to.
func (idx *Index) lf(p int) (int, error) {
	if p < 0 || p >= len(idx.l) {
		return 0, invariantViolatedErrorf("lf: position %d out of range [0, %d)", p, len(idx.l))
	}
	c := idx.l[p]
	rank := idx.rankL[c].Rank(true, p)
	return idx.f[c] + rank, nil
}

// inverseLf is the inverse of lf: given an F-position, returns the
// L-position of the same occurrence.
func (idx *Index) inverseLf(p int) (int, error) {
	if p < 0 || p >= len(idx.l) {
		return 0, invariantViolatedErrorf("inverse_lf: position %d out of range [0, %d)", p, len(idx.l))
	}
	c := idx.symbolAt(p)
	rank := p - idx.f[c]
	pos, ok := idx.rankL[c].Select(true, rank)
	if !ok {
		return 0, invariantViolatedErrorf("inverse_lf: no occurrence of symbol %d with rank %d", c, rank)
	}
	return pos, nil
}

// symbolAt returns the F-column symbol whose cumulative-count range
// [f[c], f[c+1)) contains p, found by a linear scan over f (sigma is
// always small in practice, so this beats a binary search in
// constant-factor terms).
func (idx *Index) symbolAt(p int) byte {
	for c := idx.sigma - 1; c >= 0; c-- {
		if idx.f[c] <= p {
			return byte(c)
		}
	}
	return 0
}

// incomingLetter returns the F-symbol at the given node.
func (idx *Index) incomingLetter(node int) (byte, error) {
	fPos, ok := idx.din.Select(true, node)
	if !ok {
		return 0, invariantViolatedErrorf("incoming_letter: no node %d in din", node)
	}
	return idx.symbolAt(fPos), nil
}
