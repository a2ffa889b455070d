package tbwt

import (
	"encoding/binary"
	"os"

	"lukechampine.com/blake3"
)

// LoadBinary reads a tunneled index from three files: lPath holds the
// compacted L symbols (one byte each), and doutPath/dinPath each hold
// a bitvector of n bits packed MSB-first, one bit per position,
// padded to a whole number of bytes. n is the number of L symbols the
// caller expects; a trailing sentinel 1 is appended to both
// bitvectors at position n, matching the in-memory din/dout
// convention used throughout this package.
func LoadBinary(lPath, doutPath, dinPath string, n int) (idx *Index, err error) {
	defer recoverToError("load_binary", &err)

	l, err := os.ReadFile(lPath)
	if err != nil {
		return nil, ioErrorf(err, "reading %s", lPath)
	}
	if len(l) != n {
		return nil, inputFormatErrorf("%s has %d symbols, expected %d", lPath, len(l), n)
	}

	dout, err := readPaddedBitVector(doutPath, n)
	if err != nil {
		return nil, err
	}
	din, err := readPaddedBitVector(dinPath, n)
	if err != nil {
		return nil, err
	}

	cm, compact, err := charMapFromRaw(l)
	if err != nil {
		return nil, err
	}

	return buildTunneledIndex(compact, len(cm.symbols), cm, din, dout)
}

// readPaddedBitVector reads a packed bitvector file of n bits and
// appends the terminal 1 sentinel every din/dout array in this package
// carries at position n.
func readPaddedBitVector(path string, n int) (*bitvector, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ioErrorf(err, "reading %s", path)
	}

	bv := newFilledBitVector(n+1, false)
	index := 0
	for _, b := range raw {
		for shift := 7; shift >= 0; shift-- {
			if index >= n {
				break
			}
			mask := byte(1) << uint(shift)
			if b&mask != 0 {
				bv.setBit(index, true)
			}
			index++
		}
	}
	bv.setBit(n, true)
	return bv, nil
}

// buildTunneledIndex assembles an Index whose din/dout were loaded
// (rather than freshly constructed as all-ones), validating the
// invariants a well-formed Wheeler graph must hold regardless of how
// many tunnels (if any) it carries: din and dout are the same length
// (len(l)+1, the terminal sentinel included), that sentinel bit is
// set on both, and their popcounts agree with each other (§3 invariant
// 2: popcount_1(dout) = popcount_1(din) = the number of active
// nodes). A tunneled index has strictly fewer set bits than len(l)+1;
// only an untunneled index has a popcount equal to len(l)+1, so that
// can't be asserted here.
func buildTunneledIndex(l []byte, sigma int, cm CharMap, din, dout *bitvector) (*Index, error) {
	idx := buildIndex(l, sigma, cm)
	idx.dinRaw = din
	idx.doutRaw = dout
	idx.din = newRSABitVector(din)
	idx.dout = newRSABitVector(dout)

	want := len(l) + 1
	if idx.din.Len() != want || idx.dout.Len() != want {
		return nil, invariantViolatedErrorf("din/dout length mismatch: din=%d dout=%d, want %d", idx.din.Len(), idx.dout.Len(), want)
	}
	if !idx.din.Access(want-1) || !idx.dout.Access(want-1) {
		return nil, invariantViolatedErrorf("din/dout missing terminal sentinel bit at position %d", want-1)
	}
	if idx.din.totalOnesRank != idx.dout.totalOnesRank {
		return nil, invariantViolatedErrorf("din has %d set bits, dout has %d, they must agree", idx.din.totalOnesRank, idx.dout.totalOnesRank)
	}

	return idx, nil
}

// SaveBinary writes idx's current L, dout, and din to three files in
// the format LoadBinary reads, plus a fourth file containing a blake3
// checksum of the concatenated L/dout/din bytes so a later load can
// detect silent corruption or a mismatched file triple before it ever
// reaches bit-unpacking.
func SaveBinary(idx *Index, lPath, doutPath, dinPath, checksumPath string) (err error) {
	defer recoverToError("save_binary", &err)

	lBytes := append([]byte(nil), idx.l...)
	if err := os.WriteFile(lPath, lBytes, 0o644); err != nil {
		return ioErrorf(err, "writing %s", lPath)
	}

	// Pack from idx.din/idx.dout, the ranked read-only bitvectors that
	// hold the actual tunnel shape, not idx.dinRaw/idx.doutRaw: the raw
	// scratch is reset to all-ones at the end of every Tunnel call (see
	// tunneler.go) and no longer reflects which nodes are tunneled.
	doutBytes := packRankedBitVector(idx.dout, len(idx.l))
	if err := os.WriteFile(doutPath, doutBytes, 0o644); err != nil {
		return ioErrorf(err, "writing %s", doutPath)
	}

	dinBytes := packRankedBitVector(idx.din, len(idx.l))
	if err := os.WriteFile(dinPath, dinBytes, 0o644); err != nil {
		return ioErrorf(err, "writing %s", dinPath)
	}

	hasher := blake3.New(32, nil)
	hasher.Write(lBytes)
	hasher.Write(doutBytes)
	hasher.Write(dinBytes)
	sum := hasher.Sum(nil)

	var lenPrefix [8]byte
	binary.BigEndian.PutUint64(lenPrefix[:], uint64(len(idx.l)))
	if err := os.WriteFile(checksumPath, append(lenPrefix[:], sum...), 0o644); err != nil {
		return ioErrorf(err, "writing %s", checksumPath)
	}

	return nil
}

// VerifyChecksum recomputes the blake3 digest over an on-disk L/dout/din
// triple and compares it against a checksum file SaveBinary produced.
func VerifyChecksum(lPath, doutPath, dinPath, checksumPath string) (ok bool, err error) {
	defer recoverToError("verify_checksum", &err)

	l, err := os.ReadFile(lPath)
	if err != nil {
		return false, ioErrorf(err, "reading %s", lPath)
	}
	dout, err := os.ReadFile(doutPath)
	if err != nil {
		return false, ioErrorf(err, "reading %s", doutPath)
	}
	din, err := os.ReadFile(dinPath)
	if err != nil {
		return false, ioErrorf(err, "reading %s", dinPath)
	}
	want, err := os.ReadFile(checksumPath)
	if err != nil {
		return false, ioErrorf(err, "reading %s", checksumPath)
	}
	if len(want) != 8+32 {
		return false, inputFormatErrorf("%s is not a valid checksum file", checksumPath)
	}
	if binary.BigEndian.Uint64(want[:8]) != uint64(len(l)) {
		return false, nil
	}

	hasher := blake3.New(32, nil)
	hasher.Write(l)
	hasher.Write(dout)
	hasher.Write(din)
	got := hasher.Sum(nil)

	if len(got) != len(want)-8 {
		return false, nil
	}
	for i := range got {
		if got[i] != want[8+i] {
			return false, nil
		}
	}
	return true, nil
}

// packRankedBitVector packs the first n bits of bv MSB-first into
// bytes, the inverse of readPaddedBitVector (the trailing sentinel bit
// at position n is never written; LoadBinary re-derives it).
func packRankedBitVector(bv *rsaBitVector, n int) []byte {
	out := make([]byte, (n+7)/8)
	for i := 0; i < n; i++ {
		if bv.Access(i) {
			out[i/8] |= byte(1) << uint(7-i%8)
		}
	}
	return out
}
