package tbwt

// MarkTunnel folds block into idx's din/dout scratch bitvectors without
// compacting L: it walks the block's rows and, for each of its w-1
// redundant columns, clears the din bit at the F-side occurrence and
// the dout bit at the corresponding L-side occurrence, following the
// LF-chain. Call Tunnel afterward (optionally after several MarkTunnel
// calls) to compact L/din/dout into their post-tunnel form.
//
// MarkTunnel refuses a block that collides with itself; callers
// resolving a whole batch of candidate blocks should pre-filter with
// RemoveSelfColliding (Heuristic does this already) or use
// MarkTunnelLenient.
func MarkTunnel(idx *Index, block Block) error {
	if err := validateBlock(idx, block); err != nil {
		return err
	}
	colliding, err := isSelfColliding(idx, block)
	if err != nil {
		return err
	}
	if colliding {
		return selfCollisionErrorf("block w=%d [%d,%d] collides with itself", block.W, block.I, block.J)
	}
	return markTunnelBits(idx, block)
}

// MarkTunnelLenient behaves like MarkTunnel but silently skips a
// self-colliding block instead of returning an error, reporting
// whether it actually marked the block.
func MarkTunnelLenient(idx *Index, block Block) (bool, error) {
	if err := validateBlock(idx, block); err != nil {
		return false, err
	}
	colliding, err := isSelfColliding(idx, block)
	if err != nil {
		return false, err
	}
	if colliding {
		return false, nil
	}
	if err := markTunnelBits(idx, block); err != nil {
		return false, err
	}
	return true, nil
}

func validateBlock(idx *Index, block Block) error {
	n := len(idx.l)
	if block.W < 2 {
		return invariantViolatedErrorf("mark_tunnel: block width %d must be >= 2", block.W)
	}
	if block.I < 0 || block.J >= n || block.I > block.J {
		return invariantViolatedErrorf("mark_tunnel: block range [%d,%d] out of bounds for %d rows", block.I, block.J, n)
	}
	return nil
}

func markTunnelBits(idx *Index, block Block) error {
	for k := block.I + 1; k <= block.J; k++ {
		pos := k
		for step := 0; step < block.W-1; step++ {
			idx.dinRaw.setBit(pos, false)
			next, err := idx.lf(pos)
			if err != nil {
				return err
			}
			pos = next
			idx.doutRaw.setBit(pos, false)
		}
	}
	return nil
}

// Tunnel compacts L, din, and dout according to whatever tunnels the
// prior MarkTunnel calls marked, then rebuilds F and the per-symbol
// rank structures from the new L. It is safe to call exactly once per
// batch of MarkTunnel calls; calling it again with no intervening
// MarkTunnel call is a genuine no-op, detected up front since the raw
// scratch bitvectors carry no marks to fold in.
func Tunnel(idx *Index) error {
	n := len(idx.l)

	if idx.dinRaw.allOnes() && idx.doutRaw.allOnes() {
		return nil
	}

	newL := make([]byte, 0, n)
	newDout := newBitVector(0)
	newDin := newBitVector(0)

	for i := 0; i < n; i++ {
		din := idx.dinRaw.getBit(i)
		dout := idx.doutRaw.getBit(i)
		if din {
			newL = append(newL, idx.l[i])
			newDout.push(dout)
		}
		if dout {
			newDin.push(din)
		}
	}
	newDin.push(true)
	newDout.push(true)

	if newDin.len() != len(newL)+1 || newDout.len() != len(newL)+1 {
		return invariantViolatedErrorf("tunnel: din/dout length mismatch after compaction (din=%d, dout=%d, l=%d)", newDin.len(), newDout.len(), len(newL))
	}

	sigma := idx.sigma
	rankL := make([]*rsaBitVector, sigma)
	occ := make([]int, sigma)
	for c := 0; c < sigma; c++ {
		bv := newBitVector(len(newL))
		for j, sym := range newL {
			if int(sym) == c {
				bv.setBit(j, true)
			}
		}
		rankL[c] = newRSABitVector(bv)
	}
	for _, sym := range newL {
		occ[sym]++
	}
	f := make([]int, sigma)
	for c := 1; c < sigma; c++ {
		f[c] = f[c-1] + occ[c-1]
	}

	idx.l = newL
	idx.f = f
	idx.rankL = rankL
	// The ranked, read-only din/dout reflect the real post-compaction
	// tunnel shape and are what every query primitive reads. The raw
	// mutable scratch bitvectors MarkTunnel writes into are reset to
	// all-ones here rather than carried forward as newDin/newDout: those
	// already have their tunnel bits cleared, so a second Tunnel call
	// with no intervening MarkTunnel would otherwise re-run compaction
	// over already-cleared bits and drop live L symbols. Resetting to
	// all-ones makes a re-entrant Tunnel with nothing freshly marked a
	// true no-op, per the raw/ranked synchronization described in §5/§9.
	idx.dinRaw = newFilledBitVector(len(newL)+1, true)
	idx.doutRaw = newFilledBitVector(len(newL)+1, true)
	idx.din = newRSABitVector(newDin)
	idx.dout = newRSABitVector(newDout)

	return nil
}

// HeuristicTunnel runs Heuristic to pick a collision-free set of
// blocks, marks every block of width > 1 in that set, and compacts the
// index via Tunnel. It is the one-call path most callers want.
func HeuristicTunnel(idx *Index) error {
	blocks, err := Heuristic(idx)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		return nil
	}

	for _, b := range blocks {
		if b.W > 1 {
			if err := markTunnelBits(idx, b); err != nil {
				return err
			}
		}
	}

	return Tunnel(idx)
}
