package tbwt

// isSelfColliding reports whether tunneling block would collide with
// itself: walking the block's w rows forward by lf w times visits the
// same F-side column positions that back the block's own height. Two
// of those run-starts closer together (in F order) than the block is
// tall means the tunnel would overwrite rows it still needs to read.
func isSelfColliding(idx *Index, block Block) (bool, error) {
	if block.W < 2 {
		return true, nil
	}

	runStarts := make([]int, 0, block.W)
	start := block.I
	for i := 0; i < block.W; i++ {
		runStarts = append(runStarts, start)
		var err error
		start, err = idx.lf(start)
		if err != nil {
			return false, err
		}
	}

	sortSlice(runStarts, func(a, b int) bool { return a < b })

	height := block.J - block.I
	for i := 1; i < len(runStarts); i++ {
		if runStarts[i]-runStarts[i-1] <= height {
			return true, nil
		}
	}
	return false, nil
}

// RemoveSelfColliding filters out every block narrower than width 2
// and every block that is self-colliding, returning the rest in their
// original relative order.
func RemoveSelfColliding(idx *Index, blocks []Block) ([]Block, error) {
	kept := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if b.W < 2 {
			continue
		}
		colliding, err := isSelfColliding(idx, b)
		if err != nil {
			return nil, err
		}
		if !colliding {
			kept = append(kept, b)
		}
	}
	return kept, nil
}
