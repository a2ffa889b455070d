package tbwt

// tunnelEnds reports whether node's dout-run is a single bit, meaning
// stepping backward from it should pop a saved offset off the stack
// rather than continue along row node+1.
func (idx *Index) tunnelEnds(node int) (bool, error) {
	start, ok := idx.dout.Select(true, node)
	if !ok {
		return false, invariantViolatedErrorf("tunnel_ends: no node %d in dout", node)
	}
	if start+1 >= idx.dout.Len() {
		return true, nil
	}
	return !idx.dout.Access(start + 1), nil
}

// tunnelStarts reports whether a new tunnel begins at node's din
// position, meaning a backward step arriving there must push the
// offset it was reached at so a later tunnelEnds can recover it.
func (idx *Index) tunnelStarts(node int) (bool, error) {
	start, ok := idx.din.Select(true, node)
	if !ok {
		return false, invariantViolatedErrorf("tunnel_starts: no node %d in din", node)
	}
	if start+1 >= idx.din.Len() {
		return true, nil
	}
	return !idx.din.Access(start + 1), nil
}

// BackwardStep returns the predecessor of node in the (possibly
// tunneled) Wheeler graph, i.e. the node reached by following node's
// single incoming edge one step back. stack carries the offsets needed
// to navigate correctly through tunnels that collapse more than one
// row into a single edge; callers doing independent traversals (e.g.
// concurrently) must each own their own stack, seeded with []int{0}.
func BackwardStep(idx *Index, node int, stack *[]int) (int, error) {
	outStart, ok := idx.dout.Select(true, node)
	if !ok {
		return 0, invariantViolatedErrorf("backward_step: no node %d in dout", node)
	}

	offset := 0
	ends, err := idx.tunnelEnds(node)
	if err != nil {
		return 0, err
	}
	if ends && len(*stack) > 0 {
		offset = (*stack)[len(*stack)-1]
		*stack = (*stack)[:len(*stack)-1]
	}

	lPos := outStart + offset
	if lPos < 0 || lPos >= len(idx.l) {
		return 0, invariantViolatedErrorf("backward_step: l position %d out of range", lPos)
	}

	fPos, err := idx.lf(lPos)
	if err != nil {
		return 0, err
	}

	// din[fPos] is not guaranteed set: fPos can land inside a tunnel on
	// the F side, so this cannot be simplified to Rank(true, fPos).
	// Rank(true, fPos+1) counts node fPos's own din bit if set, which is
	// why the result needs the -1 to land back on a 0-indexed node id.
	newNode := idx.din.Rank(true, fPos+1) - 1

	starts, err := idx.tunnelStarts(newNode)
	if err != nil {
		return 0, err
	}
	if starts {
		newNodeStart, ok := idx.din.Select(true, newNode)
		if !ok {
			return 0, invariantViolatedErrorf("backward_step: no node %d in din", newNode)
		}
		*stack = append(*stack, fPos-newNodeStart)
	}

	return newNode, nil
}

// Reconstruct walks the Wheeler graph backward from the start node and
// returns the original text in reverse (last symbol first). Use
// ReconstructText for the forward-reading string.
func Reconstruct(idx *Index) ([]byte, error) {
	node := 0
	stack := []int{0}

	result := make([]byte, 0, idx.originalLen)

	for {
		c, err := idx.incomingLetter(node)
		if err != nil {
			return nil, err
		}
		result = append(result, idx.charMap.Decode(c))

		next, err := BackwardStep(idx, node, &stack)
		if err != nil {
			return nil, err
		}
		node = next
		if node == 0 {
			break
		}
	}

	return result, nil
}

// ReconstructText returns the original text in forward reading order.
func ReconstructText(idx *Index) ([]byte, error) {
	reversed, err := Reconstruct(idx)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(reversed))
	for i, b := range reversed {
		out[len(reversed)-1-i] = b
	}
	return out, nil
}
