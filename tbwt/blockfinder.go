package tbwt

// FindMaximalBlocks discovers every maximal tunnel block in idx: a
// maximal run of BWT rows that share a common suffix of some width w
// > 1, where the run cannot be extended upward, downward, or
// rightward without breaking that property.
//
// It builds an inverse-LF array once, derives a longest-common-suffix
// (LCS) array over BWT positions from it, then sweeps the LCS array
// with a monotonic stack to pop off maximal same-width runs, checking
// each candidate for right-maximality before reporting it.
func FindMaximalBlocks(idx *Index) ([]Block, error) {
	n := len(idx.l)
	if n == 0 {
		return nil, invariantViolatedErrorf("find_maximal_blocks: empty bwt")
	}

	inverseLF := make([]int, n)
	for i := 0; i < n; i++ {
		p, err := idx.lf(i)
		if err != nil {
			return nil, err
		}
		inverseLF[p] = i
	}

	lcs := make([]int, n)
	if n < 2 {
		return nil, nil
	}
	lcs[1] = 0
	j := inverseLF[1]
	l := 0

	for i := 2; i < n; i++ {
		if j > 0 && idx.l[j] == idx.l[j-1] {
			l++
		} else {
			l = 0
		}
		if j > 0 && idx.l[inverseLF[j]] == idx.l[inverseLF[j-1]] {
			lcs[j] = l + 1
		} else {
			lcs[j] = 0
		}
		j = inverseLF[j]
	}

	type stackEntry struct {
		start int
		width int
	}
	stack := []stackEntry{{1, 0}}

	var blocks []Block

	rightMaximal := func(startPos, endPosExclusive int) bool {
		// true if the block is NOT right-maximal, i.e. the run
		// extends one column further right and should be
		// suppressed in favor of the wider block that subsumes it.
		max := false
		anchor := idx.l[inverseLF[inverseLF[startPos]]]
		for k := startPos; k < endPosExclusive; k++ {
			if idx.l[inverseLF[inverseLF[k]]] != anchor {
				max = true
				break
			}
		}
		lastPos := endPosExclusive - 1
		return !max &&
			inverseLF[lastPos] > inverseLF[startPos] &&
			inverseLF[lastPos]-inverseLF[startPos] == lastPos-startPos
	}

	for i := 1; i < len(lcs); i++ {
		start := stack[len(stack)-1]

		for start.width > lcs[i] {
			stack = stack[:len(stack)-1]

			candidate := Block{W: start.width, I: start.start, J: i - 1}
			if candidate.height() > 1 {
				if !rightMaximal(start.start, i) && candidate.W > 1 {
					blocks = append(blocks, candidate)
				}
			}

			if lcs[i] >= 1 && (len(stack) <= 1 || stack[len(stack)-1].width < lcs[i]) {
				stack = append(stack, stackEntry{start.start, lcs[i]})
			}
			start = stack[len(stack)-1]
		}

		if start.width < lcs[i] {
			stack = append(stack, stackEntry{i - 1, lcs[i]})
		}
	}

	bwtSize := n
	for len(stack) > 0 {
		start := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		candidate := Block{W: start.width, I: start.start, J: bwtSize - 1}
		if candidate.height() > 1 {
			max := false
			anchor := idx.l[inverseLF[inverseLF[start.start]]]
			for k := start.start + 1; k < bwtSize; k++ {
				if idx.l[inverseLF[inverseLF[k]]] != anchor {
					max = true
					break
				}
			}
			suppressed := !max &&
				inverseLF[bwtSize-1] > inverseLF[start.start] &&
				inverseLF[bwtSize-1]-inverseLF[start.start] == bwtSize-1-start.start
			if !suppressed && candidate.W > 1 {
				blocks = append(blocks, candidate)
			}
		}
	}

	return blocks, nil
}
