package tbwt

// interval is a closed [start, end] pair (both ends inclusive,
// matching Block.I/Block.J) used by the collision-resolution
// passes below to reason about occupied ranges independently of which
// block they came from.
type interval struct {
	start int
	end   int
}

// mergeIntervals collapses a set of possibly-overlapping intervals
// into the minimal covering set. Intervals are sorted (start asc, end
// desc) first so that, at any given start, the widest interval is
// seen first and swallows any narrower one sharing that start.
func mergeIntervals(intervals []interval) []interval {
	sorted := append([]interval(nil), intervals...)
	sortSlice(sorted, func(a, b interval) bool {
		if a.start == b.start {
			return a.end > b.end
		}
		return a.start < b.start
	})

	start, end := sorted[0].start, sorted[0].end
	var result []interval
	for _, iv := range sorted {
		if iv.start <= end {
			if iv.end > end {
				end = iv.end
			}
			continue
		}
		result = append(result, interval{start, end})
		start, end = iv.start, iv.end
	}
	result = append(result, interval{start, end})
	return result
}

// oneColumnOverlappings finds width-one inner blocks hiding where a
// block's F-side occupied range overlaps another block's L-side
// occupied range, and appends them (as width-1 Blocks) to the input.
func oneColumnOverlappings(idx *Index, blocks []Block) ([]Block, error) {
	fBlocks := make([]interval, len(blocks))
	lBlocks := make([]interval, len(blocks))

	for i, b := range blocks {
		lBlocks[i] = interval{b.I, b.J}

		start := b.I
		for k := 0; k < b.W-1; k++ {
			var err error
			start, err = idx.lf(start)
			if err != nil {
				return nil, err
			}
		}
		fBlocks[i] = interval{start, start + b.J - b.I}
	}

	fInterval := mergeIntervals(fBlocks)
	lInterval := mergeIntervals(lBlocks)

	result := append([]Block(nil), blocks...)

	fi, li := 0, 0
	for li < len(lInterval) {
		if fi >= len(fInterval) {
			fi--
			if lInterval[li].start > fInterval[fi].end || li == len(lInterval)-1 {
				break
			}
			li++
			continue
		}

		if fInterval[fi].start > lInterval[li].end {
			li++
			continue
		}
		if lInterval[li].start > fInterval[fi].end {
			fi++
			continue
		}

		lo := lInterval[li].start
		if fInterval[fi].start < lo {
			lo = fInterval[fi].start
		}
		result = append(result, Block{W: 1, I: lo, J: lInterval[li].end})
		li++
	}

	return result, nil
}

// mergeByIAscJDesc stably interleaves two sequences that are each
// already sorted by (I asc, J desc), preserving that order across the
// merge. It matches the bespoke merge the reference collision passes
// use in place of a generic sort after producing new blocks.
func mergeByIAscJDesc(a, b []Block) []Block {
	out := make([]Block, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		if j >= len(b) || (i < len(a) && (a[i].I < b[j].I || (a[i].I == b[j].I && a[i].J > b[j].J))) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	return out
}

// verticalDivision resolves right-aligned (and corner) collisions: a
// narrower block nested inside a wider one, sharing the wider block's
// left edge, is either merged into it or split by its width.
func verticalDivision(idx *Index, blocks []Block) ([]Block, error) {
	blocks = append([]Block(nil), blocks...)
	sortBlocksByIAscJDescWAsc(blocks)

	cycle := true
	for cycle {
		cycle = false
		var stack []Block
		var tmp []Block

		i := 0
		for i < len(blocks) {
			for len(stack) > 0 && stack[len(stack)-1].J < blocks[i].I {
				stack = stack[:len(stack)-1]
			}

			if len(stack) > 0 {
				cycle = true
				parent := stack[len(stack)-1]

				if parent.W >= blocks[i].W {
					if blocks[i].W != parent.W || parent.I < blocks[i].I || parent.J > blocks[i].J {
						j := parent.J
						if blocks[i].J > j {
							j = blocks[i].J
						}
						tmp = append(tmp, Block{W: blocks[i].W, I: parent.I, J: j})
					}
				} else if parent.W+1 < blocks[i].W {
					start := blocks[i].I
					for k := 0; k < parent.W; k++ {
						var err error
						start, err = idx.lf(start)
						if err != nil {
							return nil, err
						}
					}
					tmp = append(tmp, Block{W: blocks[i].W - parent.W, I: start, J: start + blocks[i].J - blocks[i].I})
				}
				stack = append(stack, blocks[i])

				blocks = append(blocks[:i], blocks[i+1:]...)
				i--
			} else {
				stack = append(stack, blocks[i])
			}
			i++
		}

		sortBlocksByIAscJDescWAsc(tmp)

		if cycle {
			blocks = mergeByIAscJDesc(blocks, tmp)
		}
	}

	return blocks, nil
}

// obverseBlock is a Block reflected to its F-side occupied range, used
// by shorteningBlocks to detect left-aligned collisions; origIndex
// tracks which input block it came from so the result can be remapped
// back to L-side coordinates once shortening converges.
type obverseBlock struct {
	w         int
	start     int
	end       int
	origIndex int
}

func sortObverse(blocks []obverseBlock) {
	sortSlice(blocks, func(a, b obverseBlock) bool {
		if a.start == b.start && a.end == b.end {
			return a.w < b.w
		}
		if a.start == b.start {
			return a.end > b.end
		}
		return a.start < b.start
	})
}

// shorteningBlocks resolves left-aligned collisions: where one block's
// F-side range nests inside another's, the narrower-surviving block is
// shortened (its width reduced, its start walked back via inverse LF)
// until no nesting remains.
func shorteningBlocks(idx *Index, blocks []Block) ([]Block, error) {
	obverse := make([]obverseBlock, len(blocks))
	for i, b := range blocks {
		start := b.I
		for k := 0; k < b.W-1; k++ {
			var err error
			start, err = idx.lf(start)
			if err != nil {
				return nil, err
			}
		}
		obverse[i] = obverseBlock{w: b.W, start: start, end: start + b.J - b.I, origIndex: i}
	}
	sortObverse(obverse)

	changed := true
	for changed {
		subtract := make([]int, len(obverse))
		var stack []int

		i := 0
		for i < len(obverse) {
			stack = append(stack, i)

			j := i + 1
			depth := 0
			for j < len(obverse) && obverse[j].start <= obverse[j-1].end {
				stack = append(stack, j)
				j++
			}

			for len(stack) > 0 && (j >= len(obverse) || obverse[j].start > obverse[stack[len(stack)-1]].end) {
				idxTop := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if depth > subtract[idxTop] {
					subtract[idxTop] = depth
				}
				depth++
			}
			for k := len(stack) - 1; k >= 0; k-- {
				if depth > subtract[stack[k]] {
					subtract[stack[k]] = depth
				}
				depth++
			}
			stack = stack[:0]

			i += j - i
		}

		var shortenBlocks, initialBlocks []obverseBlock
		changed = false
		for i, ob := range obverse {
			if subtract[i] > 0 {
				if ob.w > subtract[i]+1 {
					changed = true
					start := ob.start
					for k := 0; k < subtract[i]; k++ {
						var err error
						start, err = idx.inverseLf(start)
						if err != nil {
							return nil, err
						}
					}
					shortenBlocks = append(shortenBlocks, obverseBlock{w: ob.w - subtract[i], start: start, end: start + ob.end - ob.start, origIndex: ob.origIndex})
				}
			} else {
				initialBlocks = append(initialBlocks, ob)
			}
		}

		if changed {
			sortObverse(shortenBlocks)

			var merged []obverseBlock
			si, ii := 0, 0
			for si < len(shortenBlocks) || ii < len(initialBlocks) {
				if si >= len(shortenBlocks) || (ii < len(initialBlocks) &&
					(initialBlocks[ii].start < shortenBlocks[si].start ||
						(initialBlocks[ii].start == shortenBlocks[si].start && initialBlocks[ii].end > shortenBlocks[si].end))) {
					merged = append(merged, initialBlocks[ii])
					ii++
				} else {
					merged = append(merged, shortenBlocks[si])
					si++
				}
			}
			obverse = merged
		} else {
			obverse = initialBlocks
			break
		}
	}

	result := make([]Block, len(obverse))
	for i, ob := range obverse {
		orig := blocks[ob.origIndex]
		result[i] = Block{W: ob.w, I: orig.I, J: orig.J}
	}
	return result, nil
}

// Heuristic runs the full collision-resolution pipeline over idx's
// maximal blocks and returns a set of blocks safe to tunnel together:
// discover maximal blocks, surface hidden width-one overlaps, resolve
// right-aligned collisions by vertical division, drop anything still
// self-colliding, then resolve left-aligned collisions by shortening.
func Heuristic(idx *Index) ([]Block, error) {
	blocks, err := FindMaximalBlocks(idx)
	if err != nil {
		return nil, err
	}

	if len(blocks) <= 1 {
		return RemoveSelfColliding(idx, blocks)
	}

	blocks, err = oneColumnOverlappings(idx, blocks)
	if err != nil {
		return nil, err
	}

	blocks, err = verticalDivision(idx, blocks)
	if err != nil {
		return nil, err
	}

	blocks, err = RemoveSelfColliding(idx, blocks)
	if err != nil {
		return nil, err
	}

	blocks, err = shorteningBlocks(idx, blocks)
	if err != nil {
		return nil, err
	}

	return blocks, nil
}
