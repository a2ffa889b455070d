package tbwt

// CharMap is the bijection between compacted symbol values (used
// internally by Index, in [0, Sigma())) and the original alphabet
// bytes they stand for. It is carried directly on Index rather than
// only threaded through constructors, so Reconstruct and callers
// inspecting a loaded Index can always recover original bytes.
type CharMap struct {
	symbols []byte // symbols[compact] -> original byte, ascending
}

// Sigma returns the alphabet size.
func (cm CharMap) Sigma() int {
	return len(cm.symbols)
}

// Decode returns the original byte a compacted symbol stands for.
func (cm CharMap) Decode(compact byte) byte {
	return cm.symbols[compact]
}

// Encode returns the compacted value of an original byte, if present.
func (cm CharMap) Encode(original byte) (byte, bool) {
	// Linear scan: alphabets in this package are small (<= 256
	// symbols by construction, typically far fewer), so a map would
	// cost more than it saves.
	for i, s := range cm.symbols {
		if s == original {
			return byte(i), true
		}
	}
	return 0, false
}

// identityCharMap builds the trivial bijection used by From, where the
// caller's compact BWT is already over [0, sigma).
func identityCharMap(sigma int) CharMap {
	symbols := make([]byte, sigma)
	for i := range symbols {
		symbols[i] = byte(i)
	}
	return CharMap{symbols: symbols}
}

// charMapFromRaw derives char_map as the sorted set of distinct bytes
// appearing in raw, and re-encodes raw against it.
func charMapFromRaw(raw []byte) (CharMap, []byte, error) {
	seen := make(map[byte]bool)
	for _, b := range raw {
		seen[b] = true
	}
	if len(seen) > 256 {
		return CharMap{}, nil, inputFormatErrorf("alphabet of %d symbols exceeds the 256-symbol on-disk limit", len(seen))
	}

	symbols := make([]byte, 0, len(seen))
	for b := range seen {
		symbols = append(symbols, b)
	}
	sortSlice(symbols, func(a, b byte) bool { return a < b })

	cm := CharMap{symbols: symbols}

	compact := make([]byte, len(raw))
	for i, b := range raw {
		c, ok := cm.Encode(b)
		if !ok {
			return CharMap{}, nil, invariantViolatedErrorf("symbol %q missing from derived alphabet", b)
		}
		compact[i] = c
	}

	return cm, compact, nil
}
