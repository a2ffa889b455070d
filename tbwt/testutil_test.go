package tbwt

import "os"

// bwtFromCyclicText builds the classic BWT of t by brute-force rotation
// sort. t must end in a unique minimal sentinel (0). It exists only so
// this package's tests can work from literal texts instead of hand
// supplying compacted BWTs, the same way a real caller's suffix-array
// step would produce them.
func bwtFromCyclicText(t []byte) []byte {
	n := len(t)
	rotations := make([]int, n)
	for i := range rotations {
		rotations[i] = i
	}

	rotationLess := func(a, b int) bool {
		for k := 0; k < n; k++ {
			ca := t[(a+k)%n]
			cb := t[(b+k)%n]
			if ca != cb {
				return ca < cb
			}
		}
		return false
	}
	sortSlice(rotations, rotationLess)

	bwt := make([]byte, n)
	for i, start := range rotations {
		bwt[i] = t[(start-1+n)%n]
	}
	return bwt
}

// writeFileForTest overwrites path with data, for tests that need to
// corrupt a previously saved index file on disk.
func writeFileForTest(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
