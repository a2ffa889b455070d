package tbwt

import "golang.org/x/exp/slices"

// sortSlice is a thin wrapper so block.go and heuristic.go read as
// plain Go rather than repeating the golang.org/x/exp/slices import
// and less-function boilerplate at every call site.
func sortSlice[T any](s []T, less func(a, b T) bool) {
	slices.SortFunc(s, less)
}
