package tbwt_test

import (
	"fmt"
	"log"

	"github.com/bebop/poly/tbwt"
)

func ExampleFrom() {
	// Compacted BWT of the text [1 2 3 4 2 3 4 5 0]: 6 symbols over
	// [0,6), sentinel already factored out to value 0.
	bwt := []byte{5, 0, 1, 4, 2, 2, 3, 3, 4}

	idx, err := tbwt.From(bwt, 6)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(idx.NumNodes())
	// Output: 9
}

func ExampleReconstruct() {
	bwt := []byte{6, 0, 1, 2, 3, 4, 5}

	idx, err := tbwt.From(bwt, 7)
	if err != nil {
		log.Fatal(err)
	}

	reversed, err := tbwt.Reconstruct(idx)
	if err != nil {
		log.Fatal(err)
	}

	// Reconstruct walks backward from the sentinel node, so the text
	// comes out right to left; reverse it to read forward.
	forward := make([]byte, len(reversed))
	for i, c := range reversed {
		forward[len(reversed)-1-i] = c
	}
	fmt.Println(forward)
	// Output: [1 2 3 4 5 6 0]
}

func ExampleHeuristicTunnel() {
	// Compacted BWT of the text [5 4 3 2 1 4 3 2 4 3 2 5 4 3 2 1 0].
	bwt := []byte{1, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 1, 2, 2, 0}

	idx, err := tbwt.From(bwt, 6)
	if err != nil {
		log.Fatal(err)
	}
	before := idx.NumNodes()

	if err := tbwt.HeuristicTunnel(idx); err != nil {
		log.Fatal(err)
	}

	fmt.Println(before, idx.NumNodes())
	// Output: 17 9
}
