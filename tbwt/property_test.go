package tbwt_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/bebop/poly/tbwt"
	weightedRand "github.com/mroth/weightedrand"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

// randomCyclicText generates a random sentinel-terminated text of the
// given length over sigma-1 non-sentinel symbols, skewing symbol
// frequency with a weighted chooser so the generated texts carry the
// kind of repetition a tunneled index is meant to exploit, rather than
// coming out uniformly random and incompressible.
func randomCyclicText(rng *rand.Rand, length, sigma int) ([]byte, error) {
	choices := make([]weightedRand.Choice, sigma-1)
	for c := 1; c < sigma; c++ {
		choices[c-1] = weightedRand.Choice{Item: byte(c), Weight: uint(sigma - c + 1)}
	}
	chooser, err := weightedRand.NewChooser(choices...)
	if err != nil {
		return nil, err
	}

	text := make([]byte, length)
	for i := 0; i < length-1; i++ {
		text[i] = chooser.Pick().(byte)
	}
	text[length-1] = 0
	return text, nil
}

func bwtOfCyclicText(t []byte) []byte {
	n := len(t)
	rotations := make([]int, n)
	for i := range rotations {
		rotations[i] = i
	}
	slices.SortFunc(rotations, func(a, b int) bool {
		for k := 0; k < n; k++ {
			ca, cb := t[(a+k)%n], t[(b+k)%n]
			if ca != cb {
				return ca < cb
			}
		}
		return false
	})
	bwt := make([]byte, n)
	for i, start := range rotations {
		bwt[i] = t[(start-1+n)%n]
	}
	return bwt
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

// diffReport renders a human-readable diff between two byte slices
// decoded as Latin-1 strings, for failure messages on long random
// texts where a raw %v dump is unreadable.
func diffReport(want, got []byte) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(want), string(got), false)
	return dmp.DiffPrettyText(diffs)
}

func TestHeuristicTunnelRoundTripsOnRandomTexts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	lengths := []int{7, 16, 64, 257, 1000, 10000}
	sigmas := []int{2, 3, 5, 9, 16}

	for _, length := range lengths {
		for _, sigma := range sigmas {
			if sigma > length {
				continue
			}
			name := fmt.Sprintf("len=%d/sigma=%d", length, sigma)
			t.Run(name, func(t *testing.T) {
				text, err := randomCyclicText(rng, length, sigma)
				require.NoError(t, err)

				bwt := bwtOfCyclicText(text)
				idx, err := tbwt.From(bwt, sigma)
				require.NoError(t, err)

				require.NoError(t, tbwt.HeuristicTunnel(idx))

				reversed, err := tbwt.Reconstruct(idx)
				require.NoError(t, err)
				got := reverseBytes(reversed)

				if string(got) != string(text) {
					t.Fatalf("reconstruction mismatch for %s:\n%s", name, diffReport(text, got))
				}

				require.LessOrEqual(t, idx.NumNodes(), length,
					"tunneling must never increase the node count")
			})
		}
	}
}

func TestHeuristicTunnelNeverCollidesOnRandomTexts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 25; trial++ {
		length := 20 + rng.Intn(500)
		sigma := 2 + rng.Intn(10)

		text, err := randomCyclicText(rng, length, sigma)
		require.NoError(t, err)

		bwt := bwtOfCyclicText(text)
		idx, err := tbwt.From(bwt, sigma)
		require.NoError(t, err)

		blocks, err := tbwt.Heuristic(idx)
		require.NoError(t, err)

		occupied := make(map[int]tbwt.Block)
		for _, b := range blocks {
			for row := b.I; row <= b.J; row++ {
				prior, seen := occupied[row]
				require.Falsef(t, seen, "trial %d: blocks %v and %v both claim L-row %d", trial, prior, b, row)
				occupied[row] = b
			}
		}
	}
}
