package tbwt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func walkBackward(t *testing.T, idx *Index, steps int) []int {
	t.Helper()
	node := 0
	stack := []int{0}
	nodes := []int{node}
	for i := 0; i < steps; i++ {
		next, err := BackwardStep(idx, node, &stack)
		if err != nil {
			t.Fatalf("BackwardStep(%d): %v", node, err)
		}
		node = next
		nodes = append(nodes, node)
	}
	return nodes
}

func TestBackwardStepSeedScenario1(t *testing.T) {
	text := []byte{1, 2, 3, 4, 2, 3, 4, 5, 0}
	bwt := bwtFromCyclicText(text)

	idx, err := From(bwt, 6)
	if err != nil {
		t.Fatalf("From: %v", err)
	}

	got := walkBackward(t, idx, 8)
	want := []int{0, 8, 7, 5, 3, 6, 4, 2, 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("node walk mismatch (-want +got):\n%s", diff)
	}
}

func TestBackwardStepSeedScenario2(t *testing.T) {
	l := []byte{5, 0, 1, 4, 2, 3, 4}
	dout := []bool{true, true, true, false, true, true, true, true}
	din := []bool{true, true, true, true, true, false, true, true}

	doutBV := newFilledBitVector(len(dout), false)
	for i, b := range dout {
		doutBV.setBit(i, b)
	}
	dinBV := newFilledBitVector(len(din), false)
	for i, b := range din {
		dinBV.setBit(i, b)
	}

	idx, err := buildTunneledIndex(l, 6, identityCharMap(6), dinBV, doutBV)
	if err != nil {
		t.Fatalf("buildTunneledIndex: %v", err)
	}

	got := walkBackward(t, idx, 8)
	want := []int{0, 5, 4, 3, 2, 4, 3, 2, 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("node walk mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstructSeedScenario3(t *testing.T) {
	l := []byte{6, 0, 1, 2, 3, 4, 5}

	idx, err := From(l, 7)
	if err != nil {
		t.Fatalf("From: %v", err)
	}

	got, err := Reconstruct(idx)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}

	want := []byte{0, 6, 5, 4, 3, 2, 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("reconstruct mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstructRoundTrip(t *testing.T) {
	texts := [][]byte{
		{1, 2, 3, 4, 2, 3, 4, 5, 0},
		{3, 1, 5, 6, 4, 3, 1, 5, 6, 2, 4, 3, 1, 5, 6, 2, 0},
	}

	for _, text := range texts {
		bwt := bwtFromCyclicText(text)
		sigma := 0
		for _, c := range bwt {
			if int(c)+1 > sigma {
				sigma = int(c) + 1
			}
		}

		idx, err := From(bwt, sigma)
		if err != nil {
			t.Fatalf("From(%v): %v", text, err)
		}

		reversed, err := Reconstruct(idx)
		if err != nil {
			t.Fatalf("Reconstruct: %v", err)
		}

		out := make([]byte, len(reversed))
		for i, c := range reversed {
			out[len(reversed)-1-i] = c
		}
		if diff := cmp.Diff(text, out); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}
