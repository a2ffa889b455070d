/*
Package tbwt implements a Tunneled Burrows-Wheeler Transform (TBWT): a
compressed self-index built over a classic BWT that collapses repeated
runs of identical LF-mapping behavior ("blocks") into shared paths
("tunnels"), shrinking the index while preserving the ability to walk
backwards through the original text one character at a time.

# Building an index

An Index is built once from a classic BWT (computed elsewhere - this
package does not build suffix arrays) via From or FromRaw:

	idx, err := tbwt.From(compactBWT, sigma)
	idx, err := tbwt.FromRaw(rawBWTBytes)

From there, HeuristicTunnel runs the full discovery-and-collapse
pipeline: maximal-block discovery over the BWT matrix, a three-pass
heuristic that resolves colliding candidate blocks into a pairwise
non-colliding set, marking, and compaction.

	err := tbwt.HeuristicTunnel(idx)

# Querying

After tunneling, Reconstruct walks the index backwards from node 0
using BackwardStep and an implicit offset stack, recovering the
original text (in reverse order - see Reconstruct's doc).

The lower-level Block discovery and collision-resolution passes
(FindMaximalBlocks, Heuristic, MarkTunnel, Tunnel) are exported so
callers who want to choose their own tunnel set, rather than the
bundled heuristic, can do so.
*/
package tbwt
