// SPDX-License-Identifier: MIT

// Package measure derives accounting views from a solved matflow model: the
// run vector, the resource matrix, the pairwise flow decomposition and the
// cumulative upstream footprint, each with interval bounds when the model
// declares Ranged quantities.
//
// # Derivations
//
// Let x be the run vector and P the per-run production matrix
// (resource × process). The derived views are:
//
//	ResourceMatrix            R[r][p] = x[p] · P[r][p] — net amount of r
//	                          produced (>0) or consumed (<0) by p.
//	FlowMatrix                Cube F[r][i][j] — amount of r flowing from
//	                          process i to process j, obtained by splitting
//	                          every consumer's demand across producers in
//	                          proportion to their share of total production.
//	                          F is antisymmetric in (i, j).
//	FlowMatrixAllocated       FlowMatrix with explicit Policy shares taking
//	                          precedence over the proportional split for the
//	                          (resource, consumer) pairs they cover.
//	CumulativeResourceMatrix  C[r][p] = total r required upstream to sustain
//	                          p at its solved level, computed by re-solving
//	                          the model once per process with the solved
//	                          production ratios locked in.
//
// # Bounds
//
// New always performs the exact solve. When the process registry declares
// Ranged quantities it additionally performs two extremal solves per process
// against the interval envelope formulation: minimize p and minimize −p.
// The ...Lower and ...Upper accessors are then the elementwise minimum and
// maximum over the exact solve and all 2N extremal solves; without Ranged
// quantities they return the exact values unchanged.
//
// # Laziness
//
// Solves happen eagerly in New (a solve failure is a construction failure).
// The derived matrices of each solve are computed lazily exactly once, via
// sync.Once, so the first accessor call pays the cost and concurrent first
// access is safe. CumulativeResourceMatrix triggers further solves and is
// the one accessor that can fail; its verdict is memoized too.
//
// Cost: construction runs 1 solve (2N+1 with bounds); the cumulative views
// run N more per underlying solve on first access.
package measure
