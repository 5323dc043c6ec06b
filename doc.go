// Package matflow is an in-memory engine for material and resource-flow
// accounting: declare resources, declare processes that produce and consume
// them, add linear constraints, and let the engine find a non-negative
// run-count for every process — then derive who supplies whom, and at what
// upstream cost.
//
// 🚀 What is matflow?
//
//	A linear-programming-backed accounting engine that brings together:
//		• Model registries: ordered, append-only Resources & Processes
//		• Constraint algebra: combine processes into weighted expressions
//		• Mass balance: every resource nets to zero across all processes
//		• Flow decomposition: directional resource transfer between processes
//		• Cumulative footprints: upstream-chain resource attribution
//		• Interval mode: ranged production quantities ⇒ lower/upper bounds
//
// Under the hood, everything is organized under six subpackages:
//
//	model/   — Resources, Processes, expressions, constraints, policies
//	linsys/  — dense matrices, system assembly, magnitude scaling
//	oracle/  — the LP solving primitive (gonum simplex by default)
//	solve/   — orchestration + human-actionable failure diagnostics
//	measure/ — run vectors, resource/flow/cumulative matrices, bounds
//	modelio/ — declarative YAML model definitions
//
// Quick ASCII example:
//
//	arable_farm ──hay──▶ dairy_farm ──cow──▶ mcdonalds
//
//	one constraint (mcdonalds == 10) pins the whole chain:
//	run vector [20, 10, 10].
//
// Dive into the per-package docs for the full algorithmic detail, from the
// proportional flow decomposition to the 2N+1-solve interval machinery.
package matflow
