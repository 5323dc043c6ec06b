// SPDX-License-Identifier: MIT

// Package modelio loads declarative matflow model definitions from YAML,
// populating the registries and constraints the solver consumes.
//
// # Document shape
//
//	resources:
//	  - {name: hay, unit: bales}
//	  - {name: cow}                      # unit defaults to "ea"
//	processes:
//	  - name: arable_farm
//	    produces: {hay: 10}
//	  - name: dairy_farm
//	    produces: {cow: 1, hay: -2}      # negative = consumed per run
//	  - name: power_plant
//	    produces: {hay: [1, 0.5, 2]}     # [point, lower, upper] interval
//	constraints:
//	  - {name: burger_consumption, kind: eq, terms: {mcdonalds: 1}, bound: 10}
//	objective: {arable_farm: 1}          # optional; omitted = minimize total runs
//
// Quantities are either a scalar or a three-element [point, lower, upper]
// sequence; any interval quantity switches the model into bounded mode.
// Constraint kinds are eq, le and ge. Every name must resolve against the
// resources and processes declared in the same document; unknown names,
// empty produces maps and malformed quantities fail the load with the
// matching sentinel. Unknown document fields are rejected.
package modelio
