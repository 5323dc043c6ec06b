// SPDX-License-Identifier: MIT

package modelio

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/matflow/model"
)

// ErrBadQuantity indicates a quantity that is neither a scalar nor a
// three-element [point, lower, upper] sequence.
var ErrBadQuantity = errors.New("modelio: quantity must be a scalar or [point, lower, upper]")

// ErrUnknownKind indicates a constraint kind other than eq, le or ge.
var ErrUnknownKind = errors.New("modelio: unknown constraint kind")

// Definition is a fully resolved model: populated registries, constraints
// and the optional objective, ready for solve.Run or measure.New.
type Definition struct {
	Resources   *model.Resources
	Processes   *model.Processes
	Constraints []model.Constraint
	Objective   *model.Expr
}

type document struct {
	Resources   []resourceDef   `yaml:"resources"`
	Processes   []processDef    `yaml:"processes"`
	Constraints []constraintDef `yaml:"constraints"`
	Objective   yaml.Node       `yaml:"objective"`
}

type resourceDef struct {
	Name string `yaml:"name"`
	Unit string `yaml:"unit"`
}

type processDef struct {
	Name     string              `yaml:"name"`
	Produces map[string]quantity `yaml:"produces"`
	// Order preserves the document's key order; yaml maps are unordered so
	// it is rebuilt from the node during decoding.
	order []string
}

type constraintDef struct {
	Name  string             `yaml:"name"`
	Kind  string             `yaml:"kind"`
	Terms map[string]float64 `yaml:"terms"`
	Bound float64            `yaml:"bound"`
}

// quantity is a scalar or a [point, lower, upper] interval.
type quantity struct {
	value  float64
	lower  float64
	upper  float64
	ranged bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (q *quantity) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&q.value)
	case yaml.SequenceNode:
		var vals []float64
		if err := node.Decode(&vals); err != nil {
			return err
		}
		if len(vals) != 3 {
			return fmt.Errorf("%d elements: %w", len(vals), ErrBadQuantity)
		}
		q.value, q.lower, q.upper = vals[0], vals[1], vals[2]
		q.ranged = true

		return nil
	default:
		return ErrBadQuantity
	}
}

// UnmarshalYAML implements yaml.Unmarshaler, capturing the produces key
// order alongside the decoded fields.
func (p *processDef) UnmarshalYAML(node *yaml.Node) error {
	type plain processDef
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*p = processDef(out)

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "produces" {
			continue
		}
		seq := node.Content[i+1]
		for j := 0; j+1 < len(seq.Content); j += 2 {
			p.order = append(p.order, seq.Content[j].Value)
		}
	}

	return nil
}

// Load parses a YAML model definition.
// Stage 1 (Decode): strict-field decode of the document.
// Stage 2 (Register): create resources, then processes (resolving resource
// names, carrying interval quantities through as Ranged entries).
// Stage 3 (Resolve): build constraint expressions and the objective against
// the registered processes.
// Every failure wraps a sentinel from this package or from model.
func Load(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("modelio: %w", err)
	}

	def := &Definition{
		Resources: model.NewResources(),
		Processes: model.NewProcesses(),
	}
	for _, r := range doc.Resources {
		def.Resources.Create(r.Name, r.Unit)
	}

	for _, p := range doc.Processes {
		entries := make([]model.Entry, 0, len(p.Produces))
		for _, resName := range p.order {
			res, err := def.Resources.ByName(resName)
			if err != nil {
				return nil, fmt.Errorf("process %q: %w", p.Name, err)
			}
			q := p.Produces[resName]
			if q.ranged {
				entries = append(entries, model.Ranged(res, q.value, q.lower, q.upper))
			} else {
				entries = append(entries, model.Fixed(res, q.value))
			}
		}
		if _, err := def.Processes.Create(p.Name, entries...); err != nil {
			return nil, err
		}
	}

	for _, c := range doc.Constraints {
		expr, err := resolveExpr(def.Processes, c.Terms)
		if err != nil {
			return nil, fmt.Errorf("constraint %q: %w", c.Name, err)
		}
		switch c.Kind {
		case "eq":
			def.Constraints = append(def.Constraints, model.NewEq(c.Name, expr, c.Bound))
		case "le":
			def.Constraints = append(def.Constraints, model.NewLe(c.Name, expr, c.Bound))
		case "ge":
			def.Constraints = append(def.Constraints, model.NewGe(c.Name, expr, c.Bound))
		default:
			return nil, fmt.Errorf("constraint %q kind %q: %w", c.Name, c.Kind, ErrUnknownKind)
		}
	}

	if !doc.Objective.IsZero() {
		var terms map[string]float64
		if err := doc.Objective.Decode(&terms); err != nil {
			return nil, fmt.Errorf("modelio: objective: %w", err)
		}
		expr, err := resolveExpr(def.Processes, terms)
		if err != nil {
			return nil, fmt.Errorf("objective: %w", err)
		}
		def.Objective = expr
	}

	return def, nil
}

func resolveExpr(ps *model.Processes, terms map[string]float64) (*model.Expr, error) {
	parts := make([]model.Term, 0, len(terms))
	for name, coef := range terms {
		p, err := ps.ByName(name)
		if err != nil {
			return nil, err
		}
		parts = append(parts, model.Scale(p, coef))
	}

	return model.Add(parts...)
}
