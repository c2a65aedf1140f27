// Package query implements the Query & Filter Engine: a predicate tree
// over Genome nodes, BFS-based dependency/path navigation, field-level
// comparison, a deterministic natural-language keyword router, and a
// TTL+LRU result cache. Grounded on the teacher's own query.Engine
// pattern (internal/query/engine.go: a struct wrapping storage, a
// resolver and a compressor, exposing typed Options/Response methods)
// and its navigation.go for BFS-shaped traversal, retargeted from CKB's
// symbol-store backends onto a single in-memory Genome.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"repogenome/internal/genome"
	"repogenome/internal/rgerrors"
)

// Op is the closed set of leaf predicate operators.
type Op string

const (
	OpEq      Op = "eq"
	OpRegex   Op = "regex"
	OpIn      Op = "in"
	OpBetween Op = "between"
)

// Predicate is one node of the filter predicate tree. Exactly one of
// And/Or/Not/a leaf operator should be set; Eval treats an empty
// Predicate as "matches everything" so a caller can omit unused branches
// without special-casing nil.
type Predicate struct {
	And []Predicate `json:"and,omitempty"`
	Or  []Predicate `json:"or,omitempty"`
	Not *Predicate  `json:"not,omitempty"`

	Field  string        `json:"field,omitempty"`
	Op     Op            `json:"op,omitempty"`
	Value  interface{}   `json:"value,omitempty"`
	Values []interface{} `json:"values,omitempty"`
	Min    float64       `json:"min,omitempty"`
	Max    float64       `json:"max,omitempty"`
}

// candidate is the flattened, evaluable view of one node the predicate
// tree matches against — a Genome node plus its id and (if any) the
// concept slugs it belongs to, since "concept:" is not a Node field.
type candidate struct {
	id       genome.NodeId
	node     genome.Node
	concepts []string
}

// Eval reports whether c satisfies p.
func (p Predicate) Eval(c candidate) (bool, error) {
	switch {
	case len(p.And) > 0:
		for _, sub := range p.And {
			ok, err := sub.Eval(c)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case len(p.Or) > 0:
		for _, sub := range p.Or {
			ok, err := sub.Eval(c)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case p.Not != nil:
		ok, err := p.Not.Eval(c)
		if err != nil {
			return false, err
		}
		return !ok, nil
	case p.Field == "":
		return true, nil
	default:
		return p.evalLeaf(c)
	}
}

func (p Predicate) evalLeaf(c candidate) (bool, error) {
	if strings.ToLower(p.Field) == "concept" {
		return evalConceptMembership(c, p), nil
	}

	fieldVal, err := fieldValue(c, p.Field)
	if err != nil {
		return false, err
	}

	switch p.Op {
	case OpEq, "":
		return fmt.Sprint(fieldVal) == fmt.Sprint(p.Value), nil
	case OpRegex:
		pattern, ok := p.Value.(string)
		if !ok {
			return false, rgerrors.New(rgerrors.InvalidInput, "regex predicate value must be a string")
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, rgerrors.Wrap(rgerrors.InvalidInput, "compiling regex predicate", err)
		}
		return re.MatchString(fmt.Sprint(fieldVal)), nil
	case OpIn:
		s := fmt.Sprint(fieldVal)
		for _, v := range p.Values {
			if fmt.Sprint(v) == s {
				return true, nil
			}
		}
		return false, nil
	case OpBetween:
		f, ok := fieldVal.(float64)
		if !ok {
			return false, rgerrors.New(rgerrors.InvalidInput, "between predicate requires a numeric field")
		}
		return f >= p.Min && f <= p.Max, nil
	default:
		return false, rgerrors.New(rgerrors.InvalidInput, "unknown predicate operator: "+string(p.Op))
	}
}

// evalConceptMembership checks whether c belongs to the queried concept
// slug(s), since a node can belong to more than one concept and a plain
// string-equality check on the joined list would give false negatives.
func evalConceptMembership(c candidate, p Predicate) bool {
	wanted := p.Values
	if p.Value != nil {
		wanted = append(wanted, p.Value)
	}
	for _, w := range wanted {
		ws := fmt.Sprint(w)
		for _, have := range c.concepts {
			if have == ws {
				return true
			}
		}
	}
	return false
}

// fieldValue resolves p.Field against a candidate. The field set is
// closed and mirrors the queryable surface of genome.Node plus the
// synthetic "concept" field.
func fieldValue(c candidate, field string) (interface{}, error) {
	switch strings.ToLower(field) {
	case "type", "t":
		return string(c.node.Type), nil
	case "file", "f":
		return c.node.File, nil
	case "language", "lang":
		return c.node.Language, nil
	case "visibility", "v":
		return string(c.node.Visibility), nil
	case "summary", "s":
		return c.node.Summary, nil
	case "criticality", "c":
		return c.node.Criticality, nil
	case "concept":
		return strings.Join(c.concepts, ","), nil
	case "id":
		return string(c.id), nil
	default:
		return nil, rgerrors.New(rgerrors.InvalidInput, "unknown predicate field: "+field)
	}
}
