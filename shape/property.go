// Package shape extracts SHACL property shapes into BrickProperty trees.
//
// A class declares its properties with sh:property. Each referenced shape node
// becomes one BrickProperty; sh:not, sh:and, sh:or and sh:xone become nested
// LogicalConstraints whose members are themselves BrickProperties, so the result
// is an arbitrarily deep tree.
package shape

import "github.com/c360studio/brickshape/curie"

// LogicalOperator is the boolean combinator of a LogicalConstraint.
type LogicalOperator string

// Logical operators.
const (
	Not  LogicalOperator = "not"
	And  LogicalOperator = "and"
	Or   LogicalOperator = "or"
	XOne LogicalOperator = "xone"
)

// LogicalConstraint combines member shapes with a boolean operator.
// A Not constraint always has exactly one member.
type LogicalConstraint struct {
	Operator   LogicalOperator `json:"operator" yaml:"operator"`
	Properties []BrickProperty `json:"properties" yaml:"properties"`
}

// PairKind is the comparison a PairConstraint applies against another property.
type PairKind string

// Pairwise constraint kinds.
const (
	Equal           PairKind = "equal"
	Disjoint        PairKind = "disjoint"
	LessThan        PairKind = "lessThan"
	LessThanOrEqual PairKind = "lessThanOrEqual"
)

// PairConstraint relates the values of this property to another property, named
// by its local name.
type PairConstraint struct {
	Kind     PairKind `json:"kind" yaml:"kind"`
	Property string   `json:"property" yaml:"property"`
}

// BrickProperty describes one property shape. The zero value has every optional
// field empty.
type BrickProperty struct {
	Path       string        `json:"path,omitempty" yaml:"path,omitempty"`
	Definition string        `json:"definition,omitempty" yaml:"definition,omitempty"`
	Class      *curie.Curie  `json:"class,omitempty" yaml:"class,omitempty"`
	SubclassOf []curie.Curie `json:"subclassOf,omitempty" yaml:"subclassOf,omitempty"`

	MinCount *uint32 `json:"minCount,omitempty" yaml:"minCount,omitempty"`
	MaxCount *uint32 `json:"maxCount,omitempty" yaml:"maxCount,omitempty"`

	MinLength *uint32 `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *uint32 `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`

	MinInclusive *float64 `json:"minInclusive,omitempty" yaml:"minInclusive,omitempty"`
	MaxInclusive *float64 `json:"maxInclusive,omitempty" yaml:"maxInclusive,omitempty"`
	MinExclusive *float64 `json:"minExclusive,omitempty" yaml:"minExclusive,omitempty"`
	MaxExclusive *float64 `json:"maxExclusive,omitempty" yaml:"maxExclusive,omitempty"`

	Pattern  string       `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Datatype *curie.Curie `json:"datatype,omitempty" yaml:"datatype,omitempty"`
	NodeKind *curie.Curie `json:"nodeKind,omitempty" yaml:"nodeKind,omitempty"`

	Constraints        []PairConstraint    `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	LogicalConstraints []LogicalConstraint `json:"logicalConstraints,omitempty" yaml:"logicalConstraints,omitempty"`
	OneOf              []string            `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
	HasValue           string              `json:"hasValue,omitempty" yaml:"hasValue,omitempty"`
}

// ClassName returns the textual Curie of p.Class, or "" when unset.
func (p BrickProperty) ClassName() string {
	if p.Class == nil {
		return ""
	}
	return p.Class.String()
}

// Constraint returns the first logical constraint using op.
func (p BrickProperty) Constraint(op LogicalOperator) (LogicalConstraint, bool) {
	for _, lc := range p.LogicalConstraints {
		if lc.Operator == op {
			return lc, true
		}
	}
	return LogicalConstraint{}, false
}

// FindByPath returns the first property in props with the given path.
func FindByPath(props []BrickProperty, path string) (BrickProperty, bool) {
	for _, p := range props {
		if p.Path == path {
			return p, true
		}
	}
	return BrickProperty{}, false
}
