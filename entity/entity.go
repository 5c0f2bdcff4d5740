// Package entity assembles complete class descriptors.
package entity

import (
	"fmt"
	"strings"

	"github.com/c360studio/brickshape/brickerr"
	"github.com/c360studio/brickshape/curie"
	"github.com/c360studio/brickshape/graph"
	"github.com/c360studio/brickshape/hierarchy"
	"github.com/c360studio/brickshape/shape"
	"github.com/c360studio/brickshape/vocabulary/brick"
)

// BrickEntity describes one class. It holds no references into the store.
type BrickEntity struct {
	Name         string                `json:"name" yaml:"name"`
	Namespace    string                `json:"namespace" yaml:"namespace"`
	Label        string                `json:"label,omitempty" yaml:"label,omitempty"`
	Definition   string                `json:"definition,omitempty" yaml:"definition,omitempty"`
	Types        []string              `json:"types" yaml:"types"`
	SuperClasses []curie.Curie         `json:"superClasses" yaml:"superClasses"`
	Tags         []string              `json:"tags" yaml:"tags"`
	Properties   []shape.BrickProperty `json:"properties" yaml:"properties"`
}

// Curie returns the identifier of the described class.
func (e *BrickEntity) Curie() curie.Curie {
	return curie.New(e.Namespace, e.Name)
}

// LabelPolicy selects how multiple label or definition literals are combined.
type LabelPolicy string

const (
	// LabelFirst keeps one literal, preferring an untagged or English one.
	LabelFirst LabelPolicy = "first"

	// LabelJoin joins every literal with "; " in store order.
	LabelJoin LabelPolicy = "join"
)

// Valid reports whether p is a known policy.
func (p LabelPolicy) Valid() bool {
	return p == LabelFirst || p == LabelJoin
}

const joinSeparator = "; "

// Assembler builds BrickEntity values from the hierarchy query and the shape
// extractor.
type Assembler struct {
	store     graph.Store
	registry  *curie.Registry
	hierarchy *hierarchy.Query
	shapes    *shape.Extractor
	policy    LabelPolicy
}

// NewAssembler creates an assembler. An invalid policy falls back to LabelFirst.
func NewAssembler(store graph.Store, registry *curie.Registry, h *hierarchy.Query, shapes *shape.Extractor, policy LabelPolicy) *Assembler {
	if !policy.Valid() {
		policy = LabelFirst
	}
	return &Assembler{
		store:     store,
		registry:  registry,
		hierarchy: h,
		shapes:    shapes,
		policy:    policy,
	}
}

// Describe assembles the descriptor of class. The first failing sub-query aborts
// the assembly.
func (a *Assembler) Describe(class curie.Curie) (*BrickEntity, error) {
	iri, err := a.registry.ToIRI(class)
	if err != nil {
		return nil, err
	}
	subject := graph.IRI(iri)

	label, err := a.literal(subject, graph.IRI(brick.RDFSLabel))
	if err != nil {
		return nil, fmt.Errorf("label of %s: %w", class, err)
	}
	definition, err := a.literal(subject, graph.IRI(brick.SKOSDefinition))
	if err != nil {
		return nil, fmt.Errorf("definition of %s: %w", class, err)
	}

	typeTerms := graph.Objects(a.store, subject, graph.IRI(brick.RDFType))
	types := make([]string, 0, len(typeTerms))
	for _, t := range typeTerms {
		if !t.IsIRI() {
			return nil, fmt.Errorf("type of %s: %s: %w", class, t, brickerr.ErrNotAnIdentifier)
		}
		types = append(types, curie.DisplayType(t.Value))
	}

	supers, err := a.hierarchy.SuperclassesOf(class)
	if err != nil {
		return nil, err
	}
	tags, err := a.hierarchy.TagsOf(class)
	if err != nil {
		return nil, err
	}
	props, err := a.shapes.PropertiesOf(class)
	if err != nil {
		return nil, err
	}

	return &BrickEntity{
		Name:         class.LocalName,
		Namespace:    class.Prefix,
		Label:        label,
		Definition:   definition,
		Types:        types,
		SuperClasses: supers,
		Tags:         tags,
		Properties:   props,
	}, nil
}

// literal reads the literal objects of (subject, predicate, ?) under the
// assembler's policy. No objects yields "".
func (a *Assembler) literal(subject, predicate graph.Term) (string, error) {
	objects := graph.Objects(a.store, subject, predicate)
	for _, o := range objects {
		if !o.IsLiteral() {
			return "", fmt.Errorf("%s: %w", o, brickerr.ErrMissingLiteral)
		}
	}
	if len(objects) == 0 {
		return "", nil
	}

	if a.policy == LabelJoin {
		parts := make([]string, len(objects))
		for i, o := range objects {
			parts[i] = o.Value
		}
		return strings.Join(parts, joinSeparator), nil
	}

	for _, o := range objects {
		if o.Lang == "" || strings.EqualFold(o.Lang, "en") || strings.HasPrefix(strings.ToLower(o.Lang), "en-") {
			return o.Value, nil
		}
	}
	return objects[0].Value, nil
}
