// Package export serializes class descriptors.
//
// JSON and YAML marshal the descriptor structs directly. Turtle and N-Triples
// re-express a descriptor as Brick/SHACL statements: class facts on the class
// IRI, and one blank node per property shape with logical constraints written
// as RDF collections.
package export

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/c360studio/brickshape/curie"
	"github.com/c360studio/brickshape/entity"
	"github.com/c360studio/brickshape/graph"
	"github.com/c360studio/brickshape/shape"
	"github.com/c360studio/brickshape/vocabulary/brick"
)

const (
	xsdInteger = brick.XSDNamespace + "integer"
	xsdDouble  = brick.XSDNamespace + "double"
)

// builder accumulates the statements of one or more descriptors.
type builder struct {
	registry *curie.Registry
	triples  []graph.Triple
	blanks   int
}

func newBuilder(registry *curie.Registry) *builder {
	if registry == nil {
		registry = curie.NewRegistry(brick.DefaultPrefixes())
	}
	return &builder{registry: registry}
}

// Triples renders descriptors as RDF statements. The class statements of each
// descriptor come first, followed by its property shapes.
func Triples(registry *curie.Registry, entities ...*entity.BrickEntity) ([]graph.Triple, error) {
	b := newBuilder(registry)
	for _, e := range entities {
		if err := b.addEntity(e); err != nil {
			return nil, err
		}
	}
	return b.triples, nil
}

// PropertyTriples renders the property shapes of class as sh:property statements.
func PropertyTriples(registry *curie.Registry, class curie.Curie, props []shape.BrickProperty) ([]graph.Triple, error) {
	b := newBuilder(registry)
	subject, err := b.curieTerm(class)
	if err != nil {
		return nil, err
	}
	if err := b.addProperties(subject, props); err != nil {
		return nil, err
	}
	return b.triples, nil
}

func (b *builder) add(s graph.Term, predicate string, o graph.Term) {
	b.triples = append(b.triples, graph.Triple{
		Subject:   s,
		Predicate: graph.IRI(brick.PredicateIRI(predicate)),
		Object:    o,
	})
}

func (b *builder) blank() graph.Term {
	b.blanks++
	return graph.Blank("b" + strconv.Itoa(b.blanks))
}

func (b *builder) addEntity(e *entity.BrickEntity) error {
	if e == nil {
		return nil
	}
	subject, err := b.curieTerm(e.Curie())
	if err != nil {
		return fmt.Errorf("export %s: %w", e.Curie(), err)
	}

	for _, t := range e.Types {
		if iri, ok := b.typeIRI(t); ok {
			b.add(subject, brick.ClassType, graph.IRI(iri))
		} else {
			b.add(subject, brick.ClassType, graph.Literal(t))
		}
	}
	if e.Label != "" {
		b.add(subject, brick.ClassLabel, graph.Literal(e.Label))
	}
	if e.Definition != "" {
		b.add(subject, brick.ClassDefinition, graph.Literal(e.Definition))
	}
	for _, super := range e.SuperClasses {
		o, err := b.curieTerm(super)
		if err != nil {
			return fmt.Errorf("export %s: %w", e.Curie(), err)
		}
		b.add(subject, brick.ClassSubClassOf, o)
	}
	for _, tag := range e.Tags {
		b.add(subject, brick.ClassTag, graph.IRI(brick.TagNamespace+tag))
	}

	if err := b.addProperties(subject, e.Properties); err != nil {
		return fmt.Errorf("export %s: %w", e.Curie(), err)
	}
	return nil
}

func (b *builder) addProperties(subject graph.Term, props []shape.BrickProperty) error {
	nodes := make([]graph.Term, len(props))
	for i := range props {
		nodes[i] = b.blank()
		b.add(subject, brick.ClassProperty, nodes[i])
	}
	for i, p := range props {
		if err := b.addShape(nodes[i], p); err != nil {
			return err
		}
	}
	return nil
}

// addShape writes the fields of p on node. Nested shapes are written after the
// node's own statements so each subject stays contiguous.
func (b *builder) addShape(node graph.Term, p shape.BrickProperty) error {
	var nested []func() error

	if p.Path != "" {
		if inverse, ok := strings.CutPrefix(p.Path, "^"); ok {
			pathNode := b.blank()
			b.add(node, brick.ShapePath, pathNode)
			nested = append(nested, func() error {
				b.triples = append(b.triples, graph.Triple{
					Subject:   pathNode,
					Predicate: graph.IRI(brick.SHInversePath),
					Object:    graph.IRI(brick.Namespace + inverse),
				})
				return nil
			})
		} else {
			b.add(node, brick.ShapePath, graph.IRI(brick.Namespace+p.Path))
		}
	}
	if p.Definition != "" {
		b.add(node, brick.ShapeMessage, graph.Literal(p.Definition))
	}

	for _, ref := range []struct {
		predicate string
		value     *curie.Curie
	}{
		{brick.ShapeClass, p.Class},
		{brick.ShapeDatatype, p.Datatype},
		{brick.ShapeNodeKind, p.NodeKind},
	} {
		if ref.value == nil {
			continue
		}
		o, err := b.curieTerm(*ref.value)
		if err != nil {
			return err
		}
		b.add(node, ref.predicate, o)
	}
	for _, super := range p.SubclassOf {
		o, err := b.curieTerm(super)
		if err != nil {
			return err
		}
		b.add(node, brick.ClassSubClassOf, o)
	}

	for _, bound := range []struct {
		predicate string
		value     *uint32
	}{
		{brick.ShapeMinCount, p.MinCount},
		{brick.ShapeMaxCount, p.MaxCount},
		{brick.ShapeMinLength, p.MinLength},
		{brick.ShapeMaxLength, p.MaxLength},
	} {
		if bound.value != nil {
			b.add(node, bound.predicate, graph.TypedLiteral(strconv.FormatUint(uint64(*bound.value), 10), xsdInteger))
		}
	}
	for _, bound := range []struct {
		predicate string
		value     *float64
	}{
		{brick.ShapeMinInclusive, p.MinInclusive},
		{brick.ShapeMaxInclusive, p.MaxInclusive},
		{brick.ShapeMinExclusive, p.MinExclusive},
		{brick.ShapeMaxExclusive, p.MaxExclusive},
	} {
		if bound.value != nil {
			b.add(node, bound.predicate, graph.TypedLiteral(strconv.FormatFloat(*bound.value, 'g', -1, 64), xsdDouble))
		}
	}

	if p.Pattern != "" {
		b.add(node, brick.ShapePattern, graph.Literal(p.Pattern))
	}
	for _, c := range p.Constraints {
		predicate, err := pairPredicate(c.Kind)
		if err != nil {
			return err
		}
		b.add(node, predicate, graph.IRI(brick.Namespace+c.Property))
	}
	if p.OneOf != nil {
		items := make([]graph.Term, len(p.OneOf))
		for i, v := range p.OneOf {
			items[i] = b.value(v)
		}
		head := b.list(items, &nested)
		b.add(node, brick.ShapeIn, head)
	}
	if p.HasValue != "" {
		b.add(node, brick.ShapeHasValue, b.value(p.HasValue))
	}

	for _, lc := range p.LogicalConstraints {
		members := make([]graph.Term, len(lc.Properties))
		for i := range lc.Properties {
			members[i] = b.blank()
		}

		switch lc.Operator {
		case shape.Not:
			if len(members) != 1 {
				return fmt.Errorf("not constraint with %d members", len(members))
			}
			b.add(node, brick.ShapeNot, members[0])
		case shape.And, shape.Or, shape.XOne:
			head := b.list(members, &nested)
			b.add(node, logicalPredicate(lc.Operator), head)
		default:
			return fmt.Errorf("unknown logical operator %q", lc.Operator)
		}

		for i, member := range lc.Properties {
			memberNode := members[i]
			nested = append(nested, func() error { return b.addShape(memberNode, member) })
		}
	}

	for _, write := range nested {
		if err := write(); err != nil {
			return err
		}
	}
	return nil
}

// list allocates collection cells for items and defers writing them.
func (b *builder) list(items []graph.Term, nested *[]func() error) graph.Term {
	if len(items) == 0 {
		return graph.IRI(brick.RDFNil)
	}
	cells := make([]graph.Term, len(items))
	for i := range items {
		cells[i] = b.blank()
	}
	*nested = append(*nested, func() error {
		for i, cell := range cells {
			rest := graph.IRI(brick.RDFNil)
			if i+1 < len(cells) {
				rest = cells[i+1]
			}
			b.triples = append(b.triples,
				graph.Triple{Subject: cell, Predicate: graph.IRI(brick.RDFFirst), Object: items[i]},
				graph.Triple{Subject: cell, Predicate: graph.IRI(brick.RDFRest), Object: rest})
		}
		return nil
	})
	return cells[0]
}

func (b *builder) curieTerm(c curie.Curie) (graph.Term, error) {
	iri, err := b.registry.ToIRI(c)
	if err != nil {
		return graph.Term{}, err
	}
	return graph.IRI(iri), nil
}

// value turns an enumerated or fixed value back into a term: registered CURIE
// text and absolute IRIs become IRIs, anything else a plain literal.
func (b *builder) value(v string) graph.Term {
	if c, err := curie.Parse(v); err == nil {
		if iri, err := b.registry.ToIRI(c); err == nil {
			return graph.IRI(iri)
		}
	}
	if strings.Contains(v, "://") && !strings.ContainsAny(v, " \t\n") {
		return graph.IRI(v)
	}
	return graph.Literal(v)
}

// typeIRI reverses curie.DisplayType using the registered namespaces.
func (b *builder) typeIRI(display string) (string, bool) {
	segment, local, ok := strings.Cut(display, "#")
	if !ok || local == "" {
		return "", false
	}
	prefixes := b.registry.Prefixes()
	for _, prefix := range slices.Sorted(maps.Keys(prefixes)) {
		if base := prefixes[prefix]; curie.DisplayType(base) == segment+"#" {
			return base + local, true
		}
	}
	return "", false
}

func pairPredicate(kind shape.PairKind) (string, error) {
	switch kind {
	case shape.Equal:
		return brick.ShapeEquals, nil
	case shape.Disjoint:
		return brick.ShapeDisjoint, nil
	case shape.LessThan:
		return brick.ShapeLessThan, nil
	case shape.LessThanOrEqual:
		return brick.ShapeLessThanOrEquals, nil
	default:
		return "", fmt.Errorf("unknown pair constraint %q", kind)
	}
}

func logicalPredicate(op shape.LogicalOperator) string {
	switch op {
	case shape.And:
		return brick.ShapeAnd
	case shape.Or:
		return brick.ShapeOr
	default:
		return brick.ShapeXone
	}
}
