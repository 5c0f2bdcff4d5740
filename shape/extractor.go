package shape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360studio/brickshape/brickerr"
	"github.com/c360studio/brickshape/curie"
	"github.com/c360studio/brickshape/graph"
	"github.com/c360studio/brickshape/vocabulary/brick"
)

const (
	// DefaultMaxDepth bounds logical constraint nesting.
	DefaultMaxDepth = 64

	// DefaultMaxListLength bounds the number of cells walked in one collection.
	DefaultMaxListLength = 4096
)

// field is a SHACL predicate the extractor understands.
type field int

const (
	fieldMessage field = iota + 1
	fieldClass
	fieldPath
	fieldDatatype
	fieldNodeKind
	fieldMinCount
	fieldMaxCount
	fieldMinLength
	fieldMaxLength
	fieldMinInclusive
	fieldMaxInclusive
	fieldMinExclusive
	fieldMaxExclusive
	fieldPattern
	fieldEquals
	fieldDisjoint
	fieldLessThan
	fieldLessThanOrEquals
	fieldIn
	fieldHasValue
	fieldNot
	fieldAnd
	fieldOr
	fieldXone
)

// fields maps SHACL local names to the field they populate. Predicates outside
// this table are ignored.
var fields = map[string]field{
	"message":          fieldMessage,
	"class":            fieldClass,
	"path":             fieldPath,
	"datatype":         fieldDatatype,
	"nodeKind":         fieldNodeKind,
	"minCount":         fieldMinCount,
	"maxCount":         fieldMaxCount,
	"minLength":        fieldMinLength,
	"maxLength":        fieldMaxLength,
	"minInclusive":     fieldMinInclusive,
	"maxInclusive":     fieldMaxInclusive,
	"minExclusive":     fieldMinExclusive,
	"maxExclusive":     fieldMaxExclusive,
	"pattern":          fieldPattern,
	"equals":           fieldEquals,
	"disjoint":         fieldDisjoint,
	"lessThan":         fieldLessThan,
	"lessThanOrEquals": fieldLessThanOrEquals,
	"in":               fieldIn,
	"hasValue":         fieldHasValue,
	"not":              fieldNot,
	"and":              fieldAnd,
	"or":               fieldOr,
	"xone":             fieldXone,
}

var (
	rdfFirst       = graph.IRI(brick.RDFFirst)
	rdfRest        = graph.IRI(brick.RDFRest)
	rdfNil         = graph.IRI(brick.RDFNil)
	shProperty     = graph.IRI(brick.SHProperty)
	shInversePath  = graph.IRI(brick.SHInversePath)
	rdfsSubClassOf = graph.IRI(brick.RDFSSubClassOf)
)

// Extractor turns the property shapes of a class into BrickProperty trees.
// It only reads the store, so one Extractor may serve concurrent callers.
type Extractor struct {
	store         graph.Store
	registry      *curie.Registry
	maxDepth      int
	maxListLength int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxDepth sets the logical constraint nesting limit. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(e *Extractor) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithMaxListLength sets the collection length limit. Values below 1 are ignored.
func WithMaxListLength(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxListLength = n
		}
	}
}

// NewExtractor creates an extractor over store, resolving identifiers with registry.
func NewExtractor(store graph.Store, registry *curie.Registry, opts ...Option) *Extractor {
	e := &Extractor{
		store:         store,
		registry:      registry,
		maxDepth:      DefaultMaxDepth,
		maxListLength: DefaultMaxListLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PropertiesOf returns one BrickProperty per sh:property shape of class, in store
// order. A class without shapes yields an empty slice.
func (e *Extractor) PropertiesOf(class curie.Curie) ([]BrickProperty, error) {
	iri, err := e.registry.ToIRI(class)
	if err != nil {
		return nil, err
	}

	nodes := graph.Objects(e.store, graph.IRI(iri), shProperty)
	props := make([]BrickProperty, 0, len(nodes))
	for _, node := range nodes {
		prop, err := e.Extract(node)
		if err != nil {
			return nil, fmt.Errorf("property of %s: %w", class, err)
		}
		props = append(props, prop)
	}
	return props, nil
}

// Extract builds the BrickProperty rooted at a shape node.
func (e *Extractor) Extract(node graph.Term) (BrickProperty, error) {
	w := &walk{Extractor: e, active: make(map[graph.Term]struct{})}
	return w.extract(node, 0)
}

// walk carries the shapes currently being expanded, so a shape that refers back
// to one of its ancestors fails fast instead of expanding to the depth limit.
type walk struct {
	*Extractor
	active map[graph.Term]struct{}
}

func (w *walk) extract(node graph.Term, depth int) (BrickProperty, error) {
	if depth > w.maxDepth {
		return BrickProperty{}, fmt.Errorf("shape %s: nesting exceeds %d levels: %w",
			node, w.maxDepth, brickerr.ErrMalformedList)
	}
	if !node.IsIdentifier() {
		return BrickProperty{}, fmt.Errorf("shape %s: %w", node, brickerr.ErrNotAnIdentifier)
	}
	if _, ok := w.active[node]; ok {
		return BrickProperty{}, fmt.Errorf("shape %s: refers to itself: %w", node, brickerr.ErrMalformedList)
	}
	w.active[node] = struct{}{}
	defer delete(w.active, node)

	var prop BrickProperty
	for _, tr := range w.store.Match(graph.Pattern{Subject: &node}) {
		if tr.Predicate == rdfsSubClassOf {
			c, err := w.identifier(tr.Object)
			if err != nil {
				return BrickProperty{}, fmt.Errorf("shape %s: subClassOf: %w", node, err)
			}
			prop.SubclassOf = append(prop.SubclassOf, c)
			continue
		}

		local, ok := strings.CutPrefix(tr.Predicate.Value, brick.SHACLNamespace)
		if !ok || !tr.Predicate.IsIRI() {
			continue
		}
		f, ok := fields[local]
		if !ok {
			continue
		}
		if err := w.apply(&prop, f, tr.Object, depth); err != nil {
			return BrickProperty{}, fmt.Errorf("shape %s: %s: %w", node, local, err)
		}
	}
	return prop, nil
}

func (w *walk) apply(prop *BrickProperty, f field, obj graph.Term, depth int) error {
	var err error
	switch f {
	case fieldMessage:
		prop.Definition, err = lexical(obj)
	case fieldPattern:
		prop.Pattern, err = lexical(obj)
	case fieldPath:
		prop.Path, err = w.path(obj)
	case fieldClass:
		prop.Class, err = w.optionalIdentifier(obj)
	case fieldDatatype:
		prop.Datatype, err = w.optionalIdentifier(obj)
	case fieldNodeKind:
		prop.NodeKind, err = w.optionalIdentifier(obj)
	case fieldMinCount:
		prop.MinCount, err = unsigned(obj)
	case fieldMaxCount:
		prop.MaxCount, err = unsigned(obj)
	case fieldMinLength:
		prop.MinLength, err = unsigned(obj)
	case fieldMaxLength:
		prop.MaxLength, err = unsigned(obj)
	case fieldMinInclusive:
		prop.MinInclusive, err = number(obj)
	case fieldMaxInclusive:
		prop.MaxInclusive, err = number(obj)
	case fieldMinExclusive:
		prop.MinExclusive, err = number(obj)
	case fieldMaxExclusive:
		prop.MaxExclusive, err = number(obj)
	case fieldEquals:
		err = w.pair(prop, Equal, obj)
	case fieldDisjoint:
		err = w.pair(prop, Disjoint, obj)
	case fieldLessThan:
		err = w.pair(prop, LessThan, obj)
	case fieldLessThanOrEquals:
		err = w.pair(prop, LessThanOrEqual, obj)
	case fieldIn:
		prop.OneOf, err = w.values(obj)
	case fieldHasValue:
		prop.HasValue, err = w.value(obj)
	case fieldNot:
		var member BrickProperty
		member, err = w.extract(obj, depth+1)
		if err == nil {
			prop.LogicalConstraints = append(prop.LogicalConstraints,
				LogicalConstraint{Operator: Not, Properties: []BrickProperty{member}})
		}
	case fieldAnd:
		err = w.logical(prop, And, obj, depth)
	case fieldOr:
		err = w.logical(prop, Or, obj, depth)
	case fieldXone:
		err = w.logical(prop, XOne, obj, depth)
	}
	return err
}

func (w *walk) logical(prop *BrickProperty, op LogicalOperator, head graph.Term, depth int) error {
	cells, err := w.list(head)
	if err != nil {
		return err
	}
	members := make([]BrickProperty, 0, len(cells))
	for _, item := range cells {
		member, err := w.extract(item, depth+1)
		if err != nil {
			return err
		}
		members = append(members, member)
	}
	prop.LogicalConstraints = append(prop.LogicalConstraints,
		LogicalConstraint{Operator: op, Properties: members})
	return nil
}

// list returns the elements of the collection starting at head.
func (w *walk) list(head graph.Term) ([]graph.Term, error) {
	if !head.IsIdentifier() {
		return nil, fmt.Errorf("list head %s: %w", head, brickerr.ErrNotAnIdentifier)
	}

	var items []graph.Term
	visited := make(map[graph.Term]struct{})
	for cell := head; cell != rdfNil; {
		if _, seen := visited[cell]; seen {
			return nil, fmt.Errorf("list cell %s visited twice: %w", cell, brickerr.ErrMalformedList)
		}
		if len(items) >= w.maxListLength {
			return nil, fmt.Errorf("list longer than %d cells: %w", w.maxListLength, brickerr.ErrMalformedList)
		}
		visited[cell] = struct{}{}

		first := graph.Objects(w.store, cell, rdfFirst)
		rest := graph.Objects(w.store, cell, rdfRest)
		if len(first) != 1 || len(rest) != 1 {
			return nil, fmt.Errorf("list cell %s has %d first and %d rest: %w",
				cell, len(first), len(rest), brickerr.ErrMalformedList)
		}
		if !rest[0].IsIdentifier() {
			return nil, fmt.Errorf("list cell %s rest: %w", cell, brickerr.ErrMalformedList)
		}
		items = append(items, first[0])
		cell = rest[0]
	}
	return items, nil
}

func (w *walk) path(obj graph.Term) (string, error) {
	switch {
	case obj.IsIRI():
		return curie.LocalName(obj.Value), nil
	case obj.IsBlank():
		inverse := graph.Objects(w.store, obj, shInversePath)
		if len(inverse) == 1 && inverse[0].IsIRI() {
			return "^" + curie.LocalName(inverse[0].Value), nil
		}
		return "", fmt.Errorf("path %s has no inverse path: %w", obj, brickerr.ErrBlankNodeExpected)
	default:
		return "", fmt.Errorf("path %s: %w", obj, brickerr.ErrNotAnIdentifier)
	}
}

func (w *walk) pair(prop *BrickProperty, kind PairKind, obj graph.Term) error {
	if !obj.IsIRI() {
		return fmt.Errorf("%s: %w", obj, brickerr.ErrNotAnIdentifier)
	}
	prop.Constraints = append(prop.Constraints, PairConstraint{Kind: kind, Property: curie.LocalName(obj.Value)})
	return nil
}

func (w *walk) values(head graph.Term) ([]string, error) {
	items, err := w.list(head)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		v, err := w.value(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// value renders an IRI as CURIE text when its namespace is registered, and as the
// full IRI otherwise. Literals render as their lexical form.
func (w *walk) value(obj graph.Term) (string, error) {
	switch {
	case obj.IsLiteral():
		return obj.Value, nil
	case obj.IsIRI():
		if c, err := w.registry.FromIRI(obj.Value); err == nil {
			return c.String(), nil
		}
		return obj.Value, nil
	default:
		return "", fmt.Errorf("value %s: %w", obj, brickerr.ErrNotAnIdentifier)
	}
}

func (w *walk) identifier(obj graph.Term) (curie.Curie, error) {
	if !obj.IsIRI() {
		return curie.Curie{}, fmt.Errorf("%s: %w", obj, brickerr.ErrNotAnIdentifier)
	}
	return w.registry.FromIRI(obj.Value)
}

func (w *walk) optionalIdentifier(obj graph.Term) (*curie.Curie, error) {
	c, err := w.identifier(obj)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func lexical(obj graph.Term) (string, error) {
	if !obj.IsLiteral() {
		return "", fmt.Errorf("%s: %w", obj, brickerr.ErrMissingLiteral)
	}
	return obj.Value, nil
}

func unsigned(obj graph.Term) (*uint32, error) {
	s, err := lexical(obj)
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%q is not an unsigned integer: %w", s, brickerr.ErrInvalidLiteral)
	}
	v := uint32(n)
	return &v, nil
}

func number(obj graph.Term) (*float64, error) {
	s, err := lexical(obj)
	if err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number: %w", s, brickerr.ErrInvalidLiteral)
	}
	return &f, nil
}
