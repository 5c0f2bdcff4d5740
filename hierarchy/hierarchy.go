// Package hierarchy answers one-hop class hierarchy and tag questions.
package hierarchy

import (
	"fmt"

	"github.com/c360studio/brickshape/brickerr"
	"github.com/c360studio/brickshape/curie"
	"github.com/c360studio/brickshape/graph"
	"github.com/c360studio/brickshape/vocabulary/brick"
)

var (
	subClassOf = graph.IRI(brick.RDFSSubClassOf)
	hasTag     = graph.IRI(brick.HasAssociatedTag)
)

// Query resolves direct subclass, superclass and tag relations. Results follow
// store order and are not transitive.
type Query struct {
	store    graph.Store
	registry *curie.Registry
}

// New creates a Query over store.
func New(store graph.Store, registry *curie.Registry) *Query {
	return &Query{store: store, registry: registry}
}

// SubclassesOf returns every class declared rdfs:subClassOf class.
func (q *Query) SubclassesOf(class curie.Curie) ([]curie.Curie, error) {
	iri, err := q.registry.ToIRI(class)
	if err != nil {
		return nil, err
	}

	subjects := graph.Subjects(q.store, subClassOf, graph.IRI(iri))
	out := make([]curie.Curie, 0, len(subjects))
	for _, s := range subjects {
		// Blank subjects are anonymous class expressions, not named classes.
		if s.IsBlank() {
			continue
		}
		c, err := q.registry.FromIRI(s.Value)
		if err != nil {
			return nil, fmt.Errorf("subclass of %s: %w", class, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// SuperclassesOf returns the direct superclasses of class. OWL restrictions
// (blank superclasses) are skipped.
func (q *Query) SuperclassesOf(class curie.Curie) ([]curie.Curie, error) {
	iri, err := q.registry.ToIRI(class)
	if err != nil {
		return nil, err
	}

	objects := graph.Objects(q.store, graph.IRI(iri), subClassOf)
	out := make([]curie.Curie, 0, len(objects))
	for _, o := range objects {
		switch {
		case o.IsBlank():
			continue
		case o.IsLiteral():
			return nil, fmt.Errorf("superclass of %s: %s: %w", class, o, brickerr.ErrNotAnIdentifier)
		}
		c, err := q.registry.FromIRI(o.Value)
		if err != nil {
			return nil, fmt.Errorf("superclass of %s: %w", class, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// TagsOf returns the local names of the tags associated with class.
func (q *Query) TagsOf(class curie.Curie) ([]string, error) {
	iri, err := q.registry.ToIRI(class)
	if err != nil {
		return nil, err
	}

	objects := graph.Objects(q.store, graph.IRI(iri), hasTag)
	tags := make([]string, 0, len(objects))
	for _, o := range objects {
		if !o.IsIRI() {
			return nil, fmt.Errorf("tag of %s: %s: %w", class, o, brickerr.ErrNotAnIdentifier)
		}
		tags = append(tags, curie.LocalName(o.Value))
	}
	return tags, nil
}

// Classes returns every subject typed owl:Class, in store order.
func (q *Query) Classes() ([]curie.Curie, error) {
	subjects := graph.Subjects(q.store, graph.IRI(brick.RDFType), graph.IRI(brick.OWLClass))
	out := make([]curie.Curie, 0, len(subjects))
	for _, s := range subjects {
		if !s.IsIRI() {
			continue
		}
		c, err := q.registry.FromIRI(s.Value)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", s, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Exists reports whether class is the subject of any statement.
func (q *Query) Exists(class curie.Curie) (bool, error) {
	iri, err := q.registry.ToIRI(class)
	if err != nil {
		return false, err
	}
	return graph.HasSubject(q.store, graph.IRI(iri)), nil
}
