// Package ontology is the query surface over one loaded ontology.
//
// An Ontology owns its store and namespace registry; both are built once in New
// and never mutated, so several ontologies can be loaded side by side and every
// query method is safe for concurrent use. Errors returned by query methods are
// classified as permanent invalid-data errors and match the brickerr kinds with
// errors.Is.
package ontology

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/brickshape/brickerr"
	"github.com/c360studio/brickshape/curie"
	"github.com/c360studio/brickshape/entity"
	"github.com/c360studio/brickshape/graph"
	"github.com/c360studio/brickshape/hierarchy"
	"github.com/c360studio/brickshape/shape"
	"github.com/c360studio/brickshape/vocabulary/brick"
)

const component = "ontology"

// ClassRef identifies a class. Both curie.Curie and curie.Text satisfy it.
type ClassRef = curie.Ref

// Ontology answers class queries against an immutable graph.
type Ontology struct {
	id       string
	loadedAt time.Time
	store    *graph.MemStore
	registry *curie.Registry

	hierarchy *hierarchy.Query
	shapes    *shape.Extractor
	assembler *entity.Assembler

	metrics *Metrics
	logger  *slog.Logger
}

type options struct {
	maxDepth      int
	maxListLength int
	labelPolicy   entity.LabelPolicy
	prefixes      map[string]string
	metrics       *Metrics
	logger        *slog.Logger
}

// Option configures an Ontology.
type Option func(*options)

// WithMaxDepth bounds logical constraint nesting during property extraction.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithMaxListLength bounds the cells walked in one collection.
func WithMaxListLength(n int) Option {
	return func(o *options) { o.maxListLength = n }
}

// WithLabelPolicy selects how multiple labels or definitions are combined.
func WithLabelPolicy(policy entity.LabelPolicy) Option {
	return func(o *options) { o.labelPolicy = policy }
}

// WithPrefixes registers extra prefixes after the defaults and the document's own.
func WithPrefixes(prefixes map[string]string) Option {
	return func(o *options) { o.prefixes = prefixes }
}

// WithMetrics records query metrics.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New builds an ontology from a parsed document. The registry starts from the
// standard Brick prefixes, then the document's prefixes, then WithPrefixes.
func New(doc *graph.Document, opts ...Option) *Ontology {
	cfg := options{labelPolicy: entity.LabelFirst}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if doc == nil {
		doc = &graph.Document{}
	}

	registry := curie.NewRegistry(brick.DefaultPrefixes())
	for _, layer := range []map[string]string{doc.Prefixes, cfg.prefixes} {
		for _, prefix := range slices.Sorted(maps.Keys(layer)) {
			registry.Register(prefix, layer[prefix])
		}
	}

	store := graph.NewMemStore(doc.Triples)
	h := hierarchy.New(store, registry)
	shapes := shape.NewExtractor(store, registry,
		shape.WithMaxDepth(cfg.maxDepth),
		shape.WithMaxListLength(cfg.maxListLength))

	o := &Ontology{
		id:        uuid.New().String(),
		loadedAt:  time.Now(),
		store:     store,
		registry:  registry,
		hierarchy: h,
		shapes:    shapes,
		assembler: entity.NewAssembler(store, registry, h, shapes, cfg.labelPolicy),
		metrics:   cfg.metrics,
		logger:    cfg.logger,
	}

	classes := len(graph.Subjects(store, graph.IRI(brick.RDFType), graph.IRI(brick.OWLClass)))
	o.metrics.recordLoad(store.Len(), classes)
	o.logger.Debug("Ontology loaded",
		"id", o.id,
		"triples", store.Len(),
		"classes", classes,
		"prefixes", registry.Len())
	return o
}

// ID returns the identifier assigned to this load.
func (o *Ontology) ID() string { return o.id }

// LoadedAt returns when the ontology was built.
func (o *Ontology) LoadedAt() time.Time { return o.loadedAt }

// Len returns the number of distinct triples.
func (o *Ontology) Len() int { return o.store.Len() }

// Registry returns the namespace registry. Callers must not register prefixes on it.
func (o *Ontology) Registry() *curie.Registry { return o.registry }

// Store returns the underlying triple store.
func (o *Ontology) Store() graph.Store { return o.store }

// SubclassesOf returns the direct subclasses of class.
func (o *Ontology) SubclassesOf(class ClassRef) ([]curie.Curie, error) {
	var out []curie.Curie
	err := o.query("SubclassesOf", "list subclasses", class, func(c curie.Curie) (err error) {
		out, err = o.hierarchy.SubclassesOf(c)
		return err
	})
	return out, err
}

// SuperclassesOf returns the direct superclasses of class.
func (o *Ontology) SuperclassesOf(class ClassRef) ([]curie.Curie, error) {
	var out []curie.Curie
	err := o.query("SuperclassesOf", "list superclasses", class, func(c curie.Curie) (err error) {
		out, err = o.hierarchy.SuperclassesOf(c)
		return err
	})
	return out, err
}

// TagsOf returns the tag names associated with class.
func (o *Ontology) TagsOf(class ClassRef) ([]string, error) {
	var out []string
	err := o.query("TagsOf", "list tags", class, func(c curie.Curie) (err error) {
		out, err = o.hierarchy.TagsOf(c)
		return err
	})
	return out, err
}

// PropertiesOf returns the property shapes declared by class.
func (o *Ontology) PropertiesOf(class ClassRef) ([]shape.BrickProperty, error) {
	var out []shape.BrickProperty
	err := o.query("PropertiesOf", "extract properties", class, func(c curie.Curie) (err error) {
		out, err = o.shapes.PropertiesOf(c)
		return err
	})
	return out, err
}

// Describe assembles the full descriptor of class.
func (o *Ontology) Describe(class ClassRef) (*entity.BrickEntity, error) {
	var out *entity.BrickEntity
	err := o.query("Describe", "describe class", class, func(c curie.Curie) (err error) {
		out, err = o.assembler.Describe(c)
		return err
	})
	return out, err
}

// Lookup is Describe for callers that need to tell an absent class apart from an
// empty one: a class with no statements at all fails with brickerr.ErrUnknownClass.
func (o *Ontology) Lookup(class ClassRef) (*entity.BrickEntity, error) {
	var out *entity.BrickEntity
	err := o.query("Lookup", "look up class", class, func(c curie.Curie) error {
		ok, err := o.hierarchy.Exists(c)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s: %w", c, brickerr.ErrUnknownClass)
		}
		out, err = o.assembler.Describe(c)
		return err
	})
	return out, err
}

// Classes returns every class typed owl:Class, in store order.
func (o *Ontology) Classes() ([]curie.Curie, error) {
	start := time.Now()
	out, err := o.hierarchy.Classes()
	o.metrics.recordQuery("Classes", start, err)
	if err != nil {
		return nil, brickerr.Invalid(err, component, "Classes", "list classes")
	}
	return out, nil
}

func (o *Ontology) query(operation, action string, class ClassRef, run func(curie.Curie) error) error {
	start := time.Now()
	err := o.resolveAndRun(class, run)
	o.metrics.recordQuery(operation, start, err)
	if err != nil {
		o.logger.Debug("Ontology query failed",
			"operation", operation,
			"ontology_id", o.id,
			"error", err)
		return brickerr.Invalid(err, component, operation, action)
	}
	return nil
}

func (o *Ontology) resolveAndRun(class ClassRef, run func(curie.Curie) error) error {
	if class == nil {
		return fmt.Errorf("nil class: %w", brickerr.ErrInvalidCurieFormat)
	}
	c, err := class.ToCurie()
	if err != nil {
		return err
	}
	return run(c)
}
