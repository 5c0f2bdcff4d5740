package export

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/c360studio/brickshape/curie"
	"github.com/c360studio/brickshape/graph"
	"github.com/c360studio/brickshape/vocabulary/brick"
)

// safeLocal matches local names that can be written as prefixed names.
var safeLocal = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// TurtleWriter writes RDF in Turtle format.
type TurtleWriter struct {
	registry *curie.Registry
	sb       strings.Builder
}

// NewTurtleWriter creates a Turtle writer that compacts IRIs against registry.
// A nil registry uses the default Brick prefixes.
func NewTurtleWriter(registry *curie.Registry) *TurtleWriter {
	if registry == nil {
		registry = curie.NewRegistry(brick.DefaultPrefixes())
	}
	return &TurtleWriter{registry: registry}
}

// WritePrefixes writes prefix declarations.
func (w *TurtleWriter) WritePrefixes() {
	prefixes := w.registry.Prefixes()
	keys := make([]string, 0, len(prefixes))
	for k := range prefixes {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, prefix := range keys {
		w.sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, prefixes[prefix]))
	}
	w.sb.WriteString("\n")
}

// WriteTriples writes statements, grouping consecutive triples that share a
// subject into one block.
func (w *TurtleWriter) WriteTriples(triples []graph.Triple) {
	for i, tr := range triples {
		if i == 0 || triples[i-1].Subject != tr.Subject {
			if i > 0 {
				w.sb.WriteString("\n")
			}
			w.sb.WriteString(w.term(tr.Subject))
			w.sb.WriteString("\n")
		}

		terminator := " ;"
		if i == len(triples)-1 || triples[i+1].Subject != tr.Subject {
			terminator = " ."
		}
		predicate := w.term(tr.Predicate)
		if tr.Predicate.Value == brick.RDFType {
			predicate = "a"
		}
		w.sb.WriteString(fmt.Sprintf("    %s %s%s\n", predicate, w.term(tr.Object), terminator))
	}
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

func (w *TurtleWriter) term(t graph.Term) string {
	switch {
	case t.IsIRI():
		return w.iri(t.Value)
	case t.IsLiteral() && t.Datatype != "" && t.Lang == "":
		return `"` + graph.EscapeLiteral(t.Value) + `"^^` + w.iri(t.Datatype)
	default:
		return t.String()
	}
}

func (w *TurtleWriter) iri(iri string) string {
	if c, err := w.registry.FromIRI(iri); err == nil && safeLocal.MatchString(c.LocalName) {
		return c.String()
	}
	return "<" + iri + ">"
}

// NTriplesWriter writes RDF in N-Triples format.
type NTriplesWriter struct {
	sb strings.Builder
}

// NewNTriplesWriter creates a new N-Triples writer.
func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

// WriteTriple writes a single triple.
func (w *NTriplesWriter) WriteTriple(tr graph.Triple) {
	w.sb.WriteString(tr.String())
	w.sb.WriteString("\n")
}

// String returns the accumulated N-Triples output.
func (w *NTriplesWriter) String() string {
	return w.sb.String()
}
