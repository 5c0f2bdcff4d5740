package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/brickshape/curie"
	"github.com/c360studio/brickshape/entity"
	"github.com/c360studio/brickshape/graph"
	"github.com/c360studio/brickshape/shape"
)

// ErrNotRDF is returned when an RDF format is requested for a value that has
// no statement form, such as a plain list of tags.
var ErrNotRDF = errors.New("value cannot be written as rdf")

// ClassProperties pairs a class with its extracted property shapes, so they can
// be written as sh:property statements.
type ClassProperties struct {
	Class      curie.Curie           `json:"class" yaml:"class"`
	Properties []shape.BrickProperty `json:"properties" yaml:"properties"`
}

// Exporter writes query results in any supported format.
type Exporter struct {
	registry *curie.Registry
}

// NewExporter creates an exporter. The registry compacts IRIs in Turtle output
// and expands CURIEs in RDF output; nil uses the default Brick prefixes.
func NewExporter(registry *curie.Registry) *Exporter {
	return &Exporter{registry: registry}
}

// Write serializes v to w. Every value supports json, yaml and text; turtle and
// ntriples accept *entity.BrickEntity, []*entity.BrickEntity and ClassProperties.
func (x *Exporter) Write(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		_, err := io.WriteString(w, Text(v))
		return err
	case FormatTurtle, FormatNTriples:
		triples, err := x.triples(v)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, x.serialize(format, triples))
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Export returns v serialized in format.
func (x *Exporter) Export(format Format, v any) (string, error) {
	var sb strings.Builder
	if err := x.Write(&sb, format, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (x *Exporter) triples(v any) ([]graph.Triple, error) {
	switch val := v.(type) {
	case *entity.BrickEntity:
		return Triples(x.registry, val)
	case []*entity.BrickEntity:
		return Triples(x.registry, val...)
	case ClassProperties:
		return PropertyTriples(x.registry, val.Class, val.Properties)
	case *ClassProperties:
		return PropertyTriples(x.registry, val.Class, val.Properties)
	default:
		return nil, fmt.Errorf("%T: %w", v, ErrNotRDF)
	}
}

func (x *Exporter) serialize(format Format, triples []graph.Triple) string {
	if format == FormatNTriples {
		w := NewNTriplesWriter()
		for _, tr := range triples {
			w.WriteTriple(tr)
		}
		return w.String()
	}

	w := NewTurtleWriter(x.registry)
	w.WritePrefixes()
	w.WriteTriples(triples)
	return w.String()
}
