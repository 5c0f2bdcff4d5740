package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/knakk/rdf"

	"github.com/c360studio/brickshape/graph"
)

// MIME types of the supported serializations.
const (
	MimeTurtle   = "text/turtle"
	MimeNTriples = "application/n-triples"
)

const (
	xsdString     = "http://www.w3.org/2001/XMLSchema#string"
	rdfLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// RDFParser decodes one RDF serialization with github.com/knakk/rdf.
type RDFParser struct {
	format  rdf.Format
	mime    string
	aliases []string
}

// NewTurtleParser creates a parser for Turtle documents.
func NewTurtleParser() *RDFParser {
	return &RDFParser{
		format:  rdf.Turtle,
		mime:    MimeTurtle,
		aliases: []string{"application/x-turtle"},
	}
}

// NewNTriplesParser creates a parser for N-Triples documents.
func NewNTriplesParser() *RDFParser {
	return &RDFParser{
		format:  rdf.NTriples,
		mime:    MimeNTriples,
		aliases: []string{"text/plain"},
	}
}

// Parse decodes content. Blank node labels are scoped to the file so that
// documents from different files can be merged without their anonymous nodes
// colliding.
func (p *RDFParser) Parse(filename string, content []byte) (*graph.Document, error) {
	scope := blankScope(filename, content)

	doc := &graph.Document{Prefixes: make(map[string]string)}
	input := content
	if p.format == rdf.Turtle {
		input, doc.Prefixes = normalizeTurtle(content)
	}

	dec := rdf.NewTripleDecoder(bytes.NewReader(input), p.format)
	for {
		t, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(filename), err)
		}

		tr, err := convertTriple(t, scope)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(filename), err)
		}
		doc.Triples = append(doc.Triples, tr)
	}
	return doc, nil
}

// CanParse returns true if this parser can handle the given MIME type.
func (p *RDFParser) CanParse(mimeType string) bool {
	if mimeType == p.mime {
		return true
	}
	for _, alias := range p.aliases {
		if mimeType == alias {
			return true
		}
	}
	return false
}

// MimeType returns the primary MIME type for this parser.
func (p *RDFParser) MimeType() string {
	return p.mime
}

func convertTriple(t rdf.Triple, scope string) (graph.Triple, error) {
	s, err := convertTerm(t.Subj, scope)
	if err != nil {
		return graph.Triple{}, err
	}
	p, err := convertTerm(t.Pred, scope)
	if err != nil {
		return graph.Triple{}, err
	}
	o, err := convertTerm(t.Obj, scope)
	if err != nil {
		return graph.Triple{}, err
	}
	return graph.Triple{Subject: s, Predicate: p, Object: o}, nil
}

func convertTerm(t rdf.Term, scope string) (graph.Term, error) {
	switch v := t.(type) {
	case rdf.IRI:
		return graph.IRI(v.String()), nil
	case rdf.Blank:
		return graph.Blank(scope + strings.TrimPrefix(v.String(), "_:")), nil
	case rdf.Literal:
		if lang := v.Lang(); lang != "" {
			return graph.LangLiteral(v.String(), lang), nil
		}
		switch dt := v.DataType.String(); dt {
		case "", xsdString, rdfLangString:
			return graph.Literal(v.String()), nil
		default:
			return graph.TypedLiteral(v.String(), dt), nil
		}
	default:
		return graph.Term{}, fmt.Errorf("unsupported term %T", t)
	}
}

// blankScope derives a short label prefix from the file name and content.
func blankScope(filename string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(filepath.Base(filename)))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))[:8] + "."
}

// ContentHash returns the hex SHA256 of content. The watcher uses it to skip
// reloads for writes that leave a file unchanged.
func ContentHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}
