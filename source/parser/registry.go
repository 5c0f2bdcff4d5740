// Package parser turns ontology source files into graph documents.
package parser

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/c360studio/brickshape/graph"
)

// ErrNoParser is returned for files whose extension no parser claims.
var ErrNoParser = errors.New("no parser for file type")

// Parser decodes one RDF serialization.
type Parser interface {
	// Parse decodes a source file into triples and its declared prefixes.
	Parse(filename string, content []byte) (*graph.Document, error)

	// CanParse reports whether this parser accepts mimeType, including aliases.
	CanParse(mimeType string) bool

	// MimeType is the key the parser is registered under.
	MimeType() string
}

// extensions maps lower-case file extensions to MIME types.
var extensions = map[string]string{
	".ttl":      MimeTurtle,
	".turtle":   MimeTurtle,
	".nt":       MimeNTriples,
	".ntriples": MimeNTriples,
}

// Registry selects a parser by MIME type or file extension.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// DefaultRegistry holds the Turtle and N-Triples parsers.
var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	r.Register(NewTurtleParser())
	r.Register(NewNTriplesParser())
	return r
}

// Register adds p, replacing any parser with the same MIME type.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.MimeType()] = p
}

// GetByMimeType returns the parser registered under mimeType, or the first
// parser (by MIME type order) whose CanParse accepts it. Nil when none does.
func (r *Registry) GetByMimeType(mimeType string) Parser {
	if mimeType == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.parsers[mimeType]; ok {
		return p
	}
	for _, key := range slices.Sorted(maps.Keys(r.parsers)) {
		if r.parsers[key].CanParse(mimeType) {
			return r.parsers[key]
		}
	}
	return nil
}

// For returns the parser for filename's extension.
func (r *Registry) For(filename string) (Parser, error) {
	ext := filepath.Ext(filename)
	if p := r.GetByMimeType(MimeTypeFromExtension(ext)); p != nil {
		return p, nil
	}
	if ext == "" {
		ext = "(none)"
	}
	return nil, fmt.Errorf("%w: %s", ErrNoParser, ext)
}

// Supports reports whether filename would be accepted by Parse.
func (r *Registry) Supports(filename string) bool {
	_, err := r.For(filename)
	return err == nil
}

// Parse decodes content with the parser chosen by filename's extension.
func (r *Registry) Parse(filename string, content []byte) (*graph.Document, error) {
	p, err := r.For(filename)
	if err != nil {
		return nil, err
	}
	return p.Parse(filename, content)
}

// MimeTypes lists the registered MIME types in sorted order.
func (r *Registry) MimeTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.parsers))
}

// MimeTypeFromExtension maps a file extension (with its dot, any case) to the
// MIME type of an RDF serialization, or "" when it is not one.
func MimeTypeFromExtension(ext string) string {
	return extensions[strings.ToLower(ext)]
}
