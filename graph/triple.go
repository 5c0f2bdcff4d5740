// Package graph holds the triple model and the read-only pattern-matching store
// the ontology queries run against.
package graph

import (
	"fmt"
	"strings"
)

// Kind discriminates the three RDF term kinds.
type Kind uint8

// Term kinds.
const (
	KindIRI Kind = iota + 1
	KindBlank
	KindLiteral
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is a node or literal in the graph. Terms are comparable and are used
// directly as index keys.
type Term struct {
	Kind Kind

	// Value is the IRI, the blank node label (without "_:"), or the literal's lexical form.
	Value string

	// Datatype is the literal datatype IRI. Empty for plain literals and non-literals.
	Datatype string

	// Lang is the literal language tag.
	Lang string
}

// IRI returns an IRI term.
func IRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// Blank returns a blank node term with the given document-scoped label.
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// Literal returns a plain literal.
func Literal(lexical string) Term {
	return Term{Kind: KindLiteral, Value: lexical}
}

// TypedLiteral returns a literal with a datatype IRI.
func TypedLiteral(lexical, datatype string) Term {
	return Term{Kind: KindLiteral, Value: lexical, Datatype: datatype}
}

// LangLiteral returns a language-tagged literal.
func LangLiteral(lexical, lang string) Term {
	return Term{Kind: KindLiteral, Value: lexical, Lang: lang}
}

// IsIRI reports whether t is an IRI.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool { return t.Kind == KindBlank }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsIdentifier reports whether t names a node (IRI or blank node).
func (t Term) IsIdentifier() bool { return t.IsIRI() || t.IsBlank() }

// String renders t in N-Triples syntax.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		quoted := `"` + EscapeLiteral(t.Value) + `"`
		if t.Lang != "" {
			return quoted + "@" + t.Lang
		}
		if t.Datatype != "" {
			return quoted + "^^<" + t.Datatype + ">"
		}
		return quoted
	default:
		return fmt.Sprintf("?%q", t.Value)
	}
}

// EscapeLiteral escapes special characters in a literal's lexical form.
func EscapeLiteral(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}

// Triple is a single subject-predicate-object statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// String renders t as an N-Triples line without the trailing newline.
func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}

// Document is what a parser hands over: the statements of one or more source
// files plus the prefix table they declared.
type Document struct {
	Triples  []Triple
	Prefixes map[string]string
}

// Merge appends other's triples to d and adds its prefixes. A prefix already
// present in d is overwritten.
func (d *Document) Merge(other *Document) {
	if other == nil {
		return
	}
	d.Triples = append(d.Triples, other.Triples...)
	if d.Prefixes == nil {
		d.Prefixes = make(map[string]string, len(other.Prefixes))
	}
	for prefix, base := range other.Prefixes {
		d.Prefixes[prefix] = base
	}
}
