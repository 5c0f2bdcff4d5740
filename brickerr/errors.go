// Package brickerr defines the error kinds shared by the ontology query packages.
//
// Every kind is a permanent data-quality error: the loaded graph is immutable, so a
// failed lookup fails identically on retry. Callers match kinds with errors.Is and
// report them to the operator instead of retrying.
package brickerr

import (
	"errors"

	"github.com/c360studio/semstreams/pkg/errs"
)

// Identifier and namespace errors.
var (
	// ErrUnknownPrefix is returned when a CURIE prefix has no registered base IRI.
	ErrUnknownPrefix = errors.New("unknown prefix")

	// ErrUnresolvedNamespace is returned when an IRI's namespace part matches no registered base IRI.
	ErrUnresolvedNamespace = errors.New("unresolved namespace")

	// ErrMissingFragmentOrPath is returned when an IRI has neither a fragment nor a path segment to use as local name.
	ErrMissingFragmentOrPath = errors.New("iri has no fragment or path segment")

	// ErrInvalidCurieFormat is returned when a textual CURIE is not "prefix:local".
	ErrInvalidCurieFormat = errors.New("invalid curie format")

	// ErrUnknownClass is returned when a class has no statements at all in the graph.
	ErrUnknownClass = errors.New("unknown class")
)

// Graph shape errors.
var (
	// ErrNotAnIdentifier is returned when an identifier was expected but a literal was found.
	ErrNotAnIdentifier = errors.New("expected identifier")

	// ErrMissingLiteral is returned when a literal value was expected but none was found.
	ErrMissingLiteral = errors.New("expected literal")

	// ErrInvalidLiteral is returned when a literal's lexical form does not parse as the expected type.
	ErrInvalidLiteral = errors.New("invalid literal")

	// ErrBlankNodeExpected is returned when a structured value lacks the blank-node form it requires.
	ErrBlankNodeExpected = errors.New("expected blank node")

	// ErrMalformedList is returned when a collection walk does not terminate within its guards.
	ErrMalformedList = errors.New("malformed list")
)

// Invalid classifies err as a permanent invalid-data error for the given operation.
// It returns nil for a nil error.
func Invalid(err error, component, operation, action string) error {
	if err == nil {
		return nil
	}
	return errs.WrapInvalid(err, component, operation, action)
}

// IsDataError reports whether err is one of the kinds declared in this package.
func IsDataError(err error) bool {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

var kinds = []error{
	ErrUnknownPrefix,
	ErrUnresolvedNamespace,
	ErrMissingFragmentOrPath,
	ErrInvalidCurieFormat,
	ErrUnknownClass,
	ErrNotAnIdentifier,
	ErrMissingLiteral,
	ErrInvalidLiteral,
	ErrBlankNodeExpected,
	ErrMalformedList,
}
