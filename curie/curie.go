// Package curie converts between compact identifiers ("prefix:LocalName") and
// full IRIs through an explicit namespace Registry.
package curie

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/c360studio/brickshape/brickerr"
)

// Curie is a compact IRI: a registered prefix plus a local name.
type Curie struct {
	Prefix    string
	LocalName string
}

// New returns the Curie prefix:localName.
func New(prefix, localName string) Curie {
	return Curie{Prefix: prefix, LocalName: localName}
}

// Parse parses the textual form "prefix:local".
// The text is split on the first colon and both parts must be non-empty.
func Parse(s string) (Curie, error) {
	prefix, local, ok := strings.Cut(s, ":")
	if !ok || prefix == "" || local == "" {
		return Curie{}, fmt.Errorf("parse %q: %w", s, brickerr.ErrInvalidCurieFormat)
	}
	return Curie{Prefix: prefix, LocalName: local}, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Curie {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns "prefix:local", or "" for the zero Curie.
func (c Curie) String() string {
	if c.IsZero() {
		return ""
	}
	return c.Prefix + ":" + c.LocalName
}

// IsZero reports whether c is the zero Curie.
func (c Curie) IsZero() bool {
	return c.Prefix == "" && c.LocalName == ""
}

// ToCurie returns c itself; it lets a Curie be used wherever a Ref is accepted.
func (c Curie) ToCurie() (Curie, error) {
	return c, nil
}

// MarshalText encodes c in its textual form.
func (c Curie) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes the textual form produced by MarshalText.
func (c *Curie) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = Curie{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Ref is anything that names a class: a structured Curie or its textual form.
type Ref interface {
	ToCurie() (Curie, error)
}

// Text is the textual "prefix:local" form of a Curie.
type Text string

// ToCurie parses t.
func (t Text) ToCurie() (Curie, error) {
	return Parse(string(t))
}

// ToIRI expands c against the registry. The local name is joined to the base
// with "#" unless the base already ends in "#" or "/".
func (r *Registry) ToIRI(c Curie) (string, error) {
	base, ok := r.ResolvePrefix(c.Prefix)
	if !ok {
		return "", fmt.Errorf("expand %q: %w", c.String(), brickerr.ErrUnknownPrefix)
	}
	if strings.HasSuffix(base, "#") || strings.HasSuffix(base, "/") {
		return base + c.LocalName, nil
	}
	return base + "#" + c.LocalName, nil
}

// FromIRI compacts iri against the registry.
//
// The local name is the fragment when the IRI has one, otherwise the last
// segment of its path; a fragmentless IRI with a query is rejected. The rest of the IRI must equal a registered base IRI,
// with or without its trailing separator.
func (r *Registry) FromIRI(iri string) (Curie, error) {
	namespace, sep, local, err := split(iri)
	if err != nil {
		return Curie{}, err
	}
	for _, base := range []string{namespace + sep, namespace} {
		if prefix, ok := r.ResolveBase(base); ok {
			return Curie{Prefix: prefix, LocalName: local}, nil
		}
	}
	return Curie{}, fmt.Errorf("compact %q: %w", iri, brickerr.ErrUnresolvedNamespace)
}

// split breaks iri into namespace, separator and local name.
func split(iri string) (namespace, sep, local string, err error) {
	if i := strings.LastIndex(iri, "#"); i >= 0 {
		if i == len(iri)-1 {
			return "", "", "", fmt.Errorf("compact %q: %w", iri, brickerr.ErrMissingFragmentOrPath)
		}
		return iri[:i], "#", iri[i+1:], nil
	}

	// A query after the last segment would be lost from the local name.
	u, perr := url.Parse(iri)
	if perr != nil || u.Path == "" || strings.HasSuffix(u.Path, "/") || u.RawQuery != "" || u.ForceQuery {
		return "", "", "", fmt.Errorf("compact %q: %w", iri, brickerr.ErrMissingFragmentOrPath)
	}
	segment := u.Path[strings.LastIndex(u.Path, "/")+1:]
	i := strings.LastIndex(iri, "/"+segment)
	if i < 0 {
		return "", "", "", fmt.Errorf("compact %q: %w", iri, brickerr.ErrMissingFragmentOrPath)
	}
	return iri[:i], "/", segment, nil
}

// LocalName returns the fragment of iri, or its last path segment when it has
// no fragment. No namespace resolution is performed.
func LocalName(iri string) string {
	if i := strings.LastIndex(iri, "#"); i >= 0 {
		return iri[i+1:]
	}
	if i := strings.LastIndex(iri, "/"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}

// DisplayType formats a type IRI as "<last-path-segment>#<fragment>", e.g.
// "http://www.w3.org/ns/shacl#NodeShape" becomes "shacl#NodeShape".
// IRIs without a fragment are returned unchanged.
func DisplayType(iri string) string {
	hash := strings.LastIndex(iri, "#")
	if hash < 0 {
		return iri
	}
	begin := strings.LastIndex(iri[:hash], "/") + 1
	return iri[begin:]
}
