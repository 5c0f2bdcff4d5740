// Package brick provides the namespace and relation IRIs of the Brick schema and
// the SHACL, SKOS, RDF and RDFS terms the schema queries depend on.
//
// It also registers the dotted descriptor predicates (brick.class.*, brick.shape.*)
// used when class descriptors are exported back out as triples.
//
// Import this package to auto-register predicates:
//
//	import _ "github.com/c360studio/brickshape/vocabulary/brick"
package brick
