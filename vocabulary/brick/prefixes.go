package brick

import "maps"

var defaultPrefixes = map[string]string{
	"rdf":   RDFNamespace,
	"rdfs":  RDFSNamespace,
	"owl":   OWLNamespace,
	"xsd":   XSDNamespace,
	"skos":  SKOSNamespace,
	"sh":    SHACLNamespace,
	"qudt":  QUDTNamespace,
	"brick": Namespace,
	"tag":   TagNamespace,
}

// DefaultPrefixes returns the standard prefix table. Prefixes declared by a loaded
// document are registered on top of these.
func DefaultPrefixes() map[string]string {
	return maps.Clone(defaultPrefixes)
}
