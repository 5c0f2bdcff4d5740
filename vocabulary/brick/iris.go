package brick

// Namespace is the base IRI for Brick classes and relations.
const Namespace = "https://brickschema.org/schema/Brick#"

// TagNamespace is the base IRI for Brick tags.
const TagNamespace = "https://brickschema.org/schema/BrickTag#"

// Standard namespaces.
const (
	RDFNamespace   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace  = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace   = "http://www.w3.org/2002/07/owl#"
	XSDNamespace   = "http://www.w3.org/2001/XMLSchema#"
	SKOSNamespace  = "http://www.w3.org/2004/02/skos/core#"
	SHACLNamespace = "http://www.w3.org/ns/shacl#"
	QUDTNamespace  = "http://qudt.org/schema/qudt/"
)

// Relation IRIs used by the hierarchy and descriptor queries.
const (
	// RDFType marks an instance of a class.
	RDFType = RDFNamespace + "type"

	// RDFSSubClassOf links a class to its direct superclass.
	RDFSSubClassOf = RDFSNamespace + "subClassOf"

	// RDFSLabel is the human-readable class name.
	RDFSLabel = RDFSNamespace + "label"

	// SKOSDefinition is the human-readable class description.
	SKOSDefinition = SKOSNamespace + "definition"

	// HasAssociatedTag links a Brick class to its tags.
	HasAssociatedTag = Namespace + "hasAssociatedTag"

	// OWLClass is the type of every Brick class.
	OWLClass = OWLNamespace + "Class"
)

// Collection IRIs. A list is a chain of cells linked by rdf:rest and ending in rdf:nil.
const (
	RDFFirst = RDFNamespace + "first"
	RDFRest  = RDFNamespace + "rest"
	RDFNil   = RDFNamespace + "nil"
)

// SHACL IRIs.
const (
	// SHProperty links a node shape (a Brick class) to its property shapes.
	SHProperty = SHACLNamespace + "property"

	// SHNodeShape is the type of shape-bearing classes.
	SHNodeShape = SHACLNamespace + "NodeShape"

	// SHInversePath appears inside a blank sh:path node.
	SHInversePath = SHACLNamespace + "inversePath"
)
