package brick

import "github.com/c360studio/semstreams/vocabulary"

// Class descriptor predicates.
const (
	// ClassLabel is the human-readable class name.
	ClassLabel = "brick.class.label"

	// ClassDefinition is the human-readable class description.
	ClassDefinition = "brick.class.definition"

	// ClassType is an rdf:type marker of the class.
	ClassType = "brick.class.type"

	// ClassSubClassOf links a class to a direct superclass.
	ClassSubClassOf = "brick.class.subclass_of"

	// ClassTag links a class to one of its tags.
	ClassTag = "brick.class.tag"

	// ClassProperty links a class to one of its property shapes.
	ClassProperty = "brick.class.property"
)

// Property shape predicates.
const (
	ShapePath             = "brick.shape.path"
	ShapeMessage          = "brick.shape.message"
	ShapeClass            = "brick.shape.class"
	ShapeDatatype         = "brick.shape.datatype"
	ShapeNodeKind         = "brick.shape.node_kind"
	ShapeMinCount         = "brick.shape.min_count"
	ShapeMaxCount         = "brick.shape.max_count"
	ShapeMinLength        = "brick.shape.min_length"
	ShapeMaxLength        = "brick.shape.max_length"
	ShapeMinInclusive     = "brick.shape.min_inclusive"
	ShapeMaxInclusive     = "brick.shape.max_inclusive"
	ShapeMinExclusive     = "brick.shape.min_exclusive"
	ShapeMaxExclusive     = "brick.shape.max_exclusive"
	ShapePattern          = "brick.shape.pattern"
	ShapeEquals           = "brick.shape.equals"
	ShapeDisjoint         = "brick.shape.disjoint"
	ShapeLessThan         = "brick.shape.less_than"
	ShapeLessThanOrEquals = "brick.shape.less_than_or_equals"
	ShapeIn               = "brick.shape.in"
	ShapeHasValue         = "brick.shape.has_value"
	ShapeNot              = "brick.shape.not"
	ShapeAnd              = "brick.shape.and"
	ShapeOr               = "brick.shape.or"
	ShapeXone             = "brick.shape.xone"
)

// PredicateIRI returns the standard IRI registered for a dotted predicate,
// falling back to the Brick namespace for unregistered names.
func PredicateIRI(predicate string) string {
	if meta := vocabulary.GetPredicateMetadata(predicate); meta != nil && meta.StandardIRI != "" {
		return meta.StandardIRI
	}
	return Namespace + predicate
}

func init() {
	// Register class descriptor predicates
	vocabulary.Register(ClassLabel,
		vocabulary.WithDescription("Human-readable class name"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSLabel))

	vocabulary.Register(ClassDefinition,
		vocabulary.WithDescription("Human-readable class description"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SKOSDefinition))

	vocabulary.Register(ClassType,
		vocabulary.WithDescription("RDF type marker of the class"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(RDFType))

	vocabulary.Register(ClassSubClassOf,
		vocabulary.WithDescription("Direct superclass of the class"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(RDFSSubClassOf))

	vocabulary.Register(ClassTag,
		vocabulary.WithDescription("Tag associated with the class"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(HasAssociatedTag))

	vocabulary.Register(ClassProperty,
		vocabulary.WithDescription("Property shape declared by the class"),
		vocabulary.WithDataType("node"),
		vocabulary.WithIRI(SHProperty))

	// Register property shape predicates
	registerShape(ShapePath, "path", "iri", "Property path the shape constrains")
	registerShape(ShapeMessage, "message", "string", "Message describing the property")
	registerShape(ShapeClass, "class", "iri", "Required class of property values")
	registerShape(ShapeDatatype, "datatype", "iri", "Required datatype of property values")
	registerShape(ShapeNodeKind, "nodeKind", "iri", "Required node kind of property values")
	registerShape(ShapeMinCount, "minCount", "int", "Minimum number of values")
	registerShape(ShapeMaxCount, "maxCount", "int", "Maximum number of values")
	registerShape(ShapeMinLength, "minLength", "int", "Minimum string length of values")
	registerShape(ShapeMaxLength, "maxLength", "int", "Maximum string length of values")
	registerShape(ShapeMinInclusive, "minInclusive", "float64", "Inclusive lower bound")
	registerShape(ShapeMaxInclusive, "maxInclusive", "float64", "Inclusive upper bound")
	registerShape(ShapeMinExclusive, "minExclusive", "float64", "Exclusive lower bound")
	registerShape(ShapeMaxExclusive, "maxExclusive", "float64", "Exclusive upper bound")
	registerShape(ShapePattern, "pattern", "string", "Regular expression values must match")
	registerShape(ShapeEquals, "equals", "iri", "Property whose values must be equal")
	registerShape(ShapeDisjoint, "disjoint", "iri", "Property whose values must be disjoint")
	registerShape(ShapeLessThan, "lessThan", "iri", "Property whose values must be greater")
	registerShape(ShapeLessThanOrEquals, "lessThanOrEquals", "iri", "Property whose values must be greater or equal")
	registerShape(ShapeIn, "in", "list", "Enumerated allowed values")
	registerShape(ShapeHasValue, "hasValue", "any", "Fixed value the property must have")
	registerShape(ShapeNot, "not", "node", "Shape the values must not conform to")
	registerShape(ShapeAnd, "and", "list", "Shapes the values must all conform to")
	registerShape(ShapeOr, "or", "list", "Shapes the values must conform to at least one of")
	registerShape(ShapeXone, "xone", "list", "Shapes the values must conform to exactly one of")
}

func registerShape(name, local, dataType, description string) {
	vocabulary.Register(name,
		vocabulary.WithDescription(description),
		vocabulary.WithDataType(dataType),
		vocabulary.WithIRI(SHACLNamespace+local))
}
