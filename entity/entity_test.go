package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/brickshape/brickerr"
	"github.com/c360studio/brickshape/curie"
	"github.com/c360studio/brickshape/graph"
	"github.com/c360studio/brickshape/hierarchy"
	"github.com/c360studio/brickshape/shape"
	"github.com/c360studio/brickshape/vocabulary/brick"
)

func b(local string) graph.Term { return graph.IRI(brick.Namespace + local) }

func tr(s, p, o graph.Term) graph.Triple {
	return graph.Triple{Subject: s, Predicate: p, Object: o}
}

func assembler(policy LabelPolicy, triples ...graph.Triple) *Assembler {
	store := graph.NewMemStore(triples)
	registry := curie.NewRegistry(brick.DefaultPrefixes())
	return NewAssembler(store, registry,
		hierarchy.New(store, registry),
		shape.NewExtractor(store, registry),
		policy)
}

func setpoint() []graph.Triple {
	label := graph.IRI(brick.RDFSLabel)
	def := graph.IRI(brick.SKOSDefinition)
	typ := graph.IRI(brick.RDFType)
	tagged := graph.IRI(brick.HasAssociatedTag)
	return []graph.Triple{
		tr(b("Setpoint"), typ, graph.IRI(brick.SHNodeShape)),
		tr(b("Setpoint"), typ, graph.IRI(brick.OWLClass)),
		tr(b("Setpoint"), label, graph.Literal("Setpoint")),
		tr(b("Setpoint"), def, graph.Literal("A Setpoint is an input value at which the desired property is set")),
		tr(b("Setpoint"), graph.IRI(brick.RDFSSubClassOf), b("Point")),
		tr(b("Setpoint"), tagged, graph.IRI(brick.TagNamespace+"Point")),
		tr(b("Setpoint"), tagged, graph.IRI(brick.TagNamespace+"Setpoint")),
	}
}

func TestDescribe_Setpoint(t *testing.T) {
	e, err := assembler(LabelFirst, setpoint()...).Describe(curie.New("brick", "Setpoint"))
	require.NoError(t, err)

	assert.Equal(t, "Setpoint", e.Name)
	assert.Equal(t, "brick", e.Namespace)
	assert.Equal(t, curie.New("brick", "Setpoint"), e.Curie())
	assert.Equal(t, "Setpoint", e.Label)
	assert.Equal(t, "A Setpoint is an input value at which the desired property is set", e.Definition)
	assert.Equal(t, []string{"shacl#NodeShape", "owl#Class"}, e.Types)
	assert.Equal(t, []curie.Curie{curie.New("brick", "Point")}, e.SuperClasses)
	assert.Equal(t, []string{"Point", "Setpoint"}, e.Tags)
	assert.Empty(t, e.Properties)
}

func TestDescribe_LabelPolicy(t *testing.T) {
	label := graph.IRI(brick.RDFSLabel)
	triples := []graph.Triple{
		tr(b("Fan"), label, graph.LangLiteral("Ventilateur", "fr")),
		tr(b("Fan"), label, graph.LangLiteral("Fan", "en")),
		tr(b("Fan"), label, graph.Literal("Blower")),
	}

	tests := []struct {
		policy LabelPolicy
		want   string
	}{
		{LabelFirst, "Fan"},
		{LabelJoin, "Ventilateur; Fan; Blower"},
		{LabelPolicy("bogus"), "Fan"},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			e, err := assembler(tt.policy, triples...).Describe(curie.New("brick", "Fan"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Label)
		})
	}
}

func TestDescribe_LabelFirstFallsBackToFirstLiteral(t *testing.T) {
	label := graph.IRI(brick.RDFSLabel)
	e, err := assembler(LabelFirst,
		tr(b("Fan"), label, graph.LangLiteral("Ventilateur", "fr")),
		tr(b("Fan"), label, graph.LangLiteral("Lüfter", "de")),
	).Describe(curie.New("brick", "Fan"))
	require.NoError(t, err)
	assert.Equal(t, "Ventilateur", e.Label)
}

func TestDescribe_Errors(t *testing.T) {
	tests := []struct {
		name    string
		triples []graph.Triple
		want    error
	}{
		{
			name:    "label not literal",
			triples: []graph.Triple{tr(b("Fan"), graph.IRI(brick.RDFSLabel), b("Other"))},
			want:    brickerr.ErrMissingLiteral,
		},
		{
			name:    "unresolvable superclass",
			triples: []graph.Triple{tr(b("Fan"), graph.IRI(brick.RDFSSubClassOf), graph.IRI("http://example.org/ns#Thing"))},
			want:    brickerr.ErrUnresolvedNamespace,
		},
		{
			name: "bad property shape",
			triples: []graph.Triple{
				tr(b("Fan"), graph.IRI(brick.SHProperty), graph.Blank("s")),
				tr(graph.Blank("s"), graph.IRI(brick.SHACLNamespace+"minCount"), graph.Literal("x")),
			},
			want: brickerr.ErrInvalidLiteral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := assembler(LabelFirst, tt.triples...).Describe(curie.New("brick", "Fan"))
			assert.Nil(t, e)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
