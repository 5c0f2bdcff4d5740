package export_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/brickshape/curie"
	"github.com/c360studio/brickshape/entity"
	"github.com/c360studio/brickshape/export"
	"github.com/c360studio/brickshape/ontology"
	"github.com/c360studio/brickshape/shape"
	"github.com/c360studio/brickshape/source"
	"github.com/c360studio/brickshape/source/parser"
)

func loadFixture(t *testing.T) *ontology.Ontology {
	t.Helper()
	res, err := source.NewLoader(nil, nil).Load(context.Background(),
		[]string{filepath.Join("..", "ontology", "testdata", "brick_subset.ttl")})
	require.NoError(t, err)
	return ontology.New(res.Document)
}

func reload(t *testing.T, p parser.Parser, filename, content string) *ontology.Ontology {
	t.Helper()
	doc, err := p.Parse(filename, []byte(content))
	require.NoError(t, err, content)
	return ontology.New(doc)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    export.Format
		wantErr bool
	}{
		{"json", export.FormatJSON, false},
		{"YAML", export.FormatYAML, false},
		{"yml", export.FormatYAML, false},
		{"ttl", export.FormatTurtle, false},
		{" turtle ", export.FormatTurtle, false},
		{"nt", export.FormatNTriples, false},
		{"text", export.FormatText, false},
		{"rdfxml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := export.ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatRegistry(t *testing.T) {
	assert.Equal(t, []string{"json", "ntriples", "text", "turtle", "yaml"}, export.FormatNames())

	info, ok := export.GetFormatInfo(export.FormatTurtle)
	require.True(t, ok)
	assert.True(t, info.RDF)
	assert.Equal(t, ".ttl", info.Extension)

	info, ok = export.GetFormatInfo(export.FormatJSON)
	require.True(t, ok)
	assert.False(t, info.RDF)
}

func TestWrite_JSON(t *testing.T) {
	o := loadFixture(t)
	e, err := o.Describe(curie.Text("brick:Location"))
	require.NoError(t, err)

	out, err := export.NewExporter(o.Registry()).Export(export.FormatJSON, e)
	require.NoError(t, err)

	var back entity.BrickEntity
	require.NoError(t, json.Unmarshal([]byte(out), &back))
	assert.Equal(t, "Location", back.Name)
	assert.Equal(t, []curie.Curie{curie.New("brick", "Entity")}, back.SuperClasses)
	require.Len(t, back.Properties, 2)
	assert.Contains(t, out, `"superClasses": [`)
	assert.Contains(t, out, `"brick:Entity"`)
}

func TestWrite_YAML(t *testing.T) {
	tags := []string{"Point", "Setpoint"}
	out, err := export.NewExporter(nil).Export(export.FormatYAML, tags)
	require.NoError(t, err)

	var back []string
	require.NoError(t, yaml.Unmarshal([]byte(out), &back))
	assert.Equal(t, tags, back)
}

func TestWrite_RDFRejectsLists(t *testing.T) {
	_, err := export.NewExporter(nil).Export(export.FormatTurtle, []string{"Point"})
	assert.ErrorIs(t, err, export.ErrNotRDF)

	_, err = export.NewExporter(nil).Export(export.Format("xml"), []string{"Point"})
	assert.Error(t, err)
}

func TestTurtleRoundTrip(t *testing.T) {
	o := loadFixture(t)
	x := export.NewExporter(o.Registry())

	for _, class := range []string{"brick:Setpoint", "brick:Location", "brick:Site"} {
		t.Run(class, func(t *testing.T) {
			want, err := o.Describe(curie.Text(class))
			require.NoError(t, err)

			ttl, err := x.Export(export.FormatTurtle, want)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(ttl, "@prefix "))

			got, err := reload(t, parser.NewTurtleParser(), "export.ttl", ttl).Describe(curie.Text(class))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestNTriplesRoundTrip(t *testing.T) {
	o := loadFixture(t)
	props, err := o.PropertiesOf(curie.Text("brick:Site"))
	require.NoError(t, err)

	site := curie.New("brick", "Site")
	nt, err := export.NewExporter(o.Registry()).Export(export.FormatNTriples,
		export.ClassProperties{Class: site, Properties: props})
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSpace(nt), "\n") {
		assert.True(t, strings.HasSuffix(line, " ."), line)
	}

	got, err := reload(t, parser.NewNTriplesParser(), "export.nt", nt).PropertiesOf(site)
	require.NoError(t, err)
	assert.Equal(t, props, got)
}

func TestTriples_Shape(t *testing.T) {
	one := uint32(1)
	hi := 100.5
	class := curie.New("brick", "Zone")
	props := []shape.BrickProperty{{
		Path:         "^hasPart",
		MaxCount:     &one,
		MaxInclusive: &hi,
		Pattern:      "^[A-Z]+$",
		OneOf:        []string{"brick:Room", "open"},
		Constraints: []shape.PairConstraint{
			{Kind: shape.LessThan, Property: "upperBound"},
		},
		LogicalConstraints: []shape.LogicalConstraint{
			{Operator: shape.Not, Properties: []shape.BrickProperty{{HasValue: "closed"}}},
		},
	}}

	ttl, err := export.NewExporter(nil).Export(export.FormatTurtle,
		export.ClassProperties{Class: class, Properties: props})
	require.NoError(t, err)
	assert.Contains(t, ttl, "sh:inversePath brick:hasPart")
	assert.Contains(t, ttl, `sh:maxCount "1"^^xsd:integer`)
	assert.Contains(t, ttl, "sh:lessThan brick:upperBound")

	got, err := reload(t, parser.NewTurtleParser(), "zone.ttl", ttl).PropertiesOf(class)
	require.NoError(t, err)
	assert.Equal(t, props, got)
}

func TestTriples_NotNeedsOneMember(t *testing.T) {
	props := []shape.BrickProperty{{
		Path: "hasPoint",
		LogicalConstraints: []shape.LogicalConstraint{
			{Operator: shape.Not},
		},
	}}
	_, err := export.PropertyTriples(nil, curie.New("brick", "Zone"), props)
	assert.Error(t, err)
}

func TestText(t *testing.T) {
	o := loadFixture(t)

	subs, err := o.SubclassesOf(curie.Text("brick:Point"))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, export.NewExporter(nil).Write(&buf, export.FormatText, subs))
	assert.Contains(t, buf.String(), "brick:Sensor\n")

	e, err := o.Describe(curie.Text("brick:Site"))
	require.NoError(t, err)
	text := export.Text(e)
	assert.True(t, strings.HasPrefix(text, "brick:Site\n"))
	assert.Contains(t, text, "label:       Site")
	assert.Contains(t, text, "superclass:  brick:Location")
	assert.Contains(t, text, "hasPart")
	assert.Contains(t, text, "class=brick:Building")
	assert.Contains(t, text, "xone:")
	assert.Contains(t, text, "(empty)")
	assert.Contains(t, text, "hasValue=unknown")
}
