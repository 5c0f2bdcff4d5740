package curie

import (
	"encoding/json"
	"testing"

	"github.com/c360studio/brickshape/brickerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brickBase = "https://brickschema.org/schema/Brick#"

func testRegistry() *Registry {
	return NewRegistry(map[string]string{
		"brick": brickBase,
		"qudt":  "http://qudt.org/schema/qudt/",
		"ex":    "http://example.org/ns",
	})
}

func TestRoundTrip(t *testing.T) {
	reg := testRegistry()

	tests := []Curie{
		New("brick", "Location"),
		New("qudt", "Unit"),
		New("ex", "Thing"),
	}

	for _, c := range tests {
		t.Run(c.String(), func(t *testing.T) {
			iri, err := reg.ToIRI(c)
			require.NoError(t, err)

			back, err := reg.FromIRI(iri)
			require.NoError(t, err)
			assert.Equal(t, c, back)
		})
	}
}

func TestToIRI(t *testing.T) {
	reg := testRegistry()

	t.Run("base ending in hash", func(t *testing.T) {
		iri, err := reg.ToIRI(New("brick", "Location"))
		require.NoError(t, err)
		assert.Equal(t, "https://brickschema.org/schema/Brick#Location", iri)
	})

	t.Run("base without separator", func(t *testing.T) {
		iri, err := reg.ToIRI(New("ex", "Thing"))
		require.NoError(t, err)
		assert.Equal(t, "http://example.org/ns#Thing", iri)
	})

	t.Run("unknown prefix", func(t *testing.T) {
		_, err := reg.ToIRI(New("nope", "Thing"))
		assert.ErrorIs(t, err, brickerr.ErrUnknownPrefix)
	})
}

func TestFromIRI(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		name    string
		iri     string
		want    Curie
		wantErr error
	}{
		{"fragment", "https://brickschema.org/schema/Brick#Point", New("brick", "Point"), nil},
		{"path segment", "http://qudt.org/schema/qudt/Unit", New("qudt", "Unit"), nil},
		{"unregistered namespace", "http://www.w3.org/ns/shacl#NodeShape", Curie{}, brickerr.ErrUnresolvedNamespace},
		{"empty fragment", "https://brickschema.org/schema/Brick#", Curie{}, brickerr.ErrMissingFragmentOrPath},
		{"trailing slash", "http://qudt.org/schema/qudt/", Curie{}, brickerr.ErrMissingFragmentOrPath},
		{"no path", "https://brickschema.org", Curie{}, brickerr.ErrMissingFragmentOrPath},
		{"opaque", "urn:isbn:0451450523", Curie{}, brickerr.ErrMissingFragmentOrPath},
		{"path with query", "http://qudt.org/schema/qudt/Unit?version=2", Curie{}, brickerr.ErrMissingFragmentOrPath},
		{"path with empty query", "http://qudt.org/schema/qudt/Unit?", Curie{}, brickerr.ErrMissingFragmentOrPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.FromIRI(tt.iri)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Curie
		wantErr bool
	}{
		{"brick:Point", New("brick", "Point"), false},
		{"ex:a:b", New("ex", "a:b"), false},
		{"brick:", Curie{}, true},
		{":Point", Curie{}, true},
		{"Point", Curie{}, true},
		{"", Curie{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, brickerr.ErrInvalidCurieFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRef(t *testing.T) {
	refs := []Ref{New("brick", "Site"), Text("brick:Site")}
	for _, ref := range refs {
		c, err := ref.ToCurie()
		require.NoError(t, err)
		assert.Equal(t, "brick:Site", c.String())
	}

	_, err := Text("Site").ToCurie()
	assert.ErrorIs(t, err, brickerr.ErrInvalidCurieFormat)
}

func TestJSON(t *testing.T) {
	type holder struct {
		Class    Curie  `json:"class"`
		Datatype *Curie `json:"datatype,omitempty"`
	}

	data, err := json.Marshal(holder{Class: New("brick", "Point")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"class":"brick:Point"}`, string(data))

	var h holder
	require.NoError(t, json.Unmarshal([]byte(`{"class":"brick:Building","datatype":"xsd:string"}`), &h))
	assert.Equal(t, New("brick", "Building"), h.Class)
	require.NotNil(t, h.Datatype)
	assert.Equal(t, "xsd:string", h.Datatype.String())
}

func TestLocalName(t *testing.T) {
	assert.Equal(t, "Setpoint", LocalName("https://brickschema.org/schema/BrickTag#Setpoint"))
	assert.Equal(t, "Unit", LocalName("http://qudt.org/schema/qudt/Unit"))
	assert.Equal(t, "plain", LocalName("plain"))
}

func TestDisplayType(t *testing.T) {
	assert.Equal(t, "shacl#NodeShape", DisplayType("http://www.w3.org/ns/shacl#NodeShape"))
	assert.Equal(t, "owl#Class", DisplayType("http://www.w3.org/2002/07/owl#Class"))
	assert.Equal(t, "http://qudt.org/schema/qudt/Unit", DisplayType("http://qudt.org/schema/qudt/Unit"))
}
