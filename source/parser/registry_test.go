package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetByMimeType(t *testing.T) {
	r := NewRegistry()

	t.Run("direct match", func(t *testing.T) {
		p := r.GetByMimeType(MimeTurtle)
		require.NotNil(t, p)
		assert.Equal(t, MimeTurtle, p.MimeType())
	})

	t.Run("CanParse fallback", func(t *testing.T) {
		p := r.GetByMimeType("application/x-turtle")
		require.NotNil(t, p)
		assert.Equal(t, MimeTurtle, p.MimeType())
	})

	t.Run("text/plain handled by n-triples parser", func(t *testing.T) {
		p := r.GetByMimeType("text/plain")
		require.NotNil(t, p)
		assert.Equal(t, MimeNTriples, p.MimeType())
	})

	t.Run("no parser for unknown type", func(t *testing.T) {
		assert.Nil(t, r.GetByMimeType("application/octet-stream"))
	})
}

func TestRegistry_For(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		filename string
		wantNil  bool
	}{
		{"Brick.ttl", false},
		{"brick.TURTLE", false},
		{"brick.nt", false},
		{"brick.owl", true},
		{"brick.jsonld", true},
		{"noextension", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			p, err := r.For(tt.filename)
			if tt.wantNil {
				assert.Nil(t, p)
				assert.ErrorIs(t, err, ErrNoParser)
			} else {
				assert.NotNil(t, p)
				assert.NoError(t, err)
			}
			assert.Equal(t, !tt.wantNil, r.Supports(tt.filename))
		})
	}
}

func TestRegistry_Parse(t *testing.T) {
	r := NewRegistry()

	t.Run("success with turtle", func(t *testing.T) {
		doc, err := r.Parse("tiny.ttl", []byte("@prefix brick: <https://brickschema.org/schema/Brick#> .\nbrick:A brick:b brick:C .\n"))
		require.NoError(t, err)
		assert.Len(t, doc.Triples, 1)
	})

	t.Run("error when no parser", func(t *testing.T) {
		_, err := r.Parse("brick.owl", []byte("content"))
		assert.ErrorIs(t, err, ErrNoParser)
	})
}

func TestRegistry_MimeTypes(t *testing.T) {
	assert.Equal(t, []string{MimeNTriples, MimeTurtle}, NewRegistry().MimeTypes())
}

func TestMimeTypeFromExtension(t *testing.T) {
	assert.Equal(t, MimeTurtle, MimeTypeFromExtension(".TTL"))
	assert.Equal(t, MimeNTriples, MimeTypeFromExtension(".nt"))
	assert.Equal(t, "", MimeTypeFromExtension(".md"))
	assert.Equal(t, "", MimeTypeFromExtension(""))
}
