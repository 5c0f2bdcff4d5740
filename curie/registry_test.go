package curie

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry(nil)

	reg.Register("brick", brickBase)
	base, ok := reg.ResolvePrefix("brick")
	assert.True(t, ok)
	assert.Equal(t, brickBase, base)

	prefix, ok := reg.ResolveBase(brickBase)
	assert.True(t, ok)
	assert.Equal(t, "brick", prefix)

	t.Run("overwrite is idempotent", func(t *testing.T) {
		reg.Register("brick", brickBase)
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("moving a prefix drops its old base", func(t *testing.T) {
		reg.Register("brick", "https://brickschema.org/schema/1.3/Brick#")
		_, ok := reg.ResolveBase(brickBase)
		assert.False(t, ok)
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("base appears at most once", func(t *testing.T) {
		reg.Register("b", "https://brickschema.org/schema/1.3/Brick#")
		_, ok := reg.ResolvePrefix("brick")
		assert.False(t, ok)
		prefix, _ := reg.ResolveBase("https://brickschema.org/schema/1.3/Brick#")
		assert.Equal(t, "b", prefix)
	})
}

func TestNewRegistry_SharedBase(t *testing.T) {
	reg := NewRegistry(map[string]string{
		"":      brickBase,
		"brick": brickBase,
	})

	prefix, ok := reg.ResolveBase(brickBase)
	assert.True(t, ok)
	assert.Equal(t, "brick", prefix)
	assert.Equal(t, map[string]string{"brick": brickBase}, reg.Prefixes())
}

func TestRegistry_Lookups(t *testing.T) {
	reg := testRegistry()

	_, ok := reg.ResolvePrefix("missing")
	assert.False(t, ok)
	_, ok = reg.ResolveBase("http://missing.example/")
	assert.False(t, ok)
	assert.Equal(t, 3, reg.Len())
}
