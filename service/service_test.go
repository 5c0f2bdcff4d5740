package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/brickshape/curie"
	"github.com/c360studio/brickshape/entity"
	"github.com/c360studio/brickshape/ontology"
	"github.com/c360studio/brickshape/shape"
	"github.com/c360studio/brickshape/source"
)

func loadFixture(t *testing.T) *ontology.Ontology {
	t.Helper()
	return loadFixtureWith(t)
}

func loadFixtureWith(t *testing.T, opts ...ontology.Option) *ontology.Ontology {
	t.Helper()
	res, err := source.NewLoader(nil, nil).Load(context.Background(),
		[]string{filepath.Join("..", "ontology", "testdata", "brick_subset.ttl")})
	require.NoError(t, err)
	return ontology.New(res.Document, opts...)
}

func TestHolder(t *testing.T) {
	h := NewHolder(nil)
	assert.Nil(t, h.Load())

	a := ontology.New(nil)
	b := ontology.New(nil)
	assert.Nil(t, h.Swap(a))
	assert.Same(t, a, h.Load())
	assert.Same(t, a, h.Swap(b))
	assert.Same(t, b, h.Load())
}

func TestSubject(t *testing.T) {
	s := NewQueryService(NewHolder(nil), Config{}, nil)
	assert.Equal(t, "brick.query.describe", s.Subject(OpDescribe))

	s = NewQueryService(NewHolder(nil), Config{SubjectPrefix: "hvac.q"}, nil)
	assert.Equal(t, "hvac.q.classes", s.Subject(OpClasses))
}

func TestHandle(t *testing.T) {
	o := loadFixture(t)
	s := NewQueryService(NewHolder(o), Config{}, nil)

	t.Run("describe", func(t *testing.T) {
		resp := s.Handle(OpDescribe, []byte(`{"request_id":"r1","class":"brick:Setpoint"}`))
		require.Empty(t, resp.Error)
		assert.Equal(t, "r1", resp.RequestID)
		assert.Equal(t, o.ID(), resp.OntologyID)

		e, ok := resp.Result.(*entity.BrickEntity)
		require.True(t, ok)
		assert.Equal(t, []string{"Point", "Setpoint"}, e.Tags)
	})

	t.Run("subclasses", func(t *testing.T) {
		resp := s.Handle(OpSubclasses, []byte(`{"class":"brick:Point"}`))
		require.Empty(t, resp.Error)
		assert.Contains(t, resp.Result, curie.New("brick", "Sensor"))
	})

	t.Run("superclasses", func(t *testing.T) {
		resp := s.Handle(OpSuperclasses, []byte(`{"class":"brick:Sensor"}`))
		require.Empty(t, resp.Error)
		assert.Equal(t, []curie.Curie{curie.New("brick", "Point")}, resp.Result)
	})

	t.Run("tags", func(t *testing.T) {
		resp := s.Handle(OpTags, []byte(`{"class":"brick:Setpoint"}`))
		require.Empty(t, resp.Error)
		assert.Equal(t, []string{"Point", "Setpoint"}, resp.Result)
	})

	t.Run("properties", func(t *testing.T) {
		resp := s.Handle(OpProperties, []byte(`{"class":"brick:Location"}`))
		require.Empty(t, resp.Error)
		props, ok := resp.Result.([]shape.BrickProperty)
		require.True(t, ok)
		assert.Len(t, props, 2)
	})

	t.Run("classes without body", func(t *testing.T) {
		resp := s.Handle(OpClasses, nil)
		require.Empty(t, resp.Error)
		assert.Len(t, resp.Result, 9)
	})
}

func TestHandle_RequestID(t *testing.T) {
	s := NewQueryService(NewHolder(loadFixture(t)), Config{}, nil)

	resp := s.Handle(OpTags, []byte(`{"class":"brick:Point"}`))
	_, err := uuid.Parse(resp.RequestID)
	assert.NoError(t, err)

	other := s.Handle(OpTags, []byte(`{"class":"brick:Point"}`))
	assert.NotEqual(t, resp.RequestID, other.RequestID)
}

func TestHandle_Errors(t *testing.T) {
	s := NewQueryService(NewHolder(loadFixture(t)), Config{}, nil)

	tests := []struct {
		name string
		op   Operation
		body string
		want string
	}{
		{"invalid json", OpTags, `{"class":`, "invalid request"},
		{"bad curie", OpTags, `{"class":"Setpoint"}`, "invalid curie format"},
		{"missing class", OpDescribe, `{}`, "invalid curie format"},
		{"unknown prefix", OpSubclasses, `{"class":"foo:Bar"}`, "unknown prefix"},
		{"unknown class", OpDescribe, `{"class":"brick:Unicorn"}`, "unknown class"},
		{"unknown operation", Operation("count"), `{"class":"brick:Point"}`, "unknown operation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.Handle(tt.op, []byte(tt.body))
			assert.Contains(t, resp.Error, tt.want)
			assert.Nil(t, resp.Result)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestHandle_NoOntology(t *testing.T) {
	resp := NewQueryService(NewHolder(nil), Config{}, nil).Handle(OpClasses, []byte(`{"request_id":"x"}`))
	assert.Equal(t, "x", resp.RequestID)
	assert.Equal(t, ErrNoOntology.Error(), resp.Error)
	assert.Empty(t, resp.OntologyID)
}

func TestResponseJSON(t *testing.T) {
	s := NewQueryService(NewHolder(loadFixture(t)), Config{}, nil)
	data, err := json.Marshal(s.Handle(OpSuperclasses, []byte(`{"request_id":"r2","class":"brick:Sensor"}`)))
	require.NoError(t, err)

	var decoded struct {
		RequestID  string   `json:"request_id"`
		OntologyID string   `json:"ontology_id"`
		Result     []string `json:"result"`
		Error      string   `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "r2", decoded.RequestID)
	assert.NotEmpty(t, decoded.OntologyID)
	assert.Equal(t, []string{"brick:Point"}, decoded.Result)
	assert.Empty(t, decoded.Error)
}

func TestQueryService_StopEndsCancelWatch(t *testing.T) {
	waitClosed := func(t *testing.T, done <-chan struct{}) {
		t.Helper()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("cancel watch goroutine still running")
		}
	}

	t.Run("direct stop", func(t *testing.T) {
		s := NewQueryService(NewHolder(nil), Config{}, nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := s.armStopLocked(ctx)
		s.Stop()
		waitClosed(t, done)

		// A second Stop must not close the channel again.
		s.Stop()
	})

	t.Run("context cancelled", func(t *testing.T) {
		s := NewQueryService(NewHolder(nil), Config{}, nil)
		ctx, cancel := context.WithCancel(context.Background())

		done := s.armStopLocked(ctx)
		cancel()
		waitClosed(t, done)

		s.mu.Lock()
		defer s.mu.Unlock()
		assert.Nil(t, s.stop)
	})
}
