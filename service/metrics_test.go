package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semstreams/pkg/errs"

	"github.com/c360studio/brickshape/curie"
	"github.com/c360studio/brickshape/ontology"
)

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := loadFixtureWith(t, ontology.WithMetrics(ontology.NewMetrics(reg)))
	_, err := o.TagsOf(curie.Text("brick:Setpoint"))
	require.NoError(t, err)

	srv := httptest.NewServer(NewMetricsServer("", reg, NewHolder(o)).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + MetricsPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `brickshape_query_total{operation="TagsOf",status="ok"} 1`)
	assert.Contains(t, string(body), "brickshape_loaded_classes 9")
}

func TestHealth(t *testing.T) {
	holder := NewHolder(nil)
	srv := httptest.NewServer(NewMetricsServer("", prometheus.NewRegistry(), holder).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	o := ontology.New(nil)
	holder.Swap(o)

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, o.ID(), resp.Header.Get("X-Ontology-Id"))
}

func TestMetricsServerLifecycle(t *testing.T) {
	s := NewMetricsServer("127.0.0.1:0", prometheus.NewRegistry(), nil)
	require.NoError(t, s.Start())

	err := s.Start()
	require.Error(t, err)
	assert.True(t, errs.IsInvalid(err))

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}

func TestMetricsServerNeedsGatherer(t *testing.T) {
	err := NewMetricsServer("127.0.0.1:0", nil, nil).Start()
	require.Error(t, err)
	assert.True(t, errs.IsFatal(err))
}
