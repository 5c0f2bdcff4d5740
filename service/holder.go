// Package service exposes a loaded ontology over NATS request/reply, reloads it
// when its source files change and serves Prometheus metrics.
package service

import (
	"sync/atomic"

	"github.com/c360studio/brickshape/ontology"
)

// Holder publishes the current ontology snapshot. Readers always see a fully
// built snapshot; a reload replaces it as a whole.
type Holder struct {
	current atomic.Pointer[ontology.Ontology]
}

// NewHolder creates a holder serving o, which may be nil until the first load.
func NewHolder(o *ontology.Ontology) *Holder {
	h := &Holder{}
	if o != nil {
		h.current.Store(o)
	}
	return h
}

// Load returns the current snapshot, or nil if none has been stored.
func (h *Holder) Load() *ontology.Ontology {
	return h.current.Load()
}

// Swap installs o and returns the snapshot it replaced.
func (h *Holder) Swap(o *ontology.Ontology) *ontology.Ontology {
	return h.current.Swap(o)
}
