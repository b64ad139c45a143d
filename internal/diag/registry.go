package diag

import (
	"sync"

	"livemark/internal/document"
)

// Registry maps document identity to its diagnostics publisher.
type Registry struct {
	mu         sync.Mutex
	publishers map[document.ID]*Publisher
}

// NewRegistry creates an empty publisher registry.
func NewRegistry() *Registry {
	return &Registry{publishers: make(map[document.ID]*Publisher)}
}

// Open registers a publisher for a document, closing any existing one for
// the same identity first.
func (r *Registry) Open(id document.ID, p *Publisher) {
	r.mu.Lock()
	prev := r.publishers[id]
	r.publishers[id] = p
	r.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
}

// Get returns the publisher for a document.
func (r *Registry) Get(id document.ID) (*Publisher, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.publishers[id]
	return p, ok
}

// Close clears and removes the publisher for a document.
func (r *Registry) Close(id document.ID) {
	r.mu.Lock()
	p := r.publishers[id]
	delete(r.publishers, id)
	r.mu.Unlock()

	if p != nil {
		p.Close()
	}
}

// CloseAll clears every publisher.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	publishers := make([]*Publisher, 0, len(r.publishers))
	for _, p := range r.publishers {
		publishers = append(publishers, p)
	}
	r.publishers = make(map[document.ID]*Publisher)
	r.mu.Unlock()

	for _, p := range publishers {
		p.Close()
	}
}

// Len returns the number of registered publishers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.publishers)
}
