package document

import (
	"errors"
	"sync"
)

// ErrNotOpen is returned when an operation targets a document that is not
// currently tracked by the store.
var ErrNotOpen = errors.New("document: not open")

// Store tracks the open documents by identity.
//
// Each update replaces the tracked snapshot wholesale and advances the
// version; readers always observe a complete snapshot.
type Store struct {
	mu   sync.RWMutex
	docs map[ID]*Document
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{docs: make(map[ID]*Document)}
}

// Open starts tracking a document. Re-opening an already tracked document
// replaces its content and advances the version.
func (s *Store) Open(id ID, text, folder, language string) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	version := int64(1)
	if prev, ok := s.docs[id]; ok {
		version = prev.Version + 1
	}
	doc := &Document{
		ID:       id,
		Language: language,
		Text:     text,
		Version:  version,
		Folder:   folder,
	}
	s.docs[id] = doc
	return doc
}

// Update replaces the text of a tracked document and advances its version.
func (s *Store) Update(id ID, text string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.docs[id]
	if !ok {
		return nil, ErrNotOpen
	}
	doc := &Document{
		ID:       prev.ID,
		Language: prev.Language,
		Text:     text,
		Version:  prev.Version + 1,
		Folder:   prev.Folder,
	}
	s.docs[id] = doc
	return doc, nil
}

// Get returns the current snapshot of a tracked document.
func (s *Store) Get(id ID) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// Close stops tracking a document.
func (s *Store) Close(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
}

// IDs returns the identities of all tracked documents.
func (s *Store) IDs() []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]ID, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of tracked documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
