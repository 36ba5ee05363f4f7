package mocks

import (
	"context"
	"sync"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
)

var _ driven.DocumentFetcher = (*MockFetcher)(nil)

// MockFetcher serves documents registered by URL
type MockFetcher struct {
	mu    sync.RWMutex
	docs  map[string]*driven.FetchedDocument
	errs  map[string]error
	calls []string
}

// NewMockFetcher creates a new MockFetcher
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		docs: make(map[string]*driven.FetchedDocument),
		errs: make(map[string]error),
	}
}

// Add registers a payload for url
func (m *MockFetcher) Add(url string, payload []byte, mediaType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[url] = &driven.FetchedDocument{Payload: payload, MediaType: mediaType}
}

// Fail makes fetches of url return err
func (m *MockFetcher) Fail(url string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[url] = err
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) (*driven.FetchedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, url)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.errs[url]; ok {
		return nil, err
	}
	doc, ok := m.docs[url]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// Calls returns the fetched URLs in order
func (m *MockFetcher) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
