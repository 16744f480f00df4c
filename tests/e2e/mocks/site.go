package mocks

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// HistogramSite serves course indexes the way the public histogram
// repository does. Unknown courses return 404.
type HistogramSite struct {
	*httptest.Server

	mu       sync.Mutex
	indexes  map[string]string
	requests []string
}

func NewHistogramSite(indexes map[string]string) *HistogramSite {
	s := &HistogramSite{indexes: indexes}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

func (s *HistogramSite) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.Path)
	s.mu.Unlock()

	course, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/index.json")
	if !ok {
		http.NotFound(w, r)
		return
	}
	body, ok := s.indexes[course]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

// Requests returns the paths requested so far.
func (s *HistogramSite) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}
