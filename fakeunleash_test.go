package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
)

// unleashFeature is the part of the Unleash client API feature payload the
// Go client reads
type unleashFeature struct {
	Name       string            `json:"name"`
	Enabled    bool              `json:"enabled"`
	Strategies []unleashStrategy `json:"strategies"`
}

type unleashStrategy struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// fakeUnleashServer serves the flags this app knows about, all disabled
// until a test enables them
type fakeUnleashServer struct {
	mu       sync.RWMutex
	srv      *httptest.Server
	features map[string]bool
}

func newFakeUnleash() *fakeUnleashServer {
	f := &fakeUnleashServer{features: map[string]bool{
		featureLandingsUpload:   false,
		featureCopyCertificate:  false,
		featureArrivalTransport: false,
	}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handler))
	return f
}

func (f *fakeUnleashServer) url() string {
	return f.srv.URL
}

func (f *fakeUnleashServer) Enable(name string) {
	f.set(name, true)
}

func (f *fakeUnleashServer) Disable(name string) {
	f.set(name, false)
}

func (f *fakeUnleashServer) set(name string, enabled bool) {
	f.mu.Lock()
	f.features[name] = enabled
	f.mu.Unlock()
}

// snapshot lists the flags in name order
func (f *fakeUnleashServer) snapshot() []unleashFeature {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]unleashFeature, 0, len(f.features))
	for name, enabled := range f.features {
		out = append(out, unleashFeature{
			Name:       name,
			Enabled:    enabled,
			Strategies: []unleashStrategy{{Name: "default"}},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeUnleashServer) handler(w http.ResponseWriter, req *http.Request) {
	switch req.Method + " " + req.URL.Path {
	case "GET /client/features":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			Version  int              `json:"version"`
			Features []unleashFeature `json:"features"`
		}{Version: 2, Features: f.snapshot()})
	case "POST /client/register", "POST /client/metrics":
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("unknown route"))
	}
}
