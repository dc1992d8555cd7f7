// Package testutil provides an in-process PokeAPI for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

// APIPrefix is where the mock mounts the v2 API.
const APIPrefix = "/api/v2/"

var starters = []string{
	"bulbasaur", "ivysaur", "venusaur",
	"charmander", "charmeleon", "charizard",
	"squirtle", "wartortle", "blastoise",
}

var starterTypes = []string{"grass", "fire", "water"}

// MockPokeAPI serves a roster of Total Pokémon with PokeAPI-shaped JSON.
// Ids run from 1 to Total; Name maps an id to its name.
type MockPokeAPI struct {
	server *httptest.Server
	total  int

	mu       sync.RWMutex
	failures map[string]int
	handlers map[string]http.HandlerFunc
	delay    time.Duration
	perPath  map[string]int

	requests    atomic.Int64
	conditional atomic.Int64
	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

// NewMockPokeAPI starts a server with total Pokémon.
func NewMockPokeAPI(total int) *MockPokeAPI {
	m := &MockPokeAPI{
		total:    total,
		failures: make(map[string]int),
		handlers: make(map[string]http.HandlerFunc),
		perPath:  make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(m.track)
	r.Get("/api/v2/pokemon", m.serveList)
	r.Get("/api/v2/pokemon/", m.serveList)
	r.Get("/api/v2/pokemon-form/{name}", m.serveForm)
	r.Get("/api/v2/pokemon-form/{name}/", m.serveForm)
	r.Get("/api/v2/pokemon/{name}", m.serveDetail)
	r.Get("/api/v2/pokemon/{name}/", m.serveDetail)

	m.server = httptest.NewServer(r)
	return m
}

// Name returns the name of id.
func Name(id int) string {
	if id >= 1 && id <= len(starters) {
		return starters[id-1]
	}
	return fmt.Sprintf("pokemon-%d", id)
}

func idOf(name string) (int, bool) {
	for i, s := range starters {
		if s == name {
			return i + 1, true
		}
	}
	if rest, ok := strings.CutPrefix(name, "pokemon-"); ok {
		id, err := strconv.Atoi(rest)
		return id, err == nil
	}
	id, err := strconv.Atoi(name)
	return id, err == nil
}

// URL returns the server root.
func (m *MockPokeAPI) URL() string {
	return m.server.URL
}

// BaseURL returns the API root to configure a client with.
func (m *MockPokeAPI) BaseURL() string {
	return m.server.URL + APIPrefix
}

func (m *MockPokeAPI) Close() {
	m.server.Close()
}

// Fail makes every request to path answer status. Paths are relative to
// the server root, e.g. "/api/v2/pokemon-form/ivysaur".
func (m *MockPokeAPI) Fail(path string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[path] = status
}

// SetHandler overrides the response for path.
func (m *MockPokeAPI) SetHandler(path string, h http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = h
}

// SetDelay holds every response for d.
func (m *MockPokeAPI) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

func (m *MockPokeAPI) RequestCount() int {
	return int(m.requests.Load())
}

// ConditionalCount counts requests carrying If-None-Match.
func (m *MockPokeAPI) ConditionalCount() int {
	return int(m.conditional.Load())
}

// MaxInFlight is the highest number of concurrent requests seen.
func (m *MockPokeAPI) MaxInFlight() int {
	return int(m.maxInFlight.Load())
}

func (m *MockPokeAPI) RequestsFor(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.perPath[path]
}

func (m *MockPokeAPI) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requests.Add(1)
		if r.Header.Get("If-None-Match") != "" {
			m.conditional.Add(1)
		}

		n := m.inFlight.Add(1)
		defer m.inFlight.Add(-1)
		for {
			peak := m.maxInFlight.Load()
			if n <= peak || m.maxInFlight.CompareAndSwap(peak, n) {
				break
			}
		}

		path := strings.TrimSuffix(r.URL.Path, "/")
		m.mu.Lock()
		m.perPath[path]++
		status, failing := m.failures[path]
		handler, overridden := m.handlers[path]
		delay := m.delay
		m.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}

		switch {
		case failing:
			http.Error(w, http.StatusText(status), status)
		case overridden:
			handler(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (m *MockPokeAPI) serveList(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 20)

	end := min(offset+limit, m.total)
	results := []map[string]string{}
	for id := offset + 1; id <= end; id++ {
		results = append(results, map[string]string{
			"name": Name(id),
			"url":  fmt.Sprintf("%s%spokemon/%d/", m.server.URL, APIPrefix, id),
		})
	}

	var next, previous any
	if end < m.total {
		next = fmt.Sprintf("%s%spokemon?offset=%d&limit=%d", m.server.URL, APIPrefix, end, limit)
	}
	if offset > 0 {
		previous = fmt.Sprintf("%s%spokemon?offset=%d&limit=%d", m.server.URL, APIPrefix, max(offset-limit, 0), limit)
	}

	writeJSON(w, r, fmt.Sprintf(`"list-%d-%d"`, offset, limit), map[string]any{
		"count":    m.total,
		"next":     next,
		"previous": previous,
		"results":  results,
	})
}

func (m *MockPokeAPI) serveForm(w http.ResponseWriter, r *http.Request) {
	id, ok := m.lookup(chi.URLParam(r, "name"))
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	writeJSON(w, r, fmt.Sprintf(`"form-%d"`, id), map[string]any{
		"id":             id,
		"name":           Name(id),
		"order":          id,
		"form_name":      "",
		"is_battle_only": false,
		"is_default":     true,
		"is_mega":        false,
		"pokemon":        map[string]string{"name": Name(id), "url": fmt.Sprintf("%s%spokemon/%d/", m.server.URL, APIPrefix, id)},
		"sprites":        map[string]any{"front_default": sprite(id), "back_default": nil},
		"types":          []map[string]any{typeSlot(id)},
	})
}

func (m *MockPokeAPI) serveDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := m.lookup(chi.URLParam(r, "name"))
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	writeJSON(w, r, fmt.Sprintf(`"pokemon-%d"`, id), map[string]any{
		"id":              id,
		"name":            Name(id),
		"order":           id,
		"height":          7,
		"weight":          69,
		"base_experience": 64,
		"is_default":      true,
		"species":         map[string]string{"name": Name(id)},
		"abilities": []map[string]any{
			{"ability": map[string]string{"name": "overgrow"}, "is_hidden": false, "slot": 1},
			{"ability": map[string]string{"name": "chlorophyll"}, "is_hidden": true, "slot": 3},
		},
		"stats": []map[string]any{
			{"base_stat": 45, "effort": 0, "stat": map[string]string{"name": "hp"}},
			{"base_stat": 49, "effort": 0, "stat": map[string]string{"name": "attack"}},
		},
		"types": []map[string]any{typeSlot(id)},
		"moves": []map[string]any{{"move": map[string]string{"name": "tackle"}}},
		"sprites": map[string]any{
			"front_default": sprite(id),
			"other": map[string]any{
				"official-artwork": map[string]any{"front_default": fmt.Sprintf("https://img.example/artwork/%d.png", id)},
			},
		},
	})
}

func (m *MockPokeAPI) lookup(name string) (int, bool) {
	id, ok := idOf(name)
	return id, ok && id >= 1 && id <= m.total
}

func sprite(id int) string {
	return fmt.Sprintf("https://img.example/sprites/%d.png", id)
}

func typeSlot(id int) map[string]any {
	return map[string]any{
		"slot": 1,
		"type": map[string]string{"name": starterTypes[(id-1)/3%len(starterTypes)]},
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// writeJSON answers 304 when the request already holds etag.
func writeJSON(w http.ResponseWriter, r *http.Request, etag string, body any) {
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(body)
}
