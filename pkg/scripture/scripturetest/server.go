// Package scripturetest provides an in-process fake of the scripture service
// for tests.
package scripturetest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"tableflip.dev/devo/pkg/scripture"
)

// Operation names used for routing overrides and call counts.
const (
	OpSuggest     = "suggest"
	OpContent     = "content"
	OpGenerate    = "generate"
	OpPrivacy     = "privacy"
	OpBulkPrivacy = "bulk-privacy"
	OpDevotions   = "devotions"
)

// Token is the anti-forgery token the fake requires.
const Token = "test-csrf-token"

// Server is a fake scripture service. Every route answers with a sensible
// default until overridden with Handle.
type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	calls    map[string]int
	bodies   map[string][]byte
	params   map[string]string
}

// New starts a fake service. Call Close when done.
func New() *Server {
	s := &Server{
		handlers: map[string]http.HandlerFunc{
			OpSuggest:     defaultSuggest,
			OpContent:     defaultContent,
			OpGenerate:    defaultGenerate,
			OpPrivacy:     JSON(http.StatusOK, map[string]string{"message": "Privacy updated"}),
			OpBulkPrivacy: JSON(http.StatusOK, map[string]string{"message": "Privacy updated"}),
			OpDevotions:   JSON(http.StatusOK, []any{}),
		},
		calls:  map[string]int{},
		bodies: map[string][]byte{},
		params: map[string]string{},
	}

	eps := scripture.DefaultEndpoints()
	r := chi.NewRouter()
	r.Use(s.requireToken)
	r.Post(eps.Suggest, s.route(OpSuggest))
	r.Get(eps.VerseContent, s.route(OpContent))
	r.Post(eps.Generate, s.route(OpGenerate))
	r.Post("/api/devotions/{id}/privacy/", s.route(OpPrivacy))
	r.Post(eps.BulkPrivacy, s.route(OpBulkPrivacy))
	r.Get(eps.Devotions, s.route(OpDevotions))

	s.srv = httptest.NewServer(r)
	return s
}

// URL is the base URL of the fake.
func (s *Server) URL() string { return s.srv.URL }

// Close shuts the fake down.
func (s *Server) Close() { s.srv.Close() }

// Client returns a scripture client wired to the fake with the right token.
func (s *Server) Client() *scripture.Client {
	c, err := scripture.New(scripture.Options{
		BaseURL: s.srv.URL,
		Token:   scripture.StaticToken(Token),
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Handle overrides the handler for op.
func (s *Server) Handle(op string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[op] = h
}

// Calls returns how many requests op has received.
func (s *Server) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// LastBody returns the body of the latest request for op.
func (s *Server) LastBody(op string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies[op]
}

// LastParam returns the {id} path parameter of the latest privacy request.
func (s *Server) LastParam(op string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params[op]
}

func (s *Server) route(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.calls[op]++
		s.bodies[op] = body
		if id := chi.URLParam(r, "id"); id != "" {
			s.params[op] = id
		}
		h := s.handlers[op]
		s.mu.Unlock()

		r.Body = io.NopCloser(bytes.NewReader(body))
		h(w, r)
	}
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(scripture.CSRFHeader) != Token {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "CSRF verification failed"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// JSON answers with status and v encoded as JSON.
func JSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, v)
	}
}

// Raw answers with status and a verbatim body.
func Raw(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// Block wraps h so it only answers after release is closed or receives.
func Block(release <-chan struct{}, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		h(w, r)
	}
}

// Verses builds n suggestions for mood, named "<mood> 1".."<mood> n".
func Verses(mood string, n int) []map[string]string {
	out := make([]map[string]string, n)
	for i := range out {
		out[i] = map[string]string{
			"reference": fmt.Sprintf("%s %d", mood, i+1),
			"preview":   "preview for " + mood + " " + strconv.Itoa(i+1),
		}
	}
	return out
}

func defaultSuggest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mood  string `json:"mood"`
		Count int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid JSON body"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"verses":  Verses(req.Mood, req.Count),
	})
}

func defaultContent(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("reference")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"content": "Text of " + ref,
	})
}

func defaultGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reference string `json:"reference"`
		Mood      string `json:"mood"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"title":   "When you feel " + req.Mood,
		"content": "A reflection on " + req.Reference,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
