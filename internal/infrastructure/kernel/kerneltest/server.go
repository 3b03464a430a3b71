// Package kerneltest provides an in-memory session API for tests.
package kerneltest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"browser-automation/internal/domain/entity"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
)

const APIKey = "test-kernel-key"

// Server fakes the profile and browser endpoints. Browsers created with a
// persistence id are reused until deleted.
type Server struct {
	*httptest.Server

	// CDPURL is returned as cdp_ws_url for every new browser.
	CDPURL string

	mu          sync.Mutex
	seq         int
	profiles    map[string]entity.Profile
	browsers    map[string]entity.CreateBrowserRequest
	persistent  map[string]string
	deleted     []string
	createCalls []entity.CreateBrowserRequest
}

func NewServer() *Server {
	s := &Server{
		CDPURL:     "ws://127.0.0.1:9222/devtools/browser/fake",
		profiles:   make(map[string]entity.Profile),
		browsers:   make(map[string]entity.CreateBrowserRequest),
		persistent: make(map[string]string),
	}

	logger := httplog.NewLogger("kerneltest", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(requireAuth)
	r.Post("/profiles", s.createProfile)
	r.Post("/browsers", s.createBrowser)
	r.Delete("/browsers/{id}", s.deleteBrowser)

	s.Server = httptest.NewServer(r)
	return s
}

func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+APIKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createProfile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[body.Name]; ok {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error": map[string]string{"message": fmt.Sprintf("profile %s already exists", body.Name)},
		})
		return
	}

	s.seq++
	profile := entity.Profile{
		ID:        fmt.Sprintf("prof_%d", s.seq),
		Name:      body.Name,
		CreatedAt: time.Now().UTC(),
	}
	s.profiles[body.Name] = profile
	writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) createBrowser(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateBrowserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.createCalls = append(s.createCalls, req)

	if req.Profile != nil {
		if _, ok := s.profiles[req.Profile.Name]; !ok {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
	}

	if req.Persistence != nil {
		if id, ok := s.persistent[req.Persistence.ID]; ok {
			writeJSON(w, http.StatusOK, s.session(id))
			return
		}
	}

	s.seq++
	id := fmt.Sprintf("sess_%d", s.seq)
	s.browsers[id] = req
	if req.Persistence != nil {
		s.persistent[req.Persistence.ID] = id
	}
	writeJSON(w, http.StatusOK, s.session(id))
}

func (s *Server) deleteBrowser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.browsers[id]
	if !ok {
		writeError(w, http.StatusNotFound, "browser not found")
		return
	}
	delete(s.browsers, id)
	if req.Persistence != nil {
		delete(s.persistent, req.Persistence.ID)
	}
	s.deleted = append(s.deleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(id string) entity.BrowserSession {
	return entity.BrowserSession{
		SessionID:       id,
		CDPWebSocketURL: s.CDPURL,
		LiveViewURL:     s.URL + "/live/" + id,
	}
}

func (s *Server) Profiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	return names
}

// Open returns the ids of browsers that were created and not deleted.
func (s *Server) Open() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.browsers))
	for id := range s.browsers {
		ids = append(ids, id)
	}
	return ids
}

func (s *Server) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

// CreateRequests returns every create-browser body received, in order.
func (s *Server) CreateRequests() []entity.CreateBrowserRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.CreateBrowserRequest(nil), s.createCalls...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
