// Package llmtest provides a scripted OpenAI-compatible gateway for tests.
package llmtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/projectziio/ziio-ai/internal/llm"
)

// Reply is one scripted gateway answer.
type Reply struct {
	Status  int      // 0 means 200
	Content string   // completion text
	Chunks  []string // streamed deltas; defaults to []string{Content}
	Message string   // error message for non-2xx replies
}

// Server records requests and answers them from per-model reply queues.
// The last reply of a queue repeats.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	replies  map[string][]Reply
	fallback Reply
	requests []llm.Request
	headers  []http.Header
}

func New(t testing.TB) *Server {
	s := &Server{replies: map[string][]Reply{}, fallback: Reply{Content: "ok"}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// On scripts the replies for model.
func (s *Server) On(model string, replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[model] = replies
}

// Default sets the reply used for models without a script.
func (s *Server) Default(r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = r
}

// Requests returns the decoded requests in arrival order.
func (s *Server) Requests() []llm.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Request(nil), s.requests...)
}

// Models returns the model of each request in arrival order.
func (s *Server) Models() []string {
	out := []string{}
	for _, r := range s.Requests() {
		out = append(out, r.Model)
	}
	return out
}

// Header returns the headers of the i-th request.
func (s *Server) Header(i int) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[i]
}

// Client returns a gateway client pointed at this server.
func (s *Server) Client() *llm.Client {
	return llm.NewClient(llm.Config{APIKey: "test-key", BaseURL: s.URL, AppURL: "http://localhost:3000", AppTitle: "Project Ziio"})
}

func (s *Server) next(model string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.replies[model]
	if !ok || len(q) == 0 {
		return s.fallback
	}
	r := q[0]
	if len(q) > 1 {
		s.replies[model] = q[1:]
	}
	return r
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/chat/completions" {
		http.NotFound(w, r)
		return
	}
	var req llm.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.headers = append(s.headers, r.Header.Clone())
	s.mu.Unlock()

	reply := s.next(req.Model)
	if reply.Status != 0 && reply.Status != http.StatusOK {
		msg := reply.Message
		if msg == "" {
			msg = http.StatusText(reply.Status)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reply.Status)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": msg, "code": reply.Status}})
		return
	}

	if req.Stream {
		chunks := reply.Chunks
		if chunks == nil {
			chunks = []string{reply.Content}
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": OPENROUTER PROCESSING\n\n")
		for _, c := range chunks {
			b, _ := json.Marshal(map[string]any{"model": req.Model, "choices": []any{map[string]any{"index": 0, "delta": map[string]any{"content": c}}}})
			fmt.Fprintf(w, "data: %s\n\n", b)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":    "gen-test",
		"model": req.Model,
		"choices": []any{map[string]any{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": reply.Content},
			"finish_reason": "stop",
		}},
	})
}
