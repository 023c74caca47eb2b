// Package fakeopenai serves the slice of the Assistants API that TIA uses,
// backed by memory, for tests across packages.
package fakeopenai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sashabaranov/go-openai"
)

const (
	OpRetrieveAssistant = "retrieve_assistant"
	OpCreateThread      = "create_thread"
	OpCreateMessage     = "create_message"
	OpCreateRun         = "create_run"
	OpRetrieveRun       = "retrieve_run"
	OpListMessages      = "list_messages"
)

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	assistantID string
	answer      string
	answers     []string
	runStatuses []openai.RunStatus
	failures    map[string]int
	counts      map[string]int
	threads     map[string][]openai.Message
	runs        map[string]openai.Run
	nextID      int
}

// New starts a server that knows a single assistant and replies to every run
// with answer. An empty answer leaves the thread without a reply.
func New(assistantID, answer string) *Server {
	s := &Server{
		assistantID: assistantID,
		answer:      answer,
		failures:    make(map[string]int),
		counts:      make(map[string]int),
		threads:     make(map[string][]openai.Message),
		runs:        make(map[string]openai.Run),
	}

	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/assistants/{assistant_id}", s.handle(OpRetrieveAssistant, s.retrieveAssistant)).Methods("GET")
	v1.HandleFunc("/threads", s.handle(OpCreateThread, s.createThread)).Methods("POST")
	v1.HandleFunc("/threads/{thread_id}/messages", s.handle(OpCreateMessage, s.createMessage)).Methods("POST")
	v1.HandleFunc("/threads/{thread_id}/messages", s.handle(OpListMessages, s.listMessages)).Methods("GET")
	v1.HandleFunc("/threads/{thread_id}/runs", s.handle(OpCreateRun, s.createRun)).Methods("POST")
	v1.HandleFunc("/threads/{thread_id}/runs/{run_id}", s.handle(OpRetrieveRun, s.retrieveRun)).Methods("GET")

	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL is the value for OPENAI_BASE_URL / ClientConfig.BaseURL
func (s *Server) BaseURL() string {
	return s.Server.URL + "/v1"
}

// Client returns a go-openai client pointed at the fake
func (s *Server) Client() *openai.Client {
	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = s.BaseURL()
	return openai.NewClientWithConfig(cfg)
}

// SetAnswers queues one reply per run, in order. Once exhausted, runs reply
// with the answer given to New.
func (s *Server) SetAnswers(answers ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = answers
}

// SetRunStatuses queues the statuses returned by successive run retrievals.
// Once exhausted, runs report completed.
func (s *Server) SetRunStatuses(statuses ...openai.RunStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runStatuses = statuses
}

// FailOn makes every call of op answer with the given HTTP status
func (s *Server) FailOn(op string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = status
}

// Count returns how many times op was called
func (s *Server) Count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[op]
}

// Requests returns the total number of API calls received
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// Messages returns a copy of the messages stored on a thread
func (s *Server) Messages(threadID string) []openai.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]openai.Message(nil), s.threads[threadID]...)
}

func (s *Server) handle(op string, next func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.counts[op]++
		status, failing := s.failures[op]
		s.mu.Unlock()

		if failing {
			writeJSON(w, status, map[string]any{
				"error": map[string]any{
					"message": fmt.Sprintf("%s failed", op),
					"type":    "server_error",
				},
			})
			return
		}

		next(w, r)
	}
}

func (s *Server) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s_%d", prefix, s.nextID)
}

func (s *Server) retrieveAssistant(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["assistant_id"]
	if id != s.assistantID {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]any{"message": "No assistant found", "type": "invalid_request_error"},
		})
		return
	}

	name := "TIA"
	writeJSON(w, http.StatusOK, openai.Assistant{
		ID:        id,
		Object:    "assistant",
		CreatedAt: time.Now().Unix(),
		Name:      &name,
		Model:     openai.GPT4o,
	})
}

func (s *Server) createThread(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	thread := openai.Thread{ID: s.newID("thread"), Object: "thread", CreatedAt: time.Now().Unix()}
	s.threads[thread.ID] = nil
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, thread)
}

func (s *Server) createMessage(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["thread_id"]

	var req openai.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"message": err.Error()}})
		return
	}

	s.mu.Lock()
	msg := s.appendMessage(threadID, req.Role, req.Content)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) appendMessage(threadID, role, text string) openai.Message {
	msg := openai.Message{
		ID:        s.newID("msg"),
		Object:    "thread.message",
		CreatedAt: int(time.Now().Unix()),
		ThreadID:  threadID,
		Role:      role,
		Content: []openai.MessageContent{{
			Type: "text",
			Text: &openai.MessageText{Value: text, Annotations: []any{}},
		}},
	}
	s.threads[threadID] = append(s.threads[threadID], msg)
	return msg
}

func (s *Server) createRun(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["thread_id"]

	var req openai.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"message": err.Error()}})
		return
	}

	s.mu.Lock()
	run := openai.Run{
		ID:          s.newID("run"),
		Object:      "thread.run",
		CreatedAt:   time.Now().Unix(),
		ThreadID:    threadID,
		AssistantID: req.AssistantID,
		Status:      openai.RunStatusQueued,
	}
	s.runs[run.ID] = run
	answer := s.answer
	if len(s.answers) > 0 {
		answer = s.answers[0]
		s.answers = s.answers[1:]
	}
	if answer != "" {
		s.appendMessage(threadID, openai.ChatMessageRoleAssistant, answer)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, run)
}

func (s *Server) retrieveRun(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["run_id"]

	s.mu.Lock()
	run, ok := s.runs[runID]
	if ok {
		run.Status = openai.RunStatusCompleted
		if len(s.runStatuses) > 0 {
			run.Status = s.runStatuses[0]
			s.runStatuses = s.runStatuses[1:]
		}
		if run.Status == openai.RunStatusFailed {
			run.LastError = &openai.RunLastError{Code: openai.RunErrorServerError, Message: "run failed"}
		}
		s.runs[runID] = run
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"message": "No run found"}})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["thread_id"]
	after := r.URL.Query().Get("after")
	order := r.URL.Query().Get("order")

	s.mu.Lock()
	all := s.threads[threadID]
	start := 0
	if after != "" {
		for i, msg := range all {
			if msg.ID == after {
				start = i + 1
				break
			}
		}
	}
	data := append([]openai.Message{}, all[start:]...)
	s.mu.Unlock()

	if order != "asc" {
		for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
			data[i], data[j] = data[j], data[i]
		}
	}

	writeJSON(w, http.StatusOK, openai.MessagesList{Object: "list", Messages: data})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
