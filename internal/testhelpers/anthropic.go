package testhelpers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// StubReply is one canned answer of the Anthropic stub. A zero Status means 200.
type StubReply struct {
	Status int
	Text   string
	// Body, when set, is written verbatim instead of a message built from Text
	Body string
}

// CapturedRequest is a request received by the stub
type CapturedRequest struct {
	Header http.Header
	Body   map[string]interface{}
}

// AnthropicStub is an httptest server speaking the Messages API wire format.
// Replies are served in order; the last one repeats once the queue runs dry.
type AnthropicStub struct {
	Server *httptest.Server

	mu       sync.Mutex
	replies  []StubReply
	requests []CapturedRequest
}

// NewAnthropicStub starts a stub that is closed when the test ends
func NewAnthropicStub(t *testing.T, replies ...StubReply) *AnthropicStub {
	t.Helper()
	s := &AnthropicStub{replies: replies}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Server.Close)
	return s
}

// URL is the messages endpoint of the stub
func (s *AnthropicStub) URL() string {
	return s.Server.URL + "/v1/messages"
}

// Reply queues more replies
func (s *AnthropicStub) Reply(replies ...StubReply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

// Calls returns how many requests were received
func (s *AnthropicStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns a copy of the received requests
func (s *AnthropicStub) Requests() []CapturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CapturedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or a zero value
func (s *AnthropicStub) LastRequest() CapturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return CapturedRequest{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *AnthropicStub) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]interface{}
	_ = json.Unmarshal(raw, &body)

	s.mu.Lock()
	s.requests = append(s.requests, CapturedRequest{Header: r.Header.Clone(), Body: body})
	var reply StubReply
	switch len(s.replies) {
	case 0:
		reply = StubReply{Status: http.StatusInternalServerError, Body: errorBody("api_error", "no stubbed reply")}
	case 1:
		reply = s.replies[0]
	default:
		reply = s.replies[0]
		s.replies = s.replies[1:]
	}
	s.mu.Unlock()

	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	payload := reply.Body
	if payload == "" {
		if status >= 400 {
			payload = errorBody("api_error", reply.Text)
		} else {
			payload = MessageBody(reply.Text)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, payload)
}

// MessageBody renders a successful Messages API response with one text block
func MessageBody(text string) string {
	data, _ := json.Marshal(map[string]interface{}{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-test",
		"content":     []map[string]string{{"type": "text", "text": text}},
		"stop_reason": "end_turn",
	})
	return string(data)
}

func errorBody(kind, message string) string {
	data, _ := json.Marshal(map[string]interface{}{
		"type":  "error",
		"error": map[string]string{"type": kind, "message": message},
	})
	return string(data)
}

// ErrorReply is a canned API error
func ErrorReply(status int, message string) StubReply {
	return StubReply{Status: status, Body: errorBody("api_error", message)}
}
