package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chiRouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/domain"
	"github.com/kailas-cloud/faqbot/internal/repository/history"
	healthuc "github.com/kailas-cloud/faqbot/internal/usecase/health"
)

// --- Mocks ---

type mockResponder struct {
	reply     domain.Reply
	lastQuery string
}

func (m *mockResponder) Respond(_ context.Context, query string) domain.Reply {
	m.lastQuery = query
	return m.reply
}

type mockHistory struct {
	saved   []history.Entry
	entries []history.Entry
	saveErr error
	readErr error
}

func (m *mockHistory) Save(_ context.Context, e history.Entry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, e)
	return nil
}

func (m *mockHistory) Recent(_ context.Context, limit int) ([]history.Entry, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	return m.entries[:limit], nil
}

func newTestServer(responder Responder, hist HistoryStore) http.Handler {
	srv := NewServer(responder, hist, healthuc.New(nil, nil, true), zap.NewNop())
	r := chiRouter.NewRouter()
	srv.Routes(r)
	return r
}

// --- Tests ---

func TestChat_RetrievalReply(t *testing.T) {
	responder := &mockResponder{reply: domain.Reply{
		Text:   "Nairobi is the capital of Kenya.",
		Source: domain.SourceRetrieval,
		Score:  0.91,
	}}
	handler := newTestServer(responder, nil)

	body := strings.NewReader(`{"message": "what is the capital of kenya?"}`)
	req := httptest.NewRequest("POST", "/chat", body)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp chatResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Response != "Nairobi is the capital of Kenya." {
		t.Errorf("unexpected response text: %q", resp.Response)
	}
	if resp.Source != string(domain.SourceRetrieval) {
		t.Errorf("source: got %q, want %q", resp.Source, domain.SourceRetrieval)
	}
	if resp.Score != 0.91 {
		t.Errorf("score: got %v, want 0.91", resp.Score)
	}
	if responder.lastQuery != "what is the capital of kenya?" {
		t.Errorf("responder received %q", responder.lastQuery)
	}
}

func TestChat_InvalidBody_400(t *testing.T) {
	handler := newTestServer(&mockResponder{}, nil)

	req := httptest.NewRequest("POST", "/chat", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestChat_EmptyMessage_400(t *testing.T) {
	handler := newTestServer(&mockResponder{}, nil)

	for _, body := range []string{`{}`, `{"message": ""}`, `{"message": "   "}`} {
		req := httptest.NewRequest("POST", "/chat", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %s: got %d, want %d", body, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestChat_OversizedMessage_400(t *testing.T) {
	handler := newTestServer(&mockResponder{}, nil)

	big := strings.Repeat("a", maxMessageLen+1)
	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"message": "`+big+`"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestChat_SavesHistory(t *testing.T) {
	responder := &mockResponder{reply: domain.Reply{
		Text:   "generated answer",
		Source: domain.SourceGenerative,
	}}
	hist := &mockHistory{}
	handler := newTestServer(responder, hist)

	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"message": "hello"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}
	if len(hist.saved) != 1 {
		t.Fatalf("expected 1 saved entry, got %d", len(hist.saved))
	}
	e := hist.saved[0]
	if e.Query != "hello" || e.Response != "generated answer" || e.Source != domain.SourceGenerative {
		t.Errorf("unexpected saved entry: %+v", e)
	}
}

func TestChat_HistorySaveFailure_StillReplies(t *testing.T) {
	responder := &mockResponder{reply: domain.Reply{Text: "ok", Source: domain.SourceRetrieval}}
	hist := &mockHistory{saveErr: errors.New("conn refused")}
	handler := newTestServer(responder, hist)

	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"message": "hello"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("history failure must not fail the chat, got %d", rr.Code)
	}
}

func TestChatHistory_ReturnsItems(t *testing.T) {
	hist := &mockHistory{entries: []history.Entry{
		{Query: "q2", Response: "r2", Source: domain.SourceGenerative, CreatedAt: time.Now().UTC()},
		{Query: "q1", Response: "r1", Source: domain.SourceRetrieval, Score: 0.8, CreatedAt: time.Now().UTC()},
	}}
	handler := newTestServer(&mockResponder{}, hist)

	req := httptest.NewRequest("GET", "/chat/history", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp historyResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Items[0].Query != "q2" {
		t.Errorf("expected newest first, got %q", resp.Items[0].Query)
	}
	if resp.Items[1].Score != 0.8 {
		t.Errorf("score: got %v, want 0.8", resp.Items[1].Score)
	}
}

func TestChatHistory_LimitParam(t *testing.T) {
	hist := &mockHistory{entries: []history.Entry{
		{Query: "q3"}, {Query: "q2"}, {Query: "q1"},
	}}
	handler := newTestServer(&mockResponder{}, hist)

	req := httptest.NewRequest("GET", "/chat/history?limit=2", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var resp historyResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(resp.Items))
	}
}

func TestChatHistory_BadLimit_400(t *testing.T) {
	handler := newTestServer(&mockResponder{}, &mockHistory{})

	for _, limit := range []string{"abc", "-1", "0"} {
		req := httptest.NewRequest("GET", "/chat/history?limit="+limit, http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("limit %q: got %d, want %d", limit, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestChatHistory_Disabled_404(t *testing.T) {
	handler := newTestServer(&mockResponder{}, nil)

	req := httptest.NewRequest("GET", "/chat/history", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestChatHistory_ReadFailure_500(t *testing.T) {
	hist := &mockHistory{readErr: errors.New("conn refused")}
	handler := newTestServer(&mockResponder{}, hist)

	req := httptest.NewRequest("GET", "/chat/history", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestHealthCheck_Healthy_200(t *testing.T) {
	handler := newTestServer(&mockResponder{}, nil)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestHealthCheck_IndexDown_503(t *testing.T) {
	srv := NewServer(&mockResponder{}, nil, healthuc.New(nil, nil, false), zap.NewNop())
	r := chiRouter.NewRouter()
	srv.Routes(r)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestRoot_ServiceInfo(t *testing.T) {
	handler := newTestServer(&mockResponder{}, nil)

	req := httptest.NewRequest("GET", "/", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["service"] != "faqbot" {
		t.Errorf("service: got %q", resp["service"])
	}
}
