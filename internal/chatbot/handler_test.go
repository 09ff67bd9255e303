package chatbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/atomnext-intake/internal/observability/metrics"
	"github.com/wolfman30/atomnext-intake/pkg/logging"
	"golang.org/x/net/websocket"
)

func firstPick(int) int { return 0 }

func newTestHandler(t *testing.T, transcript TranscriptStore) (*Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	h := NewHandler(NewBot(WithPicker(firstPick)), transcript, metrics.NewFormsMetrics(reg), logging.New("error"))
	return h, reg
}

func TestChat_Success(t *testing.T) {
	transcript := NewMemoryTranscript()
	h, reg := newTestHandler(t, transcript)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"How much does a website cost?","session_id":"s1"}`))
	w := httptest.NewRecorder()
	h.Chat(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp chatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, responses[TopicWebDevelopment][0], resp.Response)

	msgs, err := transcript.List(context.Background(), "s1", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "assistant", msgs[1].Role)

	assert.Equal(t, 1.0, chatCount(t, reg, "web_development"))
}

func chatCount(t *testing.T, reg *prometheus.Registry, topic string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "atomnext_chat_messages_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "topic" && lp.GetValue() == topic {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestChat_AssignsSession(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hello"}`))
	w := httptest.NewRecorder()
	h.Chat(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, responses[TopicGreeting][0], resp.Response)
}

func TestChat_Errors(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	tests := []struct {
		name     string
		method   string
		body     string
		status   int
		response string
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed, msgMethodNotAllowed},
		{"empty message", http.MethodPost, `{"message":"   "}`, http.StatusBadRequest, msgEmpty},
		{"missing message", http.MethodPost, `{}`, http.StatusBadRequest, msgEmpty},
		{"malformed body", http.MethodPost, `{"message":`, http.StatusBadRequest, msgFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/chat", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Chat(w, req)

			assert.Equal(t, tt.status, w.Code)
			var resp chatResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.response, resp.Response)
		})
	}
}

func TestHistory(t *testing.T) {
	transcript := NewMemoryTranscript()
	require.NoError(t, transcript.Append(context.Background(), "s1", Message{Role: "user", Text: "hi"}))
	h, _ := newTestHandler(t, transcript)

	w := httptest.NewRecorder()
	h.History(w, httptest.NewRequest(http.MethodGet, "/api/chat/history?session=s1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages []Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "hi", resp.Messages[0].Text)

	w = httptest.NewRecorder()
	h.History(w, httptest.NewRequest(http.MethodGet, "/api/chat/history", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistory_NoTranscriptStore(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	w := httptest.NewRecorder()
	h.History(w, httptest.NewRequest(http.MethodGet, "/api/chat/history?session=s1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"messages":[]}`, w.Body.String())
}

func TestHandleWebSocket(t *testing.T) {
	transcript := NewMemoryTranscript()
	require.NoError(t, transcript.Append(context.Background(), "ws1", Message{Role: "user", Text: "earlier"}))
	h, _ := newTestHandler(t, transcript)

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/chat/ws?session=ws1"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()

	var out OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &out))
	assert.Equal(t, "session", out.Type)
	assert.Equal(t, "ws1", out.SessionID)

	out = OutboundMessage{}
	require.NoError(t, websocket.JSON.Receive(conn, &out))
	assert.Equal(t, "history", out.Type)
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "earlier", out.Messages[0].Text)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "ping"}))
	out = OutboundMessage{}
	require.NoError(t, websocket.JSON.Receive(conn, &out))
	assert.Equal(t, "pong", out.Type)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "  "}))
	out = OutboundMessage{}
	require.NoError(t, websocket.JSON.Receive(conn, &out))
	assert.Equal(t, "error", out.Type)
	assert.Equal(t, msgEmpty, out.Text)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "Do you build Android apps?"}))
	out = OutboundMessage{}
	require.NoError(t, websocket.JSON.Receive(conn, &out))
	assert.Equal(t, "message", out.Type)
	assert.Equal(t, "assistant", out.Role)
	assert.Equal(t, TopicMobileApps, out.Topic)
	assert.Equal(t, responses[TopicMobileApps][0], out.Text)
	assert.NotEmpty(t, out.Timestamp)
}
