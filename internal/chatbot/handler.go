package chatbot

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/atomnext-intake/internal/observability/metrics"
	"github.com/wolfman30/atomnext-intake/pkg/logging"
	"golang.org/x/net/websocket"
)

const (
	msgMethodNotAllowed = "Method not allowed"
	msgEmpty            = "Please provide a message."
	msgFailure          = "I apologize, but I encountered an error. Please try again."
	historyLimit        = 50
)

// Handler serves the site chatbot over plain HTTP and WebSocket.
type Handler struct {
	bot        *Bot
	transcript TranscriptStore
	metrics    *metrics.FormsMetrics
	logger     *logging.Logger
	now        func() time.Time
}

// InboundMessage is what the chat widget sends over the socket.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send back over the socket.
type OutboundMessage struct {
	Type      string    `json:"type"` // "session", "history", "message", "pong", "error"
	Text      string    `json:"text,omitempty"`
	Role      string    `json:"role,omitempty"`
	Topic     Topic     `json:"topic,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"`
	Messages  []Message `json:"messages,omitempty"`
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Response  string `json:"response"`
	Status    string `json:"status"`
	SessionID string `json:"session_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewHandler builds a chat handler. transcript and m may be nil.
func NewHandler(bot *Bot, transcript TranscriptStore, m *metrics.FormsMetrics, logger *logging.Logger) *Handler {
	if bot == nil {
		bot = NewBot()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		bot:        bot,
		transcript: transcript,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, chatResponse{Response: msgMethodNotAllowed, Status: "error"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Response: msgFailure, Status: "error", Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, chatResponse{Response: msgEmpty, Status: "error"})
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply := h.answer(r.Context(), sessionID, req.Message)
	writeJSON(w, http.StatusOK, chatResponse{Response: reply.Text, Status: "success", SessionID: sessionID})
}

// History handles GET /api/chat/history?session=.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}
	if h.transcript == nil {
		writeJSON(w, http.StatusOK, map[string]any{"messages": []Message{}})
		return
	}
	msgs, err := h.transcript.List(r.Context(), sessionID, historyLimit*2)
	if err != nil {
		h.logger.Error("chatbot: failed to load history", "error", err, "session_id", sessionID)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// HandleWebSocket upgrades to WebSocket and answers messages in real time.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ctx := r.Context()
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sessionID})

	if h.transcript != nil {
		if msgs, err := h.transcript.List(ctx, sessionID, historyLimit); err == nil && len(msgs) > 0 {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: msgs})
		}
	}

	h.logger.Info("chatbot: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("chatbot: connection closed", "session_id", sessionID, "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		case "message":
		default:
			continue
		}

		if strings.TrimSpace(msg.Text) == "" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: msgEmpty})
			continue
		}

		reply := h.answer(ctx, sessionID, msg.Text)
		if err := websocket.JSON.Send(conn, OutboundMessage{
			Type:      "message",
			Role:      "assistant",
			Text:      reply.Text,
			Topic:     reply.Topic,
			SessionID: sessionID,
			Timestamp: h.now().UTC().Format(time.RFC3339),
		}); err != nil {
			h.logger.Debug("chatbot: send failed", "session_id", sessionID, "error", err)
			return
		}
	}
}

func (h *Handler) answer(ctx context.Context, sessionID, text string) Reply {
	reply := h.bot.Reply(text)
	h.metrics.ObserveChat(string(reply.Topic))

	if h.transcript != nil {
		now := h.now().UTC()
		if err := h.transcript.Append(ctx, sessionID, Message{Role: "user", Text: text, Timestamp: now}); err != nil {
			h.logger.Warn("chatbot: failed to store message", "error", err, "session_id", sessionID)
		}
		if err := h.transcript.Append(ctx, sessionID, Message{Role: "assistant", Text: reply.Text, Topic: reply.Topic, Timestamp: now}); err != nil {
			h.logger.Warn("chatbot: failed to store reply", "error", err, "session_id", sessionID)
		}
	}
	return reply
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
