package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/vizchat/descriptor"
	"github.com/spektr-org/vizchat/engine"
	"github.com/spektr-org/vizchat/render"
)

const maxDescriptorBytes = 4 << 20

// chatItem is one message as the preview client sees it.
type chatItem struct {
	Text      string              `json:"text"`
	Sender    descriptor.Sender   `json:"sender"`
	Timestamp time.Time           `json:"timestamp"`
	Chart     *engine.ChartConfig `json:"chart,omitempty"`
	Notice    string              `json:"notice,omitempty"`
	Warnings  []string            `json:"warnings,omitempty"`
}

func (s *Server) toChatItem(m descriptor.Message) chatItem {
	item := chatItem{Text: m.Text, Sender: m.Sender, Timestamp: m.Timestamp}
	if !m.HasVisualization() {
		return item
	}
	result := m.Resolve(s.cfg.EngineOptions...)
	switch result.Type {
	case "chart":
		item.Chart = result.ChartConfig
		item.Warnings = result.Warnings
	case "notice":
		item.Notice = result.Notice
		s.log.Warn("chart placeholder", zap.Error(result.Err))
	}
	return item
}

type errorBody struct {
	Error  string `json:"error"`
	Notice string `json:"notice,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleRender: POST /api/render?format=png|svg|json with a visualization
// descriptor as the body.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := render.FormatPNG
	if raw := strings.TrimSpace(r.URL.Query().Get("format")); raw != "" {
		f, err := render.ParseFormat(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		format = f
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDescriptorBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: err.Error()})
		return
	}

	key := cacheKey(body, format)
	if out, ok := s.cache.get(key); ok {
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Type", format.ContentType())
		_, _ = w.Write(out)
		return
	}

	desc, err := descriptor.Parse(body)
	var result *engine.Result
	if err != nil {
		result = &engine.Result{Type: "notice", Notice: engine.NoticeFor(err), Err: err}
	} else {
		result = engine.Execute(desc, s.cfg.EngineOptions...)
	}

	out, err := render.Render(result, format, s.cfg.Render)
	if errors.Is(err, render.ErrNoChart) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Notice: result.Notice})
		return
	}
	if err != nil {
		s.log.Error("render failed", zap.String("format", string(format)), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}

	s.cache.add(key, out)
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Type", format.ContentType())
	_, _ = w.Write(out)
}

// handleHistory: GET /api/history returns the current chat with resolved charts.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !s.chatEnabled() {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "chat backend not configured"})
		return
	}
	frame, err := s.historyFrame(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chatId": frame.ChatID, "messages": frame.Messages})
}
