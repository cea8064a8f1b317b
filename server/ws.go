package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type wsInbound struct {
	Type string `json:"type"` // "message" | "reset"
	Text string `json:"text,omitempty"`
}

type wsOutbound struct {
	Type     string     `json:"type"` // "history" | "reply" | "reset" | "error"
	ChatID   string     `json:"chatId,omitempty"`
	Messages []chatItem `json:"messages,omitempty"`
	Reply    *chatItem  `json:"reply,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// wsConn is the part of *websocket.Conn the relay uses.
type wsConn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// handleWS: GET /ws. Sends the history on connect, then relays messages.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.chatEnabled() {
		http.Error(w, "chat backend not configured", http.StatusServiceUnavailable)
		return
	}
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.relayWS(r.Context(), conn)
}

// relayWS owns conn until either side fails. A failed write closes the
// connection so the blocked read returns too.
func (s *Server) relayWS(parent context.Context, conn wsConn) {
	defer conn.Close()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		s.log.Warn("ws set read deadline failed", zap.Error(err))
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writeCh := make(chan wsOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer cancel()
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()

		fail := func(err error) {
			if ctx.Err() == nil {
				s.log.Debug("ws write failed", zap.Error(err))
				_ = conn.Close()
			}
		}
		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					fail(err)
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					fail(err)
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					fail(err)
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					fail(err)
					return
				}
			}
		}
	}()

	stop := func() {
		cancel()
		<-writerDone
	}

	if out, err := s.historyFrame(ctx); err != nil {
		pushWS(ctx, writeCh, wsOutbound{Type: "error", Message: err.Error()})
	} else {
		pushWS(ctx, writeCh, out)
	}

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			stop()
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "message":
			text := strings.TrimSpace(in.Text)
			if text == "" {
				pushWS(ctx, writeCh, wsOutbound{Type: "error", Message: "text is required"})
				continue
			}
			pushWS(ctx, writeCh, s.replyFrame(ctx, text))
		case "reset":
			st, err := s.resetChat(ctx)
			if err != nil {
				pushWS(ctx, writeCh, wsOutbound{Type: "error", Message: err.Error()})
				continue
			}
			pushWS(ctx, writeCh, wsOutbound{Type: "reset", ChatID: st.ChatID})
		case "":
			pushWS(ctx, writeCh, wsOutbound{Type: "error", Message: "type is required"})
		default:
			pushWS(ctx, writeCh, wsOutbound{Type: "error", Message: "unknown type " + in.Type})
		}
	}
}

func (s *Server) historyFrame(ctx context.Context) (wsOutbound, error) {
	st, err := s.chatState(ctx)
	if err != nil {
		return wsOutbound{}, err
	}
	messages, err := s.api.History(ctx, st.ChatID)
	if err != nil {
		return wsOutbound{}, err
	}
	items := make([]chatItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, s.toChatItem(m))
	}
	return wsOutbound{Type: "history", ChatID: st.ChatID, Messages: items}, nil
}

func (s *Server) replyFrame(ctx context.Context, text string) wsOutbound {
	st, err := s.chatState(ctx)
	if err != nil {
		return wsOutbound{Type: "error", Message: err.Error()}
	}
	reply, err := s.api.Send(ctx, st.ChatID, text)
	if err != nil {
		s.log.Warn("send failed", zap.String("chat_id", st.ChatID), zap.Error(err))
		return wsOutbound{Type: "error", Message: err.Error()}
	}
	item := s.toChatItem(reply)
	return wsOutbound{Type: "reply", ChatID: st.ChatID, Reply: &item}
}

func pushWS(ctx context.Context, ch chan<- wsOutbound, out wsOutbound) {
	select {
	case <-ctx.Done():
	case ch <- out:
	}
}
