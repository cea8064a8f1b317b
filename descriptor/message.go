package descriptor

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/spektr-org/vizchat/engine"
)

// Sender is who wrote a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ParseSender normalizes backend role names. Live replies are labelled "bot"
// while history entries use "assistant"; both are the assistant.
func ParseSender(role string) Sender {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "assistant", "bot", "model", "ai":
		return SenderAssistant
	default:
		return SenderUser
	}
}

// Message is one chat turn.
type Message struct {
	Text          string          `json:"text"`
	Sender        Sender          `json:"sender"`
	Timestamp     time.Time       `json:"timestamp"`
	Visualization json.RawMessage `json:"visualization,omitempty"`
}

// HasVisualization reports whether the message carries a non-empty descriptor.
func (m Message) HasVisualization() bool {
	return m.Sender == SenderAssistant && !IsEmpty(m.Visualization)
}

// Descriptor decodes the attached visualization, or returns nil when there is none.
func (m Message) Descriptor() (*engine.Descriptor, error) {
	if !m.HasVisualization() {
		return nil, nil
	}
	return Parse(m.Visualization)
}

// Resolve runs the message's visualization through the engine. A message
// without a chart yields a Result of type "none".
func (m Message) Resolve(opts ...engine.Option) *engine.Result {
	desc, err := m.Descriptor()
	if err != nil {
		return &engine.Result{Type: "notice", Notice: engine.NoticeFor(err), Err: err}
	}
	return engine.Execute(desc, opts...)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC1123,
}

// ParseTimestamp reads the backend's timestamp formats. Unparseable input
// yields the zero time.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
