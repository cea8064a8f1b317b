package chatapi

import (
	"time"

	"github.com/spektr-org/vizchat/descriptor"
)

// ============================================================================
// RESPONSE PARSER: backend payloads → descriptor.Message
// ============================================================================

func checkStatus(endpoint, status, message string) error {
	if status == "success" {
		return nil
	}
	return &APIError{Endpoint: endpoint, Status: status, Message: message}
}

// parseHistory converts history entries. Visualizations stay raw; they are
// resolved only when a message is rendered.
func parseHistory(entries []historyEntry) []descriptor.Message {
	msgs := make([]descriptor.Message, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, descriptor.Message{
			Text:          e.Content,
			Sender:        descriptor.ParseSender(e.Role),
			Timestamp:     descriptor.ParseTimestamp(e.Timestamp),
			Visualization: emptyAsNil(e.Visualization),
		})
	}
	return msgs
}

func parseReply(resp chatResponse, now time.Time) descriptor.Message {
	return descriptor.Message{
		Text:          resp.Response,
		Sender:        descriptor.SenderAssistant,
		Timestamp:     now,
		Visualization: emptyAsNil(resp.Visualization),
	}
}

func emptyAsNil(raw []byte) []byte {
	if descriptor.IsEmpty(raw) {
		return nil
	}
	return raw
}
