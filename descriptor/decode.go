package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spektr-org/vizchat/engine"
)

// ============================================================================
// ORDERED RECORD DECODING
// ============================================================================
// Key resolution falls back to "first field in record order", so objects are
// read token by token instead of through map[string]any.
// ============================================================================

// decodeRecords reads the descriptor's data array.
func decodeRecords(data json.RawMessage) ([]engine.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, engine.NewMalformedError("data is missing")
	}
	if data[0] != '[' {
		return nil, engine.NewMalformedError("data is not a list")
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, engine.NewMalformedError("data is not valid JSON: %v", err)
	}
	if len(elems) == 0 {
		return nil, engine.NewMalformedError("data is empty")
	}

	records := make([]engine.Record, 0, len(elems))
	for i, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			if i == 0 {
				return nil, engine.NewMalformedError("first record is not an object")
			}
			records = append(records, engine.Record{})
			continue
		}
		rec, err := decodeObject(elem)
		if err != nil {
			return nil, engine.NewMalformedError("record %d: %v", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeObject reads one JSON object, keeping key order. A repeated key keeps
// its first position and its last value.
func decodeObject(raw json.RawMessage) (engine.Record, error) {
	var rec engine.Record
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // '{'
		return rec, err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return rec, err
		}
		key, ok := tok.(string)
		if !ok {
			return rec, fmt.Errorf("unexpected token %v", tok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return rec, fmt.Errorf("field %q: %w", key, err)
		}
		v, err := decodeValue(key, val)
		if err != nil {
			return rec, fmt.Errorf("field %q: %w", key, err)
		}
		rec.Set(key, v)
	}
	return rec, nil
}

func decodeValue(key string, raw json.RawMessage) (engine.Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return engine.Null(), nil
	}
	switch raw[0] {
	case 'n':
		return engine.Null(), nil
	case 't':
		return engine.Bool(true), nil
	case 'f':
		return engine.Bool(false), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return engine.Value{}, err
		}
		return engine.String(s), nil
	case '[':
		if key == engine.GroupListField {
			if groups, ok := decodeGroups(raw); ok {
				return engine.Groups(groups), nil
			}
		}
		return engine.Composite(string(raw)), nil
	case '{':
		return engine.Composite(string(raw)), nil
	default:
		lit := string(raw)
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return engine.Value{}, fmt.Errorf("invalid number %s", lit)
		}
		return engine.NumberText(f, lit), nil
	}
}

// groupEntry accepts both {group, y} and {group, value}.
type groupEntry struct {
	Group string          `json:"group"`
	Y     json.RawMessage `json:"y"`
	Value json.RawMessage `json:"value"`
}

// decodeGroups reads the nested group list. A null y falls through to value;
// an entry with neither decodes to Null, which the normalizer rejects as a
// missing group value.
func decodeGroups(raw json.RawMessage) ([]engine.GroupEntry, bool) {
	var entries []groupEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	out := make([]engine.GroupEntry, 0, len(entries))
	for _, e := range entries {
		val := e.Y
		if isAbsent(val) {
			val = e.Value
		}
		if isAbsent(val) {
			out = append(out, engine.GroupEntry{Group: e.Group, Value: engine.Null()})
			continue
		}
		v, err := decodeValue("", val)
		if err != nil {
			return nil, false
		}
		out = append(out, engine.GroupEntry{Group: e.Group, Value: v})
	}
	return out, true
}

func isAbsent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
