package model

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Payload wraps the analyzer's structured output without assuming a schema.
// The upstream model owns the shape of the JSON object; we only require that
// it is a JSON object and preserve it byte-for-byte otherwise.
type Payload struct {
	raw json.RawMessage
}

// ParsePayload validates that data is a JSON object and wraps it. The raw
// bytes are compacted so repeated encodings are byte-identical.
func ParsePayload(data []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Payload{}, errors.New("payload is not a JSON object")
	}
	var probe map[string]any
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return Payload{}, err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return Payload{}, err
	}
	return Payload{raw: json.RawMessage(buf.Bytes())}, nil
}

// IsZero reports whether no payload has been set.
func (p Payload) IsZero() bool {
	return len(p.raw) == 0
}

// Fields decodes the payload into a fresh map for per-key lookups. Callers
// own the returned map.
func (p Payload) Fields() map[string]any {
	if p.IsZero() {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(p.raw, &out); err != nil {
		return nil
	}
	return out
}

// MarshalJSON emits the wrapped object verbatim, or null when unset.
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.IsZero() {
		return []byte("null"), nil
	}
	return p.raw, nil
}

// UnmarshalJSON accepts either null or a JSON object.
func (p *Payload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		p.raw = nil
		return nil
	}
	parsed, err := ParsePayload(trimmed)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
