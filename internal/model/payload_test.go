package model

import (
	"encoding/json"
	"testing"
)

func TestParsePayloadObject(t *testing.T) {
	p, err := ParsePayload([]byte(`{"job_title": "Engineer", "salary_min": 90000}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	fields := p.Fields()
	if fields["job_title"] != "Engineer" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestParsePayloadRejectsNonObject(t *testing.T) {
	for _, raw := range []string{`[]`, `"text"`, `42`, ``, `not json`} {
		if _, err := ParsePayload([]byte(raw)); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	p, err := ParsePayload([]byte(`{"a":{"nested":[1,2,3]},"b":null}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Payload
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	again, err := json.Marshal(back)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if string(data) != string(again) {
		t.Fatalf("payload not stable across round trip: %s vs %s", data, again)
	}
}

func TestZeroPayload(t *testing.T) {
	var p Payload
	if !p.IsZero() {
		t.Fatalf("zero payload must report IsZero")
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "null" {
		t.Fatalf("zero payload must marshal to null, got %s", data)
	}
	if p.Fields() != nil {
		t.Fatalf("zero payload must have nil fields")
	}
}
