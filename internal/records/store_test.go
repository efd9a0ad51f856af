package records

import (
	"errors"
	"testing"

	"github.com/dharsanguruparan/JobSift/internal/model"
)

func newRecord(id, name string) model.TrackedRecord {
	return model.TrackedRecord{
		ID:         id,
		FileName:   name,
		StorageURL: "http://storage/" + id,
		MediaType:  "application/pdf",
		ByteSize:   1024,
		Status:     model.StatusUploaded,
	}
}

func mustPayload(t *testing.T, raw string) model.Payload {
	t.Helper()
	p, err := model.ParsePayload([]byte(raw))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	return p
}

func TestAppendAndListOrder(t *testing.T) {
	s := NewStore()
	s.Append(newRecord("a", "first.pdf"))
	s.Append(newRecord("b", "second.pdf"))
	s.Append(newRecord("c", "third.pdf"))

	list := s.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}
	for i, want := range []string{"a", "b", "c"} {
		if list[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, list[i].ID)
		}
	}
}

func TestListReturnsCopies(t *testing.T) {
	s := NewStore()
	s.Append(newRecord("a", "doc.pdf"))

	list := s.List()
	list[0].FileName = "mutated.pdf"

	got, err := s.Get("a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FileName != "doc.pdf" {
		t.Fatalf("store mutated through returned copy: %s", got.FileName)
	}
}

func TestBeginAnalysisEmpty(t *testing.T) {
	s := NewStore()
	if _, err := s.BeginAnalysis(); !errors.Is(err, ErrNothingToAnalyze) {
		t.Fatalf("expected ErrNothingToAnalyze, got %v", err)
	}
}

func TestBeginAnalysisMarksProcessingAndClears(t *testing.T) {
	s := NewStore()
	s.Append(newRecord("a", "doc.pdf"))
	// Simulate a previous run so the record carries analysis fields.
	s.ApplyOutcomes([]Outcome{{RecordID: "a", Text: "text", Payload: mustPayload(t, `{"job_title":"X"}`)}})

	snapshot, err := s.BeginAnalysis()
	if err != nil {
		t.Fatalf("begin analysis: %v", err)
	}
	if len(snapshot) != 1 {
		t.Fatalf("expected 1 snapshot record, got %d", len(snapshot))
	}
	rec, _ := s.Get("a")
	if rec.Status != model.StatusProcessing {
		t.Fatalf("expected processing, got %s", rec.Status)
	}
	if rec.AnalyzedAt != nil || !rec.Payload.IsZero() || rec.ExtractedText != "" {
		t.Fatalf("processing record still carries analysis fields: %+v", rec)
	}
}

func TestApplyOutcomesFinalStates(t *testing.T) {
	s := NewStore()
	s.Append(newRecord("ok", "good.pdf"))
	s.Append(newRecord("bad", "broken.pdf"))
	if _, err := s.BeginAnalysis(); err != nil {
		t.Fatalf("begin analysis: %v", err)
	}

	s.ApplyOutcomes([]Outcome{
		{RecordID: "ok", Text: "extracted", Payload: mustPayload(t, `{"job_title":"Engineer"}`)},
		{RecordID: "bad", Err: errors.New("extraction failed")},
	})

	ok, _ := s.Get("ok")
	if ok.Status != model.StatusAnalyzed {
		t.Fatalf("expected analyzed, got %s", ok.Status)
	}
	if ok.AnalyzedAt == nil || ok.Payload.IsZero() || ok.ExtractedText != "extracted" {
		t.Fatalf("analyzed record missing analysis fields: %+v", ok)
	}

	bad, _ := s.Get("bad")
	if bad.Status != model.StatusErrored {
		t.Fatalf("expected errored, got %s", bad.Status)
	}
	if bad.AnalyzedAt != nil || !bad.Payload.IsZero() || bad.ExtractedText != "" {
		t.Fatalf("errored record carries analysis fields: %+v", bad)
	}
	if bad.ErrorMessage == "" {
		t.Fatalf("errored record missing message")
	}

	if got := len(s.Analyzed()); got != 1 {
		t.Fatalf("expected 1 analyzed record, got %d", got)
	}
}

func TestApplyOutcomesDropsDeleted(t *testing.T) {
	s := NewStore()
	s.Append(newRecord("a", "doc.pdf"))
	s.Append(newRecord("b", "other.pdf"))
	if _, err := s.BeginAnalysis(); err != nil {
		t.Fatalf("begin analysis: %v", err)
	}
	// The user deletes a record while analysis is still in flight.
	if err := s.Delete("a"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	s.ApplyOutcomes([]Outcome{
		{RecordID: "a", Text: "late", Payload: mustPayload(t, `{}`)},
		{RecordID: "b", Text: "fine", Payload: mustPayload(t, `{}`)},
	})

	if _, err := s.Get("a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted record resurrected")
	}
	b, _ := s.Get("b")
	if b.Status != model.StatusAnalyzed {
		t.Fatalf("surviving record not analyzed: %s", b.Status)
	}
}

func TestDeleteUnknown(t *testing.T) {
	s := NewStore()
	if err := s.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
