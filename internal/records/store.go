// Package records holds the in-memory working set of tracked records. It is
// the single state container for the session: uploads append to it, the
// orchestrator mutates it through one merge point, and the user deletes from
// it. Nothing is removed automatically.
package records

import (
	"errors"
	"sync"
	"time"

	"github.com/dharsanguruparan/JobSift/internal/model"
)

var (
	// ErrNotFound is returned for lookups of unknown record ids.
	ErrNotFound = errors.New("record not found")
	// ErrNothingToAnalyze is returned when an analysis run starts on an
	// empty working set.
	ErrNothingToAnalyze = errors.New("nothing to analyze")
)

// Outcome is the result of one per-record analysis task. Exactly one of
// (Text, Payload) or Err is meaningful.
type Outcome struct {
	RecordID string
	Text     string
	Payload  model.Payload
	Err      error
}

// Store is a mutex-guarded, insertion-ordered record set. All accessors
// return copies, never internal pointers, so callers cannot mutate state
// outside the defined transitions.
type Store struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*model.TrackedRecord
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		byID: make(map[string]*model.TrackedRecord),
	}
}

// Append adds a freshly uploaded record to the working set.
func (s *Store) Append(rec model.TrackedRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = time.Now().UTC()
	}
	if _, ok := s.byID[rec.ID]; !ok {
		s.order = append(s.order, rec.ID)
	}
	stored := rec
	s.byID[rec.ID] = &stored
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (model.TrackedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		return model.TrackedRecord{}, ErrNotFound
	}
	return *rec, nil
}

// List returns a snapshot of the working set in insertion order.
func (s *Store) List() []model.TrackedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.TrackedRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out
}

// Len reports the number of tracked records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Delete removes a record from the working set. Only the user triggers this.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// BeginAnalysis atomically marks every record processing and returns a
// snapshot for the orchestrator to fan out over. Analysis fields from a
// previous run are cleared so a processing record never carries them.
func (s *Store) BeginAnalysis() ([]model.TrackedRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 {
		return nil, ErrNothingToAnalyze
	}
	snapshot := make([]model.TrackedRecord, 0, len(s.order))
	for _, id := range s.order {
		rec := s.byID[id]
		rec.Status = model.StatusProcessing
		rec.AnalyzedAt = nil
		rec.ExtractedText = ""
		rec.Payload = model.Payload{}
		rec.ErrorMessage = ""
		snapshot = append(snapshot, *rec)
	}
	return snapshot, nil
}

// ApplyOutcomes merges all per-task outcomes in one locked pass after every
// task has settled. No record is finalized while siblings are still in
// flight. Outcomes for records deleted mid-run are dropped.
func (s *Store) ApplyOutcomes(outcomes []Outcome) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, out := range outcomes {
		rec, ok := s.byID[out.RecordID]
		if !ok {
			continue
		}
		if out.Err != nil {
			rec.Status = model.StatusErrored
			rec.ErrorMessage = out.Err.Error()
			rec.AnalyzedAt = nil
			rec.ExtractedText = ""
			rec.Payload = model.Payload{}
			continue
		}
		at := now
		rec.Status = model.StatusAnalyzed
		rec.AnalyzedAt = &at
		rec.ExtractedText = out.Text
		rec.Payload = out.Payload
		rec.ErrorMessage = ""
	}
}

// Analyzed returns the analyzed subset in insertion order.
func (s *Store) Analyzed() []model.TrackedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.TrackedRecord, 0, len(s.order))
	for _, id := range s.order {
		if rec := s.byID[id]; rec.Status == model.StatusAnalyzed {
			out = append(out, *rec)
		}
	}
	return out
}
