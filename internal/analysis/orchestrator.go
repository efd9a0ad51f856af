package analysis

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dharsanguruparan/JobSift/internal/extract"
	"github.com/dharsanguruparan/JobSift/internal/faults"
	"github.com/dharsanguruparan/JobSift/internal/model"
	"github.com/dharsanguruparan/JobSift/internal/notify"
	"github.com/dharsanguruparan/JobSift/internal/records"
	"github.com/dharsanguruparan/JobSift/internal/view"
)

// Summary reports the aggregate outcome of one analysis run.
type Summary struct {
	Analyzed int `json:"analyzed"`
	Errored  int `json:"errored"`
}

// Orchestrator fans one analysis task out per tracked record and merges all
// outcomes back into the store in a single pass once every task settles.
type Orchestrator struct {
	store     *records.Store
	extractor extract.Extractor
	analyzer  *Analyzer
	hub       *notify.Hub
	view      *view.Controller
	log       *zap.Logger
}

// NewOrchestrator constructs an Orchestrator. The logger may be nil in tests.
func NewOrchestrator(store *records.Store, extractor extract.Extractor, analyzer *Analyzer, hub *notify.Hub, viewctl *view.Controller, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		store:     store,
		extractor: extractor,
		analyzer:  analyzer,
		hub:       hub,
		view:      viewctl,
		log:       log,
	}
}

// Run analyzes the full working set: every record is marked processing, one
// task per record runs extraction then inference against the record's
// original storage location, and only after all tasks settle are the
// outcomes applied. Individual failures are terminal per record and do not
// short-circuit siblings. On completion the view switches to results.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	snapshot, err := o.store.BeginAnalysis()
	if err != nil {
		o.hub.Publish(notify.LevelWarning, "nothing to analyze; upload documents first", "")
		return Summary{}, &faults.ValidationError{Reason: err.Error()}
	}
	o.log.Info("analysis run started", zap.Int("records", len(snapshot)))

	outcomes := make([]records.Outcome, len(snapshot))
	var wg sync.WaitGroup
	for i, rec := range snapshot {
		wg.Add(1)
		go func(i int, rec model.TrackedRecord) {
			defer wg.Done()
			outcomes[i] = o.analyzeOne(ctx, rec)
		}(i, rec)
	}
	wg.Wait()

	o.store.ApplyOutcomes(outcomes)

	var summary Summary
	for _, out := range outcomes {
		if out.Err != nil {
			summary.Errored++
		} else {
			summary.Analyzed++
		}
	}
	o.hub.Publish(notify.LevelInfo,
		fmt.Sprintf("analysis finished: %d analyzed, %d failed", summary.Analyzed, summary.Errored), "")
	o.log.Info("analysis run finished",
		zap.Int("analyzed", summary.Analyzed), zap.Int("errored", summary.Errored))
	o.view.ShowResults()
	return summary, nil
}

func (o *Orchestrator) analyzeOne(ctx context.Context, rec model.TrackedRecord) records.Outcome {
	text, err := o.extractor.Extract(ctx, rec.StorageURL, rec.MediaType)
	if err != nil {
		o.log.Warn("extraction failed", zap.String("record", rec.ID), zap.Error(err))
		return records.Outcome{
			RecordID: rec.ID,
			Err:      &faults.AnalysisError{RecordID: rec.ID, Stage: "extract", Err: err},
		}
	}
	payload, err := o.analyzer.Analyze(ctx, text)
	if err != nil {
		o.log.Warn("inference failed", zap.String("record", rec.ID), zap.Error(err))
		return records.Outcome{
			RecordID: rec.ID,
			Err:      &faults.AnalysisError{RecordID: rec.ID, Stage: "analyze", Err: err},
		}
	}
	return records.Outcome{RecordID: rec.ID, Text: text, Payload: payload}
}
