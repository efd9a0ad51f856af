// Package model contains the struct definitions shared across packages.
package model

import (
	"time"
)

// RecordStatus describes the analysis lifecycle of an uploaded document.
// Transitions only move forward: uploaded -> processing -> analyzed|errored.
// A full re-analysis run re-enters processing for every record; there is no
// per-record retry.
type RecordStatus string

const (
	StatusUploaded   RecordStatus = "uploaded"
	StatusProcessing RecordStatus = "processing"
	StatusAnalyzed   RecordStatus = "analyzed"
	StatusErrored    RecordStatus = "errored"
)

// TrackedRecord represents one uploaded job-description document through its
// lifecycle. The status determines which optional fields are populated:
// AnalyzedAt, ExtractedText, and Payload are only set on analyzed records,
// ErrorMessage only on errored ones.
type TrackedRecord struct {
	ID         string `json:"id"`
	FileName   string `json:"fileName"`
	// StorageURL is set once the upload succeeds and never changes afterwards.
	StorageURL string `json:"storageUrl,omitempty"`
	// ObjectKey is the bucket-internal key; omitted from JSON output.
	ObjectKey  string       `json:"-"`
	MediaType  string       `json:"mediaType"`
	ByteSize   int64        `json:"byteSize"`
	Status     RecordStatus `json:"status"`
	UploadedAt time.Time    `json:"uploadedAt"`
	AnalyzedAt *time.Time   `json:"analyzedAt,omitempty"`
	// ExtractedText can be large, so it is kept out of list responses.
	ExtractedText string  `json:"-"`
	Payload       Payload `json:"payload,omitempty"`
	ErrorMessage  string  `json:"errorMessage,omitempty"`
}

// Analyzed reports whether the record carries a completed analysis.
func (r *TrackedRecord) Analyzed() bool {
	return r.Status == StatusAnalyzed
}
