// Package faults defines the error taxonomy shared by the upload, analysis,
// and export paths. Every failure resolves to a user-visible notification
// plus a well-defined record state; none of these are fatal.
package faults

import "fmt"

// ValidationError reports input the user can correct: a batch with no
// supported files, an empty set to analyze, or an empty analyzed set to
// export. The offending operation is aborted, nothing else is affected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// UploadError wraps a storage failure for a single file. The file's record
// is never created and the rest of the batch continues.
type UploadError struct {
	FileName string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.FileName, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// AnalysisError wraps an extraction or inference failure for a single
// record, including malformed inference output. The record transitions to
// errored; sibling records are unaffected.
type AnalysisError struct {
	RecordID string
	Stage    string
	Err      error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.RecordID, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
