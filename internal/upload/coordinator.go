// Package upload validates and stores incoming document batches, creating
// one tracked record per file that makes it into storage.
package upload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dharsanguruparan/JobSift/internal/extract"
	"github.com/dharsanguruparan/JobSift/internal/faults"
	"github.com/dharsanguruparan/JobSift/internal/model"
	"github.com/dharsanguruparan/JobSift/internal/notify"
	"github.com/dharsanguruparan/JobSift/internal/records"
)

// allowedTypes is the fixed media-type allow-list. Filtering is silent per
// file; only an entirely rejected batch surfaces a warning.
var allowedTypes = map[string]bool{
	extract.MediaTypePDF:  true,
	extract.MediaTypeDoc:  true,
	extract.MediaTypeDocx: true,
}

// CandidateFile is one file offered for upload, with its declared media
// type. The content reader is consumed during the upload.
type CandidateFile struct {
	Name      string
	MediaType string
	Size      int64
	Content   io.Reader
}

// Uploader is the storage collaborator the coordinator pushes documents to.
type Uploader interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string, overwrite bool) (string, error)
}

// Coordinator filters, uploads, and tracks document batches. Uploads run
// sequentially; one file's failure never aborts the rest of the batch.
type Coordinator struct {
	store       *records.Store
	storage     Uploader
	hub         *notify.Hub
	maxFileSize int64
}

// NewCoordinator constructs a Coordinator.
func NewCoordinator(store *records.Store, storage Uploader, hub *notify.Hub, maxFileSize int64) *Coordinator {
	return &Coordinator{
		store:       store,
		storage:     storage,
		hub:         hub,
		maxFileSize: maxFileSize,
	}
}

// UploadBatch processes one batch of candidate files and returns the records
// created for the files that reached storage. A batch with no allow-listed
// files is rejected with a single batch-level ValidationError.
func (c *Coordinator) UploadBatch(ctx context.Context, files []CandidateFile) ([]model.TrackedRecord, error) {
	accepted := make([]CandidateFile, 0, len(files))
	for _, f := range files {
		if allowedTypes[f.MediaType] {
			accepted = append(accepted, f)
		}
	}
	if len(accepted) == 0 {
		msg := "no supported documents in batch; accepted types are PDF, DOC, and DOCX"
		c.hub.Publish(notify.LevelWarning, msg, "")
		return nil, &faults.ValidationError{Reason: msg}
	}

	created := make([]model.TrackedRecord, 0, len(accepted))
	for _, f := range accepted {
		rec, err := c.uploadOne(ctx, f)
		if err != nil {
			c.hub.Publish(notify.LevelError, err.Error(), "")
			continue
		}
		c.store.Append(rec)
		created = append(created, rec)
		c.hub.Publish(notify.LevelInfo, fmt.Sprintf("uploaded %s", rec.FileName), rec.ID)
	}
	return created, nil
}

func (c *Coordinator) uploadOne(ctx context.Context, f CandidateFile) (model.TrackedRecord, error) {
	if strings.TrimSpace(f.Name) == "" {
		return model.TrackedRecord{}, &faults.UploadError{FileName: f.Name, Err: fmt.Errorf("missing file name")}
	}
	if c.maxFileSize > 0 && f.Size > c.maxFileSize {
		return model.TrackedRecord{}, &faults.UploadError{FileName: f.Name, Err: fmt.Errorf("file exceeds limit (%d bytes)", c.maxFileSize)}
	}
	id := uuid.NewString()
	objectKey := fmt.Sprintf("uploads/%s/%s", id, filepath.Base(f.Name))
	url, err := c.storage.Upload(ctx, objectKey, f.Content, f.Size, f.MediaType, false)
	if err != nil {
		return model.TrackedRecord{}, &faults.UploadError{FileName: f.Name, Err: err}
	}
	return model.TrackedRecord{
		ID:         id,
		FileName:   f.Name,
		StorageURL: url,
		ObjectKey:  objectKey,
		MediaType:  f.MediaType,
		ByteSize:   f.Size,
		Status:     model.StatusUploaded,
		UploadedAt: time.Now().UTC(),
	}, nil
}
