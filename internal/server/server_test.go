package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/dharsanguruparan/JobSift/internal/analysis"
	"github.com/dharsanguruparan/JobSift/internal/config"
	"github.com/dharsanguruparan/JobSift/internal/export"
	"github.com/dharsanguruparan/JobSift/internal/notify"
	"github.com/dharsanguruparan/JobSift/internal/records"
	"github.com/dharsanguruparan/JobSift/internal/upload"
	"github.com/dharsanguruparan/JobSift/internal/view"
)

type fakeUploader struct{}

func (fakeUploader) Upload(_ context.Context, objectKey string, r io.Reader, _ int64, _ string, _ bool) (string, error) {
	io.Copy(io.Discard, r)
	return "http://storage/" + objectKey, nil
}

type fakePresigner struct{}

func (fakePresigner) PresignURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "http://storage/signed/" + objectKey, nil
}

type fakeExtractor struct{}

func (fakeExtractor) Extract(_ context.Context, url, _ string) (string, error) {
	return "Senior Backend Engineer role at Acme, Go and SQL required.", nil
}

type fakeLLM struct {
	response string
}

func (f *fakeLLM) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.response}}}, nil
}

func (f *fakeLLM) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return f.response, nil
}

func newTestServer(t *testing.T) (*Server, *records.Store) {
	t.Helper()
	cfg := &config.Config{
		Address:      ":0",
		MaxFileSize:  1 << 20,
		SignedURLTTL: time.Minute,
	}
	store := records.NewStore()
	hub := notify.NewHub(32, nil)
	viewctl := view.NewController()
	analyzer := analysis.NewAnalyzer(&fakeLLM{response: `{"job_title":"Backend Engineer","company_name":"Acme"}`}, "")
	orch := analysis.NewOrchestrator(store, fakeExtractor{}, analyzer, hub, viewctl, nil)
	coord := upload.NewCoordinator(store, fakeUploader{}, hub, cfg.MaxFileSize)
	return New(cfg, store, coord, orch, fakePresigner{}, viewctl, hub, nil), store
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, contentType := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		h.Set("Content-Type", contentType)
		part, err := writer.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write([]byte("content of " + name))
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestUploadMixedBatch(t *testing.T) {
	srv, store := newTestServer(t)
	handler := srv.Handler()

	body, ct := multipartBody(t, map[string]string{
		"jd.pdf":    "application/pdf",
		"photo.png": "image/png",
	})
	w := doRequest(t, handler, http.MethodPost, "/records", body, ct)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Accepted int `json:"accepted"`
		Offered  int `json:"offered"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Accepted != 1 || resp.Offered != 2 {
		t.Fatalf("expected 1 of 2 accepted, got %+v", resp)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 tracked record, got %d", store.Len())
	}
}

func TestUploadAllRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	body, ct := multipartBody(t, map[string]string{"photo.png": "image/png"})
	w := doRequest(t, srv.Handler(), http.MethodPost, "/records", body, ct)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for all-rejected batch, got %d", w.Code)
	}
}

func TestAnalyzeAndExportFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	// Export before any analysis refuses.
	w := doRequest(t, handler, http.MethodGet, "/export", nil, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 before analysis, got %d", w.Code)
	}

	// Analyze with nothing uploaded refuses too.
	w = doRequest(t, handler, http.MethodPost, "/analyze", nil, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for empty set, got %d", w.Code)
	}

	body, ct := multipartBody(t, map[string]string{"jd.pdf": "application/pdf"})
	if w := doRequest(t, handler, http.MethodPost, "/records", body, ct); w.Code != http.StatusAccepted {
		t.Fatalf("upload failed: %d %s", w.Code, w.Body.String())
	}

	w = doRequest(t, handler, http.MethodPost, "/analyze", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("analyze failed: %d %s", w.Code, w.Body.String())
	}
	var summary analysis.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("parse summary: %v", err)
	}
	if summary.Analyzed != 1 || summary.Errored != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	// The view follows the run automatically.
	w = doRequest(t, handler, http.MethodGet, "/view", nil, "")
	var viewResp map[string]string
	json.Unmarshal(w.Body.Bytes(), &viewResp)
	if viewResp["mode"] != "results" {
		t.Fatalf("expected results view after analysis, got %s", viewResp["mode"])
	}

	w = doRequest(t, handler, http.MethodGet, "/export?format=json", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("export failed: %d %s", w.Code, w.Body.String())
	}
	disposition := w.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "job-analysis-results-") || !strings.Contains(disposition, ".json") {
		t.Fatalf("unexpected disposition: %s", disposition)
	}
	var rows []map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("export body does not parse: %v", err)
	}
	if len(rows) != 1 || len(rows[0]) != len(export.Columns) {
		t.Fatalf("expected 1 row with %d keys, got %d rows", len(export.Columns), len(rows))
	}
	if rows[0]["job_title"] != "Backend Engineer" {
		t.Fatalf("unexpected exported value: %v", rows[0])
	}
}

func TestResultsFilter(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	body, ct := multipartBody(t, map[string]string{"jd.pdf": "application/pdf"})
	doRequest(t, handler, http.MethodPost, "/records", body, ct)
	doRequest(t, handler, http.MethodPost, "/analyze", nil, "")

	setSearch := func(term string) {
		payload, _ := json.Marshal(map[string]string{"search": term})
		doRequest(t, handler, http.MethodPost, "/view", bytes.NewReader(payload), "application/json")
	}

	var resp struct {
		Count int `json:"count"`
	}
	setSearch("ACME")
	w := doRequest(t, handler, http.MethodGet, "/results", nil, "")
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Count != 1 {
		t.Fatalf("expected the row to match its company, got %d", resp.Count)
	}

	setSearch("no such company")
	w = doRequest(t, handler, http.MethodGet, "/results", nil, "")
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Count != 0 {
		t.Fatalf("expected no matches, got %d", resp.Count)
	}
}

func TestRecordRoutes(t *testing.T) {
	srv, store := newTestServer(t)
	handler := srv.Handler()

	body, ct := multipartBody(t, map[string]string{"jd.pdf": "application/pdf"})
	doRequest(t, handler, http.MethodPost, "/records", body, ct)
	recs := store.List()
	if len(recs) != 1 {
		t.Fatalf("setup: expected 1 record")
	}
	id := recs[0].ID

	w := doRequest(t, handler, http.MethodGet, "/records/"+id, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get record: %d", w.Code)
	}

	w = doRequest(t, handler, http.MethodGet, "/records/"+id+"/share-url", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("share url: %d", w.Code)
	}
	var share map[string]string
	json.Unmarshal(w.Body.Bytes(), &share)
	if !strings.HasPrefix(share["url"], "http://storage/signed/") {
		t.Fatalf("unexpected share url: %s", share["url"])
	}

	w = doRequest(t, handler, http.MethodDelete, "/records/"+id, nil, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete record: %d", w.Code)
	}
	if store.Len() != 0 {
		t.Fatalf("record not removed")
	}

	w = doRequest(t, handler, http.MethodGet, "/records/missing", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown record, got %d", w.Code)
	}
}
