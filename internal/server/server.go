// Package server exposes the HTTP API for uploads, analysis runs, record
// visibility, and exports.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dharsanguruparan/JobSift/internal/analysis"
	"github.com/dharsanguruparan/JobSift/internal/config"
	"github.com/dharsanguruparan/JobSift/internal/export"
	"github.com/dharsanguruparan/JobSift/internal/faults"
	"github.com/dharsanguruparan/JobSift/internal/format"
	"github.com/dharsanguruparan/JobSift/internal/model"
	"github.com/dharsanguruparan/JobSift/internal/notify"
	"github.com/dharsanguruparan/JobSift/internal/records"
	"github.com/dharsanguruparan/JobSift/internal/upload"
	"github.com/dharsanguruparan/JobSift/internal/view"
)

// Presigner issues short-lived share links for stored documents.
type Presigner interface {
	PresignURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error)
}

// Server wires the coordinator, orchestrator, store, and view controller
// behind HTTP handlers.
type Server struct {
	cfg          *config.Config
	store        *records.Store
	coordinator  *upload.Coordinator
	orchestrator *analysis.Orchestrator
	presigner    Presigner
	viewctl      *view.Controller
	hub          *notify.Hub
	log          *zap.Logger
	server       *http.Server
	once         sync.Once
}

// New constructs a Server.
func New(cfg *config.Config, store *records.Store, coordinator *upload.Coordinator, orchestrator *analysis.Orchestrator, presigner Presigner, viewctl *view.Controller, hub *notify.Hub, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg:          cfg,
		store:        store,
		coordinator:  coordinator,
		orchestrator: orchestrator,
		presigner:    presigner,
		viewctl:      viewctl,
		hub:          hub,
		log:          log,
	}
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/records", s.handleRecords)
	mux.HandleFunc("/records/", s.handleRecordRoute)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/export", s.handleExport)
	mux.HandleFunc("/view", s.handleView)
	mux.HandleFunc("/results", s.handleResults)
	mux.HandleFunc("/notifications", s.handleNotifications)
	return corsMiddleware(s.loggingMiddleware(mux))
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.once.Do(func() {
		s.server = &http.Server{
			Addr:    s.cfg.Address,
			Handler: s.Handler(),
		}
	})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()
	s.log.Info("api listening", zap.String("address", s.cfg.Address))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleUpload(w, r)
	case http.MethodGet:
		s.handleList(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// recordView decorates a record with the human-readable labels the listing
// shows.
type recordView struct {
	model.TrackedRecord
	SizeLabel     string `json:"sizeLabel"`
	UploadedLabel string `json:"uploadedLabel"`
	AnalyzedLabel string `json:"analyzedLabel,omitempty"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs := s.store.List()
	out := make([]recordView, 0, len(recs))
	for _, rec := range recs {
		rv := recordView{
			TrackedRecord: rec,
			SizeLabel:     format.HumanSize(rec.ByteSize),
			UploadedLabel: format.HumanDate(rec.UploadedAt),
		}
		if rec.AnalyzedAt != nil {
			rv.AnalyzedLabel = format.HumanDate(*rec.AnalyzedAt)
		}
		out = append(out, rv)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"records": out,
		"count":   len(out),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFileSize*8)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "expecting multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		http.Error(w, "missing file part", http.StatusBadRequest)
		return
	}
	batch := make([]upload.CandidateFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, "failed to read upload", http.StatusBadRequest)
			return
		}
		opened = append(opened, f)
		batch = append(batch, upload.CandidateFile{
			Name:      fh.Filename,
			MediaType: declaredMediaType(fh),
			Size:      fh.Size,
			Content:   f,
		})
	}
	created, err := s.coordinator.UploadBatch(r.Context(), batch)
	if err != nil {
		var verr *faults.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]any{
		"created":  created,
		"accepted": len(created),
		"offered":  len(batch),
	})
}

func (s *Server) handleRecordRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/records/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]
	if len(parts) == 1 {
		s.handleRecord(w, r, id)
		return
	}
	if parts[1] == "share-url" {
		s.handleShareURL(w, r, id)
		return
	}
	http.NotFound(w, r)
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		rec, err := s.store.Get(id)
		if err != nil {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		respondJSON(w, http.StatusOK, rec)
	case http.MethodDelete:
		if err := s.store.Delete(id); err != nil {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		s.hub.Publish(notify.LevelInfo, "record deleted", id)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleShareURL(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rec, err := s.store.Get(id)
	if err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	url, err := s.presigner.PresignURL(r.Context(), rec.ObjectKey, s.cfg.SignedURLTTL)
	if err != nil {
		http.Error(w, "failed to generate url", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	summary, err := s.orchestrator.Run(r.Context())
	if err != nil {
		var verr *faults.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "analysis failed", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	exportFormat := r.URL.Query().Get("format")
	if exportFormat == "" {
		exportFormat = "csv"
	}
	recs := s.store.List()
	var (
		data        []byte
		err         error
		contentType string
	)
	switch exportFormat {
	case "csv":
		data, err = export.EncodeCSV(recs)
		contentType = "text/csv; charset=utf-8"
	case "json":
		data, err = export.EncodeJSON(recs)
		contentType = "application/json"
	default:
		http.Error(w, "unsupported format; use csv or json", http.StatusBadRequest)
		return
	}
	if err != nil {
		var verr *faults.ValidationError
		if errors.As(err, &verr) {
			s.hub.Publish(notify.LevelWarning, verr.Error(), "")
			http.Error(w, verr.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	name := export.FileName(time.Now().UTC(), exportFormat)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, map[string]string{
			"mode":   string(s.viewctl.Mode()),
			"search": s.viewctl.Search(),
		})
	case http.MethodPost:
		var req struct {
			Mode   *string `json:"mode"`
			Search *string `json:"search"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Mode != nil {
			switch view.Mode(*req.Mode) {
			case view.ModeListing:
				s.viewctl.Back()
			case view.ModeResults:
				s.viewctl.ShowResults()
			default:
				http.Error(w, "unknown view mode", http.StatusBadRequest)
				return
			}
		}
		if req.Search != nil {
			s.viewctl.SetSearch(*req.Search)
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"mode":   string(s.viewctl.Mode()),
			"search": s.viewctl.Search(),
		})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rows := make([]map[string]string, 0)
	for _, rec := range s.store.Analyzed() {
		rows = append(rows, export.RowMap(rec))
	}
	rows = s.viewctl.Filter(rows)
	respondJSON(w, http.StatusOK, map[string]any{
		"columns": export.Columns,
		"rows":    rows,
		"count":   len(rows),
	})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"events": s.hub.Recent()})
}

// declaredMediaType prefers the part's declared content type and falls back
// to the filename extension.
func declaredMediaType(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" {
		if parsed, _, err := mime.ParseMediaType(ct); err == nil {
			return parsed
		}
		return ct
	}
	if byExt := mime.TypeByExtension(filepath.Ext(fh.Filename)); byExt != "" {
		if parsed, _, err := mime.ParseMediaType(byExt); err == nil {
			return parsed
		}
	}
	return ct
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}
