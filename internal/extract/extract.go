// Package extract turns stored documents back into plain text. PDFs are
// extracted locally; Word documents are delegated to a remote extraction
// endpoint when one is configured.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	pdfutil "github.com/dharsanguruparan/JobSift/internal/pdf"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDoc  = "application/msword"
	MediaTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Extractor produces the plain text of a stored document.
type Extractor interface {
	Extract(ctx context.Context, url, mediaType string) (string, error)
}

// PDFExtractor fetches the stored object and extracts its text in-process.
type PDFExtractor struct {
	client *http.Client
}

// NewPDFExtractor constructs a PDFExtractor. A nil client falls back to a
// default with a generous timeout; extraction of large scans is slow.
func NewPDFExtractor(client *http.Client) *PDFExtractor {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &PDFExtractor{client: client}
}

// Extract downloads the document and runs local PDF text extraction.
func (e *PDFExtractor) Extract(ctx context.Context, url, _ string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch document: unexpected status %d", resp.StatusCode)
	}
	text, err := pdfutil.ExtractFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

// RemoteExtractor calls an external extraction service that accepts a
// document URL and responds with the extracted text.
type RemoteExtractor struct {
	endpoint string
	client   *http.Client
}

// NewRemoteExtractor constructs a RemoteExtractor for the given endpoint.
func NewRemoteExtractor(endpoint string, client *http.Client) *RemoteExtractor {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &RemoteExtractor{endpoint: endpoint, client: client}
}

// Extract posts the document URL and decodes the returned text.
func (e *RemoteExtractor) Extract(ctx context.Context, url, _ string) (string, error) {
	body, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call extractor: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("call extractor: unexpected status %d", resp.StatusCode)
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode extractor response: %w", err)
	}
	return out.Text, nil
}

// TypeRouter dispatches to the extractor registered for a media type.
type TypeRouter struct {
	byType map[string]Extractor
}

// NewTypeRouter wires pdf for PDFs and word for both Word flavors. Either
// may be nil, in which case that media type fails with a clear error.
func NewTypeRouter(pdf, word Extractor) *TypeRouter {
	byType := make(map[string]Extractor)
	if pdf != nil {
		byType[MediaTypePDF] = pdf
	}
	if word != nil {
		byType[MediaTypeDoc] = word
		byType[MediaTypeDocx] = word
	}
	return &TypeRouter{byType: byType}
}

// Extract routes on media type.
func (r *TypeRouter) Extract(ctx context.Context, url, mediaType string) (string, error) {
	ex, ok := r.byType[mediaType]
	if !ok {
		return "", fmt.Errorf("no extractor for media type %q", mediaType)
	}
	return ex.Extract(ctx, url, mediaType)
}

// ErrNoText is returned when extraction succeeds but yields nothing usable.
var ErrNoText = errors.New("document contains no extractable text")
