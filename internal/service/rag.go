package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

const maxErrorBodyLen = 64 * 1024

// RAGService talks to the document Q&A backend.
type RAGService struct {
	baseURL    string
	httpClient *http.Client
}

func NewRAGService(baseURL string, timeout time.Duration) *RAGService {
	return &RAGService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx response from the backend. Reported is true when the
// body carried an explicit error field, in which case Message is shown verbatim.
type APIError struct {
	StatusCode int
	Message    string
	Reported   bool
}

func (e *APIError) Error() string {
	if e.Reported {
		return e.Message
	}
	return fmt.Sprintf("request failed with status code %d: %s", e.StatusCode, e.Message)
}

// UserMessage returns the server-reported error text when available,
// else the transport-level error message.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Reported {
		return apiErr.Message
	}
	return err.Error()
}

type UploadResult struct {
	Filename string          `json:"filename"`
	NumPages *int            `json:"num_pages"`
	Pages    *int            `json:"pages"`
	Chunks   json.RawMessage `json:"chunks"`
	Message  string          `json:"message"`
}

// PageCount prefers num_pages and falls back to pages.
func (r *UploadResult) PageCount() int {
	switch {
	case r.NumPages != nil:
		return *r.NumPages
	case r.Pages != nil:
		return *r.Pages
	default:
		return 0
	}
}

type AskResult struct {
	Answer     string `json:"answer"`
	ChunksUsed int    `json:"chunks_used"`
	Document   string `json:"document"`
}

type HealthStatus struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	PDFLoaded   bool   `json:"pdf_loaded"`
	Chunks      int    `json:"chunks"`
	ChunksCount int    `json:"chunks_count"`
}

// ChunkTotal returns whichever chunk counter the backend reported.
func (h *HealthStatus) ChunkTotal() int {
	if h.ChunksCount > 0 {
		return h.ChunksCount
	}
	return h.Chunks
}

// Upload sends a PDF as multipart field "file" to {base}/upload.
func (s *RAGService) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	respBody, err := s.do(ctx, http.MethodPost, "/upload", writer.FormDataContentType(), &body)
	if err != nil {
		return nil, err
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("parse upload response: %w", err)
	}
	if len(result.Chunks) == 0 || string(result.Chunks) == "null" {
		return nil, fmt.Errorf("parse upload response: missing chunks")
	}
	if result.Filename == "" {
		result.Filename = filename
	}
	return &result, nil
}

// Ask posts {"question": q} to {base}/ask.
func (s *RAGService) Ask(ctx context.Context, question string) (*AskResult, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := s.do(ctx, http.MethodPost, "/ask", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var raw struct {
		Answer     *string `json:"answer"`
		ChunksUsed int     `json:"chunks_used"`
		Document   string  `json:"document"`
	}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("parse ask response: %w", err)
	}
	if raw.Answer == nil {
		return nil, fmt.Errorf("parse ask response: missing answer")
	}

	return &AskResult{
		Answer:     strings.TrimSpace(*raw.Answer),
		ChunksUsed: raw.ChunksUsed,
		Document:   raw.Document,
	}, nil
}

// Health queries GET {base}.
func (s *RAGService) Health(ctx context.Context) (*HealthStatus, error) {
	respBody, err := s.do(ctx, http.MethodGet, "", "", nil)
	if err != nil {
		return nil, err
	}

	var status HealthStatus
	if err := json.Unmarshal(respBody, &status); err != nil {
		return nil, fmt.Errorf("parse health response: %w", err)
	}
	return &status, nil
}

// Clear drops every document the backend has indexed.
func (s *RAGService) Clear(ctx context.Context) error {
	_, err := s.do(ctx, http.MethodPost, "/clear", "", nil)
	return err
}

func (s *RAGService) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	slog.Debug("rag request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return nil, errorFromBody(resp.StatusCode, resp.Header.Get("Content-Type"), data)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

func errorFromBody(status int, contentType string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}

	var fields struct {
		Error  string          `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &fields); err == nil {
		if fields.Error != "" {
			apiErr.Message = fields.Error
			apiErr.Reported = true
			return apiErr
		}
		var detail string
		if json.Unmarshal(fields.Detail, &detail) == nil && detail != "" {
			apiErr.Message = detail
			apiErr.Reported = true
			return apiErr
		}
		return apiErr
	}

	if strings.Contains(contentType, "text/html") {
		if text := htmlErrorText(body); text != "" {
			apiErr.Message = text
		}
	}
	return apiErr
}

// htmlErrorText reduces a proxy error page to its title or first heading.
func htmlErrorText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	for _, sel := range []string{"title", "h1", "body"} {
		text := strings.Join(strings.Fields(doc.Find(sel).First().Text()), " ")
		if text != "" {
			return text
		}
	}
	return ""
}
