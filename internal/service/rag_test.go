package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *RAGService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRAGService(srv.URL+"/", 5*time.Second)
}

func TestRAGService_Upload(t *testing.T) {
	t.Run("sends multipart file", func(t *testing.T) {
		s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/upload", r.URL.Path)
			assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			data, _ := io.ReadAll(file)
			assert.Equal(t, "report.pdf", header.Filename)
			assert.Equal(t, "%PDF-1.4", string(data))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"filename":"report.pdf","num_pages":12,"chunks":30}`))
		})

		res, err := s.Upload(context.Background(), "report.pdf", []byte("%PDF-1.4"))
		require.NoError(t, err)
		assert.Equal(t, "report.pdf", res.Filename)
		assert.Equal(t, 12, res.PageCount())
		assert.JSONEq(t, `30`, string(res.Chunks))
	})

	t.Run("pages alias and missing filename", func(t *testing.T) {
		s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"pages":3,"chunks":["a","b"]}`))
		})

		res, err := s.Upload(context.Background(), "notes.pdf", []byte("x"))
		require.NoError(t, err)
		assert.Equal(t, "notes.pdf", res.Filename)
		assert.Equal(t, 3, res.PageCount())
	})

	t.Run("server reported error", func(t *testing.T) {
		s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"No readable text in PDF"}`))
		})

		_, err := s.Upload(context.Background(), "scan.pdf", []byte("x"))
		require.Error(t, err)
		assert.Equal(t, "No readable text in PDF", UserMessage(err))
	})

	t.Run("fastapi detail", func(t *testing.T) {
		s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"Please upload a valid PDF file"}`))
		})

		_, err := s.Upload(context.Background(), "a.pdf", []byte("x"))
		assert.Equal(t, "Please upload a valid PDF file", UserMessage(err))
	})

	t.Run("html error page", func(t *testing.T) {
		s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`<html><head><title>502 Bad Gateway</title></head><body><h1>oops</h1></body></html>`))
		})

		_, err := s.Upload(context.Background(), "a.pdf", []byte("x"))
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.False(t, apiErr.Reported)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Equal(t, "request failed with status code 502: 502 Bad Gateway", UserMessage(err))
	})

	t.Run("malformed body", func(t *testing.T) {
		s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		})

		_, err := s.Upload(context.Background(), "a.pdf", []byte("x"))
		assert.ErrorContains(t, err, "parse upload response")
	})

	t.Run("missing chunks", func(t *testing.T) {
		s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"filename":"a.pdf","num_pages":1}`))
		})

		_, err := s.Upload(context.Background(), "a.pdf", []byte("x"))
		assert.ErrorContains(t, err, "missing chunks")
	})
}

func TestRAGService_Ask(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ask", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "What is the refund policy?", req["question"])

			w.Write([]byte(`{"answer":" Refunds within 30 days. ","chunks_used":5,"document":"policy.pdf"}`))
		})

		res, err := s.Ask(context.Background(), "What is the refund policy?")
		require.NoError(t, err)
		assert.Equal(t, "Refunds within 30 days.", res.Answer)
		assert.Equal(t, 5, res.ChunksUsed)
		assert.Equal(t, "policy.pdf", res.Document)
	})

	t.Run("missing answer", func(t *testing.T) {
		s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"chunks_used":5}`))
		})

		_, err := s.Ask(context.Background(), "q")
		assert.ErrorContains(t, err, "missing answer")
	})

	t.Run("non-2xx", func(t *testing.T) {
		s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := s.Ask(context.Background(), "q")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	})

	t.Run("context deadline", func(t *testing.T) {
		release := make(chan struct{})
		s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			select {
			case <-r.Context().Done():
			case <-release:
			}
		})
		// registered after the server's Close, so it runs first
		t.Cleanup(func() { close(release) })

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := s.Ask(ctx, "q")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestRAGService_HealthAndClear(t *testing.T) {
	var cleared bool
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/":
			w.Write([]byte(`{"status":"healthy","pdf_loaded":true,"chunks_count":42}`))
		case r.Method == http.MethodPost && r.URL.Path == "/clear":
			cleared = true
			w.Write([]byte(`{"message":"Cleared"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	status, err := s.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
	assert.True(t, status.PDFLoaded)
	assert.Equal(t, 42, status.ChunkTotal())

	require.NoError(t, s.Clear(context.Background()))
	assert.True(t, cleared)
}
