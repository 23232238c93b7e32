package view

import (
	"fmt"
	"strings"

	"github.com/set-night/ragzy/internal/domain"
	"github.com/set-night/ragzy/internal/service"
)

const NoFilesText = "No PDFs uploaded yet."

// RenderFiles lists the uploaded PDFs, numbered from 1.
func RenderFiles(files []domain.UploadedFileRecord) string {
	if len(files) == 0 {
		return NoFilesText
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 Uploaded PDFs (%d)\n", len(files))
	for i, f := range files {
		fmt.Fprintf(&sb, "\n%d. %s · %s · %s", i+1, f.Filename,
			plural(f.Pages, "page", "pages"),
			plural(f.ChunkCount(), "chunk", "chunks"))
	}
	return sb.String()
}

// FileButtonLabel is the text of the remove button for the i-th file.
func FileButtonLabel(i int, f domain.UploadedFileRecord) string {
	return fmt.Sprintf("🗑 %d. %s", i+1, f.Filename)
}

// RenderSelected announces a picked file that waits for upload.
func RenderSelected(filename string, pages int) string {
	return fmt.Sprintf("📄 Selected: %s (%s)\nPress Upload to send it.", filename, plural(pages, "page", "pages"))
}

// RenderStatus describes the backend health check and the local file list.
func RenderStatus(h *service.HealthStatus, files int) string {
	loaded := "no"
	if h.PDFLoaded {
		loaded = "yes"
	}
	status := h.Status
	if status == "" {
		status = "unknown"
	}
	return fmt.Sprintf("🩺 Backend: %s\nPDF loaded: %s\nIndexed chunks: %d\nUploaded in this chat: %d",
		status, loaded, h.ChunkTotal(), files)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
