package pdfcheck

import (
	"testing"

	"github.com/set-night/ragzy/internal/domain"
	"github.com/set-night/ragzy/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccepts(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mime     string
		want     bool
	}{
		{name: "pdf extension", filename: "report.pdf", want: true},
		{name: "upper case extension", filename: "REPORT.PDF", want: true},
		{name: "mime only", filename: "scan", mime: "application/pdf", want: true},
		{name: "docx", filename: "notes.docx", mime: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", want: false},
		{name: "pdf in the middle", filename: "report.pdf.exe", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Accepts(tt.filename, tt.mime))
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		pages, err := Validate(testutil.MinimalPDF(3))
		require.NoError(t, err)
		assert.Equal(t, 3, pages)
	})

	t.Run("not a pdf", func(t *testing.T) {
		_, err := Validate([]byte("PK\x03\x04 zip archive"))
		assert.ErrorIs(t, err, domain.ErrNotPDF)
	})

	t.Run("truncated", func(t *testing.T) {
		data := testutil.MinimalPDF(1)
		_, err := Validate(data[:40])
		assert.ErrorIs(t, err, domain.ErrNotPDF)
	})
}
