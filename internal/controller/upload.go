package controller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/set-night/ragzy/internal/domain"
	"github.com/set-night/ragzy/internal/pdfcheck"
	"github.com/set-night/ragzy/internal/service"
)

func (c *Controller) selectFile(ctx context.Context, ch *chat, e FileSelected) error {
	ch.mu.Lock()
	uploading := ch.state.Uploading
	ch.mu.Unlock()
	if uploading {
		c.view.ShowNotice(ctx, ch.id, UploadBusyText)
		return domain.ErrUploadInProgress
	}

	if !pdfcheck.Accepts(e.Name, e.MimeType) {
		c.view.ShowNotice(ctx, ch.id, NotPDFText)
		return fmt.Errorf("select %q: %w", e.Name, domain.ErrNotPDF)
	}
	if e.Oversize || (c.opts.MaxFileBytes > 0 && int64(len(e.Data)) > c.opts.MaxFileBytes) {
		c.view.ShowNotice(ctx, ch.id, FileTooLargeText)
		return fmt.Errorf("select %q: %w", e.Name, domain.ErrFileTooLarge)
	}
	pages, err := pdfcheck.Validate(e.Data)
	if err != nil {
		c.view.ShowNotice(ctx, ch.id, NotPDFText)
		return fmt.Errorf("select %q: %w", e.Name, err)
	}

	ch.mu.Lock()
	if ch.state.Uploading {
		ch.mu.Unlock()
		c.view.ShowNotice(ctx, ch.id, UploadBusyText)
		return domain.ErrUploadInProgress
	}
	ch.state.Selected = &domain.SelectedFile{Name: e.Name, Data: e.Data}
	ch.mu.Unlock()

	c.view.ShowFileSelected(ctx, ch.id, e.Name, pages)

	if c.opts.AutoUpload {
		return c.submitUpload(ctx, ch)
	}
	return nil
}

func (c *Controller) submitUpload(ctx context.Context, ch *chat) error {
	ch.mu.Lock()
	if ch.state.Uploading {
		ch.mu.Unlock()
		c.view.ShowNotice(ctx, ch.id, UploadBusyText)
		return domain.ErrUploadInProgress
	}
	if ch.state.Selected == nil {
		ch.mu.Unlock()
		c.view.ShowNotice(ctx, ch.id, NoFileSelectedText)
		return domain.ErrNoFileSelected
	}
	file := *ch.state.Selected
	ch.state.Uploading = true
	ch.mu.Unlock()

	defer func() {
		ch.mu.Lock()
		ch.state.Selected = nil
		ch.state.Uploading = false
		ch.mu.Unlock()
	}()

	c.view.ShowNotice(ctx, ch.id, fmt.Sprintf(UploadingText, file.Name))

	reqCtx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	res, err := c.backend.Upload(reqCtx, file.Name, file.Data)
	if err != nil {
		slog.Error("upload pdf", "error", err, "chat_id", ch.id, "filename", file.Name)
		c.view.ShowNotice(ctx, ch.id, fmt.Sprintf(UploadFailedText, service.UserMessage(err)))
		c.showToast(ctx, ch, domain.Toast{Kind: domain.ToastError, Text: ToastUploadFailed})
		return fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
	}

	record := domain.UploadedFileRecord{
		Filename:   res.Filename,
		Pages:      res.PageCount(),
		Chunks:     res.Chunks,
		UploadedAt: c.now(),
	}
	slog.Info("pdf uploaded",
		"chat_id", ch.id,
		"filename", record.Filename,
		"pages", record.Pages,
		"chunks", record.ChunkCount(),
	)

	c.view.ShowNotice(ctx, ch.id, fmt.Sprintf(UploadedText, record.Filename))
	c.fileUploaded(ctx, ch, record)
	if c.opts.OnUpload != nil {
		c.opts.OnUpload(ch.id, record)
	}
	return nil
}

func (c *Controller) fileUploaded(ctx context.Context, ch *chat, record domain.UploadedFileRecord) {
	ch.mu.Lock()
	duplicate := false
	if c.opts.DedupeUploads {
		for _, f := range ch.state.Files {
			if f.SameUpload(record) {
				duplicate = true
				break
			}
		}
	}
	if !duplicate {
		ch.state.Files = append(ch.state.Files, record)
		c.saveFiles(ctx, ch)
	}
	ch.mu.Unlock()

	c.showToast(ctx, ch, domain.Toast{Kind: domain.ToastSuccess, Text: fmt.Sprintf(ToastUploaded, record.Filename)})
}

func (c *Controller) removeFile(ctx context.Context, ch *chat, index int) error {
	ch.mu.Lock()
	if index < 0 || index >= len(ch.state.Files) {
		n := len(ch.state.Files)
		ch.mu.Unlock()
		return fmt.Errorf("remove file %d of %d: %w", index, n, domain.ErrFileIndex)
	}
	files := make([]domain.UploadedFileRecord, 0, len(ch.state.Files)-1)
	files = append(files, ch.state.Files[:index]...)
	files = append(files, ch.state.Files[index+1:]...)
	ch.state.Files = files
	c.saveFiles(ctx, ch)
	ch.mu.Unlock()

	c.showToast(ctx, ch, domain.Toast{Kind: domain.ToastSuccess, Text: ToastFileRemoved})
	return nil
}

func (c *Controller) clearFiles(ctx context.Context, ch *chat) {
	ch.mu.Lock()
	ch.state.Files = []domain.UploadedFileRecord{}
	c.saveFiles(ctx, ch)
	ch.mu.Unlock()

	c.showToast(ctx, ch, domain.Toast{Kind: domain.ToastSuccess, Text: ToastFilesCleared})
}
