package controller

// User-facing texts.
const (
	FallbackAnswer     = "Sorry, I couldn't get an answer. Please upload a PDF first."
	NoFileSelectedText = "Please select a PDF first!"
	NotPDFText         = "❌ Only PDF files can be uploaded."
	FileTooLargeText   = "❌ The file is too large."
	UploadBusyText     = "⏳ An upload is already in progress."
	UploadingText      = "⏳ Uploading %s..."
	UploadedText       = "✅ Uploaded: %s"
	UploadFailedText   = "❌ Upload failed: %s"

	ToastUploaded     = "Uploaded: %s"
	ToastUploadFailed = "Upload failed"
	ToastFileRemoved  = "File removed"
	ToastFilesCleared = "All files cleared"
)
