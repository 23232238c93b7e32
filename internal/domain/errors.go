package domain

import "errors"

var (
	ErrNoFileSelected   = errors.New("no file selected")
	ErrNotPDF           = errors.New("file is not a pdf")
	ErrFileTooLarge     = errors.New("file too large")
	ErrUploadInProgress = errors.New("upload in progress")
	ErrUploadFailed     = errors.New("upload failed")
	ErrEmptyQuestion    = errors.New("empty question")
	ErrAnswerPending    = errors.New("answer pending")
	ErrAskFailed        = errors.New("ask failed")
	ErrFileIndex        = errors.New("file index out of range")
	ErrNotFound         = errors.New("not found")
)

// IsValidation reports whether err is a local validation error that
// short-circuits a submission before any network call.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNoFileSelected) ||
		errors.Is(err, ErrNotPDF) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrUploadInProgress) ||
		errors.Is(err, ErrEmptyQuestion) ||
		errors.Is(err, ErrAnswerPending) ||
		errors.Is(err, ErrFileIndex)
}
