package controller

import (
	"sync"
	"time"

	"github.com/set-night/ragzy/internal/domain"
)

// State is the Root Container state of one chat.
type State struct {
	Transcript    []domain.ChatMessage
	Files         []domain.UploadedFileRecord
	Selected      *domain.SelectedFile
	Uploading     bool
	AnswerPending bool
	Toast         *domain.Toast
}

// clone copies the slices so callers can read a snapshot without the lock.
func (s *State) clone() State {
	out := *s
	out.Transcript = append([]domain.ChatMessage(nil), s.Transcript...)
	out.Files = append([]domain.UploadedFileRecord(nil), s.Files...)
	if s.Selected != nil {
		sel := *s.Selected
		out.Selected = &sel
	}
	if s.Toast != nil {
		t := *s.Toast
		out.Toast = &t
	}
	return out
}

// chat guards one State together with its toast slot.
type chat struct {
	mu     sync.Mutex
	id     int64
	loaded bool
	state  State

	toastTimer *time.Timer
	toastRef   int
	toastSeq   uint64
}
