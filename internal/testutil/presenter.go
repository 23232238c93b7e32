package testutil

import (
	"context"
	"sync"

	"github.com/set-night/ragzy/internal/domain"
)

// Call records one presenter invocation.
type Call struct {
	Method string
	Text   string
	Ref    int
	On     bool
}

// RecordingPresenter records everything the controller renders.
type RecordingPresenter struct {
	mu      sync.Mutex
	calls   []Call
	nextRef int
	visible map[int]domain.Toast
}

func NewRecordingPresenter() *RecordingPresenter {
	return &RecordingPresenter{visible: make(map[int]domain.Toast)}
}

func (p *RecordingPresenter) record(c Call) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, c)
}

func (p *RecordingPresenter) ShowMessage(_ context.Context, _ int64, msg domain.ChatMessage) {
	p.record(Call{Method: "ShowMessage", Text: msg.Text})
}

func (p *RecordingPresenter) SetTyping(_ context.Context, _ int64, on bool) {
	p.record(Call{Method: "SetTyping", On: on})
}

func (p *RecordingPresenter) ShowNotice(_ context.Context, _ int64, text string) {
	p.record(Call{Method: "ShowNotice", Text: text})
}

func (p *RecordingPresenter) ShowFileSelected(_ context.Context, _ int64, filename string, _ int) {
	p.record(Call{Method: "ShowFileSelected", Text: filename})
}

func (p *RecordingPresenter) ShowToast(_ context.Context, _ int64, toast domain.Toast) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextRef++
	p.visible[p.nextRef] = toast
	p.calls = append(p.calls, Call{Method: "ShowToast", Text: toast.Text, Ref: p.nextRef})
	return p.nextRef
}

func (p *RecordingPresenter) HideToast(_ context.Context, _ int64, ref int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.visible, ref)
	p.calls = append(p.calls, Call{Method: "HideToast", Ref: ref})
}

// Calls returns the recorded calls, optionally filtered by method.
func (p *RecordingPresenter) Calls(method string) []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Call
	for _, c := range p.calls {
		if method == "" || c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Texts returns the Text of every call of method.
func (p *RecordingPresenter) Texts(method string) []string {
	var out []string
	for _, c := range p.Calls(method) {
		out = append(out, c.Text)
	}
	return out
}

// VisibleToasts returns the toasts shown and not yet hidden.
func (p *RecordingPresenter) VisibleToasts() []domain.Toast {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Toast, 0, len(p.visible))
	for _, t := range p.visible {
		out = append(out, t)
	}
	return out
}
