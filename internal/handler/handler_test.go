package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/ragzy/internal/config"
	"github.com/set-night/ragzy/internal/controller"
	"github.com/set-night/ragzy/internal/service"
	tg "github.com/set-night/ragzy/internal/telegram"
	"github.com/set-night/ragzy/internal/testutil"
	"github.com/set-night/ragzy/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatID int64 = 42

type testEnv struct {
	tg   *testutil.FakeTelegram
	bot  *bot.Bot
	ctrl *controller.Controller
	h    *Handler
}

// newTestEnv wires a Handler to a fake Bot API and a document backend served by rag.
func newTestEnv(t *testing.T, rag http.HandlerFunc) *testEnv {
	t.Helper()

	ragServer := httptest.NewServer(rag)
	t.Cleanup(ragServer.Close)

	fake := testutil.NewFakeTelegram(t)
	b := fake.Bot(t)

	cfg := &config.Config{
		BotToken:       testutil.BotToken,
		RAGAPIURL:      ragServer.URL,
		RequestTimeout: 5 * time.Second,
		MaxPDFSizeMB:   20,
	}
	backend := service.NewRAGService(ragServer.URL, cfg.RequestTimeout)
	presenter := tg.NewPresenter(b)
	t.Cleanup(presenter.StopAll)

	ctrl := controller.New(backend, nil, presenter, controller.Options{
		DedupeUploads:  true,
		ToastTTL:       time.Hour,
		RequestTimeout: cfg.RequestTimeout,
		MaxFileBytes:   cfg.MaxPDFBytes(),
	})
	t.Cleanup(ctrl.Close)

	h := New(Deps{Bot: b, Cfg: cfg, Controller: ctrl, Backend: backend})
	return &testEnv{tg: fake, bot: b, ctrl: ctrl, h: h}
}

func textUpdate(text string) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:   1,
		Text: text,
		From: &models.User{ID: 1001, FirstName: "Ann"},
		Chat: models.Chat{ID: chatID, Type: models.ChatTypePrivate},
	}}
}

func documentUpdate(fileID, name, mime string) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:   2,
		Chat: models.Chat{ID: chatID, Type: models.ChatTypePrivate},
		Document: &models.Document{
			FileID:   fileID,
			FileName: name,
			MimeType: mime,
		},
	}}
}

func callbackUpdate(data string, messageID int) *models.Update {
	return &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "cb",
		Data: data,
		Message: models.MaybeInaccessibleMessage{Message: &models.Message{
			ID:   messageID,
			Chat: models.Chat{ID: chatID, Type: models.ChatTypePrivate},
		}},
	}}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ragHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upload":
			f, hdr, err := r.FormFile("file")
			require.NoError(t, err)
			_ = f.Close()
			writeJSON(w, http.StatusOK, map[string]any{"filename": hdr.Filename, "num_pages": 2, "chunks": 7})
		case "/ask":
			writeJSON(w, http.StatusOK, map[string]any{"answer": "Refunds are accepted within 30 days."})
		case "/clear":
			writeJSON(w, http.StatusOK, map[string]any{"message": "cleared"})
		case "/", "":
			writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "pdf_loaded": true, "chunks_count": 7})
		default:
			http.NotFound(w, r)
		}
	}
}

func countOf(items []string, want string) int {
	n := 0
	for _, s := range items {
		if s == want {
			n++
		}
	}
	return n
}

func (e *testEnv) upload(t *testing.T, name string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.ctrl.Dispatch(ctx, chatID, controller.FileSelected{Name: name, Data: testutil.MinimalPDF(2)}))
	require.NoError(t, e.ctrl.Dispatch(ctx, chatID, controller.UploadRequested{}))
}

func TestHandleText_AnswersQuestion(t *testing.T) {
	env := newTestEnv(t, ragHandler(t))

	env.h.handleText(context.Background(), env.bot, textUpdate("What is the refund policy?"))

	assert.Contains(t, env.tg.SentTexts(), "Refunds are accepted within 30 days.")
	assert.NotEmpty(t, env.tg.Calls("sendChatAction"))

	state := env.ctrl.Snapshot(context.Background(), chatID)
	require.Len(t, state.Transcript, 2)
	assert.Equal(t, "What is the refund policy?", state.Transcript[0].Text)
	assert.False(t, state.AnswerPending)
}

func TestHandleText_BackendDownShowsFallback(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "boom"})
	})

	env.h.handleText(context.Background(), env.bot, textUpdate("What is the refund policy?"))

	assert.Contains(t, env.tg.SentTexts(), controller.FallbackAnswer)
	assert.False(t, env.ctrl.Snapshot(context.Background(), chatID).AnswerPending)
}

func TestHandleText_PendingHint(t *testing.T) {
	release := make(chan struct{})
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeJSON(w, http.StatusOK, map[string]any{"answer": "done"})
	})
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		env.h.handleText(ctx, env.bot, textUpdate("first"))
		close(done)
	}()
	require.Eventually(t, func() bool {
		return env.ctrl.Snapshot(ctx, chatID).AnswerPending
	}, 2*time.Second, 10*time.Millisecond)

	env.h.handleText(ctx, env.bot, textUpdate("second"))
	assert.Contains(t, env.tg.SentTexts(), view.AnswerPendingText)

	close(release)
	<-done
	assert.Len(t, env.ctrl.Snapshot(ctx, chatID).Transcript, 2)
}

func TestHandleDocument_SelectThenUpload(t *testing.T) {
	env := newTestEnv(t, ragHandler(t))
	ctx := context.Background()
	env.tg.Files["doc-1"] = testutil.MinimalPDF(2)

	env.h.handleDocument(ctx, env.bot, documentUpdate("doc-1", "report.pdf", "application/pdf"))

	sends := env.tg.Calls("sendMessage")
	require.NotEmpty(t, sends)
	selected := sends[len(sends)-1]
	assert.Contains(t, selected.Form["text"], "Selected: report.pdf (2 pages)")
	assert.Contains(t, selected.Form["reply_markup"], tg.CallbackUpload)
	require.NotNil(t, env.ctrl.Snapshot(ctx, chatID).Selected)

	env.h.handleUpload(ctx, env.bot, textUpdate("/upload"))

	texts := env.tg.SentTexts()
	assert.Contains(t, texts, "⏳ Uploading report.pdf...")
	// Status line and toast.
	assert.Equal(t, 2, countOf(texts, "✅ Uploaded: report.pdf"))

	state := env.ctrl.Snapshot(ctx, chatID)
	require.Len(t, state.Files, 1)
	assert.Equal(t, "report.pdf", state.Files[0].Filename)
	assert.Equal(t, 2, state.Files[0].Pages)
	assert.Nil(t, state.Selected)
}

func TestHandleDocument_RejectsNonPDF(t *testing.T) {
	env := newTestEnv(t, ragHandler(t))

	env.h.handleDocument(context.Background(), env.bot, documentUpdate("doc-2", "notes.txt", "text/plain"))

	assert.Equal(t, []string{controller.NotPDFText}, env.tg.SentTexts())
	assert.Empty(t, env.tg.Calls("getFile"))
}

func TestHandleUpload_NothingSelected(t *testing.T) {
	var uploads atomic.Int32
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		uploads.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	env.h.handleUpload(context.Background(), env.bot, textUpdate("/upload"))

	assert.Equal(t, []string{"Please select a PDF first!"}, env.tg.SentTexts())
	assert.Zero(t, uploads.Load())
}

func TestHandleFiles_ListAndRemove(t *testing.T) {
	env := newTestEnv(t, ragHandler(t))
	ctx := context.Background()
	env.upload(t, "a.pdf")
	env.upload(t, "b.pdf")

	env.h.handleFiles(ctx, env.bot, textUpdate("/files"))
	sends := env.tg.Calls("sendMessage")
	list := sends[len(sends)-1]
	assert.Contains(t, list.Form["text"], "1. a.pdf")
	assert.Contains(t, list.Form["text"], "2. b.pdf")
	assert.Contains(t, list.Form["reply_markup"], "rm_file_1")

	env.h.handleRemoveFile(ctx, env.bot, callbackUpdate("rm_file_0", 500))

	files := env.ctrl.Snapshot(ctx, chatID).Files
	require.Len(t, files, 1)
	assert.Equal(t, "b.pdf", files[0].Filename)

	edits := env.tg.Calls("editMessageText")
	require.Len(t, edits, 1)
	assert.Equal(t, "500", edits[0].Form["message_id"])
	assert.Contains(t, edits[0].Form["text"], "1. b.pdf")
	assert.NotEmpty(t, env.tg.Calls("answerCallbackQuery"))
	assert.Contains(t, env.tg.SentTexts(), "✅ File removed")
}

func TestHandleFiles_Empty(t *testing.T) {
	env := newTestEnv(t, ragHandler(t))

	env.h.handleFiles(context.Background(), env.bot, textUpdate("/files"))

	assert.Equal(t, []string{view.NoFilesText}, env.tg.SentTexts())
}

func TestHandleHistory(t *testing.T) {
	env := newTestEnv(t, ragHandler(t))
	ctx := context.Background()

	env.h.handleHistory(ctx, env.bot, textUpdate("/history"))
	assert.Equal(t, []string{view.EmptyTranscriptText}, env.tg.SentTexts())

	env.h.handleText(ctx, env.bot, textUpdate("What is the refund policy?"))
	env.h.handleHistory(ctx, env.bot, textUpdate("/history"))

	texts := env.tg.SentTexts()
	last := texts[len(texts)-1]
	assert.Equal(t, "🧑 What is the refund policy?\n\n🤖 Refunds are accepted within 30 days.", last)
}

func TestHandleStatus(t *testing.T) {
	env := newTestEnv(t, ragHandler(t))

	env.h.handleStatus(context.Background(), env.bot, textUpdate("/status"))

	texts := env.tg.SentTexts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "Backend: ok")
	assert.Contains(t, texts[0], "Indexed chunks: 7")
}

func TestHandleStatus_Cached(t *testing.T) {
	var calls atomic.Int32
	rag := ragHandler(t)
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			calls.Add(1)
		}
		rag(w, r)
	})
	ctx := context.Background()

	env.h.handleStatus(ctx, env.bot, textUpdate("/status"))
	env.h.handleStatus(ctx, env.bot, textUpdate("/status"))
	assert.Equal(t, int32(1), calls.Load())

	env.h.handleClear(ctx, env.bot, textUpdate("/clear"))
	env.h.handleStatus(ctx, env.bot, textUpdate("/status"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestHandleStatus_Unreachable(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "index offline"})
	})

	env.h.handleStatus(context.Background(), env.bot, textUpdate("/status"))

	assert.Equal(t, []string{"❌ Backend is unreachable: index offline"}, env.tg.SentTexts())
}

func TestHandleClear(t *testing.T) {
	env := newTestEnv(t, ragHandler(t))
	ctx := context.Background()
	env.upload(t, "a.pdf")

	env.h.handleClear(ctx, env.bot, textUpdate("/clear"))

	assert.Contains(t, env.tg.SentTexts(), view.ClearedText)
	assert.Empty(t, env.ctrl.Snapshot(ctx, chatID).Files)
}

func TestHandleClear_FailureKeepsFiles(t *testing.T) {
	rag := ragHandler(t)
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/clear" {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "locked"})
			return
		}
		rag(w, r)
	})
	ctx := context.Background()
	env.upload(t, "a.pdf")

	env.h.handleClear(ctx, env.bot, textUpdate("/clear"))

	assert.Contains(t, env.tg.SentTexts(), "❌ Clear failed: locked")
	assert.Len(t, env.ctrl.Snapshot(ctx, chatID).Files, 1)
}

func TestHandleClear_AdminsOnly(t *testing.T) {
	var clears atomic.Int32
	rag := ragHandler(t)
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/clear" {
			clears.Add(1)
		}
		rag(w, r)
	})
	env.h.cfg.AdminIDs = []int64{7}

	env.h.handleClear(context.Background(), env.bot, textUpdate("/clear"))

	assert.Equal(t, []string{view.ClearForbiddenText}, env.tg.SentTexts())
	assert.Zero(t, clears.Load())
}

func TestMatchers(t *testing.T) {
	assert.True(t, isQuestion(textUpdate("hello")))
	assert.False(t, isQuestion(textUpdate("/files")))
	assert.False(t, isQuestion(textUpdate("")))
	assert.False(t, isQuestion(&models.Update{}))

	assert.True(t, isDocument(documentUpdate("x", "a.pdf", "application/pdf")))
	assert.False(t, isDocument(textUpdate("hello")))
}

func TestStartText(t *testing.T) {
	env := newTestEnv(t, ragHandler(t))

	env.h.handleStart(context.Background(), env.bot, textUpdate("/start"))

	texts := env.tg.SentTexts()
	require.Len(t, texts, 1)
	for _, cmd := range []string{"/upload", "/files", "/history", "/status", "/clear"} {
		assert.True(t, strings.Contains(texts[0], cmd), cmd)
	}
}
