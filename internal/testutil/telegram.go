package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
)

const BotToken = "123456:test-token"

// TelegramCall is one Bot API request received by FakeTelegram.
type TelegramCall struct {
	Method string
	Form   map[string]string
}

// FakeTelegram is a Bot API server that accepts every call and records it.
// Files put into Files can be fetched through getFile and the download link.
type FakeTelegram struct {
	Server *httptest.Server

	mu     sync.Mutex
	calls  []TelegramCall
	nextID int
	Files  map[string][]byte
}

func NewFakeTelegram(t *testing.T) *FakeTelegram {
	t.Helper()
	f := &FakeTelegram{Files: make(map[string][]byte), nextID: 100}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// Bot returns a bot talking to the fake server.
func (f *FakeTelegram) Bot(t *testing.T, opts ...bot.Option) *bot.Bot {
	t.Helper()
	b, err := bot.New(BotToken, append([]bot.Option{bot.WithServerURL(f.Server.URL)}, opts...)...)
	if err != nil {
		t.Fatalf("create bot: %v", err)
	}
	return b
}

func (f *FakeTelegram) serve(w http.ResponseWriter, r *http.Request) {
	if path, ok := strings.CutPrefix(r.URL.Path, "/file/bot"+BotToken+"/"); ok {
		f.mu.Lock()
		data, found := f.Files[strings.TrimPrefix(path, "documents/")]
		f.mu.Unlock()
		if !found {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
		return
	}

	method := strings.TrimPrefix(r.URL.Path, "/bot"+BotToken+"/")
	form := make(map[string]string)
	if err := r.ParseMultipartForm(10 << 20); err == nil {
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				form[k] = v[0]
			}
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, TelegramCall{Method: method, Form: form})
	result := f.result(method, form)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
}

// result must be called with f.mu held.
func (f *FakeTelegram) result(method string, form map[string]string) any {
	switch method {
	case "getMe":
		return map[string]any{"id": 1, "is_bot": true, "first_name": "Ragzy", "username": "ragzy_test_bot"}
	case "sendMessage", "editMessageText":
		f.nextID++
		chatID, _ := strconv.ParseInt(form["chat_id"], 10, 64)
		id := f.nextID
		if method == "editMessageText" {
			id, _ = strconv.Atoi(form["message_id"])
		}
		return map[string]any{
			"message_id": id,
			"date":       0,
			"chat":       map[string]any{"id": chatID, "type": "private"},
			"text":       form["text"],
		}
	case "getFile":
		id := form["file_id"]
		return map[string]any{
			"file_id":        id,
			"file_unique_id": "u-" + id,
			"file_size":      len(f.Files[id]),
			"file_path":      "documents/" + id,
		}
	default:
		return true
	}
}

// Calls returns the recorded calls of method, or all calls for "".
func (f *FakeTelegram) Calls(method string) []TelegramCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []TelegramCall
	for _, c := range f.calls {
		if method == "" || c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// SentTexts returns the text of every sendMessage call.
func (f *FakeTelegram) SentTexts() []string {
	var out []string
	for _, c := range f.Calls("sendMessage") {
		out = append(out, c.Form["text"])
	}
	return out
}
