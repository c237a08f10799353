package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/scribehq/scribe/internal/domain"
	"github.com/scribehq/scribe/internal/processor"
)

type fakeStore struct {
	transcripts map[int64]domain.Transcript
	actions     map[int64][]domain.TranscriptAction
	users       []domain.User
	nextID      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		transcripts: map[int64]domain.Transcript{},
		actions:     map[int64][]domain.TranscriptAction{},
		nextID:      1,
	}
}

func (f *fakeStore) CreateTranscript(ctx context.Context, title, text string) (*domain.Transcript, error) {
	tr := domain.Transcript{ID: f.nextID, Title: title, Text: text, CreatedAt: time.Now().UTC()}
	f.transcripts[tr.ID] = tr
	f.nextID++
	return &tr, nil
}

func (f *fakeStore) Transcripts(ctx context.Context) ([]domain.Transcript, error) {
	var res []domain.Transcript
	for _, tr := range f.transcripts {
		res = append(res, tr)
	}
	return res, nil
}

func (f *fakeStore) Transcript(ctx context.Context, id int64) (*domain.Transcript, error) {
	tr, ok := f.transcripts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := tr
	return &cp, nil
}

func (f *fakeStore) ActionsForTranscript(ctx context.Context, id int64) ([]domain.TranscriptAction, error) {
	return f.actions[id], nil
}

func (f *fakeStore) Users(ctx context.Context) ([]domain.User, error) {
	return f.users, nil
}

type fakePipeline struct {
	outcome processor.Outcome
	calls   []int64
}

func (f *fakePipeline) ProcessTranscript(ctx context.Context, id int64) processor.Outcome {
	f.calls = append(f.calls, id)
	return f.outcome
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := NewServer(0, newFakeStore(), &fakePipeline{}, discardLogger())

	rec := doRequest(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreateAndGetTranscript(t *testing.T) {
	s := NewServer(0, newFakeStore(), &fakePipeline{}, discardLogger())

	rec := doRequest(t, s, http.MethodPost, "/api/v1/transcripts",
		`{"title": "Weekly sync", "transcript": "Alice will fix the login bug"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created domain.Transcript
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == 0 || created.Title != "Weekly sync" {
		t.Errorf("unexpected transcript: %+v", created)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/transcripts/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreateTranscript_Invalid(t *testing.T) {
	s := NewServer(0, newFakeStore(), &fakePipeline{}, discardLogger())

	for name, body := range map[string]string{
		"not json":      `{`,
		"missing title": `{"transcript": "text"}`,
		"missing text":  `{"title": "t"}`,
	} {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/transcripts", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, rec.Code)
		}
	}
}

func TestGetTranscript_NotFound(t *testing.T) {
	s := NewServer(0, newFakeStore(), &fakePipeline{}, discardLogger())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/transcripts/42", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/transcripts/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestProcessTranscript(t *testing.T) {
	store := newFakeStore()
	store.transcripts[5] = domain.Transcript{ID: 5, Title: "sync", Text: "text"}
	pipe := &fakePipeline{outcome: processor.Outcome{
		Success:      true,
		Summary:      "all good",
		TasksCreated: 2,
		TasksUpdated: 1,
	}}
	s := NewServer(0, store, pipe, discardLogger())

	rec := doRequest(t, s, http.MethodPost, "/api/v1/transcripts/5/process", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out processor.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	if !out.Success || out.TasksCreated != 2 || out.TasksUpdated != 1 {
		t.Errorf("unexpected outcome: %+v", out)
	}
	if len(pipe.calls) != 1 || pipe.calls[0] != 5 {
		t.Errorf("expected one pipeline call for id 5, got %v", pipe.calls)
	}
}

func TestProcessTranscript_Failure(t *testing.T) {
	store := newFakeStore()
	store.transcripts[5] = domain.Transcript{ID: 5, Title: "sync", Text: "text"}
	pipe := &fakePipeline{outcome: processor.Outcome{Error: "model unavailable"}}
	s := NewServer(0, store, pipe, discardLogger())

	rec := doRequest(t, s, http.MethodPost, "/api/v1/transcripts/5/process", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var out processor.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	if out.Success || out.Error != "model unavailable" {
		t.Errorf("unexpected outcome: %+v", out)
	}
}

func TestProcessTranscript_AlreadyProcessed(t *testing.T) {
	store := newFakeStore()
	store.transcripts[5] = domain.Transcript{ID: 5, Title: "sync", Text: "text", Processed: true}
	pipe := &fakePipeline{}
	s := NewServer(0, store, pipe, discardLogger())

	rec := doRequest(t, s, http.MethodPost, "/api/v1/transcripts/5/process", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if len(pipe.calls) != 0 {
		t.Errorf("pipeline must not run for processed transcript, got %v", pipe.calls)
	}
}

func TestProcessTranscript_NotFound(t *testing.T) {
	pipe := &fakePipeline{}
	s := NewServer(0, newFakeStore(), pipe, discardLogger())

	rec := doRequest(t, s, http.MethodPost, "/api/v1/transcripts/404/process", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if len(pipe.calls) != 0 {
		t.Errorf("pipeline must not run for missing transcript, got %v", pipe.calls)
	}
}

func TestListUsers(t *testing.T) {
	store := newFakeStore()
	store.users = []domain.User{{ID: 1, Name: "Alice"}}
	s := NewServer(0, store, &fakePipeline{}, discardLogger())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var users []domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 1 || users[0].Name != "Alice" {
		t.Errorf("unexpected roster: %+v", users)
	}
}
