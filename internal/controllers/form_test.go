package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"mediadeck/internal/apperrors"
	"mediadeck/internal/config"
	"mediadeck/internal/models"
	"mediadeck/internal/services/catalog"
	"mediadeck/internal/session"
)

type formEnv struct {
	form *FormEditor
	list *ListController
	srv  *httptest.Server
}

func newFormEnv(t *testing.T, handler http.Handler) *formEnv {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{APIBaseURL: srv.URL, RequestsPerSec: 1000}
	client, err := catalog.NewClient(cfg, testLogger())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "form.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.SaveSession("test-tok", &models.User{ID: 1, Name: "Tester"}); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	sess, err := session.NewStore(client, db, testLogger())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	list := NewListController(client, sess, 10, true, nil, testLogger())
	form := NewFormEditor(client, sess, list, testLogger())
	return &formEnv{form: form, list: list, srv: srv}
}

// mutationHandler accepts create/update submissions and list refreshes
func mutationHandler(t *testing.T, requests *int32, lastMethod, lastPath *atomic.Value) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)

		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode(models.MediaPage{
				Data:       []models.Media{{ID: 7, Title: "Saved"}},
				Pagination: &models.Pagination{TotalPages: 1},
			})
			return
		}

		lastMethod.Store(r.Method)
		lastPath.Store(r.URL.Path)

		if err := r.ParseMultipartForm(16 << 20); err != nil {
			t.Errorf("submission was not multipart: %v", err)
		}

		json.NewEncoder(w).Encode(models.Media{
			ID:       7,
			Title:    r.FormValue("title"),
			Type:     models.MediaType(r.FormValue("type")),
			Director: r.FormValue("director"),
		})
	}
}

func TestSubmitValidationBlocksRequest(t *testing.T) {
	var requests int32
	env := newFormEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))

	env.form.StartCreate()
	env.form.SetFields(models.MediaDraft{
		Title: "Missing Director",
		Type:  models.MediaTypeMovie,
	})

	_, err := env.form.Submit(context.Background())
	var validationErr *apperrors.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := validationErr.Fields["Director"]; !ok {
		t.Errorf("missing Director in validation fields: %v", validationErr.Fields)
	}
	if atomic.LoadInt32(&requests) != 0 {
		t.Errorf("validation failure still sent %d requests", requests)
	}
}

func TestSubmitRejectsUnknownType(t *testing.T) {
	var requests int32
	env := newFormEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))

	env.form.StartCreate()
	env.form.SetFields(models.MediaDraft{
		Title:    "Bad Type",
		Type:     models.MediaType("Documentary"),
		Director: "Someone",
	})

	_, err := env.form.Submit(context.Background())
	var validationErr *apperrors.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if atomic.LoadInt32(&requests) != 0 {
		t.Error("invalid type still reached the network")
	}
}

func TestSubmitCreateRoutesToPost(t *testing.T) {
	var requests int32
	var lastMethod, lastPath atomic.Value
	env := newFormEnv(t, mutationHandler(t, &requests, &lastMethod, &lastPath))

	env.form.StartCreate()
	env.form.SetFields(models.MediaDraft{
		Title:    "Inception",
		Type:     models.MediaTypeMovie,
		Director: "Nolan",
	})
	env.form.SetPoster("poster.jpg", []byte("jpegdata"))

	saved, err := env.form.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if saved.ID != 7 || saved.Title != "Inception" {
		t.Errorf("saved = %+v", saved)
	}
	if lastMethod.Load() != http.MethodPost || lastPath.Load() != "/api/media" {
		t.Errorf("request = %v %v, want POST /api/media", lastMethod.Load(), lastPath.Load())
	}

	// Success triggers the full page-1 refresh
	if got := len(env.list.Items()); got != 1 {
		t.Errorf("list not refreshed after create: %d items", got)
	}

	// And resets the editor to blank state
	draft := env.form.Draft()
	if draft.Title != "" || draft.Director != "" || draft.PosterName != "" {
		t.Errorf("draft not reset: %+v", draft)
	}
	if env.form.Editing() != nil {
		t.Error("editing target not cleared")
	}
}

func TestSubmitUpdateRoutesToPut(t *testing.T) {
	var requests int32
	var lastMethod, lastPath atomic.Value
	env := newFormEnv(t, mutationHandler(t, &requests, &lastMethod, &lastPath))

	env.form.StartEdit(models.Media{
		ID:       7,
		Title:    "Inception",
		Type:     models.MediaTypeMovie,
		Director: "Nolan",
	})

	// Prefill carries the record's fields into the draft
	draft := env.form.Draft()
	if draft.Title != "Inception" || draft.Director != "Nolan" {
		t.Errorf("prefilled draft = %+v", draft)
	}

	if _, err := env.form.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if lastMethod.Load() != http.MethodPut || lastPath.Load() != "/api/media/7" {
		t.Errorf("request = %v %v, want PUT /api/media/7", lastMethod.Load(), lastPath.Load())
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	env := newFormEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "save failed"})
	}))

	env.form.StartCreate()
	env.form.SetFields(models.MediaDraft{
		Title:    "Inception",
		Type:     models.MediaTypeMovie,
		Director: "Nolan",
	})

	if _, err := env.form.Submit(context.Background()); err == nil {
		t.Fatal("expected submission failure")
	}

	// The editor keeps its state so the user can retry
	if env.form.Draft().Title != "Inception" {
		t.Error("draft discarded on failed submission")
	}
}

func TestPreviewSource(t *testing.T) {
	env := newFormEnv(t, http.NotFoundHandler())

	env.form.StartCreate()
	if got := env.form.PreviewSource(); got != "" {
		t.Errorf("blank editor preview = %q, want empty", got)
	}

	// Editing an existing record previews its stored image URL
	env.form.StartEdit(models.Media{
		ID:       3,
		Title:    "Alien",
		Type:     models.MediaTypeMovie,
		Director: "Scott",
		ImageURL: "https://cdn.example.com/alien.jpg",
	})
	if got := env.form.PreviewSource(); got != "https://cdn.example.com/alien.jpg" {
		t.Errorf("edit preview = %q", got)
	}

	// Selecting a new file switches the preview to its contents,
	// with no network round-trip
	png := append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)
	env.form.SetPoster("new.png", png)

	got := env.form.PreviewSource()
	if !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Errorf("file preview = %q, want data URL", got)
	}
}
