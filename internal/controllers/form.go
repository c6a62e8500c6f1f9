package controllers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"mediadeck/internal/apperrors"
	"mediadeck/internal/models"
	"mediadeck/internal/services/catalog"
	"mediadeck/internal/session"
)

// FormEditor builds one multipart submission from the typed fields plus
// an optional poster image, and routes it to create or update depending
// on whether an existing record is being edited.
type FormEditor struct {
	client   *catalog.Client
	session  *session.Store
	list     *ListController
	validate *validator.Validate
	logger   *logrus.Logger

	mu      sync.Mutex
	draft   models.MediaDraft
	editing *models.Media
}

// NewFormEditor creates a new form editor
func NewFormEditor(client *catalog.Client, sess *session.Store, list *ListController, logger *logrus.Logger) *FormEditor {
	return &FormEditor{
		client:   client,
		session:  sess,
		list:     list,
		validate: validator.New(),
		logger:   logger,
		draft:    blankDraft(),
	}
}

func blankDraft() models.MediaDraft {
	return models.MediaDraft{Type: models.MediaTypeMovie}
}

// StartCreate resets the editor for a new record
func (e *FormEditor) StartCreate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.editing = nil
	e.draft = blankDraft()
}

// StartEdit prefills the editor from an existing record
func (e *FormEditor) StartEdit(media models.Media) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := media
	e.editing = &m
	e.draft = models.MediaDraft{
		Title:    media.Title,
		Type:     media.Type,
		Director: media.Director,
		Budget:   media.Budget,
		Location: media.Location,
		Duration: media.Duration,
		Year:     media.Year,
	}
}

// SetFields replaces the text fields of the draft
func (e *FormEditor) SetFields(draft models.MediaDraft) {
	e.mu.Lock()
	defer e.mu.Unlock()

	poster, posterName := e.draft.Poster, e.draft.PosterName
	e.draft = draft
	if draft.PosterName == "" {
		e.draft.Poster, e.draft.PosterName = poster, posterName
	}
}

// SetPoster attaches a newly selected image file to the draft
func (e *FormEditor) SetPoster(name string, data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.PosterName = name
	e.draft.Poster = data
}

// PreviewSource returns what the poster preview should display: a data
// URL built from the newly selected file when one is set, otherwise the
// existing record's image URL. No network round-trip either way.
func (e *FormEditor) PreviewSource() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft.PosterName != "" {
		mimeType := http.DetectContentType(e.draft.Poster)
		return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(e.draft.Poster))
	}
	if e.editing != nil {
		return e.editing.ImageURL
	}
	return ""
}

// Draft returns a copy of the current draft
func (e *FormEditor) Draft() models.MediaDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Editing returns the record under edit, nil in create mode
func (e *FormEditor) Editing() *models.Media {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing == nil {
		return nil
	}
	m := *e.editing
	return &m
}

// Submit validates the draft, sends it as one multipart request and, on
// success, triggers the full page-1 refresh and resets the editor.
// Validation failures block the submission before any request is sent.
func (e *FormEditor) Submit(ctx context.Context) (*models.Media, error) {
	e.mu.Lock()
	draft := e.draft
	editing := e.editing
	e.mu.Unlock()

	if err := e.validate.Struct(&draft); err != nil {
		fields := make(map[string]string)
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			for _, fe := range invalid {
				fields[fe.Field()] = "is required or invalid"
			}
		} else {
			fields["form"] = err.Error()
		}
		e.logger.WithField("fields", fields).Debug("Form submission blocked by validation")
		return nil, &apperrors.ValidationError{Fields: fields}
	}

	var (
		saved *models.Media
		err   error
	)
	if editing != nil {
		saved, err = e.client.UpdateMedia(ctx, e.session.Token(), editing.ID, &draft)
	} else {
		saved, err = e.client.CreateMedia(ctx, e.session.Token(), &draft)
	}
	if err != nil {
		e.logger.WithError(err).Error("Failed to save media")
		return nil, err
	}

	if err := e.list.Refresh(ctx); err != nil {
		e.logger.WithError(err).Warn("Saved media but failed to refresh list")
	}

	e.mu.Lock()
	e.editing = nil
	e.draft = blankDraft()
	e.mu.Unlock()

	e.logger.WithFields(logrus.Fields{
		"id":    saved.ID,
		"title": saved.Title,
	}).Info("Media saved")

	return saved, nil
}
