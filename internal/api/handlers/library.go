package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"mediadeck/internal/controllers"
	"mediadeck/internal/models"
	"mediadeck/internal/session"
)

// maxPosterMemory caps in-memory parsing of uploaded poster forms
const maxPosterMemory = 15 << 20

// LibraryHandler exposes the media list controller and form editor to
// the view layer: the filtered collection, pagination intents, and the
// create/edit/delete intents.
type LibraryHandler struct {
	session *session.Store
	list    *controllers.ListController
	form    *controllers.FormEditor
	logger  *logrus.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(sess *session.Store, list *controllers.ListController, form *controllers.FormEditor, logger *logrus.Logger) *LibraryHandler {
	return &LibraryHandler{session: sess, list: list, form: form, logger: logger}
}

// requireAuth gates library intents on an established session
func (h *LibraryHandler) requireAuth(w http.ResponseWriter) bool {
	if !h.session.IsAuthenticated() {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "sign in required"})
		return false
	}
	return true
}

// Collection handles /api/library: GET renders the filtered view,
// POST creates a record from a multipart form.
func (h *LibraryHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.renderList(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles /api/library/{id} and the pagination intents
// /api/library/more and /api/library/refresh.
func (h *LibraryHandler) Item(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/library/")

	switch rest {
	case "more":
		h.loadMore(w, r)
		return
	case "refresh":
		h.refresh(w, r)
		return
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// renderList applies the local search/type filter to the cached
// collection. Filtering never triggers a fetch.
func (h *LibraryHandler) renderList(w http.ResponseWriter, r *http.Request) {
	if !h.requireAuth(w) {
		return
	}

	query := r.URL.Query().Get("q")
	typeFilter := r.URL.Query().Get("type")
	if typeFilter == "" {
		typeFilter = models.TypeFilterAll
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":    h.list.Filtered(query, typeFilter),
		"page":    h.list.Page(),
		"hasMore": h.list.HasMore(),
		"loading": h.list.Loading(),
	})
}

func (h *LibraryHandler) loadMore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.requireAuth(w) {
		return
	}

	if err := h.list.LoadMore(r.Context()); err != nil {
		writeError(w, err, "Failed to load media")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page":    h.list.Page(),
		"hasMore": h.list.HasMore(),
		"count":   len(h.list.Items()),
	})
}

func (h *LibraryHandler) refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.requireAuth(w) {
		return
	}

	if err := h.list.Refresh(r.Context()); err != nil {
		writeError(w, err, "Failed to load media")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page":    h.list.Page(),
		"hasMore": h.list.HasMore(),
		"count":   len(h.list.Items()),
	})
}

func (h *LibraryHandler) create(w http.ResponseWriter, r *http.Request) {
	if !h.requireAuth(w) {
		return
	}

	h.form.StartCreate()
	if !h.fillFormFromRequest(w, r) {
		return
	}

	saved, err := h.form.Submit(r.Context())
	if err != nil {
		writeError(w, err, "Failed to save media")
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

func (h *LibraryHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	if !h.requireAuth(w) {
		return
	}

	var editing *models.Media
	for _, m := range h.list.Items() {
		if m.ID == id {
			target := m
			editing = &target
			break
		}
	}
	if editing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "media not found"})
		return
	}

	h.form.StartEdit(*editing)
	if !h.fillFormFromRequest(w, r) {
		return
	}

	saved, err := h.form.Submit(r.Context())
	if err != nil {
		writeError(w, err, "Failed to save media")
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

// delete requires an explicit confirm parameter; the confirmation
// prompt itself lives in whatever drives this API.
func (h *LibraryHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if !h.requireAuth(w) {
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "confirmation required"})
		return
	}

	if err := h.list.DeleteRecord(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete media")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": id,
		"count":   len(h.list.Items()),
	})
}

// fillFormFromRequest copies the multipart fields and optional poster
// file into the form editor. Returns false after writing an error.
func (h *LibraryHandler) fillFormFromRequest(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseMultipartForm(maxPosterMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid form submission"})
		return false
	}

	h.form.SetFields(models.MediaDraft{
		Title:    r.FormValue("title"),
		Type:     models.MediaType(r.FormValue("type")),
		Director: r.FormValue("director"),
		Budget:   r.FormValue("budget"),
		Location: r.FormValue("location"),
		Duration: r.FormValue("duration"),
		Year:     r.FormValue("year"),
	})

	file, header, err := r.FormFile("poster")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "failed to read poster upload"})
			return false
		}
		h.form.SetPoster(header.Filename, data)
	} else if err != http.ErrMissingFile {
		h.logger.WithError(err).Debug("No poster attached")
	}

	return true
}
