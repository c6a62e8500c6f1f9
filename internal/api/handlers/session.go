package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"mediadeck/internal/session"
)

// SessionHandler exposes the session store to the view layer: current
// state plus the register/login/logout intents.
type SessionHandler struct {
	session *session.Store
	logger  *logrus.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sess *session.Store, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{session: sess, logger: logger}
}

// State handles GET /api/session
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":            h.session.User(),
		"isAuthenticated": h.session.IsAuthenticated(),
		"isLoading":       h.session.IsLoading(),
	})
}

// Register handles POST /api/session/register. Registration does not
// log the user in; the response says so explicitly.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	if err := h.session.Register(r.Context(), body.Name, body.Email, body.Password); err != nil {
		writeError(w, err, "Failed to register")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":         "Account created, please sign in",
		"isAuthenticated": false,
	})
}

// Login handles POST /api/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	if err := h.session.Login(r.Context(), body.Email, body.Password); err != nil {
		writeError(w, err, "Failed to sign in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":            h.session.User(),
		"isAuthenticated": true,
	})
}

// Logout handles POST /api/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.session.Logout(r.Context())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"isAuthenticated": false,
	})
}
