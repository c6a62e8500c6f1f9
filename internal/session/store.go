// Package session holds the authenticated-identity state of the client.
// Token and user always move together: a settled session is either fully
// authenticated (both set, persisted durably) or fully cleared.
package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"mediadeck/internal/models"
	"mediadeck/internal/services/catalog"
)

// Store is the session state machine. It is constructed once, rehydrated
// from the durable store, and passed explicitly to components that need
// auth status.
type Store struct {
	client *catalog.Client
	db     *models.Database
	logger *logrus.Logger

	mu            sync.Mutex
	user          *models.User
	token         string
	authenticated bool
	loading       bool
}

// NewStore creates the session store and rehydrates any persisted session
func NewStore(client *catalog.Client, db *models.Database, logger *logrus.Logger) (*Store, error) {
	token, user, err := db.LoadSession()
	if err != nil {
		return nil, err
	}

	s := &Store{
		client: client,
		db:     db,
		logger: logger,

		user:          user,
		token:         token,
		authenticated: token != "",
	}

	if s.authenticated {
		logger.WithField("user", userName(user)).Info("Session restored from local storage")
	}

	return s, nil
}

// Register creates an account but deliberately does not establish a
// session: any token the server returns is discarded and the stored
// session is cleared, so the user signs in explicitly afterwards.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if _, err := s.client.Signup(ctx, name, email, password); err != nil {
		s.logger.WithError(err).Warn("Registration failed")
		return err
	}

	if err := s.db.ClearSession(); err != nil {
		s.logger.WithError(err).Error("Failed to clear stored session after registration")
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.authenticated = false
	s.mu.Unlock()

	s.logger.WithField("email", email).Info("Account registered")
	return nil
}

// Login exchanges credentials for a session. On failure the store keeps
// its prior state.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.logger.WithError(err).Warn("Login failed")
		return err
	}

	user := resp.User
	if err := s.db.SaveSession(resp.Token, &user); err != nil {
		s.logger.WithError(err).Error("Failed to persist session")
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.token = resp.Token
	s.authenticated = true
	s.mu.Unlock()

	s.logger.WithField("user", user.Name).Info("Logged in")
	return nil
}

// Logout clears the session locally no matter what. The remote logout
// call is best-effort; its failure never keeps the session alive.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token != "" {
		if err := s.client.Logout(ctx, token); err != nil {
			s.logger.WithError(err).Debug("Remote logout failed, clearing local session anyway")
		}
	}

	s.clear()
	s.logger.Info("Logged out")
}

// CheckAuth re-validates the persisted token against the server. With no
// token it settles immediately to unauthenticated. Any failure clears the
// whole session: identity fails closed.
func (s *Store) CheckAuth(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == "" {
		s.clear()
		return nil
	}

	user, err := s.client.Me(ctx, token)
	if err != nil {
		s.logger.WithError(err).Warn("Auth check failed, clearing session")
		s.clear()
		return err
	}

	if err := s.db.SaveSession(token, user); err != nil {
		s.logger.WithError(err).Error("Failed to persist refreshed session")
	}

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.mu.Unlock()

	s.logger.WithField("user", user.Name).Debug("Session re-validated")
	return nil
}

// clear wipes both the durable and the in-memory session as a pair
func (s *Store) clear() {
	if err := s.db.ClearSession(); err != nil {
		s.logger.WithError(err).Error("Failed to clear stored session")
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.authenticated = false
	s.mu.Unlock()
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Token returns the current bearer token, empty when unauthenticated
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the current user, nil when unauthenticated
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a session is established
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// IsLoading reports whether a session operation is in flight
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func userName(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Name
}
