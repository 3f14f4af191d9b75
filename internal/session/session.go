// Package session simulates signing in to the local workspace. Any
// credentials are accepted; the signed-in user is persisted so the next run
// remembers it.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tgienger/crm/internal/kv"
	"github.com/tgienger/crm/internal/models"
)

// UserKey is the storage key of the signed-in user.
const UserKey = "crm_user"

// DemoUser is the account every login resolves to.
var DemoUser = models.User{
	ID:     "1",
	Name:   "John Smith",
	Email:  "john.smith@company.com",
	Role:   "Sales Manager",
	Avatar: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=32&h=32&fit=crop&crop=face",
}

// Session reads and writes the signed-in user.
type Session struct {
	kv  kv.Store
	log zerolog.Logger
}

// New creates a Session over backend. A nil logger disables logging.
func New(backend kv.Store, log *zerolog.Logger) *Session {
	s := &Session{kv: backend, log: zerolog.Nop()}
	if log != nil {
		s.log = log.With().Str("component", "session").Logger()
	}
	return s
}

// Login stores user as the signed-in user.
func (s *Session) Login(user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.kv.Write(UserKey, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.log.Info().Str("user_id", user.ID).Msg("signed in")
	return nil
}

// Logout forgets the signed-in user.
func (s *Session) Logout() error {
	if err := s.kv.Delete(UserKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Info().Msg("signed out")
	return nil
}

// Current returns the signed-in user. A missing, unreadable or corrupt
// session means nobody is signed in.
func (s *Session) Current() (models.User, bool) {
	data, ok, err := s.kv.Read(UserKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("session unavailable")
		return models.User{}, false
	}
	if !ok || len(data) == 0 {
		return models.User{}, false
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.log.Warn().Err(err).Msg("corrupt session")
		return models.User{}, false
	}
	return user, true
}

// IsAuthenticated reports whether somebody is signed in.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}
