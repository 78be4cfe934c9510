package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/financaspro/finance-core/internal/domain/entity"
	"github.com/financaspro/finance-core/internal/domain/repository"
	domainsvc "github.com/financaspro/finance-core/internal/domain/service"
)

// ErrSessionInvalid is returned by Verify when the backend explicitly
// rejects the held token. The session has already been cleared.
var ErrSessionInvalid = errors.New("session is no longer valid, sign in again")

// SessionListener is notified after every session transition. A nil
// session means the user is logged out. Listeners run outside the
// service's lock.
type SessionListener func(session *entity.Session)

// SessionSource is the read and escalation surface other components use.
// *SessionService satisfies it.
type SessionSource interface {
	Current() *entity.Session
	Generation() uint64
	ForceLogout()
	Subscribe(fn SessionListener)
}

// SessionService owns the authentication token and user identity. All
// writes to persisted token storage happen here and nowhere else.
type SessionService struct {
	api   domainsvc.FinanceAPI
	prefs repository.PreferenceStore
	log   zerolog.Logger

	mu         sync.Mutex
	session    *entity.Session
	generation uint64
	listeners  []SessionListener
}

// NewSessionService creates a session manager. Any token persisted by a
// previous run is picked up lazily by Verify; construction itself does no
// I/O against the backend.
func NewSessionService(api domainsvc.FinanceAPI, prefs repository.PreferenceStore, log zerolog.Logger) *SessionService {
	return &SessionService{
		api:   api,
		prefs: prefs,
		log:   log.With().Str("component", "session").Logger(),
	}
}

// Current returns a copy of the active session, or nil when logged out.
func (s *SessionService) Current() *entity.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// Generation returns the session generation counter. It is bumped on every
// login and logout so in-flight operations can detect that their result
// belongs to a session that no longer exists.
func (s *SessionService) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Subscribe registers a listener for session transitions.
func (s *SessionService) Subscribe(fn SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Login submits credentials to the backend and establishes a session on
// success. On failure the existing session state is left untouched and a
// discriminated AuthError is returned.
func (s *SessionService) Login(ctx context.Context, username, password string) (*entity.Session, error) {
	result, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("login failed")
		return nil, err
	}
	if result.Token == "" {
		return nil, &entity.AuthError{
			Kind:    entity.AuthMalformedResponse,
			Message: "the server returned an unexpected login response",
		}
	}

	session := &entity.Session{User: result.User, Token: result.Token}

	s.mu.Lock()
	s.session = session
	s.generation++
	if err := s.prefs.SetToken(result.Token); err != nil {
		// The in-memory session is still valid; only restart survival is lost.
		s.log.Warn().Err(err).Msg("could not persist token")
	}
	listeners := append([]SessionListener(nil), s.listeners...)
	s.mu.Unlock()

	s.log.Info().Str("username", result.User.Username).Msg("session established")
	notify(listeners, session)

	copied := *session
	return &copied, nil
}

// Verify checks the held token against the backend. Three outcomes:
//
//   - valid: the session (possibly refreshed user fields) is returned;
//   - explicit rejection: the session is cleared, persisted token removed,
//     and ErrSessionInvalid returned;
//   - transport failure: session state is left untouched and the transient
//     error is surfaced so the caller can retry later.
//
// With no active session and no persisted token, Verify returns (nil, nil).
func (s *SessionService) Verify(ctx context.Context) (*entity.Session, error) {
	s.mu.Lock()
	gen := s.generation
	token := ""
	if s.session != nil {
		token = s.session.Token
	}
	s.mu.Unlock()

	if token == "" {
		persisted, err := s.prefs.Token()
		if err != nil {
			return nil, err
		}
		token = persisted
	}
	if token == "" {
		return nil, nil
	}

	result, err := s.api.VerifyToken(ctx, token)
	if err != nil {
		if entity.IsUnauthorized(err) {
			s.log.Info().Msg("token rejected by backend, logging out")
			s.Logout()
			return nil, ErrSessionInvalid
		}
		// Network and server failures are transient; a flaky connection
		// must not log the user out.
		s.log.Warn().Err(err).Msg("token verification unavailable")
		return s.Current(), err
	}
	if !result.Valid {
		s.log.Info().Msg("token no longer valid, logging out")
		s.Logout()
		return nil, ErrSessionInvalid
	}

	session := &entity.Session{User: result.User, Token: token}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return nil, entity.ErrStaleOperation
	}
	s.session = session
	if err := s.prefs.SetToken(token); err != nil {
		s.log.Warn().Err(err).Msg("could not persist token")
	}
	listeners := append([]SessionListener(nil), s.listeners...)
	s.mu.Unlock()

	notify(listeners, session)

	copied := *session
	return &copied, nil
}

// Logout clears the session and the persisted token. It is idempotent and
// safe to call with no active session.
func (s *SessionService) Logout() {
	s.mu.Lock()
	hadSession := s.session != nil
	s.session = nil
	s.generation++
	if err := s.prefs.ClearToken(); err != nil {
		s.log.Warn().Err(err).Msg("could not clear persisted token")
	}
	listeners := append([]SessionListener(nil), s.listeners...)
	s.mu.Unlock()

	if hadSession {
		s.log.Info().Msg("session cleared")
	}
	notify(listeners, nil)
}

// ForceLogout is the escalation path for an Unauthorized response on any
// authenticated call.
func (s *SessionService) ForceLogout() {
	s.log.Info().Msg("forced logout after unauthorized response")
	s.Logout()
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Register creates a new account. All fields are validated locally before
// the backend is contacted.
func (s *SessionService) Register(ctx context.Context, reg domainsvc.Registration) error {
	for field, value := range map[string]string{
		"firstName": reg.FirstName,
		"lastName":  reg.LastName,
		"username":  reg.Username,
		"email":     reg.Email,
		"password":  reg.Password,
	} {
		if strings.TrimSpace(value) == "" {
			return &entity.ValidationError{Field: field, Kind: entity.ValidationEmptyField,
				Message: "all fields are required"}
		}
	}
	if !emailPattern.MatchString(reg.Email) {
		return &entity.ValidationError{Field: "email", Kind: entity.ValidationEmptyField,
			Message: "a valid email address is required"}
	}
	if len(reg.Password) < 6 {
		return &entity.ValidationError{Field: "password", Kind: entity.ValidationEmptyField,
			Message: "the password must be at least 6 characters"}
	}

	if err := s.api.Register(ctx, reg); err != nil {
		s.log.Warn().Err(err).Str("username", reg.Username).Msg("registration failed")
		return err
	}
	s.log.Info().Str("username", reg.Username).Msg("account registered")
	return nil
}

func notify(listeners []SessionListener, session *entity.Session) {
	for _, fn := range listeners {
		fn(session)
	}
}
