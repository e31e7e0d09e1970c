package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"fixmycity/internal/model"
	"fixmycity/internal/storage"
)

// SessionManager owns the authenticated session: token and user are persisted
// and held in memory as a pair.
//
// Concurrent Login/Register calls are not coordinated and the last one to
// persist wins. persistMu spans each store write and the in-memory update
// that follows it, so the store and memory always agree on the winner.
type SessionManager struct {
	api    AuthAPI
	store  storage.SessionStore
	logger zerolog.Logger

	persistMu sync.Mutex

	mu      sync.RWMutex
	session model.Session
	loading int
	checked bool
}

func NewSessionManager(api AuthAPI, store storage.SessionStore, logger zerolog.Logger) *SessionManager {
	return &SessionManager{
		api:    api,
		store:  store,
		logger: logger.With().Str("component", "Session").Logger(),
	}
}

// Register creates an account and signs in with it.
func (m *SessionManager) Register(ctx context.Context, req model.RegisterRequest) (*model.Session, error) {
	m.beginLoading()
	defer m.endLoading()

	resp, err := m.api.Register(ctx, req)
	if err != nil {
		m.logger.Warn().Err(err).Str("email", req.Email).Msg("Register FAILED")
		return nil, fmt.Errorf("register: %w", err)
	}

	session, err := m.adopt(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	m.logger.Info().Str("user_id", session.User.ID).Msg("Register OK")
	return session, nil
}

// Login signs in with email and password. A failed login leaves any prior
// session untouched.
func (m *SessionManager) Login(ctx context.Context, req model.LoginRequest) (*model.Session, error) {
	m.beginLoading()
	defer m.endLoading()

	resp, err := m.api.Login(ctx, req)
	if err != nil {
		m.logger.Warn().Err(err).Str("email", req.Email).Msg("Login FAILED")
		return nil, fmt.Errorf("login: %w", err)
	}

	session, err := m.adopt(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	m.logger.Info().Str("user_id", session.User.ID).Msg("Login OK")
	return session, nil
}

// adopt persists the pair and then makes it the in-memory session.
func (m *SessionManager) adopt(ctx context.Context, resp *model.AuthResponse) (*model.Session, error) {
	if resp == nil || resp.Token == "" || resp.User == nil {
		return nil, model.ErrIncompleteAuthResponse
	}

	user, err := json.Marshal(resp.User)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}

	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	if err := m.store.Save(ctx, resp.Token, user); err != nil {
		m.logger.Error().Err(err).Msg("persist session FAILED")
		return nil, fmt.Errorf("persist session: %w", err)
	}

	session := model.Session{Token: resp.Token, User: resp.User}

	m.mu.Lock()
	m.session = session
	m.mu.Unlock()

	return &session, nil
}

// CheckSession restores the persisted session. Corrupt or half-written state
// is cleared and reported as logged out; read failures are logged only.
func (m *SessionManager) CheckSession(ctx context.Context) model.Session {
	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	defer func() {
		m.mu.Lock()
		m.checked = true
		m.mu.Unlock()
	}()

	session, err := m.restore(ctx)
	if err != nil {
		if errors.Is(err, model.ErrCorruptSession) {
			m.logger.Warn().Err(err).Msg("CheckSession: clearing corrupt session")
			if clearErr := m.store.Clear(ctx); clearErr != nil {
				m.logger.Error().Err(clearErr).Msg("CheckSession: clear FAILED")
			}
		} else {
			m.logger.Error().Err(err).Msg("CheckSession FAILED")
		}
		session = model.Session{}
	}

	m.mu.Lock()
	m.session = session
	m.mu.Unlock()

	if session.IsLoggedIn() {
		m.logger.Debug().Str("user_id", session.User.ID).Msg("CheckSession OK")
	}
	return session
}

func (m *SessionManager) restore(ctx context.Context) (model.Session, error) {
	token, raw, err := m.store.Load(ctx)
	if err != nil {
		return model.Session{}, err
	}
	if token == "" && len(raw) == 0 {
		return model.Session{}, nil
	}

	var user *model.UserProfile
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &user); err != nil {
			return model.Session{}, fmt.Errorf("%w: user: %v", model.ErrCorruptSession, err)
		}
	}

	session := model.Session{Token: token, User: user}
	if !session.IsLoggedIn() {
		return model.Session{}, fmt.Errorf("%w: token and user must both be present", model.ErrCorruptSession)
	}
	return session, nil
}

// LogOut clears the session. Store failures are logged only; the in-memory
// session is cleared regardless, and calling it again is harmless.
func (m *SessionManager) LogOut(ctx context.Context) {
	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error().Err(err).Msg("LogOut: clear FAILED")
	}

	m.mu.Lock()
	m.session = model.Session{}
	m.mu.Unlock()

	m.logger.Info().Msg("LogOut OK")
}

// Session returns a copy of the current session.
func (m *SessionManager) Session() model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Token implements TokenSource.
func (m *SessionManager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token
}

func (m *SessionManager) IsLoggedIn() bool {
	return m.Session().IsLoggedIn()
}

// IsLoading reports whether a Login or Register call is in flight.
func (m *SessionManager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading > 0
}

// Checked reports whether CheckSession has completed at least once.
func (m *SessionManager) Checked() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.checked
}

func (m *SessionManager) beginLoading() {
	m.mu.Lock()
	m.loading++
	m.mu.Unlock()
}

func (m *SessionManager) endLoading() {
	m.mu.Lock()
	m.loading--
	m.mu.Unlock()
}
