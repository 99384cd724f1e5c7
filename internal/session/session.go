// Package session holds client-side authentication state: whether a user is
// signed in, whether that is still being resolved, and the bearer token the
// REST client sends. Consumers subscribe to transitions instead of polling.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/shilpkaar/marketplace-api/internal/client"
)

// State is a snapshot of the authentication status.
type State struct {
	Authenticated bool
	// Loading is true while the status is being resolved (startup, login).
	Loading bool
	UserID  string
	Email   string
	Role    string
}

// Listener observes a transition. It runs synchronously on the goroutine that
// changed the state and must not call back into the session's mutators.
type Listener func(prev, next State)

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (client.AuthResult, error)
}

// Resolver looks up the account behind the current token.
type Resolver interface {
	Me(ctx context.Context) (client.User, error)
}

// Session is safe for concurrent use. The zero value is not usable; call New.
type Session struct {
	notifyMu sync.Mutex // serializes transitions so listeners see them in order

	mu     sync.RWMutex
	st     State
	token  string
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn Listener
}

// New returns a session whose status is still being resolved.
func New() *Session {
	return &Session{st: State{Loading: true}}
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st
}

// Token returns the bearer token, or "" when signed out. It is the token
// source handed to client.WithToken.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subscribe registers fn for future transitions and returns a function that
// removes it.
func (s *Session) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Begin marks the status as being resolved. Identity and token are kept.
func (s *Session) Begin() {
	s.transition(func(st *State, _ *string) { st.Loading = true })
}

// SignIn records a resolved, authenticated user.
func (s *Session) SignIn(token string, u client.User) {
	s.transition(func(st *State, tok *string) {
		*st = State{Authenticated: true, UserID: u.ID, Email: u.Email, Role: u.Role}
		*tok = token
	})
}

// SignOut drops the token and identity.
func (s *Session) SignOut() {
	s.transition(func(st *State, tok *string) {
		*st = State{}
		*tok = ""
	})
}

// Login resolves the session through a credential exchange. On failure the
// session ends signed out and the error is returned.
func (s *Session) Login(ctx context.Context, a Authenticator, email, password string) (client.User, error) {
	s.Begin()
	res, err := a.Login(ctx, email, password)
	if err != nil {
		s.SignOut()
		return client.User{}, err
	}
	s.SignIn(res.Token, res.User)
	return res.User, nil
}

// Restore outcomes that leave the session signed out.
var (
	ErrNoToken       = errors.New("session: no stored token")
	ErrTokenRejected = errors.New("session: stored token rejected")
)

// Restore resolves the session from a previously issued token by asking the
// server who it belongs to. Every failure ends signed out.
func (s *Session) Restore(ctx context.Context, r Resolver, token string) (client.User, error) {
	if token == "" {
		s.SignOut()
		return client.User{}, ErrNoToken
	}
	s.transition(func(st *State, tok *string) {
		st.Loading = true
		*tok = token
	})
	u, err := r.Me(ctx)
	switch {
	case err == nil:
		s.SignIn(token, u)
		return u, nil
	case client.IsStatus(err, http.StatusUnauthorized):
		s.SignOut()
		return client.User{}, ErrTokenRejected
	default:
		s.SignOut()
		return client.User{}, err
	}
}

func (s *Session) transition(mutate func(st *State, token *string)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	prev := s.st
	mutate(&s.st, &s.token)
	next := s.st
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if prev == next {
		return
	}
	for _, sub := range subs {
		sub.fn(prev, next)
	}
}
