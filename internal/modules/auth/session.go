package auth

import (
	"context"
	"sync"
)

// Session holds the bearer token and a cached user id so cart operations do
// not hit /auth/me on every call. It doubles as the rest.TokenSource for
// every gateway sharing the session.
type Session struct {
	mu     sync.Mutex
	token  string
	userID string
	user   *User

	client *Client
}

func NewSession(client *Client) *Session {
	return &Session{client: client}
}

// Bind attaches the identity client after construction. The session is the
// token source for the REST client the identity client is built on, so the
// two cannot be constructed in one step.
func (s *Session) Bind(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = client
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Establish records a fresh login.
func (s *Session) Establish(token string, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.userID = user.ID
	u := user
	s.user = &u
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.userID = ""
	s.user = nil
}

// Authenticated reports whether a token is present at all. It says nothing
// about whether the server still honors it.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// CurrentUserID returns the authenticated user's id, resolving and caching
// it through /auth/me on first use. An expired session surfaces as an error
// here; callers must not silently degrade to guest behavior.
func (s *Session) CurrentUserID(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return "", false, nil
	}
	if s.userID != "" {
		id := s.userID
		s.mu.Unlock()
		return id, true, nil
	}
	s.mu.Unlock()

	u, err := s.client.Me(ctx)
	if err != nil {
		return "", true, err
	}

	s.mu.Lock()
	s.userID = u.ID
	s.user = u
	s.mu.Unlock()
	return u.ID, true, nil
}

// CurrentUser returns the cached user, if any.
func (s *Session) CurrentUser() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}
