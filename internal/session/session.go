// Package session tracks the logged-in account across requests with a
// signed cookie store.
package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	cookieName = "reelcut_session"
	emailKey   = "email"
)

type Manager struct {
	store *sessions.CookieStore
}

func NewManager(secret string) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// SignIn records the account email in the session cookie.
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, email string) error {
	session, _ := m.store.Get(r, cookieName)
	session.Values[emailKey] = email
	return session.Save(r, w)
}

// SignOut clears the session cookie.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, cookieName)
	delete(session.Values, emailKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// CurrentEmail returns the logged-in email, or "" when the request is
// anonymous.
func (m *Manager) CurrentEmail(r *http.Request) string {
	session, err := m.store.Get(r, cookieName)
	if err != nil {
		return ""
	}
	email, _ := session.Values[emailKey].(string)
	return email
}
