// Package session configures the server-side session manager.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

const (
	cookieName  = "roteiro_session"
	lifetime    = 24 * time.Hour
	idleTimeout = 2 * time.Hour
)

// New builds a session manager backed by the sessions table. Sessions expire
// after 24 hours, or after two idle hours, whichever comes first.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = lifetime
	sm.IdleTimeout = idleTimeout
	sm.Cookie.Name = cookieName
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}
