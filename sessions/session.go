// Package sessions holds the client-side identity derived from the access
// token cookie. The session is a UI convenience: authorisation decisions are
// always re-validated by the backend.
package sessions

// Role values issued by the backend.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Session is the identity the client displays and routes on.
type Session struct {
	Username string // Token "sub" claim or login response username
	Role     string // RoleAdmin, RoleUser or "" when unresolved
	ID       string // User ID from the token "id" claim
}

// Resolved reports whether a role has been established.
func (s Session) Resolved() bool {
	return s.Role != ""
}

// Reader is the read side of a session store.
type Reader interface {
	Get() Session
}

// Writer is the write side of a session store. Writes are last-writer-wins.
type Writer interface {
	UpdateRole(role string)
	UpdateUsername(username string)
	UpdateID(id string)
	Set(s Session)
	Clear()
}

// Store is the injected session service shared by the guard and services.
type Store interface {
	Reader
	Writer
}
