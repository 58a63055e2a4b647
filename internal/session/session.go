// Package session holds the operator's authentication state for the lifetime
// of the process.
//
// A Store starts out resolving. Initialize settles that once by checking the
// credential slot; Login and Register authenticate against the backend and
// persist its token; Logout forgets both. Only the token is persisted: the
// identity is never rebuilt from it, so a restarted process is signed out
// until the next login even when a valid token is still stored.
package session

// Role is the local authorization role of an identity
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a backend role string to a local Role.
// Only the exact string "admin" grants admin; anything else is a user.
func ParseRole(remote string) Role {
	if remote == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// Identity is the local representation of the signed-in backend user
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session is a point-in-time view of the authentication state.
// Identity is nil whenever Authenticated is false.
type Session struct {
	Authenticated       bool      `json:"authenticated"`
	Identity            *Identity `json:"identity,omitempty"`
	LoadingInitialState bool      `json:"loading"`
}

// IsAdmin reports whether the session belongs to an authenticated admin
func (s Session) IsAdmin() bool {
	return s.Authenticated && s.Identity != nil && s.Identity.Role == RoleAdmin
}

// clone returns a copy that shares no memory with s
func (s Session) clone() Session {
	if s.Identity != nil {
		identity := *s.Identity
		s.Identity = &identity
	}
	return s
}
