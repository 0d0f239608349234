// Package user defines the locally remembered sign-in session.
package user

import "strings"

// Session is the signed-in identity. The zero value means nobody is signed in.
type Session struct {
	email string
}

// NewSession normalizes email and returns the session for it. A blank
// email yields the zero session.
func NewSession(email string) Session {
	return Session{email: NormalizeEmail(email)}
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Email returns the session email and whether a session is active.
func (s Session) Email() (string, bool) {
	return s.email, s.email != ""
}

// Active reports whether somebody is signed in.
func (s Session) Active() bool {
	return s.email != ""
}

func (s Session) String() string {
	if s.email == "" {
		return "anonymous"
	}
	return s.email
}
