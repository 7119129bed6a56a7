package session

import (
	"time"
)

// Source records how a session was obtained.
type Source string

const (
	// SourceCookie sessions are read from the embedded browser's auth cookies.
	SourceCookie Source = "cookie"
	// SourceManual sessions are supplied directly, e.g. by an operator.
	SourceManual Source = "manual"
)

// Session is an authenticated storefront identity.
type Session struct {
	// AccessToken is the bearer credential (the SUAT cookie value, JWT shaped).
	AccessToken string
	// MemberNo is the numeric account id scoping the owned-games query.
	MemberNo  int64
	IssuedVia Source
	// ExpiresAt is zero when the token carried no readable expiry.
	ExpiresAt time.Time
}

// Valid reports whether the session may be used at now: it carries a token
// and a member number and is not past a known expiry.
func (s Session) Valid(now time.Time) bool {
	if s.AccessToken == "" || s.MemberNo <= 0 {
		return false
	}
	return !s.IsExpired(now)
}

// IsExpired reports whether a known expiry has passed. Unknown expiry never
// expires here; the next API call decides.
func (s Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// IsZero reports whether s is the empty session.
func (s Session) IsZero() bool {
	return s.AccessToken == "" && s.MemberNo == 0
}
