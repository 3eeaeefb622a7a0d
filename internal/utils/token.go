package utils // package utils provides helper functions for admin token creation

import (
	"crypto/rand"   // secure random number generation
	"crypto/subtle" // constant-time comparison for the admin password
	"encoding/hex"  // hex encoding for session identifiers
	"time"          // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AdminToken represents a signed JWT admin session token along with its
// session id and expiry.  The Token field contains the JWT string; SID is
// the random session identifier embedded in the claims and used to key
// session-scoped state such as the roster source override.
type AdminToken struct {
	Token string    // the serialized JWT string
	SID   string    // random session identifier (hex)
	Exp   time.Time // the UTC expiration time
}

// NewAdminToken builds and signs an HS256 JWT for an unlocked admin
// session.  The JWT includes the claims: sid (session id), role ("ADMIN"),
// expiration (exp) and issued at (iat).  ttlMin controls the lifetime in
// minutes.
func NewAdminToken(secret string, ttlMin int) (AdminToken, error) {
	sid, err := randomHex(16) // 16 bytes -> 32 hex chars
	if err != nil {
		return AdminToken{}, err
	}
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sid":  sid,
		"role": "ADMIN",
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AdminToken{}, err
	}
	return AdminToken{Token: signed, SID: sid, Exp: exp}, nil
}

// PasswordEqual compares the submitted admin password against the
// configured secret in constant time.  The secret is stored and compared as
// plaintext; there is no hashing, rate limiting or lockout in this design.
func PasswordEqual(submitted, secret string) bool {
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(secret)) == 1
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.  It is used to produce session
// identifiers.  If the random number generator fails, an error is returned.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
