package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// MakeAccess mints the site credential: HS256, uid/email/role claims, expiry
// at issuance time plus ttl.
func MakeAccess(secret, uid, email, role string, ttl time.Duration) (string, error) {
	c := Claims{
		UID: uid, Email: email, Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			Subject:   uid,
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

// ParseAccess cryptographically verifies signature and expiry and returns the
// claims. Fails closed: any malformed structure, signature mismatch or past
// expiry yields an error, never partial claims. This is the authoritative
// check; every state-touching handler must go through it.
func ParseAccess(secret, token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid token")
	}
	return c, nil
}

// DecodeUnverified decodes the payload without checking the signature. It
// exists only for the edge gate's redirect decisions: a tampered but
// structurally valid token passes here and must be caught by ParseAccess
// downstream. Keep the two entry points distinct so the trust boundary stays
// visible.
func DecodeUnverified(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
