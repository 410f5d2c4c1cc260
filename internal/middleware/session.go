// session.go issues and verifies the signed session cookie.
//
// The cookie carries only a session ID wrapped in an HMAC-signed token
// (HS256). All real state stays server side; the signature stops a
// client from minting IDs or guessing another browser's session.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the name of the cookie carrying the signed ID.
const SessionCookie = "pdfreplace_session"

const sessionContextKey = "session_id"

// SessionClaims wraps a session ID in registered JWT claims so the
// token expires with the server-side session.
type SessionClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// SignSessionID wraps the session ID in a signed token valid for ttl.
func SignSessionID(id, secret string, ttl time.Duration) (string, error) {
	claims := SessionClaims{
		SessionID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   id,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionID validates a signed token and returns the session ID
// inside it.
func ParseSessionID(tokenString, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims.SessionID, nil
	}
	return "", jwt.ErrSignatureInvalid
}

// ResolveSession returns middleware that reads the session cookie and,
// when the signature checks out, stores the session ID in the request
// context. Requests without a valid cookie pass through anonymous —
// the pages are public, and handlers create a session the first time
// they need one.
func ResolveSession(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(SessionCookie); err == nil {
			if id, err := ParseSessionID(raw, secret); err == nil {
				c.Set(sessionContextKey, id)
			}
		}
		c.Next()
	}
}

// SessionID retrieves the resolved session ID from the request context,
// or "" when the request arrived anonymous.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}

// SetSessionCookie signs the ID and attaches the cookie to the
// response. HttpOnly keeps scripts away from the token; SameSite=Lax
// still lets the download link work from the results page.
func SetSessionCookie(c *gin.Context, id, secret string, ttl time.Duration) error {
	token, err := SignSessionID(id, secret, ttl)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", false, true)
	return nil
}
