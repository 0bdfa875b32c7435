// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// Auth verifies an optional HS256 Bearer token issued upstream. A valid token
// stores its subject under "userID"; the chat limiter and idempotency records
// are then keyed by user rather than IP.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	userIDKey    = "userID"
	bearerPrefix = "bearer "
)

// MaxSubjectLen bounds the token subject in bytes so that derived client
// keys, session keys and idempotency user ids fit their columns.
const MaxSubjectLen = 100

// AuthOptions configures Auth.
type AuthOptions struct {
	Secret   []byte // HS256 key; empty disables token parsing
	Required bool   // reject requests without a valid token
}

// UserID returns the authenticated subject, or "".
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// Auth returns the Bearer token middleware.
//
// With no secret every request stays anonymous, unless Required is set, in
// which case all requests are rejected. A malformed or expired token is
// always a 401; a missing one only when Required.
func Auth(opts AuthOptions) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFn := func(*jwt.Token) (interface{}, error) { return opts.Secret, nil }

	return func(c *gin.Context) {
		raw, present := bearerToken(c.GetHeader("Authorization"))
		if !present || len(opts.Secret) == 0 {
			if opts.Required {
				unauthorized(c, "missing bearer token")
				return
			}
			c.Next()
			return
		}

		var claims jwt.RegisteredClaims
		tok, err := parser.ParseWithClaims(raw, &claims, keyFn)
		if err == nil && (!tok.Valid || strings.TrimSpace(claims.Subject) == "") {
			err = errors.New("token missing subject")
		}
		if err == nil && len(claims.Subject) > MaxSubjectLen {
			err = errors.New("token subject too long")
		}
		if err != nil {
			LoggerFrom(c).Debug().Err(err).Msg("bearer token rejected")
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Next()
	}
}

func bearerToken(h string) (string, bool) {
	if len(h) < len(bearerPrefix) || !strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(h[len(bearerPrefix):])
	return raw, raw != ""
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="academic-api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": RequestIDFrom(c),
		"code":       "unauthorized",
		"message":    msg,
	})
}
