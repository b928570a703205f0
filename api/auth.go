package api

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/Domenick1991/trainticket/internal/domain"
	"github.com/Domenick1991/trainticket/internal/upstream"
	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	ctxKeySubject = "sub"
	ctxKeyRoles   = "roles"

	roleAdmin = "ROLE_ADMIN"
)

// Claims is the token body issued by the auth service.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

var errInvalidToken = errors.New("invalid token")

func parseToken(secret []byte, raw string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, errInvalidToken
	}
	return c, nil
}

// JWTAuth rejects requests without a valid bearer token and forwards the
// header to upstream calls made for the request.
func JWTAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, domain.Fail[domain.OrderSummary]("missing bearer token"))
			return
		}
		claims, err := parseToken(key, strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, domain.Fail[domain.OrderSummary]("invalid token"))
			return
		}
		c.Set(ctxKeySubject, claims.Subject)
		c.Set(ctxKeyRoles, claims.Roles)
		c.Request = c.Request.WithContext(upstream.WithAuthorization(c.Request.Context(), h))
		c.Next()
	}
}

// caller returns the token subject and whether it may act for other accounts.
func caller(c *gin.Context) (subject string, admin bool) {
	roles, _ := c.Get(ctxKeyRoles)
	list, _ := roles.([]string)
	return c.GetString(ctxKeySubject), slices.Contains(list, roleAdmin)
}
