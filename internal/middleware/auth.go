package middleware

import (
	"errors"
	"net/http"
	"strings"

	"agenda-service/helper"
	"agenda-service/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var errMissingToken = errors.New("missing bearer token")

// Secured rejects requests without a valid HS256 token signed with secret
// and stores the token subject as the caller's user id.
//
// Browsers cannot set headers on websocket upgrades, so a "token" query
// parameter is accepted as well.
func Secured(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			helper.AbortWithError(c, http.StatusUnauthorized, errMissingToken, helper.ErrUnauthorized)
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			helper.AbortWithError(c, http.StatusUnauthorized, errors.New("invalid token"), helper.ErrUnauthorized)
			return
		}
		if claims.Subject == "" {
			helper.AbortWithError(c, http.StatusUnauthorized, errors.New("token has no subject"), helper.ErrUnauthorized)
			return
		}

		c.Set(constants.Token, raw)
		c.Set(constants.UserIDKey, claims.Subject)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return c.Query("token")
}
