package middleware

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"animelog/internal/microservices/http-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by Identity.
const (
	KeyStore  = "store"
	KeyUserID = "userID"
)

// DeviceHeader carries the anonymous device id.
const DeviceHeader = "X-Device-ID"

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

var (
	errMissingIdentity = errors.New("missing bearer token or device id")
	errInvalidToken    = errors.New("invalid token")
	errInvalidDevice   = errors.New("invalid device id")
)

// Identity picks the store for the request. A bearer token issued by the
// hosted backend selects the user's hosted store, an X-Device-ID header the
// device's local store. Requests with neither are rejected.
func Identity(secret []byte, resolver *storage.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			// format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				abort(c, http.StatusUnauthorized, errInvalidToken)
				return
			}
			userID, err := ParseUserID(secret, parts[1])
			if err != nil {
				abort(c, http.StatusUnauthorized, errInvalidToken)
				return
			}
			st, err := resolver.Hosted(userID)
			if err != nil {
				abort(c, http.StatusServiceUnavailable, err)
				return
			}
			c.Set(KeyUserID, userID)
			c.Set(KeyStore, st)
			c.Next()
			return
		}

		deviceID := c.GetHeader(DeviceHeader)
		if deviceID == "" {
			abort(c, http.StatusUnauthorized, errMissingIdentity)
			return
		}
		if !deviceIDPattern.MatchString(deviceID) {
			abort(c, http.StatusBadRequest, errInvalidDevice)
			return
		}
		c.Set(KeyStore, resolver.Local(deviceID))
		c.Next()
	}
}

// RequireHosted rejects requests that are not from a logged-in user.
func RequireHosted() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			abort(c, http.StatusUnauthorized, errors.New("login required"))
			return
		}
		c.Next()
	}
}

// ParseUserID verifies an HS256 token and returns its subject.
func ParseUserID(secret []byte, tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errInvalidToken
	}
	return claims.Subject, nil
}

// Store returns the store chosen by Identity.
func Store(c *gin.Context) storage.Store {
	v, ok := c.Get(KeyStore)
	if !ok {
		return nil
	}
	st, _ := v.(storage.Store)
	return st
}

// UserID returns the logged-in user, if any.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(KeyUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
