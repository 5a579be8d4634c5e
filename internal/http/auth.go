package http

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Authenticator guards mutating routes with bearer tokens minted against a
// configured API password. An empty JWT secret disables the guard entirely,
// which is the expected mode for local development.
type Authenticator struct {
	secret      []byte
	apiPassword string
	tokenTTL    time.Duration
}

func NewAuthenticator(jwtSecret, apiPassword string, tokenTTL time.Duration) *Authenticator {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &Authenticator{
		secret:      []byte(strings.TrimSpace(jwtSecret)),
		apiPassword: strings.TrimSpace(apiPassword),
		tokenTTL:    tokenTTL,
	}
}

func (a *Authenticator) Enabled() bool {
	return a != nil && len(a.secret) > 0
}

type tokenRequest struct {
	Password string `json:"password"`
}

// issueToken exchanges the API password for a signed short-lived token.
func (a *Authenticator) issueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Success: false, Error: "Invalid request body"})
		return
	}

	if a.apiPassword == "" ||
		subtle.ConstantTimeCompare([]byte(strings.TrimSpace(req.Password)), []byte(a.apiPassword)) != 1 {
		c.JSON(http.StatusUnauthorized, response{Success: false, Error: "Invalid credentials"})
		return
	}

	now := time.Now()
	expires := now.Add(a.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "api",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response{Success: false, Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, response{
		Success: true,
		Data: gin.H{
			"token":     signed,
			"expiresAt": expires.UTC().Format(time.RFC3339),
		},
	})
}

// Guard rejects requests without a valid bearer token. It is a no-op while
// the authenticator is disabled.
func (a *Authenticator) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response{Success: false, Error: "Unauthorized"})
			return
		}

		_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response{Success: false, Error: "Unauthorized"})
			return
		}

		c.Next()
	}
}
