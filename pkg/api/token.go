package api

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"
)

var (
	ErrTokenExpired = errors.New("api token expired")
	ErrNoToken      = errors.New("api response carried no token")
)

// TokenFromString wraps a bearer token. When the token is a JWT its exp claim
// becomes the expiry; the signature is not checked, the API does that.
func TokenFromString(raw string) *oauth2.Token {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" {
		return nil
	}
	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err == nil && claims.ExpiresAt != nil {
		tok.Expiry = claims.ExpiresAt.Time
	}
	return tok
}

func (c *Client) Token() *oauth2.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(tok *oauth2.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = tok
}

// WithToken returns a client sharing the transport and limiter of c but
// authenticated as raw. Used to act on behalf of an incoming request.
func (c *Client) WithToken(raw string) *Client {
	clone := *c
	clone.mu = &sync.RWMutex{}
	clone.token = TokenFromString(raw)
	return &clone
}

func (c *Client) TokenExpiry() (time.Time, bool) {
	tok := c.Token()
	if tok == nil || tok.Expiry.IsZero() {
		return time.Time{}, false
	}
	return tok.Expiry, true
}
