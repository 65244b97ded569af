// Package session ties browser cookies to server-side sessions.
//
// The cookie holds an HS256 JWT whose jti claim is the session id; the
// session itself (user id and pending flash notices) lives in a Store.
// Logging out deletes the server-side record, so a copied cookie stops
// working even before it expires.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "session"
	contextKey = "session_id"
)

var ErrNoSession = errors.New("no session")

type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	Secure bool
}

func NewManager(store Store, secret []byte, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: secret, ttl: ttl}
}

// Login replaces any current session with a new one for userID.
func (m *Manager) Login(c *gin.Context, userID uint) error {
	if err := m.Logout(c); err != nil {
		return err
	}

	id := uuid.NewString()
	if err := m.store.Save(c.Request.Context(), id, &Data{UserID: userID}, m.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	claims := jwt.RegisteredClaims{
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	c.Set(contextKey, id)
	c.SetSameSite(http.SameSiteLaxMode)
	// MaxAge 0 keeps it a browser-session cookie.
	c.SetCookie(CookieName, token, 0, "/", "", m.Secure, true)
	return nil
}

// Logout deletes the current session, if any, and expires the cookie.
func (m *Manager) Logout(c *gin.Context) error {
	id, err := m.sessionID(c)
	c.Set(contextKey, "")
	if err == nil {
		if err := m.store.Delete(c.Request.Context(), id); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}
	if _, err := c.Cookie(CookieName); err == nil {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, "", -1, "/", "", m.Secure, true)
	}
	return nil
}

// Authenticate returns the user id of the current session.
func (m *Manager) Authenticate(c *gin.Context) (uint, error) {
	_, data, err := m.current(c)
	if err != nil {
		return 0, err
	}
	return data.UserID, nil
}

// AddFlash queues a notice shown on the next rendered page.
func (m *Manager) AddFlash(c *gin.Context, message string) error {
	id, data, err := m.current(c)
	if err != nil {
		return err
	}
	data.Flashes = append(data.Flashes, message)
	return m.store.Save(c.Request.Context(), id, data, m.ttl)
}

// Flashes returns and clears the queued notices.
func (m *Manager) Flashes(c *gin.Context) []string {
	id, data, err := m.current(c)
	if err != nil || len(data.Flashes) == 0 {
		return nil
	}
	flashes := data.Flashes
	data.Flashes = nil
	if err := m.store.Save(c.Request.Context(), id, data, m.ttl); err != nil {
		return nil
	}
	return flashes
}

func (m *Manager) current(c *gin.Context) (string, *Data, error) {
	id, err := m.sessionID(c)
	if err != nil {
		return "", nil, err
	}
	data, err := m.store.Load(c.Request.Context(), id)
	if err != nil {
		return "", nil, err
	}
	return id, data, nil
}

// sessionID prefers an id set earlier in this request, since a cookie set by
// Login is only visible to the client's next request.
func (m *Manager) sessionID(c *gin.Context) (string, error) {
	if v, ok := c.Get(contextKey); ok {
		if id, _ := v.(string); id != "" {
			return id, nil
		}
		return "", ErrNoSession
	}

	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return "", ErrNoSession
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: invalid token: %v", ErrNoSession, err)
	}
	if claims.ID == "" {
		return "", fmt.Errorf("%w: token has no session id", ErrNoSession)
	}
	return claims.ID, nil
}
