package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainAdmin "ascend/internal/domain/admin"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName is the HttpOnly cookie carrying the session token.
const SessionCookieName = "ascend_session"

const tokenIssuer = "ascend"

// DefaultSessionTTL is how long an issued session stays valid.
const DefaultSessionTTL = 24 * time.Hour

// LoginPath is where unauthenticated back-office requests are sent.
const LoginPath = "/backoffice/login"

var (
	ErrInvalidSession = errors.New("session is invalid or expired")
	ErrRevokedSession = errors.New("session has been signed out")
	ErrShortKey       = errors.New("session key must be at least 32 bytes")
)

// Session represents an authenticated back-office session.
type Session struct {
	TokenID   string
	Email     string
	Name      string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsAdmin reports whether the session carries the back-office role.
func (s Session) IsAdmin() bool {
	return s.Role == domainAdmin.RoleAdmin
}

// sessionClaims is the signed payload of a session token. The subject is the admin email.
type sessionClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies HS256 session tokens and tracks signed-out tokens
// until they expire.
type SessionManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // token id -> expiry
}

// NewSessionManager creates a manager signing with key.
// PRE: len(key) >= 32
// POST: Returns a manager issuing tokens valid for ttl (DefaultSessionTTL when ttl <= 0)
func NewSessionManager(key []byte, ttl time.Duration) (*SessionManager, error) {
	if len(key) < 32 {
		return nil, ErrShortKey
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		key:     key,
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}, nil
}

// SetClock overrides the time source.
func (m *SessionManager) SetClock(now func() time.Time) {
	m.now = now
}

// Issue signs a new session token for the admin.
// PRE: email is non-empty
// POST: Returns the token and the session it encodes
func (m *SessionManager) Issue(email, name, role string) (string, Session, error) {
	now := m.now().Truncate(time.Second)
	claims := sessionClaims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign session: %w", err)
	}
	return token, claims.session(), nil
}

// Parse verifies a token's signature, issuer, expiry and revocation.
// PRE: none
// POST: Returns the session, or ErrInvalidSession / ErrRevokedSession
func (m *SessionManager) Parse(token string) (Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return Session{}, ErrInvalidSession
	}

	m.mu.Lock()
	_, revoked := m.revoked[claims.ID]
	m.mu.Unlock()
	if revoked {
		return Session{}, ErrRevokedSession
	}
	return claims.session(), nil
}

// Revoke signs a session out until its natural expiry.
// PRE: none
// POST: Parse rejects the token; expired deny-list entries are dropped
func (m *SessionManager) Revoke(s Session) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, exp := range m.revoked {
		if now.After(exp) {
			delete(m.revoked, id)
		}
	}
	if s.TokenID != "" && now.Before(s.ExpiresAt) {
		m.revoked[s.TokenID] = s.ExpiresAt
	}
}

func (c sessionClaims) session() Session {
	s := Session{TokenID: c.ID, Email: c.Subject, Name: c.Name, Role: c.Role}
	if c.IssuedAt != nil {
		s.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s
}

// Auth returns middleware that extracts the session from the cookie and sets it in context.
// It does NOT block unauthenticated requests; use RequireAdmin for that.
func Auth(sessions *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, err := sessions.Parse(cookie.Value); err == nil {
					r = r.WithContext(ContextWithSession(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin blocks requests without an admin session. Page requests are redirected
// to the login form with a next parameter; JSON requests get 401.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := CurrentAdmin(r.Context())
		if ok && session.IsAdmin() {
			next.ServeHTTP(w, r)
			return
		}
		if wantsJSON(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"authentication required"}`))
			return
		}
		target := LoginPath
		if r.Method == http.MethodGet {
			target += "?next=" + url.QueryEscape(r.URL.RequestURI())
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	})
}

// CurrentAdmin returns the session of the signed-in admin, if any.
func CurrentAdmin(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(DefaultSessionTTL.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
