package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager issues and resolves cookie sessions. The session is an HS256-signed
// token carrying the user id; no session state is kept in-process.
type Manager struct {
	secret []byte
	cookie string
	ttl    time.Duration
}

func NewManager(secret []byte, cookieName string, ttl time.Duration) *Manager {
	return &Manager{secret: secret, cookie: cookieName, ttl: ttl}
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cookie
}

// Token signs a session token for the given user id.
func (m *Manager) Token(userID int) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"exp":     time.Now().Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Issue signs a session token for userID and sets it as an HttpOnly cookie.
func (m *Manager) Issue(w http.ResponseWriter, userID int) error {
	signed, err := m.Token(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserID resolves the session cookie on r. The second return is false when
// there is no cookie, the token is invalid or expired, or the signature does
// not verify.
func (m *Manager) UserID(r *http.Request) (int, bool) {
	c, err := r.Cookie(m.cookie)
	if err != nil || c.Value == "" {
		return 0, false
	}

	token, err := jwt.Parse(c.Value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	raw, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return int(raw), true
}
