package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/zarpadomueble-ops/storefront-gateway/pkg/config"
)

// Manager assigns each browser a stable session id via cookie. The id
// scopes the cart, the shipping-data step and the delivery state machine.
type Manager struct {
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewManager(cfg config.SessionConfig) *Manager {
	return &Manager{
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		secure:     cfg.Secure,
	}
}

// Ensure returns the request's session id, minting and setting a new one
// when the cookie is missing or not a UUID.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		if id, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
