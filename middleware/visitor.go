package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/petanque-voyages/booking-system/i18n"
	"github.com/petanque-voyages/booking-system/models"
	"github.com/petanque-voyages/booking-system/services"
)

const sessionCookieName = "pv_session"

// VisitorTracker logs public page hits. Each browser gets a session cookie
// so repeat hits can be grouped; recording never blocks the response.
type VisitorTracker struct {
	visitors services.VisitorService
	bundle   *i18n.Bundle
}

func NewVisitorTracker(visitors services.VisitorService, bundle *i18n.Bundle) *VisitorTracker {
	return &VisitorTracker{visitors: visitors, bundle: bundle}
}

func (t *VisitorTracker) Track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := t.sessionID(w, r)
		lang := t.bundle.FromRequest(r)

		userAgent := r.UserAgent()
		remoteAddr := r.RemoteAddr
		visitor := &models.Visitor{
			SessionID:  sessionID,
			Path:       r.URL.Path,
			Lang:       lang,
			UserAgent:  &userAgent,
			RemoteAddr: &remoteAddr,
		}
		// The request context dies with the response, use a detached one.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			t.visitors.Record(ctx, visitor)
		}()

		next.ServeHTTP(w, r)
	})
}

func (t *VisitorTracker) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
