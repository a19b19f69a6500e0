package main

import (
	"errors"
	"net/http"
)

// AdminRequiredMiddleware gates admin-scoped procedures on the session
// cookie. Rejection happens before any handler runs, so a failed check can
// leave no side effect behind.
func (app *application) AdminRequiredMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(adminCookieName); err == nil {
			token = c.Value
		}

		if !app.authenticator.Verify(token) {
			app.unauthorizedErrorResponse(w, r, errors.New("Admin girişi gerekli. Lütfen /admin sayfasından giriş yapın."))
			return
		}

		next.ServeHTTP(w, r)
	})
}
