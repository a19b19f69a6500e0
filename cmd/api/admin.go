package main

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"spotcu/internal/auth"
)

// adminCookieName is deliberately distinct from the end-user session cookie.
const adminCookieName = "admin_session"

// setAdminCookie sets the admin session token as an httpOnly cookie.
// Browsers store/send it automatically; JS cannot read it.
func (app *application) setAdminCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.SessionTTL.Seconds()),
	})
}

func (app *application) clearAdminCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

type AdminLoginPayload struct {
	Password string `json:"password" validate:"required"`
}

func (app *application) adminLoginHandler(w http.ResponseWriter, r *http.Request) {
	var payload AdminLoginPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if subtle.ConstantTimeCompare([]byte(payload.Password), []byte(app.config.admin.password)) != 1 {
		app.unauthorizedErrorResponse(w, r, errors.New("Yanlış şifre"))
		return
	}

	token, err := app.authenticator.IssueToken()
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.setAdminCookie(w, token)

	app.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func (app *application) adminLogoutHandler(w http.ResponseWriter, r *http.Request) {
	app.clearAdminCookie(w)

	app.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// adminSessionHandler reports whether the request carries a valid admin
// session. A missing or garbled cookie is a plain "not logged in", never an
// error, so the UI can redirect to login uniformly.
func (app *application) adminSessionHandler(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(adminCookieName); err == nil {
		token = c.Value
	}

	app.jsonResponse(w, http.StatusOK, map[string]bool{
		"isLoggedIn": app.authenticator.Verify(token),
	})
}
