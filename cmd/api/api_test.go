package main

import (
	"net/http"
	"testing"

	"spotcu/internal/auth"
	"spotcu/internal/store"
	"spotcu/internal/uploads"
	"spotcu/internal/webhook"

	"go.uber.org/zap"
)

const (
	testAdminPassword = "test-admin-pass"
	testJWTSecret     = "test-jwt-secret"
	testBlogAPIKey    = "test-blog-key"
)

// newTestApp builds an application with no database attached: reads come
// back empty and writes return null, which is exactly the degraded mode the
// handlers must tolerate.
func newTestApp(t *testing.T) (*application, http.Handler) {
	t.Helper()
	return newTestAppWithStorage(t, store.NewStorage(nil))
}

// newTestAppWithStorage wires an arbitrary Storage, letting tests run the
// handlers against in-memory stores instead of the degraded nil-DB mode.
func newTestAppWithStorage(t *testing.T, storage store.Storage) (*application, http.Handler) {
	t.Helper()

	logger := zap.NewNop().Sugar()

	uploadStore, err := uploads.NewStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("creating upload store: %v", err)
	}

	app := &application{
		config: config{
			env: "test",
			admin: adminConfig{
				password:   testAdminPassword,
				secret:     testJWTSecret,
				blogAPIKey: testBlogAPIKey,
			},
		},
		logger:        logger,
		store:         storage,
		uploads:       uploadStore,
		webhook:       webhook.NewNotifier("", logger),
		authenticator: auth.NewJWTAuthenticator(testJWTSecret, tokenIssuer),
	}

	return app, app.mount()
}

// adminSessionCookie issues a valid session cookie so tests can pass the
// admin gate.
func adminSessionCookie(t *testing.T, app *application) *http.Cookie {
	t.Helper()

	token, err := app.authenticator.IssueToken()
	if err != nil {
		t.Fatalf("issuing admin token: %v", err)
	}
	return &http.Cookie{Name: adminCookieName, Value: token}
}
