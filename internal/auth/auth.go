package auth

// Authenticator issues and checks admin session tokens. Sessions are
// stateless: a token is valid as long as its signature and expiry hold,
// there is no server-side revocation.
type Authenticator interface {
	IssueToken() (string, error)
	Verify(token string) bool
}
