package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// expirySkew is subtracted from the stored expiry when deciding whether
// a credential is still usable, covering server-side clock skew and
// requests already in flight.
const expirySkew = 5 * time.Minute

// TokenResponse is the raw token endpoint payload. Success and error
// responses share the shape; exactly one of AccessToken or Error is set
// in a well-formed response.
type TokenResponse struct {
	AccessToken      string `json:"access_token,omitempty"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	TokenType        string `json:"token_type,omitempty"`
	Scope            string `json:"scope,omitempty"`
	ExpiresIn        int    `json:"expires_in,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// Credential is the persisted form of a successful token exchange.
// A zero ExpiresAt means the provider reported no lifetime and the
// credential never expires.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitzero"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCredential normalizes a raw token response into the persisted
// shape: the token type defaults to Bearer and the provider-reported
// lifetime becomes an absolute expiry.
func NewCredential(resp *TokenResponse, now time.Time) Credential {
	cred := Credential{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
		Scope:        resp.Scope,
		CreatedAt:    now.UTC(),
	}
	if cred.TokenType == "" {
		cred.TokenType = "Bearer"
	}
	if resp.ExpiresIn > 0 {
		cred.ExpiresAt = now.UTC().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	return cred
}

// Expired reports whether the credential should no longer be used at
// the given time. A nil credential is expired; a credential without an
// expiry never is.
func (c *Credential) Expired(now time.Time) bool {
	if c == nil {
		return true
	}
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt.Add(-expirySkew))
}

// Token converts the credential to an oauth2 token for use with
// token-source based HTTP clients.
func (c *Credential) Token() *oauth2.Token {
	if c == nil {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
		Expiry:       c.ExpiresAt,
	}
}
