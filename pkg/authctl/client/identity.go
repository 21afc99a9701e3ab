package client

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v4"
)

// Identity describes the user behind an access token.
type Identity struct {
	Subject  string `json:"sub,omitempty" yaml:"subject,omitempty"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Username string `json:"preferred_username,omitempty" yaml:"username,omitempty"`
}

// DisplayName returns the most specific human-readable identifier.
func (i *Identity) DisplayName() string {
	switch {
	case i.Email != "":
		return i.Email
	case i.Username != "":
		return i.Username
	case i.Name != "":
		return i.Name
	default:
		return i.Subject
	}
}

type IdentityService struct {
	client *Client
}

func (c *Client) Identity() *IdentityService {
	return &IdentityService{client: c}
}

// Get resolves the identity of the authenticated user from the server.
func (s *IdentityService) Get(ctx context.Context) (*Identity, error) {
	var identity Identity
	if err := s.client.get(ctx, "api/auth/userinfo", &identity); err != nil {
		return nil, err
	}
	if identity.DisplayName() == "" {
		return nil, errors.New("server returned an empty identity")
	}
	return &identity, nil
}

// IdentityFromToken extracts identity claims from a JWT access token
// without verifying its signature. Local fallback for when the server
// cannot be reached; display only, never used for authorization.
func IdentityFromToken(raw string) (*Identity, error) {
	parser := jwt.Parser{}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, err
	}
	identity := &Identity{}
	if sub, ok := claims["sub"].(string); ok {
		identity.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}
	if username, ok := claims["preferred_username"].(string); ok {
		identity.Username = username
	}
	if identity.DisplayName() == "" {
		return nil, errors.New("token carries no identity claims")
	}
	return identity, nil
}
