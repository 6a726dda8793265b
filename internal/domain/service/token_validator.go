package service

import "context"

// AuthContext is the outcome of validating an inbound credential.
// A zero AuthContext means "not authenticated".
type AuthContext struct {
	Authenticated bool     `json:"authenticated"`
	Scopes        []string `json:"scopes"`
	Subject       string   `json:"subject,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// TokenValidator validates a bearer credential taken from an inbound request.
//
// Validate never returns an error: every failure path (missing header,
// malformed token, bad signature, wrong issuer or audience) resolves to
// an AuthContext with Authenticated=false and an explanatory Error.
type TokenValidator interface {
	Validate(ctx context.Context, authorizationHeader string) AuthContext
}
