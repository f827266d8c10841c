package auth

import (
	"context"
	"crypto/rsa"
)

// ContextWithPrincipal adds a principal to the context for testing purposes
// This is exported to allow other packages to create test contexts
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// NewTestJWKS builds a JWKS holding a single known public key under kid
// "test-key", without any network fetch or background refresh. Used by tests
// that sign tokens locally.
func NewTestJWKS(pub *rsa.PublicKey) *JWKS {
	return &JWKS{
		keys: map[string]*rsa.PublicKey{"test-key": pub},
		quit: make(chan struct{}),
	}
}
