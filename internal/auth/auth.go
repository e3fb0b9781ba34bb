// Package auth verifies Google identities and issues the service's own
// session tokens.
package auth

import (
	"strings"
)

// Identity is what a Google sign-in proves about the caller.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// EmailAllowed reports whether email belongs to domain (case-insensitive).
func EmailAllowed(email, domain string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "@"))
	if email == "" || domain == "" {
		return false
	}
	local, host, ok := strings.Cut(email, "@")
	return ok && local != "" && host == domain
}
