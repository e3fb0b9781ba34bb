package auth

import (
	"context"
	"errors"
	"net"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"google.golang.org/api/idtoken"
)

// GoogleVerifier checks Google ID tokens issued for our OAuth client.
type GoogleVerifier struct {
	clientID  string
	validator *idtoken.Validator
}

func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	v, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, err
	}
	return &GoogleVerifier{clientID: clientID, validator: v}, nil
}

// Verify validates credential and extracts the identity claims.
func (g *GoogleVerifier) Verify(ctx context.Context, credential string) (Identity, error) {
	if g.clientID == "" {
		return Identity{}, apperr.Dependency(errors.New("GOOGLE_CLIENT_ID not set"), "google sign-in is not configured")
	}
	if credential == "" {
		return Identity{}, apperr.Unauthenticated("missing google credential")
	}

	payload, err := g.validator.Validate(ctx, credential, g.clientID)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
			return Identity{}, apperr.Dependency(err, "google identity service unavailable")
		}
		return Identity{}, apperr.Wrap(err, apperr.KindUnauthenticated, "invalid google credential")
	}

	return identityFromClaims(payload.Subject, payload.Claims), nil
}

func identityFromClaims(sub string, claims map[string]any) Identity {
	id := Identity{Subject: sub}
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	id.Picture, _ = claims["picture"].(string)
	switch v := claims["email_verified"].(type) {
	case bool:
		id.EmailVerified = v
	case string:
		id.EmailVerified = v == "true"
	}
	return id
}
