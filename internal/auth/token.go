package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "lcc-api"

// TokenIssuer signs and verifies HS256 session tokens whose subject is the
// user id.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for userID and its expiry.
func (t *TokenIssuer) Issue(userID uint) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, apperr.Internal(err)
	}
	return signed, exp, nil
}

// Parse verifies the token and returns the user id it was issued for.
func (t *TokenIssuer) Parse(token string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, apperr.Wrap(err, apperr.KindUnauthenticated, "token expired")
		}
		return 0, apperr.Wrap(err, apperr.KindUnauthenticated, "invalid token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Unauthenticated("invalid token subject")
	}
	return uint(id), nil
}
