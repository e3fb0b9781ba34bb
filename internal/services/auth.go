package services

import (
	"context"
	"strings"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/auth"
	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
)

const (
	defaultBio     = "New user at LNMIIT Campus Connect!"
	defaultCity    = "Jaipur"
	defaultState   = "Rajasthan"
	defaultCountry = "India"
)

type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (auth.Identity, error)
}

type Tokens interface {
	Issue(userID uint) (string, time.Time, error)
	Parse(token string) (uint, error)
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
	IsNewUser bool         `json:"isNewUser"`
}

type AuthService struct {
	users    UserStore
	verifier IdentityVerifier
	tokens   Tokens
	domain   string
	log      logger.Logger
}

func NewAuthService(users UserStore, verifier IdentityVerifier, tokens Tokens, allowedDomain string, log logger.Logger) *AuthService {
	return &AuthService{
		users:    users,
		verifier: verifier,
		tokens:   tokens,
		domain:   allowedDomain,
		log:      log.WithComponent("AuthService"),
	}
}

// LoginWithGoogleToken 使用 Google ID token 登录
func (s *AuthService) LoginWithGoogleToken(ctx context.Context, credential string) (*LoginResult, error) {
	id, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, err
	}
	return s.LoginWithIdentity(ctx, id)
}

// LoginWithIdentity finds or creates the user for a verified Google identity
// and issues a session token.
func (s *AuthService) LoginWithIdentity(ctx context.Context, id auth.Identity) (*LoginResult, error) {
	if !auth.EmailAllowed(id.Email, s.domain) {
		return nil, apperr.Newf(apperr.KindForbidden, "only @%s email addresses are allowed", s.domain)
	}
	if !id.EmailVerified {
		return nil, apperr.Forbidden("google email is not verified")
	}
	email := strings.ToLower(strings.TrimSpace(id.Email))

	user, isNew, err := s.findOrCreate(ctx, email, id)
	if err != nil {
		return nil, err
	}

	token, exp, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	if isNew {
		s.log.Info("new user signed up", "user_id", user.ID)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user, IsNewUser: isNew}, nil
}

func (s *AuthService) findOrCreate(ctx context.Context, email string, id auth.Identity) (*models.User, bool, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if user.GoogleID == "" && id.Subject != "" {
			return s.bindGoogle(ctx, user, id.Subject)
		}
		return user, false, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, false, err
	}

	name := strings.TrimSpace(id.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	user = &models.User{
		GoogleID:   id.Subject,
		Name:       name,
		Email:      email,
		ProfileImg: id.Picture,
		UserType:   models.UserTypeStudent,
		Bio:        defaultBio,
		City:       defaultCity,
		State:      defaultState,
		Country:    defaultCountry,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperr.IsAlreadyExists(err) {
			// concurrent first login
			existing, gerr := s.users.GetByEmail(ctx, email)
			return existing, false, gerr
		}
		return nil, false, err
	}
	return user, true, nil
}

func (s *AuthService) bindGoogle(ctx context.Context, user *models.User, subject string) (*models.User, bool, error) {
	updated, err := s.users.Update(ctx, user.ID, map[string]any{"google_id": subject})
	if err != nil {
		return nil, false, err
	}
	return updated, false, nil
}

// Authenticate resolves a session token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.ErrUnauthenticated
	}
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthenticated("user no longer exists")
		}
		return nil, err
	}
	return user, nil
}
