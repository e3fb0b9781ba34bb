package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthFlow drives the Google authorization-code redirect login.
type OAuthFlow struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewOAuthFlow(clientID, clientSecret, redirectURL string) *OAuthFlow {
	return &OAuthFlow{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: userInfoURL,
	}
}

func (f *OAuthFlow) Enabled() bool {
	return f.config.ClientID != "" && f.config.ClientSecret != "" && f.config.RedirectURL != ""
}

// NewState 生成随机 state token
func NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (f *OAuthFlow) AuthCodeURL(state string) string {
	return f.config.AuthCodeURL(state)
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Exchange trades the callback code for a token and fetches the profile.
func (f *OAuthFlow) Exchange(ctx context.Context, code string) (Identity, error) {
	if code == "" {
		return Identity{}, apperr.Validation("missing authorization code")
	}
	token, err := f.config.Exchange(ctx, code)
	if err != nil {
		return Identity{}, apperr.Wrap(err, apperr.KindUnauthenticated, "authorization code rejected")
	}

	client := f.config.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.userInfoURL, nil)
	if err != nil {
		return Identity{}, apperr.Internal(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Identity{}, apperr.Dependency(err, "google userinfo unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, apperr.Dependency(fmt.Errorf("userinfo status %d", resp.StatusCode), "google userinfo unavailable")
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Identity{}, apperr.Dependency(err, "google userinfo unreadable")
	}
	return Identity{
		Subject:       info.ID,
		Email:         info.Email,
		EmailVerified: info.VerifiedEmail,
		Name:          info.Name,
		Picture:       info.Picture,
	}, nil
}
