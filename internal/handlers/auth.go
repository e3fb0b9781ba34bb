package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/auth"
	"github.com/Sheetal-x-Sharma/LCC/internal/middleware"
	"github.com/Sheetal-x-Sharma/LCC/internal/services"
	"github.com/gin-gonic/gin"
)

// OAuthProvider is the Google authorization-code flow.
type OAuthProvider interface {
	Enabled() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (auth.Identity, error)
}

type CookieOpts struct {
	Secure      bool
	TTL         time.Duration
	FrontendURL string
}

type AuthHandler struct {
	auth   *services.AuthService
	users  *services.UserService
	oauth  OAuthProvider
	cookie CookieOpts
}

func NewAuthHandler(authSvc *services.AuthService, users *services.UserService, oauth OAuthProvider, cookie CookieOpts) *AuthHandler {
	return &AuthHandler{auth: authSvc, users: users, oauth: oauth, cookie: cookie}
}

type googleLoginRequest struct {
	Token      string `json:"token"`
	Credential string `json:"credential"`
}

// GoogleLogin 使用前端拿到的 Google ID token 登录 (POST /api/auth/google)
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	cred := strings.TrimSpace(req.Token)
	if cred == "" {
		cred = strings.TrimSpace(req.Credential)
	}
	if cred == "" {
		respondError(c, apperr.Validation("token is required"))
		return
	}

	res, err := h.auth.LoginWithGoogleToken(c.Request.Context(), cred)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setTokenCookie(c, res.Token)
	c.JSON(http.StatusOK, res)
}

// Register 补全注册信息 (POST /api/auth/register)
func (h *AuthHandler) Register(c *gin.Context) {
	var in services.ProfilePatch
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.users.CompleteRegistration(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.Me(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout clears the session cookie. Tokens are stateless, so a copy held
// elsewhere stays valid until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSameSite(c)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.cookie.Secure, true)
	message(c, http.StatusOK, "Logged out successfully")
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	h.setSameSite(c)
	c.SetCookie(middleware.TokenCookie, token, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
}

// SameSite=None is only honoured on secure cookies.
func (h *AuthHandler) setSameSite(c *gin.Context) {
	if h.cookie.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
}
