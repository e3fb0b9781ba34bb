package handlers

import (
	"net/http"
	"strings"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/auth"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const oauthStateKey = "oauth_state"

// GoogleRedirect 发起 Google OAuth 登录
func (h *AuthHandler) GoogleRedirect(c *gin.Context) {
	if h.oauth == nil || !h.oauth.Enabled() {
		respondError(c, apperr.New(apperr.KindDependency, "google redirect sign-in is not configured"))
		return
	}
	state, err := auth.NewState()
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}

	// 将 state 存储到 session 中,用于验证回调
	session := sessions.Default(c)
	session.Set(oauthStateKey, state)
	if err := session.Save(); err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, h.oauth.AuthCodeURL(state))
}

// GoogleCallback 处理 Google OAuth 回调
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.oauth == nil || !h.oauth.Enabled() {
		respondError(c, apperr.New(apperr.KindDependency, "google redirect sign-in is not configured"))
		return
	}

	session := sessions.Default(c)
	saved, _ := session.Get(oauthStateKey).(string)
	session.Delete(oauthStateKey)
	_ = session.Save()

	if saved == "" || c.Query("state") != saved {
		respondError(c, apperr.Validation("invalid oauth state"))
		return
	}

	id, err := h.oauth.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := h.auth.LoginWithIdentity(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setTokenCookie(c, res.Token)

	target := strings.TrimRight(h.cookie.FrontendURL, "/")
	if res.IsNewUser {
		target += "/register"
	} else {
		target += "/"
	}
	c.Redirect(http.StatusFound, target)
}
