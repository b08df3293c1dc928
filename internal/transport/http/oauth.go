package http

import (
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Slivix/Projet-AOS/internal/config"
	"github.com/Slivix/Projet-AOS/internal/service/user"
	"github.com/Slivix/Projet-AOS/pkg/auth"
	"github.com/Slivix/Projet-AOS/pkg/httputil"
)

type OAuthHandler struct {
	Users       *user.Service
	Config      *config.OAuthConfig
	FrontendURL string
}

func NewOAuthHandler(users *user.Service, cfg *config.OAuthConfig, frontendURL string) *OAuthHandler {
	return &OAuthHandler{
		Users:       users,
		Config:      cfg,
		FrontendURL: frontendURL,
	}
}

// GoogleLogin redirects the user to Google
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	if h.Config == nil || !h.Config.Enabled() {
		abortWithDetail(c, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}

	state := auth.GenerateState()
	httputil.SetStateCookie(c.Writer, state)
	c.Redirect(http.StatusTemporaryRedirect, h.Config.GoogleLoginConfig.AuthCodeURL(state))
}

// GoogleCallback handles the response from Google
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	if h.Config == nil || !h.Config.Enabled() {
		abortWithDetail(c, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}

	cookie, err := c.Request.Cookie(httputil.StateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != c.Query("state") {
		log.Printf("[OAUTH] State mismatch")
		h.fail(c, "invalid_state")
		return
	}

	ctx := c.Request.Context()
	token, err := h.Config.GoogleLoginConfig.Exchange(ctx, c.Query("code"))
	if err != nil {
		log.Printf("[OAUTH] Failed to exchange token: %v", err)
		h.fail(c, "auth_failed")
		return
	}

	userInfo, err := config.GetGoogleUserInfo(ctx, h.Config.GoogleLoginConfig, token)
	if err != nil {
		log.Printf("[OAUTH] Failed to get user info: %v", err)
		h.fail(c, "user_info_failed")
		return
	}

	accessToken, u, err := h.Users.LoginWithGoogle(ctx, userInfo.Email, userInfo.ID, userInfo.Name)
	if err != nil {
		log.Printf("[OAUTH] Failed to sign in %s: %v", userInfo.Email, err)
		h.fail(c, "server_error")
		return
	}

	log.Printf("[OAUTH] %s signed in with Google", u.Username)
	httputil.SetAuthCookie(c.Writer, accessToken)
	c.Redirect(http.StatusTemporaryRedirect, h.FrontendURL+"/?user="+url.QueryEscape(u.Username))
}

func (h *OAuthHandler) fail(c *gin.Context, reason string) {
	c.Redirect(http.StatusTemporaryRedirect, h.FrontendURL+"/login?error="+reason)
}
