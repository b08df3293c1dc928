package httputil

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Slivix/Projet-AOS/internal/config"
)

const (
	AuthCookieName  = "auth_token"
	StateCookieName = "oauth_state"
)

func SetAuthCookie(w http.ResponseWriter, token string) {
	maxAge := int(config.AppConfig.AccessTokenTTL / time.Second)
	setCookie(w, AuthCookieName, token, maxAge)
}

func ClearAuthCookie(w http.ResponseWriter) {
	setCookie(w, AuthCookieName, "", -1)
}

// SetStateCookie keeps the OAuth state for the callback round trip.
func SetStateCookie(w http.ResponseWriter, state string) {
	setCookie(w, StateCookieName, state, 10*60)
}

func setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	isProduction := config.AppConfig.IsProduction()

	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isProduction,
	}

	// SameSite=None requires Secure=true, so use Lax for development
	if isProduction {
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, cookie)
}

// GetTokenFromCookie extracts the JWT token from the auth cookie
func GetTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(AuthCookieName)
	if err != nil {
		return "", errors.New("auth cookie not found")
	}

	if cookie.Value == "" {
		return "", errors.New("auth cookie is empty")
	}

	return cookie.Value, nil
}

// GetTokenFromRequest prefers the Authorization header, then the cookie.
func GetTokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}

	token, err := GetTokenFromCookie(r)
	if err == nil {
		return token, nil
	}

	return "", errors.New("no auth token found in header or cookie")
}
