package handler

import (
	"Go_Stow/config"
	"Go_Stow/internal/apperr"
	"Go_Stow/internal/logging"
	"Go_Stow/internal/service"
	"Go_Stow/utils"
	"crypto/rand"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
)

// InitSocialLogin registers the configured OAuth providers and the session store gothic uses.
// It reports whether any provider is enabled.
func InitSocialLogin(cfg config.Config) (bool, error) {
	if cfg.GoogleKey == "" || cfg.GoogleSecret == "" {
		logging.L().Info("social login disabled")
		return false, nil
	}
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		if cfg.IsProduction() {
			return false, errors.New("SESSION_SECRET must be set when social login is enabled")
		}
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return false, err
		}
	}
	store := sessions.NewCookieStore(secret)
	store.MaxAge(600)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.IsProduction()
	gothic.Store = store

	goth.UseProviders(google.New(cfg.GoogleKey, cfg.GoogleSecret, cfg.GoogleCallbackURL, "email", "profile"))
	logging.L().Info("social login enabled", "providers", "google")
	return true, nil
}

// withProvider copies the provider path parameter where gothic looks for it.
func withProvider(c *gin.Context) (string, bool) {
	provider := c.Param("provider")
	if _, err := goth.GetProvider(provider); err != nil {
		utils.Fail(c, apperr.NotFound("unknown provider"))
		return "", false
	}
	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()
	return provider, true
}

// BeginSocialAuth redirects to the provider's consent page.
func BeginSocialAuth(c *gin.Context) {
	if _, ok := withProvider(c); !ok {
		return
	}
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// SocialAuthCallback completes the provider flow and returns a token pair.
func SocialAuthCallback(c *gin.Context) {
	provider, ok := withProvider(c)
	if !ok {
		return
	}
	gu, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		utils.Fail(c, apperr.Unauthorized("social login failed"))
		return
	}
	resp, err := service.SocialLogin(c.Request.Context(), provider, gu)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, resp)
}
