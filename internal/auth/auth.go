// Package auth wires OAuth providers for manager sign-in.
package auth

import (
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"

	"sitepay/internal/config"
)

// InitGothProviders registers the OAuth providers goth should offer.
// Workers and suppliers never come through here; they are provisioned
// by invitation signup.
func InitGothProviders(cfg *config.Config) {
	gothic.Store = sessions.NewCookieStore([]byte(cfg.SessionSecret))

	goth.UseProviders(
		google.New(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.OAuthCallbackURL+"/auth/google/callback",
		),
	)
}
