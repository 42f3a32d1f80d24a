package exchange

import "time"

// Config holds the identity provider client configuration.
// TokenURL and ProfileURL default to LinkedIn's endpoints and exist as
// overrides for tests and alternative deployments.
type Config struct {
	ClientID     string        `env:"LINKEDIN_CLIENT_ID,required"`
	ClientSecret string        `env:"LINKEDIN_CLIENT_SECRET,required"`
	RedirectURL  string        `env:"REDIRECT_URI,required"` // must match the provider app setting
	TokenURL     string        `env:"LINKEDIN_TOKEN_URL"`
	ProfileURL   string        `env:"LINKEDIN_PROFILE_URL" envDefault:"https://api.linkedin.com/v2/me"`
	Timeout      time.Duration `env:"LINKEDIN_HTTP_TIMEOUT" envDefault:"15s"`
}
