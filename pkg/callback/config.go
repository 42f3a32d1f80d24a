package callback

// Config holds the callback validation configuration.
type Config struct {
	// ExpectedState is the deploy-time shared state secret. The service
	// refuses to start without one; an unset value would accept nothing and
	// reject everything, which is only discoverable in production.
	ExpectedState string `env:"STATE,required"`
	// ClientName identifies the tenant in notifications and responses.
	ClientName string `env:"CLIENT_NAME" envDefault:"Unknown Client"`
}
