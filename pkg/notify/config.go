package notify

// Config holds operator notification settings.
type Config struct {
	// RecipientEmail receives a report for every callback attempt.
	RecipientEmail string `env:"RECIPIENT_EMAIL,required"`
	// ClientName names the integration in report subjects and bodies.
	ClientName string `env:"CLIENT_NAME" envDefault:"Unknown Client"`
}
