// Package environment declares the application environments the service
// distinguishes between and small helpers for checking them.
package environment

// Environment represents the application environment.
type Environment string

const (
	// Development for local development.
	Development Environment = "development"
	// Staging for pre-production deployments.
	Staging Environment = "staging"
	// Production for production deployments.
	Production Environment = "production"
)

// IsProduction reports whether env refers to production.
func IsProduction(env Environment) bool {
	return env == Production || env == "prod"
}

// IsDevelopment reports whether env refers to development.
func IsDevelopment(env Environment) bool {
	return env == Development || env == "dev"
}
