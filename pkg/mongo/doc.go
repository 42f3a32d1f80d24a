// Package mongo sets up the MongoDB client used as the service's persistent
// document store. Connection parameters come from the environment; the
// connect call retries a few times so the service survives a database that
// is still starting up alongside it.
package mongo
