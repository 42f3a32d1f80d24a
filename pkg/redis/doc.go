// Package redis establishes the Redis connection backing the credential
// cache. Connection parameters come from the environment; Connect retries a
// few times before giving up so the service tolerates a cache that starts
// slightly after it.
package redis
