// Package constants holds shared domain-level constant values.
package constants

// Pub/Sub provider types for event publishing.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Persistence driver types for the loan repository.
const (
	PersistenceDriverPostgres = "postgres"
	PersistenceDriverMemory   = "memory"
)
