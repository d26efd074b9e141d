// Package interfaces defines the contracts between the gateway's handlers and
// the collaborators they depend on, separating interface definitions from
// implementations.
//
// # Key Stores
//
// KeyStore: a source of the named secret values disclosed by the key
// endpoint (environment, JSON file, S3 object, Vault KV).
//
// KeyStoreFactory: creates key stores from URI strings and aggregates several
// sources into one.
//
// # Mail
//
// Mailer: the opaque "send message" capability behind the dispatch endpoint.
//
// # Errors
//
// ErrConfiguration and ErrDownstreamAction classify server-side failures; both
// map to 500 responses with generic messages.
package interfaces
