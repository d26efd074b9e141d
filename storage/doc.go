// Package storage provides the key store backends that supply the named
// secrets disclosed by the gateway.
//
// Backends are selected by location URI:
//
//	env://API_KEY_
//	file:///etc/gateway/keys.json
//	s3://bucket-name/gateway/keys.json?region=us-west-2
//	vault://vault.example.com:8200/secret/gateway/keys
//
// The env backend converts variable names to lower camel case, so API_KEY_1
// is disclosed as apiKey1. The file, s3 and vault backends hold a flat map of
// names to string values.
//
// Several locations can be merged with a MultiKeyStore. Earlier locations take
// precedence for duplicate names, and loading fails only when every backend
// fails.
package storage
