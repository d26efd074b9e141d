// Package keyshandler implements the key disclosure route and its client.
//
// GET /api/get-keys returns every named key held by the configured key store:
//
//	{"success": true, "keys": {"apiKey1": "...", "apiKey2": "..."}}
//
// The route carries no access check of its own. It must be mounted behind
// the access gate, which the httpserver package does.
package keyshandler
