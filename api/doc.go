// Package api defines the wire types, response helpers and server
// configuration shared by the gateway's HTTP handlers and clients.
//
// Handlers live in sub-packages, each exposing a Handler with a
// RegisterRoutes(chi.Router) method and a matching Client:
//
//   - keyshandler: GET /api/get-keys, discloses the configured secret values
//   - mailhandler: POST /api/send-email, forwards a message to the mailer
//
// Administrative calls are wrapped by clients.AdminClient.
//
// Every error body has the shape {"error": ..., "message": ...}. Messages
// returned for credential failures are generic on purpose.
package api
