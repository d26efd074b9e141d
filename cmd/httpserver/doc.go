// Package main (cmd/httpserver) runs the secure date gateway.
//
// The gateway discloses named keys and dispatches email only to callers that
// send a credential proving knowledge of the shared secret on the current
// calendar date. Operators can disable and re-enable the protected routes at
// runtime through the admin routes.
//
// Process flags cover the listener, logging, metrics and profiling. Secrets
// and domain settings come from the environment:
//
//	SHARED_SECRET        required; keys the API gate
//	ADMIN_SECRET         keys the admin gate, defaults to SHARED_SECRET
//	SECURE_SCHEME        phrase (default) or date-distance
//	KEY_DERIVATION       secret-bound (default) or date-padded
//	VERIFICATION_PHRASE  defaults to BNB_SECURE_ACCESS
//	SKEW_DAYS            accepted day distance, 1 to 7, default 1
//	TZ_NAME              time zone dates are computed in, default Local
//	SECURE_HEADER        credential header, default x-secure-date
//	KEY_SOURCES          comma separated key store URIs, default env://API_KEY_
//	CORS_ALLOWED_ORIGINS comma separated origins, default any
//	SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_FROM, SMTP_TLS_POLICY
//	MAIL_DRY_RUN         log messages instead of delivering them
//
// Example:
//
//	SHARED_SECRET=k1 API_KEY_1=abc httpserver --listen-addr 0.0.0.0:3000
package main
