// Package main (cmd/securectl) is the command line client for the gateway.
//
//	securectl token [--date 20240315]
//	securectl get-keys --gateway-url http://127.0.0.1:3000
//	securectl send-email --to alice@example.com --subject hi --text hello
//	securectl admin enable|disable|status
//
// The shared secret is read from --secret or SHARED_SECRET. Admin commands use
// --admin-secret or ADMIN_SECRET and fall back to the shared secret.
package main
