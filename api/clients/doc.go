// Package clients provides the operator client for the gateway's admin routes.
package clients
