/*
Package httpserver wires the gateway's HTTP surface.

Routes are grouped by the checks they pass through:

  - GET /health and GET /readyz are exempt from every check.
  - POST /admin/enable, POST /admin/disable and GET /admin/status sit behind
    the admin gate only, so a disabled server can always be re-enabled.
  - Every other route passes the availability switch first and the access
    gate second. A disabled server answers 503 before any credential is
    looked at.

All routes share panic recovery, CORS and access logging. Metrics are served
on a separate listener, and pprof is mounted under /debug when enabled.
*/
package httpserver
