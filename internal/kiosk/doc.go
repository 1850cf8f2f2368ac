// Package kiosk provides the HTTP client for the device-lending kiosk
// server API.
//
// # Overview
//
// The kiosk server owns all authoritative state: device inventory, rental
// state transitions, maintenance mode, and history. This package only calls
// it. Every type here mirrors a server payload and is replaced wholesale on
// each fetch; nothing is patched field-by-field on the client.
//
// # Surfaces
//
// The client covers three surfaces:
//
//   - User: device listings, rent, single and bulk return, system status,
//     and the live status event stream. No authentication.
//   - Admin: device CRUD, forced returns, and rental history/statistics.
//     Authenticated with a JWT bearer token (see WithToken and Login).
//   - Auth: login and token verification.
//
// # Error Handling
//
// Non-2xx responses decode the server's {"message": ...} body into
// *APIError so callers can surface the server's wording verbatim. Two
// rejections get dedicated predicates because callers branch on them:
//
//   - IsMaintenance: 503 while maintenance mode suspends new rentals.
//     Returns remain allowed; the caller should refetch system status.
//   - IsUnauthorized: 401 for expired tokens or a wrong QA password.
//
// Network and decode failures are wrapped with fmt.Errorf context, as in:
//
//	execute request: dial tcp: connection refused
//	api /devices/rent returned status 503: maintenance in progress
//	decode response: unexpected end of JSON input
//
// # Streaming
//
// OpenStatusStream opens GET /system/status/stream with Accept:
// text/event-stream on a dedicated http.Client without a timeout, since the
// connection is expected to stay open indefinitely. Parsing the event
// framing and reacting to connection loss is the status package's job; this
// package only hands over the response body.
//
// # Request Handling
//
// All requests carry a context, a User-Agent, and a per-process
// X-Client-Session id so the server can correlate one kiosk session's
// requests. Plain requests share a client with a 10 second default timeout.
package kiosk
