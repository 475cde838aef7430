// Package app wires the HTTP server together: configuration, logging,
// OpenTelemetry providers, services, handlers and the middleware chain.
//
// The wiring order is fixed. Configuration is loaded first so the
// logger can be built from it, then the OpenTelemetry providers, then
// the services, and finally the chi router. Middleware is applied in
// the order RequestID, RealIP, StructuredLogger, Recoverer,
// SecurityHeaders, RateLimiter, with per-route Timeout inside the API
// group. The Prometheus endpoint sits outside the middleware chain.
package app
