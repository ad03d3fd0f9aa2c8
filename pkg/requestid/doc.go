// Package requestid propagates a request identifier through middleware,
// context, and logs so a single access decision can be traced end to end.
//
// Middleware honors an incoming X-Request-ID header when it is well formed
// and generates a UUID otherwise; the id is echoed on the response and
// stored in the request context. LogExtractor plugs into the logger factory
// so every record emitted while handling the request carries the id.
package requestid
