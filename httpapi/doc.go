// Package httpapi exposes the tutoring service over a JSON REST API.
//
// Routing uses net/http method patterns, wrapped in a small middleware
// chain (request id, logging, panic recovery, CORS). Handlers translate
// domain errors into status codes and a uniform error envelope; generative
// fallbacks happen below this layer, so model outages never surface as
// HTTP errors.
package httpapi
