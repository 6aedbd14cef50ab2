// Package api handles the HTTP surface of the vocabulary trainer: request
// decoding and validation, mapping service errors to status codes, and
// shaping JSON responses. Routing lives in cmd/server.
package api
