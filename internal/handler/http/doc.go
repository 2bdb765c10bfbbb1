// Package http implements the remote store HTTP transport.
//
// It exposes the collection routes (GET/PUT /api/collections/{collection}),
// the websocket stream (/api/stream) through which clients subscribe to
// collections and observe connectivity, and the liveness and version probes.
// Bearer token authentication, request tracing, access logging and response
// compression are handled here before requests reach the service layer.
package http
