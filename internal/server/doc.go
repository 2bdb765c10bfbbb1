// Package server runs the remote store HTTP server.
//
// It owns the server lifecycle: startup, signal handling and graceful
// shutdown, including the websocket stream sessions that net/http no longer
// tracks once they are hijacked.
package server
