// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the remote store.
//
// [RemoteClient] decouples the collection store from the transport. The
// networked implementation ([NewRemoteClient]) pushes snapshots over HTTP and
// receives them over a websocket session; [NewMemoryRemote] keeps everything
// in process.
//
// Transport failures never reach the caller as errors: Push reports false and
// subscription failures are passed to the onError callback. The sentinel
// values in errors.go are what gets logged and what onError receives.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-church-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_client_mock.go -package=mock

// RemoteClient is the remote store as seen by the collection store.
type RemoteClient interface {
	// Push writes the full snapshot of collection. It returns true only on an
	// acknowledged write and short-circuits to false while disconnected.
	Push(ctx context.Context, collection string, snapshot models.Snapshot) bool

	// Subscribe registers onSnapshot for the current remote value of
	// collection (if any) and every later change. onError receives read
	// failures. A subscription made while disconnected binds to the next
	// session; one bound to a session that drops never fires again.
	Subscribe(collection string, onSnapshot func(models.Snapshot), onError func(error)) (unsubscribe func())

	// WatchConnectivity calls onChange once with the current reachability and
	// then on every change.
	WatchConnectivity(onChange func(connected bool)) (unsubscribe func())
}
