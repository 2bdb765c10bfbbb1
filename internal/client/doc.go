// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the console application runtime.
//
// It wires the sync engine (cache, remote client, broadcast channel and
// connection machine) and runs it together with the terminal UI and the
// background remote session in a single process lifecycle.
package client
