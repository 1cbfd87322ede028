// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the HTTP server lifecycle for Trackd.
//
// The server owns listener binding, readiness signaling, and graceful
// shutdown; the caller provides the http.Handler. Serve(ctx) blocks
// until the context is cancelled and active requests drain.
package service
