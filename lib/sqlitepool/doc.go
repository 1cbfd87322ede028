// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides a fixed-size pool of SQLite connections
// with Trackd-standard pragmas applied to every connection. It wraps
// sqlitex.Pool with a Config that carries a logger and an OnConnect
// hook for store-specific setup (schema creation, extra pragmas).
//
// Individual connections are not safe for concurrent use; each
// goroutine takes its own connection and puts it back when done.
package sqlitepool
