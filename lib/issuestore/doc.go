// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

// Package issuestore persists issues in SQLite. It is the document
// store behind the REST API: filter-based find, insert with
// store-assigned identifiers, and id-keyed update and delete.
//
// All state lives here; the handlers above it hold nothing between
// requests. Single-row updates and deletes are atomic at the SQLite
// layer, which is the only per-record atomicity the API needs.
package issuestore
