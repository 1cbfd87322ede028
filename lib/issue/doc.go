// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

// Package issue defines the Issue entity and the pure domain logic
// around it: construction with required-field validation, identifier
// generation and parsing, filter coercion for list queries, and the
// mutable-field set for updates.
//
// Everything here is storage-agnostic. The store (lib/issuestore)
// persists whatever this package constructs; the HTTP handlers
// (cmd/trackd) translate request payloads into these types and map
// the returned errors onto the wire contract.
package issue
