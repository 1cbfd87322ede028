// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

// Trackd is a minimal issue-tracking REST service. Clients create,
// list, filter, update, and delete issue records scoped by a project
// name. Issues live in a SQLite document store; the project is a
// free-text grouping label, not a managed entity.
//
// # Startup
//
// The service loads its configuration from the file named by the
// TRACKD_CONFIG environment variable or the --config flag (YAML or
// JSONC), opens the SQLite store, and serves HTTP on the configured
// listen address until interrupted. --listen and --database override
// the file.
//
// # HTTP API
//
// All issue operations live under one resource path:
//
//	GET    /api/issues/{project}   list issues, query params filter
//	POST   /api/issues/{project}   create an issue
//	PUT    /api/issues/{project}   update fields of an issue by _id
//	DELETE /api/issues/{project}   delete an issue by _id
//
// Request and response bodies are JSON; POST, PUT, and DELETE also
// accept form-encoded bodies. Domain errors (missing fields, unknown
// ids) are reported as 200 responses with a JSON error payload whose
// exact shape clients match on; only unexpected failures produce a
// 500.
//
// The root path serves an embedded index page and /{project} serves a
// per-project issue page. Everything else is a plain-text 404.
package main
