// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for Trackd.
//
// Configuration is loaded from a single file specified by:
//   - TRACKD_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This keeps the
// configuration deterministic and auditable with no hidden overrides.
//
// The file may be YAML (.yaml/.yml) or JSONC (.json/.jsonc — JSON
// extended with comments and trailing commas). It may contain
// environment-specific sections (development, staging, production)
// that override base values when the environment matches.
package config
