// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the current time behind an injectable
// interface. Production code uses Real(); tests use a Fake with
// explicit time control, which makes timestamp assertions (such as
// "updated_on advances on every update") deterministic.
package clock
