// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock provides the current time. Every production function that
// would call time.Now should accept a Clock (or be a method on a
// struct with a Clock field) instead of calling the time package
// directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// realClock delegates to the time package.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Real returns a Clock backed by the system clock.
func Real() Clock { return realClock{} }
