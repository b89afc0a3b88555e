// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

// Package testutils holds shared test helpers.
package testutils

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyGoLeaks verifies that unit tests do not leak goroutines. Call it from
// TestMain. Idle HTTP keep-alive connections are ignored; they are torn down
// by the transport after the test binary's clients go away.
func VerifyGoLeaks(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}
