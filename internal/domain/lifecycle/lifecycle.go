// Package lifecycle holds shared timeouts for startup and shutdown hooks.
package lifecycle

import "time"

// DefaultTimeout bounds lifecycle operations such as server shutdown and
// the initial database ping.
const DefaultTimeout = 10 * time.Second
