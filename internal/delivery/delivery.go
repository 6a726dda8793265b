// Package delivery defines the entry points that expose the application
// to the outside world.
package delivery

import "context"

// Delivery is a serving surface (HTTP today) started by the application
// bootstrap and stopped through its lifecycle hooks.
type Delivery interface {
	Serve(ctx context.Context) error
}
