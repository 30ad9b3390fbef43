// Package delivery defines the contract every transport implementation
// (HTTP, future gRPC, workers) satisfies so main can start them uniformly.
package delivery

import "context"

// Delivery is a long-running transport server.
type Delivery interface {
	// Serve blocks until the server stops or fails.
	Serve(ctx context.Context) error
}
