// Package favorites persists each user's ordered list of favorite assets.
package favorites

import "context"

// Store is the narrow persistence interface the bot consumes. Lists keep
// insertion order; Add and Remove are idempotent and report whether they
// changed anything so the caller can word its confirmation.
type Store interface {
	// List returns the user's favorite asset ids in insertion order.
	List(ctx context.Context, userID int64) ([]string, error)
	// Add appends assetID unless it is already present.
	Add(ctx context.Context, userID int64, assetID string) (added bool, err error)
	// Remove deletes assetID if present.
	Remove(ctx context.Context, userID int64, assetID string) (removed bool, err error)
}
