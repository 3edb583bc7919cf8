// Package session stores the per-user pending-command marker. The only
// consumer today is the symbol search flow: tapping the search button sets
// the marker, and the free-text handler accepts a $SYMBOL message only while
// the marker is present.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrMarkerNotFound indicates that no marker is set for the user.
var ErrMarkerNotFound = errors.New("session marker not found")

// DefaultTTL bounds how long a prompt stays answerable. A marker that was
// never consumed expires on its own instead of lingering forever.
const DefaultTTL = 10 * time.Minute

// Marker records the last prompt dispatched to a user.
type Marker struct {
	UserID  int64     `json:"user_id"`
	Command string    `json:"command"`
	SetAt   time.Time `json:"set_at"`
}

// Storage is the persistence contract for session markers.
type Storage interface {
	// Get returns the user's marker or ErrMarkerNotFound.
	Get(ctx context.Context, userID int64) (*Marker, error)
	// Set overwrites the user's marker.
	Set(ctx context.Context, userID int64, command string) error
	// Clear removes the user's marker. Clearing an absent marker is a no-op.
	Clear(ctx context.Context, userID int64) error
}
