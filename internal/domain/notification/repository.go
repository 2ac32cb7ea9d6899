package notification

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, req Request) (Request, error)
	// ExistsInWindow reports whether the user has a request of typ scheduled
	// within [from, to].
	ExistsInWindow(ctx context.Context, userID int64, typ Type, from, to time.Time) (bool, error)
	// HasPendingSince reports an unprocessed request of typ created after since.
	HasPendingSince(ctx context.Context, userID int64, typ Type, since time.Time) (bool, error)
	// ListDue returns unprocessed requests scheduled at or before now, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]Request, error)
	MarkProcessed(ctx context.Context, id int64, at time.Time) error
}
