package standing

import "context"

type Repository interface {
	// Upsert writes rows keyed by (league, user, sport, season, week),
	// replacing every counter.
	Upsert(ctx context.Context, rows []Row) error
	ListByScope(ctx context.Context, scope Scope) ([]Row, error)
	// ListTotals sums rows per user, ordered by points then wins.
	ListTotals(ctx context.Context, query Query) ([]Total, error)
}
