package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, leagueID int64) (League, bool, error)
	GetMember(ctx context.Context, leagueID, userID int64) (Member, bool, error)
	ListMembers(ctx context.Context, leagueID int64) ([]Member, error)
	// ListBySport returns leagues with the sport active.
	ListBySport(ctx context.Context, sportID int64) ([]League, error)
	// ListMemberIDsBySport returns the distinct users belonging to any league
	// with the sport active.
	ListMemberIDsBySport(ctx context.Context, sportID int64) ([]int64, error)
	ListActiveSportsForUser(ctx context.Context, userID int64) ([]ActiveSport, error)
}
