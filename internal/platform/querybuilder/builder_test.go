package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder_JoinsAndRanges(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	to := from.Add(2 * time.Hour)
	query, args, err := Select("n.id", "n.user_id").
		From("notification_requests n").
		Join("users u ON u.id = n.user_id").
		Where(
			Eq("n.type", "REMIND_PICKS"),
			Between("n.scheduled_for", from, to),
			IsNotNull("u.email"),
		).
		OrderBy("n.scheduled_for", "n.id").
		Limit(5).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	want := "SELECT n.id, n.user_id FROM notification_requests n JOIN users u ON u.id = n.user_id " +
		"WHERE n.type = $1 AND n.scheduled_for BETWEEN $2 AND $3 AND u.email IS NOT NULL ORDER BY n.scheduled_for, n.id LIMIT 5"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 3 || args[0] != "REMIND_PICKS" || args[1] != from || args[2] != to {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_ExprAndEmptyIn(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").
		From("games").
		Where(Expr("kickoff_at > ? AND sport_id = ?", "now", int64(3)), In("id", nil)).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	want := "SELECT id FROM games WHERE kickoff_at > $1 AND sport_id = $2 AND 1=0 FOR UPDATE"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_UsesDBTags(t *testing.T) {
	t.Parallel()

	type row struct {
		UserID int64  `db:"user_id"`
		Type   string `db:"type"`
		Skip   string `db:"-"`
		hidden string
	}

	query, args, err := InsertModel("notification_requests", row{UserID: 4, Type: "GAME_UPDATED", hidden: "x"}, "RETURNING id")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	want := "INSERT INTO notification_requests (user_id, type) VALUES ($1, $2) RETURNING id"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 2 || args[0] != int64(4) || args[1] != "GAME_UPDATED" {
		t.Fatalf("unexpected args: %+v", args)
	}

	cols := Columns(row{}, "n")
	if len(cols) != 2 || cols[0] != "n.user_id" || cols[1] != "n.type" {
		t.Fatalf("unexpected columns: %+v", cols)
	}
}

func TestUpdateBuilder_SetExpr(t *testing.T) {
	t.Parallel()

	query, args, err := Update("sports").
		Set("current_season", "2026").
		SetExpr("current_week", "GREATEST(current_week, ?)", 3).
		Where(Eq("id", int64(1))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	want := "UPDATE sports SET current_season = $1, current_week = GREATEST(current_week, $2) WHERE id = $3"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_JoinKeywordIsNotRepeated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(*SelectBuilder) *SelectBuilder
		want  string
	}{
		{name: "bare clause", build: func(b *SelectBuilder) *SelectBuilder { return b.Join("games g ON g.id = p.game_id") }, want: "SELECT p.id FROM picks p JOIN games g ON g.id = p.game_id"},
		{name: "leading join", build: func(b *SelectBuilder) *SelectBuilder { return b.Join("JOIN games g ON g.id = p.game_id") }, want: "SELECT p.id FROM picks p JOIN games g ON g.id = p.game_id"},
		{name: "lower case join", build: func(b *SelectBuilder) *SelectBuilder { return b.Join("  join games g ON g.id = p.game_id") }, want: "SELECT p.id FROM picks p JOIN games g ON g.id = p.game_id"},
		{name: "left join bare", build: func(b *SelectBuilder) *SelectBuilder { return b.LeftJoin("games g ON g.id = p.game_id") }, want: "SELECT p.id FROM picks p LEFT JOIN games g ON g.id = p.game_id"},
		{name: "left join repeated", build: func(b *SelectBuilder) *SelectBuilder { return b.LeftJoin("LEFT JOIN games g ON g.id = p.game_id") }, want: "SELECT p.id FROM picks p LEFT JOIN games g ON g.id = p.game_id"},
		{name: "table named like keyword", build: func(b *SelectBuilder) *SelectBuilder { return b.Join("joins j ON j.pick_id = p.id") }, want: "SELECT p.id FROM picks p JOIN joins j ON j.pick_id = p.id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, _, err := tt.build(Select("p.id").From("picks p")).ToSQL()
			if err != nil {
				t.Fatalf("build select query: %v", err)
			}
			if query != tt.want {
				t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", tt.want, query)
			}
		})
	}
}
