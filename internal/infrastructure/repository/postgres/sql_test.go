package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("get game: %w", sql.ErrNoRows)) {
		t.Fatalf("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(fmt.Errorf("pq: relation games does not exist")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestNullFloat64RoundTrip(t *testing.T) {
	if got := nullFloat64ToPtr(sql.NullFloat64{}); got != nil {
		t.Fatalf("expected nil for null spread, got %v", *got)
	}

	spread := 3.5
	stored := ptrToNullFloat64(&spread)
	if !stored.Valid || stored.Float64 != 3.5 {
		t.Fatalf("unexpected stored spread: %+v", stored)
	}
	if ptrToNullFloat64(nil).Valid {
		t.Fatalf("expected invalid null float for nil spread")
	}
}

func TestNullTimeToTimePtr(t *testing.T) {
	if got := nullTimeToTimePtr(sql.NullTime{}); got != nil {
		t.Fatalf("expected nil, got %s", got)
	}

	loc := time.FixedZone("WIB", 7*3600)
	got := nullTimeToTimePtr(sql.NullTime{Time: time.Date(2026, 9, 1, 7, 0, 0, 0, loc), Valid: true})
	if got == nil || got.Location() != time.UTC || got.Hour() != 0 {
		t.Fatalf("expected utc time, got %v", got)
	}
}

func TestOptionalString(t *testing.T) {
	if optionalString("   ") != nil {
		t.Fatalf("expected nil for blank value")
	}
	if got := optionalString(" boom "); got == nil || *got != "boom" {
		t.Fatalf("unexpected value: %v", got)
	}
}
