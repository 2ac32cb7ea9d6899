package notification

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeRemindPicks Type = "REMIND_PICKS"
	TypeGameUpdated Type = "GAME_UPDATED"
)

func (t Type) Valid() bool {
	return t == TypeRemindPicks || t == TypeGameUpdated
}

// Request is a deferred intent to notify one user. Requests are never
// deleted; Processed flips once, after the dispatcher has handled it.
type Request struct {
	ID           int64
	UserID       int64
	Type         Type
	Processed    bool
	ScheduledFor time.Time
	CreatedAt    time.Time
	ProcessedAt  *time.Time
}

func NewRequest(userID int64, typ Type, scheduledFor, now time.Time) (Request, error) {
	if userID <= 0 {
		return Request{}, fmt.Errorf("notification user id is required")
	}
	if !typ.Valid() {
		return Request{}, fmt.Errorf("unknown notification type %q", typ)
	}
	if scheduledFor.IsZero() {
		return Request{}, fmt.Errorf("notification scheduled time is required")
	}
	return Request{
		UserID:       userID,
		Type:         typ,
		ScheduledFor: scheduledFor.UTC(),
		CreatedAt:    now.UTC(),
	}, nil
}

// Message is a rendered notification ready for the transport.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}
