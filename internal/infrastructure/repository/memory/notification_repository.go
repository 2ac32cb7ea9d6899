package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/notification"
)

type NotificationRepository struct {
	store *Store
}

func NewNotificationRepository(store *Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

func (r *NotificationRepository) Create(_ context.Context, req notification.Request) (notification.Request, error) {
	r.store.write(func(t *tables) {
		t.nextNotificationID++
		req.ID = t.nextNotificationID
		t.notifications[req.ID] = req
	})
	return req, nil
}

func (r *NotificationRepository) ExistsInWindow(_ context.Context, userID int64, typ notification.Type, from, to time.Time) (bool, error) {
	found := false
	r.store.read(func(t *tables) {
		for _, req := range t.notifications {
			if req.UserID == userID && req.Type == typ &&
				!req.ScheduledFor.Before(from) && !req.ScheduledFor.After(to) {
				found = true
				return
			}
		}
	})
	return found, nil
}

func (r *NotificationRepository) HasPendingSince(_ context.Context, userID int64, typ notification.Type, since time.Time) (bool, error) {
	found := false
	r.store.read(func(t *tables) {
		for _, req := range t.notifications {
			if req.UserID == userID && req.Type == typ && !req.Processed && req.CreatedAt.After(since) {
				found = true
				return
			}
		}
	})
	return found, nil
}

func (r *NotificationRepository) ListDue(_ context.Context, now time.Time, limit int) ([]notification.Request, error) {
	out := make([]notification.Request, 0)
	r.store.read(func(t *tables) {
		for _, req := range t.notifications {
			if !req.Processed && !req.ScheduledFor.After(now) {
				out = append(out, req)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledFor.Equal(out[j].ScheduledFor) {
			return out[i].ScheduledFor.Before(out[j].ScheduledFor)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) MarkProcessed(_ context.Context, id int64, at time.Time) error {
	var err error
	r.store.write(func(t *tables) {
		req, ok := t.notifications[id]
		if !ok {
			err = fmt.Errorf("notification id=%d not found", id)
			return
		}
		processedAt := at.UTC()
		req.Processed = true
		req.ProcessedAt = &processedAt
		t.notifications[id] = req
	})
	return err
}

// All returns every stored request ordered by id.
func (r *NotificationRepository) All() []notification.Request {
	out := make([]notification.Request, 0)
	r.store.read(func(t *tables) {
		for _, req := range t.notifications {
			out = append(out, req)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
