package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/store"
)

type fakeEvents struct {
	inserted []*gcal.Event
	patched  []string
	deleted  []string
	err      error
}

func (f *fakeEvents) Find(context.Context) (*gcal.Event, error) { return nil, nil }

func (f *fakeEvents) Insert(_ context.Context, event *gcal.Event) (*gcal.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inserted = append(f.inserted, event)
	created := *event
	created.Id = "evt-1"
	return &created, nil
}

func (f *fakeEvents) Patch(_ context.Context, eventID string, event *gcal.Event) (*gcal.Event, error) {
	f.patched = append(f.patched, eventID)
	patched := *event
	patched.Id = eventID
	return &patched, nil
}

func (f *fakeEvents) Delete(_ context.Context, eventID string) error {
	f.deleted = append(f.deleted, eventID)
	return nil
}

func TestParseMeetingTime(t *testing.T) {
	tests := []struct {
		in           string
		hour, minute int
		wantErr      bool
	}{
		{in: "09:30 AM", hour: 9, minute: 30},
		{in: "2:05 pm", hour: 14, minute: 5},
		{in: "12:00 AM", hour: 0, minute: 0},
		{in: "16:45", hour: 16, minute: 45},
		{in: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		hour, minute, err := ParseMeetingTime(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMeetingTime(%q) succeeded", tt.in)
			}
			continue
		}
		if err != nil || hour != tt.hour || minute != tt.minute {
			t.Errorf("ParseMeetingTime(%q) = %d, %d, %v", tt.in, hour, minute, err)
		}
	}
}

func newTestSyncer(client EventsClient) *Syncer {
	s := NewSyncer(zerolog.Nop(), client, time.UTC)
	s.now = func() time.Time { return time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestSyncLifecycle(t *testing.T) {
	client := &fakeEvents{}
	s := newTestSyncer(client)
	ctx := context.Background()

	if err := s.Sync(ctx, &models.Meeting{Time: "09:30 AM", Scheduled: true}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(client.inserted) != 1 {
		t.Fatalf("inserted = %d, want 1", len(client.inserted))
	}
	// 09:30 has passed at noon, so the series starts the next day.
	if got := client.inserted[0].Start.DateTime; got != "2024-03-06T09:30:00Z" {
		t.Errorf("start = %q", got)
	}

	if err := s.Sync(ctx, &models.Meeting{Time: "01:00 PM", Scheduled: true}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if len(client.patched) != 1 || client.patched[0] != "evt-1" {
		t.Errorf("patched = %v", client.patched)
	}

	if err := s.Sync(ctx, &models.Meeting{Time: "01:00 PM"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Sync(ctx, nil); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if len(client.deleted) != 1 {
		t.Errorf("deleted = %v, want one delete", client.deleted)
	}
}

func TestSyncErrors(t *testing.T) {
	s := newTestSyncer(&fakeEvents{err: errors.New("quota exceeded")})

	if err := s.Sync(context.Background(), &models.Meeting{Time: "09:30 AM", Scheduled: true}); err == nil {
		t.Error("insert error was not reported")
	}
	if err := s.Sync(context.Background(), &models.Meeting{Time: "half past nine", Scheduled: true}); err == nil {
		t.Error("bad time was not reported")
	}
}

func TestObserveKeepsLatestMeeting(t *testing.T) {
	s := newTestSyncer(&fakeEvents{})

	s.Observe(store.Event{Kind: store.EventTaskCreated})
	s.Observe(store.Event{Kind: store.EventMeetingChanged, Meeting: &models.Meeting{Time: "09:00 AM"}})
	s.Observe(store.Event{Kind: store.EventMeetingChanged, Meeting: &models.Meeting{Time: "10:00 AM"}})

	select {
	case m := <-s.changes:
		if m.Time != "10:00 AM" {
			t.Errorf("queued meeting = %+v, want the latest", m)
		}
	default:
		t.Fatal("no meeting queued")
	}
}
