package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

func newTestMeetings(gw *fakeGateway, meeting *models.Meeting) *meetingServiceImpl {
	boardStore := newTestStoreWithMeeting(meeting)
	s := NewMeetingService(zerolog.Nop(), boardStore, gw).(*meetingServiceImpl)
	s.now = func() time.Time { return time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestCancelAndReschedule(t *testing.T) {
	s := newTestMeetings(&fakeGateway{}, &models.Meeting{Time: "09:30 AM", Scheduled: true, Attendees: []string{"U-1"}})

	if m := s.Cancel(); m == nil || m.Scheduled {
		t.Fatalf("after cancel = %+v", m)
	}

	m, err := s.Reschedule("02:00 PM")
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if !m.Scheduled || m.Time != "02:00 PM" || len(m.Attendees) != 1 {
		t.Errorf("after reschedule = %+v", m)
	}

	if _, err = s.Reschedule(""); !errors.Is(err, ErrEmptyMeetingTime) {
		t.Errorf("err = %v, want ErrEmptyMeetingTime", err)
	}
}

func TestCancelWithoutMeeting(t *testing.T) {
	s := newTestMeetings(&fakeGateway{}, nil)

	if m := s.Cancel(); m != nil {
		t.Errorf("cancel created a meeting: %+v", m)
	}

	s.Remove()
	if s.Meeting() != nil {
		t.Error("meeting present after remove")
	}
}

func TestSummaryMailto(t *testing.T) {
	gw := &fakeGateway{summary: "All good & on track"}
	s := newTestMeetings(gw, &models.Meeting{Time: "09:30 AM", Scheduled: true})

	result, err := s.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	want := "mailto:alice@example.com,bob@example.com" +
		"?subject=Daily%20Scrum%20Summary%20-%203%2F5%2F2024" +
		"&body=All%20good%20%26%20on%20track"
	if result.MailtoURL != want {
		t.Errorf("mailto = %q, want %q", result.MailtoURL, want)
	}
	if len(result.Recipients) != 2 {
		t.Errorf("recipients = %v", result.Recipients)
	}
}

func TestSummaryRequiresScheduledMeeting(t *testing.T) {
	s := newTestMeetings(&fakeGateway{summary: "x"}, &models.Meeting{Time: "09:30 AM"})

	if _, err := s.Summary(context.Background()); !errors.Is(err, ErrMeetingNotScheduled) {
		t.Errorf("err = %v, want ErrMeetingNotScheduled", err)
	}
}

func TestSummaryFailureUsesApology(t *testing.T) {
	s := newTestMeetings(&fakeGateway{summaryErr: errGatewayDown}, &models.Meeting{Time: "09:30 AM", Scheduled: true})

	result, err := s.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if result.Summary != summaryApology || !strings.Contains(result.MailtoURL, "Sorry") {
		t.Errorf("result = %+v", result)
	}
}
