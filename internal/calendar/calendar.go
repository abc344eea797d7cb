// Package calendar mirrors the stand-up meeting into a Google Calendar as a
// recurring weekday event.
package calendar

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/store"
)

const (
	eventSummary    = "Daily Stand-up"
	eventDuration   = 15 * time.Minute
	eventRecurrence = "RRULE:FREQ=DAILY;BYDAY=MO,TU,WE,TH,FR"

	propertyKey   = "scrum_ai_master"
	propertyValue = "standup"
)

var meetingTimeLayouts = []string{"03:04 PM", "3:04 PM", "15:04"}

// ParseMeetingTime parses a stand-up time such as "09:30 AM" into hour and
// minute.
func ParseMeetingTime(s string) (hour, minute int, err error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range meetingTimeLayouts {
		t, parseErr := time.Parse(layout, s)
		if parseErr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("unrecognized meeting time %q", s)
}

// EventsClient is the subset of the Calendar events API the syncer needs.
type EventsClient interface {
	Find(ctx context.Context) (*gcal.Event, error)
	Insert(ctx context.Context, event *gcal.Event) (*gcal.Event, error)
	Patch(ctx context.Context, eventID string, event *gcal.Event) (*gcal.Event, error)
	Delete(ctx context.Context, eventID string) error
}

type googleEvents struct {
	srv        *gcal.Service
	calendarID string
}

// NewEventsClient builds a Calendar client from service account
// credentials stored at credentialsFile.
func NewEventsClient(ctx context.Context, credentialsFile, calendarID string) (EventsClient, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, gcal.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar credentials: %w", err)
	}

	srv, err := gcal.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar service: %w", err)
	}
	return &googleEvents{srv: srv, calendarID: calendarID}, nil
}

func (g *googleEvents) Find(ctx context.Context) (*gcal.Event, error) {
	events, err := g.srv.Events.List(g.calendarID).
		PrivateExtendedProperty(propertyKey + "=" + propertyValue).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}

func (g *googleEvents) Insert(ctx context.Context, event *gcal.Event) (*gcal.Event, error) {
	return g.srv.Events.Insert(g.calendarID, event).Context(ctx).Do()
}

func (g *googleEvents) Patch(ctx context.Context, eventID string, event *gcal.Event) (*gcal.Event, error) {
	return g.srv.Events.Patch(g.calendarID, eventID, event).Context(ctx).Do()
}

func (g *googleEvents) Delete(ctx context.Context, eventID string) error {
	return g.srv.Events.Delete(g.calendarID, eventID).Context(ctx).Do()
}

// Syncer applies meeting changes to the calendar in the background. Only
// the latest meeting state is synced; intermediate states may be skipped.
type Syncer struct {
	logger   zerolog.Logger
	client   EventsClient
	location *time.Location
	now      func() time.Time

	changes chan *models.Meeting
	eventID string
}

func NewSyncer(logger zerolog.Logger, client EventsClient, location *time.Location) *Syncer {
	if location == nil {
		location = time.Local
	}
	return &Syncer{
		logger:   logger,
		client:   client,
		location: location,
		now:      time.Now,
		changes:  make(chan *models.Meeting, 1),
	}
}

// Observe is a store.Listener. It never blocks.
func (s *Syncer) Observe(e store.Event) {
	if e.Kind != store.EventMeetingChanged {
		return
	}

	for {
		select {
		case s.changes <- e.Meeting.Clone():
			return
		default:
		}
		// Replace the queued state with the newer one.
		select {
		case <-s.changes:
		default:
		}
	}
}

func (s *Syncer) Run(ctx context.Context) {
	if existing, err := s.client.Find(ctx); err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to look up stand-up event")
	} else if existing != nil {
		s.eventID = existing.Id
	}

	for {
		select {
		case <-ctx.Done():
			return
		case meeting := <-s.changes:
			if err := s.Sync(ctx, meeting); err != nil {
				s.logger.Error().
					Err(err).
					Msg("failed to sync stand-up event")
			}
		}
	}
}

// Sync makes the calendar match meeting. A nil or cancelled meeting
// deletes the event.
func (s *Syncer) Sync(ctx context.Context, meeting *models.Meeting) error {
	if meeting == nil || !meeting.Scheduled {
		if s.eventID == "" {
			return nil
		}
		if err := s.client.Delete(ctx, s.eventID); err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		s.logger.Info().
			Str("event_id", s.eventID).
			Msg("deleted stand-up event")
		s.eventID = ""
		return nil
	}

	event, err := s.buildEvent(meeting)
	if err != nil {
		return err
	}

	var synced *gcal.Event
	if s.eventID != "" {
		synced, err = s.client.Patch(ctx, s.eventID, event)
	} else {
		synced, err = s.client.Insert(ctx, event)
	}
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	s.eventID = synced.Id

	s.logger.Info().
		Str("event_id", s.eventID).
		Str("time", meeting.Time).
		Msg("synced stand-up event")
	return nil
}

func (s *Syncer) buildEvent(meeting *models.Meeting) (*gcal.Event, error) {
	hour, minute, err := ParseMeetingTime(meeting.Time)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.location)
	start := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, s.location)
	if !start.After(now) {
		start = start.AddDate(0, 0, 1)
	}
	end := start.Add(eventDuration)

	return &gcal.Event{
		Summary:    eventSummary,
		Start:      &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: s.location.String()},
		End:        &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: s.location.String()},
		Recurrence: []string{eventRecurrence},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{propertyKey: propertyValue},
		},
	}, nil
}
