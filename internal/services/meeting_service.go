package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/scrum-ai-master/internal/gateway"
	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/store"
)

type meetingServiceImpl struct {
	logger  zerolog.Logger
	store   *store.Store
	gateway gateway.Gateway
	now     func() time.Time
}

func NewMeetingService(
	logger zerolog.Logger,
	boardStore *store.Store,
	gw gateway.Gateway,
) MeetingService {
	return &meetingServiceImpl{
		logger:  logger,
		store:   boardStore,
		gateway: gw,
		now:     time.Now,
	}
}

func (s *meetingServiceImpl) Meeting() *models.Meeting {
	return s.store.Meeting()
}

func (s *meetingServiceImpl) Cancel() *models.Meeting {
	meeting := s.store.UpdateMeeting(func(current *models.Meeting) *models.Meeting {
		if current == nil {
			return nil
		}
		current.Scheduled = false
		return current
	})

	s.logger.Info().Msg("cancelled meeting")
	return meeting
}

func (s *meetingServiceImpl) Reschedule(meetingTime string) (*models.Meeting, error) {
	meetingTime = strings.TrimSpace(meetingTime)
	if meetingTime == "" {
		return nil, ErrEmptyMeetingTime
	}

	members := s.store.Members()
	meeting := s.store.UpdateMeeting(func(current *models.Meeting) *models.Meeting {
		if current == nil {
			current = &models.Meeting{Attendees: make([]string, len(members))}
			for i, m := range members {
				current.Attendees[i] = m.ID
			}
		}
		current.Time = meetingTime
		current.Scheduled = true
		return current
	})

	s.logger.Info().
		Str("time", meetingTime).
		Msg("rescheduled meeting")
	return meeting, nil
}

func (s *meetingServiceImpl) Remove() {
	s.store.SetMeeting(nil)
	s.logger.Info().Msg("removed meeting")
}

func (s *meetingServiceImpl) Summary(ctx context.Context) (*MeetingSummaryResult, error) {
	meeting := s.store.Meeting()
	if meeting == nil || !meeting.Scheduled {
		return nil, ErrMeetingNotScheduled
	}

	members := s.store.Members()
	var recipients []string
	for _, m := range members {
		if m.Email != "" {
			recipients = append(recipients, m.Email)
		}
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	summary, err := s.gateway.Summarize(ctx, standupUpdates(members))
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to summarize meeting")
		summary = summaryApology
	}

	subject := "Daily Scrum Summary - " + s.now().Format("1/2/2006")
	return &MeetingSummaryResult{
		Summary:    summary,
		MailtoURL:  mailtoURL(recipients, subject, summary),
		Recipients: recipients,
	}, nil
}

func mailtoURL(recipients []string, subject, body string) string {
	return "mailto:" + strings.Join(recipients, ",") +
		"?subject=" + pathEscape(subject) +
		"&body=" + pathEscape(body)
}

// pathEscape encodes spaces as %20, which mail clients expect.
func pathEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
