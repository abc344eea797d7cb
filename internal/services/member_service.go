package services

import (
	"strings"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

func (s *boardServiceImpl) Members() []models.TeamMember {
	return s.store.Members()
}

func (s *boardServiceImpl) AddTeamMember(params AddTeamMemberParams) (models.TeamMember, error) {
	if strings.TrimSpace(params.Name) == "" ||
		strings.TrimSpace(params.Role) == "" ||
		strings.TrimSpace(params.DailyUpdate) == "" {
		return models.TeamMember{}, ErrMissingMemberFields
	}

	member := s.store.AddTeamMember(models.NewTeamMember{
		Name:        params.Name,
		Role:        params.Role,
		DailyUpdate: params.DailyUpdate,
		Email:       params.Email,
	})

	s.logger.Info().
		Str("member_id", member.ID).
		Str("name", member.Name).
		Msg("added team member")
	return member, nil
}
