package services

import (
	"strings"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

// ResolveAssignee finds the member whose name equals name ignoring case.
// There is no partial or fuzzy matching.
func ResolveAssignee(members []models.TeamMember, name string) (models.TeamMember, bool) {
	for _, m := range members {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return models.TeamMember{}, false
}
