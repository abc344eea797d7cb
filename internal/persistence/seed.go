package persistence

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

// DefaultSeed is the board used when nothing has been stored yet.
func DefaultSeed() models.Snapshot {
	return models.Snapshot{
		Members: []models.TeamMember{
			{
				ID:          "U-1",
				Name:        "Alice",
				Email:       "alice@example.com",
				Avatar:      "https://i.pravatar.cc/150?u=alice",
				Role:        "Frontend Dev",
				DailyUpdate: "Finished the login page UI. Starting on the dashboard layout. No blockers.",
			},
			{
				ID:          "U-2",
				Name:        "Bob",
				Email:       "bob@example.com",
				Avatar:      "https://i.pravatar.cc/150?u=bob",
				Role:        "Backend Dev",
				DailyUpdate: "Deployed the new authentication service. Currently working on the user profile endpoint. Blocked by API gateway configuration.",
			},
			{
				ID:          "U-3",
				Name:        "Charlie",
				Email:       "charlie@example.com",
				Avatar:      "https://i.pravatar.cc/150?u=charlie",
				Role:        "UX/UI Designer",
				DailyUpdate: "Completed mockups for the settings page. Will be gathering feedback from the team today.",
			},
			{
				ID:          "U-4",
				Name:        "Diana",
				Email:       "diana@example.com",
				Avatar:      "https://i.pravatar.cc/150?u=diana",
				Role:        "QA Engineer",
				DailyUpdate: "Wrote test cases for the login flow. Found a minor bug on password validation, SAM ticket created.",
			},
		},
		Tasks: []models.Task{
			{ID: "T-1", Title: "Implement User Login UI", AssigneeID: "U-1", Status: models.StatusDone, Points: 5, Priority: models.PriorityHigh},
			{ID: "T-2", Title: "Develop Authentication API", AssigneeID: "U-2", Status: models.StatusDone, Points: 8, Priority: models.PriorityHigh},
			{ID: "T-3", Title: "Design Settings Page Mockups", AssigneeID: "U-3", Status: models.StatusInReview, Points: 3, Priority: models.PriorityMedium},
			{ID: "T-4", Title: "Write Test Cases for Auth", AssigneeID: "U-4", Status: models.StatusInProgress, Points: 5, Priority: models.PriorityHigh},
			{ID: "T-5", Title: "Build Dashboard Layout", AssigneeID: "U-1", Status: models.StatusInProgress, Points: 8, Priority: models.PriorityUrgent},
			{ID: "T-6", Title: "Create User Profile Endpoint", AssigneeID: "U-2", Status: models.StatusToDo, Points: 5, Priority: models.PriorityMedium},
			{ID: "T-7", Title: "Setup CI/CD Pipeline", AssigneeID: "U-2", Status: models.StatusToDo, Points: 8, Priority: models.PriorityLow},
		},
	}
}

type seedFile struct {
	Members []models.TeamMember `yaml:"members"`
	Tasks   []models.Task       `yaml:"tasks"`
}

// LoadSeedFile reads seed data from a YAML file with top-level "members"
// and "tasks" lists.
func LoadSeedFile(path string) (models.Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f seedFile
	err = yaml.Unmarshal(b, &f)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to decode seed file: %w", err)
	}

	err = validateTasks(f.Tasks)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("invalid seed file: %w", err)
	}
	err = validateMembers(f.Members)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("invalid seed file: %w", err)
	}

	return models.Snapshot{Tasks: f.Tasks, Members: f.Members}, nil
}

func validateTasks(tasks []models.Task) error {
	for i, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("task %d has no id", i)
		}
		if !t.Status.Valid() {
			return fmt.Errorf("task %s has invalid status %q", t.ID, t.Status)
		}
	}
	return nil
}

func validateMembers(members []models.TeamMember) error {
	for i, m := range members {
		if m.ID == "" {
			return fmt.Errorf("member %d has no id", i)
		}
	}
	return nil
}
