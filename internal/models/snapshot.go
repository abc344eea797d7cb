package models

import "slices"

// Snapshot is the persisted part of the board: tasks and team members.
type Snapshot struct {
	Tasks   []Task
	Members []TeamMember
}

func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Tasks:   slices.Clone(s.Tasks),
		Members: slices.Clone(s.Members),
	}
}
