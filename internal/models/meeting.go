package models

import "slices"

type Meeting struct {
	Time      string
	Scheduled bool
	Attendees []string
}

// Clone returns a deep copy. A nil meeting clones to nil.
func (m *Meeting) Clone() *Meeting {
	if m == nil {
		return nil
	}
	return &Meeting{
		Time:      m.Time,
		Scheduled: m.Scheduled,
		Attendees: slices.Clone(m.Attendees),
	}
}
