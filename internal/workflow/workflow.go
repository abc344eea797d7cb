// Package workflow defines which task status changes the board offers.
package workflow

import "github.com/adanyl0v/scrum-ai-master/internal/models"

type Transition struct {
	From  models.TaskStatus
	To    models.TaskStatus
	Label string
}

var transitions = []Transition{
	{From: models.StatusToDo, To: models.StatusInProgress, Label: "Start Progress"},
	{From: models.StatusInProgress, To: models.StatusInReview, Label: "Request Review"},
	{From: models.StatusInProgress, To: models.StatusBlocked, Label: "Block"},
	{From: models.StatusBlocked, To: models.StatusInProgress, Label: "Unblock"},
	{From: models.StatusInReview, To: models.StatusDone, Label: "Approve"},
}

// Available returns the transitions offered for a task in the given status.
// Done has none.
func Available(from models.TaskStatus) []Transition {
	var out []Transition
	for _, t := range transitions {
		if t.From == from {
			out = append(out, t)
		}
	}
	return out
}

func Lookup(from, to models.TaskStatus) (Transition, bool) {
	for _, t := range transitions {
		if t.From == from && t.To == to {
			return t, true
		}
	}
	return Transition{}, false
}

func Allowed(from, to models.TaskStatus) bool {
	_, ok := Lookup(from, to)
	return ok
}

// EntersReview reports whether moving from -> to is the edge that asks for
// a reviewer.
func EntersReview(from, to models.TaskStatus) bool {
	return to == models.StatusInReview && from != models.StatusInReview
}

// Terminal reports whether no transition leaves the status.
func Terminal(s models.TaskStatus) bool {
	return len(Available(s)) == 0
}
