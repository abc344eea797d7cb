package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/adanyl0v/scrum-ai-master/internal/gateway"
)

// Command is a validated action requested by the model.
type Command interface {
	command()
}

type CreateTaskCommand struct {
	Title        string
	AssigneeName string
	Points       int
}

type RescheduleMeetingCommand struct {
	Time string
}

// UnrecognizedCommand is any function call that failed validation.
type UnrecognizedCommand struct {
	Name   string
	Reason string
}

func (CreateTaskCommand) command()        {}
func (RescheduleMeetingCommand) command() {}
func (UnrecognizedCommand) command()      {}

// DecodeCommand turns an untyped function call into a Command. It never
// trusts field presence or types.
func DecodeCommand(call gateway.FunctionCall) Command {
	switch call.Name {
	case gateway.FunctionCreateTask:
		title, ok := stringArg(call.Args, "title")
		if !ok {
			return UnrecognizedCommand{Name: call.Name, Reason: "missing title"}
		}
		assignee, ok := stringArg(call.Args, "assigneeName")
		if !ok {
			return UnrecognizedCommand{Name: call.Name, Reason: "missing assigneeName"}
		}
		points, ok := pointsArg(call.Args, "points")
		if !ok {
			return UnrecognizedCommand{Name: call.Name, Reason: "points must be a positive whole number"}
		}
		return CreateTaskCommand{Title: title, AssigneeName: assignee, Points: points}

	case gateway.FunctionRescheduleMeeting:
		t, ok := stringArg(call.Args, "time")
		if !ok {
			return UnrecognizedCommand{Name: call.Name, Reason: "missing time"}
		}
		return RescheduleMeetingCommand{Time: t}
	}

	return UnrecognizedCommand{Name: call.Name, Reason: "unknown function"}
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func pointsArg(args map[string]any, key string) (int, bool) {
	var f float64
	switch v := args[key].(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return 0, false
	}
	if f < 1 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func (c UnrecognizedCommand) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Reason)
}
