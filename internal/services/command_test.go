package services

import (
	"testing"

	"github.com/adanyl0v/scrum-ai-master/internal/gateway"
)

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name string
		call gateway.FunctionCall
		want Command
	}{
		{
			name: "create task",
			call: gateway.FunctionCall{Name: "createTask", Args: map[string]any{
				"title": " Write docs ", "assigneeName": "Alice", "points": float64(2),
			}},
			want: CreateTaskCommand{Title: "Write docs", AssigneeName: "Alice", Points: 2},
		},
		{
			name: "fractional points",
			call: gateway.FunctionCall{Name: "createTask", Args: map[string]any{
				"title": "Docs", "assigneeName": "Alice", "points": 2.5,
			}},
			want: UnrecognizedCommand{Name: "createTask", Reason: "points must be a positive whole number"},
		},
		{
			name: "missing title",
			call: gateway.FunctionCall{Name: "createTask", Args: map[string]any{
				"assigneeName": "Alice", "points": float64(1),
			}},
			want: UnrecognizedCommand{Name: "createTask", Reason: "missing title"},
		},
		{
			name: "reschedule",
			call: gateway.FunctionCall{Name: "rescheduleMeeting", Args: map[string]any{"time": "11:15 AM"}},
			want: RescheduleMeetingCommand{Time: "11:15 AM"},
		},
		{
			name: "reschedule without time",
			call: gateway.FunctionCall{Name: "rescheduleMeeting", Args: map[string]any{"time": 11}},
			want: UnrecognizedCommand{Name: "rescheduleMeeting", Reason: "missing time"},
		},
		{
			name: "unknown",
			call: gateway.FunctionCall{Name: "deleteEverything"},
			want: UnrecognizedCommand{Name: "deleteEverything", Reason: "unknown function"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeCommand(tt.call); got != tt.want {
				t.Errorf("DecodeCommand() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
