package gateway

import "google.golang.org/genai"

var createTaskDeclaration = &genai.FunctionDeclaration{
	Name:        FunctionCreateTask,
	Description: "Creates a task on the board and assigns it to a team member.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {
				Type:        genai.TypeString,
				Description: "Title of the task.",
			},
			"assigneeName": {
				Type:        genai.TypeString,
				Description: "Name of the team member who owns the task.",
			},
			"points": {
				Type:        genai.TypeNumber,
				Description: "Story point estimate of the task.",
			},
		},
		Required: []string{"title", "assigneeName", "points"},
	},
}

var rescheduleMeetingDeclaration = &genai.FunctionDeclaration{
	Name:        FunctionRescheduleMeeting,
	Description: "Moves the daily stand-up to a new time.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"time": {
				Type:        genai.TypeString,
				Description: `New stand-up time, for example "10:00 AM".`,
			},
		},
		Required: []string{"time"},
	},
}

var reviewerSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"reviewerName": {Type: genai.TypeString},
		"reason":       {Type: genai.TypeString},
	},
	Required: []string{"reviewerName", "reason"},
}

var mediaSummarySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": {Type: genai.TypeString},
		"tasks": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":        {Type: genai.TypeString},
					"assigneeName": {Type: genai.TypeString},
					"status": {
						Type: genai.TypeString,
						Enum: []string{"To Do", "In Progress", "Blocked", "Done"},
					},
					"points": {Type: genai.TypeNumber},
				},
				Required: []string{"title", "assigneeName", "status", "points"},
			},
		},
	},
	Required: []string{"summary", "tasks"},
}
