package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

const summarizePrompt = `You are an experienced Scrum Master. Summarize the daily stand-up updates below.
Keep it short and well structured, use markdown, and call out achievements, work in progress and blockers.

Updates:
%s`

const conversePrompt = `You are the Scrum assistant for this team. You can:
1. create tasks,
2. reschedule the daily stand-up,
3. answer questions about the tasks on the board, including blockers.

To answer a question about a task, find the task, find its assignee in the team list
and read the assignee's dailyUpdate; blockers are usually mentioned there.
Answer briefly, for example: "**Bob:** blocked by the API gateway configuration."

Tasks can only be assigned to: %s.

Team members (JSON): %s
Tasks (JSON): %s`

const reviewerPrompt = `%s has moved the task %q to review and it needs a code review.
Pick the single most suitable reviewer from the candidates below, preferring peers in a similar role.

Candidates (JSON): %s

Answer with the reviewer's name and a one-sentence reason.`

const mediaPrompt = `You are a Scrum Master assistant. The attached file is a meeting transcript or recording.

First turn it into a transcript: use text as is; transcribe audio or video and label distinct speakers
as "Speaker 1:", "Speaker 2:" and so on where you can.

Then analyze the transcript:
1. summary: a short neutral summary of the discussion and outcomes;
2. tasks: every action item or commitment, each with
   - assigneeName: one of the team members listed below,
   - status: one of "To Do", "In Progress", "Blocked", "Done",
   - points: a story point estimate of 1, 2, 3, 5 or 8,
   - title: prefixed with "[Bug Fix]" or "[Patch Needed]" when the item is described as a bug fix or a patch.

Team members: %s`

type memberContext struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DailyUpdate string `json:"dailyUpdate,omitempty"`
}

type candidateContext struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

func buildSummarizePrompt(updates string) string {
	return fmt.Sprintf(summarizePrompt, updates)
}

func buildConverseInstruction(members []models.TeamMember, tasks []models.Task) (string, error) {
	ctxMembers := make([]memberContext, len(members))
	for i, m := range members {
		ctxMembers[i] = memberContext{ID: m.ID, Name: m.Name, DailyUpdate: m.DailyUpdate}
	}

	membersJSON, err := json.Marshal(ctxMembers)
	if err != nil {
		return "", fmt.Errorf("failed to marshal members: %w", err)
	}
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tasks: %w", err)
	}

	return fmt.Sprintf(conversePrompt, memberNames(members), membersJSON, tasksJSON), nil
}

func buildReviewerPrompt(task models.Task, assignee *models.TeamMember, candidates []models.TeamMember) (string, error) {
	ctxCandidates := make([]candidateContext, len(candidates))
	for i, m := range candidates {
		ctxCandidates[i] = candidateContext{Name: m.Name, Role: m.Role}
	}

	candidatesJSON, err := json.Marshal(ctxCandidates)
	if err != nil {
		return "", fmt.Errorf("failed to marshal candidates: %w", err)
	}

	author := "A team member"
	if assignee != nil {
		author = fmt.Sprintf("%s (%s)", assignee.Name, assignee.Role)
	}
	return fmt.Sprintf(reviewerPrompt, author, task.Title, candidatesJSON), nil
}

func buildMediaPrompt(members []models.TeamMember) string {
	return fmt.Sprintf(mediaPrompt, memberNames(members))
}

func memberNames(members []models.TeamMember) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}
