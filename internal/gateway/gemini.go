package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

const DefaultModel = "gemini-2.5-flash"

const mimeTypeJSON = "application/json"

// generator is the part of genai.Models the gateway uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Gemini struct {
	logger  zerolog.Logger
	models  generator
	model   string
	timeout time.Duration
}

// NewGemini connects to the Gemini API. A zero timeout leaves calls bounded
// only by the caller's context.
func NewGemini(
	ctx context.Context,
	logger zerolog.Logger,
	apiKey string,
	model string,
	timeout time.Duration,
) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newGemini(logger, client.Models, model, timeout), nil
}

func newGemini(logger zerolog.Logger, models generator, model string, timeout time.Duration) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{
		logger:  logger,
		models:  models,
		model:   model,
		timeout: timeout,
	}
}

func (g *Gemini) Summarize(ctx context.Context, updates string) (string, error) {
	resp, err := g.generate(ctx, "summarize", genai.Text(buildSummarizePrompt(updates)), nil)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *Gemini) Converse(
	ctx context.Context,
	prompt string,
	members []models.TeamMember,
	tasks []models.Task,
) (*Reply, error) {
	instruction, err := buildConverseInstruction(members, tasks)
	if err != nil {
		return nil, err
	}

	resp, err := g.generate(ctx, "converse", genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
		Tools: []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				createTaskDeclaration,
				rescheduleMeetingDeclaration,
			},
		}},
	})
	if err != nil {
		return nil, err
	}

	if calls := resp.FunctionCalls(); len(calls) > 0 {
		g.logger.Debug().
			Str("function", calls[0].Name).
			Int("calls", len(calls)).
			Msg("model requested function call")
		return &Reply{FunctionCall: &FunctionCall{
			Name: calls[0].Name,
			Args: calls[0].Args,
		}}, nil
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return &Reply{Text: text}, nil
}

func (g *Gemini) SuggestReviewer(
	ctx context.Context,
	task models.Task,
	assignee *models.TeamMember,
	candidates []models.TeamMember,
) (*models.ReviewSuggestion, error) {
	prompt, err := buildReviewerPrompt(task, assignee, candidates)
	if err != nil {
		return nil, err
	}

	resp, err := g.generate(ctx, "suggest_reviewer", genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: mimeTypeJSON,
		ResponseSchema:   reviewerSchema,
	})
	if err != nil {
		return nil, err
	}

	var suggestion models.ReviewSuggestion
	err = decodeJSON(resp.Text(), &suggestion)
	if err != nil {
		return nil, err
	}
	if suggestion.ReviewerName == "" || suggestion.Reason == "" {
		return nil, fmt.Errorf("%w: reviewer suggestion is incomplete", ErrMalformedResponse)
	}
	return &suggestion, nil
}

type mediaSummaryResponse struct {
	Summary string `json:"summary"`
	Tasks   []struct {
		Title        string  `json:"title"`
		AssigneeName string  `json:"assigneeName"`
		Status       string  `json:"status"`
		Points       float64 `json:"points"`
	} `json:"tasks"`
}

func (g *Gemini) SummarizeMedia(
	ctx context.Context,
	data []byte,
	mimeType string,
	members []models.TeamMember,
) (*models.MeetingSummary, error) {
	contents := []*genai.Content{{
		Role: string(genai.RoleUser),
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{Data: data, MIMEType: mimeType}},
			{Text: buildMediaPrompt(members)},
		},
	}}

	resp, err := g.generate(ctx, "summarize_media", contents, &genai.GenerateContentConfig{
		ResponseMIMEType: mimeTypeJSON,
		ResponseSchema:   mediaSummarySchema,
	})
	if err != nil {
		return nil, err
	}

	var decoded mediaSummaryResponse
	err = decodeJSON(resp.Text(), &decoded)
	if err != nil {
		return nil, err
	}

	summary := &models.MeetingSummary{
		Summary: decoded.Summary,
		Tasks:   make([]models.SummarizedTask, 0, len(decoded.Tasks)),
	}
	for _, t := range decoded.Tasks {
		summary.Tasks = append(summary.Tasks, models.SummarizedTask{
			Title:        t.Title,
			AssigneeName: t.AssigneeName,
			Status:       models.TaskStatus(t.Status),
			Points:       int(math.Round(t.Points)),
		})
	}
	return summary, nil
}

func (g *Gemini) generate(
	ctx context.Context,
	capability string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		g.logger.Error().
			Err(err).
			Str("capability", capability).
			Str("model", g.model).
			Msg("failed to generate content")
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		g.logger.Warn().
			Str("capability", capability).
			Msg("model returned no candidates")
		return nil, ErrEmptyResponse
	}

	g.logger.Debug().
		Str("capability", capability).
		Dur("took", time.Since(start)).
		Msg("generated content")
	return resp, nil
}

func decodeJSON(text string, v any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyResponse
	}
	err := json.Unmarshal([]byte(text), v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}
