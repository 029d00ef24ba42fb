package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/lshigami/assessment-engine/config"
	"github.com/lshigami/assessment-engine/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// QuestionGeneratorService drafts multiple-choice questions from a prompt.
type QuestionGeneratorService interface {
	GenerateQuestions(ctx context.Context, prompt, difficulty string, count int) ([]model.Question, error)
}

type geminiQuestionGenerator struct {
	client *genai.GenerativeModel
}

func NewGeminiQuestionGenerator(cfg *config.Config) (QuestionGeneratorService, error) {
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Question generation will be unavailable.")
		return &geminiQuestionGenerator{}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel(cfg.Gemini.Model)
	m.ResponseMIMEType = "application/json"
	return &geminiQuestionGenerator{client: m}, nil
}

type generatedQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

func (g *geminiQuestionGenerator) GenerateQuestions(ctx context.Context, prompt, difficulty string, count int) ([]model.Question, error) {
	if g.client == nil {
		return nil, ErrGeneratorUnavailable
	}
	if count <= 0 {
		count = 10
	}
	if difficulty == "" {
		difficulty = "medium"
	}

	var b strings.Builder
	b.WriteString("You are an experienced examiner writing a multiple-choice assessment.\n")
	fmt.Fprintf(&b, "Write exactly %d questions of %s difficulty on the following topic:\n---\n%s\n---\n", count, difficulty, prompt)
	b.WriteString("Each question has exactly 4 options and one correct answer.\n")
	b.WriteString(`Respond with a JSON array only, each element shaped as {"question": string, "options": [string, string, string, string], "correct_index": 0-3, "explanation": string}.`)

	resp, err := g.client.GenerateContent(ctx, genai.Text(b.String()))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error during question generation")
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no content")
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			raw.WriteString(string(txt))
		}
	}

	questions, err := parseGeneratedQuestions(raw.String())
	if err != nil {
		log.Warn().Err(err).Msg("Gemini returned an unparseable question set")
		return nil, err
	}
	log.Info().Int("requested", count).Int("generated", len(questions)).Msg("Questions generated")
	return questions, nil
}

// parseGeneratedQuestions accepts a bare JSON array or one wrapped in a ```json fence.
// Malformed entries are dropped.
func parseGeneratedQuestions(raw string) ([]model.Question, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	var items []generatedQuestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &items); err != nil {
		return nil, fmt.Errorf("decode generated questions: %w", err)
	}

	questions := make([]model.Question, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Question) == "" || len(it.Options) < 2 ||
			it.CorrectIndex < 0 || it.CorrectIndex >= len(it.Options) {
			continue
		}
		q := model.Question{
			ID:          uuid.NewString(),
			Text:        it.Question,
			Points:      1,
			Explanation: it.Explanation,
		}
		for i, text := range it.Options {
			opt := model.Option{ID: uuid.NewString(), Text: text}
			if i == it.CorrectIndex {
				q.CorrectOptionID = opt.ID
			}
			q.Options = append(q.Options, opt)
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no usable questions in generator output")
	}
	return questions, nil
}
