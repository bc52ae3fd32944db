package suggest

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/intent"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/retrieve"
)

// Gemini generates suggestions with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, question string, label intent.Label, bundle retrieve.ContextBundle) (CoachingResult, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(buildPrompt(question, label, bundle)), nil)
	if err != nil {
		return CoachingResult{}, fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return CoachingResult{}, fmt.Errorf("gemini returned no text")
	}
	return parseModelOutput(text), nil
}
