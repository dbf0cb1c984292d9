package client

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"newsreel/internal/domain/entity"
)

const summaryPromptTemplate = `You are a news editor writing a broadcast summary.

Requirements:
- Summarize the article below in %d to %d words, aiming for about %d
- Write in a %s tone for a general audience
- Answer in the article's language (code: %s)
- Preserve concrete facts: names, numbers, places
- Return ONLY the summary text, no preamble and no markdown

Title: %s

Article:
---
%s
---`

// GeminiSummarizer is one summarization model configuration. The same type
// serves as the primary and the fallback tier, pointed at different models.
type GeminiSummarizer struct {
	client *genai.Client
	model  string
}

func NewGeminiSummarizer(c *genai.Client, model string) *GeminiSummarizer {
	return &GeminiSummarizer{
		client: c,
		model:  model,
	}
}

// Model identifies the configuration for response metadata.
func (g *GeminiSummarizer) Model() string {
	return g.model
}

// Summarize renders the prompt and runs one generation. No retry here; the
// resilient layer owns the fallback policy.
func (g *GeminiSummarizer) Summarize(ctx context.Context, prompt entity.SummaryPrompt) (string, error) {
	text := fmt.Sprintf(summaryPromptTemplate,
		prompt.MinWords, prompt.MaxWords, prompt.TargetWords,
		prompt.Style, prompt.Language, prompt.Title, prompt.Content)

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	summary := strings.TrimSpace(result.Text())
	if summary == "" {
		return "", fmt.Errorf("empty response from %s", g.model)
	}
	return summary, nil
}
