package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Sentiment tags the customer's overall tone
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// CallSummary is the fixed JSON shape requested from the model for a call
// transcript.
type CallSummary struct {
	Summary     string    `json:"summary"`
	KeyPoints   []string  `json:"keyPoints"`
	Sentiment   Sentiment `json:"sentiment"`
	ActionItems []string  `json:"actionItems"`
	NextSteps   []string  `json:"nextSteps"`
}

// NeutralCallSummary is substituted whenever the model's output is missing
// or unparseable; summarization never raises for malformed JSON.
func NeutralCallSummary() CallSummary {
	return CallSummary{
		Summary:     "Call completed. Unable to generate AI summary.",
		KeyPoints:   []string{},
		Sentiment:   SentimentNeutral,
		ActionItems: []string{},
		NextSteps:   []string{},
	}
}

const callSummaryPrompt = `You are analyzing a phone call transcript between a roofing company representative and a customer.

Transcript:
%s

Provide a structured analysis in JSON format with:
1. summary: A concise 2-3 sentence summary of the call
2. keyPoints: Array of 3-5 key discussion points
3. sentiment: Overall customer sentiment (positive, neutral, or negative)
4. actionItems: Array of specific tasks or commitments made
5. nextSteps: Array of recommended follow-up actions

Return ONLY valid JSON, no markdown formatting.`

// SummarizeCall runs a one-shot summarization of a call transcript. Any API
// failure or malformed model output yields the neutral fallback, never an
// error to webhook handlers.
func (c *Client) SummarizeCall(ctx context.Context, transcript string) CallSummary {
	response, err := c.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(callSummaryPrompt, transcript)},
	})
	if err != nil {
		return NeutralCallSummary()
	}

	summary, ok := ParseCallSummary(response)
	if !ok {
		return NeutralCallSummary()
	}
	return summary
}

// ParseCallSummary extracts the first {...} block from a model response and
// decodes it. Returns ok=false on missing or invalid JSON.
func ParseCallSummary(response string) (CallSummary, bool) {
	raw, ok := extractJSONObject(response)
	if !ok {
		return CallSummary{}, false
	}

	var summary CallSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return CallSummary{}, false
	}

	switch summary.Sentiment {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
	default:
		summary.Sentiment = SentimentNeutral
	}
	if summary.KeyPoints == nil {
		summary.KeyPoints = []string{}
	}
	if summary.ActionItems == nil {
		summary.ActionItems = []string{}
	}
	if summary.NextSteps == nil {
		summary.NextSteps = []string{}
	}
	return summary, true
}

// extractJSONObject finds the outermost {...} span in text, tolerating
// markdown fences and prose around the object.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// Interaction is one prior communication fed to context generation
type Interaction struct {
	Type      string
	Content   string
	CreatedAt time.Time
}

const customerContextPrompt = `Based on these previous customer interactions, write a brief 2-3 sentence context summary that an AI phone agent can use to personalize the conversation:

%s

Focus on: customer needs, previous commitments, and conversation tone. Be concise.`

// GenerateCustomerContext digests prior interactions into a short context
// blurb for AI calls. On failure it degrades to a plain-text listing so an
// AI call can still proceed.
func (c *Client) GenerateCustomerContext(ctx context.Context, interactions []Interaction) string {
	if len(interactions) == 0 {
		return ""
	}

	lines := make([]string, len(interactions))
	for i, it := range interactions {
		lines[i] = fmt.Sprintf("[%s] %s: %s", it.CreatedAt.Format("2006-01-02"), it.Type, it.Content)
	}
	history := strings.Join(lines, "\n")

	response, err := c.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(customerContextPrompt, history)},
	})
	if err != nil {
		return fmt.Sprintf("%d previous interactions on record.", len(interactions))
	}
	return response
}
