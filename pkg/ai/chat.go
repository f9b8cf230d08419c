package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// MaxHistoryTurns caps how much conversation history is forwarded to the
// model; older turns are dropped, not summarized.
const MaxHistoryTurns = 10

// ChatTurn is one prior message of the assistant conversation
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// InsuranceInfo is the claim subset shown to the assistant
type InsuranceInfo struct {
	ClaimNumber string
	Company     string
	Status      string
}

// ProjectContext is the bounded context block the assistant answers from
type ProjectContext struct {
	ProjectName        string
	CustomerName       string
	Status             string
	Address            string
	Insurance          *InsuranceInfo
	PhotoCount         *int
	CommunicationCount *int
	RecentActivity     []string
}

// BuildContextPrompt renders the project context as the natural-language
// block embedded in the system prompt.
func BuildContextPrompt(pc ProjectContext) string {
	parts := []string{
		"Project: " + pc.ProjectName,
		"Customer: " + pc.CustomerName,
		"Status: " + pc.Status,
		"Address: " + pc.Address,
	}

	if pc.Insurance != nil && pc.Insurance.ClaimNumber != "" {
		parts = append(parts, "\nInsurance Claim: "+pc.Insurance.ClaimNumber)
		if pc.Insurance.Company != "" {
			parts = append(parts, "Insurance Company: "+pc.Insurance.Company)
		}
		if pc.Insurance.Status != "" {
			parts = append(parts, "Claim Status: "+pc.Insurance.Status)
		}
	}

	if pc.PhotoCount != nil {
		parts = append(parts, fmt.Sprintf("\nPhotos: %d uploaded", *pc.PhotoCount))
	}
	if pc.CommunicationCount != nil {
		parts = append(parts, fmt.Sprintf("Communications: %d interactions", *pc.CommunicationCount))
	}

	if len(pc.RecentActivity) > 0 {
		parts = append(parts, "\nRecent Activity:")
		for _, activity := range pc.RecentActivity {
			parts = append(parts, "- "+activity)
		}
	}

	return strings.Join(parts, "\n")
}

const chatSystemPrompt = `You are an AI assistant for a roofing CRM system. You help users manage their roofing projects.

PROJECT CONTEXT:
%s

Provide a helpful, concise response based on the project context. If the question is about the project, use the context provided. If it's a general question, answer it professionally.`

// GenerateChatResponse answers one user message with project context and a
// bounded history, returning the model's text verbatim.
func (c *Client) GenerateChatResponse(ctx context.Context, message string, pc ProjectContext, history []ChatTurn) (string, error) {
	if len(history) > MaxHistoryTurns {
		history = history[len(history)-MaxHistoryTurns:]
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(chatSystemPrompt, BuildContextPrompt(pc))},
	}
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	return c.complete(ctx, messages)
}

// SuggestedQuestions returns chat prompts tailored to a project status
func SuggestedQuestions(projectStatus string) []string {
	common := []string{
		"What's the current status of this project?",
		"Summarize recent activity",
		"What are the next steps?",
	}

	statusSpecific := map[string][]string{
		"lead":       {"How should I follow up with this lead?", "What information do I need to collect?"},
		"inspection": {"What should I look for during inspection?", "How do I document damage?"},
		"proposal":   {"What should be included in the proposal?", "How do I calculate the estimate?"},
		"contract":   {"What documents are needed?", "How do I process the contract?"},
		"production": {"What's the project timeline?", "Are there any delays or issues?"},
		"completed":  {"Was the project successful?", "What follow-up is needed?"},
	}

	return append(common, statusSpecific[projectStatus]...)
}
