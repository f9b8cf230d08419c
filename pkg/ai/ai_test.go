package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestBuildContextPrompt(t *testing.T) {
	pc := ProjectContext{
		ProjectName:  "Oak St Re-roof",
		CustomerName: "Jane Doe",
		Status:       "production",
		Address:      "12 Oak St",
		Insurance: &InsuranceInfo{
			ClaimNumber: "CLM-1001",
			Company:     "Acme Mutual",
			Status:      "approved",
		},
		PhotoCount:         intPtr(14),
		CommunicationCount: intPtr(6),
		RecentActivity:     []string{"Estimate sent", "Adjuster meeting scheduled"},
	}

	got := BuildContextPrompt(pc)

	assert.Contains(t, got, "Project: Oak St Re-roof")
	assert.Contains(t, got, "Customer: Jane Doe")
	assert.Contains(t, got, "Insurance Claim: CLM-1001")
	assert.Contains(t, got, "Claim Status: approved")
	assert.Contains(t, got, "Photos: 14 uploaded")
	assert.Contains(t, got, "Communications: 6 interactions")
	assert.Contains(t, got, "- Estimate sent")
}

func TestBuildContextPromptMinimal(t *testing.T) {
	got := BuildContextPrompt(ProjectContext{
		ProjectName:  "General Inquiry",
		CustomerName: "Customer",
		Status:       "lead",
		Address:      "Not specified",
	})

	assert.NotContains(t, got, "Insurance")
	assert.NotContains(t, got, "Photos:")
	assert.NotContains(t, got, "Recent Activity")
}

func TestParseCallSummary(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantOK   bool
		want     CallSummary
	}{
		{
			name:     "clean json",
			response: `{"summary":"Customer confirmed install date.","keyPoints":["date confirmed"],"sentiment":"positive","actionItems":["order shingles"],"nextSteps":["call Friday"]}`,
			wantOK:   true,
			want: CallSummary{
				Summary:     "Customer confirmed install date.",
				KeyPoints:   []string{"date confirmed"},
				Sentiment:   SentimentPositive,
				ActionItems: []string{"order shingles"},
				NextSteps:   []string{"call Friday"},
			},
		},
		{
			name:     "json wrapped in markdown fences",
			response: "```json\n{\"summary\":\"ok\",\"sentiment\":\"neutral\"}\n```",
			wantOK:   true,
			want:     CallSummary{Summary: "ok", Sentiment: SentimentNeutral, KeyPoints: []string{}, ActionItems: []string{}, NextSteps: []string{}},
		},
		{
			name:     "unknown sentiment coerced to neutral",
			response: `{"summary":"ok","sentiment":"ecstatic"}`,
			wantOK:   true,
			want:     CallSummary{Summary: "ok", Sentiment: SentimentNeutral, KeyPoints: []string{}, ActionItems: []string{}, NextSteps: []string{}},
		},
		{
			name:     "no json at all",
			response: "Sorry, I cannot help with that.",
			wantOK:   false,
		},
		{
			name:     "broken json",
			response: `{"summary": "unterminated`,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCallSummary(tt.response)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNeutralCallSummary(t *testing.T) {
	fallback := NeutralCallSummary()
	assert.Equal(t, SentimentNeutral, fallback.Sentiment)
	assert.NotEmpty(t, fallback.Summary)
	assert.Empty(t, fallback.KeyPoints)
}

func TestSuggestedQuestions(t *testing.T) {
	lead := SuggestedQuestions("lead")
	assert.GreaterOrEqual(t, len(lead), 5)
	assert.True(t, strings.Contains(strings.Join(lead, "|"), "follow up"))

	unknown := SuggestedQuestions("nonsense")
	assert.Len(t, unknown, 3, "unknown status gets only the common questions")
}
