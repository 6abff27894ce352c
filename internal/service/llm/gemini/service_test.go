package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T) *genai.Client {
	cli, err := genai.NewClient(context.Background(), option.WithAPIKey("test-key"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cli.Close() })
	return cli
}

func TestNewService_MaxOutputTokens(t *testing.T) {
	testCases := []struct {
		name string
		n    int32
		want *int32
	}{
		{name: "capped", n: 256, want: genai.Ptr[int32](256)},
		{name: "zero keeps model default", n: 0, want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(newTestClient(t), WithModel("gemini-test"), WithMaxOutputTokens(tc.n)).(*Service)
			assert.Equal(t, tc.want, svc.model.MaxOutputTokens)
		})
	}
}

func TestToAnswer(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("RSI is stretched."), genai.Text("Watch 7200.")}},
		}},
		UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 40, CandidatesTokenCount: 12},
	}
	answer, err := toAnswer(resp)
	require.NoError(t, err)
	assert.Equal(t, "RSI is stretched.\nWatch 7200.", answer.Content)
	assert.Equal(t, 40, answer.InputToken)
	assert.Equal(t, 12, answer.OutputToken)

	_, err = toAnswer(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	assert.ErrorIs(t, err, errEmptyAnswer)
}
