package bedrock_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/effective-security/mcpchain/pkg/llms/bedrock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConverse struct {
	input *bedrockruntime.ConverseInput
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (f *fakeConverse) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.input = params
	return f.out, f.err
}

func textOutput(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{
				Role: types.ConversationRoleAssistant,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberReasoningContent{
						Value: &types.ReasoningContentBlockMemberReasoningText{
							Value: types.ReasoningTextBlock{Text: aws.String("checking the order")},
						},
					},
					&types.ContentBlockMemberText{Value: text},
				},
			},
		},
		StopReason: types.StopReasonEndTurn,
		Usage: &types.TokenUsage{
			InputTokens:  aws.Int32(11),
			OutputTokens: aws.Int32(3),
			TotalTokens:  aws.Int32(14),
		},
	}
}

func TestNew(t *testing.T) {
	fake := &fakeConverse{}
	llm, err := bedrock.New(context.Background(), bedrock.WithClient(fake))
	require.NoError(t, err)
	assert.Equal(t, bedrock.ModelAmazonNovaLite, llm.GetName())
	assert.Equal(t, llms.ProviderBedrock, llm.GetProviderType())

	llm, err = bedrock.New(context.Background(),
		bedrock.WithClient(fake),
		bedrock.WithModel(bedrock.ModelAnthropicClaudeSonnet4),
	)
	require.NoError(t, err)
	assert.Equal(t, bedrock.ModelAnthropicClaudeSonnet4, llm.GetName())
}

func TestNewConverseInput(t *testing.T) {
	opts := llms.NewCallOptions(bedrock.ModelAmazonNovaPro,
		llms.WithMaxTokens(128),
		llms.WithTemperature(0.2),
		llms.WithStopWords([]string{"END"}),
	)
	input, err := bedrock.NewConverseInput([]llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "be brief"),
		llms.MessageFromTextParts(llms.RoleHuman, "hi"),
		llms.MessageFromTextParts(llms.RoleAI, "hello"),
	}, &opts)
	require.NoError(t, err)
	assert.Equal(t, bedrock.ModelAmazonNovaPro, aws.ToString(input.ModelId))
	require.Len(t, input.System, 1)
	require.Len(t, input.Messages, 2)
	assert.Equal(t, types.ConversationRoleUser, input.Messages[0].Role)
	assert.Equal(t, types.ConversationRoleAssistant, input.Messages[1].Role)
	assert.Equal(t, int32(128), aws.ToInt32(input.InferenceConfig.MaxTokens))
	assert.Equal(t, float32(0.2), aws.ToFloat32(input.InferenceConfig.Temperature))
	assert.Nil(t, input.InferenceConfig.TopP)
	assert.Equal(t, []string{"END"}, input.InferenceConfig.StopSequences)

	zero := llms.NewCallOptions(bedrock.ModelAmazonNovaPro, llms.WithTemperature(0))
	input, err = bedrock.NewConverseInput([]llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "hi"),
	}, &zero)
	require.NoError(t, err)
	require.NotNil(t, input.InferenceConfig.Temperature)
	assert.Zero(t, aws.ToFloat32(input.InferenceConfig.Temperature))

	_, err = bedrock.NewConverseInput([]llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "only system"),
	}, &opts)
	assert.True(t, errors.Is(err, bedrock.ErrEmptyMessage))

	_, err = bedrock.NewConverseInput([]llms.Message{
		llms.MessageFromTextParts(llms.Role("tool"), "x"),
	}, &opts)
	assert.True(t, errors.Is(err, bedrock.ErrUnsupportedMessageType))
}

func TestGenerateContent(t *testing.T) {
	fake := &fakeConverse{out: textOutput(`{"type":"text","text":"shipped"}`)}
	llm, err := bedrock.New(context.Background(), bedrock.WithClient(fake))
	require.NoError(t, err)

	var streamed string
	resp, err := llm.GenerateContent(context.Background(), []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "where is my order?"),
	}, llms.WithModel(bedrock.ModelMetaLlama33_70B),
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			streamed += string(chunk)
			return nil
		}))
	require.NoError(t, err)
	assert.Equal(t, bedrock.ModelMetaLlama33_70B, aws.ToString(fake.input.ModelId))
	assert.Equal(t, `{"type":"text","text":"shipped"}`, resp.Text())
	assert.Equal(t, resp.Text(), streamed)
	assert.Equal(t, "checking the order", resp.Choices[0].ReasoningContent)
	assert.Equal(t, "end_turn", resp.Choices[0].StopReason)
	assert.EqualValues(t, 14, resp.Choices[0].GenerationInfo["TotalTokens"])
}

func TestGenerateContent_Errors(t *testing.T) {
	fake := &fakeConverse{err: errors.New("throttled")}
	llm, err := bedrock.New(context.Background(), bedrock.WithClient(fake))
	require.NoError(t, err)

	msgs := []llms.Message{llms.MessageFromTextParts(llms.RoleHuman, "hi")}
	_, err = llm.GenerateContent(context.Background(), msgs)
	assert.EqualError(t, err, "bedrock: converse failed: throttled")

	fake.err = nil
	fake.out = &bedrockruntime.ConverseOutput{}
	_, err = llm.GenerateContent(context.Background(), msgs)
	assert.True(t, errors.Is(err, bedrock.ErrUnexpectedOutput))
}

func TestGenerateContent_NoRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"unavailable"}`))
	}))
	defer srv.Close()

	llm, err := bedrock.New(context.Background(),
		bedrock.WithRegion("us-west-2"),
		bedrock.WithCredentials("AKIDEXAMPLE", "secret"),
		bedrock.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	_, err = llm.GenerateContent(context.Background(), []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "hi"),
	})
	require.Error(t, err)
	assert.EqualValues(t, 1, hits.Load())
}
