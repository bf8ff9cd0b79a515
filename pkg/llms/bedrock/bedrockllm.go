// Package bedrock implements a provider for models hosted on AWS Bedrock,
// using the Converse API.
package bedrock

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpchain", "bedrock")

const defaultModel = ModelAmazonNovaLite

var (
	// ErrUnsupportedMessageType is returned for messages with an unknown role.
	ErrUnsupportedMessageType = errors.New("bedrock: unsupported message type")
	// ErrEmptyMessage is returned when there are no chat messages to send.
	ErrEmptyMessage = errors.New("bedrock: no messages to send")
	// ErrUnexpectedOutput is returned when the response carries no message.
	ErrUnexpectedOutput = errors.New("bedrock: unexpected converse output")
)

// LLM is a Bedrock LLM implementation.
type LLM struct {
	modelID string
	client  ConverseAPI
}

var _ llms.Model = (*LLM)(nil)

// New creates a new Bedrock LLM implementation.
// Without WithClient the AWS default config chain is used,
// and failed calls are not retried.
func New(ctx context.Context, opts ...Option) (*LLM, error) {
	o := &options{
		modelID: defaultModel,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.client == nil {
		loadOpts := []func(*config.LoadOptions) error{
			config.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
		}
		if o.region != "" {
			loadOpts = append(loadOpts, config.WithRegion(o.region))
		}
		if o.baseURL != "" {
			loadOpts = append(loadOpts, config.WithBaseEndpoint(o.baseURL))
		}
		if o.accessKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(o.accessKey, o.secretKey, "")))
		}
		cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.Wrap(err, "bedrock: failed to load AWS config")
		}
		o.client = bedrockruntime.NewFromConfig(cfg)
	}

	return &LLM{
		modelID: o.modelID,
		client:  o.client,
	}, nil
}

// GetName implements the Model interface.
func (l *LLM) GetName() string {
	return l.modelID
}

// GetProviderType implements the Model interface.
func (l *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderBedrock
}

// GenerateContent implements llms.Model.
// Converse is not streamed, StreamingFunc receives the whole text once.
func (l *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.NewCallOptions(l.modelID, options...)

	input, err := NewConverseInput(messages, &opts)
	if err != nil {
		return nil, err
	}

	out, err := l.client.Converse(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "bedrock: converse failed")
	}

	resp, err := ToContentResponse(out)
	if err != nil {
		return nil, err
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "converse_completed",
		"model", opts.Model,
		"stop_reason", resp.Choices[0].StopReason,
	)

	if opts.StreamingFunc != nil {
		if err := opts.StreamingFunc(ctx, []byte(resp.Choices[0].Content)); err != nil {
			return nil, errors.Wrap(err, "bedrock: streaming function error")
		}
	}
	return resp, nil
}

// NewConverseInput converts the messages and call options to the Converse request.
// System messages become system content blocks.
func NewConverseInput(messages []llms.Message, opts *llms.CallOptions) (*bedrockruntime.ConverseInput, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(opts.Model),
	}

	for _, msg := range messages {
		text := msg.GetContent()
		switch msg.Role {
		case llms.RoleSystem:
			input.System = append(input.System, &types.SystemContentBlockMemberText{Value: text})
		case llms.RoleHuman:
			input.Messages = append(input.Messages, textMessage(types.ConversationRoleUser, text))
		case llms.RoleAI:
			input.Messages = append(input.Messages, textMessage(types.ConversationRoleAssistant, text))
		default:
			return nil, errors.WithMessagef(ErrUnsupportedMessageType, "%q", msg.Role)
		}
	}
	if len(input.Messages) == 0 {
		return nil, ErrEmptyMessage
	}

	inference := &types.InferenceConfiguration{}
	if opts.MaxTokens > 0 {
		inference.MaxTokens = aws.Int32(int32(opts.MaxTokens))
	}
	if opts.Temperature != nil {
		inference.Temperature = aws.Float32(float32(*opts.Temperature))
	}
	if opts.TopP > 0 {
		inference.TopP = aws.Float32(float32(opts.TopP))
	}
	if len(opts.StopWords) > 0 {
		inference.StopSequences = opts.StopWords
	}
	input.InferenceConfig = inference

	return input, nil
}

func textMessage(role types.ConversationRole, text string) types.Message {
	return types.Message{
		Role:    role,
		Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: text}},
	}
}

// ToContentResponse converts the Converse output to a single choice.
func ToContentResponse(out *bedrockruntime.ConverseOutput) (*llms.ContentResponse, error) {
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, ErrUnexpectedOutput
	}

	var text, reasoning strings.Builder
	for _, block := range msg.Value.Content {
		switch b := block.(type) {
		case *types.ContentBlockMemberText:
			text.WriteString(b.Value)
		case *types.ContentBlockMemberReasoningContent:
			if rt, ok := b.Value.(*types.ReasoningContentBlockMemberReasoningText); ok {
				reasoning.WriteString(aws.ToString(rt.Value.Text))
			}
		}
	}

	info := map[string]any{}
	if out.Usage != nil {
		info["InputTokens"] = int(aws.ToInt32(out.Usage.InputTokens))
		info["OutputTokens"] = int(aws.ToInt32(out.Usage.OutputTokens))
		info["TotalTokens"] = int(aws.ToInt32(out.Usage.TotalTokens))
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content:          text.String(),
				ReasoningContent: reasoning.String(),
				StopReason:       string(out.StopReason),
				GenerationInfo:   info,
			},
		},
	}, nil
}
