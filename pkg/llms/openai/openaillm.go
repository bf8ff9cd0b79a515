package openai

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpchain", "openai")

var (
	// ErrMissingToken is returned when no API key is configured.
	ErrMissingToken = errors.New("openai: missing API key, set it in the OPENAI_API_KEY environment variable")
	// ErrUnsupportedMessageType is returned for messages with an unknown role.
	ErrUnsupportedMessageType = errors.New("openai: unsupported message type")
)

type LLM struct {
	client   openai.Client
	model    string
	provider ProviderType
}

var _ llms.Model = (*LLM)(nil)

// New returns a new OpenAI LLM.
// The same client serves Azure OpenAI deployments with WithProvider(ProviderAzure).
func New(opts ...Option) (*LLM, error) {
	o := &options{
		token:        os.Getenv(tokenEnvVarName),
		model:        os.Getenv(modelEnvVarName),
		baseURL:      values.StringsCoalesce(os.Getenv(baseURLEnvVarName), os.Getenv(baseAPIBaseEnvVarName)),
		organization: os.Getenv(organizationEnvVarName),
		provider:     ProviderOpenAI,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.token == "" {
		return nil, ErrMissingToken
	}

	var sdkOpts []option.RequestOption
	switch o.provider {
	case ProviderAzure:
		if o.baseURL == "" {
			return nil, errors.New("openai: base url is required for azure")
		}
		if o.model == "" {
			return nil, errors.New("openai: model deployment is required for azure")
		}
		sdkOpts = append(sdkOpts,
			azure.WithEndpoint(o.baseURL, values.StringsCoalesce(o.apiVersion, DefaultAPIVersion)),
			azure.WithAPIKey(o.token),
		)
	case ProviderOpenAI, "":
		sdkOpts = append(sdkOpts, option.WithAPIKey(o.token))
		if o.baseURL != "" {
			sdkOpts = append(sdkOpts, option.WithBaseURL(o.baseURL))
		}
		if o.organization != "" {
			sdkOpts = append(sdkOpts, option.WithOrganization(o.organization))
		}
	default:
		return nil, errors.Errorf("openai: unsupported provider %q", o.provider)
	}

	sdkOpts = append(sdkOpts, option.WithMaxRetries(o.maxRetries))
	if o.httpClient != nil {
		sdkOpts = append(sdkOpts, option.WithHTTPClient(o.httpClient))
	}

	return &LLM{
		client:   openai.NewClient(sdkOpts...),
		model:    values.StringsCoalesce(o.model, DefaultChatModel),
		provider: o.provider,
	}, nil
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return o.model
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	if o.provider == ProviderAzure {
		return llms.ProviderAzure
	}
	return llms.ProviderOpenAI
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.NewCallOptions(o.model, options...)

	params, err := NewParams(messages, &opts)
	if err != nil {
		return nil, err
	}

	if opts.StreamingFunc != nil {
		return o.generateStreaming(ctx, params, opts.StreamingFunc)
	}

	result, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "openai: failed to create chat completion")
	}
	return ToContentResponse(result), nil
}

func (o *LLM) generateStreaming(ctx context.Context, params openai.ChatCompletionNewParams, streamingFunc func(context.Context, []byte) error) (*llms.ContentResponse, error) {
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := o.client.Chat.Completions.NewStreaming(ctx, params)
	defer func() { _ = stream.Close() }()

	acc := openai.ChatCompletionAccumulator{}
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if err := streamingFunc(ctx, []byte(chunk.Choices[0].Delta.Content)); err != nil {
				return nil, errors.Wrap(err, "openai: streaming function error")
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, errors.Wrap(err, "openai: streaming error")
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "stream_completed",
		"model", acc.Model,
		"choices", len(acc.Choices),
	)
	return ToContentResponse(&acc.ChatCompletion), nil
}

// NewParams converts the messages and call options to the request parameters.
func NewParams(messages []llms.Message, opts *llms.CallOptions) (openai.ChatCompletionNewParams, error) {
	chatMsgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		content := msg.GetContent()
		switch msg.Role {
		case llms.RoleSystem:
			chatMsgs = append(chatMsgs, openai.SystemMessage(content))
		case llms.RoleHuman:
			chatMsgs = append(chatMsgs, openai.UserMessage(content))
		case llms.RoleAI:
			chatMsgs = append(chatMsgs, openai.AssistantMessage(content))
		default:
			return openai.ChatCompletionNewParams{}, errors.WithMessagef(ErrUnsupportedMessageType, "%q", msg.Role)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(opts.Model),
		Messages: chatMsgs,
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature != nil {
		params.Temperature = openai.Float(*opts.Temperature)
	}
	if opts.TopP > 0 {
		params.TopP = openai.Float(opts.TopP)
	}
	if len(opts.StopWords) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: opts.StopWords}
	}
	if opts.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	return params, nil
}

// ToContentResponse converts the chat completion returned by the API.
func ToContentResponse(result *openai.ChatCompletion) *llms.ContentResponse {
	choices := make([]*llms.ContentChoice, len(result.Choices))
	for i, c := range result.Choices {
		choices[i] = &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: c.FinishReason,
			GenerationInfo: map[string]any{
				"InputTokens":     result.Usage.PromptTokens,
				"OutputTokens":    result.Usage.CompletionTokens,
				"TotalTokens":     result.Usage.TotalTokens,
				"ReasoningTokens": result.Usage.CompletionTokensDetails.ReasoningTokens,
				"ID":              result.ID,
			},
		}
	}
	return &llms.ContentResponse{Choices: choices}
}
