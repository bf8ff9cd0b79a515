package bedrock

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Model IDs available on Bedrock with the Converse API.
const (
	ModelAnthropicClaudeSonnet4 = "anthropic.claude-sonnet-4-20250514-v1:0"
	ModelAnthropicClaudeHaiku35 = "anthropic.claude-3-5-haiku-20241022-v1:0"
	ModelAmazonNovaLite         = "amazon.nova-lite-v1:0"
	ModelAmazonNovaPro          = "amazon.nova-pro-v1:0"
	ModelMetaLlama33_70B        = "meta.llama3-3-70b-instruct-v1:0"
)

// ConverseAPI is the subset of the Bedrock runtime client used by the LLM.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

var _ ConverseAPI = (*bedrockruntime.Client)(nil)

// Option is an option for the Bedrock LLM.
type Option func(*options)

type options struct {
	modelID   string
	region    string
	accessKey string
	secretKey string
	baseURL   string
	client    ConverseAPI
}

// WithModel sets the model ID to use on Bedrock.
func WithModel(modelID string) Option {
	return func(o *options) {
		if modelID != "" {
			o.modelID = modelID
		}
	}
}

// WithClient sets the client to use, the default config is not loaded.
func WithClient(client ConverseAPI) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithCredentials uses static credentials instead of the default chain.
func WithCredentials(accessKey, secretKey string) Option {
	return func(o *options) {
		o.accessKey = accessKey
		o.secretKey = secretKey
	}
}

// WithBaseURL overrides the Bedrock runtime endpoint.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}
