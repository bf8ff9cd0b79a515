// Package googleai implements a provider for Google AI LLMs.
// See https://ai.google.dev/ for more details.
package googleai

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/pkg/llms"
	"google.golang.org/genai"
)

var (
	ErrNoContentInResponse    = errors.New("no content in generation response")
	ErrUnsupportedMessageType = errors.New("googleai: unsupported message type")
)

const (
	RoleModel            = "model"
	RoleUser             = "user"
	ResponseMIMETypeJson = "application/json"
)

// GoogleAI is a type that represents a Google AI API client.
type GoogleAI struct {
	client *genai.Client
	opts   Options
}

var _ llms.Model = (*GoogleAI)(nil)

// New creates a new GoogleAI client.
func New(ctx context.Context, opts ...Option) (*GoogleAI, error) {
	clientOptions := DefaultOptions()
	for _, opt := range opts {
		opt(&clientOptions)
	}
	clientOptions.EnsureAuthPresent()

	cfg := &genai.ClientConfig{
		Project:    clientOptions.CloudProject,
		Location:   clientOptions.CloudLocation,
		APIKey:     clientOptions.APIKey,
		HTTPClient: clientOptions.HTTPClient,
		Backend:    clientOptions.Backend(),
	}
	if clientOptions.BaseURL != "" {
		cfg.HTTPOptions.BaseURL = clientOptions.BaseURL
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "googleai: failed to create client")
	}
	return &GoogleAI{
		client: client,
		opts:   clientOptions,
	}, nil
}

// GetName implements the Model interface.
func (g *GoogleAI) GetName() string {
	return g.opts.DefaultModel
}

// GetProviderType implements the Model interface.
func (g *GoogleAI) GetProviderType() llms.ProviderType {
	return llms.ProviderGoogleAI
}

// GenerateContent implements the [llms.Model] interface.
func (g *GoogleAI) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{
		Model:       g.opts.DefaultModel,
		MaxTokens:   g.opts.DefaultMaxTokens,
		Temperature: &g.opts.DefaultTemperature,
		TopP:        g.opts.DefaultTopP,
	}
	for _, opt := range options {
		opt(&opts)
	}

	contents, config, err := g.NewConfig(messages, &opts)
	if err != nil {
		return nil, err
	}

	if opts.StreamingFunc != nil {
		return g.generateStreaming(ctx, opts.Model, contents, config, opts.StreamingFunc)
	}

	resp, err := g.client.Models.GenerateContent(ctx, opts.Model, contents, config)
	if err != nil {
		return nil, errors.Wrap(err, "googleai: failed to generate content")
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrNoContentInResponse
	}
	return convertCandidates(resp.Candidates, resp.UsageMetadata), nil
}

func (g *GoogleAI) generateStreaming(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
	streamingFunc func(context.Context, []byte) error,
) (*llms.ContentResponse, error) {
	candidate := &genai.Candidate{
		Content: &genai.Content{Role: RoleModel},
	}
	var usage *genai.GenerateContentResponseUsageMetadata

	for resp, err := range g.client.Models.GenerateContentStream(ctx, model, contents, config) {
		if err != nil {
			return nil, errors.Wrap(err, "googleai: streaming error")
		}
		if resp.UsageMetadata != nil {
			usage = resp.UsageMetadata
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}

		chunk := resp.Candidates[0]
		candidate.FinishReason = chunk.FinishReason
		candidate.Content.Parts = append(candidate.Content.Parts, chunk.Content.Parts...)
		for _, part := range chunk.Content.Parts {
			if part.Text != "" && !part.Thought {
				if err := streamingFunc(ctx, []byte(part.Text)); err != nil {
					return nil, errors.Wrap(err, "googleai: streaming function error")
				}
			}
		}
	}
	return convertCandidates([]*genai.Candidate{candidate}, usage), nil
}

// NewConfig converts the messages and call options to the request contents and config.
// System messages become the system instruction.
func (g *GoogleAI) NewConfig(messages []llms.Message, opts *llms.CallOptions) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	config := &genai.GenerateContentConfig{
		StopSequences:   opts.StopWords,
		MaxOutputTokens: int32(opts.MaxTokens),
		TopK:            genai.Ptr(float32(g.opts.DefaultTopK)),
		TopP:            genai.Ptr(float32(opts.TopP)),
	}
	if opts.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*opts.Temperature))
	}
	if opts.JSONMode {
		config.ResponseMIMEType = ResponseMIMETypeJson
	}

	threshold := g.opts.HarmThreshold
	for _, category := range []genai.HarmCategory{
		genai.HarmCategoryDangerousContent,
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
	} {
		config.SafetySettings = append(config.SafetySettings, &genai.SafetySetting{
			Category:  category,
			Threshold: threshold,
		})
	}

	var system []*genai.Part
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		text := msg.GetContent()
		switch msg.Role {
		case llms.RoleSystem:
			system = append(system, genai.NewPartFromText(text))
		case llms.RoleHuman:
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		case llms.RoleAI:
			contents = append(contents, genai.NewContentFromText(text, genai.RoleModel))
		default:
			return nil, nil, errors.WithMessagef(ErrUnsupportedMessageType, "%q", msg.Role)
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{Parts: system}
	}
	return contents, config, nil
}

// convertCandidates converts a sequence of genai.Candidate to a response.
// Thought parts are returned as the reasoning content.
func convertCandidates(candidates []*genai.Candidate, usage *genai.GenerateContentResponseUsageMetadata) *llms.ContentResponse {
	var contentResponse llms.ContentResponse

	for _, candidate := range candidates {
		var text, thought strings.Builder
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Thought {
					thought.WriteString(part.Text)
				} else {
					text.WriteString(part.Text)
				}
			}
		}

		metadata := make(map[string]any)
		if usage != nil {
			metadata["InputTokens"] = usage.PromptTokenCount
			metadata["CacheReadTokens"] = usage.CachedContentTokenCount
			metadata["OutputTokens"] = usage.CandidatesTokenCount + usage.ToolUsePromptTokenCount + usage.ThoughtsTokenCount
			metadata["TotalTokens"] = usage.TotalTokenCount
		}

		contentResponse.Choices = append(contentResponse.Choices, &llms.ContentChoice{
			Content:          text.String(),
			ReasoningContent: thought.String(),
			StopReason:       string(candidate.FinishReason),
			GenerationInfo:   metadata,
		})
	}
	return &contentResponse
}
