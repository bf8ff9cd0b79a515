package llms

import (
	"context"
	"strings"
)

//go:generate mockgen -source=llms.go -destination=../../mocks/mockllms/llms_mock.gen.go -package mockllms

// ProviderType is the type of provider.
type ProviderType string

const (
	// ProviderAnthropic is the type of provider.
	ProviderAnthropic ProviderType = "ANTHROPIC"
	// ProviderAzure is the type of provider.
	ProviderAzure ProviderType = "AZURE"
	// ProviderBedrock is the type of provider.
	ProviderBedrock ProviderType = "BEDROCK"
	// ProviderGoogleAI is the type of provider.
	ProviderGoogleAI ProviderType = "GOOGLEAI"
	// ProviderOpenAI is the type of provider.
	ProviderOpenAI ProviderType = "OPENAI"
	// ProviderPerplexity is served by the OpenAI compatible client.
	ProviderPerplexity ProviderType = "PERPLEXITY"
)

// ParseProviderType returns the provider type for the given name.
// It accepts the legacy "OPEN_AI" spelling and is case insensitive.
func ParseProviderType(s string) ProviderType {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "OPEN_AI" || s == "" {
		return ProviderOpenAI
	}
	return ProviderType(s)
}

// Model is an interface chat models implement.
type Model interface {
	// GetName returns the name of the default model.
	GetName() string
	// GetProviderType returns the type of provider.
	GetProviderType() ProviderType
	// GenerateContent asks the model to generate content from a sequence of
	// messages. Every call is an independent round trip: the model keeps no
	// state between calls.
	GenerateContent(ctx context.Context, messages []Message, options ...CallOption) (*ContentResponse, error)
}
