// Package llmfactory creates models from a provider configuration file, supporting OpenAI, Azure, Anthropic, Google AI, Bedrock and OpenAI compatible providers.
package llmfactory
