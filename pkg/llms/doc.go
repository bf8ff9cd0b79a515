// Package llms provides a provider neutral interface for chat models.
//
// Each subpackage wraps the official SDK of one provider and converts
// the text messages defined here into the provider's request format.
//
// The `llms.go` file contains the Model interface and provider types.
//
// The `options.go` file provides the per call options.
package llms
