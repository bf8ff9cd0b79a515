// Package assistants provides the conversation agent: it asks the model for a decision,
// runs the selected tool or chain of tools, and asks the model to answer from the tool results.
package assistants
