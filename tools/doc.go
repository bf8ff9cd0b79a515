// Package tools defines the contract of the tool host and the Dispatcher
// that runs one tool call against it and normalizes the result to text.
package tools
