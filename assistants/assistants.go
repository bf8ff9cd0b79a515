package assistants

import (
	"context"

	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/effective-security/mcpchain/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpchain", "assistants")

//go:generate mockgen -source=assistants.go -destination=../mocks/mockassistants/assistants_mock.gen.go -package mockassistants

// Request is the kind of model request.
type Request string

const (
	// RequestDecision asks the model to decide how to answer the query.
	RequestDecision Request = "decision"
	// RequestParameters asks the model for the arguments of a chain step.
	RequestParameters Request = "parameters"
	// RequestSynthesis asks the model to answer from tool results.
	RequestSynthesis Request = "synthesis"
)

// Answerer answers user queries.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

// Callback receives the events of a turn.
type Callback interface {
	tools.Callback

	OnTurnStart(ctx context.Context, query string)
	OnTurnEnd(ctx context.Context, query string, answer string)
	OnTurnError(ctx context.Context, query string, err error)

	OnDecision(ctx context.Context, query string, decision chatmodel.Decision)
	OnChainStep(ctx context.Context, index int, step chatmodel.ChainStep, args map[string]any, item *chatmodel.ToolResultItem)
	OnSynthesis(ctx context.Context, req *chatmodel.SynthesisRequest)

	OnLLMCallStart(ctx context.Context, request Request, llm llms.Model, messages []llms.Message)
	OnLLMCallEnd(ctx context.Context, request Request, llm llms.Model, resp *llms.ContentResponse)
	OnLLMParseError(ctx context.Context, request Request, response string, err error)
}
