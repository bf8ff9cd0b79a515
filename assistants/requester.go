package assistants

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/chain"
	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/effective-security/mcpchain/encoding"
	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/effective-security/mcpchain/pkg/llmutils"
	"github.com/effective-security/mcpchain/pkg/metricskey"
	"github.com/effective-security/mcpchain/pkg/prompts"
	"github.com/effective-security/mcpchain/store"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

// Requester issues the model requests of a turn.
// Every request is one round trip made of the system prompt,
// the prior conversation and one user payload.
type Requester struct {
	llm     llms.Model
	history store.MessageStore
	cfg     *Config
}

var _ chain.ParameterGenerator = (*Requester)(nil)

// NewRequester returns a Requester, history may be nil.
func NewRequester(llm llms.Model, history store.MessageStore, cfg *Config) *Requester {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Requester{
		llm:     llm,
		history: history,
		cfg:     cfg,
	}
}

// Decide asks the model how to answer the query with the available tools.
func (r *Requester) Decide(ctx context.Context, query string, descriptors []chatmodel.ToolDescriptor) (chatmodel.Decision, error) {
	data := prompts.Data{Tools: descriptors, Query: query}
	system, err := r.cfg.Prompts.Render(prompts.DecisionSystem, data)
	if err != nil {
		return nil, err
	}
	payload, err := r.cfg.Prompts.Render(prompts.DecisionQuery, data)
	if err != nil {
		return nil, err
	}

	raw, err := r.call(ctx, RequestDecision, system, payload)
	if err != nil {
		return nil, err
	}

	decision, err := encoding.ExtractDecision(raw)
	if err != nil {
		r.parseError(ctx, RequestDecision, raw, err)
		return nil, err
	}
	return decision, nil
}

// GenerateParameters asks the model for the arguments of the next chain step.
func (r *Requester) GenerateParameters(ctx context.Context, req *chatmodel.ParameterRequest) (map[string]any, error) {
	system, err := r.cfg.Prompts.Render(prompts.ParametersSystem, prompts.Data{Query: req.UserInput})
	if err != nil {
		return nil, err
	}
	payload, err := chatmodel.MarshalPayload(req)
	if err != nil {
		return nil, err
	}

	raw, err := r.call(ctx, RequestParameters, system, payload)
	if err != nil {
		return nil, err
	}

	args, err := encoding.ExtractArguments(raw)
	if err != nil {
		r.parseError(ctx, RequestParameters, raw, err)
		return nil, err
	}
	return args, nil
}

// Synthesize asks the model for the final answer from the tool results.
// The response is the answer text, it is never classified.
func (r *Requester) Synthesize(ctx context.Context, req *chatmodel.SynthesisRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	system, err := r.cfg.Prompts.Render(prompts.SynthesisSystem, prompts.Data{Query: req.UserInput})
	if err != nil {
		return "", err
	}
	payload, err := chatmodel.MarshalPayload(req)
	if err != nil {
		return "", err
	}

	raw, err := r.call(ctx, RequestSynthesis, system, payload)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(llmutils.StripThink(raw)), nil
}

func (r *Requester) parseError(ctx context.Context, request Request, raw string, err error) {
	modelName := r.llm.GetName()
	metricskey.StatsLLMParseErrors.IncrCounter(1, string(request), modelName)
	logger.ContextKV(ctx, xlog.DEBUG,
		"request", request,
		"status", "failed_to_parse_llm_response",
		"err", err.Error(),
		"result", slices.StringUpto(raw, 256),
	)
	if r.cfg.Callback != nil {
		r.cfg.Callback.OnLLMParseError(ctx, request, raw, err)
	}
}

// call sends one request and returns the raw text of the response.
func (r *Requester) call(ctx context.Context, request Request, system, payload string) (string, error) {
	systemMsg := llms.MessageFromTextParts(llms.RoleSystem, system)
	payloadMsg := llms.MessageFromTextParts(llms.RoleHuman, payload)

	requestName := string(request)
	modelName := r.llm.GetName()

	// the limit applies to the request itself,
	// the history is trimmed to the remaining space
	size := llmutils.CountMessagesContentSize([]llms.Message{systemMsg, payloadMsg})
	if r.cfg.MaxContentSize > 0 && size > r.cfg.MaxContentSize {
		return "", errors.Newf("%s request: the content size %d exceeded limit %d", request, size, r.cfg.MaxContentSize)
	}

	var history []llms.Message
	if r.history != nil {
		history = r.history.Messages(ctx)
		if r.cfg.MaxContentSize > 0 {
			count := len(history)
			history = TrimHistory(history, r.cfg.MaxContentSize-size)
			if dropped := count - len(history); dropped > 0 {
				logger.ContextKV(ctx, xlog.DEBUG,
					"request", request,
					"status", "history_trimmed",
					"dropped", dropped,
					"kept", len(history),
				)
			}
		}
	}

	messages := make([]llms.Message, 0, len(history)+2)
	messages = append(messages, systemMsg)
	messages = append(messages, history...)
	messages = append(messages, payloadMsg)

	bytesSent := llmutils.CountMessagesContentSize(messages)

	if r.cfg.Callback != nil {
		r.cfg.Callback.OnLLMCallStart(ctx, request, r.llm, messages)
	}

	metricskey.StatsLLMMessagesSent.IncrCounter(float64(len(messages)), requestName, modelName)
	metricskey.StatsLLMBytesSent.IncrCounter(float64(bytesSent), requestName, modelName)

	callCtx := ctx
	if r.cfg.ModelTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.cfg.ModelTimeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := r.llm.GenerateContent(callCtx, messages, r.cfg.CallOptions...)
	metricskey.PerfModelCall.MeasureSince(started, requestName, modelName)
	if err != nil {
		metricskey.StatsLLMCallsFailed.IncrCounter(1, requestName, modelName)
		logger.ContextKV(ctx, xlog.ERROR,
			"request", request,
			"model", modelName,
			"status", "failed_to_generate_content",
			"err", err.Error(),
		)
		return "", errors.Wrapf(err, "%s request failed", request)
	}
	if resp == nil || len(resp.Choices) == 0 {
		metricskey.StatsLLMCallsFailed.IncrCounter(1, requestName, modelName)
		return "", errors.WithMessagef(llms.ErrEmptyResponse, "%s request", request)
	}

	if r.cfg.Callback != nil {
		r.cfg.Callback.OnLLMCallEnd(ctx, request, r.llm, resp)
	}

	metricskey.StatsLLMBytesReceived.IncrCounter(float64(llmutils.CountResponseContentSize(resp)), requestName, modelName)
	tokensIn, tokensOut, _ := llmutils.CountTokens(resp)
	metricskey.StatsLLMInputTokens.IncrCounter(float64(tokensIn), requestName, modelName)
	metricskey.StatsLLMOutputTokens.IncrCounter(float64(tokensOut), requestName, modelName)

	text := resp.Text()
	logger.ContextKV(ctx, xlog.DEBUG,
		"request", request,
		"model", modelName,
		"status", "generated_content",
		"result", slices.StringUpto(text, 256),
	)
	return text, nil
}

// TrimHistory drops the oldest messages until the rest fits in budget bytes.
// The kept history always starts with a human message.
// The stored history is not modified.
func TrimHistory(history []llms.Message, budget uint64) []llms.Message {
	size := llmutils.CountMessagesContentSize(history)
	for len(history) > 0 && (size > budget || history[0].Role != llms.RoleHuman) {
		size -= llmutils.CountMessagesContentSize(history[:1])
		history = history[1:]
	}
	return history
}
