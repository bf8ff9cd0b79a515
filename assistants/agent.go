package assistants

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/chain"
	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/effective-security/mcpchain/pkg/metricskey"
	"github.com/effective-security/mcpchain/store"
	"github.com/effective-security/mcpchain/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

// Agent answers the queries of one interactive session.
// Queries must be answered one at a time.
type Agent struct {
	llm     llms.Model
	host    tools.Host
	history store.MessageStore
	cfg     *Config

	requester  *Requester
	dispatcher *tools.Dispatcher
	executor   *chain.Executor
}

var _ Answerer = (*Agent)(nil)

// NewAgent returns an Agent that calls tools provided by host.
// A nil history is replaced by an in-memory store.
func NewAgent(llm llms.Model, host tools.Host, history store.MessageStore, opts ...Option) *Agent {
	if history == nil {
		history = store.NewMemoryStore()
	}
	cfg := NewConfig(opts...)

	dopts := []tools.DispatcherOption{tools.WithTimeout(cfg.ToolTimeout)}
	eopts := []chain.Option{chain.WithMaxSteps(cfg.MaxChainSteps)}
	if cfg.Callback != nil {
		dopts = append(dopts, tools.WithCallback(cfg.Callback))
		eopts = append(eopts, chain.WithStepFunc(cfg.Callback.OnChainStep))
	}

	a := &Agent{
		llm:        llm,
		host:       host,
		history:    history,
		cfg:        cfg,
		requester:  NewRequester(llm, history, cfg),
		dispatcher: tools.NewDispatcher(host, dopts...),
	}
	a.executor = chain.NewExecutor(a.requester, a.dispatcher, eopts...)
	return a
}

// History returns the conversation history.
func (a *Agent) History() store.MessageStore {
	return a.history
}

// Answer answers the query.
// The query and the answer are added to the history only when the turn succeeds,
// a failed turn leaves the history unchanged.
func (a *Agent) Answer(ctx context.Context, query string) (string, error) {
	modelName := a.llm.GetName()
	started := time.Now()
	defer metricskey.PerfTurn.MeasureSince(started, modelName)

	if a.cfg.Callback != nil {
		a.cfg.Callback.OnTurnStart(ctx, query)
	}

	answer, err := a.answer(ctx, query)
	if err != nil {
		metricskey.StatsTurnsFailed.IncrCounter(1, modelName)
		logger.ContextKV(ctx, xlog.ERROR,
			"chat_id", chatmodel.GetChatID(ctx),
			"status", "turn_failed",
			"query", slices.StringUpto(query, 64),
			"err", err.Error(),
		)
		if a.cfg.Callback != nil {
			a.cfg.Callback.OnTurnError(ctx, query, err)
		}
		return "", err
	}

	err = a.history.Add(ctx,
		llms.MessageFromTextParts(llms.RoleHuman, query),
		llms.MessageFromTextParts(llms.RoleAI, answer),
	)
	if err != nil {
		metricskey.StatsTurnsFailed.IncrCounter(1, modelName)
		return "", errors.WithMessage(err, "failed to add message history")
	}

	metricskey.StatsTurnsSucceeded.IncrCounter(1, modelName)
	logger.ContextKV(ctx, xlog.DEBUG,
		"chat_id", chatmodel.GetChatID(ctx),
		"status", "added_message_history",
		"message_history", a.history.Len(ctx),
		"human", slices.StringUpto(query, 64),
		"ai", slices.StringUpto(answer, 64),
	)

	if a.cfg.Callback != nil {
		a.cfg.Callback.OnTurnEnd(ctx, query, answer)
	}
	return answer, nil
}

func (a *Agent) answer(ctx context.Context, query string) (string, error) {
	descriptors, err := a.host.ListTools(ctx)
	if err != nil {
		return "", errors.WithMessage(err, "failed to list tools")
	}

	decision, err := a.requester.Decide(ctx, query, descriptors)
	if err != nil {
		return "", err
	}

	metricskey.StatsDecisions.IncrCounter(1, string(decision.Kind()))
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "decision",
		"kind", decision.Kind(),
	)
	if a.cfg.Callback != nil {
		a.cfg.Callback.OnDecision(ctx, query, decision)
	}

	var results []chatmodel.ToolResultItem
	switch d := decision.(type) {
	case *chatmodel.Answer:
		return d.Text, nil

	case *chatmodel.SingleTool:
		item, err := a.dispatcher.Invoke(ctx, d.Name, d.Arguments)
		if err != nil {
			return "", err
		}
		results = []chatmodel.ToolResultItem{*item}

	case *chatmodel.ToolChain:
		history, err := a.executor.Run(ctx, query, descriptors, d)
		if err != nil {
			return "", err
		}
		results = history.Items()

	default:
		return "", errors.Wrapf(chatmodel.ErrUnrecognizedDecisionShape, "unsupported decision %T", decision)
	}

	req := chatmodel.NewSynthesisRequest(query, results)
	if a.cfg.Callback != nil {
		a.cfg.Callback.OnSynthesis(ctx, req)
	}
	return a.requester.Synthesize(ctx, req)
}
