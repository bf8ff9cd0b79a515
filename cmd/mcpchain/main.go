// Command mcpchain is an interactive client that answers queries with
// a language model and the tools of an MCP tool host.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/assistants"
	"github.com/effective-security/mcpchain/callbacks"
	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/effective-security/mcpchain/mcp"
	"github.com/effective-security/mcpchain/pkg/llmfactory"
	"github.com/effective-security/mcpchain/pkg/llms"
	"github.com/effective-security/mcpchain/store"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpchain", "cmd")

type flags struct {
	config     string
	server     string
	model      string
	prompts    string
	verbose    bool
	scratchpad bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "mcpchain",
		Short:         "Answer queries with a language model and MCP tools",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogging(f.verbose)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context(), f, in, out)
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&f.config, "config", "", "providers YAML file, overrides MCPCHAIN_LLM_CONFIG")
	pf.StringVar(&f.server, "server", "", "tool host script, executable or URL, overrides MCP_TOOL_PATH")
	pf.StringVar(&f.model, "model", "", "model name, overrides MODEL_NAME")
	pf.StringVar(&f.prompts, "prompts", "", "directory of prompt templates, overrides MCPCHAIN_PROMPTS")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "print the agent events and debug logs")
	pf.BoolVar(&f.scratchpad, "scratchpad", false, "print the session transcript and statistics on exit")

	root.AddCommand(
		&cobra.Command{
			Use:   "chat",
			Short: "Start the interactive session (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runChat(cmd.Context(), f, in, out)
			},
		},
		&cobra.Command{
			Use:   "tools",
			Short: "List the tools of the tool host",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runTools(cmd.Context(), f, out)
			},
		},
	)
	return root
}

func setupLogging(verbose bool) {
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	if verbose {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	} else {
		xlog.SetGlobalLogLevel(xlog.WARNING)
	}
}

func loadConfig(f *flags) (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if f.config != "" {
		cfg.LLMConfig = f.config
	}
	if f.server != "" {
		cfg.ToolPath = f.server
	}
	if f.model != "" {
		cfg.ModelName = f.model
	}
	if f.prompts != "" {
		cfg.PromptsDir = f.prompts
	}
	if cfg.ToolPath == "" {
		return nil, errors.New("MCP_TOOL_PATH or --server is required")
	}
	return cfg, nil
}

func connect(ctx context.Context, cfg *Config, out io.Writer) (*mcp.Client, error) {
	client := mcp.NewClient(mcp.ParseTarget(cfg.ToolPath))
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}

	names, err := client.ToolNames(ctx)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	fmt.Fprintf(out, "\nConnected to server with tools: %v\n", names)
	return client, nil
}

func newModel(cfg *Config, preferredModel string) (llms.Model, error) {
	fcfg, err := cfg.LLMFactoryConfig()
	if err != nil {
		return nil, err
	}
	factory := llmfactory.New(fcfg)
	if preferredModel != "" {
		return factory.ModelByName(preferredModel)
	}
	return factory.DefaultModel()
}

func runChat(ctx context.Context, f *flags, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	agentOpts, err := cfg.AgentOptions()
	if err != nil {
		return err
	}

	model, err := newModel(cfg, f.model)
	if err != nil {
		return err
	}

	client, err := connect(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	cb := callbacks.NewFanout(callbacks.NewPackageLogger(logger))
	if f.verbose {
		cb.Add(callbacks.NewPrinter(out, callbacks.ModeVerbose))
	}
	var pad *callbacks.Scratchpad
	if f.scratchpad {
		pad = callbacks.NewScratchpad(callbacks.ModeDefault)
		cb.Add(pad)
	}

	agent := assistants.NewAgent(model, client, store.NewMemoryStore(),
		append(agentOpts, assistants.WithCallback(cb))...)

	chatCtx := chatmodel.NewChatContext("")
	logger.ContextKV(ctx, xlog.INFO,
		"status", "session_started",
		"chat_id", chatCtx.GetChatID(),
		"model", model.GetName(),
		"provider", model.GetProviderType(),
		"host", client.Name(),
	)
	ctx = chatmodel.WithChatContext(ctx, chatCtx)
	if pad != nil {
		pad.StartRun(ctx)
		defer func() {
			_, transcript := pad.EndRun(ctx)
			_, _ = out.Write(transcript)
		}()
	}
	return RunLoop(ctx, in, out, agent)
}

func runTools(ctx context.Context, f *flags, out io.Writer) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	client := mcp.NewClient(mcp.ParseTarget(cfg.ToolPath))
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	descriptors, err := client.ListTools(ctx)
	if err != nil {
		return err
	}
	for _, d := range descriptors {
		fmt.Fprintf(out, "%s: %s\n", d.Name, d.Description)
	}
	return nil
}
