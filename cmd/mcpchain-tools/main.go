// Command mcpchain-tools runs the demo tool host over stdio,
// or over streamable HTTP with --http.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/mcp"
	"github.com/effective-security/mcpchain/tools/tavily"
	"github.com/effective-security/xlog"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpchain", "cmd")

// MCPPath is the path of the streamable HTTP endpoint.
const MCPPath = "/mcp"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:          "mcpchain-tools",
		Short:        "Serve the book_flight, weather_search, order_info and web_search tools",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries the protocol, logs go to stderr
			xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
			if verbose {
				xlog.SetGlobalLogLevel(xlog.DEBUG)
			} else {
				xlog.SetGlobalLogLevel(xlog.WARNING)
			}

			server, err := newServer(os.Getenv(tavily.APIKeyEnvVarName))
			if err != nil {
				return err
			}
			if addr != "" {
				return serveHTTP(cmd.Context(), addr, server)
			}
			return server.Run(cmd.Context(), &sdk.StdioTransport{})
		},
	}
	cmd.Flags().StringVar(&addr, "http", "", "listen address for streamable HTTP, e.g. :8080")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")
	return cmd
}

// newServer returns the tool host, web_search is added when apiKey is set.
func newServer(apiKey string) (*sdk.Server, error) {
	opts := &mcp.ServerOptions{}
	if apiKey != "" {
		search, err := tavily.New(apiKey)
		if err != nil {
			return nil, err
		}
		opts.Search = search
	}
	return mcp.NewServer(opts), nil
}

func newHandler(server *sdk.Server) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MCPPath, sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return server
	}, nil))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

func serveHTTP(ctx context.Context, addr string, server *sdk.Server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.KV(xlog.INFO, "status", "listening", "addr", addr, "path", MCPPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed to serve")
	}
	return nil
}
