package mcp

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/effective-security/mcpchain/tools"
	"github.com/effective-security/xlog"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpchain", "mcp")

// ClientName is reported to the tool host on handshake.
const ClientName = "mcpchain"

// Version is reported to the tool host on handshake.
var Version = "v0.1.0"

// ErrNotConnected is returned when the client is used before Connect.
var ErrNotConnected = errors.New("mcp client not connected")

// Client is a connection to one tool host, it implements tools.Host.
type Client struct {
	cfg        ServerConfig
	httpClient *http.Client

	client  *mcp.Client
	session *mcp.ClientSession

	lock        sync.Mutex
	cachedTools []chatmodel.ToolDescriptor
	resolved    bool
}

// compile time check
var _ tools.Host = (*Client)(nil)

// NewClient returns a Client for the host, call Connect before use.
func NewClient(cfg ServerConfig) *Client {
	return &Client{cfg: cfg}
}

// WithHTTPClient sets the HTTP client for remote hosts.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// Name returns the host name.
func (c *Client) Name() string {
	return c.cfg.Name
}

// Connect starts or dials the host and performs the handshake.
func (c *Client) Connect(ctx context.Context) error {
	return c.ConnectWithTransport(ctx, nil)
}

// ConnectWithTransport performs the handshake over transport.
// If transport is nil, one is created from the host configuration.
func (c *Client) ConnectWithTransport(ctx context.Context, transport mcp.Transport) error {
	c.client = mcp.NewClient(
		&mcp.Implementation{
			Name:    ClientName,
			Version: Version,
		},
		&mcp.ClientOptions{
			Capabilities: &mcp.ClientCapabilities{},
		},
	)

	if transport == nil {
		t, err := c.createTransport()
		if err != nil {
			return errors.WithMessagef(err, "failed to create transport for %q", c.cfg.Name)
		}
		transport = t
	}

	session, err := c.client.Connect(ctx, transport, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to connect to %q", c.cfg.Name)
	}
	c.lock.Lock()
	c.session = session
	c.lock.Unlock()

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "connected",
		"host", c.cfg.Name,
		"transport", c.cfg.transport(),
	)
	return nil
}

func (c *Client) createTransport() (mcp.Transport, error) {
	switch c.cfg.transport() {
	case TransportStdio:
		if c.cfg.Command == "" {
			return nil, errors.New("command is required for stdio transport")
		}
		return &mcp.CommandTransport{
			Command: exec.Command(c.cfg.Command, c.cfg.Args...),
		}, nil

	case TransportSSE:
		if c.cfg.URL == "" {
			return nil, errors.New("url is required for sse transport")
		}
		t := &mcp.SSEClientTransport{
			Endpoint: c.cfg.URL,
		}
		if c.httpClient != nil {
			t.HTTPClient = c.httpClient
		}
		return t, nil

	case TransportStreamable:
		if c.cfg.URL == "" {
			return nil, errors.New("url is required for streamable-http transport")
		}
		t := &mcp.StreamableClientTransport{
			Endpoint: c.cfg.URL,
		}
		if c.httpClient != nil {
			t.HTTPClient = c.httpClient
		}
		return t, nil

	default:
		return nil, errors.Newf("unsupported transport %q", c.cfg.Transport)
	}
}

// ListTools returns the tools of the host.
// The list is fetched once per connection.
func (c *Client) ListTools(ctx context.Context) ([]chatmodel.ToolDescriptor, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.resolved {
		return c.cachedTools, nil
	}
	if c.session == nil {
		return nil, errors.WithStack(ErrNotConnected)
	}

	var list []chatmodel.ToolDescriptor
	for tool, err := range c.session.Tools(ctx, nil) {
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list tools from %q", c.cfg.Name)
		}
		list = append(list, chatmodel.ToolDescriptor{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}

	c.cachedTools = list
	c.resolved = true
	return list, nil
}

// ToolNames returns the names of the host tools.
func (c *Client) ToolNames(ctx context.Context) ([]string, error) {
	list, err := c.ListTools(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list))
	for _, t := range list {
		names = append(names, t.Name)
	}
	return names, nil
}

// CallTool executes the named tool on the host.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*tools.CallResult, error) {
	c.lock.Lock()
	session := c.session
	c.lock.Unlock()

	if session == nil {
		return nil, errors.WithStack(ErrNotConnected)
	}
	if args == nil {
		args = map[string]any{}
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to call %q on %q", name, c.cfg.Name)
	}
	return convertResult(res), nil
}

// Close ends the session, a started host process is stopped.
func (c *Client) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.cachedTools = nil
	c.resolved = false
	if c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}

func convertResult(res *mcp.CallToolResult) *tools.CallResult {
	out := &tools.CallResult{
		IsError: res.IsError,
	}
	for _, content := range res.Content {
		switch v := content.(type) {
		case *mcp.TextContent:
			out.Content = append(out.Content, tools.Content{Type: tools.ContentTypeText, Text: v.Text})
		case *mcp.ImageContent:
			out.Content = append(out.Content, tools.Content{Type: "image"})
		case *mcp.AudioContent:
			out.Content = append(out.Content, tools.Content{Type: "audio"})
		case *mcp.EmbeddedResource:
			out.Content = append(out.Content, tools.Content{Type: "resource"})
		default:
			out.Content = append(out.Content, tools.Content{Type: fmt.Sprintf("%T", v)})
		}
	}
	return out
}
