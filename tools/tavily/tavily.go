// Package tavily provides web search backed by the Tavily API.
package tavily

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	tavilygo "github.com/diverged/tavily-go"
	tavilyModels "github.com/diverged/tavily-go/models"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpchain/tools", "tavily")

// ToolName is the name the search is published under on the tool host.
const ToolName = "web_search"

// APIKeyEnvVarName is the environment variable with the API key.
const APIKeyEnvVarName = "TAVILY_API_KEY" //nolint:gosec

// SearchRequest represents the tool input.
type SearchRequest struct {
	Query string `json:"query" jsonschema:"The query to search the web for"`
}

// SearchResult represents the structure for a search response
type SearchResult struct {
	Results []tavilyModels.SearchResult `json:"results" yaml:"results"`
	Answer  string                      `json:"answer,omitempty" yaml:"answer,omitempty"`
}

// Tool provides web search.
type Tool struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New returns a Tool, apiKey defaults to TAVILY_API_KEY.
func New(apiKey string) (*Tool, error) {
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnvVarName)
	}
	if apiKey == "" {
		return nil, errors.Errorf("%s is not set", APIKeyEnvVarName)
	}
	return &Tool{
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}, nil
}

func (t *Tool) WithBaseURL(baseURL string) *Tool {
	t.baseURL = baseURL
	return t
}

func (t *Tool) WithHTTPClient(client *http.Client) *Tool {
	t.httpClient = client
	return t
}

// Description returns the description published to the model.
func (t *Tool) Description() string {
	return "Searches the web and returns an aggregated answer with the top results."
}

// Run performs the search.
func (t *Tool) Run(ctx context.Context, req *SearchRequest) (*SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, errors.New("invalid request: empty query")
	}

	client := tavilygo.NewClient(t.apiKey)
	if t.baseURL != "" {
		client.BaseURL = t.baseURL
	}
	if t.httpClient != nil {
		client.HTTPClient = t.httpClient
	}

	searchResp, err := tavilygo.Search(client, tavilyModels.SearchRequest{
		Query:         query,
		SearchDepth:   "basic",
		IncludeAnswer: true,
	})
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR, "status", "search_failed", "err", err.Error())
		return nil, errors.Wrap(err, "failed to perform search")
	}

	return &SearchResult{
		Results: searchResp.Results,
		Answer:  searchResp.Answer,
	}, nil
}

func (r *SearchResult) String() string {
	var buf bytes.Buffer
	if r.Answer != "" {
		fmt.Fprintf(&buf, "ANSWER: %s\n", r.Answer)
	}

	for _, result := range r.Results {
		fmt.Fprintf(&buf, "- URL: %s\n", result.URL)
		fmt.Fprintf(&buf, "  TITLE: %s\n", result.Title)
		fmt.Fprintf(&buf, "  SCORE: %f\n", result.Score)
		fmt.Fprintf(&buf, "  CONTENT: %s\n", result.Content)
	}

	return buf.String()
}
