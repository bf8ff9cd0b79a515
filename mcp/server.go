package mcp

import (
	"context"
	"fmt"

	"github.com/effective-security/mcpchain/tools/tavily"
	"github.com/effective-security/xlog"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName is the implementation name of the demo tool host.
const ServerName = "mcpchain-tools"

// OrderNumber is the order number issued by book_flight.
const OrderNumber = "1122334455667788"

// BookFlightRequest is the input of book_flight.
type BookFlightRequest struct {
	DepartureCity   string `json:"departure_city" jsonschema:"The city from which the user will depart"`
	DestinationCity string `json:"destination_city" jsonschema:"The city to which the user wants to travel"`
	Date            string `json:"date" jsonschema:"The desired date of the flight in YYYY-MM-DD format"`
}

// WeatherRequest is the input of weather_search.
type WeatherRequest struct {
	City string `json:"city" jsonschema:"The name of the city to get the weather information for"`
	Date string `json:"date" jsonschema:"The date to retrieve the weather forecast for, in YYYY-MM-DD format"`
}

// OrderRequest is the input of order_info.
type OrderRequest struct {
	Order string `json:"order" jsonschema:"The flight order number used to retrieve flight status information"`
}

// ServerOptions configures the demo tool host.
type ServerOptions struct {
	// Search enables web_search when set.
	Search *tavily.Tool
}

// BookFlight returns the booking confirmation.
func BookFlight(req BookFlightRequest) string {
	return fmt.Sprintf("Booked a flight on %s from %s to %s, order number: %s",
		req.Date, req.DepartureCity, req.DestinationCity, OrderNumber)
}

// WeatherSearch returns the forecast.
func WeatherSearch(req WeatherRequest) string {
	return fmt.Sprintf("Date %s, city %s: sunny turning cloudy", req.Date, req.City)
}

// OrderInfo returns the flight status for an order.
func OrderInfo(req OrderRequest) string {
	return fmt.Sprintf("Order %s: the flight is currently parked at the gate", req.Order)
}

// NewServer returns the demo tool host.
func NewServer(opts *ServerOptions) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: ServerName, Version: Version},
		nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "book_flight",
		Description: "Book a flight ticket based on departure city, destination, and date. Returns a confirmation with the order number.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in BookFlightRequest) (*mcp.CallToolResult, struct{}, error) {
		return textResult(BookFlight(in)), struct{}{}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "weather_search",
		Description: "Retrieve the weather forecast for a given city and date.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in WeatherRequest) (*mcp.CallToolResult, struct{}, error) {
		return textResult(WeatherSearch(in)), struct{}{}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "order_info",
		Description: "Retrieve the current status of a flight using the order number.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in OrderRequest) (*mcp.CallToolResult, struct{}, error) {
		return textResult(OrderInfo(in)), struct{}{}, nil
	})

	if opts != nil && opts.Search != nil {
		search := opts.Search
		mcp.AddTool(server, &mcp.Tool{
			Name:        tavily.ToolName,
			Description: search.Description(),
		}, func(ctx context.Context, _ *mcp.CallToolRequest, in tavily.SearchRequest) (*mcp.CallToolResult, struct{}, error) {
			res, err := search.Run(ctx, &in)
			if err != nil {
				logger.ContextKV(ctx, xlog.WARNING, "tool", tavily.ToolName, "err", err.Error())
				return &mcp.CallToolResult{
					Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
					IsError: true,
				}, struct{}{}, nil
			}
			return textResult(res.String()), struct{}{}, nil
		})
	}

	return server
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
