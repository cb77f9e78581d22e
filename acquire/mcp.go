package acquire

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AcquireInput is the shared input schema for the acquisition tools.
type AcquireInput struct {
	Query        string `json:"query" jsonschema:"the search query"`
	Count        int    `json:"count,omitempty" jsonschema:"number of items to acquire (default 5)"`
	MinDimension int    `json:"min_dimension,omitempty" jsonschema:"images: minimum pixels on the smaller side"`
	MinDuration  int    `json:"min_duration,omitempty" jsonschema:"videos: minimum length in minutes"`
	MaxDuration  int    `json:"max_duration,omitempty" jsonschema:"videos: maximum length in minutes"`
	DateFrom     string `json:"date_from,omitempty" jsonschema:"earliest upload date, YYYY-MM-DD"`
	DateTo       string `json:"date_to,omitempty" jsonschema:"latest upload date, YYYY-MM-DD"`
}

// AcquireOutput summarizes one acquisition for the tool caller.
type AcquireOutput struct {
	ID           string            `json:"id"`
	Requested    int               `json:"requested"`
	Accepted     int               `json:"accepted"`
	Materialized int               `json:"materialized"`
	Files        []string          `json:"files"`
	Failures     []string          `json:"failures,omitempty"`
	TiersUsed    []string          `json:"tiers_used"`
	TierErrors   map[string]string `json:"tier_errors,omitempty"`
}

// RegisterMCP registers the acquisition tools on an MCP server.
func (o *Orchestrator) RegisterMCP(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "acquire_images",
		Description: "Search the web for images matching a query and download them locally",
	}, o.handleAcquire(CapabilityImage))

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "acquire_videos",
		Description: "Search for videos matching a query and download them locally",
	}, o.handleAcquire(CapabilityVideo))
}

func (o *Orchestrator) handleAcquire(capability Capability) func(context.Context, *mcp.CallToolRequest, AcquireInput) (*mcp.CallToolResult, AcquireOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AcquireInput) (*mcp.CallToolResult, AcquireOutput, error) {
		constraints, err := constraintsFromInput(input)
		if err != nil {
			return nil, AcquireOutput{}, err
		}

		report, err := o.Acquire(ctx, Request{
			Query:       input.Query,
			Capability:  capability,
			Constraints: constraints,
		})
		if err != nil {
			return nil, AcquireOutput{}, err
		}

		return nil, outputFromReport(report), nil
	}
}

func constraintsFromInput(input AcquireInput) (Constraints, error) {
	c := Constraints{
		Count:        input.Count,
		MinDimension: input.MinDimension,
		MinDuration:  input.MinDuration,
		MaxDuration:  input.MaxDuration,
	}
	if c.Count <= 0 {
		c.Count = 5
	}

	var err error
	if input.DateFrom != "" {
		c.DateFrom, err = time.Parse("2006-01-02", input.DateFrom)
		if err != nil {
			return c, fmt.Errorf("%w: date_from: %v", ErrInvalidConstraints, err)
		}
	}
	if input.DateTo != "" {
		c.DateTo, err = time.Parse("2006-01-02", input.DateTo)
		if err != nil {
			return c, fmt.Errorf("%w: date_to: %v", ErrInvalidConstraints, err)
		}
	}
	return c, nil
}

func outputFromReport(report *Report) AcquireOutput {
	out := AcquireOutput{
		ID:           report.ID,
		Requested:    report.Requested,
		Accepted:     report.Accepted,
		Materialized: report.Materialized,
		TiersUsed:    report.TiersUsed,
		TierErrors:   report.TierErrors,
	}
	for _, oc := range report.Outcomes {
		if oc.OK() {
			out.Files = append(out.Files, oc.LocalPath)
		} else {
			out.Failures = append(out.Failures,
				fmt.Sprintf("%s: %s", oc.Candidate.SourceURL, oc.Failure))
		}
	}
	return out
}
