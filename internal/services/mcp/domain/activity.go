package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	activitydomain "github.com/classbridge/classbridge/internal/activity/domain"
	"github.com/classbridge/classbridge/internal/activity/service"
)

// ActivityBeginInput represents the MCP tool input for beginning an activity.
type ActivityBeginInput struct {
	IdentifierPath []string `json:"identifier_path" jsonschema:"identifier path of the context to activate"`
	AsNew          bool     `json:"as_new,omitempty" jsonschema:"force a fresh activity instead of resuming an existing one"`
}

// ActivityBeginResult represents the MCP tool output for beginning an
// activity.
type ActivityBeginResult struct {
	Message string `json:"message" jsonschema:"status message"`
}

// ActivityBeginTool defines the MCP tool schema for beginning an activity.
func ActivityBeginTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "activity_begin",
		Description: "Activates the context at the given identifier path and starts (or resumes) its activity.",
	}
}

// ActivityBeginHandler begins an activity on the session.
func ActivityBeginHandler(session *service.Session) mcp.ToolHandlerFor[ActivityBeginInput, ActivityBeginResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ActivityBeginInput) (*mcp.CallToolResult, ActivityBeginResult, error) {
		if len(input.IdentifierPath) == 0 {
			return nil, ActivityBeginResult{}, errors.New("identifier_path is required")
		}

		restarted, err := session.Begin(ctx, input.IdentifierPath, input.AsNew)
		if err != nil {
			return nil, ActivityBeginResult{}, err
		}

		message := fmt.Sprintf("New activity for context %q started", joinPath(input.IdentifierPath))
		if restarted {
			message = fmt.Sprintf("Activity for context %q restarted", joinPath(input.IdentifierPath))
		}
		return nil, ActivityBeginResult{Message: message}, nil
	}
}

// ActivityEndInput represents the MCP tool input for ending the activity.
type ActivityEndInput struct{}

// ActivityEndResult represents the MCP tool output for ending the activity.
type ActivityEndResult struct {
	Message string `json:"message" jsonschema:"status message"`
}

// ActivityEndTool defines the MCP tool schema for ending the activity.
func ActivityEndTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "activity_end",
		Description: "Stops the active context's activity and deactivates the context.",
	}
}

// ActivityEndHandler ends the session's activity.
func ActivityEndHandler(session *service.Session) mcp.ToolHandlerFor[ActivityEndInput, ActivityEndResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ActivityEndInput) (*mcp.CallToolResult, ActivityEndResult, error) {
		if err := session.End(ctx); err != nil {
			return nil, ActivityEndResult{}, err
		}
		return nil, ActivityEndResult{Message: "Activity is stopped"}, nil
	}
}

// ProgressSetInput represents the MCP tool input for setting absolute
// progress.
type ProgressSetInput struct {
	Value float64 `json:"value" jsonschema:"absolute progress value, usually within [0, 1]"`
}

// ProgressSetResult represents the MCP tool output for setting absolute
// progress.
type ProgressSetResult struct {
	Message string `json:"message" jsonschema:"status message"`
}

// ProgressSetTool defines the MCP tool schema for setting absolute progress.
func ProgressSetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "progress_set",
		Description: "Overwrites the active activity's progress with an absolute value.",
	}
}

// ProgressSetHandler sets absolute progress on the session's activity.
func ProgressSetHandler(session *service.Session) mcp.ToolHandlerFor[ProgressSetInput, ProgressSetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ProgressSetInput) (*mcp.CallToolResult, ProgressSetResult, error) {
		if err := session.SetProgress(ctx, input.Value); err != nil {
			return nil, ProgressSetResult{}, err
		}
		return nil, ProgressSetResult{Message: "Progress has been set"}, nil
	}
}

// ProgressRangeAddInput represents the MCP tool input for adding a progress
// range.
type ProgressRangeAddInput struct {
	Start float64 `json:"start" jsonschema:"range start within [0, 1]"`
	End   float64 `json:"end" jsonschema:"range end within [0, 1]"`
}

// ProgressRangeAddResult represents the MCP tool output for adding a
// progress range.
type ProgressRangeAddResult struct {
	Message string `json:"message" jsonschema:"status message"`
}

// ProgressRangeAddTool defines the MCP tool schema for adding a progress
// range.
func ProgressRangeAddTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "progress_range_add",
		Description: "Accumulates a completed sub-range into the active activity's cumulative progress.",
	}
}

// ProgressRangeAddHandler adds a progress range to the session's activity.
func ProgressRangeAddHandler(session *service.Session) mcp.ToolHandlerFor[ProgressRangeAddInput, ProgressRangeAddResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ProgressRangeAddInput) (*mcp.CallToolResult, ProgressRangeAddResult, error) {
		if err := session.AddProgressRange(ctx, input.Start, input.End); err != nil {
			return nil, ProgressRangeAddResult{}, err
		}
		return nil, ProgressRangeAddResult{Message: "Progress range has been added"}, nil
	}
}

// ItemBinarySetInput represents the MCP tool input for attaching a binary
// outcome item.
type ItemBinarySetInput struct {
	Item activitydomain.BinaryItemRecord `json:"item" jsonschema:"binary outcome item"`
}

// ItemBinarySetResult represents the MCP tool output for attaching a binary
// outcome item.
type ItemBinarySetResult struct {
	Message string `json:"message" jsonschema:"status message"`
}

// ItemBinarySetTool defines the MCP tool schema for attaching a binary
// outcome item.
func ItemBinarySetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "item_binary_set",
		Description: "Attaches a boolean outcome item (true/false, pass/fail or yes/no) to the active activity.",
	}
}

// ItemBinarySetHandler attaches a binary item to the session's activity.
func ItemBinarySetHandler(session *service.Session) mcp.ToolHandlerFor[ItemBinarySetInput, ItemBinarySetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ItemBinarySetInput) (*mcp.CallToolResult, ItemBinarySetResult, error) {
		if err := session.SetBinaryItem(ctx, input.Item); err != nil {
			return nil, ItemBinarySetResult{}, err
		}
		return nil, ItemBinarySetResult{Message: "Binary item has been set"}, nil
	}
}

// ItemScoreSetInput represents the MCP tool input for attaching a score
// outcome item.
type ItemScoreSetInput struct {
	Item activitydomain.ScoreItemRecord `json:"item" jsonschema:"score outcome item"`
}

// ItemScoreSetResult represents the MCP tool output for attaching a score
// outcome item.
type ItemScoreSetResult struct {
	Message string `json:"message" jsonschema:"status message"`
}

// ItemScoreSetTool defines the MCP tool schema for attaching a score outcome
// item.
func ItemScoreSetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "item_score_set",
		Description: "Attaches a score outcome item to the active activity.",
	}
}

// ItemScoreSetHandler attaches a score item to the session's activity.
func ItemScoreSetHandler(session *service.Session) mcp.ToolHandlerFor[ItemScoreSetInput, ItemScoreSetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ItemScoreSetInput) (*mcp.CallToolResult, ItemScoreSetResult, error) {
		if err := session.SetScoreItem(ctx, input.Item); err != nil {
			return nil, ItemScoreSetResult{}, err
		}
		return nil, ItemScoreSetResult{Message: "Score item has been set"}, nil
	}
}

// ItemQuantitySetInput represents the MCP tool input for attaching a
// quantity outcome item.
type ItemQuantitySetInput struct {
	Item activitydomain.QuantityItemRecord `json:"item" jsonschema:"quantity outcome item"`
}

// ItemQuantitySetResult represents the MCP tool output for attaching a
// quantity outcome item.
type ItemQuantitySetResult struct {
	Message string `json:"message" jsonschema:"status message"`
}

// ItemQuantitySetTool defines the MCP tool schema for attaching a quantity
// outcome item.
func ItemQuantitySetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "item_quantity_set",
		Description: "Attaches a quantity outcome item to the active activity.",
	}
}

// ItemQuantitySetHandler attaches a quantity item to the session's activity.
func ItemQuantitySetHandler(session *service.Session) mcp.ToolHandlerFor[ItemQuantitySetInput, ItemQuantitySetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ItemQuantitySetInput) (*mcp.CallToolResult, ItemQuantitySetResult, error) {
		if err := session.SetQuantityItem(ctx, input.Item); err != nil {
			return nil, ItemQuantitySetResult{}, err
		}
		return nil, ItemQuantitySetResult{Message: "Quantity item has been set"}, nil
	}
}
