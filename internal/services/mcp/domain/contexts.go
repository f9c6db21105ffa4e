package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	contextdomain "github.com/classbridge/classbridge/internal/context/domain"
	"github.com/classbridge/classbridge/internal/context/index"
	"github.com/classbridge/classbridge/internal/context/parser"
	"github.com/classbridge/classbridge/internal/context/resolver"
	apperrors "github.com/classbridge/classbridge/internal/errors"
	"github.com/classbridge/classbridge/internal/store"
)

// Contexts bundles the collaborators the context management tools operate on.
type Contexts struct {
	// DocumentPath locates the curriculum document parsed by contexts_init.
	DocumentPath string
	Resolver     *resolver.Resolver
	Store        *store.Store
}

// ContextsInitInput represents the MCP tool input for declaring the document
// hierarchy.
type ContextsInitInput struct {
	URLPrefix string `json:"url_prefix,omitempty" jsonschema:"optional deep-link URL prefix applied to materialized contexts"`
}

// ContextsInitResult represents the MCP tool output for declaring the
// document hierarchy.
type ContextsInitResult struct {
	Message string `json:"message" jsonschema:"status message"`
}

// ContextsInitTool defines the MCP tool schema for declaring the document
// hierarchy.
func ContextsInitTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "contexts_init",
		Description: "Parses the configured curriculum document and declares its full context hierarchy.",
	}
}

// ContextsInitHandler parses the curriculum document, installs the element
// set and materializes a node for every parsed element.
func ContextsInitHandler(deps *Contexts) mcp.ToolHandlerFor[ContextsInitInput, ContextsInitResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ContextsInitInput) (*mcp.CallToolResult, ContextsInitResult, error) {
		if prefix := strings.TrimSpace(input.URLPrefix); prefix != "" {
			deps.Resolver.SetURLPrefix(prefix)
		}

		set, err := parser.ParseFile(deps.DocumentPath)
		if err != nil {
			if errors.Is(err, parser.ErrDocumentNotFound) {
				return nil, ContextsInitResult{}, apperrors.Wrap(apperrors.CodeResourceNotFound, "contexts document not found", err)
			}
			return nil, ContextsInitResult{}, apperrors.Wrap(apperrors.CodeParseFailure, "could not parse contexts document", err)
		}
		if set.Len() == 0 {
			return nil, ContextsInitResult{}, errors.New("no elements found")
		}
		deps.Resolver.SetElements(set)

		for _, element := range set.Elements() {
			if _, err := deps.Store.Descendant(ctx, element.IdentifierPath); err != nil {
				return nil, ContextsInitResult{}, fmt.Errorf("could not create context %q: %w", joinPath(element.IdentifierPath), err)
			}
		}

		message := fmt.Sprintf("%d contexts have been initialized", set.Len())
		return nil, ContextsInitResult{Message: message}, nil
	}
}

// ContextAddInput represents the MCP tool input for declaring one context.
type ContextAddInput struct {
	URLPrefix string               `json:"url_prefix,omitempty" jsonschema:"optional deep-link URL prefix applied to materialized contexts"`
	Context   contextdomain.Record `json:"context" jsonschema:"context record to declare"`
}

// ContextAddResult represents the MCP tool output for declaring one context.
type ContextAddResult struct {
	Message string `json:"message" jsonschema:"status message"`
}

// ContextAddTool defines the MCP tool schema for declaring one context.
func ContextAddTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "context_add",
		Description: "Declares a single context and materializes a node for its identifier path.",
	}
}

// ContextAddHandler inserts one context record into the element set and
// materializes its node.
func ContextAddHandler(deps *Contexts) mcp.ToolHandlerFor[ContextAddInput, ContextAddResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ContextAddInput) (*mcp.CallToolResult, ContextAddResult, error) {
		if prefix := strings.TrimSpace(input.URLPrefix); prefix != "" {
			deps.Resolver.SetURLPrefix(prefix)
		}

		element, err := contextdomain.ElementFromRecord(input.Context)
		if err != nil {
			return nil, ContextAddResult{}, fmt.Errorf("invalid context record: %w", err)
		}

		// Copy-on-write so concurrent node materialization never observes a
		// set mid-mutation.
		next := index.NewSet()
		if current := deps.Resolver.Elements(); current != nil {
			for _, existing := range current.Elements() {
				next.Insert(existing)
			}
		}
		next.Insert(element)
		deps.Resolver.SetElements(next)

		if _, err := deps.Store.Descendant(ctx, element.IdentifierPath); err != nil {
			return nil, ContextAddResult{}, fmt.Errorf("could not create context %q: %w", joinPath(element.IdentifierPath), err)
		}

		message := fmt.Sprintf("Context %q has been declared", joinPath(element.IdentifierPath))
		return nil, ContextAddResult{Message: message}, nil
	}
}

// ContextRemoveInput represents the MCP tool input for removing one context.
type ContextRemoveInput struct {
	IdentifierPath []string `json:"identifier_path" jsonschema:"identifier path of the context to remove"`
}

// ContextRemoveResult represents the MCP tool output for removing one
// context.
type ContextRemoveResult struct {
	Message string `json:"message" jsonschema:"status message"`
}

// ContextRemoveTool defines the MCP tool schema for removing one context.
func ContextRemoveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "context_remove",
		Description: "Removes the context at the given identifier path along with its descendants.",
	}
}

// ContextRemoveHandler removes the node at the given identifier path.
func ContextRemoveHandler(deps *Contexts) mcp.ToolHandlerFor[ContextRemoveInput, ContextRemoveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ContextRemoveInput) (*mcp.CallToolResult, ContextRemoveResult, error) {
		if len(input.IdentifierPath) == 0 {
			return nil, ContextRemoveResult{}, errors.New("identifier_path is required")
		}

		node, err := deps.Store.Descendant(ctx, input.IdentifierPath)
		if err != nil {
			return nil, ContextRemoveResult{}, fmt.Errorf("could not find context for identifier path %q: %w", joinPath(input.IdentifierPath), err)
		}
		deps.Store.Remove(node)

		if err := deps.Store.Save(ctx); err != nil {
			return nil, ContextRemoveResult{}, fmt.Errorf("save context tree: %w", err)
		}

		message := fmt.Sprintf("Context %q has been removed", joinPath(input.IdentifierPath))
		return nil, ContextRemoveResult{Message: message}, nil
	}
}

// ContextsRemoveInput represents the MCP tool input for removing all
// contexts.
type ContextsRemoveInput struct{}

// ContextsRemoveResult represents the MCP tool output for removing all
// contexts.
type ContextsRemoveResult struct {
	Message string `json:"message" jsonschema:"status message"`
}

// ContextsRemoveTool defines the MCP tool schema for removing all contexts.
func ContextsRemoveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "contexts_remove",
		Description: "Removes every context created before now.",
	}
}

// ContextsRemoveHandler removes all materialized nodes created before the
// call.
func ContextsRemoveHandler(deps *Contexts) mcp.ToolHandlerFor[ContextsRemoveInput, ContextsRemoveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ContextsRemoveInput) (*mcp.CallToolResult, ContextsRemoveResult, error) {
		createdBefore := time.Now()
		nodes, err := deps.Store.Contexts(ctx, func(node *store.Node) bool {
			return node.CreatedAt.Before(createdBefore)
		})
		if err != nil {
			return nil, ContextsRemoveResult{}, fmt.Errorf("query contexts: %w", err)
		}

		for _, node := range nodes {
			deps.Store.Remove(node)
		}
		if err := deps.Store.Save(ctx); err != nil {
			return nil, ContextsRemoveResult{}, fmt.Errorf("save context tree: %w", err)
		}

		message := fmt.Sprintf("%d contexts have been removed", len(nodes))
		return nil, ContextsRemoveResult{Message: message}, nil
	}
}

func joinPath(path []string) string {
	return strings.Join(path, "/")
}
