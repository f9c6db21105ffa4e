package service

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	activityservice "github.com/classbridge/classbridge/internal/activity/service"
	"github.com/classbridge/classbridge/internal/services/mcp/domain"
)

const (
	contextToolsModuleName  = "context-tools"
	activityToolsModuleName = "activity-tools"
)

type registrationModule struct {
	name     string
	register func(*mcp.Server)
}

func registrationModules(server *Server) []registrationModule {
	return []registrationModule{
		{
			name: contextToolsModuleName,
			register: func(mcpServer *mcp.Server) {
				registerContextTools(mcpServer, server.contexts)
			},
		},
		{
			name: activityToolsModuleName,
			register: func(mcpServer *mcp.Server) {
				registerActivityTools(mcpServer, server.session)
			},
		},
	}
}

// registerContextTools registers the context declaration and removal tools.
func registerContextTools(server *mcp.Server, deps *domain.Contexts) {
	mcp.AddTool(server, domain.ContextsInitTool(), domain.ContextsInitHandler(deps))
	mcp.AddTool(server, domain.ContextAddTool(), domain.ContextAddHandler(deps))
	mcp.AddTool(server, domain.ContextRemoveTool(), domain.ContextRemoveHandler(deps))
	mcp.AddTool(server, domain.ContextsRemoveTool(), domain.ContextsRemoveHandler(deps))
}

// registerActivityTools registers the activity session tools.
func registerActivityTools(server *mcp.Server, session *activityservice.Session) {
	mcp.AddTool(server, domain.ActivityBeginTool(), domain.ActivityBeginHandler(session))
	mcp.AddTool(server, domain.ActivityEndTool(), domain.ActivityEndHandler(session))
	mcp.AddTool(server, domain.ProgressSetTool(), domain.ProgressSetHandler(session))
	mcp.AddTool(server, domain.ProgressRangeAddTool(), domain.ProgressRangeAddHandler(session))
	mcp.AddTool(server, domain.ItemBinarySetTool(), domain.ItemBinarySetHandler(session))
	mcp.AddTool(server, domain.ItemScoreSetTool(), domain.ItemScoreSetHandler(session))
	mcp.AddTool(server, domain.ItemQuantitySetTool(), domain.ItemQuantitySetHandler(session))
}
