// Package domain translates MCP tool calls into context tree and activity
// session operations.
//
// The package is intentionally explicit about that mapping:
// - decode tool input into domain records,
// - route calls to the element set, the context store or the session,
// - and surface human-readable status messages MCP clients can render.
package domain
