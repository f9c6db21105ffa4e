// Package service hosts the MCP server: it wires the parser, resolver,
// context store and activity session together and exposes them as MCP tools
// over stdio or HTTP.
package service
