// Package mcp provides an MCP (Model Context Protocol) server adapter for
// sitechat. It lets AI assistants ask questions against an indexed website.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")
