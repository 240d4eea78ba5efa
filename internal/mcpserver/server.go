// Package mcpserver exposes the approval gate to LLM agents over the
// Model Context Protocol. Tools wrap the HTTP API; the agent can preview
// a classification, park a request, and ask the user-facing gate to
// confirm or reject it.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates a configured MCP server with all WalletGate tools registered.
func NewMCPServer(cfg Config) *server.MCPServer {
	s := server.NewMCPServer("walletgate", "1.0.0")
	client := NewGateClient(cfg)
	h := NewHandlers(client)

	s.AddTool(ToolConnectWallet, h.HandleConnectWallet)
	s.AddTool(ToolClassifyRequest, h.HandleClassifyRequest)
	s.AddTool(ToolSubmitRequest, h.HandleSubmitRequest)
	s.AddTool(ToolGetPending, h.HandleGetPending)
	s.AddTool(ToolConfirmPending, h.HandleConfirmPending)
	s.AddTool(ToolRejectPending, h.HandleRejectPending)
	s.AddTool(ToolGetLog, h.HandleGetLog)

	return s
}
