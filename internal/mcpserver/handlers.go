package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	client *GateClient
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *GateClient) *Handlers {
	return &Handlers{client: client}
}

// requestFromArgs builds the wire request from tool arguments.
func requestFromArgs(req mcp.CallToolRequest) (signingRequest, error) {
	kind := req.GetString("kind", "")
	if kind == "" {
		return signingRequest{}, fmt.Errorf("kind is required")
	}
	return signingRequest{
		Kind:              kind,
		Destination:       req.GetString("destination", ""),
		Calldata:          req.GetString("calldata", ""),
		Value:             req.GetString("value", ""),
		Message:           req.GetString("message", ""),
		ApprovalUnlimited: req.GetBool("approval_unlimited", false),
	}, nil
}

// HandleConnectWallet connects to the wallet provider.
func (h *Handlers) HandleConnectWallet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.Connect(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to connect: %v", err)), nil
	}

	var resp map[string]any
	if err := json.Unmarshal(raw, &resp); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse response: %v", err)), nil
	}

	if connected, _ := resp["connected"].(bool); !connected {
		return mcp.NewToolResultText(
			"No wallet provider available. The gate is running in simulation mode: " +
				"confirmed actions will produce synthetic outcomes, nothing is signed or sent on-chain."), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Wallet connected.\nAccount: %s", getString(resp, "account"))), nil
}

// HandleClassifyRequest classifies without submitting.
func (h *Handlers) HandleClassifyRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sr, err := requestFromArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, err := h.client.Classify(ctx, sr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Classification failed: %v", err)), nil
	}

	text, err := formatClassification(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse classification: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleSubmitRequest submits a request to the approval gate.
func (h *Handlers) HandleSubmitRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sr, err := requestFromArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, err := h.client.Submit(ctx, sr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Submit failed: %v", err)), nil
	}

	text, err := formatPending(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse pending approval: %v", err)), nil
	}

	return mcp.NewToolResultText(text +
		"\n\nUse confirm_pending to execute or reject_pending to discard."), nil
}

// HandleGetPending shows the request awaiting a decision.
func (h *Handlers) HandleGetPending(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.GetState(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get gate state: %v", err)), nil
	}

	var resp map[string]any
	if err := json.Unmarshal(raw, &resp); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse state: %v", err)), nil
	}

	if resp["pending"] == nil {
		return mcp.NewToolResultText("The gate is idle. No request is awaiting a decision."), nil
	}

	text, err := formatPending(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse pending approval: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleConfirmPending approves and executes the pending request.
func (h *Handlers) HandleConfirmPending(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.Confirm(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Confirm failed: %v", err)), nil
	}

	text, err := formatReceipt(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse receipt: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleRejectPending discards the pending request.
func (h *Handlers) HandleRejectPending(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := h.client.Reject(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Reject failed: %v", err)), nil
	}
	return mcp.NewToolResultText("Request rejected. Nothing was signed or sent. The gate is idle."), nil
}

// HandleGetLog reads recent gate outcomes.
func (h *Handlers) HandleGetLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)

	raw, err := h.client.GetLog(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get log: %v", err)), nil
	}

	text, err := formatLog(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse log: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// --- Formatting helpers ---

func formatClassification(raw json.RawMessage) (string, error) {
	var resp struct {
		Classification map[string]any `json:"classification"`
		ActionLabel    string         `json:"actionLabel"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	if resp.Classification == nil {
		return "", fmt.Errorf("no classification in response")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Action: %s\n", resp.ActionLabel)
	fmt.Fprintf(&sb, "Category: %s\n", getString(resp.Classification, "category"))
	fmt.Fprintf(&sb, "Tone: %s\n", getString(resp.Classification, "tone"))
	if detail := getString(resp.Classification, "detail"); detail != "" {
		fmt.Fprintf(&sb, "Detail: %s\n", detail)
	}
	return sb.String(), nil
}

func formatPending(raw json.RawMessage) (string, error) {
	var resp struct {
		Pending map[string]any `json:"pending"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	if resp.Pending == nil {
		return "", fmt.Errorf("no pending approval in response")
	}

	p := resp.Pending
	var sb strings.Builder
	sb.WriteString("Awaiting decision:\n")
	fmt.Fprintf(&sb, "  ID: %s\n", getString(p, "id"))
	fmt.Fprintf(&sb, "  Action: %s\n", getString(p, "actionLabel"))
	if cls, ok := p["classification"].(map[string]any); ok {
		fmt.Fprintf(&sb, "  Category: %s (tone: %s)\n", getString(cls, "category"), getString(cls, "tone"))
		if detail := getString(cls, "detail"); detail != "" {
			fmt.Fprintf(&sb, "  Detail: %s\n", detail)
		}
	}
	if reqMap, ok := p["request"].(map[string]any); ok {
		if dest := getString(reqMap, "destination"); dest != "" {
			fmt.Fprintf(&sb, "  Destination: %s\n", dest)
		}
		if value := getString(reqMap, "value"); value != "" {
			fmt.Fprintf(&sb, "  Value: %s\n", value)
		}
	}
	return sb.String(), nil
}

func formatReceipt(raw json.RawMessage) (string, error) {
	var resp struct {
		Receipt map[string]any `json:"receipt"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	if resp.Receipt == nil {
		return "", fmt.Errorf("no receipt in response")
	}

	r := resp.Receipt
	ok, _ := r["ok"].(bool)

	var sb strings.Builder
	if ok {
		sb.WriteString("Confirmed and executed.\n")
		fmt.Fprintf(&sb, "  Request: %s (%s)\n", getString(r, "id"), getString(r, "category"))
		fmt.Fprintf(&sb, "  Output: %s\n", getString(r, "output"))
	} else {
		sb.WriteString("Confirmation failed. The request was cleared; resubmit to retry.\n")
		fmt.Fprintf(&sb, "  Request: %s (%s)\n", getString(r, "id"), getString(r, "category"))
		fmt.Fprintf(&sb, "  Error: %s\n", getString(r, "error"))
	}
	return sb.String(), nil
}

func formatLog(raw json.RawMessage) (string, error) {
	var resp struct {
		Entries []map[string]any `json:"entries"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("unexpected log response format")
	}

	if len(resp.Entries) == 0 {
		return "The event log is empty.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Last %d event(s), most recent first:\n\n", len(resp.Entries))
	for i, e := range resp.Entries {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, getString(e, "outcome"), getString(e, "message"))
	}
	return sb.String(), nil
}

// getString extracts a string value from a map, trying multiple key names.
func getString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%g", f)
			}
		}
	}
	return ""
}
