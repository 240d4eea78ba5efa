package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the WalletGate MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolConnectWallet = mcp.NewTool("connect_wallet",
	mcp.WithDescription(
		"Connect to the wallet provider and report the active account address. "+
			"When no real provider is configured, the gate runs in simulation mode "+
			"and confirmed actions produce synthetic outcomes."),
)

var ToolClassifyRequest = mcp.NewTool("classify_request",
	mcp.WithDescription(
		"Classify a signing request without submitting it for approval. "+
			"Returns the intent category (payment, approval, infinite_approval, swap, stake, "+
			"deposit, login, data, contract_call), a tone (warn/safe/info), and a human action label. "+
			"Use this to preview what a transaction would do before asking for approval."),
	mcp.WithString("kind",
		mcp.Required(),
		mcp.Description("Request kind: 'transaction', 'sign_in_message', or 'personal_message'"),
		mcp.Enum("transaction", "sign_in_message", "personal_message")),
	mcp.WithString("destination",
		mcp.Description("Target address for transactions (0x + 40 hex chars)")),
	mcp.WithString("calldata",
		mcp.Description("0x-prefixed hex calldata. '0x' or empty means a bare value transfer.")),
	mcp.WithString("value",
		mcp.Description("Native value as a 0x-prefixed hex quantity (e.g. '0x2386f26fc10000')")),
	mcp.WithString("message",
		mcp.Description("Message text for sign_in_message / personal_message kinds")),
	mcp.WithBoolean("approval_unlimited",
		mcp.Description("Set true when the approval amount is the maximum representable integer")),
)

var ToolSubmitRequest = mcp.NewTool("submit_request",
	mcp.WithDescription(
		"Classify a signing request and park it in the approval gate's pending slot. "+
			"The request is NOT executed until confirm_pending is called. "+
			"Submitting while another request is pending discards the previous one (last wins)."),
	mcp.WithString("kind",
		mcp.Required(),
		mcp.Description("Request kind: 'transaction', 'sign_in_message', or 'personal_message'"),
		mcp.Enum("transaction", "sign_in_message", "personal_message")),
	mcp.WithString("destination",
		mcp.Description("Target address for transactions (0x + 40 hex chars)")),
	mcp.WithString("calldata",
		mcp.Description("0x-prefixed hex calldata. '0x' or empty means a bare value transfer.")),
	mcp.WithString("value",
		mcp.Description("Native value as a 0x-prefixed hex quantity")),
	mcp.WithString("message",
		mcp.Description("Message text for sign_in_message / personal_message kinds")),
	mcp.WithBoolean("approval_unlimited",
		mcp.Description("Set true when the approval amount is the maximum representable integer")),
)

var ToolGetPending = mcp.NewTool("get_pending",
	mcp.WithDescription(
		"Show the request currently awaiting a decision, with its classification, "+
			"tone, and action label. Returns the gate state when nothing is pending."),
)

var ToolConfirmPending = mcp.NewTool("confirm_pending",
	mcp.WithDescription(
		"Approve the pending request and execute it through the wallet provider "+
			"(send the transaction or sign the message). The provider is invoked at most once; "+
			"a failed execution clears the slot and the request must be resubmitted."),
)

var ToolRejectPending = mcp.NewTool("reject_pending",
	mcp.WithDescription(
		"Reject the pending request. Nothing is signed or sent; the gate returns to idle."),
)

var ToolGetLog = mcp.NewTool("get_log",
	mcp.WithDescription(
		"Read the gate's event log: connects, submissions, discards, confirmations, "+
			"rejections, and errors, most recent first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of entries to return (default 20)")),
)
