// Package classify maps outgoing signing requests to human-meaningful
// intent categories before they reach the user for approval.
//
// Classification is a heuristic first-4-bytes-of-calldata lookup, not a
// general ABI decoder: the selector is resolved against a fixed table of
// well-known token and DeFi operations, then two overrides apply (bare
// native transfers and unlimited approvals). The classifier is total —
// anything it does not recognize degrades to a generic contract call.
package classify

import (
	"context"
	"time"
)

// RequestKind distinguishes the three signing flows a wallet can be asked for.
type RequestKind string

const (
	KindTransaction     RequestKind = "transaction"
	KindSignInMessage   RequestKind = "sign_in_message"
	KindPersonalMessage RequestKind = "personal_message"
)

// Category is the intent bucket a request falls into.
type Category string

const (
	CategoryPayment          Category = "payment"
	CategoryApproval         Category = "approval"
	CategoryInfiniteApproval Category = "infinite_approval"
	CategorySwap             Category = "swap"
	CategoryStake            Category = "stake"
	CategoryDeposit          Category = "deposit"
	CategoryLogin            Category = "login"
	CategoryData             Category = "data"
	CategoryContractCall     Category = "contract_call"
)

// Tone is the coarse risk-communication level attached to a category.
type Tone string

const (
	ToneWarn Tone = "warn"
	ToneSafe Tone = "safe"
	ToneInfo Tone = "info"
)

// SigningRequest describes one pending signing/transaction intent.
// Immutable input — the classifier never mutates it.
type SigningRequest struct {
	Kind        RequestKind `json:"kind"`
	Destination string      `json:"destination,omitempty"` // target address; empty for contract creation and message kinds
	Calldata    string      `json:"calldata,omitempty"`    // "0x"-prefixed hex; "0x" or >= 10 chars when present
	Value       string      `json:"value,omitempty"`       // hex-encoded native amount, default zero
	Message     string      `json:"message,omitempty"`     // payload for the message kinds; ignored by the classifier
	// ApprovalUnlimited is caller-asserted: true when an approval amount is
	// the maximum representable integer.
	ApprovalUnlimited bool `json:"approvalUnlimited,omitempty"`
}

// Classification is the classifier's verdict on a request. Derived, never
// persisted as state — the audit Store keeps a copy for review only.
type Classification struct {
	Category Category `json:"category"`
	Tone     Tone     `json:"tone"`
	Detail   string   `json:"detail,omitempty"` // space-normalized label from the matched selector name
}

// Record is one classified request kept for the audit trail.
type Record struct {
	ID             string         `json:"id"`
	Request        SigningRequest `json:"request"`
	Classification Classification `json:"classification"`
	ClassifiedAt   time.Time      `json:"classifiedAt"`
}

// Store persists classification records for audit.
type Store interface {
	Record(ctx context.Context, rec *Record) error
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
}
