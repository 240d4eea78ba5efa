// Package provider abstracts the wallet capability the approval gate
// delegates to: account discovery, personal-message signing, and
// transaction submission. The gate treats it as opaque — when no real
// provider is configured, the deterministic mock stands in so the flow
// still completes with a synthetic outcome.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Errors - typed errors for programmatic handling
// -----------------------------------------------------------------------------

var (
	ErrUnavailable       = errors.New("provider: not available")
	ErrInvalidPrivateKey = errors.New("provider: invalid private key")
	ErrInvalidAddress    = errors.New("provider: invalid address")
	ErrInvalidValue      = errors.New("provider: invalid value")
	ErrRPCConnection     = errors.New("provider: RPC connection failed")
)

// CallError wraps provider call failures with context
type CallError struct {
	Op     string // Operation that failed
	TxHash string // Transaction hash if available
	Err    error  // Underlying error
}

func (e *CallError) Error() string {
	if e.TxHash != "" {
		return fmt.Sprintf("provider: %s failed (tx: %s): %v", e.Op, e.TxHash, e.Err)
	}
	return fmt.Sprintf("provider: %s failed: %v", e.Op, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// -----------------------------------------------------------------------------
// Interface
// -----------------------------------------------------------------------------

// Provider is the wallet capability consumed by the approval gate.
type Provider interface {
	// Available reports whether the provider can actually sign and send.
	Available() bool

	// RequestAccounts returns the active account address.
	RequestAccounts(ctx context.Context) (string, error)

	// SignPersonalMessage signs an EIP-191 personal message for the account
	// and returns the hex-encoded signature.
	SignPersonalMessage(ctx context.Context, message string, account string) (string, error)

	// SendTransaction submits a transaction and returns its hash.
	// to is empty for contract creation; value and calldata are hex strings.
	SendTransaction(ctx context.Context, to string, value string, calldata string) (string, error)
}
