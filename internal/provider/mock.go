package provider

import (
	"context"
	"fmt"
	"sync/atomic"
)

// MockAccount is the address the mock provider reports.
const MockAccount = "0x00000000000000000000000000000000c0ffee00"

// Mock is the stand-in used when no real wallet provider is configured.
// Outcomes are deterministic: signatures and hashes derive from a call
// counter, never from randomness, so demo logs are reproducible.
type Mock struct {
	calls atomic.Uint64

	// FailNext, when true, makes the next signing/sending call fail.
	// Lets tests exercise the gate's error path.
	FailNext bool
}

// Compile-time interface check
var _ Provider = (*Mock)(nil)

// NewMock creates a deterministic mock provider.
func NewMock() *Mock {
	return &Mock{}
}

// Available always reports true — the mock exists so flows complete.
func (m *Mock) Available() bool { return true }

func (m *Mock) RequestAccounts(ctx context.Context) (string, error) {
	return MockAccount, nil
}

func (m *Mock) SignPersonalMessage(ctx context.Context, message string, account string) (string, error) {
	if m.takeFailure() {
		return "", &CallError{Op: "sign_message", Err: ErrUnavailable}
	}
	n := m.calls.Add(1)
	return fmt.Sprintf("0x%0130x", n), nil
}

func (m *Mock) SendTransaction(ctx context.Context, to string, value string, calldata string) (string, error) {
	if m.takeFailure() {
		return "", &CallError{Op: "send", Err: ErrUnavailable}
	}
	n := m.calls.Add(1)
	return fmt.Sprintf("0x%064x", n), nil
}

func (m *Mock) takeFailure() bool {
	if m.FailNext {
		m.FailNext = false
		return true
	}
	return false
}
