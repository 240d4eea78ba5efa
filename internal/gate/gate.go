// Package gate owns the approval flow between classification and the
// wallet provider: classify → present → wait for the user's decision →
// execute or abort. It holds the single in-flight request slot; nothing
// is signed or sent except as a direct consequence of Confirm.
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/walletgate/walletgate/internal/classify"
	"github.com/walletgate/walletgate/internal/eventlog"
	"github.com/walletgate/walletgate/internal/idgen"
	"github.com/walletgate/walletgate/internal/metrics"
	"github.com/walletgate/walletgate/internal/provider"
	"github.com/walletgate/walletgate/internal/traces"
)

// ErrConfirmInFlight is returned when Submit is called while a
// confirmation is still waiting on the provider.
var ErrConfirmInFlight = errors.New("gate: confirmation in flight")

// State of the approval gate.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingDecision State = "awaiting_decision"
)

// PendingApproval is the single slot: one classified request awaiting a
// user decision.
type PendingApproval struct {
	ID             string                  `json:"id"`
	Request        classify.SigningRequest `json:"request"`
	Classification classify.Classification `json:"classification"`
	ActionLabel    string                  `json:"actionLabel"`
	SubmittedAt    time.Time               `json:"submittedAt"`
}

// Receipt reports what happened when a pending approval was resolved.
type Receipt struct {
	ID       string            `json:"id"`
	Category classify.Category `json:"category"`
	Ok       bool              `json:"ok"`
	Output   string            `json:"output,omitempty"` // tx hash or signature
	Error    string            `json:"error,omitempty"`
}

// Broadcaster pushes gate events to live subscribers. Optional.
type Broadcaster interface {
	Broadcast(event string, data any)
}

// Gate orchestrates the approval flow. Safe for concurrent use, though
// the expected access pattern is a single UI event loop.
type Gate struct {
	mu       sync.Mutex
	pending  *PendingApproval
	account  string
	inFlight bool

	prov        provider.Provider
	log         *eventlog.Log
	audit       classify.Store
	broadcaster Broadcaster
	logger      *slog.Logger
}

// Option configures the Gate.
type Option func(*Gate)

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) { g.logger = l }
}

// WithAuditStore records every classification for later review.
func WithAuditStore(s classify.Store) Option {
	return func(g *Gate) { g.audit = s }
}

// WithBroadcaster streams gate events to live subscribers.
func WithBroadcaster(b Broadcaster) Option {
	return func(g *Gate) { g.broadcaster = b }
}

// New creates a Gate in the idle state.
func New(prov provider.Provider, log *eventlog.Log, opts ...Option) *Gate {
	g := &Gate{
		prov:   prov,
		log:    log,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State reports the current gate state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		return StateAwaitingDecision
	}
	return StateIdle
}

// Pending returns a copy of the pending approval, or nil when idle.
func (g *Gate) Pending() *PendingApproval {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return nil
	}
	p := *g.pending
	return &p
}

// Account returns the connected account address, if any.
func (g *Gate) Account() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.account
}

// Connect asks the provider for the active account and records the outcome.
func (g *Gate) Connect(ctx context.Context) (string, error) {
	if !g.providerAvailable() {
		g.log.Append(eventlog.OutcomeConnect, "wallet provider unavailable — running in simulation mode")
		return "", provider.ErrUnavailable
	}

	account, err := g.prov.RequestAccounts(ctx)
	if err != nil {
		g.log.Append(eventlog.OutcomeError, fmt.Sprintf("wallet connection failed: %v", err))
		return "", err
	}

	g.mu.Lock()
	g.account = account
	g.mu.Unlock()

	g.log.Append(eventlog.OutcomeConnect, fmt.Sprintf("wallet connected: %s", account))
	g.logger.Info("wallet connected", "account", account)
	return account, nil
}

// Submit classifies a request and parks it in the pending slot. Callable
// from idle or while another request awaits a decision — in the latter
// case the previous request is discarded and the discard is logged.
// Refused while a confirmation is in flight.
func (g *Gate) Submit(ctx context.Context, req classify.SigningRequest) (*PendingApproval, error) {
	c := classify.Classify(req)

	pending := &PendingApproval{
		ID:             idgen.WithPrefix("req_"),
		Request:        req,
		Classification: c,
		ActionLabel:    classify.ActionLabel(c.Category),
		SubmittedAt:    time.Now(),
	}

	g.mu.Lock()
	if g.inFlight {
		g.mu.Unlock()
		return nil, ErrConfirmInFlight
	}
	discarded := g.pending
	g.pending = pending
	g.mu.Unlock()

	if discarded != nil {
		g.log.Append(eventlog.OutcomeDiscard,
			fmt.Sprintf("pending %s (%s) replaced by new request", discarded.ID, discarded.Classification.Category))
		metrics.GateDecisionsTotal.WithLabelValues("discard").Inc()
		g.broadcast("discarded", discarded)
		g.logger.Warn("pending approval discarded",
			"discarded_id", discarded.ID,
			"new_id", pending.ID,
		)
	}

	metrics.ClassificationsTotal.WithLabelValues(string(c.Category), string(c.Tone)).Inc()
	metrics.PendingApprovals.Set(1)

	g.log.Append(eventlog.OutcomeSubmit,
		fmt.Sprintf("awaiting decision: %s (%s)", pending.ActionLabel, pending.ID))
	g.broadcast("pending", pending)
	g.logger.Info("request submitted",
		"id", pending.ID,
		"category", c.Category,
		"tone", c.Tone,
	)

	// Persist classification asynchronously (best-effort audit trail)
	if g.audit != nil {
		rec := &classify.Record{
			ID:             idgen.WithPrefix("cls_"),
			Request:        req,
			Classification: c,
			ClassifiedAt:   pending.SubmittedAt,
		}
		go func() {
			_ = g.audit.Record(context.Background(), rec)
		}()
	}

	return pending, nil
}

// Confirm executes the pending request through the provider. No-op when
// idle or while another confirmation is outstanding. The provider is
// invoked exactly once per submitted request; failures are caught,
// logged, and clear the slot — the user must resubmit.
func (g *Gate) Confirm(ctx context.Context) *Receipt {
	g.mu.Lock()
	if g.pending == nil || g.inFlight {
		g.mu.Unlock()
		return nil
	}
	pending := g.pending
	g.inFlight = true
	g.mu.Unlock()

	receipt := &Receipt{
		ID:       pending.ID,
		Category: pending.Classification.Category,
	}

	output, err := g.execute(ctx, pending)

	// Clear the slot whatever happened: faults are terminal for the request.
	g.mu.Lock()
	g.pending = nil
	g.inFlight = false
	g.mu.Unlock()
	metrics.PendingApprovals.Set(0)

	if err != nil {
		receipt.Error = err.Error()
		g.log.Append(eventlog.OutcomeError,
			fmt.Sprintf("%s failed: %v", pending.ActionLabel, err))
		metrics.GateDecisionsTotal.WithLabelValues("error").Inc()
		g.broadcast("failed", receipt)
		g.logger.Error("confirmation failed", "id", pending.ID, "error", err)
		return receipt
	}

	receipt.Ok = true
	receipt.Output = output
	g.log.Append(eventlog.OutcomeConfirm,
		fmt.Sprintf("%s: %s", pending.ActionLabel, output))
	metrics.GateDecisionsTotal.WithLabelValues("confirm").Inc()
	g.broadcast("confirmed", receipt)
	g.logger.Info("confirmation executed", "id", pending.ID, "output", output)
	return receipt
}

// Reject discards the pending request without touching the provider.
// No-op when idle. Returns true if a request was rejected.
func (g *Gate) Reject(ctx context.Context) bool {
	g.mu.Lock()
	if g.pending == nil || g.inFlight {
		g.mu.Unlock()
		return false
	}
	pending := g.pending
	g.pending = nil
	g.mu.Unlock()

	metrics.PendingApprovals.Set(0)
	metrics.GateDecisionsTotal.WithLabelValues("reject").Inc()
	g.log.Append(eventlog.OutcomeReject,
		fmt.Sprintf("rejected: %s (%s)", pending.ActionLabel, pending.ID))
	g.broadcast("rejected", pending)
	g.logger.Info("request rejected", "id", pending.ID)
	return true
}

// execute performs the side-effecting action for the request's kind.
func (g *Gate) execute(ctx context.Context, pending *PendingApproval) (string, error) {
	attrs := []attribute.KeyValue{
		traces.RequestID(pending.ID),
		traces.Category(string(pending.Classification.Category)),
		traces.Tone(string(pending.Classification.Tone)),
	}
	if pending.Request.Destination != "" {
		attrs = append(attrs, traces.Destination(pending.Request.Destination))
	}
	ctx, span := traces.StartSpan(ctx, "gate.execute", attrs...)
	defer span.End()

	if !g.providerAvailable() {
		// Substitute a deterministic synthetic outcome rather than fail.
		return fmt.Sprintf("simulated (no provider): %s", pending.ActionLabel), nil
	}

	var method string
	switch pending.Request.Kind {
	case classify.KindTransaction:
		method = "send_transaction"
	default:
		method = "sign_personal_message"
	}

	timer := time.Now()
	output, err := g.callProvider(ctx, method, pending)
	metrics.ProviderCallDuration.WithLabelValues(method).Observe(time.Since(timer).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ProviderCallsTotal.WithLabelValues(method, result).Inc()

	if err == nil && method == "send_transaction" {
		span.SetAttributes(traces.TxHash(output))
	}
	return output, err
}

func (g *Gate) callProvider(ctx context.Context, method string, pending *PendingApproval) (string, error) {
	if method == "send_transaction" {
		return g.prov.SendTransaction(ctx,
			pending.Request.Destination,
			pending.Request.Value,
			pending.Request.Calldata,
		)
	}

	account := g.Account()
	if account == "" {
		var err error
		account, err = g.prov.RequestAccounts(ctx)
		if err != nil {
			return "", err
		}
	}
	return g.prov.SignPersonalMessage(ctx, pending.Request.Message, account)
}

func (g *Gate) providerAvailable() bool {
	return g.prov != nil && g.prov.Available()
}

func (g *Gate) broadcast(event string, data any) {
	if g.broadcaster != nil {
		g.broadcaster.Broadcast(event, data)
	}
}
