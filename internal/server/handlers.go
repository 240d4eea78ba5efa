package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/walletgate/walletgate/internal/classify"
	"github.com/walletgate/walletgate/internal/gate"
	"github.com/walletgate/walletgate/internal/logging"
	"github.com/walletgate/walletgate/internal/provider"
	"github.com/walletgate/walletgate/internal/validation"
)

// signingRequestBody is the wire form of a signing request.
type signingRequestBody struct {
	Kind              string `json:"kind" binding:"required"`
	Destination       string `json:"destination"`
	Calldata          string `json:"calldata"`
	Value             string `json:"value"`
	Message           string `json:"message"`
	ApprovalUnlimited bool   `json:"approvalUnlimited"`
}

// validate checks field shapes per request kind.
func (b *signingRequestBody) validate() validation.ValidationErrors {
	switch classify.RequestKind(b.Kind) {
	case classify.KindTransaction:
		return validation.Validate(
			validation.ValidAddress("destination", b.Destination),
			validation.ValidCalldata("calldata", b.Calldata),
			validation.ValidHexQuantity("value", b.Value),
			validation.MaxLength("message", b.Message, validation.MaxStringLength),
		)
	case classify.KindSignInMessage, classify.KindPersonalMessage:
		return validation.Validate(
			validation.Required("message", b.Message),
			validation.MaxLength("message", b.Message, validation.MaxStringLength),
		)
	default:
		return validation.ValidationErrors{{
			Field:   "kind",
			Message: "must be transaction, sign_in_message, or personal_message",
		}}
	}
}

// toSigningRequest converts a validated body to the domain type.
func (b *signingRequestBody) toSigningRequest() classify.SigningRequest {
	dest := b.Destination
	if dest != "" {
		dest = validation.SanitizeAddress(dest)
	}
	return classify.SigningRequest{
		Kind:              classify.RequestKind(b.Kind),
		Destination:       dest,
		Calldata:          b.Calldata,
		Value:             b.Value,
		Message:           validation.SanitizeString(b.Message, validation.MaxStringLength),
		ApprovalUnlimited: b.ApprovalUnlimited,
	}
}

// -----------------------------------------------------------------------------
// Info & health
// -----------------------------------------------------------------------------

func (s *Server) infoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "WalletGate",
		"description": "Signing-request classification and approval gate",
		"version":     "0.1.0",
		"provider":    providerMode(s.prov),
		"chainId":     s.cfg.ChainID,
	})
}

// HealthResponse for health check endpoints
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp string            `json:"timestamp"`
}

func (s *Server) healthHandler(c *gin.Context) {
	checks := make(map[string]string)

	if s.db != nil {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			checks["database"] = "unhealthy"
		} else {
			checks["database"] = "healthy"
		}
	}

	if s.prov != nil && s.prov.Available() {
		checks["provider"] = "healthy"
	} else {
		// Gate degrades to simulation mode, still serviceable
		checks["provider"] = "simulated"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	for _, v := range checks {
		if v == "unhealthy" {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(httpStatus, HealthResponse{
		Status:    status,
		Version:   "0.1.0",
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) livenessHandler(c *gin.Context) {
	if !s.healthy.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// -----------------------------------------------------------------------------
// Wallet connection
// -----------------------------------------------------------------------------

// connectHandler handles POST /v1/connect
func (s *Server) connectHandler(c *gin.Context) {
	account, err := s.gate.Connect(c.Request.Context())
	if err != nil {
		if errors.Is(err, provider.ErrUnavailable) {
			c.JSON(http.StatusOK, gin.H{
				"connected": false,
				"mode":      "simulation",
				"message":   "No wallet provider available; actions will be simulated",
			})
			return
		}
		logging.L(c.Request.Context()).Error("wallet connection failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "connect_failed",
			"message": "Wallet connection failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected": true,
		"account":   account,
	})
}

// accountHandler handles GET /v1/account
func (s *Server) accountHandler(c *gin.Context) {
	account := s.gate.Account()
	c.JSON(http.StatusOK, gin.H{
		"account":   account,
		"connected": account != "",
	})
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// classifyHandler handles POST /v1/classify — classification without
// touching the gate. Useful for UIs that preview intent as the user types.
func (s *Server) classifyHandler(c *gin.Context) {
	var body signingRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	if errs := body.validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": errs.Error(),
			"details": errs,
		})
		return
	}

	cls := classify.Classify(body.toSigningRequest())
	c.JSON(http.StatusOK, gin.H{
		"classification": cls,
		"actionLabel":    classify.ActionLabel(cls.Category),
	})
}

// labelsHandler handles GET /v1/labels — the full category → label table.
func (s *Server) labelsHandler(c *gin.Context) {
	labels := make(map[string]string)
	for _, cat := range classify.AllCategories() {
		labels[string(cat)] = classify.ActionLabel(cat)
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels})
}

// -----------------------------------------------------------------------------
// Approval gate
// -----------------------------------------------------------------------------

// submitHandler handles POST /v1/requests
func (s *Server) submitHandler(c *gin.Context) {
	var body signingRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	if errs := body.validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": errs.Error(),
			"details": errs,
		})
		return
	}

	pending, err := s.gate.Submit(c.Request.Context(), body.toSigningRequest())
	if err != nil {
		if errors.Is(err, gate.ErrConfirmInFlight) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "confirm_in_flight",
				"message": "A confirmation is being executed; retry after it completes",
			})
			return
		}
		logging.L(c.Request.Context()).Error("submit failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to submit request",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"pending": pending,
		"state":   s.gate.State(),
	})
}

// stateHandler handles GET /v1/state
func (s *Server) stateHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state":   s.gate.State(),
		"pending": s.gate.Pending(),
		"account": s.gate.Account(),
	})
}

// pendingHandler handles GET /v1/pending
func (s *Server) pendingHandler(c *gin.Context) {
	pending := s.gate.Pending()
	if pending == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "no_pending",
			"message": "No request is awaiting a decision",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

// confirmHandler handles POST /v1/pending/confirm
func (s *Server) confirmHandler(c *gin.Context) {
	receipt := s.gate.Confirm(c.Request.Context())
	if receipt == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "no_pending",
			"message": "No request is awaiting a decision",
		})
		return
	}

	// Execution failures are reported in the receipt, not as HTTP errors:
	// the decision itself was carried out.
	c.JSON(http.StatusOK, gin.H{
		"receipt": receipt,
		"state":   s.gate.State(),
	})
}

// rejectHandler handles POST /v1/pending/reject
func (s *Server) rejectHandler(c *gin.Context) {
	if !s.gate.Reject(c.Request.Context()) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "no_pending",
			"message": "No request is awaiting a decision",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": s.gate.State()})
}

// -----------------------------------------------------------------------------
// History
// -----------------------------------------------------------------------------

// logHandler handles GET /v1/log — gate outcomes, most recent first.
func (s *Server) logHandler(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 50)

	entries := s.eventLog.Snapshot()
	if len(entries) > limit {
		entries = entries[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// classificationsHandler handles GET /v1/classifications — the audit trail.
func (s *Server) classificationsHandler(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 50)

	records, err := s.audit.ListRecent(c.Request.Context(), limit)
	if err != nil {
		logging.L(c.Request.Context()).Error("failed to list classifications", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list classifications",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"classifications": records,
		"count":           len(records),
	})
}

func parseLimit(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if n > 500 {
		return 500
	}
	return n
}
