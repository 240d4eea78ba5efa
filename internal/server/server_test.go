package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/walletgate/walletgate/internal/config"
	"github.com/walletgate/walletgate/internal/provider"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testConfig returns a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Port:        "0",
		Env:         "development",
		LogLevel:    "error",
		RPCURL:      "https://sepolia.base.org",
		ChainID:     84532,
		EventLogCap: 100,
	}
}

// newTestServer creates a server backed by the deterministic mock provider
func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(testConfig(), WithProvider(provider.NewMock()))
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return s
}

func doJSON(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to parse response %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

// ---------------------------------------------------------------------------
// Health endpoints
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w, resp := doJSON(t, s, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", resp["status"])
	}
}

func TestLivenessEndpoint(t *testing.T) {
	s := newTestServer(t)

	w, _ := doJSON(t, s, "GET", "/health/live", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestReadinessEndpoint_NotReadyBeforeRun(t *testing.T) {
	s := newTestServer(t)

	// Run() flips readiness; a freshly constructed server is not ready
	w, _ := doJSON(t, s, "GET", "/health/ready", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 before Run, got %d", w.Code)
	}
}

// ---------------------------------------------------------------------------
// Classification endpoints
// ---------------------------------------------------------------------------

func TestClassifyEndpoint_Transfer(t *testing.T) {
	s := newTestServer(t)

	body := `{"kind":"transaction","destination":"0x2222222222222222222222222222222222222222","calldata":"0xa9059cbb` + strings.Repeat("0", 64) + `"}`
	w, resp := doJSON(t, s, "POST", "/v1/classify", body)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	cls := resp["classification"].(map[string]interface{})
	if cls["category"] != "payment" {
		t.Errorf("category = %v, want payment", cls["category"])
	}
	if resp["actionLabel"] != "Send payment" {
		t.Errorf("actionLabel = %v", resp["actionLabel"])
	}
}

func TestClassifyEndpoint_InvalidKind(t *testing.T) {
	s := newTestServer(t)

	w, resp := doJSON(t, s, "POST", "/v1/classify", `{"kind":"typed_data"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
	if resp["error"] != "validation_error" {
		t.Errorf("error = %v", resp["error"])
	}
	details := resp["details"].([]interface{})
	if len(details) != 1 || details[0].(map[string]interface{})["field"] != "kind" {
		t.Errorf("details = %v", details)
	}
}

func TestClassifyEndpoint_BadCalldata(t *testing.T) {
	s := newTestServer(t)

	// Selector shorter than 4 bytes
	w, _ := doJSON(t, s, "POST", "/v1/classify", `{"kind":"transaction","calldata":"0xa9059c"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for truncated selector, got %d", w.Code)
	}
}

func TestLabelsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w, resp := doJSON(t, s, "GET", "/v1/labels", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	labels := resp["labels"].(map[string]interface{})
	if labels["contract_call"] != "Contract interaction" {
		t.Errorf("contract_call label = %v", labels["contract_call"])
	}
	if len(labels) < 9 {
		t.Errorf("Expected a label per category, got %d", len(labels))
	}
}

// ---------------------------------------------------------------------------
// Gate flow
// ---------------------------------------------------------------------------

func TestSubmitConfirmFlow(t *testing.T) {
	s := newTestServer(t)

	body := `{"kind":"transaction","destination":"0x2222222222222222222222222222222222222222","calldata":"0x","value":"0x2386f26fc10000"}`
	w, resp := doJSON(t, s, "POST", "/v1/requests", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if resp["state"] != "awaiting_decision" {
		t.Errorf("state = %v", resp["state"])
	}
	pending := resp["pending"].(map[string]interface{})
	if pending["actionLabel"] != "Send payment" {
		t.Errorf("actionLabel = %v", pending["actionLabel"])
	}

	// Pending is visible
	w, _ = doJSON(t, s, "GET", "/v1/pending", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from /v1/pending, got %d", w.Code)
	}

	// Confirm executes through the mock provider
	w, resp = doJSON(t, s, "POST", "/v1/pending/confirm", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	receipt := resp["receipt"].(map[string]interface{})
	if receipt["ok"] != true {
		t.Errorf("receipt = %v", receipt)
	}
	if resp["state"] != "idle" {
		t.Errorf("state after confirm = %v", resp["state"])
	}

	// Log shows submit + confirm, most recent first
	w, resp = doJSON(t, s, "GET", "/v1/log", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	entries := resp["entries"].([]interface{})
	if len(entries) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(entries))
	}
	first := entries[0].(map[string]interface{})
	if first["outcome"] != "confirm" {
		t.Errorf("most recent outcome = %v, want confirm", first["outcome"])
	}
}

func TestRejectFlow(t *testing.T) {
	s := newTestServer(t)

	body := `{"kind":"personal_message","message":"hello"}`
	w, _ := doJSON(t, s, "POST", "/v1/requests", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}

	w, resp := doJSON(t, s, "POST", "/v1/pending/reject", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if resp["state"] != "idle" {
		t.Errorf("state after reject = %v", resp["state"])
	}
}

func TestConfirmWithoutPending(t *testing.T) {
	s := newTestServer(t)

	w, resp := doJSON(t, s, "POST", "/v1/pending/confirm", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	if resp["error"] != "no_pending" {
		t.Errorf("error = %v", resp["error"])
	}

	w, _ = doJSON(t, s, "POST", "/v1/pending/reject", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for reject without pending, got %d", w.Code)
	}
}

func TestSubmitInvalidDestination(t *testing.T) {
	s := newTestServer(t)

	w, resp := doJSON(t, s, "POST", "/v1/requests", `{"kind":"transaction","destination":"not-an-address"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
	if resp["error"] != "validation_error" {
		t.Errorf("error = %v", resp["error"])
	}
	details := resp["details"].([]interface{})
	if details[0].(map[string]interface{})["field"] != "destination" {
		t.Errorf("details = %v", details)
	}
}

func TestSubmitMessageKindRequiresMessage(t *testing.T) {
	s := newTestServer(t)

	w, resp := doJSON(t, s, "POST", "/v1/requests", `{"kind":"sign_in_message"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	details := resp["details"].([]interface{})
	if details[0].(map[string]interface{})["field"] != "message" {
		t.Errorf("details = %v", details)
	}
}

func TestSubmitNormalizesDestination(t *testing.T) {
	s := newTestServer(t)

	body := `{"kind":"transaction","destination":"0xABCDABCDABCDABCDABCDABCDABCDABCDABCDABCD","value":"0x1"}`
	w, resp := doJSON(t, s, "POST", "/v1/requests", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	pending := resp["pending"].(map[string]interface{})
	req := pending["request"].(map[string]interface{})
	if req["destination"] != "0xabcdabcdabcdabcdabcdabcdabcdabcdabcdabcd" {
		t.Errorf("destination not normalized: %v", req["destination"])
	}
}

// ---------------------------------------------------------------------------
// Connection
// ---------------------------------------------------------------------------

func TestConnectEndpoint(t *testing.T) {
	s := newTestServer(t)

	w, resp := doJSON(t, s, "POST", "/v1/connect", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if resp["connected"] != true {
		t.Errorf("connected = %v", resp["connected"])
	}
	if resp["account"] != provider.MockAccount {
		t.Errorf("account = %v", resp["account"])
	}

	w, resp = doJSON(t, s, "GET", "/v1/account", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if resp["account"] != provider.MockAccount {
		t.Errorf("stored account = %v", resp["account"])
	}
}

// ---------------------------------------------------------------------------
// State & middleware
// ---------------------------------------------------------------------------

func TestStateEndpoint_Idle(t *testing.T) {
	s := newTestServer(t)

	w, resp := doJSON(t, s, "GET", "/v1/state", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if resp["state"] != "idle" {
		t.Errorf("state = %v", resp["state"])
	}
	if resp["pending"] != nil {
		t.Errorf("pending = %v, want null", resp["pending"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/api", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}

func TestInfoEndpoint(t *testing.T) {
	s := newTestServer(t)

	w, resp := doJSON(t, s, "GET", "/api", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if resp["provider"] != "mock" {
		t.Errorf("provider mode = %v, want mock", resp["provider"])
	}
}
