package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"solana-base-bridge/core"
)

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	store := core.NewInMemoryStore()
	guardian := core.Address{0x01}
	eip1559 := core.Eip1559Config{Target: 5_000_000, Denominator: 8, WindowDurationSeconds: 1, MinimumBaseFee: 1}
	bridge, err := core.InitializeBridge(store, guardian,
		eip1559,
		core.GasCostConfig{GasCostScaler: 1_000_000, GasCostScalerDp: 1_000_000, GasFeeReceiver: core.Address{0x02}},
		core.GasConfig{MaxGasLimitPerMessage: 2_000_000},
		core.ProtocolConfig{BlockIntervalRequirement: 1},
		core.LimitsConfig{MaxCallBufferSize: 16384},
		0,
	)
	if err != nil {
		t.Fatalf("InitializeBridge: %v", err)
	}
	signers, err := core.SetOracleSigners(1, []core.EvmAddress{{0x09}})
	if err != nil {
		t.Fatalf("SetOracleSigners: %v", err)
	}
	ledger := core.NewInMemoryLedger(nil)
	ledger.Credit(guardian, 1_000_000)

	return &Env{Deps: &core.Deps{
		Store:         store,
		Bridge:        bridge,
		Signers:       signers,
		Ledger:        ledger,
		Tokens:        core.NewInMemoryTokenLedger(),
		Invoker:       core.LoggingInvoker{},
		TrustedOracle: guardian,
		Now:           func() uint64 { return 1 },
	}}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestBridgeCallSuccess(t *testing.T) {
	env := newTestEnv(t)
	router := NewRouter(env)

	req := map[string]any{
		"sender":    env.Deps.Bridge.Guardian.Hex(),
		"payer":     env.Deps.Bridge.Guardian.Hex(),
		"gas_limit": 100000,
		"call": map[string]any{
			"type":  0,
			"to":    "0x0909090909090909090909090909090909090909"[:42],
			"value": "0",
			"data":  nil,
		},
	}
	rr := doJSON(t, router, http.MethodPost, "/api/bridge_call", req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestBridgeCallInvalidSender(t *testing.T) {
	env := newTestEnv(t)
	router := NewRouter(env)

	req := map[string]any{
		"sender":    "not-hex",
		"payer":     env.Deps.Bridge.Guardian.Hex(),
		"gas_limit": 100000,
		"call": map[string]any{
			"type":  0,
			"to":    "0x0909090909090909090909090909090909090909"[:42],
			"value": "0",
		},
	}
	rr := doJSON(t, router, http.MethodPost, "/api/bridge_call", req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGetBridgeReturnsState(t *testing.T) {
	env := newTestEnv(t)
	router := NewRouter(env)

	rr := doJSON(t, router, http.MethodGet, "/api/bridge", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var res map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res["Paused"] != false {
		t.Fatalf("expected Paused=false, got %v", res["Paused"])
	}
}

func TestSetPauseStatusRequiresGuardian(t *testing.T) {
	env := newTestEnv(t)
	router := NewRouter(env)

	req := map[string]any{
		"caller": core.Address{0xFF}.Hex(),
		"paused": true,
	}
	rr := doJSON(t, router, http.MethodPost, "/api/pause", req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unauthorized caller, got %d", rr.Code)
	}
}

func TestInitializeAndCloseCallBuffer(t *testing.T) {
	env := newTestEnv(t)
	router := NewRouter(env)

	owner := env.Deps.Bridge.Guardian
	id := core.Hash{0x42}

	initReq := map[string]any{
		"id":            id.Hex(),
		"owner":         owner.Hex(),
		"type":          0,
		"to":            "0x0909090909090909090909090909090909090909",
		"initial_data":  []byte("hi"),
		"max_data_len":  64,
	}
	rr := doJSON(t, router, http.MethodPost, "/api/call_buffer", initReq)
	if rr.Code != http.StatusOK {
		t.Fatalf("init call buffer: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	closeReq := map[string]any{"caller": owner.Hex()}
	rr = doJSON(t, router, http.MethodPost, "/api/call_buffer/"+id.Hex()+"/close", closeReq)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("close call buffer: expected 204, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestBridgeCallBufferedConsumesBuffer(t *testing.T) {
	env := newTestEnv(t)
	router := NewRouter(env)

	owner := env.Deps.Bridge.Guardian
	id := core.Hash{0x43}

	initReq := map[string]any{
		"id":           id.Hex(),
		"owner":        owner.Hex(),
		"type":         0,
		"to":           "0x0909090909090909090909090909090909090909",
		"initial_data": []byte("buffered"),
		"max_data_len": 64,
	}
	rr := doJSON(t, router, http.MethodPost, "/api/call_buffer", initReq)
	if rr.Code != http.StatusOK {
		t.Fatalf("init call buffer: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	bridgeReq := map[string]any{
		"buffer_id": id.Hex(),
		"owner":     owner.Hex(),
		"sender":    owner.Hex(),
		"payer":     owner.Hex(),
		"gas_limit": 100_000,
	}
	rr = doJSON(t, router, http.MethodPost, "/api/bridge_call_buffered", bridgeReq)
	if rr.Code != http.StatusOK {
		t.Fatalf("bridge_call_buffered: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAcknowledgeBaseNonceRequiresOracle(t *testing.T) {
	env := newTestEnv(t)
	router := NewRouter(env)

	req := map[string]any{"caller": core.Address{0xFF}.Hex(), "nonce": 1}
	rr := doJSON(t, router, http.MethodPost, "/api/acknowledge_base_nonce", req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unauthorized caller, got %d", rr.Code)
	}

	req = map[string]any{"caller": env.Deps.TrustedOracle.Hex(), "nonce": 1}
	rr = doJSON(t, router, http.MethodPost, "/api/acknowledge_base_nonce", req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for trusted oracle, got %d: %s", rr.Code, rr.Body.String())
	}
}
