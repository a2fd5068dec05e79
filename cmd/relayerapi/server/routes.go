package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"solana-base-bridge/core"
)

// Env bundles the dependencies handlers close over. One Env is constructed
// at startup and shared across requests; core.Deps itself is not
// goroutine-safe against concurrent mutation of the same bridge, which
// matches the single-writer relay loop this API fronts.
type Env struct {
	Deps *core.Deps
}

// NewRouter configures the HTTP routes for the relayer API.
func NewRouter(env *Env) *mux.Router {
	r := mux.NewRouter()

	r.Use(RequestLogger)
	r.Use(JSONHeaders)

	// outbound instruction surface
	r.HandleFunc("/api/bridge_call", env.BridgeCall).Methods(http.MethodPost)
	r.HandleFunc("/api/bridge_sol", env.BridgeSol).Methods(http.MethodPost)
	r.HandleFunc("/api/bridge_spl", env.BridgeSpl).Methods(http.MethodPost)
	r.HandleFunc("/api/bridge_wrapped_token", env.BridgeWrappedToken).Methods(http.MethodPost)
	r.HandleFunc("/api/wrap_token", env.WrapToken).Methods(http.MethodPost)
	r.HandleFunc("/api/close_outgoing_message/{nonce}", env.CloseOutgoingMessage).Methods(http.MethodPost)

	// buffered-call variants of the outbound instruction surface
	r.HandleFunc("/api/bridge_call_buffered", env.BridgeCallBuffered).Methods(http.MethodPost)
	r.HandleFunc("/api/bridge_sol_with_buffered_call", env.BridgeSolWithBufferedCall).Methods(http.MethodPost)
	r.HandleFunc("/api/bridge_spl_with_buffered_call", env.BridgeSplWithBufferedCall).Methods(http.MethodPost)
	r.HandleFunc("/api/bridge_wrapped_token_with_buffered_call", env.BridgeWrappedTokenWithBufferedCall).Methods(http.MethodPost)

	// call buffer lifecycle
	r.HandleFunc("/api/call_buffer", env.InitializeCallBuffer).Methods(http.MethodPost)
	r.HandleFunc("/api/call_buffer/{id}/append", env.AppendToCallBuffer).Methods(http.MethodPost)
	r.HandleFunc("/api/call_buffer/{id}/close", env.CloseCallBuffer).Methods(http.MethodPost)

	// inbound verification and relay
	r.HandleFunc("/api/register_output_root", env.RegisterOutputRoot).Methods(http.MethodPost)
	r.HandleFunc("/api/prove_message", env.ProveMessage).Methods(http.MethodPost)
	r.HandleFunc("/api/relay_message", env.RelayMessage).Methods(http.MethodPost)
	r.HandleFunc("/api/acknowledge_base_nonce", env.AcknowledgeBaseNonce).Methods(http.MethodPost)

	// guardian administration
	r.HandleFunc("/api/oracle_signers", env.SetOracleSigners).Methods(http.MethodPost)
	r.HandleFunc("/api/guardian", env.TransferGuardian).Methods(http.MethodPost)
	r.HandleFunc("/api/pause", env.SetPauseStatus).Methods(http.MethodPost)

	// read-only status
	r.HandleFunc("/api/bridge", env.GetBridge).Methods(http.MethodGet)

	return r
}
