package server

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"solana-base-bridge/core"
)

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error, status int) {
	http.Error(w, err.Error(), status)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return false
	}
	return true
}

// callRequest is the wire shape of a Call argument.
type callRequest struct {
	Type  core.CallType `json:"type"`
	To    string        `json:"to"`
	Value string        `json:"value"`
	Data  []byte        `json:"data"`
}

func (c callRequest) toCall() (core.Call, error) {
	to, err := core.ParseEvmAddress(c.To)
	if err != nil {
		return core.Call{}, err
	}
	value := new(big.Int)
	if c.Value != "" {
		if _, ok := value.SetString(c.Value, 10); !ok {
			return core.Call{}, core.ErrAbiEncode
		}
	}
	return core.Call{Type: c.Type, To: to, Value: value, Data: c.Data}, nil
}

// BridgeCall handles POST /api/bridge_call.
func (e *Env) BridgeCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sender   string      `json:"sender"`
		Payer    string      `json:"payer"`
		GasLimit uint64      `json:"gas_limit"`
		Call     callRequest `json:"call"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sender, err := core.ParseAddress(req.Sender)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	payer, err := core.ParseAddress(req.Payer)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	call, err := req.Call.toCall()
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	msg, err := e.Deps.BridgeCall(core.BridgeCallArgs{Sender: sender, Payer: payer, GasLimit: req.GasLimit, Call: call})
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, msg)
}

// BridgeSol handles POST /api/bridge_sol.
func (e *Env) BridgeSol(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sender      string `json:"sender"`
		Payer       string `json:"payer"`
		GasLimit    uint64 `json:"gas_limit"`
		To          string `json:"to"`
		RemoteToken string `json:"remote_token"`
		Amount      uint64 `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sender, err := core.ParseAddress(req.Sender)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	payer, err := core.ParseAddress(req.Payer)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	to, err := core.ParseEvmAddress(req.To)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	remoteToken, err := core.ParseEvmAddress(req.RemoteToken)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	msg, err := e.Deps.BridgeSol(core.BridgeSolArgs{Sender: sender, Payer: payer, GasLimit: req.GasLimit, To: to, RemoteToken: remoteToken, Amount: req.Amount})
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, msg)
}

// BridgeSpl handles POST /api/bridge_spl.
func (e *Env) BridgeSpl(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sender      string `json:"sender"`
		Payer       string `json:"payer"`
		GasLimit    uint64 `json:"gas_limit"`
		Mint        string `json:"mint"`
		To          string `json:"to"`
		RemoteToken string `json:"remote_token"`
		Amount      uint64 `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sender, err := core.ParseAddress(req.Sender)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	payer, err := core.ParseAddress(req.Payer)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	mint, err := core.ParseAddress(req.Mint)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	to, err := core.ParseEvmAddress(req.To)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	remoteToken, err := core.ParseEvmAddress(req.RemoteToken)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	msg, err := e.Deps.BridgeSpl(core.BridgeSplArgs{Sender: sender, Payer: payer, GasLimit: req.GasLimit, Mint: mint, To: to, RemoteToken: remoteToken, Amount: req.Amount})
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, msg)
}

// BridgeWrappedToken handles POST /api/bridge_wrapped_token.
func (e *Env) BridgeWrappedToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sender   string `json:"sender"`
		Payer    string `json:"payer"`
		GasLimit uint64 `json:"gas_limit"`
		Mint     string `json:"mint"`
		To       string `json:"to"`
		Amount   uint64 `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sender, err := core.ParseAddress(req.Sender)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	payer, err := core.ParseAddress(req.Payer)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	mint, err := core.ParseAddress(req.Mint)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	to, err := core.ParseEvmAddress(req.To)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	msg, err := e.Deps.BridgeWrappedToken(core.BridgeWrappedTokenArgs{Sender: sender, Payer: payer, GasLimit: req.GasLimit, Mint: mint, To: to, Amount: req.Amount})
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, msg)
}

// bufferedCallRequest is the wire shape shared by the *_with_buffered_call
// and bridge_call_buffered handlers: the owner authorizing the consume,
// plus the usual sender/payer/gas_limit instruction arguments.
type bufferedCallRequest struct {
	BufferID string `json:"buffer_id"`
	Owner    string `json:"owner"`
	Sender   string `json:"sender"`
	Payer    string `json:"payer"`
	GasLimit uint64 `json:"gas_limit"`
}

func (req bufferedCallRequest) parse() (id core.Hash, owner, sender, payer core.Address, err error) {
	if id, err = core.ParseHash(req.BufferID); err != nil {
		return
	}
	if owner, err = core.ParseAddress(req.Owner); err != nil {
		return
	}
	if sender, err = core.ParseAddress(req.Sender); err != nil {
		return
	}
	payer, err = core.ParseAddress(req.Payer)
	return
}

// BridgeCallBuffered handles POST /api/bridge_call_buffered.
func (e *Env) BridgeCallBuffered(w http.ResponseWriter, r *http.Request) {
	var req bufferedCallRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, owner, sender, payer, err := req.parse()
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	msg, err := e.Deps.BridgeCallBuffered(core.BridgeCallBufferedArgs{BufferID: id, Owner: owner, Sender: sender, Payer: payer, GasLimit: req.GasLimit})
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, msg)
}

// BridgeSolWithBufferedCall handles POST /api/bridge_sol_with_buffered_call.
func (e *Env) BridgeSolWithBufferedCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		bufferedCallRequest
		To          string `json:"to"`
		RemoteToken string `json:"remote_token"`
		Amount      uint64 `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id, owner, sender, payer, err := req.parse()
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	to, err := core.ParseEvmAddress(req.To)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	remoteToken, err := core.ParseEvmAddress(req.RemoteToken)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	msg, err := e.Deps.BridgeSolWithBufferedCall(core.BridgeSolWithBufferedCallArgs{
		BufferID: id, Owner: owner, Sender: sender, Payer: payer, GasLimit: req.GasLimit,
		To: to, RemoteToken: remoteToken, Amount: req.Amount,
	})
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, msg)
}

// BridgeSplWithBufferedCall handles POST /api/bridge_spl_with_buffered_call.
func (e *Env) BridgeSplWithBufferedCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		bufferedCallRequest
		Mint        string `json:"mint"`
		To          string `json:"to"`
		RemoteToken string `json:"remote_token"`
		Amount      uint64 `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id, owner, sender, payer, err := req.parse()
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	mint, err := core.ParseAddress(req.Mint)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	to, err := core.ParseEvmAddress(req.To)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	remoteToken, err := core.ParseEvmAddress(req.RemoteToken)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	msg, err := e.Deps.BridgeSplWithBufferedCall(core.BridgeSplWithBufferedCallArgs{
		BufferID: id, Owner: owner, Sender: sender, Payer: payer, GasLimit: req.GasLimit,
		Mint: mint, To: to, RemoteToken: remoteToken, Amount: req.Amount,
	})
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, msg)
}

// BridgeWrappedTokenWithBufferedCall handles POST
// /api/bridge_wrapped_token_with_buffered_call.
func (e *Env) BridgeWrappedTokenWithBufferedCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		bufferedCallRequest
		Mint   string `json:"mint"`
		To     string `json:"to"`
		Amount uint64 `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id, owner, sender, payer, err := req.parse()
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	mint, err := core.ParseAddress(req.Mint)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	to, err := core.ParseEvmAddress(req.To)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	msg, err := e.Deps.BridgeWrappedTokenWithBufferedCall(core.BridgeWrappedTokenWithBufferedCallArgs{
		BufferID: id, Owner: owner, Sender: sender, Payer: payer, GasLimit: req.GasLimit,
		Mint: mint, To: to, Amount: req.Amount,
	})
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, msg)
}

// WrapToken handles POST /api/wrap_token.
func (e *Env) WrapToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sender         string `json:"sender"`
		Payer          string `json:"payer"`
		GasLimit       uint64 `json:"gas_limit"`
		Decimals       uint8  `json:"decimals"`
		Name           string `json:"name"`
		Symbol         string `json:"symbol"`
		RemoteToken    string `json:"remote_token"`
		ScalerExponent uint8  `json:"scaler_exponent"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sender, err := core.ParseAddress(req.Sender)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	payer, err := core.ParseAddress(req.Payer)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	remoteToken, err := core.ParseEvmAddress(req.RemoteToken)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	meta := core.WrappedTokenMetadata{
		Name:           req.Name,
		Symbol:         req.Symbol,
		RemoteToken:    remoteToken,
		ScalerExponent: req.ScalerExponent,
	}
	msg, err := e.Deps.WrapTokenInstr(core.WrapTokenArgs{Sender: sender, Payer: payer, GasLimit: req.GasLimit, Decimals: req.Decimals, Metadata: meta})
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, msg)
}

// CloseOutgoingMessage handles POST /api/close_outgoing_message/{nonce}.
func (e *Env) CloseOutgoingMessage(w http.ResponseWriter, r *http.Request) {
	nonce, err := parseUintVar(mux.Vars(r)["nonce"])
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	rentRecipient, err := e.Deps.CloseOutgoingMessageInstr(nonce)
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"rent_recipient": rentRecipient.Hex()})
}

// InitializeCallBuffer handles POST /api/call_buffer.
func (e *Env) InitializeCallBuffer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          string        `json:"id"`
		Owner       string        `json:"owner"`
		Type        core.CallType `json:"type"`
		To          string        `json:"to"`
		Value       []byte        `json:"value"`
		InitialData []byte        `json:"initial_data"`
		MaxDataLen  uint64        `json:"max_data_len"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := core.ParseHash(req.ID)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	owner, err := core.ParseAddress(req.Owner)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	to, err := core.ParseEvmAddress(req.To)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	buf, err := e.Deps.InitializeCallBufferInstr(core.InitializeCallBufferArgs{
		ID: id, Owner: owner, Type: req.Type, To: to, Value: req.Value, InitialData: req.InitialData, MaxDataLen: req.MaxDataLen,
	})
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, buf)
}

// AppendToCallBuffer handles POST /api/call_buffer/{id}/append.
func (e *Env) AppendToCallBuffer(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseHash(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	var req struct {
		Caller string `json:"caller"`
		Chunk  []byte `json:"chunk"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	caller, err := core.ParseAddress(req.Caller)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if err := e.Deps.AppendToCallBufferInstr(id, caller, req.Chunk); err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CloseCallBuffer handles POST /api/call_buffer/{id}/close.
func (e *Env) CloseCallBuffer(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseHash(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	var req struct {
		Caller string `json:"caller"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	caller, err := core.ParseAddress(req.Caller)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if err := e.Deps.CloseCallBufferInstr(id, caller); err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterOutputRoot handles POST /api/register_output_root.
func (e *Env) RegisterOutputRoot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller      string   `json:"caller"`
		OutputRoot  string   `json:"output_root"`
		BlockNumber uint64   `json:"block_number"`
		Signatures  []string `json:"signatures"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	caller, err := core.ParseAddress(req.Caller)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	root, err := core.ParseHash(req.OutputRoot)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	sigs, err := parseSignatures(req.Signatures)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if err := e.Deps.RegisterOutputRootInstr(core.RegisterOutputRootArgs{
		Caller: caller, OutputRoot: root, BlockNumber: req.BlockNumber, Signatures: sigs,
	}); err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProveMessage handles POST /api/prove_message. Type selects the
// Call/Transfer/TransferAndCall discrimination that, folded into the
// proven message hash, later gates what relay_message's finalize argument
// is allowed to do.
func (e *Env) ProveMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nonce          uint64           `json:"nonce"`
		Sender         string           `json:"sender"`
		Type           core.MessageType `json:"type"`
		Data           []byte           `json:"data"`
		BlockNumber    uint64           `json:"block_number"`
		TotalLeafCount uint64           `json:"total_leaf_count"`
		Proof          []struct {
			Hash string `json:"hash"`
			Side bool   `json:"side"`
		} `json:"proof"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sender, err := core.ParseEvmAddress(req.Sender)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	proof := make([]core.ProofStep, len(req.Proof))
	for i, p := range req.Proof {
		h, err := core.ParseHash(p.Hash)
		if err != nil {
			writeErr(w, err, http.StatusBadRequest)
			return
		}
		proof[i] = core.ProofStep{Hash: h, Side: p.Side}
	}
	hash, err := e.Deps.ProveMessageInstr(core.ProveMessageArgs{
		Nonce: req.Nonce, Sender: sender, Type: req.Type, Data: req.Data, BlockNumber: req.BlockNumber, Proof: proof, TotalLeafCount: req.TotalLeafCount,
	})
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message_hash": hash.Hex()})
}

// RelayMessage handles POST /api/relay_message. FinalizeKind names which
// C8 finalizer to build (sol, spl, wrapped) for a Transfer-bearing message;
// it is left empty for a pure Call message. Mint is required only for the
// spl/wrapped kinds. The proven record's Type — not FinalizeKind's mere
// presence — decides whether a finalizer is required or forbidden.
func (e *Env) RelayMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageHash  string   `json:"message_hash"`
		Instructions [][]byte `json:"instructions"`
		FinalizeKind string   `json:"finalize_kind"`
		Mint         string   `json:"mint"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	hash, err := core.ParseHash(req.MessageHash)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}

	rec, err := core.LoadIncomingMessage(e.Deps.Store, hash)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}

	var mint core.Address
	if req.Mint != "" {
		mint, err = core.ParseAddress(req.Mint)
		if err != nil {
			writeErr(w, err, http.StatusBadRequest)
			return
		}
	}

	finalize, err := e.Deps.BuildFinalizer(rec, req.FinalizeKind, mint)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}

	if err := e.Deps.RelayMessageInstr(core.RelayMessageArgs{MessageHash: hash, Instructions: req.Instructions, Finalize: finalize}); err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AcknowledgeBaseNonce handles POST /api/acknowledge_base_nonce.
func (e *Env) AcknowledgeBaseNonce(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		Nonce  uint64 `json:"nonce"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	caller, err := core.ParseAddress(req.Caller)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if err := e.Deps.AcknowledgeBaseNonceInstr(caller, req.Nonce); err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetOracleSigners handles POST /api/oracle_signers.
func (e *Env) SetOracleSigners(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller    string   `json:"caller"`
		Threshold uint8    `json:"threshold"`
		Signers   []string `json:"signers"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	caller, err := core.ParseAddress(req.Caller)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	signers := make([]core.EvmAddress, len(req.Signers))
	for i, s := range req.Signers {
		addr, err := core.ParseEvmAddress(s)
		if err != nil {
			writeErr(w, err, http.StatusBadRequest)
			return
		}
		signers[i] = addr
	}
	if err := e.Deps.SetOracleSignersInstr(core.SetOracleSignersArgs{Caller: caller, Threshold: req.Threshold, Signers: signers}); err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TransferGuardian handles POST /api/guardian.
func (e *Env) TransferGuardian(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller      string `json:"caller"`
		NewGuardian string `json:"new_guardian"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	caller, err := core.ParseAddress(req.Caller)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	newGuardian, err := core.ParseAddress(req.NewGuardian)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if err := e.Deps.TransferGuardianInstr(caller, newGuardian); err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPauseStatus handles POST /api/pause.
func (e *Env) SetPauseStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		Paused bool   `json:"paused"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	caller, err := core.ParseAddress(req.Caller)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if err := e.Deps.SetPauseStatusInstr(caller, req.Paused); err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBridge handles GET /api/bridge.
func (e *Env) GetBridge(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, e.Deps.Bridge)
}

func parseSignatures(in []string) ([]core.Signature65, error) {
	out := make([]core.Signature65, len(in))
	for i, s := range in {
		sig, err := parseSignature65(s)
		if err != nil {
			return nil, err
		}
		out[i] = sig
	}
	return out, nil
}

func parseSignature65(s string) (core.Signature65, error) {
	var sig core.Signature65
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return sig, err
	}
	if len(b) != len(sig) {
		return sig, core.ErrInvalidSignature
	}
	copy(sig[:], b)
	return sig, nil
}

func parseUintVar(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
