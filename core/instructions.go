package core

import "math/big"

// Deps bundles the collaborators every instruction handler needs: the
// persisted bridge singleton, its store, a lamport ledger for gas charges,
// a token ledger for custody operations, and a downstream invoker for
// relay. Handlers in this file are the §6 instruction-surface contracts;
// cmd/relayerapi wires them to HTTP routes.
type Deps struct {
	Store         KVStore
	Bridge        *Bridge
	Signers       *OracleSigners
	Ledger        LamportLedger
	Tokens        TokenLedger
	Invoker       DownstreamInvoker
	TrustedOracle Address
	Now           func() uint64
}

func (d *Deps) now() uint64 {
	if d.Now != nil {
		return d.Now()
	}
	return 0
}

// BridgeCallArgs carries bridge_call's instruction arguments.
type BridgeCallArgs struct {
	Sender   Address
	Payer    Address
	GasLimit uint64
	Call     Call
}

// BridgeCall is the pause-gated bridge_call(gas_limit, Call) instruction.
func (d *Deps) BridgeCall(args BridgeCallArgs) (*OutgoingMessage, error) {
	payload := OutboundPayload{Call: &args.Call}
	return Send(d.Store, d.Ledger, d.Bridge, args.Sender, args.Payer, args.GasLimit, payload, nil, d.now())
}

// BridgeSolArgs carries bridge_sol's instruction arguments.
type BridgeSolArgs struct {
	Sender      Address
	Payer       Address
	GasLimit    uint64
	To          EvmAddress
	RemoteToken EvmAddress
	Amount      uint64
	Call        *Call
}

// BridgeSol is the pause-gated bridge_sol(gas_limit, to, remote_token,
// amount, Option<Call>) instruction, locking lamports into the SOL vault.
func (d *Deps) BridgeSol(args BridgeSolArgs) (*OutgoingMessage, error) {
	var toBytes32 [32]byte
	copy(toBytes32[20:], args.To[:])
	transfer := &Transfer{
		LocalToken:   EvmAddress{},
		RemoteToken:  bytes32FromEvm(args.RemoteToken),
		To:           toBytes32,
		RemoteAmount: amountBig(args.Amount),
	}
	payload := OutboundPayload{Transfer: transfer, Call: args.Call}

	custody := func() (uint64, error) {
		if err := LockSol(d.Ledger, args.Sender, args.RemoteToken, args.Amount); err != nil {
			return 0, err
		}
		return args.Amount, nil
	}

	return Send(d.Store, d.Ledger, d.Bridge, args.Sender, args.Payer, args.GasLimit, payload, custody, d.now())
}

// BridgeSplArgs carries bridge_spl's instruction arguments.
type BridgeSplArgs struct {
	Sender      Address
	Payer       Address
	GasLimit    uint64
	Mint        Address
	To          EvmAddress
	RemoteToken EvmAddress
	Amount      uint64
	Call        *Call
}

// BridgeSpl is the pause-gated bridge_spl(...) instruction, locking SPL
// tokens into the (mint, remote_token) vault. The amount recorded in the
// outbound message is the vault's actual balance delta, which may be less
// than Amount for fee-on-transfer mints.
func (d *Deps) BridgeSpl(args BridgeSplArgs) (*OutgoingMessage, error) {
	var toBytes32 [32]byte
	copy(toBytes32[20:], args.To[:])

	transfer := &Transfer{
		LocalToken:   localTokenEvm(args.Mint),
		RemoteToken:  bytes32FromEvm(args.RemoteToken),
		To:           toBytes32,
		RemoteAmount: amountBig(args.Amount),
	}
	payload := OutboundPayload{Transfer: transfer, Call: args.Call}

	// LockSpl re-reads the vault balance after transfer, so fee-on-transfer
	// mints are recorded at the amount actually received, not the amount
	// requested; the transfer pointer is mutated in place before Send
	// persists the outgoing message.
	custody := func() (uint64, error) {
		received, err := LockSpl(d.Tokens, args.Mint, args.Sender, args.RemoteToken, args.Amount)
		if err != nil {
			return 0, err
		}
		transfer.RemoteAmount = amountBig(received)
		return received, nil
	}

	return Send(d.Store, d.Ledger, d.Bridge, args.Sender, args.Payer, args.GasLimit, payload, custody, d.now())
}

// BridgeWrappedTokenArgs carries bridge_wrapped_token's arguments.
type BridgeWrappedTokenArgs struct {
	Sender   Address
	Payer    Address
	GasLimit uint64
	Mint     Address
	To       EvmAddress
	Amount   uint64
	Call     *Call
}

// BridgeWrappedToken is the pause-gated bridge_wrapped_token(...)
// instruction: burns the wrapped mint from the sender, with remote_token
// taken from the mint's embedded metadata.
func (d *Deps) BridgeWrappedToken(args BridgeWrappedTokenArgs) (*OutgoingMessage, error) {
	meta, err := LoadWrappedMint(d.Store, args.Mint)
	if err != nil {
		return nil, ErrUnknownMint
	}

	var toBytes32 [32]byte
	copy(toBytes32[20:], args.To[:])
	transfer := &Transfer{
		LocalToken:   localTokenEvm(args.Mint),
		RemoteToken:  bytes32FromEvm(meta.RemoteToken),
		To:           toBytes32,
		RemoteAmount: amountBig(args.Amount),
	}
	payload := OutboundPayload{Transfer: transfer, Call: args.Call}

	custody := func() (uint64, error) {
		if err := BurnWrapped(d.Tokens, args.Mint, args.Sender, args.Amount); err != nil {
			return 0, err
		}
		return args.Amount, nil
	}

	return Send(d.Store, d.Ledger, d.Bridge, args.Sender, args.Payer, args.GasLimit, payload, custody, d.now())
}

// bufferedCall consumes buf's assembled payload into a Call built from the
// buffer's recorded type/destination/value, per spec.md §4.10: "consume()
// atomically reads the buffer, releases its storage to owner, and proceeds
// as if the caller had passed the data inline."
func bufferedCall(store KVStore, id Hash, caller Address) (*Call, error) {
	buf, err := LoadCallBuffer(store, id)
	if err != nil {
		return nil, ErrNotFound
	}
	data, err := buf.Consume(store, caller)
	if err != nil {
		return nil, err
	}
	return &Call{Type: buf.Type, To: buf.To, Value: new(big.Int).SetBytes(buf.Value), Data: data}, nil
}

// BridgeCallBufferedArgs carries bridge_call_buffered's instruction
// arguments.
type BridgeCallBufferedArgs struct {
	BufferID Hash
	Owner    Address
	Sender   Address
	Payer    Address
	GasLimit uint64
}

// BridgeCallBuffered is the pause-gated bridge_call_buffered(gas_limit)
// instruction: the call is assembled from a previously filled CallBuffer
// instead of being supplied inline.
func (d *Deps) BridgeCallBuffered(args BridgeCallBufferedArgs) (*OutgoingMessage, error) {
	call, err := bufferedCall(d.Store, args.BufferID, args.Owner)
	if err != nil {
		return nil, err
	}
	return d.BridgeCall(BridgeCallArgs{Sender: args.Sender, Payer: args.Payer, GasLimit: args.GasLimit, Call: *call})
}

// BridgeSolWithBufferedCallArgs carries bridge_sol_with_buffered_call's
// instruction arguments.
type BridgeSolWithBufferedCallArgs struct {
	BufferID    Hash
	Owner       Address
	Sender      Address
	Payer       Address
	GasLimit    uint64
	To          EvmAddress
	RemoteToken EvmAddress
	Amount      uint64
}

// BridgeSolWithBufferedCall is bridge_sol's buffered-call variant: the
// optional Call attached to the SOL transfer comes from a consumed
// CallBuffer rather than an inline argument.
func (d *Deps) BridgeSolWithBufferedCall(args BridgeSolWithBufferedCallArgs) (*OutgoingMessage, error) {
	call, err := bufferedCall(d.Store, args.BufferID, args.Owner)
	if err != nil {
		return nil, err
	}
	return d.BridgeSol(BridgeSolArgs{
		Sender: args.Sender, Payer: args.Payer, GasLimit: args.GasLimit,
		To: args.To, RemoteToken: args.RemoteToken, Amount: args.Amount, Call: call,
	})
}

// BridgeSplWithBufferedCallArgs carries bridge_spl_with_buffered_call's
// instruction arguments.
type BridgeSplWithBufferedCallArgs struct {
	BufferID    Hash
	Owner       Address
	Sender      Address
	Payer       Address
	GasLimit    uint64
	Mint        Address
	To          EvmAddress
	RemoteToken EvmAddress
	Amount      uint64
}

// BridgeSplWithBufferedCall is bridge_spl's buffered-call variant.
func (d *Deps) BridgeSplWithBufferedCall(args BridgeSplWithBufferedCallArgs) (*OutgoingMessage, error) {
	call, err := bufferedCall(d.Store, args.BufferID, args.Owner)
	if err != nil {
		return nil, err
	}
	return d.BridgeSpl(BridgeSplArgs{
		Sender: args.Sender, Payer: args.Payer, GasLimit: args.GasLimit,
		Mint: args.Mint, To: args.To, RemoteToken: args.RemoteToken, Amount: args.Amount, Call: call,
	})
}

// BridgeWrappedTokenWithBufferedCallArgs carries
// bridge_wrapped_token_with_buffered_call's instruction arguments.
type BridgeWrappedTokenWithBufferedCallArgs struct {
	BufferID Hash
	Owner    Address
	Sender   Address
	Payer    Address
	GasLimit uint64
	Mint     Address
	To       EvmAddress
	Amount   uint64
}

// BridgeWrappedTokenWithBufferedCall is bridge_wrapped_token's
// buffered-call variant.
func (d *Deps) BridgeWrappedTokenWithBufferedCall(args BridgeWrappedTokenWithBufferedCallArgs) (*OutgoingMessage, error) {
	call, err := bufferedCall(d.Store, args.BufferID, args.Owner)
	if err != nil {
		return nil, err
	}
	return d.BridgeWrappedToken(BridgeWrappedTokenArgs{
		Sender: args.Sender, Payer: args.Payer, GasLimit: args.GasLimit,
		Mint: args.Mint, To: args.To, Amount: args.Amount, Call: call,
	})
}

func bytes32FromEvm(a EvmAddress) [32]byte {
	var out [32]byte
	copy(out[12:], a[:])
	return out
}

func localTokenEvm(mint Address) EvmAddress {
	var out EvmAddress
	copy(out[:], mint[12:])
	return out
}

func amountBig(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

// WrapTokenArgs carries wrap_token's instruction arguments.
type WrapTokenArgs struct {
	Sender   Address
	Payer    Address
	GasLimit uint64
	Decimals uint8
	Metadata WrappedTokenMetadata
}

// WrapTokenInstr is the pause-gated wrap_token(decimals,
// PartialTokenMetadata, gas_limit) instruction: creates the wrapped mint
// and posts an outbound register_remote_token call carrying its metadata.
func (d *Deps) WrapTokenInstr(args WrapTokenArgs) (*OutgoingMessage, error) {
	if err := d.Bridge.RequireNotPaused(); err != nil {
		return nil, err
	}
	args.Metadata.Decimals = args.Decimals
	_, registerPayload, err := WrapToken(d.Store, args.Metadata)
	if err != nil {
		return nil, err
	}

	call := &Call{Type: CallTypeCall, To: args.Metadata.RemoteToken, Value: big.NewInt(0), Data: registerPayload}
	payload := OutboundPayload{Call: call}
	return Send(d.Store, d.Ledger, d.Bridge, args.Sender, args.Payer, args.GasLimit, payload, nil, d.now())
}

// RegisterOutputRootArgs carries register_output_root's arguments.
type RegisterOutputRootArgs struct {
	Caller      Address
	OutputRoot  Hash
	BlockNumber uint64
	Signatures  []Signature65
}

// RegisterOutputRootInstr is the oracle-restricted, non-pause-gated
// register_output_root instruction.
func (d *Deps) RegisterOutputRootInstr(args RegisterOutputRootArgs) error {
	return RegisterOutputRoot(d.Store, d.Bridge, d.Signers, args.Caller, d.TrustedOracle, args.OutputRoot, args.BlockNumber, args.Signatures)
}

// ProveMessageArgs carries prove_message's arguments.
type ProveMessageArgs struct {
	Nonce          uint64
	Sender         EvmAddress
	Type           MessageType
	Data           []byte
	BlockNumber    uint64
	Proof          []ProofStep
	TotalLeafCount uint64
}

// ProveMessageInstr is the non-pause-gated prove_message instruction.
func (d *Deps) ProveMessageInstr(args ProveMessageArgs) (Hash, error) {
	return ProveMessage(d.Store, args.Nonce, args.Sender, args.Type, args.Data, args.BlockNumber, args.Proof, args.TotalLeafCount)
}

// RelayMessageArgs carries relay_message's arguments.
type RelayMessageArgs struct {
	MessageHash  Hash
	Instructions [][]byte
	Finalize     func() error
}

// RelayMessageInstr is the non-pause-gated relay_message instruction.
func (d *Deps) RelayMessageInstr(args RelayMessageArgs) error {
	return RelayMessage(d.Store, args.MessageHash, d.Invoker, args.Instructions, args.Finalize)
}

func evmFromBytes32(b [32]byte) EvmAddress {
	var out EvmAddress
	copy(out[:], b[12:])
	return out
}

// BuildFinalizer constructs the C8 finalizer for a proven message, deriving
// which custody path to release from rec.Type rather than trusting the
// caller: a Call-only record yields a nil finalizer (RelayMessage rejects a
// non-nil one for it), and a Transfer/TransferAndCall record requires kind
// to name the matching vault. kind selects among the finalizers spec.md
// §4.8 lists (sol, spl, wrapped) since rec.Message alone cannot recover a
// truncated 32-byte SPL mint from Transfer.LocalToken's 20-byte EvmAddress
// form; mint is required only for the spl/wrapped kinds.
func (d *Deps) BuildFinalizer(rec *IncomingMessage, kind string, mint Address) (func() error, error) {
	if rec.Type != MessageTypeTransfer && rec.Type != MessageTypeTransferAndCall {
		return nil, nil
	}

	var transfer Transfer
	if rec.Type == MessageTypeTransfer {
		t, err := DecodeTransfer(rec.Message)
		if err != nil {
			return nil, err
		}
		transfer = t
	} else {
		t, _, err := DecodeTransferAndCall(rec.Message)
		if err != nil {
			return nil, err
		}
		transfer = t
	}

	to := Address(transfer.To)
	remoteToken := evmFromBytes32(transfer.RemoteToken)
	amount := transfer.RemoteAmount.Uint64()

	switch kind {
	case "sol":
		return func() error { return FinalizeSol(d.Ledger, remoteToken, to, amount) }, nil
	case "spl":
		return func() error { return FinalizeSpl(d.Tokens, mint, remoteToken, to, amount) }, nil
	case "wrapped":
		return func() error { return FinalizeWrapped(d.Tokens, mint, to, amount) }, nil
	default:
		return nil, ErrUnknownFinalizeKind
	}
}

// AcknowledgeBaseNonceInstr is the oracle-restricted
// acknowledge_base_nonce(nonce) instruction: records the latest outgoing
// nonce Base has relayed, which close_outgoing_message gates on.
func (d *Deps) AcknowledgeBaseNonceInstr(caller Address, nonce uint64) error {
	if caller != d.TrustedOracle {
		return ErrUnauthorized
	}
	return d.Bridge.AcknowledgeBaseNonceChecked(nonce)
}

// CloseOutgoingMessageInstr is the close_outgoing_message instruction.
func (d *Deps) CloseOutgoingMessageInstr(nonce uint64) (Address, error) {
	return CloseOutgoingMessage(d.Store, d.Bridge, nonce)
}

// SetOracleSignersArgs carries set_oracle_signers' arguments.
type SetOracleSignersArgs struct {
	Caller    Address
	Threshold uint8
	Signers   []EvmAddress
}

// SetOracleSignersInstr is the guardian-only set_oracle_signers instruction.
func (d *Deps) SetOracleSignersInstr(args SetOracleSignersArgs) error {
	if err := d.Bridge.RequireGuardian(args.Caller); err != nil {
		return err
	}
	signers, err := SetOracleSigners(args.Threshold, args.Signers)
	if err != nil {
		return err
	}
	d.Signers = signers
	return nil
}

// TransferGuardianInstr is the guardian-only transfer_guardian instruction.
func (d *Deps) TransferGuardianInstr(caller, newGuardian Address) error {
	return d.Bridge.TransferGuardian(caller, newGuardian)
}

// SetPauseStatusInstr is the guardian-only set_pause_status instruction.
func (d *Deps) SetPauseStatusInstr(caller Address, paused bool) error {
	return d.Bridge.SetPauseStatus(caller, paused)
}

// InitializeCallBufferArgs carries initialize_call_buffer's arguments.
type InitializeCallBufferArgs struct {
	ID          Hash
	Owner       Address
	Type        CallType
	To          EvmAddress
	Value       []byte
	InitialData []byte
	MaxDataLen  uint64
}

// InitializeCallBufferInstr allocates a new call buffer, bounded by
// limits_config.max_call_buffer_size.
func (d *Deps) InitializeCallBufferInstr(args InitializeCallBufferArgs) (*CallBuffer, error) {
	if args.MaxDataLen > d.Bridge.LimitsConfig.MaxCallBufferSize {
		return nil, ErrCallBufferOverflow
	}
	return CreateCallBuffer(d.Store, args.ID, args.Owner, args.Type, args.To, args.Value, args.InitialData, args.MaxDataLen)
}

// AppendToCallBufferInstr appends chunk to an existing call buffer.
func (d *Deps) AppendToCallBufferInstr(id Hash, caller Address, chunk []byte) error {
	buf, err := LoadCallBuffer(d.Store, id)
	if err != nil {
		return ErrNotFound
	}
	return buf.Append(d.Store, caller, chunk)
}

// CloseCallBufferInstr closes an existing call buffer without consuming it.
func (d *Deps) CloseCallBufferInstr(id Hash, caller Address) error {
	buf, err := LoadCallBuffer(d.Store, id)
	if err != nil {
		return ErrNotFound
	}
	return buf.Close(d.Store, caller)
}
