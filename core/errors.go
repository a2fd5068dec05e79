package core

import "errors"

// Sentinel errors returned by bridge operations. Callers should compare
// with errors.Is; wrapped errors carry additional context via fmt.Errorf's
// %w verb.
var (
	ErrInvalidAddressLength = errors.New("core: invalid address length")
	ErrNotFound             = errors.New("core: record not found")
	ErrAlreadyExists        = errors.New("core: record already exists")
	ErrUnauthorized         = errors.New("core: caller not authorized")

	// EIP-1559 fee engine.
	ErrGasOverflow      = errors.New("core: gas usage overflow")
	ErrInvalidFeeConfig = errors.New("core: invalid eip-1559 fee configuration")

	// Oracle / signature verification.
	ErrThresholdNotMet     = errors.New("core: signature threshold not met")
	ErrDuplicateSigner     = errors.New("core: duplicate signer in signature set")
	ErrInvalidSignature    = errors.New("core: signature does not recover to claimed signer")
	ErrSignerSetTooLarge   = errors.New("core: signer set exceeds maximum size")
	ErrThresholdOutOfRange = errors.New("core: threshold out of range for signer set")

	// MMR / output root verification.
	ErrInvalidMerkleProof = errors.New("core: merkle proof does not resolve to the claimed root")
	ErrOutputRootNotFound = errors.New("core: output root not registered for block")

	// Messages.
	ErrMessageAlreadyExecuted = errors.New("core: incoming message already executed")
	ErrMessageNotProven       = errors.New("core: incoming message has not been proven")
	ErrNonceOutOfOrder        = errors.New("core: nonce out of order for outgoing message")

	// ABI codec.
	ErrAbiEncode      = errors.New("core: abi encoding failed")
	ErrAbiDecode      = errors.New("core: abi decoding failed")
	ErrPayloadTooLong = errors.New("core: payload exceeds maximum size")

	// Payload validation.
	ErrCreationWithNonZeroTarget = errors.New("core: creation-type call must target the zero address")

	// Call buffer.
	ErrCallBufferOverflow = errors.New("core: call buffer chunk exceeds declared length")
	ErrCallBufferClosed   = errors.New("core: call buffer already closed")

	// Token custody.
	ErrInsufficientVaultBalance = errors.New("core: insufficient vault balance")
	ErrUnknownMint              = errors.New("core: mint is not registered with the bridge")

	// Bridge lifecycle.
	ErrBridgePaused = errors.New("core: bridge is paused")

	// Inbound relay.
	ErrFinalizeRequired    = errors.New("core: proven message carries a transfer and requires a finalizer")
	ErrFinalizeNotExpected = errors.New("core: proven message carries no transfer; no finalizer may run")
	ErrUnknownFinalizeKind = errors.New("core: unrecognized finalize kind")

	// Gas pricer.
	ErrIncorrectGasFeeReceiver = errors.New("core: receiver does not match configured gas fee receiver")
)
