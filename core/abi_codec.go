package core

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CallType enumerates the downstream call kinds a Call may request.
type CallType uint8

const (
	CallTypeCall CallType = iota
	CallTypeDelegateCall
	CallTypeCreate
	CallTypeCreate2
)

// MessageType tags the variant encoded in an IncomingMessage's data field.
type MessageType uint8

const (
	MessageTypeCall MessageType = iota
	MessageTypeTransfer
	MessageTypeTransferAndCall
)

// Call is the ABI tuple { ty:u8, to:address, value:u256, data:bytes }.
type Call struct {
	Type  CallType
	To    EvmAddress
	Value *big.Int
	Data  []byte
}

// Transfer is the ABI tuple
// { localToken:address, remoteToken:bytes32, to:bytes32, remoteAmount:u256 }.
// Every field is static, so Transfer itself is a static ABI type.
type Transfer struct {
	LocalToken   EvmAddress
	RemoteToken  [32]byte
	To           [32]byte
	RemoteAmount *big.Int
}

// WireMessage is the per-item shape assembled into the outer
// relayMessages(IncomingMessage[], bytes) call: { nonce:u64, sender:bytes32,
// gasLimit:u64, ty:u8, data:bytes }. sender here is the 32-byte Solana
// account that originated the message, padded into bytes32.
type WireMessage struct {
	Nonce    uint64
	Sender   Address
	GasLimit uint64
	Type     MessageType
	Data     []byte
}

const word = 32

func padTo32(v []byte) []byte {
	return common.LeftPadBytes(v, word)
}

func rightPad32(v []byte) []byte {
	if len(v)%word == 0 {
		return v
	}
	return common.RightPadBytes(v, len(v)+(word-len(v)%word))
}

func encodeUint64Word(v uint64) []byte {
	return padTo32(new(big.Int).SetUint64(v).Bytes())
}

func encodeUint8Word(v uint8) []byte {
	return padTo32([]byte{v})
}

func encodeUint256Word(v *big.Int) []byte {
	if v == nil {
		v = new(big.Int)
	}
	return padTo32(v.Bytes())
}

func encodeAddressWord(a EvmAddress) []byte {
	return padTo32(a[:])
}

func encodeBytes32Word(b [32]byte) []byte {
	out := make([]byte, 32)
	copy(out, b[:])
	return out
}

// encodeDynamicBytes returns the ABI encoding of a standalone `bytes`
// value's body: a 32-byte length word followed by the value right-padded
// to a multiple of 32 bytes.
func encodeDynamicBytes(data []byte) []byte {
	out := make([]byte, 0, word+len(data)+word)
	out = append(out, encodeUint64Word(uint64(len(data)))...)
	out = append(out, rightPad32(data)...)
	return out
}

// encodeCallBody returns Call's tuple body (head+tail), without the
// standalone-value offset word Call needs when it is itself the top-level
// encoded value.
func encodeCallBody(c Call) []byte {
	head := make([]byte, 0, 4*word)
	head = append(head, encodeUint8Word(uint8(c.Type))...)
	head = append(head, encodeAddressWord(c.To)...)
	head = append(head, encodeUint256Word(c.Value)...)
	head = append(head, encodeUint64Word(uint64(len(head)+word))...) // offset to data tail
	tail := encodeDynamicBytes(c.Data)
	return append(head, tail...)
}

// EncodeCall returns the standalone ABI encoding of a Call value, i.e. as
// it appears when Call is the sole top-level value encoded (Call is a
// dynamic tuple, so a leading offset word precedes its body).
func EncodeCall(c Call) []byte {
	body := encodeCallBody(c)
	out := make([]byte, 0, word+len(body))
	out = append(out, encodeUint64Word(word)...)
	return append(out, body...)
}

// encodeTransferBody returns Transfer's tuple body: four static 32-byte
// words concatenated, since every field of Transfer is static.
func encodeTransferBody(t Transfer) []byte {
	out := make([]byte, 0, 4*word)
	out = append(out, encodeAddressWord(t.LocalToken)...)
	out = append(out, encodeBytes32Word(t.RemoteToken)...)
	out = append(out, encodeBytes32Word(t.To)...)
	out = append(out, encodeUint256Word(t.RemoteAmount)...)
	return out
}

// EncodeTransfer returns the standalone ABI encoding of a Transfer value.
// Transfer is a static tuple, so no leading offset word is emitted.
func EncodeTransfer(t Transfer) []byte {
	return encodeTransferBody(t)
}

// EncodeTransferAndCall returns the standalone ABI encoding of the
// (Transfer, Call) pair used by MessageTypeTransferAndCall. The pair is a
// dynamic tuple (Call is dynamic), so: standalone offset word, then a head
// with Transfer inlined (static) followed by an offset to Call's tail, then
// Call's body in the tail.
func EncodeTransferAndCall(t Transfer, c Call) []byte {
	transferBody := encodeTransferBody(t) // 4*word, static, inlined
	head := make([]byte, 0, len(transferBody)+word)
	head = append(head, transferBody...)
	head = append(head, encodeUint64Word(uint64(len(head)+word))...) // offset to Call tail
	callBody := encodeCallBody(c)
	body := append(head, callBody...)

	out := make([]byte, 0, word+len(body))
	out = append(out, encodeUint64Word(word)...)
	return append(out, body...)
}

// encodeWireMessageBody returns a WireMessage's tuple body (head+tail),
// without the standalone-value offset word.
func encodeWireMessageBody(m WireMessage) []byte {
	head := make([]byte, 0, 5*word)
	head = append(head, encodeUint64Word(m.Nonce)...)
	head = append(head, encodeBytes32Word(m.Sender)...)
	head = append(head, encodeUint64Word(m.GasLimit)...)
	head = append(head, encodeUint8Word(uint8(m.Type))...)
	head = append(head, encodeUint64Word(uint64(len(head)+word))...) // offset to data tail
	tail := encodeDynamicBytes(m.Data)
	return append(head, tail...)
}

// EncodeRelayMessages returns the ABI-encoded arguments
// (IncomingMessage[] messages, bytes ismData) for the outer
// relayMessages(...) call, as two top-level dynamic arguments.
func EncodeRelayMessages(messages []WireMessage, ismData []byte) []byte {
	// Head: one offset word per top-level argument (both dynamic here).
	head := make([]byte, 2*word)

	// messages: dynamic array of dynamic tuples.
	arrHead := encodeUint64Word(uint64(len(messages)))
	elemOffsets := make([]byte, 0, len(messages)*word)
	elemBodies := make([]byte, 0)
	offsetCursor := uint64(len(messages)) * word
	for _, m := range messages {
		elemOffsets = append(elemOffsets, encodeUint64Word(offsetCursor)...)
		body := encodeWireMessageBody(m)
		elemBodies = append(elemBodies, body...)
		offsetCursor += uint64(len(body))
	}
	messagesTail := append(append(arrHead, elemOffsets...), elemBodies...)

	ismTail := encodeDynamicBytes(ismData)

	out := make([]byte, 0, len(head)+len(messagesTail)+len(ismTail))
	out = append(out, head...)
	offsetToMessages := uint64(len(head))
	putUint64WordAt(out[:word], offsetToMessages) // offset to messages tail
	offsetToIsm := offsetToMessages + uint64(len(messagesTail))
	putUint64WordAt(out[word:2*word], offsetToIsm)
	out = append(out, messagesTail...)
	out = append(out, ismTail...)
	return out
}

func putUint64WordAt(dst []byte, v uint64) {
	w := encodeUint64Word(v)
	copy(dst, w)
}

// EncodedSize returns len(EncodeRelayMessages([]WireMessage{m}, nil)), the
// encoded-size oracle the gas pricer charges overhead against.
func EncodedSize(m WireMessage) int {
	return len(EncodeRelayMessages([]WireMessage{m}, nil))
}

// wordAt returns the 32-byte word at offset within buf, or ErrAbiDecode if
// it would run past the end of buf or offset itself overflows.
func wordAt(buf []byte, offset uint64) ([]byte, error) {
	end := offset + word
	if end < offset || end > uint64(len(buf)) {
		return nil, ErrAbiDecode
	}
	return buf[offset:end], nil
}

func decodeUint64Word(w []byte) (uint64, error) {
	v := new(big.Int).SetBytes(w)
	if !v.IsUint64() {
		return 0, ErrAbiDecode
	}
	return v.Uint64(), nil
}

func decodeUint8Word(w []byte) (uint8, error) {
	v, err := decodeUint64Word(w)
	if err != nil || v > 0xff {
		return 0, ErrAbiDecode
	}
	return uint8(v), nil
}

func decodeAddressWord(w []byte) EvmAddress {
	var a EvmAddress
	copy(a[:], w[word-len(a):])
	return a
}

func decodeBytes32Word(w []byte) [32]byte {
	var b [32]byte
	copy(b[:], w)
	return b
}

// decodeDynamicBytesAt reads a standalone `bytes` body (length word + right
// padded value) found at the absolute offset absOffset within buf.
func decodeDynamicBytesAt(buf []byte, absOffset uint64) ([]byte, error) {
	lenWord, err := wordAt(buf, absOffset)
	if err != nil {
		return nil, ErrAbiDecode
	}
	length, err := decodeUint64Word(lenWord)
	if err != nil {
		return nil, ErrAbiDecode
	}
	start := absOffset + word
	end := start + length
	if end < start || end > uint64(len(buf)) {
		return nil, ErrAbiDecode
	}
	out := make([]byte, length)
	copy(out, buf[start:end])
	return out, nil
}

// decodeCallAt decodes a Call tuple body located at the absolute offset
// absBase within buf, mirroring encodeCallBody in reverse.
func decodeCallAt(buf []byte, absBase uint64) (Call, error) {
	tyWord, err := wordAt(buf, absBase)
	if err != nil {
		return Call{}, ErrAbiDecode
	}
	ty, err := decodeUint8Word(tyWord)
	if err != nil {
		return Call{}, ErrAbiDecode
	}
	toWord, err := wordAt(buf, absBase+word)
	if err != nil {
		return Call{}, ErrAbiDecode
	}
	valueWord, err := wordAt(buf, absBase+2*word)
	if err != nil {
		return Call{}, ErrAbiDecode
	}
	dataOffsetWord, err := wordAt(buf, absBase+3*word)
	if err != nil {
		return Call{}, ErrAbiDecode
	}
	dataRelOffset, err := decodeUint64Word(dataOffsetWord)
	if err != nil {
		return Call{}, ErrAbiDecode
	}
	absDataOffset := absBase + dataRelOffset
	if absDataOffset < absBase {
		return Call{}, ErrAbiDecode
	}
	data, err := decodeDynamicBytesAt(buf, absDataOffset)
	if err != nil {
		return Call{}, ErrAbiDecode
	}
	return Call{
		Type:  CallType(ty),
		To:    decodeAddressWord(toWord),
		Value: new(big.Int).SetBytes(valueWord),
		Data:  data,
	}, nil
}

// DecodeCall decodes the standalone ABI encoding produced by EncodeCall,
// i.e. the leading offset word followed by Call's tuple body.
func DecodeCall(data []byte) (Call, error) {
	offsetWord, err := wordAt(data, 0)
	if err != nil {
		return Call{}, ErrAbiDecode
	}
	absBase, err := decodeUint64Word(offsetWord)
	if err != nil {
		return Call{}, ErrAbiDecode
	}
	return decodeCallAt(data, absBase)
}

// decodeTransferAt decodes a Transfer tuple's four static words located at
// the absolute offset absBase within buf.
func decodeTransferAt(buf []byte, absBase uint64) (Transfer, error) {
	localTokenWord, err := wordAt(buf, absBase)
	if err != nil {
		return Transfer{}, ErrAbiDecode
	}
	remoteTokenWord, err := wordAt(buf, absBase+word)
	if err != nil {
		return Transfer{}, ErrAbiDecode
	}
	toWord, err := wordAt(buf, absBase+2*word)
	if err != nil {
		return Transfer{}, ErrAbiDecode
	}
	amountWord, err := wordAt(buf, absBase+3*word)
	if err != nil {
		return Transfer{}, ErrAbiDecode
	}
	return Transfer{
		LocalToken:   decodeAddressWord(localTokenWord),
		RemoteToken:  decodeBytes32Word(remoteTokenWord),
		To:           decodeBytes32Word(toWord),
		RemoteAmount: new(big.Int).SetBytes(amountWord),
	}, nil
}

// DecodeTransfer decodes the standalone ABI encoding produced by
// EncodeTransfer. Transfer is static, so there is no leading offset word.
func DecodeTransfer(data []byte) (Transfer, error) {
	return decodeTransferAt(data, 0)
}

// DecodeTransferAndCall decodes the standalone ABI encoding produced by
// EncodeTransferAndCall: a leading offset word, then Transfer's static
// words inlined in the head, followed by an offset to Call's tail.
func DecodeTransferAndCall(data []byte) (Transfer, Call, error) {
	offsetWord, err := wordAt(data, 0)
	if err != nil {
		return Transfer{}, Call{}, ErrAbiDecode
	}
	absBase, err := decodeUint64Word(offsetWord)
	if err != nil {
		return Transfer{}, Call{}, ErrAbiDecode
	}
	transfer, err := decodeTransferAt(data, absBase)
	if err != nil {
		return Transfer{}, Call{}, ErrAbiDecode
	}
	callOffsetWord, err := wordAt(data, absBase+4*word)
	if err != nil {
		return Transfer{}, Call{}, ErrAbiDecode
	}
	callRelOffset, err := decodeUint64Word(callOffsetWord)
	if err != nil {
		return Transfer{}, Call{}, ErrAbiDecode
	}
	absCallOffset := absBase + callRelOffset
	if absCallOffset < absBase {
		return Transfer{}, Call{}, ErrAbiDecode
	}
	call, err := decodeCallAt(data, absCallOffset)
	if err != nil {
		return Transfer{}, Call{}, ErrAbiDecode
	}
	return transfer, call, nil
}

// decodeWireMessageAt decodes a WireMessage tuple body located at the
// absolute offset absBase within buf, mirroring encodeWireMessageBody.
func decodeWireMessageAt(buf []byte, absBase uint64) (WireMessage, error) {
	nonceWord, err := wordAt(buf, absBase)
	if err != nil {
		return WireMessage{}, ErrAbiDecode
	}
	nonce, err := decodeUint64Word(nonceWord)
	if err != nil {
		return WireMessage{}, ErrAbiDecode
	}
	senderWord, err := wordAt(buf, absBase+word)
	if err != nil {
		return WireMessage{}, ErrAbiDecode
	}
	gasLimitWord, err := wordAt(buf, absBase+2*word)
	if err != nil {
		return WireMessage{}, ErrAbiDecode
	}
	gasLimit, err := decodeUint64Word(gasLimitWord)
	if err != nil {
		return WireMessage{}, ErrAbiDecode
	}
	tyWord, err := wordAt(buf, absBase+3*word)
	if err != nil {
		return WireMessage{}, ErrAbiDecode
	}
	ty, err := decodeUint8Word(tyWord)
	if err != nil {
		return WireMessage{}, ErrAbiDecode
	}
	dataOffsetWord, err := wordAt(buf, absBase+4*word)
	if err != nil {
		return WireMessage{}, ErrAbiDecode
	}
	dataRelOffset, err := decodeUint64Word(dataOffsetWord)
	if err != nil {
		return WireMessage{}, ErrAbiDecode
	}
	absDataOffset := absBase + dataRelOffset
	if absDataOffset < absBase {
		return WireMessage{}, ErrAbiDecode
	}
	data, err := decodeDynamicBytesAt(buf, absDataOffset)
	if err != nil {
		return WireMessage{}, ErrAbiDecode
	}
	return WireMessage{
		Nonce:    nonce,
		Sender:   Address(decodeBytes32Word(senderWord)),
		GasLimit: gasLimit,
		Type:     MessageType(ty),
		Data:     data,
	}, nil
}

// DecodeRelayMessages decodes the ABI-encoded arguments produced by
// EncodeRelayMessages back into the (messages, ismData) pair. This is the
// decoder half of C4's bit-exact codec requirement: decode(encode(x)) must
// reproduce x for every canonical messages/ismData input.
func DecodeRelayMessages(data []byte) ([]WireMessage, []byte, error) {
	offsetToMessagesWord, err := wordAt(data, 0)
	if err != nil {
		return nil, nil, ErrAbiDecode
	}
	offsetToMessages, err := decodeUint64Word(offsetToMessagesWord)
	if err != nil {
		return nil, nil, ErrAbiDecode
	}
	offsetToIsmWord, err := wordAt(data, word)
	if err != nil {
		return nil, nil, ErrAbiDecode
	}
	offsetToIsm, err := decodeUint64Word(offsetToIsmWord)
	if err != nil {
		return nil, nil, ErrAbiDecode
	}

	countWord, err := wordAt(data, offsetToMessages)
	if err != nil {
		return nil, nil, ErrAbiDecode
	}
	count, err := decodeUint64Word(countWord)
	if err != nil {
		return nil, nil, ErrAbiDecode
	}
	arrayDataBase := offsetToMessages + word

	messages := make([]WireMessage, count)
	for i := uint64(0); i < count; i++ {
		elemOffsetWord, err := wordAt(data, arrayDataBase+i*word)
		if err != nil {
			return nil, nil, ErrAbiDecode
		}
		elemRelOffset, err := decodeUint64Word(elemOffsetWord)
		if err != nil {
			return nil, nil, ErrAbiDecode
		}
		absElem := arrayDataBase + elemRelOffset
		if absElem < arrayDataBase {
			return nil, nil, ErrAbiDecode
		}
		m, err := decodeWireMessageAt(data, absElem)
		if err != nil {
			return nil, nil, ErrAbiDecode
		}
		messages[i] = m
	}

	ismData, err := decodeDynamicBytesAt(data, offsetToIsm)
	if err != nil {
		return nil, nil, ErrAbiDecode
	}
	return messages, ismData, nil
}
