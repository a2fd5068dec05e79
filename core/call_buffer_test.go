package core

import "testing"

func TestCallBufferAppendConsume(t *testing.T) {
	store := NewInMemoryStore()
	owner := Address{0x01}
	id := Hash{0x01}

	buf, err := CreateCallBuffer(store, id, owner, CallTypeCall, EvmAddress{0x02}, nil, []byte("abc"), 64)
	if err != nil {
		t.Fatalf("CreateCallBuffer: %v", err)
	}

	if err := buf.Append(store, owner, []byte("def")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	notOwner := Address{0x02}
	if err := buf.Append(store, notOwner, []byte("x")); err != ErrUnauthorized {
		t.Fatalf("non-owner append: got %v, want ErrUnauthorized", err)
	}

	data, err := buf.Consume(store, owner)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if string(data) != "abcdef" {
		t.Fatalf("consumed data = %q, want %q", data, "abcdef")
	}

	if _, err := buf.Consume(store, owner); err != ErrCallBufferClosed {
		t.Fatalf("double consume: got %v, want ErrCallBufferClosed", err)
	}

	if _, err := LoadCallBuffer(store, id); err == nil {
		t.Fatal("expected buffer storage to be reclaimed after consume")
	}
}

func TestCallBufferRejectsOverflow(t *testing.T) {
	store := NewInMemoryStore()
	owner := Address{0x01}
	id := Hash{0x02}

	buf, err := CreateCallBuffer(store, id, owner, CallTypeCall, EvmAddress{}, nil, nil, 4)
	if err != nil {
		t.Fatalf("CreateCallBuffer: %v", err)
	}
	if err := buf.Append(store, owner, []byte("toolong")); err != ErrCallBufferOverflow {
		t.Fatalf("got %v, want ErrCallBufferOverflow", err)
	}
}

func TestCallBufferCloseWithoutConsume(t *testing.T) {
	store := NewInMemoryStore()
	owner := Address{0x01}
	id := Hash{0x03}

	buf, err := CreateCallBuffer(store, id, owner, CallTypeCall, EvmAddress{}, nil, []byte("x"), 16)
	if err != nil {
		t.Fatalf("CreateCallBuffer: %v", err)
	}
	if err := buf.Close(store, owner); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := buf.Close(store, owner); err != ErrCallBufferClosed {
		t.Fatalf("double close: got %v, want ErrCallBufferClosed", err)
	}
}
