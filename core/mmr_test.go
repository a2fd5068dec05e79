package core

import "testing"

func TestVerifyInclusionTwoStepProof(t *testing.T) {
	leaf := IncomingMessageHash(1, EvmAddress{0xAA}, MessageTypeCall, []byte("data"))
	n1 := Hash{0x01}
	n2 := Hash{0x02}

	step1 := nodeHash(leaf, n1)
	root := nodeHash(step1, n2)

	proof := []ProofStep{{Hash: n1, Side: true}, {Hash: n2, Side: true}}

	if err := VerifyInclusion(root, leaf, proof, 0); err != nil {
		t.Fatalf("VerifyInclusion: %v", err)
	}
}

func TestVerifyInclusionRejectsWrongRoot(t *testing.T) {
	leaf := IncomingMessageHash(1, EvmAddress{0xAA}, MessageTypeCall, []byte("data"))
	n1 := Hash{0x01}
	proof := []ProofStep{{Hash: n1, Side: true}}

	var wrongRoot Hash
	wrongRoot[0] = 0xFF

	if err := VerifyInclusion(wrongRoot, leaf, proof, 0); err == nil {
		t.Fatal("expected error for mismatched root")
	}
}

func TestVerifyInclusionRejectsOverDeepProof(t *testing.T) {
	leaf := Hash{0x01}
	proof := make([]ProofStep, 10)
	if err := VerifyInclusion(Hash{}, leaf, proof, 4); err == nil {
		t.Fatal("expected error for proof exceeding bound for 4 leaves")
	}
}
