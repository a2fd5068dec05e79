package core

import (
	"math/bits"

	"github.com/ethereum/go-ethereum/crypto"
)

// ProofStep is one node in an MMR inclusion proof. Side indicates whether
// the sibling hash is concatenated on the left (false) or right (true) of
// the running hash at this step.
type ProofStep struct {
	Hash Hash
	Side bool
}

// nodeHash is the canonical MMR node-hash function: keccak256 of the two
// 32-byte children concatenated left-then-right.
func nodeHash(left, right Hash) Hash {
	sum := crypto.Keccak256(left[:], right[:])
	var out Hash
	copy(out[:], sum)
	return out
}

// VerifyInclusion folds proof against leaf using the canonical node-hash
// function and compares the result against root. totalLeafCount, if
// nonzero, bounds the accepted proof depth to ceil(log2(totalLeafCount));
// a zero totalLeafCount skips the depth check.
func VerifyInclusion(root, leaf Hash, proof []ProofStep, totalLeafCount uint64) error {
	if totalLeafCount > 0 {
		maxDepth := bits.Len64(totalLeafCount - 1)
		if len(proof) > maxDepth {
			return ErrInvalidMerkleProof
		}
	}
	cur := leaf
	for _, step := range proof {
		if step.Side {
			cur = nodeHash(cur, step.Hash)
		} else {
			cur = nodeHash(step.Hash, cur)
		}
	}
	if cur != root {
		return ErrInvalidMerkleProof
	}
	return nil
}
