package ledger

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/pow"
)

// InvalidChainError is returned when a chain fails validation. Position is
// the offset of the offending block in the chain.
type InvalidChainError struct {
	Position int
	Reason   string
}

// Error implements the error interface.
func (e *InvalidChainError) Error() string {
	return fmt.Sprintf("invalid chain at position %d: %s", e.Position, e.Reason)
}

// IsInvalidChain checks if an error of type InvalidChainError exists.
func IsInvalidChain(err error) bool {
	var ice *InvalidChainError
	return errors.As(err, &ice)
}

// =============================================================================

// ValidateChain walks the entire chain and checks that every block links to
// the digest of the block before it, carries the next index, and holds a
// solution that solves the puzzle posed by the previous solution. A nil
// predicate means the default difficulty.
func ValidateChain(blocks []Block, valid pow.Predicate) error {
	if valid == nil {
		valid = pow.IsValidSolution
	}

	if len(blocks) == 0 {
		return &InvalidChainError{Position: 0, Reason: "chain is empty"}
	}

	if first := blocks[0]; !first.PreviousDigest.IsGenesis() || first.Index != 1 {
		return &InvalidChainError{Position: 0, Reason: "first block is not a genesis block"}
	}

	for i, b := range blocks {
		if b.Digest() == "" {
			return &InvalidChainError{Position: i, Reason: "block cannot be hashed"}
		}
	}

	for i := 1; i < len(blocks); i++ {
		prev, cur := blocks[i-1], blocks[i]

		if cur.PreviousDigest.IsGenesis() {
			return &InvalidChainError{Position: i, Reason: "genesis link after the first block"}
		}

		if !cur.PreviousDigest.Follows(prev) {
			return &InvalidChainError{Position: i, Reason: fmt.Sprintf("previous digest %s does not match %s", cur.PreviousDigest, prev.Digest())}
		}

		if cur.Index != prev.Index+1 {
			return &InvalidChainError{Position: i, Reason: fmt.Sprintf("index %d does not follow %d", cur.Index, prev.Index)}
		}

		if !valid(prev.PuzzleSolution, cur.PuzzleSolution) {
			return &InvalidChainError{Position: i, Reason: fmt.Sprintf("solution %d does not solve the puzzle for %d", cur.PuzzleSolution, prev.PuzzleSolution)}
		}
	}

	return nil
}

// IsChainValid is the boolean form of ValidateChain.
func IsChainValid(blocks []Block, valid pow.Predicate) bool {
	return ValidateChain(blocks, valid) == nil
}
