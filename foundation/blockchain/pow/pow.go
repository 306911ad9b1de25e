// Package pow implements the proof of work puzzle. A solution for a block is
// a number that, written after the previous block's solution, hashes to a
// value with a required number of leading zeros.
package pow

import (
	"context"
	"strconv"
	"strings"

	"github.com/ardanlabs/powchain/foundation/blockchain/hasher"
)

// DefaultDifficulty is the number of leading hex zeros required when no
// other difficulty is configured.
const DefaultDifficulty = 4

// checkInterval is how many candidates are tried between checks for
// cancellation.
const checkInterval = 1 << 14

// Predicate reports whether candidate solves the puzzle posed by the
// previous solution. Predicates must be pure so any node can re-verify a
// solution independently of who mined it.
type Predicate func(previous uint64, candidate uint64) bool

// LeadingZeros constructs a predicate that requires the digest of the
// concatenated decimal values to start with difficulty '0' characters.
func LeadingZeros(difficulty uint) Predicate {
	prefix := strings.Repeat("0", int(difficulty))

	return func(previous uint64, candidate uint64) bool {
		guess := make([]byte, 0, 40)
		guess = strconv.AppendUint(guess, previous, 10)
		guess = strconv.AppendUint(guess, candidate, 10)

		return strings.HasPrefix(hasher.Sum(guess), prefix)
	}
}

// standard is the predicate for the default difficulty.
var standard = LeadingZeros(DefaultDifficulty)

// IsValidSolution checks a candidate against the previous solution using the
// default difficulty.
func IsValidSolution(previous uint64, candidate uint64) bool {
	return standard(previous, candidate)
}

// =============================================================================

// Solve returns the smallest non-negative number that satisfies the
// predicate for the previous solution. The search has no upper bound on
// time, so the context is the only way to stop it early.
func Solve(ctx context.Context, previous uint64, valid Predicate) (uint64, error) {
	if valid == nil {
		valid = standard
	}

	var candidate uint64
	for {
		if candidate%checkInterval == 0 && ctx.Err() != nil {
			return 0, ctx.Err()
		}

		if valid(previous, candidate) {
			return candidate, nil
		}

		candidate++
	}
}
