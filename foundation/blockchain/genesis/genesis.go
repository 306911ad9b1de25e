// Package genesis maintains access to the genesis parameters every node of a
// network has to agree on.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/pow"
)

// Defaults used when no genesis file is provided.
const (
	DefaultSolution     = 100
	DefaultMiningReward = "1"
)

// defaultDate is the fixed creation time of the genesis block so nodes
// started independently produce the same first block.
var defaultDate = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time `json:"date"`
	Solution     uint64    `json:"solution"`      // Puzzle solution recorded in the genesis block.
	Difficulty   uint      `json:"difficulty"`    // Number of leading hex zeros a solution needs.
	MiningReward string    `json:"mining_reward"` // Payload of the reward transaction for a mined block.
}

// Default returns the genesis used when no file is configured.
func Default() Genesis {
	return Genesis{
		Date:         defaultDate,
		Solution:     DefaultSolution,
		Difficulty:   pow.DefaultDifficulty,
		MiningReward: DefaultMiningReward,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. An empty path returns the
// default genesis. Fields missing from the file keep their default values.
func Load(path string) (Genesis, error) {
	genesis := Default()
	if path == "" {
		return genesis, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("reading genesis file: %w", err)
	}

	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis file: %w", err)
	}

	if genesis.Difficulty == 0 || genesis.Difficulty > 64 {
		return Genesis{}, fmt.Errorf("difficulty %d out of range [1, 64]", genesis.Difficulty)
	}

	return genesis, nil
}

// Predicate returns the puzzle predicate for the genesis difficulty.
func (g Genesis) Predicate() pow.Predicate {
	return pow.LeadingZeros(g.Difficulty)
}
