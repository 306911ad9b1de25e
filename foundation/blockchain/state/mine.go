package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/pow"
)

// RewardSender is the sender recorded on the mining reward transaction.
const RewardSender = "0"

// MineNewBlock solves the puzzle for the current tip and seals the pool into
// a new block along with the mining reward. If the chain moves while the
// puzzle is being solved, the work is redone against the new tip. Mining can
// be cancelled through the context.
func (s *State) MineNewBlock(ctx context.Context) (ledger.Block, error) {
	for {
		tip, err := s.ledger.MostRecentBlock()
		if err != nil {
			return ledger.Block{}, err
		}

		s.evHandler("state: MineNewBlock: MINING: perform POW: prev-solution[%d]", tip.PuzzleSolution)

		solution, err := pow.Solve(ctx, tip.PuzzleSolution, s.valid)
		if err != nil {
			return ledger.Block{}, err
		}

		reward := ledger.Transaction{
			Sender:    RewardSender,
			Recipient: s.nodeID,
			Payload:   s.genesis.MiningReward,
		}

		block, err := s.ledger.SealBlockOn(tip.Digest(), solution, reward)
		if err != nil {
			if errors.Is(err, ledger.ErrTipMoved) {
				s.evHandler("state: MineNewBlock: MINING: tip moved: redo POW")
				continue
			}
			return ledger.Block{}, err
		}

		s.metrics.AddBlocksMined()
		s.evHandler("viewer: state: MineNewBlock: MINING: block[%d]: solution[%d]: txs[%d]", block.Index, block.PuzzleSolution, len(block.Transactions))

		return block, nil
	}
}

// HasPendingTransactions reports whether the pool has anything to mine.
func (s *State) HasPendingTransactions() bool {
	return len(s.ledger.Pool()) > 0
}
