package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
)

// SubmitTransaction adds a transaction to the pool and returns the index of
// the block that will hold it.
func (s *State) SubmitTransaction(tx ledger.Transaction) uint64 {
	index := s.ledger.AppendTransaction(tx)

	s.evHandler("viewer: state: SubmitTransaction: tx[%s]: block[%d]", tx, index)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return index
}
