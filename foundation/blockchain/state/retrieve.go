package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveNodeID returns the identifier rewards are paid to.
func (s *State) RetrieveNodeID() string {
	return s.nodeID
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() (ledger.Block, error) {
	return s.ledger.MostRecentBlock()
}

// RetrieveChain returns a copy of the full chain.
func (s *State) RetrieveChain() []ledger.Block {
	return s.ledger.Chain()
}

// RetrievePool returns a copy of the transactions waiting to be mined.
func (s *State) RetrievePool() []ledger.Transaction {
	return s.ledger.Pool()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// RetrieveStatus returns the status of this node as reported to peers.
func (s *State) RetrieveStatus() (peer.PeerStatus, error) {
	chain := s.ledger.Chain()
	if len(chain) == 0 {
		return peer.PeerStatus{}, ledger.ErrEmptyLedger
	}

	tip := chain[len(chain)-1]

	ps := peer.PeerStatus{
		LatestBlockDigest: tip.Digest(),
		LatestBlockIndex:  tip.Index,
		Length:            len(chain),
		KnownPeers:        s.RetrieveKnownPeers(),
	}

	return ps, nil
}

// IsChainValid checks the local chain with the configured difficulty.
func (s *State) IsChainValid() error {
	return ledger.ValidateChain(s.ledger.Chain(), s.valid)
}
