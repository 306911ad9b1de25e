package state

import (
	"context"

	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

// Resolve asks every known peer for its chain and adopts the longest valid
// one if it is longer than the local chain. Any mining in progress is told
// to stop after a replacement since it is working on a stale tip.
func (s *State) Resolve(ctx context.Context) bool {
	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	replaced := s.resolver.Resolve(ctx, s.ledger, s.RetrieveKnownPeers())
	if !replaced {
		return false
	}

	s.metrics.AddChainReplacements()
	s.evHandler("viewer: state: Resolve: chain replaced: length[%d]", s.ledger.Length())

	if s.Worker != nil {
		done := s.Worker.SignalCancelMining()
		done()
	}

	return true
}

// NetRequestPeerStatus asks a known peer for the state of its chain.
func (s *State) NetRequestPeerStatus(ctx context.Context, pr peer.Peer) (peer.PeerStatus, error) {
	s.evHandler("state: NetRequestPeerStatus: started: %s", pr)
	defer s.evHandler("state: NetRequestPeerStatus: completed: %s", pr)

	ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
	defer cancel()

	ps, err := s.network.FetchStatus(ctx, pr.Host)
	if err != nil {
		return peer.PeerStatus{}, err
	}

	s.evHandler("state: NetRequestPeerStatus: peer-node[%s]: length[%d]: tip[%s]", pr, ps.Length, ps.LatestBlockDigest)

	return ps, nil
}

// =============================================================================

// AddKnownPeer provides the ability to add a new peer to the known peer
// list. This node is never added to its own list.
func (s *State) AddKnownPeer(pr peer.Peer) bool {
	if pr.Match(s.host) {
		return false
	}

	added := s.knownPeers.Add(pr)
	if added {
		s.evHandler("viewer: state: AddKnownPeer: peer[%s]", pr)
	}

	return added
}

// RemoveKnownPeer provides the ability to remove a peer from
// the known peer list.
func (s *State) RemoveKnownPeer(pr peer.Peer) {
	s.knownPeers.Remove(pr)
}

// RegisterPeers parses and adds the specified addresses to the known peer
// list. It returns the total number of known peers.
func (s *State) RegisterPeers(addresses []string) (int, error) {
	peers := make([]peer.Peer, 0, len(addresses))
	for _, address := range addresses {
		pr, err := peer.Parse(address)
		if err != nil {
			return 0, err
		}
		peers = append(peers, pr)
	}

	for _, pr := range peers {
		s.AddKnownPeer(pr)
	}

	return len(s.RetrieveKnownPeers()), nil
}
