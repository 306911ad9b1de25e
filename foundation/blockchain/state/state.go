// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/consensus"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/network"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/pow"
)

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and consensus in the background.
type Worker interface {
	Shutdown()
	Sync()
	SignalStartMining()
	SignalCancelMining() (done func())
}

// Network represents the node to node calls the state needs to make.
type Network interface {
	FetchChain(ctx context.Context, host string) (network.Snapshot, error)
	FetchStatus(ctx context.Context, host string) (peer.PeerStatus, error)
}

// Metrics records ledger activity no matter which path triggered it.
type Metrics interface {
	AddBlocksMined()
	AddChainReplacements()
}

type noMetrics struct{}

func (noMetrics) AddBlocksMined()       {}
func (noMetrics) AddChainReplacements() {}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	NodeID      string
	Host        string
	Genesis     genesis.Genesis
	KnownPeers  *peer.PeerSet
	Network     Network
	PeerTimeout time.Duration
	Workers     int
	Metrics     Metrics
	EvHandler   EventHandler
}

// State manages the ledger and the set of known peers.
type State struct {
	nodeID      string
	host        string
	evHandler   EventHandler
	metrics     Metrics
	peerTimeout time.Duration

	genesis    genesis.Genesis
	valid      pow.Predicate
	knownPeers *peer.PeerSet
	network    Network
	ledger     *ledger.Ledger
	resolver   *consensus.Resolver

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	peerTimeout := cfg.PeerTimeout
	if peerTimeout <= 0 {
		peerTimeout = consensus.DefaultPeerTimeout
	}

	net := cfg.Network
	if net == nil {
		net = network.NewClient(peerTimeout)
	}

	mtr := cfg.Metrics
	if mtr == nil {
		mtr = noMetrics{}
	}

	valid := cfg.Genesis.Predicate()

	resolver := consensus.New(consensus.Config{
		Fetcher:     net,
		Predicate:   valid,
		PeerTimeout: peerTimeout,
		Workers:     cfg.Workers,
		EvHandler:   consensus.EventHandler(ev),
	})

	state := State{
		nodeID:      cfg.NodeID,
		host:        cfg.Host,
		evHandler:   ev,
		metrics:     mtr,
		peerTimeout: peerTimeout,

		genesis:    cfg.Genesis,
		valid:      valid,
		knownPeers: knownPeers,
		network:    net,
		ledger:     ledger.New(cfg.Genesis),
		resolver:   resolver,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
