// Package consensus resolves disagreement between nodes by adopting the
// longest valid chain found among the known peers.
package consensus

import (
	"context"
	"fmt"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/network"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/pow"
	"golang.org/x/sync/errgroup"
)

// Defaults applied when the configuration leaves a value unset.
const (
	DefaultPeerTimeout = 5 * time.Second
	DefaultWorkers     = 8
)

// EventHandler defines a function that is called when events
// occur while resolving.
type EventHandler func(v string, args ...any)

// Fetcher represents the behavior required to pull a chain snapshot from
// a peer.
type Fetcher interface {
	FetchChain(ctx context.Context, host string) (network.Snapshot, error)
}

// PeerUnreachableError is used when a peer could not provide its chain,
// including when it did not answer in time.
type PeerUnreachableError struct {
	Host string
	Err  error
}

// Error implements the error interface.
func (e *PeerUnreachableError) Error() string {
	return fmt.Sprintf("peer %s unreachable: %s", e.Host, e.Err)
}

// Unwrap provides access to the underlying failure.
func (e *PeerUnreachableError) Unwrap() error {
	return e.Err
}

// =============================================================================

// Config represents the configuration required to construct a resolver.
type Config struct {
	Fetcher     Fetcher
	Predicate   pow.Predicate
	PeerTimeout time.Duration
	Workers     int
	EvHandler   EventHandler
}

// Resolver pulls chains from peers and swaps the local chain for the
// longest valid one.
type Resolver struct {
	fetcher     Fetcher
	valid       pow.Predicate
	peerTimeout time.Duration
	workers     int
	evHandler   EventHandler
}

// New constructs a resolver.
func New(cfg Config) *Resolver {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	r := Resolver{
		fetcher:     cfg.Fetcher,
		valid:       cfg.Predicate,
		peerTimeout: cfg.PeerTimeout,
		workers:     cfg.Workers,
		evHandler:   ev,
	}

	if r.valid == nil {
		r.valid = pow.IsValidSolution
	}
	if r.peerTimeout <= 0 {
		r.peerTimeout = DefaultPeerTimeout
	}
	if r.workers <= 0 {
		r.workers = DefaultWorkers
	}

	return &r
}

// result holds the outcome of fetching a single peer.
type result struct {
	snapshot network.Snapshot
	err      error
}

// Resolve fetches the chain of every peer and replaces the local chain with
// the longest valid chain that is longer than it. Unreachable peers and
// invalid chains are skipped. When several peers report the same winning
// length the first one in the peer order is used. It reports whether the
// local chain was replaced.
func (r *Resolver) Resolve(ctx context.Context, l *ledger.Ledger, peers []peer.Peer) bool {
	r.evHandler("consensus: Resolve: started: peers[%d]", len(peers))
	defer r.evHandler("consensus: Resolve: completed")

	gen, err := l.GenesisBlock()
	if err != nil {
		r.evHandler("consensus: Resolve: ERROR: %s", err)
		return false
	}
	genesisDigest := gen.Digest()

	results := r.fetchAll(ctx, peers)

	best := l.Length()
	localLength := best

	var candidate []ledger.Block
	var source peer.Peer

	for i, res := range results {
		pr := peers[i]

		if res.err != nil {
			r.evHandler("consensus: Resolve: WARNING: %s", res.err)
			continue
		}

		if res.snapshot.Length <= best {
			r.evHandler("consensus: Resolve: peer[%s]: length[%d] not longer than [%d]", pr, res.snapshot.Length, best)
			continue
		}

		if err := r.check(res.snapshot, genesisDigest); err != nil {
			r.evHandler("consensus: Resolve: peer[%s]: rejected: %s", pr, err)
			continue
		}

		best = res.snapshot.Length
		candidate = res.snapshot.Chain
		source = pr
	}

	if candidate == nil {
		r.evHandler("consensus: Resolve: local chain is authoritative: length[%d]", localLength)
		return false
	}

	if !l.ReplaceChain(candidate) {
		r.evHandler("consensus: Resolve: local chain grew past candidate from peer[%s]", source)
		return false
	}

	r.evHandler("consensus: Resolve: chain replaced: peer[%s]: length[%d] -> [%d]", source, localLength, len(candidate))

	return true
}

// fetchAll pulls the snapshot of every peer concurrently, bounded by the
// worker limit. The results are ordered like the peers.
func (r *Resolver) fetchAll(ctx context.Context, peers []peer.Peer) []result {
	results := make([]result, len(peers))

	var g errgroup.Group
	g.SetLimit(r.workers)

	for i, pr := range peers {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, r.peerTimeout)
			defer cancel()

			snapshot, err := r.fetcher.FetchChain(ctx, pr.Host)
			if err != nil {
				results[i].err = &PeerUnreachableError{Host: pr.Host, Err: err}
				return nil
			}

			results[i].snapshot = snapshot
			return nil
		})
	}

	g.Wait()

	return results
}

// check validates a snapshot received from a peer. The chain must start
// from the same genesis block as the local chain.
func (r *Resolver) check(snapshot network.Snapshot, genesisDigest string) error {
	if snapshot.Length != len(snapshot.Chain) {
		return &ledger.InvalidChainError{
			Position: len(snapshot.Chain),
			Reason:   fmt.Sprintf("reported length %d does not match %d blocks received", snapshot.Length, len(snapshot.Chain)),
		}
	}

	if len(snapshot.Chain) > 0 {
		if digest := snapshot.Chain[0].Digest(); digest != genesisDigest {
			return &ledger.InvalidChainError{
				Position: 0,
				Reason:   fmt.Sprintf("genesis digest %s does not match local genesis %s", digest, genesisDigest),
			}
		}
	}

	return ledger.ValidateChain(snapshot.Chain, r.valid)
}
