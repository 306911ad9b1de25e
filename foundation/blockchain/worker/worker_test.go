package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/network"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/blockchain/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(t *testing.T, difficulty uint) *state.State {
	t.Helper()

	g := genesis.Default()
	g.Difficulty = difficulty

	st, err := state.New(state.Config{
		NodeID:  "worker-test",
		Host:    "localhost:9080",
		Genesis: g,
	})
	require.NoError(t, err)

	return st
}

func TestAutoMine(t *testing.T) {
	st := newState(t, 1)

	w := worker.Run(st, worker.Config{ConsensusInterval: time.Hour, AutoMine: true})
	defer w.Shutdown()

	st.SubmitTransaction(ledger.Transaction{Sender: "alice", Recipient: "bob", Payload: "5"})

	require.Eventually(t, func() bool {
		return len(st.RetrieveChain()) >= 2 && len(st.RetrievePool()) == 0
	}, 5*time.Second, 10*time.Millisecond)

	chain := st.RetrieveChain()
	assert.Equal(t, ledger.Transaction{Sender: "alice", Recipient: "bob", Payload: "5"}, chain[1].Transactions[0])
	assert.NoError(t, st.IsChainValid())
}

func TestManualMine(t *testing.T) {
	st := newState(t, 1)

	w := worker.Run(st, worker.Config{ConsensusInterval: time.Hour})
	defer w.Shutdown()

	st.SubmitTransaction(ledger.Transaction{Sender: "alice", Recipient: "bob", Payload: "5"})

	time.Sleep(100 * time.Millisecond)

	assert.Len(t, st.RetrieveChain(), 1)
	assert.Len(t, st.RetrievePool(), 1)
}

func TestShutdownCancelsMining(t *testing.T) {
	st := newState(t, 64)

	worker.Run(st, worker.Config{ConsensusInterval: time.Hour, AutoMine: true})

	st.SubmitTransaction(ledger.Transaction{Sender: "alice", Recipient: "bob", Payload: "5"})
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		st.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown should stop an in-flight mining operation")
	}

	assert.Len(t, st.RetrieveChain(), 1)
}

// remoteNetwork serves a single peer whose chain can grow during a test.
type remoteNetwork struct {
	mu           sync.Mutex
	host         string
	remote       *state.State
	chainFetches int
}

func (n *remoteNetwork) FetchChain(ctx context.Context, host string) (network.Snapshot, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if host != n.host {
		return network.Snapshot{}, errors.New("connection refused")
	}
	n.chainFetches++

	chain := n.remote.RetrieveChain()
	return network.Snapshot{Chain: chain, Length: len(chain)}, nil
}

func (n *remoteNetwork) FetchStatus(ctx context.Context, host string) (peer.PeerStatus, error) {
	if host != n.host {
		return peer.PeerStatus{}, errors.New("connection refused")
	}
	return n.remote.RetrieveStatus()
}

func (n *remoteNetwork) fetches() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.chainFetches
}

func TestSyncAndPeriodicConsensus(t *testing.T) {
	remote := newState(t, 1)
	for range 2 {
		_, err := remote.MineNewBlock(context.Background())
		require.NoError(t, err)
	}

	net := remoteNetwork{host: "remote:9080", remote: remote}

	g := genesis.Default()
	g.Difficulty = 1

	knownPeers := peer.NewPeerSet()
	knownPeers.Add(peer.New("remote:9080"))

	st, err := state.New(state.Config{
		NodeID:     "worker-test-local",
		Host:       "local:9080",
		Genesis:    g,
		KnownPeers: knownPeers,
		Network:    &net,
	})
	require.NoError(t, err)

	w := worker.Run(st, worker.Config{ConsensusInterval: 20 * time.Millisecond})
	defer w.Shutdown()

	// Sync runs before Run returns.
	assert.Len(t, st.RetrieveChain(), 3)

	// Nobody is ahead so the ticks should not pull the full chain again.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, net.fetches())

	_, err = remote.MineNewBlock(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(st.RetrieveChain()) == 4
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, remote.RetrieveChain(), st.RetrieveChain())
}
