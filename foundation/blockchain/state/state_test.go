package state_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/network"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nodeID = "3f1c2e9a0b7d4c58a6e1f2d3b4c5a697"

// testGenesis keeps mining fast in tests.
func testGenesis() genesis.Genesis {
	g := genesis.Default()
	g.Difficulty = 1
	return g
}

// fakeNetwork serves canned peer responses.
type fakeNetwork struct {
	mu       sync.Mutex
	chains   map[string]network.Snapshot
	statuses map[string]peer.PeerStatus
}

func (n *fakeNetwork) FetchChain(ctx context.Context, host string) (network.Snapshot, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	s, exists := n.chains[host]
	if !exists {
		return network.Snapshot{}, errors.New("connection refused")
	}
	return s, nil
}

func (n *fakeNetwork) FetchStatus(ctx context.Context, host string) (peer.PeerStatus, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ps, exists := n.statuses[host]
	if !exists {
		return peer.PeerStatus{}, errors.New("connection refused")
	}
	return ps, nil
}

// fakeWorker records the signals it receives.
type fakeWorker struct {
	mu      sync.Mutex
	starts  int
	cancels int
}

func (w *fakeWorker) Shutdown() {}
func (w *fakeWorker) Sync()     {}

func (w *fakeWorker) SignalStartMining() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.starts++
}

func (w *fakeWorker) SignalCancelMining() func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cancels++
	return func() {}
}

// fakeMetrics counts what the state records.
type fakeMetrics struct {
	mined    atomic.Int32
	replaced atomic.Int32
}

func (m *fakeMetrics) AddBlocksMined()       { m.mined.Add(1) }
func (m *fakeMetrics) AddChainReplacements() { m.replaced.Add(1) }

func newState(t *testing.T, host string, net state.Network) *state.State {
	t.Helper()

	st, err := state.New(state.Config{
		NodeID:      nodeID,
		Host:        host,
		Genesis:     testGenesis(),
		KnownPeers:  peer.NewPeerSet(),
		Network:     net,
		PeerTimeout: time.Second,
	})
	require.NoError(t, err)

	return st
}

// =============================================================================

func TestSubmitAndMine(t *testing.T) {
	st := newState(t, "localhost:9080", &fakeNetwork{})
	w := fakeWorker{}
	st.Worker = &w

	tx := ledger.Transaction{Sender: "alice", Recipient: "bob", Payload: "5"}
	index := st.SubmitTransaction(tx)

	assert.Equal(t, uint64(2), index)
	assert.Equal(t, []ledger.Transaction{tx}, st.RetrievePool())
	assert.Equal(t, 1, w.starts)
	assert.True(t, st.HasPendingTransactions())

	block, err := st.MineNewBlock(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(2), block.Index)
	require.Len(t, block.Transactions, 2)
	assert.Equal(t, tx, block.Transactions[0])
	assert.Equal(t, ledger.Transaction{Sender: state.RewardSender, Recipient: nodeID, Payload: genesis.DefaultMiningReward}, block.Transactions[1])

	assert.Empty(t, st.RetrievePool())
	assert.False(t, st.HasPendingTransactions())
	assert.NoError(t, st.IsChainValid())

	tip, err := st.RetrieveLatestBlock()
	require.NoError(t, err)
	assert.Equal(t, block.Digest(), tip.Digest())
}

func TestMineEmptyPool(t *testing.T) {
	st := newState(t, "localhost:9080", &fakeNetwork{})

	block, err := st.MineNewBlock(context.Background())
	require.NoError(t, err)

	require.Len(t, block.Transactions, 1)
	assert.Equal(t, state.RewardSender, block.Transactions[0].Sender)
}

func TestMineCancel(t *testing.T) {
	g := genesis.Default()
	g.Difficulty = 64

	st, err := state.New(state.Config{NodeID: nodeID, Genesis: g, Network: &fakeNetwork{}})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = st.MineNewBlock(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, st.RetrieveChain(), 1)
}

func TestConcurrentMining(t *testing.T) {
	st := newState(t, "localhost:9080", &fakeNetwork{})

	const miners = 4

	var wg sync.WaitGroup
	for range miners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.SubmitTransaction(ledger.Transaction{Sender: "a", Recipient: "b", Payload: "1"})
			_, err := st.MineNewBlock(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, st.RetrieveChain(), miners+1)
	assert.NoError(t, st.IsChainValid())
}

func TestResolve(t *testing.T) {
	remote := newState(t, "remote:9080", &fakeNetwork{})
	for range 3 {
		_, err := remote.MineNewBlock(context.Background())
		require.NoError(t, err)
	}

	net := fakeNetwork{chains: map[string]network.Snapshot{
		"remote:9080": {Chain: remote.RetrieveChain(), Length: len(remote.RetrieveChain())},
	}}

	local := newState(t, "local:9080", &net)
	w := fakeWorker{}
	local.Worker = &w

	local.SubmitTransaction(ledger.Transaction{Sender: "a", Recipient: "b", Payload: "1"})

	t.Run("no peers", func(t *testing.T) {
		assert.False(t, local.Resolve(context.Background()))
		assert.Len(t, local.RetrieveChain(), 1)
	})

	t.Run("longer peer", func(t *testing.T) {
		require.True(t, local.AddKnownPeer(peer.New("remote:9080")))
		require.True(t, local.AddKnownPeer(peer.New("down:9080")))

		assert.True(t, local.Resolve(context.Background()))
		assert.Equal(t, remote.RetrieveChain(), local.RetrieveChain())
		assert.Len(t, local.RetrievePool(), 1)
		assert.Equal(t, 1, w.cancels)
	})

	t.Run("already longest", func(t *testing.T) {
		assert.False(t, local.Resolve(context.Background()))
		assert.Equal(t, 1, w.cancels)
	})
}

func TestMetrics(t *testing.T) {
	remote := newState(t, "remote:9080", &fakeNetwork{})
	for range 2 {
		_, err := remote.MineNewBlock(context.Background())
		require.NoError(t, err)
	}

	net := fakeNetwork{chains: map[string]network.Snapshot{
		"remote:9080": {Chain: remote.RetrieveChain(), Length: len(remote.RetrieveChain())},
	}}

	var m fakeMetrics
	st, err := state.New(state.Config{
		NodeID:      nodeID,
		Host:        "local:9080",
		Genesis:     testGenesis(),
		Network:     &net,
		PeerTimeout: time.Second,
		Metrics:     &m,
	})
	require.NoError(t, err)

	_, err = st.MineNewBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), m.mined.Load(), "mining outside a handler should be counted")

	st.AddKnownPeer(peer.New("remote:9080"))
	require.True(t, st.Resolve(context.Background()))
	assert.Equal(t, int32(1), m.replaced.Load(), "a replacement outside a handler should be counted")

	assert.False(t, st.Resolve(context.Background()))
	assert.Equal(t, int32(1), m.replaced.Load())
}

func TestKnownPeersSelf(t *testing.T) {
	st := newState(t, "0.0.0.0:9080", &fakeNetwork{})

	for _, host := range []string{"localhost:9080", "127.0.0.1:9080", "[::1]:9080", "0.0.0.0:9080"} {
		assert.False(t, st.AddKnownPeer(peer.New(host)), "should not add itself as %s", host)
	}

	assert.True(t, st.AddKnownPeer(peer.New("localhost:9081")))
	assert.True(t, st.AddKnownPeer(peer.New("10.0.0.2:9080")))
	assert.Len(t, st.RetrieveKnownPeers(), 2)
}

func TestKnownPeers(t *testing.T) {
	st := newState(t, "10.0.0.1:9080", &fakeNetwork{})

	assert.False(t, st.AddKnownPeer(peer.New("10.0.0.1:9080")), "should not add itself")

	total, err := st.RegisterPeers([]string{"http://10.0.0.2:9080", "10.0.0.2:9080", "http://10.0.0.3:9080/x"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, err = st.RegisterPeers([]string{"10.0.0.4:9080", "http://"})
	assert.Error(t, err)
	assert.Len(t, st.RetrieveKnownPeers(), 2, "a bad address should reject the whole request")

	st.RemoveKnownPeer(peer.New("10.0.0.2:9080"))
	assert.Equal(t, []peer.Peer{peer.New("10.0.0.3:9080")}, st.RetrieveKnownPeers())
}

func TestStatus(t *testing.T) {
	net := fakeNetwork{statuses: map[string]peer.PeerStatus{
		"10.0.0.2:9080": {Length: 4, KnownPeers: []peer.Peer{peer.New("10.0.0.9:9080")}},
	}}

	st := newState(t, "10.0.0.1:9080", &net)
	st.AddKnownPeer(peer.New("10.0.0.2:9080"))

	ps, err := st.RetrieveStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, ps.Length)
	assert.Equal(t, uint64(1), ps.LatestBlockIndex)
	assert.Equal(t, st.RetrieveChain()[0].Digest(), ps.LatestBlockDigest)
	assert.Equal(t, []peer.Peer{peer.New("10.0.0.2:9080")}, ps.KnownPeers)

	remote, err := st.NetRequestPeerStatus(context.Background(), peer.New("10.0.0.2:9080"))
	require.NoError(t, err)
	assert.Equal(t, 4, remote.Length)

	_, err = st.NetRequestPeerStatus(context.Background(), peer.New("10.0.0.3:9080"))
	assert.Error(t, err)
}
