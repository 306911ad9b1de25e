// Package ledger maintains the chain of sealed blocks and the pool of
// transactions waiting for the next block.
package ledger

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
)

// Set of error variables for ledger operations.
var (
	ErrEmptyLedger = errors.New("ledger has no blocks")
	ErrTipMoved    = errors.New("chain advanced while sealing, parent is no longer the tip")
)

// Ledger owns the chain and the pool. All access goes through a single
// lock so transactions, sealing and chain replacement can be called from
// concurrent requests.
type Ledger struct {
	mu     sync.RWMutex
	blocks []Block
	pool   []Transaction
}

// New constructs a ledger and seals its genesis block.
func New(gen genesis.Genesis) *Ledger {
	l := Ledger{
		blocks: []Block{
			{
				Index:          1,
				CreatedAt:      uint64(gen.Date.UTC().Unix()),
				Transactions:   []Transaction{},
				PuzzleSolution: gen.Solution,
				PreviousDigest: GenesisLink(),
			},
		},
	}

	return &l
}

// AppendTransaction adds the transaction to the pool and returns the index
// of the block that will hold it. Invalid UTF-8 in the fields is replaced
// with U+FFFD.
func (l *Ledger) AppendTransaction(tx Transaction) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pool = append(l.pool, tx.sanitize())

	return l.tip().Index + 1
}

// SealBlock builds the next block from the pool and the specified solution,
// appends it to the chain and clears the pool. The solution is not checked.
func (l *Ledger) SealBlock(solution uint64) Block {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.seal(solution)
}

// SealBlockOn works like SealBlock but only if the block with the parent
// digest is still the tip of the chain. The extra transactions are added to
// the pool as part of the same operation. If the chain changed underneath
// the caller, nothing is modified and ErrTipMoved is returned.
func (l *Ledger) SealBlockOn(parent string, solution uint64, extra ...Transaction) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.blocks) == 0 {
		return Block{}, ErrEmptyLedger
	}

	if l.tip().Digest() != parent {
		return Block{}, ErrTipMoved
	}

	for _, tx := range extra {
		l.pool = append(l.pool, tx.sanitize())
	}

	return l.seal(solution), nil
}

// MostRecentBlock returns a copy of the tip of the chain.
func (l *Ledger) MostRecentBlock() (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.blocks) == 0 {
		return Block{}, ErrEmptyLedger
	}

	return l.tip(), nil
}

// GenesisBlock returns a copy of the first block of the chain.
func (l *Ledger) GenesisBlock() (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.blocks) == 0 {
		return Block{}, ErrEmptyLedger
	}

	return l.blocks[0], nil
}

// Chain returns a copy of the blocks in the chain.
func (l *Ledger) Chain() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return slices.Clone(l.blocks)
}

// Length returns the number of blocks in the chain.
func (l *Ledger) Length() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.blocks)
}

// Pool returns a copy of the transactions waiting for the next block.
func (l *Ledger) Pool() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return slices.Clone(l.pool)
}

// ReplaceChain swaps in the specified blocks if they are strictly longer
// than the current chain. The pool is left as is. The caller is responsible
// for validating the blocks first.
func (l *Ledger) ReplaceChain(blocks []Block) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(blocks) <= len(l.blocks) {
		return false
	}

	l.blocks = slices.Clone(blocks)

	return true
}

// =============================================================================

// tip returns the latest block. The caller must hold the lock and the
// chain must not be empty.
func (l *Ledger) tip() Block {
	return l.blocks[len(l.blocks)-1]
}

// seal performs the append. The caller must hold the write lock.
func (l *Ledger) seal(solution uint64) Block {
	prev := l.tip()

	trans := make([]Transaction, len(l.pool))
	copy(trans, l.pool)

	block := Block{
		Index:          prev.Index + 1,
		CreatedAt:      uint64(time.Now().UTC().Unix()),
		Transactions:   trans,
		PuzzleSolution: solution,
		PreviousDigest: LinkTo(prev.Digest()),
	}

	l.blocks = append(l.blocks, block)
	l.pool = nil

	return block
}
