package worker

import (
	"context"
	"sync"
	"time"
)

// miningOperations mines a block each time mining is signaled.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation seals the pending pool into a new block. The work is
// abandoned when consensus replaces the chain or the node shuts down.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	if !w.state.HasPendingTransactions() {
		w.evHandler("worker: runMiningOperation: MINING: no transactions to mine")
		return
	}

	// Transactions submitted while mining go into the next block.
	defer func() {
		if w.state.HasPendingTransactions() && !w.isShutdown() {
			w.evHandler("worker: runMiningOperation: MINING: signal new mining operation")
			w.SignalStartMining()
		}
	}()

	// A stale cancel left over from a replacement with no mining underway.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: drained cancel channel")
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	// The canceller holds the release channel until the caller that asked
	// for the cancel says it is done.
	var release chan struct{}

	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case release = <-w.cancelMining:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: chain replaced")
		case <-w.shut:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: shutdown")
		case <-ctx.Done():
		}
	}()

	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		t := time.Now()
		block, err := w.state.MineNewBlock(ctx)
		w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", time.Since(t))

		switch {
		case err == nil:
			w.evHandler("worker: runMiningOperation: MINING: block[%d] sealed", block.Index)
		case ctx.Err() != nil:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
		default:
			w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		}
	}()

	wg.Wait()

	if release != nil {
		w.evHandler("worker: runMiningOperation: MINING: waiting for release")
		<-release
		w.evHandler("worker: runMiningOperation: MINING: released")
	}
}
