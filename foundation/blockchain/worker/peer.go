package worker

import (
	"context"
)

// consensusOperations handles resolving the chain against the known peers
// on every tick.
func (w *Worker) consensusOperations() {
	w.evHandler("worker: consensusOperations: G started")
	defer w.evHandler("worker: consensusOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() && w.runStatusOperation() {
				w.runConsensusOperation()
			}
		case <-w.shut:
			w.evHandler("worker: consensusOperations: received shut signal")
			return
		}
	}
}

// runConsensusOperation replaces the local chain if a peer holds a longer
// valid one.
func (w *Worker) runConsensusOperation() {
	w.evHandler("worker: runConsensusOperation: started")
	defer w.evHandler("worker: runConsensusOperation: completed")

	if w.state.Resolve(context.Background()) {
		w.evHandler("worker: runConsensusOperation: chain replaced")
	}
}

// runStatusOperation asks every known peer for the length of its chain and
// reports whether any of them claims to be ahead of this node. Full chains
// are only pulled when that is the case.
func (w *Worker) runStatusOperation() bool {
	w.evHandler("worker: runStatusOperation: started")
	defer w.evHandler("worker: runStatusOperation: completed")

	local, err := w.state.RetrieveStatus()
	if err != nil {
		w.evHandler("worker: runStatusOperation: ERROR: %s", err)
		return false
	}

	ctx := context.Background()

	var ahead bool
	for _, pr := range w.state.RetrieveKnownPeers() {
		ps, err := w.state.NetRequestPeerStatus(ctx, pr)
		if err != nil {
			w.evHandler("worker: runStatusOperation: queryPeerStatus: %s: WARNING: %s", pr.Host, err)
			continue
		}

		if ps.Length > local.Length {
			w.evHandler("worker: runStatusOperation: peer %s is ahead: length[%d] local[%d]", pr.Host, ps.Length, local.Length)
			ahead = true
		}
	}

	return ahead
}
