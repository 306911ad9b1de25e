package worker

// Sync brings the chain up to date with the known peers before the node
// starts serving.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	w.runConsensusOperation()
}
