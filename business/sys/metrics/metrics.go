// Package metrics constructs the metrics the application will track.
package metrics

import (
	"expvar"
)

// This holds the single instance of the metrics value needed for
// collecting metrics. The expvar package is already based on a singleton
// for the different metrics that are registered with the package so there
// isn't much choice here.
var m *metrics

// metrics represents the set of metrics we gather. These fields are
// safe to be accessed concurrently thanks to expvar. No extra abstraction is
// required.
type metrics struct {
	goroutines   *expvar.Int
	requests     *expvar.Int
	errors       *expvar.Int
	panics       *expvar.Int
	blocksMined  *expvar.Int
	replacements *expvar.Int
}

// init constructs the metrics value that will be used to capture metrics.
// The metrics value is stored in a package level variable since everything
// inside of expvar is registered as a singleton.
func init() {
	m = &metrics{
		goroutines:   expvar.NewInt("goroutines"),
		requests:     expvar.NewInt("requests"),
		errors:       expvar.NewInt("errors"),
		panics:       expvar.NewInt("panics"),
		blocksMined:  expvar.NewInt("blocks_mined"),
		replacements: expvar.NewInt("chain_replacements"),
	}
}

// =============================================================================

// AddGoroutines sets the goroutine metric.
func AddGoroutines(n int64) {
	m.goroutines.Set(n)
}

// AddRequests increments the request metric by 1.
func AddRequests() int64 {
	m.requests.Add(1)
	return m.requests.Value()
}

// AddErrors increments the errors metric by 1.
func AddErrors() {
	m.errors.Add(1)
}

// AddPanics increments the panics metric by 1.
func AddPanics() {
	m.panics.Add(1)
}

// Recorder exposes the ledger metrics to packages that accept them as a
// dependency.
type Recorder struct{}

// AddBlocksMined increments the mined blocks metric by 1.
func (Recorder) AddBlocksMined() {
	AddBlocksMined()
}

// AddChainReplacements increments the chain replacement metric by 1.
func (Recorder) AddChainReplacements() {
	AddChainReplacements()
}

// AddBlocksMined increments the mined blocks metric by 1.
func AddBlocksMined() {
	m.blocksMined.Add(1)
}

// AddChainReplacements increments the chain replacement metric by 1.
func AddChainReplacements() {
	m.replacements.Add(1)
}
