// Package pool implements the fixed-size worker pool that parallelizes
// this module's per-element work: cwPRF evaluation over a set in pkg/psi
// and pkg/psu, and OT extension's per-row PRG expansion/hashing in
// pkg/ot. Grounded on the teacher's pkg/pool.Pool shape (a nil receiver
// runs sequentially, so call sites don't need a separate no-pool path;
// workers are parked rather than spun up per call), trimmed to the one
// operation every call site here actually needs. The teacher's Search
// (query-until-count-successes, used by its ECDSA nonce generation) has
// no analogue in this module and is dropped, along with the command/
// workerSearch plumbing it required.
package pool

import (
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// job is one unit of work handed to a parked worker: compute f(i) and
// store it at results[i], then signal wg.
type job struct {
	i       int
	f       func(int) interface{}
	results []interface{}
	wg      *sync.WaitGroup
}

// Pool is a fixed-size set of parked workers sharing one job queue, used
// to parallelize the per-element loops in pkg/psi, pkg/psu, and pkg/ot.
//
// A nil *Pool is valid: Parallelize runs its work sequentially on the
// calling goroutine instead, so callers that don't want a pool (small
// inputs, tests) can simply pass nil.
type Pool struct {
	id      uuid.UUID
	log     zerolog.Logger
	jobs    chan job
	workers int
}

// NewPool creates a pool with count parked workers. If count <= 0, it
// uses the number of available CPUs instead.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	id := uuid.New()
	p := &Pool{
		id:      id,
		workers: count,
		jobs:    make(chan job),
		log:     zerolog.New(zerolog.NewConsoleWriter()).With().Str("pool", id.String()).Logger(),
	}
	for i := 0; i < count; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	for j := range p.jobs {
		j.results[j.i] = j.f(j.i)
		j.wg.Done()
	}
}

// Log returns the session-correlated logger for this pool, the same
// pattern pkg/channel.Chan.Log uses for its connection id.
func (p *Pool) Log() *zerolog.Logger { return &p.log }

// TearDown stops the pool's workers. Safe to call on a nil Pool.
func (p *Pool) TearDown() {
	if p == nil {
		return
	}
	close(p.jobs)
}

// Parallelize calls f(i) for every i in [0, count) and returns
// [f(0), f(1), ..., f(count-1)], distributing the calls across the
// pool's workers. With a nil receiver, it runs sequentially on the
// calling goroutine instead.
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	results := make([]interface{}, count)
	if p == nil {
		for i := 0; i < count; i++ {
			results[i] = f(i)
		}
		return results
	}

	p.log.Debug().Int("n", count).Int("workers", p.workers).Msg("parallelize")

	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		p.jobs <- job{i: i, f: f, results: results, wg: &wg}
	}
	wg.Wait()
	return results
}
