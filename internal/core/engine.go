// Package core implements the speculative out-of-order pipeline: the
// six stages (fetch, decode/rename, dispatch, execute, writeback,
// commit), the reorder buffer, ALU/branch reservation stations, the
// load/store buffer, the register file with rename bookkeeping, the
// common data bus, branch prediction, and flush/recovery.
package core

import (
	"github.com/northbridge-labs/rvsim/internal/isa"
	"github.com/northbridge-labs/rvsim/internal/mem"
)

// Config bounds the structural resources of the engine. None of these
// are mandated by the spec to a specific size; it only requires them
// to be finite and ring/pool-shaped.
type Config struct {
	ROBCapacity   int
	RSCount       int
	LSBCount      int
	FetchCapacity int
}

// DefaultConfig returns the sizes this simulator ships with.
func DefaultConfig() Config {
	return Config{
		ROBCapacity:   32,
		RSCount:       16,
		LSBCount:      16,
		FetchCapacity: 4,
	}
}

// Engine is the complete pipeline: one frozen cycle's worth of state,
// advanced by one Tick. Stages are evaluated in reverse data-flow
// order within a Tick (commit, writeback, execute, dispatch,
// decode/rename, fetch) so that no instruction can traverse more than
// one stage in a single cycle — this is the in-place equivalent of
// double-buffering the spec allows (spec §5, §9).
type Engine struct {
	cfg Config
	Mem *mem.Memory

	Regs [32]regEntry

	rob struct {
		entries []robEntry
		head    int
		tail    int
		size    int
	}

	rs  []rsEntry
	lsb []lsbEntry

	fetch struct {
		entries []fetchEntry
		head    int
		tail    int
		size    int
	}

	PC           uint32
	Cycle        uint64
	FetchStalled bool
	Halted       bool

	// BranchMispredicts and ForwardingHits are running counts exposed
	// for statistics reporting; they never affect simulation.
	BranchMispredicts uint64
	ForwardingHits    uint64

	// flush bookkeeping (spec §4.9)
	flushedThisCycle bool
	bubblePending    bool

	// populated once per cycle by the writeback stage, consumed by
	// execute/dispatch-adjacent snooping logic within the same Tick
	lastBroadcasts []cdbBroadcast

	// decodeLatch holds at most one decoded instruction, not yet
	// renamed, waiting to be issued by the dispatch stage. It is the boundary
	// between the decode/rename stage and the dispatch stage (spec
	// §5): each stage touches it at most once per Tick, so an
	// instruction can never cross both in the same cycle.
	decodeLatch      isa.Decoded
	decodeLatchROB   int
	decodeLatchValid bool

	// commitHook, when set, is invoked once per retired instruction
	// (spec §4.8), after its architectural effects are visible. It
	// lets external tooling (tracing, statistics) observe commit
	// order without core depending on either.
	commitHook func(CommitRecord)
}

// CommitRecord describes one instruction at the moment it retires.
type CommitRecord struct {
	Cycle        uint64
	PC           uint32
	Kind         isa.Kind
	Dest         uint8
	Value        uint32
	HasDest      bool
	Mispredicted bool
	Flushed      bool
}

// SetCommitHook installs f to be called once per retirement. Passing
// nil disables it.
func (e *Engine) SetCommitHook(f func(CommitRecord)) { e.commitHook = f }

// NewEngine creates an engine with the given resource sizes, memory
// image, and initial program counter.
func NewEngine(cfg Config, m *mem.Memory, entryPC uint32) *Engine {
	e := &Engine{cfg: cfg, Mem: m, PC: entryPC}
	e.rob.entries = make([]robEntry, cfg.ROBCapacity)
	e.rs = make([]rsEntry, cfg.RSCount)
	e.lsb = make([]lsbEntry, cfg.LSBCount)
	e.fetch.entries = make([]fetchEntry, cfg.FetchCapacity)
	for i := range e.Regs {
		e.Regs[i] = regEntry{}
	}
	return e
}

// readySentinel is the producer-tag value meaning "no producer, value
// already known" — the ROB capacity, per spec §3 and §9.
func (e *Engine) readySentinel() int { return e.cfg.ROBCapacity }

// robFull reports whether the ROB has room for one more entry. Spec
// §4.4/§9: capacity is the declared size minus one, reserving a slot.
func (e *Engine) robFull() bool {
	return e.rob.size >= e.cfg.ROBCapacity-1
}

// robDistance returns how far ROB slot idx is from the current head,
// in ring order — smaller means older (closer to retirement). Used
// for program-order comparisons (store-to-load disambiguation,
// execute-unit arbitration).
func (e *Engine) robDistance(idx int) int {
	n := e.cfg.ROBCapacity
	return (idx - e.rob.head + n) % n
}

// robPush allocates a new ROB slot at the tail and returns its index.
// Caller must fill in the entry's fields; robFull must be checked
// first.
func (e *Engine) robPush() int {
	idx := e.rob.tail
	e.rob.tail = (e.rob.tail + 1) % e.cfg.ROBCapacity
	e.rob.size++
	e.rob.entries[idx] = robEntry{Busy: true}
	return idx
}

// robPopHead retires the head entry.
func (e *Engine) robPopHead() {
	e.rob.entries[e.rob.head] = robEntry{}
	e.rob.head = (e.rob.head + 1) % e.cfg.ROBCapacity
	e.rob.size--
}

// robSize reports the current ROB occupancy (spec invariant #2).
func (e *Engine) robSize() int { return e.rob.size }

// Tick advances the simulator by exactly one clock cycle (spec §2,
// §5). Stages run commit, writeback, execute, dispatch, decode/rename,
// fetch — in that order — so each stage reads state no later stage in
// this same cycle has yet mutated.
func (e *Engine) Tick() error {
	e.flushedThisCycle = false
	bubbleThisCycle := e.bubblePending
	e.bubblePending = false
	e.lastBroadcasts = nil

	if err := e.commitStage(); err != nil {
		return err
	}

	if !bubbleThisCycle {
		e.writebackStage()
		if err := e.executeStage(); err != nil {
			return err
		}
		e.dispatchStage()
		if err := e.decodeStage(); err != nil {
			return err
		}
	}

	if !e.flushedThisCycle {
		if err := e.fetchStage(); err != nil {
			return err
		}
	}

	e.Cycle++
	return nil
}

// flush abandons every speculative entry atomically (spec §4.9),
// redirecting the program counter to target.
func (e *Engine) flush(target uint32) {
	e.rob.head, e.rob.tail, e.rob.size = 0, 0, 0
	for i := range e.rob.entries {
		e.rob.entries[i] = robEntry{}
	}
	for i := range e.rs {
		e.rs[i] = rsEntry{}
	}
	for i := range e.lsb {
		e.lsb[i] = lsbEntry{}
	}
	e.fetch.head, e.fetch.tail, e.fetch.size = 0, 0, 0
	for i := range e.fetch.entries {
		e.fetch.entries[i] = fetchEntry{}
	}
	for i := range e.Regs {
		e.Regs[i].Busy = false
	}

	e.decodeLatch = isa.Decoded{}
	e.decodeLatchROB = 0
	e.decodeLatchValid = false

	e.PC = target
	e.FetchStalled = false
	e.flushedThisCycle = true
	e.bubblePending = true
}
