package core

import "github.com/northbridge-labs/rvsim/internal/isa"

// PipelineState is the retirement lifecycle of a ROB entry: it only
// ever advances Dispatch -> Execute -> Writeback -> Commit (spec §3),
// except HALT which goes Dispatch -> Commit directly.
type PipelineState uint8

const (
	StateDispatch PipelineState = iota
	StateExecute
	StateWriteback
	StateCommit
)

func (s PipelineState) String() string {
	switch s {
	case StateDispatch:
		return "Dispatch"
	case StateExecute:
		return "Execute"
	case StateWriteback:
		return "Writeback"
	case StateCommit:
		return "Commit"
	default:
		return "?"
	}
}

// robEntry is one in-flight instruction tracked from rename to
// retirement (spec §3 "ROB entry").
type robEntry struct {
	Busy  bool
	Kind  isa.Kind
	State PipelineState

	Dest  uint8
	Value uint32
	Addr  uint32
	PC    uint32

	IsBranch       bool
	PredictedTaken bool
	ActualTaken    bool
	TargetPC       uint32

	Rs1, Rs2 uint8
	Imm      int32
}

// rsEntry is an ALU/branch reservation station slot (spec §3
// "Reservation station entry"). Qj/Qk hold a ROB index, or the ready
// sentinel (equal to the ROB capacity) when the matching operand
// value is already known.
type rsEntry struct {
	Busy bool
	Kind isa.Kind
	Vj   uint32
	Vk   uint32
	Qj   int
	Qk   int
	Dest int // owning/destination ROB slot
	Imm  int32

	started   bool
	remaining int
}

// lsbEntry is a load/store buffer slot (spec §3 "Load/store buffer
// entry"). BaseQ/ValQ use the same ready-sentinel convention as RS.
type lsbEntry struct {
	Busy      bool
	Kind      isa.Kind
	Addr      uint32
	AddrReady bool
	Value     uint32 // value to store (stores) / loaded value (loads, transient)

	// addrReadyThisCycle is set when AddrReady just transitioned true
	// this same Tick, and cleared at the start of the next. Spec §4.6:
	// an address that becomes ready this cycle cannot start execution
	// until the next one.
	addrReadyThisCycle bool
	Dest      int    // owning ROB slot (also used for program-order checks)

	BaseVal uint32
	BaseQ   int
	Offset  int32
	ValQ    int

	ExecuteCompleted bool

	// load memory-read latency countdown (execute stage)
	started   bool
	remaining int

	// store memory-write latency countdown (commit stage)
	commitStarted   bool
	commitRemaining int
}

// fetchEntry is one pre-decoded raw word waiting for decode/rename
// (spec §3 "Fetch-buffer entry").
type fetchEntry struct {
	Valid bool
	Word  uint32
	PC    uint32
}

// regEntry is one architectural register plus its rename bookkeeping
// (spec §3 "Register file entry").
type regEntry struct {
	Value    uint32
	Busy     bool
	Producer int // ROB slot, meaningful only when Busy
}

// cdbBroadcast is one (producer, value) pair published on the common
// data bus during the writeback stage.
type cdbBroadcast struct {
	ROBIdx int
	Value  uint32
}
