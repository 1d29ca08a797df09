package core

// RegisterValue returns the architectural value of register r. Used
// by the driver to report the simulation's result and by tests to
// assert on final state.
func (e *Engine) RegisterValue(r uint8) uint32 { return e.regValue(r) }

// IsHalted reports whether the HALT instruction has retired.
func (e *Engine) IsHalted() bool { return e.Halted }

// CycleCount returns the number of cycles executed so far.
func (e *Engine) CycleCount() uint64 { return e.Cycle }

// ROBOccupancy reports how many instructions are currently in flight,
// for tracing and the live pipeline viewer.
func (e *Engine) ROBOccupancy() int { return e.rob.size }

// RSOccupancy reports how many reservation stations are currently
// busy, for the live pipeline viewer.
func (e *Engine) RSOccupancy() int {
	n := 0
	for i := range e.rs {
		if e.rs[i].Busy {
			n++
		}
	}
	return n
}

// LSBOccupancy reports how many load/store buffer slots are currently
// busy, for the live pipeline viewer.
func (e *Engine) LSBOccupancy() int {
	n := 0
	for i := range e.lsb {
		if e.lsb[i].Busy {
			n++
		}
	}
	return n
}

// Capacities returns the structural resource sizes the engine was
// configured with, for the live pipeline viewer's percentage bars.
func (e *Engine) Capacities() (rob, rs, lsb int) {
	return e.cfg.ROBCapacity, e.cfg.RSCount, e.cfg.LSBCount
}

// ProgramCounter returns the address the fetch stage will read next.
func (e *Engine) ProgramCounter() uint32 { return e.PC }

// Run ticks the engine until it halts or maxCycles elapses (0 means
// unbounded), returning the number of cycles executed. A maxCycles
// overrun is not itself an error: the caller decides whether running
// out the clock without halting is a failure (spec §6: the driver
// reports it as a non-zero exit).
func (e *Engine) Run(maxCycles uint64) (uint64, error) {
	for maxCycles == 0 || e.Cycle < maxCycles {
		if e.Halted {
			break
		}
		if err := e.Tick(); err != nil {
			return e.Cycle, err
		}
	}
	return e.Cycle, nil
}
