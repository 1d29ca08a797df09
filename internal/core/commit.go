package core

import "github.com/northbridge-labs/rvsim/internal/isa"

// commitStage retires the head of the reorder buffer once its result
// is available, in strict program order (spec §4.8). It also drives
// the multi-cycle store write and the atomic misprediction/redirect
// recovery for branches and jumps, both of which only happen once an
// instruction reaches the head — speculation past an unresolved
// branch is allowed, but nothing it produced becomes visible, and no
// control-flow correction happens, until commit says so.
func (e *Engine) commitStage() error {
	for i := range e.rob.entries {
		if e.rob.entries[i].Busy && e.rob.entries[i].State == StateWriteback {
			e.rob.entries[i].State = StateCommit
		}
	}

	if e.rob.size == 0 {
		return nil
	}
	head := e.robHeadIdx()
	entry := e.robEntryAt(head)
	if entry.State != StateCommit {
		return nil
	}

	switch {
	case entry.Kind == isa.HALT:
		rec := CommitRecord{Cycle: e.Cycle, PC: entry.PC, Kind: entry.Kind}
		e.robPopHead()
		e.Halted = true
		e.FetchStalled = true
		e.emitCommit(rec)
		return nil

	case entry.Kind.IsStore():
		return e.commitStore(head, entry)

	case entry.Kind.IsBranch():
		mispredicted := entry.ActualTaken != entry.PredictedTaken
		target := entry.TargetPC
		pc := entry.PC
		kind := entry.Kind
		e.robPopHead()
		if mispredicted {
			e.BranchMispredicts++
			e.flush(target)
		}
		e.emitCommit(CommitRecord{Cycle: e.Cycle, PC: pc, Kind: kind, Mispredicted: mispredicted, Flushed: mispredicted})
		return nil

	case entry.Kind.IsJump():
		if entry.Dest != 0 {
			e.regCommitWrite(entry.Dest, head, entry.Value)
		}
		rec := CommitRecord{Cycle: e.Cycle, PC: entry.PC, Kind: entry.Kind, Dest: entry.Dest, Value: entry.Value, HasDest: entry.Dest != 0, Flushed: true}
		target := entry.TargetPC
		e.robPopHead()
		e.flush(target)
		e.emitCommit(rec)
		return nil

	default:
		rec := CommitRecord{Cycle: e.Cycle, PC: entry.PC, Kind: entry.Kind, Dest: entry.Dest, Value: entry.Value, HasDest: entry.Dest != 0}
		if entry.Dest != 0 {
			e.regCommitWrite(entry.Dest, head, entry.Value)
		}
		e.robPopHead()
		e.emitCommit(rec)
		return nil
	}
}

func (e *Engine) emitCommit(rec CommitRecord) {
	if e.commitHook != nil {
		e.commitHook(rec)
	}
}

// commitStore performs a store's memory write over its full latency
// (spec §4.7), holding the ROB head until the write completes. The
// load/store buffer slot is only released once the write is done.
func (e *Engine) commitStore(head int, entry *robEntry) error {
	l := e.lsbFor(head)
	if l == nil {
		return &SimError{Cycle: e.Cycle, PC: entry.PC, Message: "store committed with no buffer entry"}
	}

	if !l.commitStarted {
		l.commitStarted = true
		l.commitRemaining = memLatencyCycles - 1
		return nil
	}
	l.commitRemaining--
	if l.commitRemaining > 0 {
		return nil
	}

	if err := e.writeMemForStore(entry.Kind, entry.Addr, l.Value); err != nil {
		return &SimError{Cycle: e.Cycle, PC: entry.PC, Message: "store", Wrapped: err}
	}
	value := l.Value
	*l = lsbEntry{}
	rec := CommitRecord{Cycle: e.Cycle, PC: entry.PC, Kind: entry.Kind, Value: value}
	e.robPopHead()
	e.emitCommit(rec)
	return nil
}

func (e *Engine) writeMemForStore(kind isa.Kind, addr, value uint32) error {
	switch kind {
	case isa.SB:
		return e.Mem.WriteByte(addr, byte(value))
	case isa.SH:
		return e.Mem.WriteHalf(addr, uint16(value))
	default: // SW
		return e.Mem.WriteWord(addr, value)
	}
}
