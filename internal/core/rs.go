package core

import "github.com/northbridge-labs/rvsim/internal/isa"

// findFreeRS returns the index of an unoccupied reservation station,
// or -1 if the pool is exhausted (spec §4.3: dispatch stalls when no
// station is free).
func (e *Engine) findFreeRS() int {
	for i := range e.rs {
		if !e.rs[i].Busy {
			return i
		}
	}
	return -1
}

// rsOperand resolves register r's value for issuing into a
// reservation station: if a producer is still executing, the operand
// tag points at that ROB slot (Qj/Qk); if the producer has already
// reached writeback (its broadcast may be over), or the register has
// no producer, the value is copied and the tag is the ready sentinel.
func (e *Engine) rsOperand(r uint8) (value uint32, tag int) {
	if busy, producer := e.regBusy(r); busy {
		if p := e.robEntryAt(producer); p.Busy && p.State >= StateWriteback {
			return p.Value, e.readySentinel()
		}
		return 0, producer
	}
	return e.regValue(r), e.readySentinel()
}

// rsSnoop updates a reservation station's waiting operands against
// this cycle's CDB broadcasts (spec §4.5: "every station snoops the
// bus every cycle").
func (e *Engine) rsSnoop(rs *rsEntry, broadcasts []cdbBroadcast) {
	for _, b := range broadcasts {
		if rs.Qj == b.ROBIdx {
			rs.Vj = b.Value
			rs.Qj = e.readySentinel()
		}
		if rs.Qk == b.ROBIdx {
			rs.Vk = b.Value
			rs.Qk = e.readySentinel()
		}
	}
}

// rsReady reports whether every operand a reservation station needs
// has arrived. Branches compare two register operands just like the
// register-register ALU ops, even though they are not one of the
// isa.NeedsRs2 kinds.
func (e *Engine) rsReady(rs *rsEntry) bool {
	ready := e.readySentinel()
	if rs.Qj != ready {
		return false
	}
	if (isa.NeedsRs2(rs.Kind) || rs.Kind.IsBranch()) && rs.Qk != ready {
		return false
	}
	return true
}
