package core

import "github.com/northbridge-labs/rvsim/internal/isa"

// isAluImm reports whether kind is a register-immediate ALU op, whose
// second ALU operand is the sign/zero-extended immediate rather than a
// register value.
func isAluImm(kind isa.Kind) bool {
	return kind >= isa.ADDI && kind <= isa.SLTIU
}

// rsNeedsRs1 reports whether kind reads Rs1 as an operand register.
// JAL and LUI compute without any register input; AUIPC needs only
// the instruction's own PC, already captured in its ROB entry.
func rsNeedsRs1(kind isa.Kind) bool {
	switch kind {
	case isa.JAL, isa.LUI, isa.AUIPC:
		return false
	default:
		return true
	}
}

// dispatchStage issues the instruction waiting in the decode latch
// into a reservation station or load/store buffer slot (spec §4.3).
// HALT bypasses both: it has nothing to compute and moves straight to
// the commit stage, since it can only ever retire, never mispredict
// or fault. A stall here (no free station) leaves the decode latch
// occupied, which in turn stalls decode/rename next cycle.
func (e *Engine) dispatchStage() {
	if !e.decodeLatchValid {
		return
	}
	d := e.decodeLatch
	robIdx := e.decodeLatchROB

	if d.Kind == isa.HALT {
		e.robEntryAt(robIdx).State = StateCommit
		e.decodeLatchValid = false
		return
	}

	if d.Kind.IsLoad() || d.Kind.IsStore() {
		if e.dispatchMemOp(d, robIdx) {
			e.decodeLatchValid = false
		}
		return
	}

	if e.dispatchALUOrBranch(d, robIdx) {
		e.decodeLatchValid = false
	}
}

func (e *Engine) dispatchALUOrBranch(d isa.Decoded, robIdx int) bool {
	slot := e.findFreeRS()
	if slot == -1 {
		return false
	}
	rs := &e.rs[slot]
	*rs = rsEntry{Busy: true, Kind: d.Kind, Dest: robIdx, Imm: d.Imm}

	ready := e.readySentinel()
	if rsNeedsRs1(d.Kind) {
		rs.Vj, rs.Qj = e.rsOperand(d.Rs1)
	} else {
		rs.Qj = ready
	}

	switch {
	case isAluImm(d.Kind):
		rs.Vk, rs.Qk = uint32(d.Imm), ready
	case isa.NeedsRs2(d.Kind), d.Kind.IsBranch():
		rs.Vk, rs.Qk = e.rsOperand(d.Rs2)
	default:
		rs.Qk = ready
	}

	// Rename only after both sources are read (spec §4.5), so an
	// instruction whose destination matches one of its own sources
	// (e.g. ADDI x11,x11,1) sees its prior producer, not itself.
	if d.Rd != 0 && !d.Kind.IsBranch() {
		e.regMarkProducer(d.Rd, robIdx)
	}

	e.robEntryAt(robIdx).State = StateExecute
	return true
}

func (e *Engine) dispatchMemOp(d isa.Decoded, robIdx int) bool {
	slot := e.findFreeLSB()
	if slot == -1 {
		return false
	}
	l := &e.lsb[slot]
	*l = lsbEntry{Busy: true, Kind: d.Kind, Dest: robIdx, Offset: d.Imm}

	l.BaseVal, l.BaseQ = e.rsOperand(d.Rs1)
	l.AddrReady = l.BaseQ == e.readySentinel()
	if l.AddrReady {
		l.Addr = l.BaseVal + uint32(l.Offset)
	}

	if d.Kind.IsStore() {
		l.Value, l.ValQ = e.rsOperand(d.Rs2)
	} else {
		l.ValQ = e.readySentinel()
		// Loads rename their destination register; stores don't have
		// one. Renamed only now, after the base (and for a load,
		// there is no second source) has been read (spec §4.5).
		if d.Rd != 0 {
			e.regMarkProducer(d.Rd, robIdx)
		}
	}

	e.robEntryAt(robIdx).State = StateExecute
	return true
}
