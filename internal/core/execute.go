package core

import "github.com/northbridge-labs/rvsim/internal/isa"

// executeStage advances every in-flight reservation-station and
// load/store-buffer entry by one cycle: snooping the bus for operands
// that just arrived, starting newly-ready operations, and ticking down
// the latency of operations already running (spec §4.4, §4.6, §4.7).
// At most one new ALU/branch operation and one new load may start per
// cycle, chosen in program order, modeling a single execution unit of
// each kind.
func (e *Engine) executeStage() error {
	e.executeRS()
	return e.executeLSB()
}

func (e *Engine) executeRS() {
	for i := range e.rs {
		rs := &e.rs[i]
		if !rs.Busy {
			continue
		}
		e.rsSnoop(rs, e.lastBroadcasts)
	}

	if slot := e.selectRSToStart(); slot != -1 {
		e.startRS(slot)
	}
}

// selectRSToStart picks the oldest-in-program-order reservation
// station whose operands are ready and which has not yet begun
// executing.
func (e *Engine) selectRSToStart() int {
	best := -1
	for i := range e.rs {
		rs := &e.rs[i]
		if !rs.Busy || rs.started || !e.rsReady(rs) {
			continue
		}
		if best == -1 || e.robDistance(rs.Dest) < e.robDistance(e.rs[best].Dest) {
			best = i
		}
	}
	return best
}

func (e *Engine) startRS(slot int) {
	rs := &e.rs[slot]
	rs.started = true
	rs.remaining = aluLatencyCycles - 1

	rob := e.robEntryAt(rs.Dest)
	switch {
	case rs.Kind.IsBranch():
		rob.ActualTaken = branchTaken(rs.Kind, rs.Vj, rs.Vk)
		if rob.ActualTaken {
			rob.TargetPC = uint32(int64(rob.PC) + int64(rs.Imm))
		} else {
			rob.TargetPC = rob.PC + 4
		}
	case rs.Kind == isa.JAL:
		rob.Value = rob.PC + 4
		rob.TargetPC = uint32(int64(rob.PC) + int64(rs.Imm))
	case rs.Kind == isa.JALR:
		rob.Value = rob.PC + 4
		rob.TargetPC = (rs.Vj + uint32(rs.Imm)) &^ 1
	case rs.Kind == isa.LUI:
		rob.Value = uint32(rs.Imm)
	case rs.Kind == isa.AUIPC:
		rob.Value = rob.PC + uint32(rs.Imm)
	default:
		rob.Value = isa.ALU(rs.Kind, rs.Vj, rs.Vk, rs.Imm)
	}
}

func branchTaken(kind isa.Kind, vj, vk uint32) bool {
	switch kind {
	case isa.BEQ:
		return vj == vk
	case isa.BNE:
		return vj != vk
	case isa.BLT:
		return int32(vj) < int32(vk)
	case isa.BGE:
		return int32(vj) >= int32(vk)
	case isa.BLTU:
		return vj < vk
	case isa.BGEU:
		return vj >= vk
	default:
		return false
	}
}

func (e *Engine) executeLSB() error {
	for i := range e.lsb {
		l := &e.lsb[i]
		if !l.Busy {
			continue
		}
		l.addrReadyThisCycle = false
		e.lsbSnoop(l, e.lastBroadcasts)
		if !l.AddrReady && e.lsbAddressReady(l) {
			l.AddrReady = true
			l.Addr = l.BaseVal + uint32(l.Offset)
			l.addrReadyThisCycle = true
		}
		if l.started && !l.ExecuteCompleted && l.remaining > 0 {
			l.remaining--
		}
	}

	if !e.Halted {
		if slot := e.selectLoadToStart(); slot != -1 {
			if err := e.startLoad(slot); err != nil {
				return err
			}
		}
	}

	for i := range e.lsb {
		l := &e.lsb[i]
		if l.Busy && l.started && !l.ExecuteCompleted && l.remaining == 0 {
			if err := e.completeLoad(l); err != nil {
				return err
			}
		}
	}
	return nil
}

// selectLoadToStart picks the oldest-in-program-order load whose
// address is known and which is not blocked behind an earlier store
// of unknown address (spec §4.6's conservative disambiguation rule).
// An address that resolved this very cycle is not yet eligible; it
// must wait one tick (spec §4.6).
func (e *Engine) selectLoadToStart() int {
	best := -1
	for i := range e.lsb {
		l := &e.lsb[i]
		if !l.Busy || !l.Kind.IsLoad() || l.started || !l.AddrReady || l.addrReadyThisCycle {
			continue
		}
		if e.lsbEarlierUnresolvedStore(l.Dest) {
			continue
		}
		if best == -1 || e.robDistance(l.Dest) < e.robDistance(e.lsb[best].Dest) {
			best = i
		}
	}
	return best
}

func (e *Engine) startLoad(slot int) error {
	l := &e.lsb[slot]
	l.started = true

	if fwd := e.lsbForwardingStore(l.Dest, l.Addr); fwd != -1 {
		l.Value = maskLoad(l.Kind, e.lsb[fwd].Value)
		l.ExecuteCompleted = true
		e.ForwardingHits++
		return nil
	}

	l.remaining = memLatencyCycles - 1
	return nil
}

func (e *Engine) completeLoad(l *lsbEntry) error {
	v, err := e.readMemForLoad(l.Kind, l.Addr)
	if err != nil {
		return &SimError{Cycle: e.Cycle, PC: e.robEntryAt(l.Dest).PC, Message: "load", Wrapped: err}
	}
	l.Value = v
	l.ExecuteCompleted = true
	return nil
}

func (e *Engine) readMemForLoad(kind isa.Kind, addr uint32) (uint32, error) {
	switch kind {
	case isa.LB:
		b, err := e.Mem.ReadByte(addr)
		return uint32(int32(int8(b))), err
	case isa.LBU:
		b, err := e.Mem.ReadByte(addr)
		return uint32(b), err
	case isa.LH:
		h, err := e.Mem.ReadHalf(addr)
		return uint32(int32(int16(h))), err
	case isa.LHU:
		h, err := e.Mem.ReadHalf(addr)
		return uint32(h), err
	default: // LW
		return e.Mem.ReadWord(addr)
	}
}

// maskLoad applies a load's width/signedness to a value forwarded
// directly from an in-flight store, which is always held as a full
// word.
func maskLoad(kind isa.Kind, stored uint32) uint32 {
	switch kind {
	case isa.LB:
		return uint32(int32(int8(byte(stored))))
	case isa.LBU:
		return uint32(byte(stored))
	case isa.LH:
		return uint32(int32(int16(uint16(stored))))
	case isa.LHU:
		return uint32(uint16(stored))
	default:
		return stored
	}
}
