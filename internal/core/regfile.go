package core

// regValue returns the current value of architectural register r,
// honoring RV32I's hardwired x0 (spec §3: "register 0 always reads as
// zero and writes to it are discarded").
func (e *Engine) regValue(r uint8) uint32 {
	if r == 0 {
		return 0
	}
	return e.Regs[r].Value
}

// regBusy reports whether register r has an outstanding producer, and
// if so which ROB slot. x0 is never busy.
func (e *Engine) regBusy(r uint8) (busy bool, producer int) {
	if r == 0 {
		return false, 0
	}
	return e.Regs[r].Busy, e.Regs[r].Producer
}

// regMarkProducer records that ROB slot rob will supply the next
// value written to register r (the rename step of dispatch).
// A no-op for x0.
func (e *Engine) regMarkProducer(r uint8, rob int) {
	if r == 0 {
		return
	}
	e.Regs[r].Busy = true
	e.Regs[r].Producer = rob
}

// regCommitWrite retires the architectural write of value into
// register r, produced by ROB slot rob. The busy bit is cleared only
// if no newer rename has since claimed the register (spec §4.8: a
// register may be renamed again before its original producer
// retires, and that later rename must win).
func (e *Engine) regCommitWrite(r uint8, rob int, value uint32) {
	if r == 0 {
		return
	}
	e.Regs[r].Value = value
	if e.Regs[r].Busy && e.Regs[r].Producer == rob {
		e.Regs[r].Busy = false
	}
}
