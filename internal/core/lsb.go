package core

// lsbFor returns the load/store buffer slot owned by ROB index rob,
// or nil if none is currently allocated to it.
func (e *Engine) lsbFor(rob int) *lsbEntry {
	for i := range e.lsb {
		if e.lsb[i].Busy && e.lsb[i].Dest == rob {
			return &e.lsb[i]
		}
	}
	return nil
}

// findFreeLSB returns the index of an unoccupied load/store buffer
// slot, or -1 if the pool is exhausted.
func (e *Engine) findFreeLSB() int {
	for i := range e.lsb {
		if !e.lsb[i].Busy {
			return i
		}
	}
	return -1
}

// lsbSnoop resolves a load/store buffer slot's base-register and
// (for stores) value operand against this cycle's CDB broadcasts.
func (e *Engine) lsbSnoop(l *lsbEntry, broadcasts []cdbBroadcast) {
	for _, b := range broadcasts {
		if l.BaseQ == b.ROBIdx {
			l.BaseVal = b.Value
			l.BaseQ = e.readySentinel()
		}
		if l.ValQ == b.ROBIdx {
			l.Value = b.Value
			l.ValQ = e.readySentinel()
		}
	}
}

// lsbAddressReady reports whether the base register needed to compute
// this slot's effective address has arrived.
func (e *Engine) lsbAddressReady(l *lsbEntry) bool {
	return l.BaseQ == e.readySentinel()
}

// lsbValueReady reports whether a store's value operand has arrived.
// Meaningless for loads.
func (e *Engine) lsbValueReady(l *lsbEntry) bool {
	return l.ValQ == e.readySentinel()
}

// lsbEarlierUnresolvedStore reports whether any store strictly older
// in program order than the ROB slot rob has an address that is not
// yet known. Per spec §4.6, a load must not read memory, and must not
// forward from a specific store, while any earlier store's target
// address is still ambiguous — it must conservatively wait.
func (e *Engine) lsbEarlierUnresolvedStore(rob int) bool {
	for i := range e.lsb {
		s := &e.lsb[i]
		if !s.Busy || !s.Kind.IsStore() {
			continue
		}
		if e.robDistance(s.Dest) >= e.robDistance(rob) {
			continue
		}
		if !s.AddrReady {
			return true
		}
	}
	return false
}

// lsbForwardingStore returns the most recent (highest program-order)
// busy store slot, earlier than rob, whose resolved address equals
// addr and whose value is already known, or -1 if none qualifies.
// Used by the load execute phase for store-to-load forwarding.
func (e *Engine) lsbForwardingStore(rob int, addr uint32) int {
	best := -1
	for i := range e.lsb {
		s := &e.lsb[i]
		if !s.Busy || !s.Kind.IsStore() {
			continue
		}
		if e.robDistance(s.Dest) >= e.robDistance(rob) {
			continue
		}
		if !s.AddrReady || s.Addr != addr || !e.lsbValueReady(s) {
			continue
		}
		if best == -1 || e.robDistance(s.Dest) > e.robDistance(e.lsb[best].Dest) {
			best = i
		}
	}
	return best
}
