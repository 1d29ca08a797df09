package core

// writebackStage publishes the results that finished executing last
// cycle onto the common data bus (spec §4.5): every reservation
// station is freed once its value is broadcast, every completed load
// likewise, and every store whose address and value are both known is
// marked ready for the commit stage's memory write. Nothing here
// retires an instruction; it only makes results visible.
func (e *Engine) writebackStage() {
	for i := range e.rs {
		rs := &e.rs[i]
		if !rs.Busy || !rs.started || rs.remaining != 0 {
			continue
		}
		rob := e.robEntryAt(rs.Dest)
		if rob.State != StateExecute {
			continue
		}
		if !rs.Kind.IsBranch() {
			e.lastBroadcasts = append(e.lastBroadcasts, cdbBroadcast{ROBIdx: rs.Dest, Value: rob.Value})
		}
		rob.State = StateWriteback
		*rs = rsEntry{}
	}

	for i := range e.lsb {
		l := &e.lsb[i]
		if !l.Busy {
			continue
		}
		rob := e.robEntryAt(l.Dest)
		if rob.State != StateExecute {
			continue
		}

		if l.Kind.IsLoad() {
			if !l.ExecuteCompleted {
				continue
			}
			rob.Value = l.Value
			e.lastBroadcasts = append(e.lastBroadcasts, cdbBroadcast{ROBIdx: l.Dest, Value: l.Value})
			rob.State = StateWriteback
			*l = lsbEntry{}
			continue
		}

		// store: ready once both operands are known; the slot stays
		// alive for program-order disambiguation and commit's write.
		// Per spec §4.6 the ROB entry advances with value 0 (a store
		// produces no register value); the data to write is read back
		// off this same LSB slot at commit.
		if l.AddrReady && e.lsbValueReady(l) {
			rob.Addr = l.Addr
			rob.Value = 0
			rob.State = StateWriteback
		}
	}
}
