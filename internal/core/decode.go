package core

import "github.com/northbridge-labs/rvsim/internal/isa"

// decodeStage turns the oldest fetch-buffer word into a Decoded
// instruction and allocates its ROB slot (spec §4.4). Register rename
// happens later, in dispatch, once both source operands have been
// read (spec §4.5); doing it here would let a self-referencing
// instruction (Rs1==Rd or Rs2==Rd) see its own producer tag as its
// source. It stalls, leaving the fetch buffer untouched, whenever the
// decode latch is still occupied (the dispatch stage has not yet
// issued the previous decode) or the ROB has no free slot.
func (e *Engine) decodeStage() error {
	if e.decodeLatchValid {
		return nil
	}
	if e.fetchEmpty() {
		return nil
	}
	if e.robFull() {
		return nil
	}

	fe := e.fetchPeek()
	d, err := isa.Decode(fe.Word, fe.PC)
	if err != nil {
		return &SimError{Cycle: e.Cycle, PC: fe.PC, Message: "decode", Wrapped: err}
	}
	e.fetchPop()

	robIdx := e.robPush()
	re := e.robEntryAt(robIdx)
	re.Kind = d.Kind
	re.PC = d.PC
	re.Dest = d.Rd
	re.Rs1 = d.Rs1
	re.Rs2 = d.Rs2
	re.Imm = d.Imm
	re.State = StateDispatch
	if d.Kind.IsBranch() {
		re.IsBranch = true
		re.PredictedTaken = false // spec §4.9: static not-taken prediction
	}

	e.decodeLatch = d
	e.decodeLatchROB = robIdx
	e.decodeLatchValid = true
	return nil
}
