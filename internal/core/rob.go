package core

// robEntryAt returns a pointer to the ROB slot at idx for in-place
// mutation by the pipeline stages.
func (e *Engine) robEntryAt(idx int) *robEntry { return &e.rob.entries[idx] }

// robHeadIdx returns the index of the oldest in-flight instruction.
// Callers must check robSize() > 0 first.
func (e *Engine) robHeadIdx() int { return e.rob.head }

// robOlderOrEqual reports whether ROB slot a is no younger than slot b
// in program order (a committed no later than b), judged relative to
// the current head rather than by raw index comparison (the ring
// wraps). The store-to-load checks in lsb.go compare robDistance
// values directly and do not call it.
func (e *Engine) robOlderOrEqual(a, b int) bool {
	return e.robDistance(a) <= e.robDistance(b)
}
