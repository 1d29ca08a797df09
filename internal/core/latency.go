package core

// aluLatencyCycles is the fixed latency of every arithmetic/logical
// ALU and branch-condition evaluation (spec §4.4): one cycle from the
// moment a station's operands are ready to the moment its result is
// available for broadcast.
const aluLatencyCycles = 1

// memLatencyCycles is the fixed latency of a memory access, load or
// store, measured from the moment its address (and, for stores, its
// value) is known (spec §4.6/§4.7).
const memLatencyCycles = 3
