package core

import (
	"github.com/northbridge-labs/rvsim/internal/isa"
)

// fetchFull reports whether the fetch buffer has no room for another
// word.
func (e *Engine) fetchFull() bool {
	return e.fetch.size >= len(e.fetch.entries)
}

// fetchEmpty reports whether the fetch buffer has nothing left for
// decode to consume.
func (e *Engine) fetchEmpty() bool {
	return e.fetch.size == 0
}

// fetchPush appends a freshly-fetched word at the tail.
func (e *Engine) fetchPush(word, pc uint32) {
	e.fetch.entries[e.fetch.tail] = fetchEntry{Valid: true, Word: word, PC: pc}
	e.fetch.tail = (e.fetch.tail + 1) % len(e.fetch.entries)
	e.fetch.size++
}

// fetchPeek returns the oldest buffered word without removing it.
func (e *Engine) fetchPeek() *fetchEntry {
	return &e.fetch.entries[e.fetch.head]
}

// fetchPop removes the oldest buffered word.
func (e *Engine) fetchPop() {
	e.fetch.entries[e.fetch.head] = fetchEntry{}
	e.fetch.head = (e.fetch.head + 1) % len(e.fetch.entries)
	e.fetch.size--
}

// fetchStage pulls the next instruction word from memory into the
// fetch buffer, advancing PC by 4, unless the buffer is full (spec
// §4.1). It never predicts non-sequential control flow itself on the
// fetch side: branch targets are computed in execute and acted on
// only at commit, so the fetch stage always walks straight-line
// addresses between flushes.
func (e *Engine) fetchStage() error {
	if e.Halted || e.FetchStalled {
		return nil
	}
	if e.fetchFull() {
		return nil
	}

	word, err := e.Mem.ReadWord(e.PC)
	if err != nil {
		return &SimError{Cycle: e.Cycle, PC: e.PC, Message: "fetch", Wrapped: err}
	}

	e.fetchPush(word, e.PC)
	if word == isa.HaltWord {
		e.FetchStalled = true
		return nil
	}
	e.PC += 4
	return nil
}
