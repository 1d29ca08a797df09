// Package loader reads a Verilog-hex memory image and places its
// bytes into a simulator's memory.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/northbridge-labs/rvsim/internal/mem"
)

// LoadResult reports where loading left off, for callers that need to
// know the default entry point (the lowest address the image wrote
// to) or the highest address touched.
type LoadResult struct {
	MinAddr uint32
	MaxAddr uint32
	Bytes   int
}

// Load reads a Verilog-hex image from r and writes its bytes into m
// (spec §6). The format is a whitespace-separated stream of
// two-character hex byte tokens, optionally interrupted by `@addr`
// directives that reposition the write cursor; `//` starts a
// line comment. Bytes whose address falls outside memory are
// silently discarded, matching mem.Memory.LoadByteAt.
func Load(r io.Reader, m *mem.Memory) (LoadResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		cursor  uint32
		started bool
		res     LoadResult
		line    int
	)

	for scanner.Scan() {
		line++
		text := scanner.Text()
		if idx := strings.Index(text, "//"); idx >= 0 {
			text = text[:idx]
		}

		for _, tok := range strings.Fields(text) {
			if strings.HasPrefix(tok, "@") {
				addr, err := strconv.ParseUint(tok[1:], 16, 32)
				if err != nil {
					return res, fmt.Errorf("loader: line %d: bad address directive %q: %w", line, tok, err)
				}
				cursor = uint32(addr)
				continue
			}

			v, err := strconv.ParseUint(tok, 16, 8)
			if err != nil {
				return res, fmt.Errorf("loader: line %d: bad hex byte %q: %w", line, tok, err)
			}

			m.LoadByteAt(cursor, byte(v))
			if !started || cursor < res.MinAddr {
				res.MinAddr = cursor
			}
			if !started || cursor > res.MaxAddr {
				res.MaxAddr = cursor
			}
			started = true
			res.Bytes++
			cursor++
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("loader: %w", err)
	}
	return res, nil
}
