// Package stats collects execution statistics from a running
// simulation and renders them as JSON, CSV, or HTML.
package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"github.com/northbridge-labs/rvsim/internal/core"
)

// InstructionStat is the retirement count for one instruction kind.
type InstructionStat struct {
	Kind  string
	Count uint64
}

// Collector accumulates retirement-level statistics. Install Record as
// an engine's commit hook; call Finalize once the run ends to pull in
// the engine's own running counters.
type Collector struct {
	Enabled bool

	TotalInstructions uint64
	TotalCycles       uint64
	BranchCount       uint64
	MispredictCount   uint64
	LoadCount         uint64
	StoreCount        uint64
	ForwardingHits    uint64

	counts map[string]uint64
}

// NewCollector returns an enabled, empty Collector.
func NewCollector() *Collector {
	return &Collector{Enabled: true, counts: make(map[string]uint64)}
}

// Record is the core.CommitRecord hook.
func (c *Collector) Record(rec core.CommitRecord) {
	if !c.Enabled {
		return
	}
	c.TotalInstructions++
	c.counts[rec.Kind.String()]++
	if rec.Kind.IsBranch() {
		c.BranchCount++
		if rec.Mispredicted {
			c.MispredictCount++
		}
	}
	if rec.Kind.IsLoad() {
		c.LoadCount++
	}
	if rec.Kind.IsStore() {
		c.StoreCount++
	}
}

// Finalize pulls cycle count and forwarding-hit count from the engine
// once the run has ended.
func (c *Collector) Finalize(e *core.Engine) {
	c.TotalCycles = e.CycleCount()
	c.ForwardingHits = e.ForwardingHits
}

// IPC returns instructions retired per cycle.
func (c *Collector) IPC() float64 {
	if c.TotalCycles == 0 {
		return 0
	}
	return float64(c.TotalInstructions) / float64(c.TotalCycles)
}

// MispredictRate returns the fraction of branches that were
// mispredicted, in [0, 1].
func (c *Collector) MispredictRate() float64 {
	if c.BranchCount == 0 {
		return 0
	}
	return float64(c.MispredictCount) / float64(c.BranchCount)
}

// ForwardingHitRate returns the fraction of loads satisfied by
// store-to-load forwarding rather than a memory read, in [0, 1].
func (c *Collector) ForwardingHitRate() float64 {
	if c.LoadCount == 0 {
		return 0
	}
	return float64(c.ForwardingHits) / float64(c.LoadCount)
}

// TopInstructions returns the instruction mix sorted by descending
// count.
func (c *Collector) TopInstructions() []InstructionStat {
	out := make([]InstructionStat, 0, len(c.counts))
	for k, v := range c.counts {
		out = append(out, InstructionStat{Kind: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// WriteJSON exports the collected statistics as JSON.
func (c *Collector) WriteJSON(w io.Writer) error {
	data := map[string]interface{}{
		"total_instructions": c.TotalInstructions,
		"total_cycles":       c.TotalCycles,
		"ipc":                c.IPC(),
		"branch_count":       c.BranchCount,
		"mispredict_count":   c.MispredictCount,
		"mispredict_rate":    c.MispredictRate(),
		"load_count":         c.LoadCount,
		"store_count":        c.StoreCount,
		"forwarding_hits":    c.ForwardingHits,
		"forwarding_rate":    c.ForwardingHitRate(),
		"instruction_mix":    c.TopInstructions(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteCSV exports the collected statistics as two CSV blocks: the
// summary metrics, then the instruction mix.
func (c *Collector) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	rows := [][]string{
		{"Total Instructions", fmt.Sprintf("%d", c.TotalInstructions)},
		{"Total Cycles", fmt.Sprintf("%d", c.TotalCycles)},
		{"IPC", fmt.Sprintf("%.4f", c.IPC())},
		{"Branch Count", fmt.Sprintf("%d", c.BranchCount)},
		{"Mispredict Count", fmt.Sprintf("%d", c.MispredictCount)},
		{"Mispredict Rate", fmt.Sprintf("%.4f", c.MispredictRate())},
		{"Load Count", fmt.Sprintf("%d", c.LoadCount)},
		{"Store Count", fmt.Sprintf("%d", c.StoreCount)},
		{"Forwarding Hits", fmt.Sprintf("%d", c.ForwardingHits)},
		{"Forwarding Rate", fmt.Sprintf("%.4f", c.ForwardingHitRate())},
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{}); err != nil {
		return err
	}
	if err := cw.Write([]string{"Instruction", "Count"}); err != nil {
		return err
	}
	for _, s := range c.TopInstructions() {
		if err := cw.Write([]string{s.Kind, fmt.Sprintf("%d", s.Count)}); err != nil {
			return err
		}
	}
	return nil
}

var htmlTemplate = template.Must(template.New("stats").Parse(`
<!DOCTYPE html>
<html>
<head>
    <title>rvsim execution statistics</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        h1 { color: #333; }
        h2 { color: #666; margin-top: 30px; }
        table { border-collapse: collapse; margin: 10px 0; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #4CAF50; color: white; }
        tr:nth-child(even) { background-color: #f2f2f2; }
        .metric { font-weight: bold; }
    </style>
</head>
<body>
    <h1>rvsim execution statistics</h1>

    <h2>Execution summary</h2>
    <table>
        <tr><td class="metric">Total Instructions</td><td>{{.TotalInstructions}}</td></tr>
        <tr><td class="metric">Total Cycles</td><td>{{.TotalCycles}}</td></tr>
        <tr><td class="metric">IPC</td><td>{{printf "%.4f" .IPC}}</td></tr>
    </table>

    <h2>Branch statistics</h2>
    <table>
        <tr><td class="metric">Branch Count</td><td>{{.BranchCount}}</td></tr>
        <tr><td class="metric">Mispredict Count</td><td>{{.MispredictCount}}</td></tr>
        <tr><td class="metric">Mispredict Rate</td><td>{{printf "%.1f%%" .MispredictPct}}</td></tr>
    </table>

    <h2>Memory statistics</h2>
    <table>
        <tr><td class="metric">Load Count</td><td>{{.LoadCount}}</td></tr>
        <tr><td class="metric">Store Count</td><td>{{.StoreCount}}</td></tr>
        <tr><td class="metric">Forwarding Hits</td><td>{{.ForwardingHits}}</td></tr>
        <tr><td class="metric">Forwarding Rate</td><td>{{printf "%.1f%%" .ForwardingPct}}</td></tr>
    </table>

    <h2>Instruction mix</h2>
    <table>
        <tr><th>Instruction</th><th>Count</th></tr>
        {{range .Mix}}
        <tr><td>{{.Kind}}</td><td>{{.Count}}</td></tr>
        {{end}}
    </table>
</body>
</html>
`))

// WriteHTML exports the collected statistics as a standalone HTML
// report.
func (c *Collector) WriteHTML(w io.Writer) error {
	data := struct {
		TotalInstructions uint64
		TotalCycles       uint64
		IPC               float64
		BranchCount       uint64
		MispredictCount   uint64
		MispredictPct     float64
		LoadCount         uint64
		StoreCount        uint64
		ForwardingHits    uint64
		ForwardingPct     float64
		Mix               []InstructionStat
	}{
		TotalInstructions: c.TotalInstructions,
		TotalCycles:       c.TotalCycles,
		IPC:               c.IPC(),
		BranchCount:       c.BranchCount,
		MispredictCount:   c.MispredictCount,
		MispredictPct:     c.MispredictRate() * 100,
		LoadCount:         c.LoadCount,
		StoreCount:        c.StoreCount,
		ForwardingHits:    c.ForwardingHits,
		ForwardingPct:     c.ForwardingHitRate() * 100,
		Mix:               c.TopInstructions(),
	}
	return htmlTemplate.Execute(w, data)
}

// String renders a short human-readable summary, the way a CLI would
// print it to stderr when no output file is requested.
func (c *Collector) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "instructions: %d, cycles: %d, ipc: %.3f\n", c.TotalInstructions, c.TotalCycles, c.IPC())
	fmt.Fprintf(&sb, "branches: %d, mispredicts: %d (%.1f%%)\n", c.BranchCount, c.MispredictCount, c.MispredictRate()*100)
	fmt.Fprintf(&sb, "loads: %d, forwarding hits: %d (%.1f%%)\n", c.LoadCount, c.ForwardingHits, c.ForwardingHitRate()*100)
	return sb.String()
}
