// Command rvsim runs a RV32I program image through the speculative
// out-of-order pipeline and prints its result.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/northbridge-labs/rvsim/internal/config"
	"github.com/northbridge-labs/rvsim/internal/core"
	"github.com/northbridge-labs/rvsim/internal/loader"
	"github.com/northbridge-labs/rvsim/internal/mem"
	"github.com/northbridge-labs/rvsim/internal/scalar"
	"github.com/northbridge-labs/rvsim/internal/stats"
	"github.com/northbridge-labs/rvsim/internal/trace"
	"github.com/northbridge-labs/rvsim/internal/tui"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		configPath  = flag.String("config", "", "Path to TOML config file (default: platform config dir)")
		imagePath   = flag.String("image", "", "Path to memory image file (default: standard input)")
		maxCycles   = flag.Uint64("max-cycles", 0, "Maximum cycles before giving up (0: use config)")
		entry       = flag.Uint64("entry", 0, "Entry program counter")

		useScalar = flag.Bool("scalar", false, "Run the sequential scalar reference interpreter instead of the out-of-order engine")
		useTUI    = flag.Bool("tui", false, "Show a live pipeline occupancy view while running")

		enableTrace = flag.Bool("trace", false, "Enable commit trace")
		traceFile   = flag.String("trace-file", "", "Trace output file (default: config trace output_file)")
		traceFormat = flag.String("trace-format", "", "Trace format: text, json (default: config)")

		enableStats = flag.Bool("stats", false, "Enable performance statistics")
		statsFile   = flag.String("stats-file", "", "Statistics output file (default: config statistics output_file)")
		statsFormat = flag.String("stats-format", "", "Statistics format: json, csv, html (default: config)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("rvsim %s\n", Version)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rvsim: %v\n", err)
		os.Exit(1)
	}

	m := mem.New()
	if err := loadImage(*imagePath, m); err != nil {
		fmt.Fprintf(os.Stderr, "rvsim: %v\n", err)
		os.Exit(1)
	}

	effectiveMaxCycles := *maxCycles
	if effectiveMaxCycles == 0 {
		effectiveMaxCycles = cfg.Pipeline.MaxCycles
	}

	if *useScalar {
		runScalar(m, uint32(*entry), effectiveMaxCycles)
		return
	}

	rob, rs, lsb, fetch := cfg.CoreConfig()
	engine := core.NewEngine(core.Config{
		ROBCapacity:   rob,
		RSCount:       rs,
		LSBCount:      lsb,
		FetchCapacity: fetch,
	}, m, uint32(*entry))

	recorder, collector := wireObservers(engine, cfg, *enableTrace, *enableStats)

	var runErr error
	var cycles uint64
	if *useTUI {
		v := tui.NewViewer(engine, 0)
		runErr = v.Run(effectiveMaxCycles)
		cycles = engine.CycleCount()
	} else {
		cycles, runErr = engine.Run(effectiveMaxCycles)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "rvsim: fatal error at cycle %d: %v\n", cycles, runErr)
		os.Exit(1)
	}
	if !engine.IsHalted() {
		fmt.Fprintf(os.Stderr, "rvsim: did not halt within %d cycles\n", effectiveMaxCycles)
		os.Exit(1)
	}

	if recorder != nil {
		if err := exportTrace(recorder, cfg, *traceFile, *traceFormat); err != nil {
			fmt.Fprintf(os.Stderr, "rvsim: %v\n", err)
		}
	}
	if collector != nil {
		collector.Finalize(engine)
		if err := exportStats(collector, cfg, *statsFile, *statsFormat); err != nil {
			fmt.Fprintf(os.Stderr, "rvsim: %v\n", err)
		}
	}

	fmt.Println(engine.RegisterValue(10) & 0xFF)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func loadImage(path string, m *mem.Memory) error {
	src := os.Stdin
	if path != "" {
		f, err := os.Open(path) // #nosec G304 -- user-specified image path
		if err != nil {
			return fmt.Errorf("opening image: %w", err)
		}
		defer f.Close()
		src = f
	}
	_, err := loader.Load(src, m)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}
	return nil
}

func runScalar(m *mem.Memory, entry uint32, maxCycles uint64) {
	machine := scalar.New(m, entry)
	_, err := machine.Run(maxCycles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rvsim: fatal error: %v\n", err)
		os.Exit(1)
	}
	if !machine.Halted {
		fmt.Fprintf(os.Stderr, "rvsim: did not halt within %d cycles\n", maxCycles)
		os.Exit(1)
	}
	fmt.Println(machine.Regs[10] & 0xFF)
}

// wireObservers installs a combined commit hook that fans out to
// whichever of trace/stats collection is enabled, since core.Engine
// only has room for a single hook.
func wireObservers(e *core.Engine, cfg *config.Config, enableTrace, enableStats bool) (*trace.Recorder, *stats.Collector) {
	var recorder *trace.Recorder
	var collector *stats.Collector

	if enableTrace {
		recorder = trace.NewRecorder(cfg.Trace.MaxEntries)
		if cfg.Trace.FilterRegs != "" {
			recorder.SetFilterRegisters(strings.Split(cfg.Trace.FilterRegs, ","))
		}
	}
	if enableStats {
		collector = stats.NewCollector()
	}

	if recorder == nil && collector == nil {
		return nil, nil
	}
	e.SetCommitHook(func(rec core.CommitRecord) {
		if recorder != nil {
			recorder.Record(rec)
		}
		if collector != nil {
			collector.Record(rec)
		}
	})
	return recorder, collector
}

func exportTrace(r *trace.Recorder, cfg *config.Config, filePath, format string) (err error) {
	path := filePath
	if path == "" {
		path = cfg.Trace.OutputFile
	}
	format = resolveFormat(format, cfg.Trace.Format, "text")

	f, err := os.Create(path) // #nosec G304 -- user-specified trace output path
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing trace file: %w", cerr)
		}
	}()

	if format == "json" {
		return r.WriteJSON(f)
	}
	return r.WriteText(f)
}

func exportStats(c *stats.Collector, cfg *config.Config, filePath, format string) (err error) {
	path := filePath
	if path == "" {
		path = cfg.Statistics.OutputFile
	}
	format = resolveFormat(format, cfg.Statistics.Format, "json")

	f, err := os.Create(path) // #nosec G304 -- user-specified statistics output path
	if err != nil {
		return fmt.Errorf("creating statistics file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing statistics file: %w", cerr)
		}
	}()

	switch format {
	case "csv":
		return c.WriteCSV(f)
	case "html":
		return c.WriteHTML(f)
	default:
		return c.WriteJSON(f)
	}
}

func resolveFormat(flagValue, configValue, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if configValue != "" {
		return configValue
	}
	return fallback
}
