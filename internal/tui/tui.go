// Package tui implements a read-only live view of the pipeline's
// structural occupancy (ROB, reservation stations, load/store
// buffer), the register file, and the program counter, refreshed
// once per tick.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/northbridge-labs/rvsim/internal/core"
)

// Viewer is the terminal pipeline monitor. Unlike the teacher's
// interactive debugger, it never accepts commands that change
// simulation state: it only calls Tick and renders what happened.
type Viewer struct {
	engine *core.Engine

	app           *tview.Application
	pipelineView  *tview.TextView
	registerView  *tview.TextView
	statusView    *tview.TextView

	tickDelay time.Duration
}

// NewViewer builds a viewer over engine, advancing one tick every
// delay (0 means as fast as the terminal can redraw).
func NewViewer(engine *core.Engine, delay time.Duration) *Viewer {
	v := &Viewer{engine: engine, app: tview.NewApplication(), tickDelay: delay}
	v.initializeViews()
	return v
}

func (v *Viewer) initializeViews() {
	v.pipelineView = tview.NewTextView().SetDynamicColors(true)
	v.pipelineView.SetBorder(true).SetTitle(" Pipeline ")

	v.registerView = tview.NewTextView().SetDynamicColors(true)
	v.registerView.SetBorder(true).SetTitle(" Registers ")

	v.statusView = tview.NewTextView().SetDynamicColors(true)
	v.statusView.SetBorder(true).SetTitle(" Status ")

	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(v.pipelineView, 0, 1, false).
		AddItem(v.registerView, 0, 2, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 0, 4, false).
		AddItem(v.statusView, 3, 0, false)

	v.app.SetRoot(layout, true)
	v.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC || event.Rune() == 'q' {
			v.app.Stop()
			return nil
		}
		return event
	})
}

// Run drives the engine to completion (halt, a runtime error, or
// maxCycles reached) while rendering its state after every tick.
func (v *Viewer) Run(maxCycles uint64) error {
	var runErr error
	go func() {
		for maxCycles == 0 || v.engine.CycleCount() < maxCycles {
			if v.engine.IsHalted() {
				break
			}
			if err := v.engine.Tick(); err != nil {
				runErr = err
				break
			}
			v.app.QueueUpdateDraw(v.refresh)
			if v.tickDelay > 0 {
				time.Sleep(v.tickDelay)
			}
		}
		v.app.QueueUpdateDraw(v.refresh)
		v.app.Stop()
	}()

	if err := v.app.Run(); err != nil {
		return err
	}
	return runErr
}

func (v *Viewer) refresh() {
	rob, rs, lsb := v.engine.Capacities()
	var sb strings.Builder
	fmt.Fprintf(&sb, "ROB   %3d/%3d %s\n", v.engine.ROBOccupancy(), rob, bar(v.engine.ROBOccupancy(), rob))
	fmt.Fprintf(&sb, "RS    %3d/%3d %s\n", v.engine.RSOccupancy(), rs, bar(v.engine.RSOccupancy(), rs))
	fmt.Fprintf(&sb, "LSB   %3d/%3d %s\n", v.engine.LSBOccupancy(), lsb, bar(v.engine.LSBOccupancy(), lsb))
	v.pipelineView.SetText(sb.String())

	var rb strings.Builder
	for i := 0; i < 32; i += 4 {
		for j := 0; j < 4; j++ {
			r := i + j
			fmt.Fprintf(&rb, "x%-2d=%08x  ", r, v.engine.RegisterValue(uint8(r)))
		}
		rb.WriteByte('\n')
	}
	v.registerView.SetText(rb.String())

	state := "running"
	if v.engine.IsHalted() {
		state = "halted"
	}
	v.statusView.SetText(fmt.Sprintf("pc=0x%08x  cycle=%d  state=%s", v.engine.ProgramCounter(), v.engine.CycleCount(), state))
}

// bar renders a fixed-width ASCII occupancy gauge.
func bar(occupied, capacity int) string {
	const width = 20
	if capacity <= 0 {
		return ""
	}
	filled := occupied * width / capacity
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
