package app

import (
	"errors"
	"fmt"
	"io"
	"time"

	"nesdot/internal/bus"
	"nesdot/internal/debug"
	"nesdot/internal/logger"
)

// Emulator runs the console one displayed frame at a time under the
// control of the monitor, which owns pause and breakpoint state. It must
// only be used from the goroutine driving the window.
type Emulator struct {
	console *bus.Console
	monitor *debug.Monitor

	// interactive keeps the run alive after a halt or fault so the
	// monitor can inspect the machine
	interactive bool

	frames      uint64
	fps         float64
	fpsFrames   int
	lastFPSTime time.Time
	startTime   time.Time
}

// NewEmulator wraps a console. Monitor output goes to out.
func NewEmulator(console *bus.Console, tracer *debug.Tracer, out io.Writer, interactive bool) *Emulator {
	now := time.Now()
	return &Emulator{
		console:     console,
		monitor:     debug.NewMonitor(console, tracer, out),
		interactive: interactive,
		lastFPSTime: now,
		startTime:   now,
	}
}

// RunFrame advances the console by one frame unless paused. A BRK halt
// or a fault ends a non-interactive run with the error; an interactive
// run logs it and stays paused.
func (e *Emulator) RunFrame() error {
	if e.monitor.Paused() {
		e.updateFPS(false)
		return nil
	}
	if err := e.monitor.RunFrame(); err != nil {
		return e.stopped(err)
	}
	e.updateFPS(true)
	return nil
}

func (e *Emulator) stopped(err error) error {
	pc := e.console.CPU.PC
	if errors.Is(err, bus.ErrHalted) {
		logger.Logf("EMULATOR", "halted at $%04X after %d frames", pc, e.console.Frames())
	} else {
		logger.Logf("EMULATOR", "fault at $%04X: %v", pc, err)
	}
	if e.interactive {
		return nil
	}
	return err
}

func (e *Emulator) updateFPS(ran bool) {
	if ran {
		e.frames++
		e.fpsFrames++
	}
	now := time.Now()
	if elapsed := now.Sub(e.lastFPSTime); elapsed >= time.Second {
		e.fps = float64(e.fpsFrames) / elapsed.Seconds()
		e.fpsFrames = 0
		e.lastFPSTime = now
	}
}

// Execute runs a monitor command.
func (e *Emulator) Execute(line string) error {
	return e.monitor.Execute(line)
}

// TogglePause stops or resumes emulation.
func (e *Emulator) TogglePause() {
	if e.monitor.Paused() {
		e.monitor.Execute("continue")
		return
	}
	e.monitor.Pause()
}

// StepFrame runs exactly one frame and leaves the emulator paused.
func (e *Emulator) StepFrame() error {
	if err := e.monitor.Execute("frame"); err != nil {
		return e.stopped(err)
	}
	e.updateFPS(true)
	return nil
}

// Reset presses the console's reset button.
func (e *Emulator) Reset() {
	e.monitor.Execute("reset")
}

// Paused reports whether emulation is stopped.
func (e *Emulator) Paused() bool {
	return e.monitor.Paused()
}

// QuitRequested reports whether the monitor's quit command was issued.
func (e *Emulator) QuitRequested() bool {
	return e.monitor.Quit()
}

// Monitor returns the debugger driving the console.
func (e *Emulator) Monitor() *debug.Monitor {
	return e.monitor
}

// Status is the overlay line: frame rate and pause state.
func (e *Emulator) Status() string {
	s := fmt.Sprintf("%.1f FPS", e.fps)
	if e.Paused() {
		s += "  PAUSED"
	}
	return s
}

// GetFrameCount returns the frames run by this emulator.
func (e *Emulator) GetFrameCount() uint64 {
	return e.frames
}

// GetFPS returns the frame rate over the last second.
func (e *Emulator) GetFPS() float64 {
	return e.fps
}

// GetUptime returns the time since the emulator was created.
func (e *Emulator) GetUptime() time.Duration {
	return time.Since(e.startTime)
}
