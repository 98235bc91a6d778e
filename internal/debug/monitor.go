package debug

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/prefixtree/v2"

	"nesdot/internal/bus"
	"nesdot/internal/logger"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrAmbiguousCommand = errors.New("ambiguous command")
)

type command struct {
	name  string
	usage string
	run   func(m *Monitor, args []string) error
}

var commands = []command{
	{"step", "step [n]", (*Monitor).cmdStep},
	{"frame", "frame", (*Monitor).cmdFrame},
	{"regs", "regs", (*Monitor).cmdRegs},
	{"mem", "mem <addr> [len]", (*Monitor).cmdMem},
	{"break", "break <addr>", (*Monitor).cmdBreak},
	{"clear", "clear [addr]", (*Monitor).cmdClear},
	{"continue", "continue", (*Monitor).cmdContinue},
	{"trace", "trace on|off", (*Monitor).cmdTrace},
	{"dump", "dump <file>", (*Monitor).cmdDump},
	{"log", "log [n]", (*Monitor).cmdLog},
	{"reset", "reset", (*Monitor).cmdReset},
	{"help", "help", (*Monitor).cmdHelp},
	{"quit", "quit", (*Monitor).cmdQuit},
}

// Monitor is an interactive debugger for a console. Commands may be
// abbreviated to any unambiguous prefix. All methods must be called
// from the goroutine that runs the console.
type Monitor struct {
	console *bus.Console
	tracer  *Tracer
	out     io.Writer
	tree    *prefixtree.Tree[*command]
	list    []command

	breakpoints map[uint16]bool
	paused      bool
	resume      bool // step over a breakpoint at the current PC
	quit        bool
}

// NewMonitor creates a monitor printing to out. The tracer backs the
// trace command and may be nil.
func NewMonitor(console *bus.Console, tracer *Tracer, out io.Writer) *Monitor {
	m := &Monitor{
		console:     console,
		tracer:      tracer,
		out:         out,
		tree:        prefixtree.New[*command](),
		list:        commands,
		breakpoints: make(map[uint16]bool),
	}
	for i := range m.list {
		m.tree.Add(m.list[i].name, &m.list[i])
	}
	return m
}

// Execute runs one command line. Empty lines are ignored.
func (m *Monitor) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, err := m.tree.FindValue(strings.ToLower(fields[0]))
	switch {
	case errors.Is(err, prefixtree.ErrPrefixAmbiguous):
		return fmt.Errorf("%w: %s", ErrAmbiguousCommand, fields[0])
	case err != nil:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
	return cmd.run(m, fields[1:])
}

// Paused reports whether emulation is stopped at the prompt.
func (m *Monitor) Paused() bool { return m.paused }

// Pause stops emulation before the next instruction.
func (m *Monitor) Pause() { m.paused = true }

// Quit reports whether the quit command was issued.
func (m *Monitor) Quit() bool { return m.quit }

// RunFrame runs the console to the end of the current frame, stopping
// early at a breakpoint.
func (m *Monitor) RunFrame() error {
	if m.paused {
		return nil
	}
	start := m.console.Frames()
	for m.console.Frames() == start {
		if m.atBreakpoint() {
			return nil
		}
		if _, err := m.console.Step(); err != nil {
			m.paused = true
			return err
		}
	}
	return nil
}

func (m *Monitor) atBreakpoint() bool {
	pc := m.console.CPU.PC
	if m.resume {
		m.resume = false
		return false
	}
	if !m.breakpoints[pc] {
		return false
	}
	m.paused = true
	fmt.Fprintf(m.out, "break at $%04X\n", pc)
	return true
}

func (m *Monitor) cmdStep(args []string) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return fmt.Errorf("bad count %q", args[0])
		}
		n = v
	}
	m.paused = true
	for i := 0; i < n; i++ {
		if _, err := m.console.Step(); err != nil {
			return err
		}
	}
	return m.cmdRegs(nil)
}

func (m *Monitor) cmdFrame([]string) error {
	m.paused = false
	m.resume = true
	err := m.RunFrame()
	m.paused = true
	if err != nil {
		return err
	}
	return m.cmdRegs(nil)
}

func (m *Monitor) cmdRegs([]string) error {
	fmt.Fprintln(m.out, FormatTrace(m.console.State(), m.console.Peek))
	return nil
}

func (m *Monitor) cmdMem(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: mem <addr> [len]")
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	length := 64
	if len(args) > 1 {
		if length, err = strconv.Atoi(args[1]); err != nil || length < 1 {
			return fmt.Errorf("bad length %q", args[1])
		}
	}
	for row := 0; row < length; row += 16 {
		fmt.Fprintf(m.out, "%04X:", addr+uint16(row))
		for i := row; i < min(row+16, length); i++ {
			fmt.Fprintf(m.out, " %02X", m.console.Peek(addr+uint16(i)))
		}
		fmt.Fprintln(m.out)
	}
	return nil
}

func (m *Monitor) cmdBreak(args []string) error {
	if len(args) == 0 {
		addrs := make([]int, 0, len(m.breakpoints))
		for a := range m.breakpoints {
			addrs = append(addrs, int(a))
		}
		sort.Ints(addrs)
		for _, a := range addrs {
			fmt.Fprintf(m.out, "$%04X\n", a)
		}
		return nil
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	m.breakpoints[addr] = true
	return nil
}

// AddBreakpoint stops execution when PC reaches addr.
func (m *Monitor) AddBreakpoint(addr uint16) {
	m.breakpoints[addr] = true
}

func (m *Monitor) cmdClear(args []string) error {
	if len(args) == 0 {
		clear(m.breakpoints)
		return nil
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	delete(m.breakpoints, addr)
	return nil
}

func (m *Monitor) cmdContinue([]string) error {
	m.paused = false
	m.resume = true
	return nil
}

func (m *Monitor) cmdTrace(args []string) error {
	if m.tracer == nil {
		return errors.New("no trace output configured")
	}
	switch {
	case len(args) == 1 && args[0] == "on":
		m.console.SetTraceHook(m.tracer.Trace)
	case len(args) == 1 && args[0] == "off":
		m.console.SetTraceHook(nil)
		return m.tracer.Flush()
	default:
		return errors.New("usage: trace on|off")
	}
	return nil
}

func (m *Monitor) cmdDump(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: dump <file>")
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := DumpFrame(f, m.console.FrameBuffer(), m.console.Frames()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (m *Monitor) cmdLog(args []string) error {
	n := 20
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil {
			n = v
		}
	}
	logger.Tail(m.out, n)
	return nil
}

func (m *Monitor) cmdReset([]string) error {
	m.console.Reset()
	logger.Logf("MONITOR", "console reset")
	return nil
}

func (m *Monitor) cmdHelp([]string) error {
	for _, c := range m.list {
		fmt.Fprintf(m.out, "  %s\n", c.usage)
	}
	return nil
}

func (m *Monitor) cmdQuit([]string) error {
	m.quit = true
	return nil
}

// parseAddress accepts hex in the forms C000, $C000 and 0xC000.
func parseAddress(s string) (uint16, error) {
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", s)
	}
	return uint16(v), nil
}
