package debug

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"nesdot/internal/bus"
	"nesdot/internal/cpu"
)

// preRenderLabel is how the pre-render line appears in trace logs.
const preRenderLabel = 261

// Tracer writes one line per instruction in the nestest log layout:
//
//	C000  4C F5 C5  JMP $C5F5                       A:00 X:00 Y:00 P:24 SP:FD PPU:  0, 21 CYC:7
type Tracer struct {
	w    *bufio.Writer
	peek func(uint16) uint8
}

// NewTracer creates a tracer writing to w and reading instruction bytes
// through peek.
func NewTracer(w io.Writer, peek func(uint16) uint8) *Tracer {
	return &Tracer{w: bufio.NewWriter(w), peek: peek}
}

// Trace logs the instruction about to execute. Its signature matches
// bus.Console.SetTraceHook.
func (t *Tracer) Trace(s bus.State) {
	t.w.WriteString(FormatTrace(s, t.peek))
	t.w.WriteByte('\n')
}

// Flush writes any buffered lines.
func (t *Tracer) Flush() error {
	return t.w.Flush()
}

// FormatTrace renders one trace line for the state s.
func FormatTrace(s bus.State, peek func(uint16) uint8) string {
	text, raw := cpu.Disassemble(peek, s.CPU.PC)

	hex := make([]string, len(raw))
	for i, b := range raw {
		hex[i] = fmt.Sprintf("%02X", b)
	}
	mark := ' '
	if cpu.Lookup(raw[0]).Undocumented {
		mark = '*'
	}

	scanline := s.PPU.Scanline
	if scanline < 0 {
		scanline = preRenderLabel
	}

	return fmt.Sprintf("%04X  %-9s%c%-32sA:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d",
		s.CPU.PC, strings.Join(hex, " "), mark, text,
		s.CPU.A, s.CPU.X, s.CPU.Y, s.CPU.P, s.CPU.SP,
		scanline, s.PPU.Dot, s.CPU.Cycles)
}
