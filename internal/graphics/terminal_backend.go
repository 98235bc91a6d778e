package graphics

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"nesdot/internal/ppu"
)

const (
	terminalFrameRate = 60
	// terminals report presses only, so a key holds its button this many frames
	terminalHoldFrames = 8

	defaultTerminalCols = 80
	defaultTerminalRows = 24
)

// TerminalBackend renders frames as coloured half blocks and reads keys
// from stdin in raw mode.
type TerminalBackend struct {
	initialized bool
	config      Config
}

// TerminalWindow implements the Window interface for terminal rendering
type TerminalWindow struct {
	config   Config
	bindings map[string]Binding

	in       *os.File
	out      io.Writer
	outFd    int
	oldState *term.State

	mu     sync.Mutex
	keys   []string
	held   map[Binding]int
	status string
	title  string
}

// NewTerminalBackend creates a new terminal graphics backend
func NewTerminalBackend() Backend {
	return &TerminalBackend{}
}

// Initialize initializes the terminal backend
func (b *TerminalBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("terminal backend already initialized")
	}

	b.config = config
	b.initialized = true
	return nil
}

// CreateWindow switches stdin to raw mode and clears the screen.
func (b *TerminalBackend) CreateWindow(title string) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}
	bindings, err := ParseKeyMaps(b.config)
	if err != nil {
		return nil, err
	}

	w := newTerminalWindow(b.config, bindings, os.Stdin, os.Stdout)
	w.title = title
	w.outFd = int(os.Stdout.Fd())

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return nil, fmt.Errorf("setting raw mode: %w", err)
		}
		w.oldState = state
		go w.readKeys()
	}
	fmt.Fprint(w.out, "\x1b[2J\x1b[?25l")
	return w, nil
}

func newTerminalWindow(config Config, bindings map[string]Binding, in *os.File, out io.Writer) *TerminalWindow {
	return &TerminalWindow{
		config:   config,
		bindings: bindings,
		in:       in,
		out:      out,
		outFd:    -1,
		held:     make(map[Binding]int),
	}
}

// Cleanup releases all terminal resources
func (b *TerminalBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns false (terminal has basic output)
func (b *TerminalBackend) IsHeadless() bool {
	return false
}

// GetName returns the backend name
func (b *TerminalBackend) GetName() string {
	return "Terminal"
}

// readKeys runs until stdin closes. The blocked read is abandoned at exit.
func (w *TerminalWindow) readKeys() {
	buf := make([]byte, 64)
	for {
		n, err := w.in.Read(buf)
		if n > 0 {
			names := decodeKeys(buf[:n])
			w.mu.Lock()
			w.keys = append(w.keys, names...)
			w.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// decodeKeys turns raw terminal input into key names matching the
// Ebitengine names in lower case.
func decodeKeys(raw []byte) []string {
	var names []string
	for len(raw) > 0 {
		if raw[0] == 0x1B {
			name, n := decodeEscape(raw)
			names = append(names, name)
			raw = raw[n:]
			continue
		}
		c := raw[0]
		raw = raw[1:]
		switch {
		case c == 0x03:
			names = append(names, "ctrl+c")
		case c == '\r' || c == '\n':
			names = append(names, "enter")
		case c == ' ':
			names = append(names, "space")
		case c >= '0' && c <= '9':
			names = append(names, "digit"+string(c))
		case c >= 'a' && c <= 'z':
			names = append(names, string(c))
		case c >= 'A' && c <= 'Z':
			names = append(names, string(c+'a'-'A'))
		}
	}
	return names
}

var escapeSequences = []struct {
	seq  string
	name string
}{
	{"\x1b[A", "arrowup"},
	{"\x1b[B", "arrowdown"},
	{"\x1b[C", "arrowright"},
	{"\x1b[D", "arrowleft"},
	{"\x1b[15~", "f5"},
	{"\x1b[24~", "f12"},
}

func decodeEscape(raw []byte) (string, int) {
	for _, e := range escapeSequences {
		if strings.HasPrefix(string(raw), e.seq) {
			return e.name, len(e.seq)
		}
	}
	return "escape", 1
}

// SetTitle is shown on the status line.
func (w *TerminalWindow) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	w.mu.Unlock()
}

// SetStatus sets the text after the title on the status line.
func (w *TerminalWindow) SetStatus(status string) {
	w.mu.Lock()
	w.status = status
	w.mu.Unlock()
}

// PollEvents converts buffered key presses to events and releases
// buttons whose hold time has run out.
func (w *TerminalWindow) PollEvents() []InputEvent {
	w.mu.Lock()
	keys := w.keys
	w.keys = nil
	w.mu.Unlock()

	var events []InputEvent
	for b, frames := range w.held {
		if frames <= 1 {
			delete(w.held, b)
			events = append(events, InputEvent{Type: InputEventTypeButton, Player: b.Player, Button: b.Button})
			continue
		}
		w.held[b] = frames - 1
	}

	for _, key := range keys {
		if key == "escape" || key == "ctrl+c" {
			events = append(events, InputEvent{Type: InputEventTypeQuit, Pressed: true})
			continue
		}
		if action, ok := actionKeys[key]; ok {
			events = append(events, InputEvent{Type: InputEventTypeAction, Action: action, Pressed: true})
			continue
		}
		b, ok := w.bindings[key]
		if !ok {
			continue
		}
		if _, down := w.held[b]; !down {
			events = append(events, InputEvent{Type: InputEventTypeButton, Player: b.Player, Button: b.Button, Pressed: true})
		}
		w.held[b] = terminalHoldFrames
	}
	return events
}

// RenderFrame redraws the screen from the top-left corner.
func (w *TerminalWindow) RenderFrame(frame *Frame) error {
	cols, rows := defaultTerminalCols, defaultTerminalRows
	if w.outFd >= 0 {
		if c, r, err := term.GetSize(w.outFd); err == nil {
			cols, rows = c, r
		}
	}

	w.mu.Lock()
	line := w.title
	if w.status != "" {
		line += "  " + w.status
	}
	w.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("\x1b[H")
	sb.WriteString(renderHalfBlocks(frame, cols, rows-1))
	if len(line) > cols {
		line = line[:cols]
	}
	sb.WriteString(line)
	sb.WriteString("\x1b[K")
	_, err := io.WriteString(w.out, sb.String())
	return err
}

// renderHalfBlocks draws two pixel rows per text row, downsampling by the
// smallest integer step that fits cols by rows.
func renderHalfBlocks(frame *Frame, cols, rows int) string {
	cols, rows = max(cols, 1), max(rows, 1)
	step := 1
	for ppu.ScreenWidth/step > cols || ppu.ScreenHeight/(2*step) > rows {
		step++
	}
	width := ppu.ScreenWidth / step
	height := ppu.ScreenHeight / (2 * step)

	var sb strings.Builder
	sb.Grow(width * height * 40)
	for ty := 0; ty < height; ty++ {
		top := 2 * ty * step * ppu.ScreenWidth
		bottom := (2*ty + 1) * step * ppu.ScreenWidth
		var fg, bg uint32 = 1 << 24, 1 << 24
		for x := 0; x < width; x++ {
			t := frame[top+x*step] & 0xFFFFFF
			b := frame[bottom+x*step] & 0xFFFFFF
			if t != fg {
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm", t>>16, t>>8&0xFF, t&0xFF)
				fg = t
			}
			if b != bg {
				fmt.Fprintf(&sb, "\x1b[48;2;%d;%d;%dm", b>>16, b>>8&0xFF, b&0xFF)
				bg = b
			}
			sb.WriteString("▀")
		}
		sb.WriteString("\x1b[0m\r\n")
	}
	return sb.String()
}

// Run calls update at the NTSC frame rate.
func (w *TerminalWindow) Run(update func() error) error {
	ticker := time.NewTicker(time.Second / terminalFrameRate)
	defer ticker.Stop()

	frames := 0
	for range ticker.C {
		if err := update(); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
		frames++
		if w.config.MaxFrames > 0 && frames >= w.config.MaxFrames {
			return nil
		}
	}
	return nil
}

// Cleanup restores the cursor and the terminal mode.
func (w *TerminalWindow) Cleanup() error {
	fmt.Fprint(w.out, "\x1b[0m\x1b[?25h\r\n")
	if w.oldState != nil {
		err := term.Restore(int(w.in.Fd()), w.oldState)
		w.oldState = nil
		return err
	}
	return nil
}
