// Package main implements the nesdot NES emulator executable.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"nesdot/internal/app"
	"nesdot/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the command line. Flags left unset keep the config file value.
type options struct {
	rom        string
	configPath string
	backend    string
	startPC    string
	haltOnBRK  bool
	frames     int
	capture    string
	trace      string
	monitor    bool
	wav        string
	scale      int
	noAudio    bool
	statsview  bool
	quiet      bool
	version    bool

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{set: make(map[string]bool)}
	fs := flag.NewFlagSet("nesdot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.rom, "rom", "", "Path to an iNES ROM (may also be the first argument)")
	fs.StringVar(&o.configPath, "config", "", "Path to configuration file (default "+app.GetDefaultConfigPath()+" if present)")
	fs.StringVar(&o.backend, "backend", "", "Video backend: ebitengine, terminal or headless")
	fs.StringVar(&o.startPC, "pc", "", "Start execution at this hex address instead of the reset vector")
	fs.BoolVar(&o.haltOnBRK, "halt-on-brk", false, "Stop when a BRK instruction executes")
	fs.IntVar(&o.frames, "frames", 0, "Stop after this many frames (0 runs until quit)")
	fs.StringVar(&o.capture, "capture", "", "Comma separated frame numbers saved as PNG in headless runs")
	fs.StringVar(&o.trace, "trace", "", "Write a per-instruction trace log to this file")
	fs.BoolVar(&o.monitor, "monitor", false, "Read debugger commands from stdin")
	fs.StringVar(&o.wav, "wav", "", "Record audio output to this WAV file")
	fs.IntVar(&o.scale, "scale", 0, "Window scale factor (1-8)")
	fs.BoolVar(&o.noAudio, "mute", false, "Disable audio playback")
	fs.BoolVar(&o.statsview, "statsview", false, "Serve runtime statistics over HTTP")
	fs.BoolVar(&o.quiet, "quiet", false, "Do not echo log messages to stdout")
	fs.BoolVar(&o.version, "version", false, "Show version information")
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	if o.rom == "" && fs.NArg() > 0 {
		o.rom = fs.Arg(0)
	}
	return o, nil
}

// loadConfig reads the config file when one was named or the default
// exists, then applies the command line on top.
func loadConfig(o *options) (*app.Config, error) {
	config := app.NewConfig()
	path := o.configPath
	if path == "" {
		if _, err := os.Stat(app.GetDefaultConfigPath()); err == nil {
			path = app.GetDefaultConfigPath()
		}
	}
	if path != "" {
		if err := config.LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if o.set["backend"] {
		config.Video.Backend = o.backend
	}
	if o.set["pc"] {
		config.Emulation.StartPC = o.startPC
	}
	if o.set["halt-on-brk"] {
		config.Emulation.HaltOnBreak = o.haltOnBRK
	}
	if o.set["frames"] {
		config.Emulation.MaxFrames = o.frames
	}
	if o.set["capture"] {
		frames, err := parseFrameList(o.capture)
		if err != nil {
			return nil, err
		}
		config.Emulation.CaptureFrames = frames
	}
	if o.set["trace"] {
		config.Debug.TraceFile = o.trace
	}
	if o.set["monitor"] {
		config.Debug.Monitor = o.monitor
	}
	if o.set["wav"] {
		config.Audio.WAVPath = o.wav
	}
	if o.set["scale"] {
		config.Window.Scale = o.scale
	}
	if o.noAudio {
		config.Audio.Enabled = false
	}
	if o.set["statsview"] {
		config.Debug.Statsview = o.statsview
	}
	if o.quiet {
		config.Debug.EchoLog = false
	}
	return config, config.Validate()
}

func parseFrameList(s string) ([]int, error) {
	var frames []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("bad frame number %q", field)
		}
		frames = append(frames, n)
	}
	return frames, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	log.SetOutput(stderr)
	log.SetFlags(0)

	o, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}
	if o.version {
		version.Print(stdout)
		return 0
	}
	if o.rom == "" {
		log.Print("nesdot: a ROM file is required (see -help)")
		return 2
	}

	config, err := loadConfig(o)
	if err != nil {
		log.Printf("nesdot: %v", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(config, stdout)
	if err != nil {
		log.Printf("nesdot: %v", err)
		return 1
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			log.Printf("nesdot: cleanup: %v", err)
		}
	}()

	if err := application.LoadROM(o.rom); err != nil {
		log.Printf("nesdot: %v", err)
		return 1
	}

	if err := application.Run(ctx); err != nil {
		log.Printf("nesdot: %v", err)
		return 1
	}

	emu := application.Emulator()
	fmt.Fprintf(stdout, "%d frames in %v (%.1f FPS)\n", emu.GetFrameCount(), emu.GetUptime().Round(time.Millisecond), emu.GetFPS())
	return 0
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "nesdot - cycle-accurate NES emulator")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  nesdot [options] <rom.nes>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OPTIONS:")
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  nesdot game.nes")
	fmt.Fprintln(w, "  nesdot -backend terminal game.nes")
	fmt.Fprintln(w, "  nesdot -backend headless -pc C000 -frames 60 -trace nestest.log nestest.nes")
	fmt.Fprintln(w, "  nesdot -backend headless -frames 120 -capture 60,120 -wav out.wav game.nes")
	fmt.Fprintln(w, "  nesdot -monitor -halt-on-brk test.nes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "CONTROLS (default):")
	fmt.Fprintln(w, "  Player 1: arrows/WASD d-pad, Z/J/Left Ctrl A, X/K/Left Shift B, Enter Start, Space Select")
	fmt.Fprintln(w, "  Player 2: 1-4 d-pad, 5 A, 6 B, 7 Start, 8 Select")
	fmt.Fprintln(w, "  P pause, N step frame while paused, F5 reset, F12 screenshot, Escape quit")
}
