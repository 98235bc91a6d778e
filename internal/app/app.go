package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"nesdot/internal/apu"
	"nesdot/internal/audio"
	"nesdot/internal/bus"
	"nesdot/internal/cartridge"
	"nesdot/internal/debug"
	"nesdot/internal/graphics"
	"nesdot/internal/logger"
	"nesdot/internal/statsview"
)

// Application represents the main NES emulator application
type Application struct {
	config   *Config
	console  *bus.Console
	emulator *Emulator

	graphicsBackend graphics.Backend
	window          graphics.Window

	queue    *apu.SampleQueue
	player   *audio.Player
	recorder *audio.Recorder
	audioBuf []float32

	tracer    *debug.Tracer
	traceFile *os.File

	// monitor commands from stdin, executed on the emulation goroutine
	commands    chan string
	interactive bool
	out         io.Writer

	stopStats func()

	romPath  string
	savePath string
}

// ApplicationError represents application-specific errors
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("Application %s error during %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}

// NewApplication builds the console and host components described by
// config. Console output of the monitor goes to out.
func NewApplication(config *Config, out io.Writer) (*Application, error) {
	if err := config.Validate(); err != nil {
		return nil, &ApplicationError{Component: "config", Operation: "validate", Err: err}
	}
	logger.SetEcho(config.Debug.EchoLog)

	backendType := graphics.BackendType(config.Video.Backend)
	app := &Application{
		config:      config,
		commands:    make(chan string, 16),
		interactive: config.Debug.Monitor && backendType != graphics.BackendTerminal,
		out:         out,
		stopStats:   func() {},
	}

	if err := app.initializeComponents(); err != nil {
		app.Cleanup()
		return nil, &ApplicationError{Component: "initialization", Operation: "component setup", Err: err}
	}
	return app, nil
}

// initializeComponents initializes all application components
func (app *Application) initializeComponents() error {
	if err := app.initializeAudio(); err != nil {
		return fmt.Errorf("failed to initialize audio: %w", err)
	}

	app.console = bus.New(app.queue)
	app.console.APU.SetSampleRate(app.config.Audio.SampleRate)
	app.console.HaltOnBreak = app.config.Emulation.HaltOnBreak
	start, err := app.config.StartAddress()
	if err != nil {
		return err
	}
	app.console.StartPC = start

	if path := app.config.Debug.TraceFile; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		app.traceFile = f
		app.tracer = debug.NewTracer(f, app.console.Peek)
		app.console.SetTraceHook(app.tracer.Trace)
	}

	monitorOut := io.Discard
	if app.interactive {
		monitorOut = app.out
	}
	app.emulator = NewEmulator(app.console, app.tracer, monitorOut, app.interactive)

	if err := app.initializeGraphicsBackend(); err != nil {
		return fmt.Errorf("failed to initialize graphics backend: %w", err)
	}

	if app.config.Debug.Statsview {
		if !statsview.Available() {
			logger.Logf("APP", "statsview requested but not built in (use -tags statsview)")
		}
		app.stopStats = statsview.Launch(app.out, app.config.Debug.StatsviewAddr)
	}
	return nil
}

// initializeAudio opens the playback device and the WAV capture. Either
// may be absent; the sample queue exists only when something drains it.
func (app *Application) initializeAudio() error {
	cfg := app.config.Audio
	headless := app.config.Video.Backend == string(graphics.BackendHeadless)
	wantPlayback := cfg.Enabled && !headless
	if !wantPlayback && cfg.WAVPath == "" {
		return nil
	}

	app.queue = apu.NewSampleQueue(cfg.QueueSize)
	app.audioBuf = make([]float32, cfg.QueueSize)

	if cfg.WAVPath != "" {
		rec, err := audio.NewRecorder(cfg.WAVPath, cfg.SampleRate)
		if err != nil {
			return err
		}
		app.recorder = rec
	}

	if wantPlayback {
		player, err := audio.NewPlayer(app.queue, cfg.SampleRate, time.Duration(cfg.LatencyMS)*time.Millisecond)
		if err != nil {
			// play on silently rather than refusing to start
			logger.Logf("AUDIO", "playback disabled: %v", err)
			return nil
		}
		player.SetVolume(cfg.Volume)
		if app.recorder != nil {
			player.Tap(app.recorder)
		}
		app.player = player
	}
	return nil
}

// initializeGraphicsBackend initializes the graphics backend based on configuration
func (app *Application) initializeGraphicsBackend() error {
	backend, err := graphics.CreateBackend(graphics.BackendType(app.config.Video.Backend))
	if err != nil {
		return err
	}
	if err := backend.Initialize(app.config.GraphicsConfig()); err != nil {
		return err
	}
	app.graphicsBackend = backend

	window, err := backend.CreateWindow("nesdot")
	if err != nil {
		return err
	}
	app.window = window
	logger.Logf("APP", "using %s backend", backend.GetName())
	return nil
}

// LoadROM loads a ROM file into the emulator and restores its battery RAM
func (app *Application) LoadROM(romPath string) error {
	cart, err := cartridge.LoadFile(romPath)
	if err != nil {
		return &ApplicationError{Component: "cartridge", Operation: "load ROM", Err: err}
	}
	app.romPath = romPath
	app.savePath = savePathFor(romPath, app.config.Paths.SaveData)

	if cart.HasBattery() {
		if err := loadBattery(cart, app.savePath); err != nil {
			return &ApplicationError{Component: "cartridge", Operation: "load battery RAM", Err: err}
		}
	}

	app.console.Insert(cart)
	logger.Logf("APP", "loaded %s: %s", filepath.Base(romPath), cart)

	app.window.SetTitle(fmt.Sprintf("nesdot - %s", filepath.Base(romPath)))
	return nil
}

// savePathFor places <rom>.sav in dir, or beside the ROM when dir is empty.
func savePathFor(romPath, dir string) string {
	name := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath)) + ".sav"
	if dir == "" {
		dir = filepath.Dir(romPath)
	}
	return filepath.Join(dir, name)
}

func loadBattery(cart *cartridge.Cartridge, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	if err := cart.LoadRAM(f); err != nil {
		return err
	}
	logger.Logf("APP", "battery RAM restored from %s", path)
	return nil
}

func (app *Application) saveBattery() error {
	cart := app.console.Cartridge()
	if cart == nil || !cart.HasBattery() {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(app.savePath), 0755); err != nil {
		return err
	}
	f, err := os.Create(app.savePath)
	if err != nil {
		return err
	}
	if err := cart.SaveRAM(f); err != nil {
		f.Close()
		return err
	}
	logger.Logf("APP", "battery RAM saved to %s", app.savePath)
	return f.Close()
}

// Run drives the window loop until the window closes, ctx is cancelled,
// the monitor quits or a non-interactive run faults.
func (app *Application) Run(ctx context.Context) error {
	if app.console.Cartridge() == nil {
		return &ApplicationError{Component: "emulator", Operation: "run", Err: bus.ErrNoCartridge}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if app.interactive {
		fmt.Fprintln(app.out, "monitor ready, type help for commands")
		g.Go(func() error {
			return app.readCommands(gctx, os.Stdin)
		})
	}
	if app.player != nil {
		app.player.Start()
	}

	runErr := app.window.Run(func() error {
		return app.update(gctx)
	})
	cancel()

	if err := g.Wait(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return &ApplicationError{Component: "emulator", Operation: "run", Err: runErr}
	}
	return nil
}

// readCommands forwards stdin lines to the emulation goroutine. The
// scanning goroutine is abandoned when ctx ends since a terminal read
// cannot be interrupted.
func (app *Application) readCommands(ctx context.Context, r io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			select {
			case app.commands <- line:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// update is called once per displayed frame.
func (app *Application) update(ctx context.Context) error {
	if ctx.Err() != nil {
		return graphics.ErrQuit
	}
	if err := app.processInput(); err != nil {
		return err
	}
	app.runCommands()
	if app.emulator.QuitRequested() {
		return graphics.ErrQuit
	}

	if err := app.emulator.RunFrame(); err != nil {
		return err
	}
	if err := app.pumpAudio(); err != nil {
		return err
	}

	app.window.SetStatus(app.emulator.Status())
	return app.window.RenderFrame(app.console.FrameBuffer())
}

// processInput applies window events to the controllers and host actions.
func (app *Application) processInput() error {
	for _, event := range app.window.PollEvents() {
		switch event.Type {
		case graphics.InputEventTypeQuit:
			return graphics.ErrQuit
		case graphics.InputEventTypeButton:
			app.console.Input.Port(event.Player).SetButton(event.Button, event.Pressed)
		case graphics.InputEventTypeAction:
			if err := app.handleAction(event.Action); err != nil {
				return err
			}
		}
	}
	return nil
}

func (app *Application) handleAction(action graphics.Action) error {
	switch action {
	case graphics.ActionPause:
		app.emulator.TogglePause()
	case graphics.ActionStepFrame:
		if app.emulator.Paused() {
			return app.emulator.StepFrame()
		}
	case graphics.ActionReset:
		app.emulator.Reset()
	case graphics.ActionScreenshot:
		if _, err := graphics.SaveScreenshot(app.config.Paths.Screenshots, app.console.FrameBuffer(), app.config.Window.Scale); err != nil {
			logger.Logf("APP", "screenshot failed: %v", err)
		}
	}
	return nil
}

func (app *Application) runCommands() {
	for {
		select {
		case line := <-app.commands:
			if err := app.emulator.Execute(line); err != nil {
				fmt.Fprintf(app.out, "error: %v\n", err)
			}
		default:
			return
		}
	}
}

// pumpAudio moves samples to the WAV capture when no playback device
// drains the queue.
func (app *Application) pumpAudio() error {
	if app.queue == nil || app.player != nil || app.recorder == nil {
		return nil
	}
	for {
		n, err := audio.Pump(app.queue, app.audioBuf, app.recorder)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

// Console returns the emulated machine.
func (app *Application) Console() *bus.Console {
	return app.console
}

// Emulator returns the frame driver.
func (app *Application) Emulator() *Emulator {
	return app.emulator
}

// Window returns the active rendering surface.
func (app *Application) Window() graphics.Window {
	return app.window
}

// GetROMPath returns the path of the loaded ROM.
func (app *Application) GetROMPath() string {
	return app.romPath
}

// GetConfig returns the application configuration.
func (app *Application) GetConfig() *Config {
	return app.config
}

// Cleanup releases all resources and shuts down the application
func (app *Application) Cleanup() error {
	var errs []error

	if app.console != nil {
		if err := app.saveBattery(); err != nil {
			errs = append(errs, fmt.Errorf("saving battery RAM: %w", err))
		}
	}
	if app.player != nil {
		if err := app.player.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing audio: %w", err))
		}
	}
	if app.recorder != nil {
		if err := app.pumpAudio(); err != nil {
			errs = append(errs, fmt.Errorf("flushing audio: %w", err))
		}
		if err := app.recorder.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.tracer != nil {
		if err := app.tracer.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("flushing trace: %w", err))
		}
	}
	if app.traceFile != nil {
		if err := app.traceFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.window != nil {
		if err := app.window.Cleanup(); err != nil {
			errs = append(errs, fmt.Errorf("window cleanup: %w", err))
		}
	}
	if app.graphicsBackend != nil {
		if err := app.graphicsBackend.Cleanup(); err != nil {
			errs = append(errs, fmt.Errorf("graphics backend cleanup: %w", err))
		}
	}
	if app.stopStats != nil {
		app.stopStats()
	}

	for _, err := range errs {
		logger.Logf("APP", "cleanup: %v", err)
	}
	return errors.Join(errs...)
}
