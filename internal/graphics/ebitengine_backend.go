//go:build !headless
// +build !headless

package graphics

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"nesdot/internal/logger"
	"nesdot/internal/ppu"
)

// EbitengineBackend implements the Backend interface using Ebitengine
type EbitengineBackend struct {
	initialized bool
	config      Config
}

// EbitengineWindow implements the Window interface for Ebitengine
type EbitengineWindow struct {
	title  string
	game   *EbitengineGame
	events []InputEvent
}

// EbitengineGame implements ebiten.Game for the NES emulator
type EbitengineGame struct {
	window       *EbitengineWindow
	update       func() error
	frameImage   *ebiten.Image
	imageBuffer  *image.RGBA
	windowWidth  int
	windowHeight int
	filter       ebiten.Filter
	showStatus   bool
	status       string

	// host keys resolved from the key map
	buttons map[ebiten.Key]Binding
	actions map[ebiten.Key]Action
}

// NewEbitengineBackend creates a new Ebitengine graphics backend
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

// Initialize initializes the Ebitengine backend
func (b *EbitengineBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("Ebitengine backend already initialized")
	}
	if config.Scale <= 0 {
		config.Scale = 2
	}

	b.config = config
	b.initialized = true
	return nil
}

// CreateWindow creates an Ebitengine window sized to the NES screen times
// the configured scale.
func (b *EbitengineBackend) CreateWindow(title string) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}

	bindings, err := ParseKeyMaps(b.config)
	if err != nil {
		return nil, err
	}
	buttons, err := resolveEbitenKeys(bindings)
	if err != nil {
		return nil, err
	}
	actions := make(map[ebiten.Key]Action)
	for name, action := range actionKeys {
		if k, ok := ebitenKeys[name]; ok {
			actions[k] = action
		}
	}

	width, height := ppu.ScreenWidth*b.config.Scale, ppu.ScreenHeight*b.config.Scale
	game := &EbitengineGame{
		frameImage:   ebiten.NewImage(ppu.ScreenWidth, ppu.ScreenHeight),
		imageBuffer:  NewFrameImage(),
		windowWidth:  width,
		windowHeight: height,
		filter:       ebiten.FilterNearest,
		showStatus:   b.config.ShowFPS,
		buttons:      buttons,
		actions:      actions,
	}
	if b.config.Filter == "linear" {
		game.filter = ebiten.FilterLinear
	}

	window := &EbitengineWindow{title: title, game: game}
	game.window = window

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(b.config.VSync)
	ebiten.SetFullscreen(b.config.Fullscreen)

	return window, nil
}

// ebitenKeys indexes every Ebitengine key by its lower-case name, such as
// "arrowup", "controlleft" or "digit1".
var ebitenKeys = func() map[string]ebiten.Key {
	keys := make(map[string]ebiten.Key)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		keys[strings.ToLower(k.String())] = k
	}
	return keys
}()

func resolveEbitenKeys(bindings map[string]Binding) (map[ebiten.Key]Binding, error) {
	resolved := make(map[ebiten.Key]Binding, len(bindings))
	for name, b := range bindings {
		k, ok := ebitenKeys[name]
		if !ok {
			return nil, fmt.Errorf("unknown key %q in key map", name)
		}
		resolved[k] = b
	}
	return resolved, nil
}

// Cleanup releases all Ebitengine resources
func (b *EbitengineBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns true if running in headless mode
func (b *EbitengineBackend) IsHeadless() bool {
	return false
}

// GetName returns the backend name
func (b *EbitengineBackend) GetName() string {
	return "Ebitengine"
}

// SetTitle sets the window title
func (w *EbitengineWindow) SetTitle(title string) {
	w.title = title
	ebiten.SetWindowTitle(title)
}

// SetStatus sets the overlay text. It is drawn when the FPS overlay is
// enabled, and always while non-empty and paused.
func (w *EbitengineWindow) SetStatus(status string) {
	w.game.status = status
}

// PollEvents returns the events gathered by the last Update
func (w *EbitengineWindow) PollEvents() []InputEvent {
	events := w.events
	w.events = nil
	return events
}

// RenderFrame uploads a NES frame buffer to the frame texture
func (w *EbitengineWindow) RenderFrame(frame *Frame) error {
	if w.game == nil {
		return fmt.Errorf("game not initialized")
	}
	ToRGBA(frame, w.game.imageBuffer)
	w.game.frameImage.WritePixels(w.game.imageBuffer.Pix)
	return nil
}

// Run starts the Ebitengine game loop. It returns when the window is
// closed or update fails.
func (w *EbitengineWindow) Run(update func() error) error {
	if w.game == nil {
		return fmt.Errorf("game not initialized")
	}
	w.game.update = update
	return ebiten.RunGame(w.game)
}

// Cleanup releases window resources
func (w *EbitengineWindow) Cleanup() error {
	if w.game != nil && w.game.frameImage != nil {
		w.game.frameImage.Deallocate()
	}
	return nil
}

// Update implements ebiten.Game.Update
func (g *EbitengineGame) Update() error {
	g.processInput()
	if g.update == nil {
		return nil
	}
	if err := g.update(); err != nil {
		if errors.Is(err, ErrQuit) {
			return ebiten.Termination
		}
		logger.Logf("GRAPHICS", "emulator update error: %v", err)
		return err
	}
	return nil
}

// Draw implements ebiten.Game.Draw
func (g *EbitengineGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	// fit the window while keeping the aspect ratio, centred
	scaleX := float64(g.windowWidth) / ppu.ScreenWidth
	scaleY := float64(g.windowHeight) / ppu.ScreenHeight
	scale := min(scaleX, scaleY)
	offsetX := (float64(g.windowWidth) - ppu.ScreenWidth*scale) / 2
	offsetY := (float64(g.windowHeight) - ppu.ScreenHeight*scale) / 2

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	op.Filter = g.filter
	screen.DrawImage(g.frameImage, op)

	if g.status != "" && (g.showStatus || strings.Contains(g.status, "PAUSED")) {
		drawOverlay(screen, 8, 18, g.status)
	}
}

func drawOverlay(screen *ebiten.Image, x, baselineY int, s string) {
	face := basicfont.Face7x13
	text.Draw(screen, s, face, x+1, baselineY+1, color.Black)
	text.Draw(screen, s, face, x, baselineY, color.RGBA{R: 0xF0, G: 0xF0, B: 0xF0, A: 0xFF})
}

// Layout implements ebiten.Game.Layout
func (g *EbitengineGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	g.windowWidth = outsideWidth
	g.windowHeight = outsideHeight
	return outsideWidth, outsideHeight
}

// processInput turns key transitions since the last tick into events
func (g *EbitengineGame) processInput() {
	var events []InputEvent

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		events = append(events, InputEvent{Type: InputEventTypeQuit, Pressed: true})
	}
	for k, action := range g.actions {
		if inpututil.IsKeyJustPressed(k) {
			events = append(events, InputEvent{Type: InputEventTypeAction, Action: action, Pressed: true})
		}
	}
	for k, b := range g.buttons {
		switch {
		case inpututil.IsKeyJustPressed(k):
			events = append(events, InputEvent{Type: InputEventTypeButton, Player: b.Player, Button: b.Button, Pressed: true})
		case inpututil.IsKeyJustReleased(k):
			events = append(events, InputEvent{Type: InputEventTypeButton, Player: b.Player, Button: b.Button})
		}
	}

	g.window.events = append(g.window.events, events...)
}
