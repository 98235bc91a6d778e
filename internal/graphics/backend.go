// Package graphics provides an abstraction layer for different rendering backends
package graphics

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"nesdot/internal/input"
	"nesdot/internal/ppu"
)

// Frame is the PPU image in 0xAARRGGBB pixels.
type Frame = [ppu.ScreenWidth * ppu.ScreenHeight]uint32

// ErrQuit is returned by an update function to end the window loop
// without reporting a failure.
var ErrQuit = errors.New("quit requested")

// Backend represents a graphics rendering backend (Ebitengine, terminal, headless)
type Backend interface {
	// Initialize initializes the graphics backend
	Initialize(config Config) error

	// CreateWindow creates the surface frames are presented on
	CreateWindow(title string) (Window, error)

	// Cleanup releases all resources
	Cleanup() error

	// IsHeadless returns true if nothing is shown to the user
	IsHeadless() bool

	// GetName returns the backend name for identification
	GetName() string
}

// Window represents a rendering surface
type Window interface {
	// SetTitle sets the window title
	SetTitle(title string)

	// SetStatus sets the overlay text drawn over the frame
	SetStatus(status string)

	// PollEvents returns the input events gathered since the last call
	PollEvents() []InputEvent

	// RenderFrame presents a NES frame buffer
	RenderFrame(frame *Frame) error

	// Run calls update once per displayed frame until update returns an
	// error. ErrQuit ends the loop with a nil result.
	Run(update func() error) error

	// Cleanup releases window resources
	Cleanup() error
}

// Config contains configuration for graphics backends
type Config struct {
	Scale      int
	Fullscreen bool
	VSync      bool
	Filter     string // "nearest", "linear"
	ShowFPS    bool

	// KeyMap binds controller buttons, by name, to host key names for
	// each player.
	KeyMap  map[string][]string
	KeyMap2 map[string][]string

	// ScreenshotDir receives PNG captures, enlarged by Scale.
	ScreenshotDir string

	// MaxFrames ends a headless run; zero runs until the update fails.
	MaxFrames int
	// CaptureFrames lists frame numbers the headless backend saves.
	CaptureFrames []int
}

// InputEventType represents the type of input event
type InputEventType int

const (
	InputEventTypeButton InputEventType = iota
	InputEventTypeAction
	InputEventTypeQuit
)

// Action is a host command bound to a key rather than to a controller button.
type Action int

const (
	ActionNone Action = iota
	ActionPause
	ActionReset
	ActionScreenshot
	ActionStepFrame
)

// InputEvent represents an input event from the window
type InputEvent struct {
	Type    InputEventType
	Player  int
	Button  input.Button
	Action  Action
	Pressed bool
}

// BackendType represents different graphics backend types
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
	BackendTerminal   BackendType = "terminal"
)

// CreateBackend creates a graphics backend of the specified type
func CreateBackend(backendType BackendType) (Backend, error) {
	switch backendType {
	case BackendEbitengine:
		return NewEbitengineBackend(), nil
	case BackendHeadless:
		return NewHeadlessBackend(), nil
	case BackendTerminal:
		return NewTerminalBackend(), nil
	default:
		return nil, fmt.Errorf("unknown graphics backend %q", backendType)
	}
}

// DefaultKeyMap returns the player 1 bindings.
func DefaultKeyMap() map[string][]string {
	return map[string][]string{
		"A":      {"ControlLeft", "Z", "J"},
		"B":      {"ShiftLeft", "X", "K"},
		"Select": {"Space"},
		"Start":  {"Enter"},
		"Up":     {"ArrowUp", "W"},
		"Down":   {"ArrowDown", "S"},
		"Left":   {"ArrowLeft", "A"},
		"Right":  {"ArrowRight", "D"},
	}
}

// DefaultKeyMap2 returns the player 2 bindings on the number row.
func DefaultKeyMap2() map[string][]string {
	return map[string][]string{
		"Up":     {"Digit1"},
		"Down":   {"Digit2"},
		"Left":   {"Digit3"},
		"Right":  {"Digit4"},
		"A":      {"Digit5"},
		"B":      {"Digit6"},
		"Start":  {"Digit7"},
		"Select": {"Digit8"},
	}
}

// actionKeys are the host commands, by lower-case key name. They are
// checked before the controller bindings.
var actionKeys = map[string]Action{
	"p":   ActionPause,
	"n":   ActionStepFrame,
	"f5":  ActionReset,
	"f12": ActionScreenshot,
}

// Binding is one host key resolved to a controller button.
type Binding struct {
	Player int
	Button input.Button
}

// parseKeyMap resolves button names into bindings keyed by lower-case
// host key name. A key bound twice is an error.
func parseKeyMap(player int, m map[string][]string, into map[string]Binding) error {
	for name, keys := range m {
		button, ok := input.ParseButton(name)
		if !ok {
			return fmt.Errorf("unknown controller button %q", name)
		}
		for _, key := range keys {
			key = strings.ToLower(key)
			if _, reserved := actionKeys[key]; reserved || key == "escape" {
				return fmt.Errorf("key %q is reserved", key)
			}
			if prev, dup := into[key]; dup {
				return fmt.Errorf("key %q bound to both %s (player %d) and %s (player %d)",
					key, prev.Button, prev.Player+1, button, player+1)
			}
			into[key] = Binding{Player: player, Button: button}
		}
	}
	return nil
}

// ParseKeyMaps resolves both players' key maps, falling back to the
// defaults for a nil map.
func ParseKeyMaps(config Config) (map[string]Binding, error) {
	bindings := make(map[string]Binding)
	one, two := config.KeyMap, config.KeyMap2
	if one == nil {
		one = DefaultKeyMap()
	}
	if two == nil {
		two = DefaultKeyMap2()
	}
	if err := parseKeyMap(0, one, bindings); err != nil {
		return nil, err
	}
	if err := parseKeyMap(1, two, bindings); err != nil {
		return nil, err
	}
	return bindings, nil
}

// ToRGBA converts a frame into img, which must be 256x240.
func ToRGBA(frame *Frame, img *image.RGBA) {
	for i, pixel := range frame {
		o := i * 4
		img.Pix[o] = uint8(pixel >> 16)
		img.Pix[o+1] = uint8(pixel >> 8)
		img.Pix[o+2] = uint8(pixel)
		img.Pix[o+3] = 0xFF
	}
}

// NewFrameImage allocates an image the size of the NES screen.
func NewFrameImage() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
}
