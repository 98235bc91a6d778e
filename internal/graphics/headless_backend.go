package graphics

import (
	"errors"
	"fmt"
	"slices"
)

// HeadlessBackend implements the Backend interface for headless operation
type HeadlessBackend struct {
	initialized bool
	config      Config
}

// HeadlessWindow keeps the most recent frame and saves the frames listed
// in Config.CaptureFrames.
type HeadlessWindow struct {
	config     Config
	title      string
	status     string
	frame      Frame
	frameCount int
	captured   []string
}

// NewHeadlessBackend creates a new headless graphics backend
func NewHeadlessBackend() Backend {
	return &HeadlessBackend{}
}

// Initialize initializes the headless backend
func (b *HeadlessBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("headless backend already initialized")
	}
	if len(config.CaptureFrames) > 0 && config.ScreenshotDir == "" {
		return fmt.Errorf("capture frames requested without a screenshot directory")
	}

	b.config = config
	b.initialized = true
	return nil
}

// CreateWindow creates a headless "window" (no actual window)
func (b *HeadlessBackend) CreateWindow(title string) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}
	return &HeadlessWindow{config: b.config, title: title}, nil
}

// Cleanup releases all headless resources
func (b *HeadlessBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns true (this is a headless backend)
func (b *HeadlessBackend) IsHeadless() bool {
	return true
}

// GetName returns the backend name
func (b *HeadlessBackend) GetName() string {
	return "Headless"
}

// SetTitle sets the window title (for logging purposes)
func (w *HeadlessWindow) SetTitle(title string) {
	w.title = title
}

// SetStatus records the overlay text.
func (w *HeadlessWindow) SetStatus(status string) {
	w.status = status
}

// PollEvents returns empty events list (no input in headless mode)
func (w *HeadlessWindow) PollEvents() []InputEvent {
	return nil
}

// RenderFrame copies the frame and saves it when its number was requested.
func (w *HeadlessWindow) RenderFrame(frame *Frame) error {
	w.frameCount++
	w.frame = *frame

	if !slices.Contains(w.config.CaptureFrames, w.frameCount) {
		return nil
	}
	path, err := SaveScreenshot(w.config.ScreenshotDir, frame, w.config.Scale)
	if err != nil {
		return fmt.Errorf("capturing frame %d: %w", w.frameCount, err)
	}
	w.captured = append(w.captured, path)
	return nil
}

// Run calls update as fast as it returns until it fails or MaxFrames
// frames have been rendered.
func (w *HeadlessWindow) Run(update func() error) error {
	for w.config.MaxFrames == 0 || w.frameCount < w.config.MaxFrames {
		if err := update(); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Cleanup releases window resources
func (w *HeadlessWindow) Cleanup() error {
	return nil
}

// LastFrame returns the most recently rendered frame.
func (w *HeadlessWindow) LastFrame() *Frame {
	return &w.frame
}

// FrameCount returns the number of frames rendered.
func (w *HeadlessWindow) FrameCount() int {
	return w.frameCount
}

// Captured returns the paths of the saved frames.
func (w *HeadlessWindow) Captured() []string {
	return w.captured
}
