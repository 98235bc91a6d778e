// Package app wires the console to the host: configuration, window,
// audio, debugger and battery saves.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"nesdot/internal/graphics"
)

// ErrInvalidValue is wrapped by every ConfigError.
var ErrInvalidValue = errors.New("invalid value")

// Config holds all application configuration
type Config struct {
	Window    WindowConfig    `json:"window"`
	Video     VideoConfig     `json:"video"`
	Audio     AudioConfig     `json:"audio"`
	Input     InputConfig     `json:"input"`
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
	Paths     PathsConfig     `json:"paths"`

	// Internal state
	configPath string
	loaded     bool
}

// WindowConfig contains window-related configuration
type WindowConfig struct {
	Scale      int  `json:"scale"` // NES resolution multiplier
	Fullscreen bool `json:"fullscreen"`
}

// VideoConfig contains video rendering configuration
type VideoConfig struct {
	Backend string `json:"backend"` // "ebitengine", "terminal", "headless"
	Filter  string `json:"filter"`  // "nearest", "linear"
	VSync   bool   `json:"vsync"`
	ShowFPS bool   `json:"show_fps"`
}

// AudioConfig contains audio configuration
type AudioConfig struct {
	Enabled    bool    `json:"enabled"`
	SampleRate int     `json:"sample_rate"`
	Volume     float64 `json:"volume"`
	LatencyMS  int     `json:"latency_ms"`
	QueueSize  int     `json:"queue_size"` // samples buffered between APU and device
	WAVPath    string  `json:"wav_path"`   // capture file, empty to disable
}

// InputConfig maps controller buttons to host key names
type InputConfig struct {
	Player1Keys map[string][]string `json:"player1_keys"`
	Player2Keys map[string][]string `json:"player2_keys"`
}

// EmulationConfig contains emulation-specific settings
type EmulationConfig struct {
	HaltOnBreak bool   `json:"halt_on_break"`
	StartPC     string `json:"start_pc"` // hex, overrides the reset vector
	MaxFrames   int    `json:"max_frames"`
	// CaptureFrames lists frames saved as screenshots in headless runs.
	CaptureFrames []int `json:"capture_frames"`
}

// DebugConfig contains debugging and development options
type DebugConfig struct {
	TraceFile     string `json:"trace_file"`
	Monitor       bool   `json:"monitor"`
	Statsview     bool   `json:"statsview"`
	StatsviewAddr string `json:"statsview_addr"`
	EchoLog       bool   `json:"echo_log"`
}

// PathsConfig contains file and directory paths
type PathsConfig struct {
	SaveData    string `json:"save_data"` // empty keeps .sav next to the ROM
	Screenshots string `json:"screenshots"`
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Scale: 2, // 512x480
		},
		Video: VideoConfig{
			Backend: string(graphics.BackendEbitengine),
			Filter:  "nearest",
			VSync:   true,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Volume:     0.8,
			LatencyMS:  50,
			QueueSize:  8192,
		},
		Input: InputConfig{
			Player1Keys: graphics.DefaultKeyMap(),
			Player2Keys: graphics.DefaultKeyMap2(),
		},
		Debug: DebugConfig{
			EchoLog: true,
		},
		Paths: PathsConfig{
			Screenshots: "./screenshots",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. A missing file is
// created with the current values.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c.loaded = true
	return nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	c.configPath = path
	return nil
}

// Save saves the configuration to the current config file
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config file path set")
	}
	return c.SaveToFile(c.configPath)
}

// Validate checks every value and reports the first bad one as a
// *ConfigError.
func (c *Config) Validate() error {
	if c.Window.Scale < 1 || c.Window.Scale > 8 {
		return newConfigError("window.scale", c.Window.Scale, "must be between 1 and 8")
	}

	switch graphics.BackendType(c.Video.Backend) {
	case graphics.BackendEbitengine, graphics.BackendTerminal, graphics.BackendHeadless:
	default:
		return newConfigError("video.backend", c.Video.Backend, "must be ebitengine, terminal or headless")
	}
	if c.Video.Filter != "nearest" && c.Video.Filter != "linear" {
		return newConfigError("video.filter", c.Video.Filter, "must be nearest or linear")
	}

	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return newConfigError("audio.sample_rate", c.Audio.SampleRate, "must be between 8000 and 192000")
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return newConfigError("audio.volume", c.Audio.Volume, "must be between 0 and 1")
	}
	if c.Audio.LatencyMS <= 0 {
		return newConfigError("audio.latency_ms", c.Audio.LatencyMS, "must be positive")
	}
	if c.Audio.QueueSize < 256 {
		return newConfigError("audio.queue_size", c.Audio.QueueSize, "must be at least 256")
	}

	if _, err := c.StartAddress(); err != nil {
		return err
	}
	if c.Emulation.MaxFrames < 0 {
		return newConfigError("emulation.max_frames", c.Emulation.MaxFrames, "must not be negative")
	}
	for _, f := range c.Emulation.CaptureFrames {
		if f < 1 {
			return newConfigError("emulation.capture_frames", f, "frames are numbered from 1")
		}
	}

	if _, err := graphics.ParseKeyMaps(c.GraphicsConfig()); err != nil {
		return &ConfigError{Field: "input", Value: err.Error(), Err: ErrInvalidValue}
	}
	return nil
}

// StartAddress parses Emulation.StartPC. Zero means the reset vector is used.
func (c *Config) StartAddress() (uint16, error) {
	s := strings.TrimSpace(c.Emulation.StartPC)
	if s == "" {
		return 0, nil
	}
	s = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "$"), "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, newConfigError("emulation.start_pc", c.Emulation.StartPC, "must be a 16-bit hex address")
	}
	return uint16(v), nil
}

// GraphicsConfig returns the settings the graphics backend needs.
func (c *Config) GraphicsConfig() graphics.Config {
	return graphics.Config{
		Scale:         c.Window.Scale,
		Fullscreen:    c.Window.Fullscreen,
		VSync:         c.Video.VSync,
		Filter:        c.Video.Filter,
		ShowFPS:       c.Video.ShowFPS,
		KeyMap:        c.Input.Player1Keys,
		KeyMap2:       c.Input.Player2Keys,
		ScreenshotDir: c.Paths.Screenshots,
		MaxFrames:     c.Emulation.MaxFrames,
		CaptureFrames: c.Emulation.CaptureFrames,
	}
}

// GetWindowResolution returns the window resolution based on scale
func (c *Config) GetWindowResolution() (int, int) {
	return 256 * c.Window.Scale, 240 * c.Window.Scale
}

// IsLoaded returns whether the configuration was loaded from file
func (c *Config) IsLoaded() bool {
	return c.loaded
}

// GetConfigPath returns the path to the config file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	data, err := json.Marshal(c)
	if err != nil {
		return NewConfig()
	}

	clone := &Config{}
	if err := json.Unmarshal(data, clone); err != nil {
		return NewConfig()
	}

	clone.configPath = c.configPath
	clone.loaded = c.loaded
	return clone
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	return "./config/nesdot.json"
}

// ConfigError represents configuration-related errors
type ConfigError struct {
	Field string
	Value interface{}
	Err   error
}

func newConfigError(field string, value interface{}, reason string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Err: fmt.Errorf("%w: %s", ErrInvalidValue, reason)}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field '%s' with value '%v': %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
