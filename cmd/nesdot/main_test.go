package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"nesdot/internal/cartridge"
)

func writeROM(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "loop.nes")
	if err := os.WriteFile(path, cartridge.NROM([]uint8{0x4C, 0x00, 0x80}).Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFlags_RomArgument_ShouldBeAccepted(t *testing.T) {
	var stderr bytes.Buffer
	o, err := parseFlags([]string{"-frames", "10", "game.nes"}, &stderr)
	if err != nil {
		t.Fatal(err)
	}

	if o.rom != "game.nes" {
		t.Errorf("Expected game.nes, got %q", o.rom)
	}
	if !o.set["frames"] || o.set["scale"] {
		t.Errorf("Unexpected set flags %v", o.set)
	}
}

func TestLoadConfig_Flags_ShouldOverrideFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "nesdot.json")
	os.WriteFile(configPath, []byte(`{"window":{"scale":3},"emulation":{"max_frames":50}}`), 0644)

	o, err := parseFlags([]string{
		"-config", configPath,
		"-backend", "headless",
		"-pc", "C000",
		"-capture", "1, 5",
		"-mute",
	}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	config, err := loadConfig(o)
	if err != nil {
		t.Fatal(err)
	}

	if config.Window.Scale != 3 || config.Emulation.MaxFrames != 50 {
		t.Errorf("Expected file values to survive, got scale %d frames %d", config.Window.Scale, config.Emulation.MaxFrames)
	}
	if config.Video.Backend != "headless" || config.Emulation.StartPC != "C000" || config.Audio.Enabled {
		t.Errorf("Expected flag overrides, got %+v", config)
	}
	if !reflect.DeepEqual(config.Emulation.CaptureFrames, []int{1, 5}) {
		t.Errorf("Expected capture frames [1 5], got %v", config.Emulation.CaptureFrames)
	}
}

func TestLoadConfig_InvalidFlag_ShouldFail(t *testing.T) {
	tests := [][]string{
		{"-scale", "20"},
		{"-pc", "zzzz"},
		{"-capture", "1,x"},
		{"-backend", "vulkan"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			o, err := parseFlags(append(args, "-config", filepath.Join(t.TempDir(), "c.json")), &bytes.Buffer{})
			if err != nil {
				t.Fatal(err)
			}
			if _, err := loadConfig(o); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	rom := writeROM(t, dir)
	configPath := filepath.Join(dir, "c.json")

	tests := []struct {
		name     string
		args     []string
		expected int
		output   string
	}{
		{"version", []string{"-version"}, 0, "nesdot"},
		{"missing ROM", []string{"-config", configPath}, 2, ""},
		{"unreadable ROM", []string{"-config", configPath, "-backend", "headless", "-quiet", filepath.Join(dir, "none.nes")}, 1, ""},
		{"headless run", []string{"-config", configPath, "-backend", "headless", "-frames", "2", "-quiet", rom}, 0, "2 frames"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != tt.expected {
				t.Fatalf("Expected exit %d, got %d: %s", tt.expected, code, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.output) {
				t.Errorf("Expected %q in output %q", tt.output, stdout.String())
			}
		})
	}
}
