package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"nesdot/internal/apu"
)

// MockSink collects samples and can fail on demand.
type MockSink struct {
	samples []float32
	err     error
}

func (m *MockSink) WriteSamples(samples []float32) error {
	m.samples = append(m.samples, samples...)
	return m.err
}

func TestPump_ShouldFanOutToSinks(t *testing.T) {
	queue := apu.NewSampleQueue(16)
	for _, s := range []float32{0.1, 0.2, 0.3} {
		queue.Push(s)
	}
	failing := &MockSink{err: errors.New("disk full")}
	ok := &MockSink{}

	n, err := Pump(queue, make([]float32, 8), failing, ok)

	if n != 3 {
		t.Errorf("Expected 3 samples, got %d", n)
	}
	if err == nil || err.Error() != "disk full" {
		t.Errorf("Expected the sink error, got %v", err)
	}
	if len(ok.samples) != 3 {
		t.Errorf("Every sink should receive the samples, got %v", ok.samples)
	}
	if queue.Len() != 0 {
		t.Errorf("Expected the queue drained, %d left", queue.Len())
	}
}

func TestPump_EmptyQueue_ShouldNotCallSinks(t *testing.T) {
	sink := &MockSink{err: errors.New("should not be called")}

	n, err := Pump(apu.NewSampleQueue(4), make([]float32, 4), sink)

	if n != 0 || err != nil || len(sink.samples) != 0 {
		t.Errorf("Expected nothing to happen, got n=%d err=%v", n, err)
	}
}

func TestToPCM16_ShouldClampAndScale(t *testing.T) {
	tests := []struct {
		in       float32
		expected int
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{2, 32767},
		{-3, -32767},
		{0.5, 16384},
	}

	for _, tt := range tests {
		if got := toPCM16(tt.in); got != tt.expected {
			t.Errorf("toPCM16(%v): expected %d, got %d", tt.in, tt.expected, got)
		}
	}
}

func TestRecorder_ShouldWriteReadableWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	rec, err := NewRecorder(path, 22050)
	if err != nil {
		t.Fatal(err)
	}

	if err := rec.WriteSamples([]float32{0, 0.5, -0.5}); err != nil {
		t.Fatal(err)
	}
	if err := rec.WriteSamples([]float32{1}); err != nil {
		t.Fatal(err)
	}
	if rec.Samples() != 4 {
		t.Errorf("Expected 4 samples, got %d", rec.Samples())
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	if err := rec.WriteSamples([]float32{0}); err == nil {
		t.Error("Writing after Close should fail")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("Expected a valid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if dec.SampleRate != 22050 || dec.NumChans != 1 || dec.BitDepth != 16 {
		t.Errorf("Unexpected format: %d Hz, %d channels, %d bits", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	expected := []int{0, 16384, -16384, 32767}
	if len(buf.Data) != len(expected) {
		t.Fatalf("Expected %d samples, got %d", len(expected), len(buf.Data))
	}
	for i := range expected {
		if buf.Data[i] != expected[i] {
			t.Errorf("Sample %d: expected %d, got %d", i, expected[i], buf.Data[i])
		}
	}
}

func TestNewRecorder_InvalidRate_ShouldFail(t *testing.T) {
	if _, err := NewRecorder(filepath.Join(t.TempDir(), "x.wav"), 0); err == nil {
		t.Error("Expected an error")
	}
}
