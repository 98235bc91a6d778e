package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogf_Duplicates_ShouldCollapse(t *testing.T) {
	var buf bytes.Buffer
	l := New(8, &buf)

	l.Logf("PPU", "frame %d", 1)
	l.Logf("PPU", "frame %d", 1)
	l.Logf("PPU", "frame %d", 1)
	l.Logf("CPU", "halt")

	entries := l.Recent(0)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Repeat != 2 {
		t.Errorf("Expected repeat count 2, got %d", entries[0].Repeat)
	}
	if got := entries[0].String(); got != "[PPU] frame 1 (x3)" {
		t.Errorf("Unexpected entry text %q", got)
	}

	out := buf.String()
	if strings.Count(out, "[PPU] frame 1") != 1 {
		t.Errorf("Duplicate should be echoed once:\n%s", out)
	}
	if !strings.Contains(out, "last message repeated 2 times") {
		t.Errorf("Expected repeat summary:\n%s", out)
	}
}

func TestLogf_ShouldKeepBoundedHistory(t *testing.T) {
	l := New(3, &bytes.Buffer{})

	for i := 0; i < 5; i++ {
		l.Logf("T", "msg %d", i)
	}

	entries := l.Recent(0)
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Message != "msg 2" || entries[2].Message != "msg 4" {
		t.Errorf("Expected oldest dropped, got %v", entries)
	}
	if last := l.Recent(1); len(last) != 1 || last[0].Message != "msg 4" {
		t.Errorf("Expected newest entry, got %v", last)
	}
}

func TestSetEcho_Off_ShouldStillRecord(t *testing.T) {
	var buf bytes.Buffer
	l := New(4, &buf)
	l.SetEcho(false)

	l.Logf("APU", "muted")

	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
	if len(l.Recent(0)) != 1 {
		t.Error("Entry should be recorded")
	}
}

func TestTail_ShouldWriteEntries(t *testing.T) {
	l := New(4, &bytes.Buffer{})
	l.Logf("A", "one")
	l.Logf("B", "two")

	var buf bytes.Buffer
	l.Tail(&buf, 1)

	if buf.String() != "[B] two\n" {
		t.Errorf("Unexpected tail %q", buf.String())
	}
}
