package irsink

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBufferSinkHoldsOnlyMostRecentWrite(t *testing.T) {
	s := NewBufferSink()
	if err := s.Write("define i32 @main() {\n  ret i32 0\n}\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Write("define void @zero() {\n  ret void\n}\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.String() != "define void @zero() {\n  ret void\n}\n" {
		t.Fatalf("got %q", s.String())
	}
}

func TestFileSinkOverwritesOnEachWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ir_output.ll")
	s := NewFileSink(path)

	if err := s.Write("first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Write("second"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("got %q, want file to be fully overwritten", data)
	}
}

func TestFileSinkUnwritablePathReturnsError(t *testing.T) {
	s := NewFileSink(filepath.Join(t.TempDir(), "missing-dir", "ir_output.ll"))
	if err := s.Write("text"); err == nil {
		t.Fatal("expected an error writing to a nonexistent directory")
	}
}
