// Package irsink abstracts where generated LLVM IR text is written to: the
// fixed output file for the compile command, an in-memory buffer for tests.
package irsink

import (
	"bytes"
	"fmt"
	"os"
)

// Sink accepts the final serialized IR text for one compilation.
type Sink interface {
	Write(text string) error
}

// FileSink overwrites Path with the given text on every Write.
type FileSink struct {
	Path string
}

// NewFileSink returns a Sink writing to path, overwriting it each time.
func NewFileSink(path string) FileSink {
	return FileSink{Path: path}
}

func (s FileSink) Write(text string) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("irsink: cannot create %s: %w", s.Path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("irsink: cannot write %s: %w", s.Path, err)
	}
	return nil
}

// BufferSink holds only the most recently written text in memory, mirroring
// FileSink's overwrite-on-each-Write semantics, for tests.
type BufferSink struct {
	buf *bytes.Buffer
}

// NewBufferSink returns an empty BufferSink.
func NewBufferSink() *BufferSink {
	return &BufferSink{buf: &bytes.Buffer{}}
}

func (s *BufferSink) Write(text string) error {
	s.buf.Reset()
	s.buf.WriteString(text)
	return nil
}

// String returns the most recently written text.
func (s *BufferSink) String() string {
	return s.buf.String()
}
