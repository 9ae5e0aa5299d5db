// Package source abstracts where compiler input comes from: a file on disk
// for the compile command, an in-memory string for the repl and for tests.
package source

import "os"

// Provider supplies the full text of one compilation unit.
type Provider interface {
	Read() ([]byte, error)
}

// FileProvider reads source text from a path on disk.
type FileProvider struct {
	Path string
}

// NewFileProvider returns a Provider reading from path.
func NewFileProvider(path string) FileProvider {
	return FileProvider{Path: path}
}

func (p FileProvider) Read() ([]byte, error) {
	return os.ReadFile(p.Path)
}

// StringProvider wraps source text already held in memory.
type StringProvider struct {
	Text string
}

// NewStringProvider returns a Provider over an in-memory string.
func NewStringProvider(text string) StringProvider {
	return StringProvider{Text: text}
}

func (p StringProvider) Read() ([]byte, error) {
	return []byte(p.Text), nil
}
