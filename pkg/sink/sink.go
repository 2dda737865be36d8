// Package sink delivers selected characters to wherever the user is typing.
package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/atotto/clipboard"
)

const (
	KindStdout    = "stdout"
	KindClipboard = "clipboard"
	KindNone      = "none"
)

var ErrUnsupported = errors.New("sink not supported on this system")

// Sink receives the text of a selected alias.
type Sink interface {
	Emit(text string) error
}

// Writer emits one line per selection to an io.Writer.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (s *Writer) Emit(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.w, text); err != nil {
		return fmt.Errorf("failed to write selection: %w", err)
	}
	return nil
}

// Clipboard places the selection on the system clipboard.
type Clipboard struct{}

func (Clipboard) Emit(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// Discard drops every selection.
type Discard struct{}

func (Discard) Emit(string) error { return nil }

// New returns the sink named by kind. An empty kind means stdout.
func New(kind string) (Sink, error) {
	switch kind {
	case "", KindStdout:
		return NewWriter(os.Stdout), nil
	case KindClipboard:
		return Clipboard{}, nil
	case KindNone:
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown output sink %q (want %s, %s or %s)", kind, KindStdout, KindClipboard, KindNone)
	}
}
