// Package cli is an interactive prompt for trying completions and inspecting the trie in real time.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/unialias/internal/logger"
	"github.com/bastiangx/unialias/internal/utils"
	"github.com/bastiangx/unialias/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler reads lines from the user. Plain text completes the last
// word typed; lines starting with '/' are commands.
type InputHandler struct {
	completer    suggest.ICompleter
	in           io.Reader
	out          io.Writer
	log          *log.Logger
	maxInput     int
	suggestLimit int
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer suggest.ICompleter, in io.Reader, out io.Writer, maxInput, limit int) *InputHandler {
	return &InputHandler{
		completer:    completer,
		in:           in,
		out:          out,
		log:          logger.Default("cli"),
		maxInput:     maxInput,
		suggestLimit: limit,
	}
}

// Start runs the prompt loop until EOF, /quit or ctx is done.
func (h *InputHandler) Start(ctx context.Context) error {
	fmt.Fprintln(h.out, titleStyle.Render("unialias CLI"))
	fmt.Fprintln(h.out, "type an alias prefix and press Enter, /help for commands (Ctrl+D to exit)")

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, promptStyle.Render("> "))
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := h.handleCommand(ctx, line); quit {
				return nil
			}
			continue
		}
		h.handleInput(line)
	}
}

// handleInput completes the last word of a line.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	prefix := utils.LastToken(line)
	if prefix == "" {
		return
	}
	if len(prefix) > h.maxInput {
		h.log.Errorf("Prefix too long: %s...", utils.ClampLength(prefix, 16))
		fmt.Fprintf(h.out, "prefix longer than %d characters\n", h.maxInput)
		return
	}
	if !utils.IsPrintableASCII(prefix) {
		fmt.Fprintf(h.out, "aliases are plain ASCII, got %q\n", prefix)
		return
	}

	start := time.Now()
	suggestions := h.completer.Complete(prefix, h.suggestLimit)
	h.log.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if len(suggestions) == 0 {
		fmt.Fprintf(h.out, "no aliases match '%s'\n", prefix)
		return
	}
	fmt.Fprint(h.out, formatSuggestions(prefix, suggestions))
}

// handleCommand runs a slash command and reports whether to quit.
func (h *InputHandler) handleCommand(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprint(h.out, helpText)
	case "/pick":
		if arg == "" {
			fmt.Fprintln(h.out, "usage: /pick <alias>")
			return false
		}
		r, err := h.completer.Select(arg)
		if err != nil {
			fmt.Fprintln(h.out, errorStyle.Render(err.Error()))
			return false
		}
		fmt.Fprintf(h.out, "%s -> %s\n", arg, charStyle.Render(string(r)))
	case "/tree":
		if err := h.completer.Render(h.out); err != nil {
			fmt.Fprintln(h.out, errorStyle.Render(err.Error()))
		}
	case "/reload":
		report, err := h.completer.Reload(ctx)
		if err != nil {
			fmt.Fprintln(h.out, errorStyle.Render(err.Error()))
			return false
		}
		fmt.Fprint(h.out, formatReport(report))
	case "/stats":
		fmt.Fprint(h.out, formatStats(h.completer.Stats()))
	default:
		fmt.Fprintf(h.out, "unknown command %s, try /help\n", cmd)
	}
	return false
}

const helpText = `commands:
  /pick <alias>  emit the character of an alias
  /tree          print the trie
  /reload        reload the datasets
  /stats         show counters
  /quit          leave
`
