// Package suggest is the query side: it turns typed text into alias completions from the live trie and tracks what the user picked.
package suggest

import (
	"context"
	"io"

	"github.com/bastiangx/unialias/pkg/dataset"
)

// ICompleter is what the server and the interactive CLI need from an index.
type ICompleter interface {
	// Complete returns completions for the longest alias prefix of input
	Complete(input string, limit int) []Suggestion

	// Lookup returns the character of an exact alias
	Lookup(alias string) (rune, error)

	// Select looks up an alias, remembers it and emits its character
	Select(alias string) (rune, error)

	// Reload rebuilds the trie from the dataset directory
	Reload(ctx context.Context) (dataset.Report, error)

	// Render writes the trie shape to w
	Render(w io.Writer) error

	// Stats returns counters about the live trie
	Stats() map[string]int
}
