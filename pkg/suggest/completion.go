package suggest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bastiangx/unialias/internal/utils"
	"github.com/bastiangx/unialias/pkg/dataset"
	"github.com/bastiangx/unialias/pkg/sink"
	"github.com/bastiangx/unialias/pkg/trie"
	"github.com/charmbracelet/log"
)

var ErrNoDataset = errors.New("no dataset directory configured")

// Suggestion is one completion for a query.
type Suggestion struct {
	Alias string
	// Matched is how many leading bytes of the query matched the trie.
	Matched int
	Char    rune
	Recent  bool
}

// Options tune ranking.
type Options struct {
	RecentFirst bool
	MaxRecent   int
}

// Index serves queries against a trie that can be replaced at any time.
// Readers hold the read lock for the whole query; a reload builds the new
// trie without any lock and swaps it in under the write lock.
type Index struct {
	mu      sync.RWMutex
	trie    *trie.Trie
	loader  *dataset.Loader
	recent  *RecentCache
	out     sink.Sink
	opts    Options
	reloads int
	report  dataset.Report
}

var _ ICompleter = (*Index)(nil)

// NewIndex creates an index over an empty trie. loader may be nil, in which
// case Reload fails and tries come in through Swap. A nil sink discards.
func NewIndex(loader *dataset.Loader, out sink.Sink, opts Options) *Index {
	if out == nil {
		out = sink.Discard{}
	}
	return &Index{
		trie:   trie.New(),
		loader: loader,
		recent: NewRecentCache(opts.MaxRecent),
		out:    out,
		opts:   opts,
	}
}

// Complete returns up to limit completions for the longest prefix of input
// found in the trie. Nothing is returned when input is empty or not ASCII,
// when limit is not positive, or when not even the first byte matched.
func (ix *Index) Complete(input string, limit int) []Suggestion {
	if limit <= 0 || trie.ValidateAlias(input) != nil {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	idx, matched := ix.trie.FindMaxMatch([]byte(input))
	if idx == trie.Root {
		return nil
	}

	suggestions := make([]Suggestion, 0, limit)
	filter := utils.NewAliasFilter(limit)

	if ix.opts.RecentFirst {
		for _, alias := range ix.recent.Search(ix.trie.Node(idx).Value()) {
			if len(suggestions) == limit {
				break
			}
			r, err := ix.trie.FindValue(alias)
			if err != nil {
				if staleRecent(err) {
					ix.recent.Forget(alias)
				} else {
					log.Errorf("Recent alias %q: %v", alias, err)
				}
				continue
			}
			filter.ShouldInclude(alias)
			suggestions = append(suggestions, Suggestion{Alias: alias, Matched: matched, Char: r, Recent: true})
		}
		if len(suggestions) > 0 {
			ix.recent.markHit()
		}
	}

	for node := range ix.trie.Walk(idx) {
		if len(suggestions) == limit {
			break
		}
		n := ix.trie.Node(node)
		r, ok := n.Data()
		if !ok || !filter.ShouldInclude(n.Value()) {
			continue
		}
		suggestions = append(suggestions, Suggestion{Alias: n.Value(), Matched: matched, Char: r})
	}

	log.Debugf("Completed %q: matched %d, %d suggestions", input, matched, len(suggestions))
	return suggestions
}

// staleRecent reports whether a recent alias is gone from the live trie, as
// opposed to the trie being broken.
func staleRecent(err error) bool {
	return errors.Is(err, trie.ErrNotFound)
}

// Lookup returns the character of an exact alias.
func (ix *Index) Lookup(alias string) (rune, error) {
	if err := trie.ValidateAlias(alias); err != nil {
		return 0, err
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.trie.FindValue(alias)
}

// Select looks up alias, remembers it as recently used and emits its
// character to the sink. The character is returned even when the sink fails.
func (ix *Index) Select(alias string) (rune, error) {
	r, err := ix.Lookup(alias)
	if err != nil {
		return 0, err
	}
	ix.recent.Touch(alias)
	if err := ix.out.Emit(string(r)); err != nil {
		return r, fmt.Errorf("failed to emit %q: %w", alias, err)
	}
	log.Debugf("Selected %s -> %c", alias, r)
	return r, nil
}

// Reload builds a fresh trie from the dataset directory and swaps it in.
// On failure the live trie is left untouched.
func (ix *Index) Reload(ctx context.Context) (dataset.Report, error) {
	if ix.loader == nil {
		return dataset.Report{}, ErrNoDataset
	}

	t, report, err := ix.loader.Build(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to reload datasets: %w", err)
	}

	ix.mu.Lock()
	ix.trie = t
	ix.reloads++
	ix.report = report
	ix.mu.Unlock()

	log.Infof("Loaded %d aliases from %d datasets in %s", report.Aliases, len(report.Files), report.Elapsed)
	return report, nil
}

// Swap replaces the live trie.
func (ix *Index) Swap(t *trie.Trie) {
	if t == nil {
		t = trie.New()
	}
	ix.mu.Lock()
	ix.trie = t
	ix.mu.Unlock()
}

func (ix *Index) Render(w io.Writer) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.trie.Render(w)
}

func (ix *Index) Stats() map[string]int {
	ix.mu.RLock()
	stats := map[string]int{
		"aliases":    ix.trie.Size(),
		"nodes":      ix.trie.Len(),
		"reloads":    ix.reloads,
		"datasets":   len(ix.report.Files),
		"duplicates": ix.report.Duplicates,
	}
	ix.mu.RUnlock()

	for k, v := range ix.recent.Stats() {
		stats[k] = v
	}
	return stats
}
