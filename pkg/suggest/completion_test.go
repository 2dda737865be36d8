package suggest

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/unialias/pkg/dataset"
	"github.com/bastiangx/unialias/pkg/sink"
	"github.com/bastiangx/unialias/pkg/trie"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func newTrie(t testing.TB, pairs ...string) *trie.Trie {
	t.Helper()
	tr := trie.New()
	for _, p := range pairs {
		alias, ch, ok := strings.Cut(p, "=")
		require.True(t, ok, p)
		require.NoError(t, tr.AppendLeaf(alias, []rune(ch)[0]))
	}
	return tr
}

func aliases(s []Suggestion) []string {
	out := make([]string, len(s))
	for i, sg := range s {
		out[i] = sg.Alias
	}
	return out
}

func TestComplete(t *testing.T) {
	ix := NewIndex(nil, nil, Options{})
	ix.Swap(newTrie(t, "example=e", "except=x", "execution=c", "alpha=α", "alpaca=l"))

	tests := []struct {
		name    string
		input   string
		limit   int
		want    []string
		matched int
	}{
		{"shared prefix", "ex", 5, []string{"example", "except", "execution"}, 2},
		{"limit", "ex", 2, []string{"example", "except"}, 2},
		{"into a leaf", "exe", 5, []string{"execution"}, 3},
		{"partial match lists subtree", "alx", 5, []string{"alpha", "alpaca"}, 2},
		{"exact alias", "alpha", 5, []string{"alpha"}, 5},
		{"input past an alias", "alphabet", 5, []string{"alpha"}, 5},
		{"no match", "zzz", 5, nil, 0},
		{"empty", "", 5, nil, 0},
		{"non-ascii", "αlpha", 5, nil, 0},
		{"zero limit", "ex", 0, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ix.Complete(tt.input, tt.limit)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, aliases(got))
			for _, s := range got {
				assert.Equal(t, tt.matched, s.Matched)
			}
		})
	}
}

func TestCompleteCarriesCharacters(t *testing.T) {
	ix := NewIndex(nil, nil, Options{})
	ix.Swap(newTrie(t, "alpha=α", "alpaca=l"))

	got := ix.Complete("alp", 5)
	assert.Equal(t, []Suggestion{
		{Alias: "alpha", Matched: 3, Char: 'α'},
		{Alias: "alpaca", Matched: 3, Char: 'l'},
	}, got)
}

func TestCompleteReportsExactAliasOnce(t *testing.T) {
	ix := NewIndex(nil, nil, Options{})
	ix.Swap(newTrie(t, "alpha=α", "alphamale=m"))

	assert.Equal(t, []string{"alpha", "alphamale"}, aliases(ix.Complete("alpha", 5)))
}

func TestSelect(t *testing.T) {
	var out bytes.Buffer
	ix := NewIndex(nil, sink.NewWriter(&out), Options{RecentFirst: true, MaxRecent: 8})
	ix.Swap(newTrie(t, "alpha=α", "alpaca=l", "beta=β"))

	r, err := ix.Select("beta")
	require.NoError(t, err)
	assert.Equal(t, 'β', r)
	assert.Equal(t, "β\n", out.String())

	_, err = ix.Select("gamma")
	assert.ErrorIs(t, err, trie.ErrNotFound)

	_, err = ix.Select("")
	assert.ErrorIs(t, err, trie.ErrInvalidAlias)
	assert.Equal(t, "β\n", out.String())
}

func TestSelectPrefixOfLeafIsNotFound(t *testing.T) {
	var out bytes.Buffer
	ix := NewIndex(nil, sink.NewWriter(&out), Options{RecentFirst: true, MaxRecent: 8})
	ix.Swap(newTrie(t, "infinity=∞", "beta=β"))

	for _, alias := range []string{"inf", "i", "bet"} {
		r, err := ix.Select(alias)
		assert.ErrorIs(t, err, trie.ErrNotFound, alias)
		assert.Zero(t, r, alias)

		_, err = ix.Lookup(alias)
		assert.ErrorIs(t, err, trie.ErrNotFound, alias)
	}
	assert.Empty(t, out.String())
	assert.Zero(t, ix.recent.Len())
}

func TestRecentFirst(t *testing.T) {
	ix := NewIndex(nil, nil, Options{RecentFirst: true, MaxRecent: 8})
	ix.Swap(newTrie(t, "alpha=α", "alpaca=l", "alphamale=m", "beta=β"))

	_, err := ix.Select("alpaca")
	require.NoError(t, err)
	_, err = ix.Select("alphamale")
	require.NoError(t, err)
	_, err = ix.Select("beta")
	require.NoError(t, err)

	got := ix.Complete("al", 5)
	assert.Equal(t, []string{"alphamale", "alpaca", "alpha"}, aliases(got))
	assert.True(t, got[0].Recent)
	assert.True(t, got[1].Recent)
	assert.False(t, got[2].Recent)

	// recents never escape the matched subtree
	assert.Equal(t, []string{"alphamale", "alpha"}, aliases(ix.Complete("alph", 5)))

	assert.Equal(t, []string{"alphamale"}, aliases(ix.Complete("al", 1)))
	assert.Equal(t, 3, ix.Stats()["recentHits"])
}

func TestRecentFirstDisabled(t *testing.T) {
	ix := NewIndex(nil, nil, Options{MaxRecent: 8})
	ix.Swap(newTrie(t, "alpha=α", "alpaca=l"))

	_, err := ix.Select("alpaca")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "alpaca"}, aliases(ix.Complete("al", 5)))
}

func TestRecentDroppedBySwapIsSkipped(t *testing.T) {
	ix := NewIndex(nil, nil, Options{RecentFirst: true, MaxRecent: 8})
	ix.Swap(newTrie(t, "alpha=α", "alpaca=l"))
	_, err := ix.Select("alpaca")
	require.NoError(t, err)

	ix.Swap(newTrie(t, "alpha=α", "alpine=p"))
	assert.Equal(t, []string{"alpha", "alpine"}, aliases(ix.Complete("al", 5)))
	assert.Zero(t, ix.recent.Len())
}

func TestStaleRecent(t *testing.T) {
	assert.True(t, staleRecent(fmt.Errorf("%w: %q", trie.ErrNotFound, "alpha")))
	assert.False(t, staleRecent(fmt.Errorf("%w: node 3", trie.ErrInternalConsistency)))
	assert.False(t, staleRecent(trie.ErrInvalidAlias))
}

func writeDataset(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "greek.csv", "alpha,α\nbeta,β\n")

	ix := NewIndex(dataset.NewLoader(dir, 0), nil, Options{})
	report, err := ix.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Aliases)

	r, err := ix.Lookup("beta")
	require.NoError(t, err)
	assert.Equal(t, 'β', r)

	// a broken dataset keeps the previous trie live
	writeDataset(t, dir, "broken.csv", "gamma\n")
	_, err = ix.Reload(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrMalformedRecord)

	r, err = ix.Lookup("alpha")
	require.NoError(t, err)
	assert.Equal(t, 'α', r)

	stats := ix.Stats()
	assert.Equal(t, 1, stats["reloads"])
	assert.Equal(t, 2, stats["aliases"])
	assert.Equal(t, 1, stats["datasets"])
}

func TestReloadWithoutLoader(t *testing.T) {
	_, err := NewIndex(nil, nil, Options{}).Reload(context.Background())
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestRender(t *testing.T) {
	ix := NewIndex(nil, nil, Options{})
	ix.Swap(newTrie(t, "alpha=α", "beta=β"))

	var buf bytes.Buffer
	require.NoError(t, ix.Render(&buf))
	assert.Equal(t, "\n    alpha(α)\n    beta(β)\n", buf.String())
}

func TestConcurrentQueriesDuringReload(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "a.csv", "example,e\nexcept,x\nexecution,c\n")
	writeDataset(t, dir, "b.csv", "alpha,α\nalpaca,l\nalphamale,m\n")

	ix := NewIndex(dataset.NewLoader(dir, 2), nil, Options{RecentFirst: true, MaxRecent: 4})
	_, err := ix.Reload(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if got := ix.Complete("ex", 5); len(got) != 3 {
					t.Errorf("worker %d: got %d completions", w, len(got))
					return
				}
				if _, err := ix.Select("alpaca"); err != nil {
					t.Errorf("worker %d: %v", w, err)
					return
				}
			}
		}(w)
	}
	for i := 0; i < 10; i++ {
		_, err := ix.Reload(context.Background())
		require.NoError(t, err)
	}
	wg.Wait()

	assert.Equal(t, 11, ix.Stats()["reloads"])
}
