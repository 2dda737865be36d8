package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bastiangx/unialias/pkg/trie"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseReader(t *testing.T) {
	input := strings.Join([]string{
		"# greek",
		"alpha,α",
		"  beta , β  ",
		"",
		"   ",
		"gamma,γ trailing text",
		"comma,,",
		"windows,ω\r",
	}, "\n")

	records, err := ParseReader(strings.NewReader(input), "greek.csv")
	require.NoError(t, err)

	assert.Equal(t, []Record{
		{Alias: "alpha", Char: 'α', Line: 2},
		{Alias: "beta", Char: 'β', Line: 3},
		{Alias: "gamma", Char: 'γ', Line: 6},
		{Alias: "comma", Char: ',', Line: 7},
		{Alias: "windows", Char: 'ω', Line: 8},
	}, records)
}

func TestParseReaderRejectsMalformedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"no comma", "alpha α"},
		{"empty alias", " ,α"},
		{"non-ascii alias", "ålpha,α"},
		{"missing char", "alpha,"},
		{"blank char", "alpha,   "},
		{"invalid utf8", "alpha,\xff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReader(strings.NewReader("ok,o\n"+tt.line+"\n"), "bad.csv")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedRecord)
			assert.Contains(t, err.Error(), "bad.csv:2")
		})
	}
}

func TestParseReaderKeepsInvalidAliasCause(t *testing.T) {
	_, err := ParseReader(strings.NewReader(",x\n"), "x.csv")
	assert.ErrorIs(t, err, trie.ErrInvalidAlias)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_greek.csv", "alpha,α\nbeta,β\n")
	writeFile(t, dir, "b_math.csv", "# math\nalpha,∝\ninf,∞\nin,∈\n")
	writeFile(t, dir, "notes.txt", "not,a dataset\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	tr, report, err := NewLoader(dir, 2).Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, tr.Check())

	assert.Equal(t, 4, report.Aliases)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, []FileReport{
		{Name: "a_greek.csv", Records: 2},
		{Name: "b_math.csv", Records: 3, Skipped: 1},
	}, report.Files)

	// the first file in lexical order wins a duplicate
	r, err := tr.FindValue("alpha")
	require.NoError(t, err)
	assert.Equal(t, 'α', r)

	r, err = tr.FindValue("in")
	require.NoError(t, err)
	assert.Equal(t, '∈', r)
}

func TestBuildFailsOnMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.csv", "alpha,α\n")
	writeFile(t, dir, "bad.csv", "alpha\n")

	tr, _, err := NewLoader(dir, 0).Build(context.Background())
	require.Error(t, err)
	assert.Nil(t, tr)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "bad.csv")
}

func TestBuildMissingDirectory(t *testing.T) {
	_, _, err := NewLoader(filepath.Join(t.TempDir(), "nope"), 0).Build(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildEmptyDirectory(t *testing.T) {
	tr, report, err := NewLoader(t.TempDir(), 0).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Size())
	assert.Empty(t, report.Files)
}

func TestBuildCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "alpha,α\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewLoader(dir, 1).Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCatalog(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "math.csv", "inf,∞\n")
	writeFile(t, dir, "greek.csv", "alpha,α\n")
	writeFile(t, dir, "greek.md", "# Greek\n\nLowercase letters.\n")

	infos, err := Catalog(dir)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "greek", infos[0].Name)
	assert.Equal(t, filepath.Join(dir, "greek.md"), infos[0].DocPath)
	assert.Equal(t, "math", infos[1].Name)
	assert.Empty(t, infos[1].DocPath)
	assert.Equal(t, int64(len("inf,∞\n")), infos[1].Size)

	doc, err := ReadDoc(infos[0])
	require.NoError(t, err)
	assert.Contains(t, doc, "Lowercase letters.")

	doc, err = ReadDoc(infos[1])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, "# math"))
}

func TestWatcherReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	reloaded := make(chan struct{}, 4)
	w, err := NewWatcher(dir, 50*time.Millisecond, func(ctx context.Context) error {
		reloaded <- struct{}{}
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	writeFile(t, dir, "ignored.txt", "x")
	writeFile(t, dir, "greek.csv", "alpha,α\n")
	writeFile(t, dir, "greek.csv", "alpha,α\nbeta,β\n")

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload")
	}
	w.Stop()

	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.Reloads, 1)
	assert.GreaterOrEqual(t, stats.Events, 1)
	assert.Equal(t, filepath.Join(dir, "greek.csv"), stats.LastEventPath)
}

func TestWatcherStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(t.TempDir(), 0, func(context.Context) error { return nil })
	require.NoError(t, err)
	w.Stop()
	w.Stop()
}

func TestWatcherStopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(t.TempDir(), 0, func(context.Context) error { return nil })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()
	w.Stop()
}
