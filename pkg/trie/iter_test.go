package trie

import (
	"testing"

	"github.com/openacid/testkeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type visit struct {
	value string
	depth int
}

func collect(tr *Trie, start int) []visit {
	var out []visit
	for idx, depth := range tr.Walk(start) {
		out = append(out, visit{tr.Node(idx).Value(), depth})
	}
	return out
}

func TestIteratorPreOrder(t *testing.T) {
	tr := build(t, "alpha", "alpaca", "alphamale", "beta")

	assert.Equal(t, []visit{
		{"", 0},
		{"alp", 1},
		{"alpha", 2},
		{"alpha", 3},
		{"alphamale", 3},
		{"alpaca", 2},
		{"beta", 1},
	}, collect(tr, Root))
}

func TestIteratorStartsAtGivenNode(t *testing.T) {
	tr := build(t, "alpha", "alpaca", "alphamale", "beta")
	idx, _ := tr.FindMaxMatch([]byte("alph"))

	assert.Equal(t, []visit{
		{"alpha", 0},
		{"alpha", 1},
		{"alphamale", 1},
	}, collect(tr, idx))

	leaf, _ := tr.FindMaxMatch([]byte("beta"))
	assert.Equal(t, []visit{{"beta", 0}}, collect(tr, leaf))
}

func TestIteratorIsSinglePass(t *testing.T) {
	tr := build(t, "a", "b")
	it := tr.Iter(Root)

	n := 0
	for it.HasNext() {
		_, _, err := it.Next()
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 3, n)

	assert.False(t, it.HasNext())
	_, _, err := it.Next()
	assert.ErrorIs(t, err, ErrNoMoreNodes)

	// a fresh iterator starts over
	assert.Len(t, collect(tr, Root), 3)
}

func TestWalkStopsEarly(t *testing.T) {
	tr := build(t, "a", "b", "c", "d")
	n := 0
	for range tr.Walk(Root) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestEmptyTrieWalk(t *testing.T) {
	assert.Equal(t, []visit{{"", 0}}, collect(New(), Root))
	assert.Empty(t, New().Enumerate(Root, 5))
}

var keyCache = map[string][]string{}

func loadKeys(name string) []string {
	if ks, ok := keyCache[name]; ok {
		return ks
	}
	var ks []string
	for _, k := range testkeys.Load(name) {
		if ValidateAlias(k) == nil {
			ks = append(ks, k)
		}
	}
	keyCache[name] = ks
	return ks
}

func TestBigKeySetRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping big key set in short mode")
	}
	keys := loadKeys("1mvl5_10")
	if len(keys) > 50000 {
		keys = keys[:50000]
	}

	tr := New()
	stored := make(map[string]rune, len(keys))
	for i, k := range keys {
		r := rune(0x2100 + i%0x100)
		if err := tr.AppendLeaf(k, r); err != nil {
			require.ErrorIs(t, err, ErrDuplicateAlias)
			continue
		}
		stored[k] = r
	}
	require.NoError(t, tr.Check())
	assert.Equal(t, len(stored), tr.Size())

	for k, want := range stored {
		got, err := tr.FindValue(k)
		require.NoError(t, err, k)
		require.Equal(t, want, got, k)
	}
	assert.Len(t, tr.Enumerate(Root, tr.Size()+1), tr.Size())
}

func benchKeys(b *testing.B, f func(b *testing.B, keys []string)) {
	for _, fn := range testkeys.AssetNames() {
		keys := loadKeys(fn)
		if len(keys) < 1000 {
			continue
		}
		b.Run(fn, func(b *testing.B) {
			f(b, keys)
		})
	}
}

func BenchmarkAppendLeaf(b *testing.B) {
	benchKeys(b, func(b *testing.B, keys []string) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			tr := New()
			for _, k := range keys {
				_ = tr.AppendLeaf(k, 'x')
			}
		}
	})
}

func BenchmarkFindMaxMatch(b *testing.B) {
	benchKeys(b, func(b *testing.B, keys []string) {
		tr := New()
		for _, k := range keys {
			_ = tr.AppendLeaf(k, 'x')
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			k := keys[i%len(keys)]
			tr.FindMaxMatch([]byte(k[:len(k)/2+1]))
		}
	})
}
