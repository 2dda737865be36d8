package sink

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterEmitsOneLinePerSelection(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf)

	require.NoError(t, s.Emit("α"))
	require.NoError(t, s.Emit("∞"))
	assert.Equal(t, "α\n∞\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriterReportsWriteErrors(t *testing.T) {
	err := NewWriter(failingWriter{}).Emit("α")
	assert.ErrorContains(t, err, "closed")
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind string
		want Sink
	}{
		{"", &Writer{}},
		{KindStdout, &Writer{}},
		{KindClipboard, Clipboard{}},
		{KindNone, Discard{}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			s, err := New(tt.kind)
			require.NoError(t, err)
			assert.IsType(t, tt.want, s)
		})
	}

	_, err := New("printer")
	assert.ErrorContains(t, err, "unknown output sink")
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard{}.Emit("α"))
}
