package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/zlog"
)

func init() {
	zlog.Init()
}

// captureLog redirects the global logger into a buffer for the duration
// of the test so warning side effects can be asserted.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	old := zlog.Logger
	zlog.Logger = zerolog.New(&buf)
	t.Cleanup(func() { zlog.Logger = old })

	return &buf
}

func warnings(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), `"level":"warn"`)
}

func TestParseChannelMap(t *testing.T) {
	buf := captureLog(t)

	mapping := ParseChannelMap("ops=-1001234,alerts=42")

	assert.Equal(t, map[string]int64{"ops": -1001234, "alerts": 42}, mapping)
	assert.Zero(t, warnings(buf))
}

func TestParseChannelMap_SkipsMalformedEntries(t *testing.T) {
	buf := captureLog(t)

	// Missing id, missing recipient and a non-numeric id are each
	// skipped with a warning; the well-formed entries survive.
	mapping := ParseChannelMap("a=1,b=,=2,c=xyz,d=7")

	assert.Equal(t, map[string]int64{"a": 1, "d": 7}, mapping)
	assert.Equal(t, 3, warnings(buf))
}

func TestParseChannelMap_Empty(t *testing.T) {
	assert.Empty(t, ParseChannelMap(""))
	assert.Empty(t, ParseChannelMap(" , ,"))
}

func TestParseChannelMap_TrimsWhitespace(t *testing.T) {
	mapping := ParseChannelMap(" ops = 5 , alerts=6")

	assert.Equal(t, map[string]int64{"ops": 5, "alerts": 6}, mapping)
}

func TestParseChannelMap_DuplicateKeyLastWins(t *testing.T) {
	mapping := ParseChannelMap("ops=1,ops=2")

	assert.Equal(t, map[string]int64{"ops": 2}, mapping)
}
