package logger

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatKVLineRespectsKeyOrder(t *testing.T) {
	fields := map[string]any{
		"component": "tg",
		"event":     "handler.handled",
		"level":     "INFO",
		"ts":        "2026-01-02T03:04:05.000Z",
		"zz_extra":  "later",
	}
	line := string(formatKVLine(fields, defaultKeyOrder))

	tsIdx := strings.Index(line, "ts=")
	compIdx := strings.Index(line, "component=")
	eventIdx := strings.Index(line, "event=")
	extraIdx := strings.Index(line, "zz_extra=")

	require.GreaterOrEqual(t, tsIdx, 0)
	assert.Less(t, tsIdx, compIdx)
	assert.Less(t, compIdx, eventIdx)
	assert.Less(t, eventIdx, extraIdx)
}

func TestFormatKVLineQuotesValuesWithSpaces(t *testing.T) {
	fields := map[string]any{"err": "chat not found"}
	line := string(formatKVLine(fields, nil))
	assert.Equal(t, `err="chat not found"`, line)
}

func TestFormatJSONLineOrderedPrefix(t *testing.T) {
	fields := map[string]any{
		"ts":    "2026-01-02T03:04:05.000Z",
		"level": "INFO",
		"event": "startup",
	}
	line, err := formatJSONLine(fields, defaultKeyOrder)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(line), `{"ts":"2026-01-02T03:04:05.000Z","level":"INFO"`))
}

func TestNormalizeAttrDuration(t *testing.T) {
	key, val, ok := normalizeAttr("duration", slog.DurationValue(1500*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, "duration_ms", key)
	assert.Equal(t, int64(1500), val)

	key, _, ok = normalizeAttr("flush", slog.DurationValue(2*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, "flush_ms", key)
}

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "abc", SanitizeLimit("abc\x00\x1b", 16))
	assert.Equal(t, "ab", SanitizeLimit("abcdef", 2))
	assert.Equal(t, "", SanitizeLimit("abc", 0))
}

func TestBuildRID(t *testing.T) {
	assert.Equal(t, "7:42:9", BuildRID(7, 42, 9))
}
