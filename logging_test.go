package tokendi_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/tokendi"
	"github.com/junioryono/tokendi/internal/testutil"
)

func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func findEntry(entries []map[string]any, message string) map[string]any {
	for _, entry := range entries {
		if entry["message"] == message {
			return entry
		}
	}
	return nil
}

func TestContainer_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	b := tokendi.NewBuilder()
	b.MustSet("ok", tokendi.SingletonOf(func(tokendi.Resolver) (any, error) {
		return &testutil.Database{DSN: "ok"}, nil
	}))
	b.MustSet("broken", tokendi.Factory(func(tokendi.Resolver) (any, error) {
		return nil, testutil.ErrIntentional
	}))
	b.MustSet("closer", tokendi.Define(func(tokendi.Resolver) (any, error) {
		return &testutil.Database{DSN: "closer"}, nil
	}).Singleton().OnDestroy(func(any) error {
		return testutil.ErrDisposal
	}))

	c, err := b.Build(tokendi.WithLogger(logger))
	require.NoError(t, err)

	_, err = c.Get("ok")
	require.NoError(t, err)
	_, err = c.Get("closer")
	require.NoError(t, err)
	_, err = c.Get("broken")
	require.ErrorIs(t, err, testutil.ErrIntentional)

	require.Error(t, c.Close())

	entries := logEntries(t, &buf)

	built := findEntry(entries, "container built")
	require.NotNil(t, built)
	assert.Equal(t, c.ID(), built["container"])
	assert.Equal(t, float64(3), built["registrations"])

	constructing := findEntry(entries, "constructing")
	require.NotNil(t, constructing)
	assert.Equal(t, "debug", constructing["level"])
	assert.Equal(t, "ok", constructing["token"])
	assert.Equal(t, "Singleton", constructing["lifetime"])

	failed := findEntry(entries, "factory failed")
	require.NotNil(t, failed)
	assert.Equal(t, "warn", failed["level"])
	assert.Equal(t, "broken", failed["token"])

	disposal := findEntry(entries, "dispose failed")
	require.NotNil(t, disposal)
	assert.Equal(t, "error", disposal["level"])
	assert.Equal(t, "closer", disposal["token"])
}

func TestContainer_LoggingDisabledByDefault(t *testing.T) {
	b := tokendi.NewBuilder()
	b.MustSet("broken", tokendi.Factory(func(tokendi.Resolver) (any, error) {
		return nil, testutil.ErrIntentional
	}))

	c := testutil.RequireBuild(t, b)

	_, err := c.Get("broken")
	assert.ErrorIs(t, err, testutil.ErrIntentional)
}
