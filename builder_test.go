package tokendi_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/tokendi"
	"github.com/junioryono/tokendi/config"
	"github.com/junioryono/tokendi/internal/testutil"
)

func TestBuilder_Set(t *testing.T) {
	t.Run("replaces earlier registration", func(t *testing.T) {
		b := tokendi.NewBuilder()
		require.NoError(t, b.Set("db", &testutil.Database{DSN: "first"}))
		require.NoError(t, b.Set("db", &testutil.Database{DSN: "second"}))

		assert.Equal(t, 1, b.Count())

		c := testutil.RequireBuild(t, b)
		assert.Equal(t, "second", testutil.AssertResolvable[*testutil.Database](t, c, "db").DSN)
	})

	t.Run("invalid token", func(t *testing.T) {
		b := tokendi.NewBuilder()
		err := b.Set(42, "value")

		assert.True(t, tokendi.IsInvalidToken(err))
		regErr := testutil.AssertErrorType[*tokendi.RegistrationError](t, err)
		assert.Equal(t, "normalize", regErr.Operation)
		assert.Equal(t, 0, b.Count())
	})

	t.Run("invalid definition names the token", func(t *testing.T) {
		b := tokendi.NewBuilder()
		err := b.Set("db", nil)

		assert.True(t, tokendi.IsInvalidDefinition(err))
		defErr := testutil.AssertErrorType[*tokendi.DefinitionError](t, err)
		assert.Equal(t, "db", defErr.Token)
		assert.False(t, b.Has("db"))
	})

	t.Run("MustSet panics", func(t *testing.T) {
		testutil.AssertPanicsWithError(t, tokendi.ErrInvalidDefinition, func() {
			tokendi.NewBuilder().MustSet("db", nil)
		})
	})

	t.Run("Has", func(t *testing.T) {
		b := tokendi.NewBuilder().MustSet(tokendi.TypeOf[*testutil.Database](), &testutil.Database{})

		assert.True(t, b.Has(tokendi.TypeOf[*testutil.Database]()))
		assert.False(t, b.Has(tokendi.TypeOf[testutil.Database]()))
		assert.False(t, b.Has(nil))
	})
}

func TestBuilder_Freeze(t *testing.T) {
	b := tokendi.NewBuilder()
	b.MustSet("db", &testutil.Database{})

	first := testutil.RequireBuild(t, b)

	err := b.Set("late", "value")
	assert.ErrorIs(t, err, tokendi.ErrImmutableTable)
	regErr := testutil.AssertErrorType[*tokendi.RegistrationError](t, err)
	assert.Equal(t, "late", regErr.Token)

	assert.ErrorIs(t, b.AddModules(tokendi.Set("late", 1)), tokendi.ErrImmutableTable)
	assert.False(t, first.Has("late"))

	t.Run("rebuild shares the table with fresh singletons", func(t *testing.T) {
		second := testutil.RequireBuild(t, b)

		testutil.AssertDifferentInstances(t,
			testutil.AssertResolvable[*testutil.Database](t, first, "db"),
			testutil.AssertResolvable[*testutil.Database](t, second, "db"),
		)
	})
}

func TestBuilder_Options(t *testing.T) {
	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

		b := tokendi.NewBuilder().MustSet("db", &testutil.Database{})
		c := testutil.RequireBuild(t, b, tokendi.WithLogger(logger))

		_, err := c.Get("db")
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, `"message":"container built"`)
		assert.Contains(t, out, `"token":"db"`)
		assert.Contains(t, out, c.ID())
	})

	t.Run("WithConfig enables eager singletons", func(t *testing.T) {
		var counter testutil.Counter

		b := tokendi.NewBuilder()
		b.MustSet("db", tokendi.SingletonOf(func(tokendi.Resolver) (any, error) {
			counter.Inc()
			return &testutil.Database{}, nil
		}))

		cfg := config.Default()
		cfg.EagerSingletons = true

		c := testutil.RequireBuild(t, b, tokendi.WithConfig(cfg), tokendi.WithConfig(nil), nil)
		assert.Equal(t, int64(1), counter.Load())
		assert.True(t, c.Resolved("db"))
	})
}
