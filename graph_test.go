package tokendi_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/tokendi"
)

func wrap(s string) string { return "[" + s + "]" }

func TestBuilder_Validate(t *testing.T) {
	t.Run("acyclic", func(t *testing.T) {
		b := tokendi.NewBuilder()
		b.MustSet("base", "value")
		b.MustSet("wrapped", tokendi.Class(wrap, "base"))
		b.MustSet("twice", tokendi.Create(wrap).Inject("wrapped").Singleton())

		assert.NoError(t, b.Validate())
	})

	t.Run("declared cycle", func(t *testing.T) {
		b := tokendi.NewBuilder()
		b.MustSet("a", tokendi.Class(wrap, "b"))
		b.MustSet("b", tokendi.Class(wrap, "a"))

		err := b.Validate()
		require.Error(t, err)
		assert.True(t, tokendi.IsCircularDependency(err))
		assert.Equal(t, "circular dependency detected: a -> b -> a", err.Error())
	})

	t.Run("missing dependency is allowed", func(t *testing.T) {
		b := tokendi.NewBuilder()
		b.MustSet("wrapped", tokendi.Class(wrap, "provided-by-parent"))

		assert.NoError(t, b.Validate())
	})

	t.Run("factories declare nothing", func(t *testing.T) {
		b := tokendi.NewBuilder()
		b.MustSet("a", tokendi.Ref("b"))
		b.MustSet("b", tokendi.Ref("a"))

		// Invisible statically, still caught while resolving
		require.NoError(t, b.Validate())

		c, err := b.Build()
		require.NoError(t, err)
		defer c.Close()

		_, err = c.Get("a")
		assert.True(t, tokendi.IsCircularDependency(err))
	})
}

func TestContainer_WriteGraph(t *testing.T) {
	b := tokendi.NewBuilder()
	b.MustSet("base", tokendi.Value("value"))
	b.MustSet("wrapped", tokendi.Create(wrap).Inject("base").Singleton())
	b.MustSet("external", tokendi.Class(wrap, "missing"))

	c, err := b.Build()
	require.NoError(t, err)
	defer c.Close()

	var text bytes.Buffer
	require.NoError(t, c.WriteGraph(&text))
	assert.Equal(t,
		"base -> []\n"+
			"wrapped -> [base]\n"+
			"external -> [missing]\n"+
			"missing (missing) -> []\n"+
			"cycles: none\n",
		text.String())

	var dot bytes.Buffer
	require.NoError(t, c.WriteDOT(&dot))
	assert.Contains(t, dot.String(), "digraph dependencies {")
	assert.Contains(t, dot.String(), "n1 -> n0;")
	assert.Contains(t, dot.String(), `fillcolor="lightgray"`)
}

func TestRegistration_Dependencies(t *testing.T) {
	reg, err := tokendi.Create(wrap).Inject("base").Build()
	require.NoError(t, err)
	require.Len(t, reg.Dependencies, 1)
	assert.Equal(t, "base", reg.Dependencies[0].String())

	auto, err := tokendi.Create(wrap).Autowire().Build()
	require.NoError(t, err)
	assert.Equal(t, []tokendi.Token{tokendi.TypeOf[string]()}, auto.Dependencies)
}
