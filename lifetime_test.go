package tokendi_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/tokendi"
)

func TestLifetime(t *testing.T) {
	t.Run("zero value is transient", func(t *testing.T) {
		var l tokendi.Lifetime
		assert.Equal(t, tokendi.Transient, l)
	})

	t.Run("String", func(t *testing.T) {
		tests := []struct {
			lifetime tokendi.Lifetime
			expected string
		}{
			{tokendi.Transient, "Transient"},
			{tokendi.Singleton, "Singleton"},
			{tokendi.Lifetime(999), "Unknown(999)"},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.lifetime.String())
		}
	})

	t.Run("IsValid", func(t *testing.T) {
		assert.True(t, tokendi.Transient.IsValid())
		assert.True(t, tokendi.Singleton.IsValid())
		assert.False(t, tokendi.Lifetime(-1).IsValid())
		assert.False(t, tokendi.Lifetime(2).IsValid())
	})

	t.Run("text round trip", func(t *testing.T) {
		for _, l := range []tokendi.Lifetime{tokendi.Transient, tokendi.Singleton} {
			text, err := l.MarshalText()
			require.NoError(t, err)

			var decoded tokendi.Lifetime
			require.NoError(t, decoded.UnmarshalText(text))
			assert.Equal(t, l, decoded)
		}
	})

	t.Run("UnmarshalText accepts lower case", func(t *testing.T) {
		var l tokendi.Lifetime
		require.NoError(t, l.UnmarshalText([]byte("singleton")))
		assert.Equal(t, tokendi.Singleton, l)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := tokendi.Lifetime(7).MarshalText()
		var lifetimeErr *tokendi.LifetimeError
		assert.ErrorAs(t, err, &lifetimeErr)

		var l tokendi.Lifetime
		err = l.UnmarshalText([]byte("Scoped"))
		assert.ErrorAs(t, err, &lifetimeErr)
		assert.Equal(t, "Scoped", lifetimeErr.Value)
	})

	t.Run("JSON", func(t *testing.T) {
		type config struct {
			Lifetime tokendi.Lifetime `json:"lifetime"`
		}

		data, err := json.Marshal(config{Lifetime: tokendi.Singleton})
		require.NoError(t, err)
		assert.JSONEq(t, `{"lifetime":"Singleton"}`, string(data))

		var decoded config
		require.NoError(t, json.Unmarshal([]byte(`{"lifetime":"transient"}`), &decoded))
		assert.Equal(t, tokendi.Transient, decoded.Lifetime)

		assert.Error(t, json.Unmarshal([]byte(`{"lifetime":1}`), &decoded))
	})
}
