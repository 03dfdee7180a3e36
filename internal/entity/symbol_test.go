package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolRegistryValidate(t *testing.T) {
	registry := NewSymbolRegistry([]string{"BTC", "eth", " sol "})

	t.Run("accepts registered symbols case insensitively", func(t *testing.T) {
		for _, symbol := range []string{"BTC", "btc", "ETH", "SOL", " sol "} {
			assert.NoError(t, registry.Validate(symbol), symbol)
		}
	})

	t.Run("rejects unregistered symbols", func(t *testing.T) {
		assert.ErrorIs(t, registry.Validate("DOGE"), ErrUnsupportedSymbol)
	})

	t.Run("rejects symbols outside the length bounds", func(t *testing.T) {
		assert.ErrorIs(t, registry.Validate("BT"), ErrUnsupportedSymbol)
		assert.ErrorIs(t, registry.Validate("TOOLONG"), ErrUnsupportedSymbol)
		assert.ErrorIs(t, registry.Validate(""), ErrUnsupportedSymbol)
	})
}

func TestSymbolRegistrySymbols(t *testing.T) {
	registry := NewSymbolRegistry([]string{"BTC", "btc", "", "ETH"})
	assert.ElementsMatch(t, []string{"BTC", "ETH"}, registry.Symbols())
}
