package entity

import (
	"errors"
	"strings"
)

var ErrUnsupportedSymbol = errors.New("unsupported symbol")

const (
	minSymbolLength = 3
	maxSymbolLength = 5
)

// SymbolRegistry is the closed set of tradable assets. Symbols are validated
// against it before any order is persisted.
type SymbolRegistry struct {
	symbols map[string]struct{}
}

func NewSymbolRegistry(symbols []string) *SymbolRegistry {
	registry := &SymbolRegistry{symbols: make(map[string]struct{}, len(symbols))}
	for _, symbol := range symbols {
		normalized := normalizeSymbol(symbol)
		if normalized == "" {
			continue
		}
		registry.symbols[normalized] = struct{}{}
	}

	return registry
}

func (r *SymbolRegistry) Symbols() []string {
	symbols := make([]string, 0, len(r.symbols))
	for symbol := range r.symbols {
		symbols = append(symbols, symbol)
	}

	return symbols
}

func (r *SymbolRegistry) Validate(symbol string) error {
	normalized := normalizeSymbol(symbol)
	if len(normalized) < minSymbolLength || len(normalized) > maxSymbolLength {
		return ErrUnsupportedSymbol
	}

	if _, ok := r.symbols[normalized]; !ok {
		return ErrUnsupportedSymbol
	}

	return nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
