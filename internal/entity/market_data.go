package entity

import "github.com/shopspring/decimal"

// Tick is one observation of the simulated market data feed.
type Tick struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Volume    decimal.Decimal `json:"volume"`
	Timestamp int64           `json:"timestamp"` // unix millis
}
