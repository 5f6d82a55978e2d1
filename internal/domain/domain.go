package domain

import "github.com/shopspring/decimal"

const (
	// MaxKlineLimit is the largest number of candles the upstream returns
	// in one klines request.
	MaxKlineLimit = 1000

	DefaultSymbol       = "BTCUSDT"
	DefaultInterval     = "1h"
	DefaultKlineLimit   = 100
	DefaultAverageLimit = 24
)

// SupportedIntervals is the closed set of candlestick granularities the
// upstream accepts. Anything else is rejected before a request is made.
var SupportedIntervals = []string{
	"1s", "1m", "3m", "5m", "15m", "30m",
	"1h", "2h", "4h", "6h", "8h", "12h",
	"1d", "3d", "1w", "1M",
}

func IsSupportedInterval(interval string) bool {
	for _, supported := range SupportedIntervals {
		if interval == supported {
			return true
		}
	}
	return false
}

// PriceQuote is the latest traded price for one symbol.
type PriceQuote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Timestamp int64           `json:"timestamp,omitempty"` // ms epoch; 0 when the upstream omits it
}

// Candle is one OHLCV bucket. Numeric fields keep the exchange-reported
// decimal values exactly.
type Candle struct {
	OpenTime    int64           `json:"open_time"`
	Open        decimal.Decimal `json:"open"`
	High        decimal.Decimal `json:"high"`
	Low         decimal.Decimal `json:"low"`
	Close       decimal.Decimal `json:"close"`
	Volume      decimal.Decimal `json:"volume"`
	CloseTime   int64           `json:"close_time"`
	QuoteVolume decimal.Decimal `json:"quote_volume"`
	TradeCount  int64           `json:"trade_count"`
}

// TickerStats is the rolling 24-hour statistics for one symbol. Every field
// is required; a response missing any of them never becomes a TickerStats.
type TickerStats struct {
	Symbol             string          `json:"symbol"`
	PriceChange        decimal.Decimal `json:"price_change"`
	PriceChangePercent decimal.Decimal `json:"price_change_percent"`
	WeightedAvgPrice   decimal.Decimal `json:"weighted_avg_price"`
	PrevClosePrice     decimal.Decimal `json:"prev_close_price"`
	LastPrice          decimal.Decimal `json:"last_price"`
	HighPrice          decimal.Decimal `json:"high_price"`
	LowPrice           decimal.Decimal `json:"low_price"`
	Volume             decimal.Decimal `json:"volume"`
	QuoteVolume        decimal.Decimal `json:"quote_volume"`
	OpenTime           int64           `json:"open_time"`
	CloseTime          int64           `json:"close_time"`
	TradeCount         int64           `json:"trade_count"`
}

// AveragePrice is the arithmetic mean of candle close prices over a window.
type AveragePrice struct {
	Symbol          string          `json:"symbol"`
	Interval        string          `json:"interval"`
	AveragePrice    decimal.Decimal `json:"average_price"`
	PeriodCount     int             `json:"period_count"`
	CalculationTime int64           `json:"calculation_time"` // close time of the newest candle
}
