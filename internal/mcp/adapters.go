package mcp

import (
	"context"

	"marketlens/internal/domain"
)

// MarketReader exposes the market-data operations the tools call. Symbols,
// intervals, and limits are validated by the tool layer before the call.
type MarketReader interface {
	GetPrice(ctx context.Context, symbol string) (*domain.PriceQuote, error)
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Candle, error)
	Get24hrStats(ctx context.Context, symbol string) (*domain.TickerStats, error)
	AveragePrice(ctx context.Context, symbol, interval string, limit int) (*domain.AveragePrice, error)
}
