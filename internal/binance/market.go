package binance

import (
	"context"
	"net/url"
	"strconv"

	"marketlens/internal/domain"
)

// GetPrice fetches the current price for one trading pair.
func (c *Client) GetPrice(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	query := url.Values{"symbol": {symbol}}
	var quote *domain.PriceQuote
	err := c.fetchJSON(ctx, "get_price", "ticker/price", query, func(body []byte) *domain.Error {
		parsed, derr := parsePriceQuote(body)
		if derr != nil {
			return derr
		}
		quote = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// GetKlines fetches up to limit candlesticks, oldest first.
func (c *Client) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Candle, error) {
	query := url.Values{
		"symbol":   {symbol},
		"interval": {interval},
		"limit":    {strconv.Itoa(limit)},
	}
	var candles []*domain.Candle
	err := c.fetchJSON(ctx, "get_klines", "klines", query, func(body []byte) *domain.Error {
		parsed, derr := parseKlines(body)
		if derr != nil {
			return derr
		}
		candles = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candles, nil
}

// Get24hrStats fetches rolling 24-hour ticker statistics for one symbol.
func (c *Client) Get24hrStats(ctx context.Context, symbol string) (*domain.TickerStats, error) {
	query := url.Values{"symbol": {symbol}}
	var stats *domain.TickerStats
	err := c.fetchJSON(ctx, "get_24hr_stats", "ticker/24hr", query, func(body []byte) *domain.Error {
		parsed, derr := parseTickerStats(body)
		if derr != nil {
			return derr
		}
		stats = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
