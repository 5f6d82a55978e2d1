package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"marketlens/internal/domain"
)

func registerTools(server *mcp.Server, market MarketReader) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_price",
		Description: "Get the current price for a trading pair",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in getPriceInput) (*mcp.CallToolResult, getPriceOutput, error) {
		if market == nil {
			return nil, getPriceOutput{}, fmt.Errorf("market service unavailable")
		}
		symbol, err := normalizeSymbol(in.Symbol)
		if err != nil {
			return nil, getPriceOutput{}, toolError(err)
		}
		quote, err := market.GetPrice(ctx, symbol)
		if err != nil {
			return nil, getPriceOutput{}, toolError(err)
		}
		return nil, getPriceOutput{Price: toPriceQuote(quote)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_klines",
		Description: "Get candlestick (OHLCV) data for a trading pair, oldest first",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in getKlinesInput) (*mcp.CallToolResult, getKlinesOutput, error) {
		if market == nil {
			return nil, getKlinesOutput{}, fmt.Errorf("market service unavailable")
		}
		symbol, interval, limit, err := klineArgs(in.Symbol, in.Interval, in.Limit, domain.DefaultKlineLimit)
		if err != nil {
			return nil, getKlinesOutput{}, toolError(err)
		}
		candles, err := market.GetKlines(ctx, symbol, interval, limit)
		if err != nil {
			return nil, getKlinesOutput{}, toolError(err)
		}
		return nil, getKlinesOutput{Symbol: symbol, Interval: interval, Candles: toCandles(candles)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "average_price",
		Description: "Arithmetic mean of close prices over the last N candles",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in averagePriceInput) (*mcp.CallToolResult, averagePriceOutput, error) {
		if market == nil {
			return nil, averagePriceOutput{}, fmt.Errorf("market service unavailable")
		}
		symbol, interval, limit, err := klineArgs(in.Symbol, in.Interval, in.Limit, domain.DefaultAverageLimit)
		if err != nil {
			return nil, averagePriceOutput{}, toolError(err)
		}
		average, err := market.AveragePrice(ctx, symbol, interval, limit)
		if err != nil {
			return nil, averagePriceOutput{}, toolError(err)
		}
		if average == nil {
			return nil, averagePriceOutput{NoData: true}, nil
		}
		return nil, averagePriceOutput{Average: toAveragePrice(average)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_24hr_stats",
		Description: "Get rolling 24-hour ticker statistics for a trading pair",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in get24hrStatsInput) (*mcp.CallToolResult, get24hrStatsOutput, error) {
		if market == nil {
			return nil, get24hrStatsOutput{}, fmt.Errorf("market service unavailable")
		}
		symbol, err := normalizeSymbol(in.Symbol)
		if err != nil {
			return nil, get24hrStatsOutput{}, toolError(err)
		}
		stats, err := market.Get24hrStats(ctx, symbol)
		if err != nil {
			return nil, get24hrStatsOutput{}, toolError(err)
		}
		return nil, get24hrStatsOutput{Stats: toTickerStats(stats)}, nil
	})
}

func klineArgs(rawSymbol, rawInterval string, rawLimit, defaultLimit int) (symbol, interval string, limit int, err error) {
	if symbol, err = normalizeSymbol(rawSymbol); err != nil {
		return "", "", 0, err
	}
	if interval, err = normalizeInterval(rawInterval); err != nil {
		return "", "", 0, err
	}
	if limit, err = normalizeLimit(rawLimit, defaultLimit); err != nil {
		return "", "", 0, err
	}
	return symbol, interval, limit, nil
}
