package binance

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"marketlens/internal/domain"
)

// klineColumns is the minimum row width we require: open time through trade
// count. The upstream appends further columns we do not use.
const klineColumns = 9

func parseError(format string, args ...any) *domain.Error {
	return &domain.Error{Kind: domain.ErrKindParse, Message: fmt.Sprintf(format, args...)}
}

func parsePriceQuote(body []byte) (*domain.PriceQuote, *domain.Error) {
	var raw struct {
		Symbol    string `json:"symbol"`
		Price     string `json:"price"`
		Timestamp int64  `json:"timestamp"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, parseError("decoding price response: %v", err)
	}
	if raw.Symbol == "" {
		return nil, parseError("price response missing symbol")
	}
	if raw.Price == "" {
		return nil, parseError("price response missing price")
	}
	price, err := decimal.NewFromString(raw.Price)
	if err != nil {
		return nil, parseError("invalid price %q", raw.Price)
	}
	return &domain.PriceQuote{Symbol: raw.Symbol, Price: price, Timestamp: raw.Timestamp}, nil
}

func parseKlines(body []byte) ([]*domain.Candle, *domain.Error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, parseError("klines response is not an array: %v", err)
	}

	candles := make([]*domain.Candle, 0, len(rows))
	for i, row := range rows {
		candle, derr := parseKlineRow(row)
		if derr != nil {
			derr.Message = fmt.Sprintf("kline row %d: %s", i, derr.Message)
			return nil, derr
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func parseKlineRow(row json.RawMessage) (*domain.Candle, *domain.Error) {
	var cols []json.RawMessage
	if err := json.Unmarshal(row, &cols); err != nil {
		return nil, parseError("not an array: %v", err)
	}
	if len(cols) < klineColumns {
		return nil, parseError("has %d columns, want at least %d", len(cols), klineColumns)
	}

	candle := &domain.Candle{}
	var derr *domain.Error
	if candle.OpenTime, derr = klineInt(cols, 0, "open_time"); derr != nil {
		return nil, derr
	}
	if candle.Open, derr = klineDecimal(cols, 1, "open"); derr != nil {
		return nil, derr
	}
	if candle.High, derr = klineDecimal(cols, 2, "high"); derr != nil {
		return nil, derr
	}
	if candle.Low, derr = klineDecimal(cols, 3, "low"); derr != nil {
		return nil, derr
	}
	if candle.Close, derr = klineDecimal(cols, 4, "close"); derr != nil {
		return nil, derr
	}
	if candle.Volume, derr = klineDecimal(cols, 5, "volume"); derr != nil {
		return nil, derr
	}
	if candle.CloseTime, derr = klineInt(cols, 6, "close_time"); derr != nil {
		return nil, derr
	}
	if candle.QuoteVolume, derr = klineDecimal(cols, 7, "quote_volume"); derr != nil {
		return nil, derr
	}
	if candle.TradeCount, derr = klineInt(cols, 8, "trade_count"); derr != nil {
		return nil, derr
	}
	return candle, nil
}

func klineInt(cols []json.RawMessage, idx int, name string) (int64, *domain.Error) {
	var v int64
	if err := json.Unmarshal(cols[idx], &v); err != nil {
		return 0, parseError("invalid %s: %v", name, err)
	}
	return v, nil
}

func klineDecimal(cols []json.RawMessage, idx int, name string) (decimal.Decimal, *domain.Error) {
	var s string
	if err := json.Unmarshal(cols[idx], &s); err != nil {
		return decimal.Decimal{}, parseError("invalid %s: %v", name, err)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, parseError("invalid %s %q", name, s)
	}
	return d, nil
}

func parseTickerStats(body []byte) (*domain.TickerStats, *domain.Error) {
	var raw struct {
		Symbol             *string `json:"symbol"`
		PriceChange        *string `json:"priceChange"`
		PriceChangePercent *string `json:"priceChangePercent"`
		WeightedAvgPrice   *string `json:"weightedAvgPrice"`
		PrevClosePrice     *string `json:"prevClosePrice"`
		LastPrice          *string `json:"lastPrice"`
		HighPrice          *string `json:"highPrice"`
		LowPrice           *string `json:"lowPrice"`
		Volume             *string `json:"volume"`
		QuoteVolume        *string `json:"quoteVolume"`
		OpenTime           *int64  `json:"openTime"`
		CloseTime          *int64  `json:"closeTime"`
		Count              *int64  `json:"count"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, parseError("decoding 24hr stats response: %v", err)
	}

	var missing []string
	requireString := func(field string, v *string) string {
		if v == nil {
			missing = append(missing, field)
			return ""
		}
		return *v
	}
	requireInt := func(field string, v *int64) int64 {
		if v == nil {
			missing = append(missing, field)
			return 0
		}
		return *v
	}

	stats := &domain.TickerStats{Symbol: requireString("symbol", raw.Symbol)}
	fields := []struct {
		name string
		raw  *string
		dst  *decimal.Decimal
	}{
		{"priceChange", raw.PriceChange, &stats.PriceChange},
		{"priceChangePercent", raw.PriceChangePercent, &stats.PriceChangePercent},
		{"weightedAvgPrice", raw.WeightedAvgPrice, &stats.WeightedAvgPrice},
		{"prevClosePrice", raw.PrevClosePrice, &stats.PrevClosePrice},
		{"lastPrice", raw.LastPrice, &stats.LastPrice},
		{"highPrice", raw.HighPrice, &stats.HighPrice},
		{"lowPrice", raw.LowPrice, &stats.LowPrice},
		{"volume", raw.Volume, &stats.Volume},
		{"quoteVolume", raw.QuoteVolume, &stats.QuoteVolume},
	}
	for _, f := range fields {
		s := requireString(f.name, f.raw)
		if f.raw == nil {
			continue
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, parseError("invalid %s %q", f.name, s)
		}
		*f.dst = d
	}
	stats.OpenTime = requireInt("openTime", raw.OpenTime)
	stats.CloseTime = requireInt("closeTime", raw.CloseTime)
	stats.TradeCount = requireInt("count", raw.Count)

	if len(missing) > 0 {
		return nil, parseError("24hr stats response missing required fields: %s", strings.Join(missing, ", "))
	}
	return stats, nil
}
