package mcp

import (
	"errors"
	"fmt"
	"strings"

	"marketlens/internal/domain"
	"marketlens/internal/validate"
)

type getPriceInput struct {
	Symbol string `json:"symbol,omitempty" jsonschema:"trading pair symbol (e.g. BTCUSDT, ETHUSDT); defaults to BTCUSDT"`
}

type getPriceOutput struct {
	Price *priceQuote `json:"price"`
}

type getKlinesInput struct {
	Symbol   string `json:"symbol,omitempty" jsonschema:"trading pair symbol; defaults to BTCUSDT"`
	Interval string `json:"interval,omitempty" jsonschema:"candle interval (1m, 5m, 1h, 1d, ...); defaults to 1h"`
	Limit    int    `json:"limit,omitempty" jsonschema:"number of candles, 1-1000; defaults to 100"`
}

type getKlinesOutput struct {
	Symbol   string    `json:"symbol"`
	Interval string    `json:"interval"`
	Candles  []*candle `json:"candles"`
}

type averagePriceInput struct {
	Symbol   string `json:"symbol,omitempty" jsonschema:"trading pair symbol; defaults to BTCUSDT"`
	Interval string `json:"interval,omitempty" jsonschema:"candle interval; defaults to 1h"`
	Limit    int    `json:"limit,omitempty" jsonschema:"number of candles to average, 1-1000; defaults to 24"`
}

type averagePriceOutput struct {
	Average *averagePrice `json:"average,omitempty"`
	NoData  bool          `json:"no_data,omitempty"`
}

type get24hrStatsInput struct {
	Symbol string `json:"symbol,omitempty" jsonschema:"trading pair symbol; defaults to BTCUSDT"`
}

type get24hrStatsOutput struct {
	Stats *tickerStats `json:"stats"`
}

// Wire mirrors of the domain models. The output schema is inferred from
// these types, and decimal values marshal as JSON strings, so every decimal
// field crosses the tool boundary as a string.

type priceQuote struct {
	Symbol    string `json:"symbol"`
	Price     string `json:"price"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

type candle struct {
	OpenTime    int64  `json:"open_time"`
	Open        string `json:"open"`
	High        string `json:"high"`
	Low         string `json:"low"`
	Close       string `json:"close"`
	Volume      string `json:"volume"`
	CloseTime   int64  `json:"close_time"`
	QuoteVolume string `json:"quote_volume"`
	TradeCount  int64  `json:"trade_count"`
}

type tickerStats struct {
	Symbol             string `json:"symbol"`
	PriceChange        string `json:"price_change"`
	PriceChangePercent string `json:"price_change_percent"`
	WeightedAvgPrice   string `json:"weighted_avg_price"`
	PrevClosePrice     string `json:"prev_close_price"`
	LastPrice          string `json:"last_price"`
	HighPrice          string `json:"high_price"`
	LowPrice           string `json:"low_price"`
	Volume             string `json:"volume"`
	QuoteVolume        string `json:"quote_volume"`
	OpenTime           int64  `json:"open_time"`
	CloseTime          int64  `json:"close_time"`
	TradeCount         int64  `json:"trade_count"`
}

type averagePrice struct {
	Symbol          string `json:"symbol"`
	Interval        string `json:"interval"`
	AveragePrice    string `json:"average_price"`
	PeriodCount     int    `json:"period_count"`
	CalculationTime int64  `json:"calculation_time"`
}

func toPriceQuote(q *domain.PriceQuote) *priceQuote {
	if q == nil {
		return nil
	}
	return &priceQuote{Symbol: q.Symbol, Price: q.Price.String(), Timestamp: q.Timestamp}
}

func toCandles(candles []*domain.Candle) []*candle {
	out := make([]*candle, 0, len(candles))
	for _, c := range candles {
		out = append(out, &candle{
			OpenTime:    c.OpenTime,
			Open:        c.Open.String(),
			High:        c.High.String(),
			Low:         c.Low.String(),
			Close:       c.Close.String(),
			Volume:      c.Volume.String(),
			CloseTime:   c.CloseTime,
			QuoteVolume: c.QuoteVolume.String(),
			TradeCount:  c.TradeCount,
		})
	}
	return out
}

func toTickerStats(s *domain.TickerStats) *tickerStats {
	if s == nil {
		return nil
	}
	return &tickerStats{
		Symbol:             s.Symbol,
		PriceChange:        s.PriceChange.String(),
		PriceChangePercent: s.PriceChangePercent.String(),
		WeightedAvgPrice:   s.WeightedAvgPrice.String(),
		PrevClosePrice:     s.PrevClosePrice.String(),
		LastPrice:          s.LastPrice.String(),
		HighPrice:          s.HighPrice.String(),
		LowPrice:           s.LowPrice.String(),
		Volume:             s.Volume.String(),
		QuoteVolume:        s.QuoteVolume.String(),
		OpenTime:           s.OpenTime,
		CloseTime:          s.CloseTime,
		TradeCount:         s.TradeCount,
	}
}

func toAveragePrice(a *domain.AveragePrice) *averagePrice {
	if a == nil {
		return nil
	}
	return &averagePrice{
		Symbol:          a.Symbol,
		Interval:        a.Interval,
		AveragePrice:    a.AveragePrice.String(),
		PeriodCount:     a.PeriodCount,
		CalculationTime: a.CalculationTime,
	}
}

func normalizeSymbol(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		raw = domain.DefaultSymbol
	}
	return validate.Symbol(raw)
}

func normalizeInterval(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		raw = domain.DefaultInterval
	}
	return validate.Interval(raw)
}

func normalizeLimit(raw, def int) (int, error) {
	if raw == 0 {
		raw = def
	}
	return validate.Limit(raw, domain.MaxKlineLimit)
}

// toolError folds a taxonomy error into the human-readable message the
// protocol surfaces; stack detail stays server-side.
func toolError(err error) error {
	switch domain.KindOf(err) {
	case domain.ErrKindValidation:
		return fmt.Errorf("invalid input: %s", taxonomyMessage(err))
	case domain.ErrKindUpstreamClient:
		return fmt.Errorf("upstream rejected the request: %s", taxonomyMessage(err))
	case domain.ErrKindUpstreamServer:
		return fmt.Errorf("upstream is unavailable: %s", taxonomyMessage(err))
	case domain.ErrKindNetwork:
		return fmt.Errorf("could not reach the upstream: %s", taxonomyMessage(err))
	case domain.ErrKindParse:
		return fmt.Errorf("upstream returned an unexpected payload: %s", taxonomyMessage(err))
	default:
		return err
	}
}

func taxonomyMessage(err error) string {
	var derr *domain.Error
	if errors.As(err, &derr) && derr.Message != "" {
		return derr.Message
	}
	return err.Error()
}
