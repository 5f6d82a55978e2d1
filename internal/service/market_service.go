package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"marketlens/internal/domain"
)

const defaultQuoteCacheTTL = 5 * time.Second

// MarketClient is the upstream client surface the service consumes.
// Parameters are assumed validated; errors are tagged taxonomy errors.
type MarketClient interface {
	GetPrice(ctx context.Context, symbol string) (*domain.PriceQuote, error)
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Candle, error)
	Get24hrStats(ctx context.Context, symbol string) (*domain.TickerStats, error)
}

// MarketService orchestrates market-data reads: a read-through quote cache
// in front of the upstream client, plus the derived average-price operation.
type MarketService struct {
	tracer   trace.Tracer
	client   MarketClient
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewMarketService(tracer trace.Tracer, client MarketClient, cache *redis.Client, cacheTTL time.Duration) *MarketService {
	if cacheTTL <= 0 {
		cacheTTL = defaultQuoteCacheTTL
	}
	return &MarketService{
		tracer:   tracer,
		client:   client,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (s *MarketService) GetPrice(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	ctx, span := s.startSpan(ctx, "service.get-price", symbol)
	defer span.End()

	if quote := s.cachedQuote(ctx, symbol); quote != nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return quote, nil
	}

	quote, err := s.client.GetPrice(ctx, symbol)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.storeQuote(ctx, symbol, quote)
	return quote, nil
}

func (s *MarketService) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Candle, error) {
	ctx, span := s.startSpan(ctx, "service.get-klines", symbol)
	defer span.End()

	candles, err := s.client.GetKlines(ctx, symbol, interval, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return candles, nil
}

func (s *MarketService) Get24hrStats(ctx context.Context, symbol string) (*domain.TickerStats, error) {
	ctx, span := s.startSpan(ctx, "service.get-24hr-stats", symbol)
	defer span.End()

	stats, err := s.client.Get24hrStats(ctx, symbol)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return stats, nil
}

// AveragePrice returns the arithmetic mean of candle close prices over the
// most recent limit candles. A (nil, nil) return means the upstream
// legitimately had no candles for the window: distinct from both an error
// and a zero average.
func (s *MarketService) AveragePrice(ctx context.Context, symbol, interval string, limit int) (*domain.AveragePrice, error) {
	ctx, span := s.startSpan(ctx, "service.average-price", symbol)
	defer span.End()

	candles, err := s.client.GetKlines(ctx, symbol, interval, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(candles) == 0 {
		span.SetAttributes(attribute.Bool("average.no_data", true))
		return nil, nil
	}

	sum := decimal.Zero
	for _, candle := range candles {
		sum = sum.Add(candle.Close)
	}
	return &domain.AveragePrice{
		Symbol:          symbol,
		Interval:        interval,
		AveragePrice:    sum.Div(decimal.NewFromInt(int64(len(candles)))),
		PeriodCount:     len(candles),
		CalculationTime: candles[len(candles)-1].CloseTime,
	}, nil
}

func (s *MarketService) startSpan(ctx context.Context, name, symbol string) (context.Context, trace.Span) {
	if s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	ctx, span := s.tracer.Start(ctx, name)
	span.SetAttributes(attribute.String("symbol", symbol))
	return ctx, span
}

func quoteCacheKey(symbol string) string {
	return "quote:" + symbol
}

func (s *MarketService) cachedQuote(ctx context.Context, symbol string) *domain.PriceQuote {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, quoteCacheKey(symbol)).Bytes()
	if err != nil {
		return nil
	}
	var quote domain.PriceQuote
	if err := json.Unmarshal(raw, &quote); err != nil {
		return nil
	}
	return &quote
}

func (s *MarketService) storeQuote(ctx context.Context, symbol string, quote *domain.PriceQuote) {
	if s.cache == nil || quote == nil {
		return
	}
	raw, err := json.Marshal(quote)
	if err != nil {
		return
	}
	s.cache.Set(ctx, quoteCacheKey(symbol), raw, s.cacheTTL)
}
