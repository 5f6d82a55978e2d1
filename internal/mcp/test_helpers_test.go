package mcp

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"

	"marketlens/internal/domain"
)

type stubMarketReader struct {
	quote   *domain.PriceQuote
	candles []*domain.Candle
	stats   *domain.TickerStats
	average *domain.AveragePrice
	err     error

	lastSymbol   string
	lastInterval string
	lastLimit    int
}

func (s *stubMarketReader) GetPrice(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	s.lastSymbol = symbol
	return s.quote, s.err
}

func (s *stubMarketReader) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Candle, error) {
	s.lastSymbol, s.lastInterval, s.lastLimit = symbol, interval, limit
	return s.candles, s.err
}

func (s *stubMarketReader) Get24hrStats(ctx context.Context, symbol string) (*domain.TickerStats, error) {
	s.lastSymbol = symbol
	return s.stats, s.err
}

func (s *stubMarketReader) AveragePrice(ctx context.Context, symbol, interval string, limit int) (*domain.AveragePrice, error) {
	s.lastSymbol, s.lastInterval, s.lastLimit = symbol, interval, limit
	return s.average, s.err
}

func testServer() (*sdkmcp.Server, *stubMarketReader) {
	market := &stubMarketReader{
		quote: &domain.PriceQuote{
			Symbol: "BTCUSDT", Price: decimal.RequireFromString("50000.1"), Timestamp: 1700000000000,
		},
		candles: []*domain.Candle{{
			OpenTime: 1700000000000, Open: decimal.RequireFromString("100"),
			High: decimal.RequireFromString("101"), Low: decimal.RequireFromString("99"),
			Close: decimal.RequireFromString("100.5"), Volume: decimal.RequireFromString("12"),
			CloseTime: 1700003599999, QuoteVolume: decimal.RequireFromString("1200"), TradeCount: 31,
		}},
		stats: &domain.TickerStats{Symbol: "BTCUSDT", LastPrice: decimal.RequireFromString("50000.1")},
		average: &domain.AveragePrice{
			Symbol: "BTCUSDT", Interval: "1h",
			AveragePrice: decimal.RequireFromString("200"), PeriodCount: 3, CalculationTime: 1700003599999,
		},
	}
	srv := NewServer(nil, market, ServerConfig{RequestTimeout: time.Second})
	return srv, market
}

func connectInMemory(ctx context.Context, srv *sdkmcp.Server) (*sdkmcp.ClientSession, context.CancelFunc, error) {
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	runCtx, cancel := context.WithCancel(ctx)
	go func() { _ = srv.Run(runCtx, serverTransport) }()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "mcp-test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return session, cancel, nil
}
