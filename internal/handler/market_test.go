package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"marketlens/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubMarketService struct {
	quote   *domain.PriceQuote
	candles []*domain.Candle
	stats   *domain.TickerStats
	average *domain.AveragePrice
	err     error

	lastInterval string
	lastLimit    int
}

func (s *stubMarketService) GetPrice(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	return s.quote, s.err
}

func (s *stubMarketService) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Candle, error) {
	s.lastInterval, s.lastLimit = interval, limit
	return s.candles, s.err
}

func (s *stubMarketService) Get24hrStats(ctx context.Context, symbol string) (*domain.TickerStats, error) {
	return s.stats, s.err
}

func (s *stubMarketService) AveragePrice(ctx context.Context, symbol, interval string, limit int) (*domain.AveragePrice, error) {
	s.lastInterval, s.lastLimit = interval, limit
	return s.average, s.err
}

func serve(t *testing.T, svc *stubMarketService, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	h := New(nil, svc)
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := serve(t, &stubMarketService{}, http.MethodGet, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetPriceSuccess(t *testing.T) {
	svc := &stubMarketService{quote: &domain.PriceQuote{
		Symbol: "BTCUSDT", Price: decimal.RequireFromString("50000.1"),
	}}
	w := serve(t, svc, http.MethodGet, "/api/price/btcusdt")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var quote domain.PriceQuote
	if err := json.Unmarshal(w.Body.Bytes(), &quote); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if quote.Symbol != "BTCUSDT" {
		t.Fatalf("expected BTCUSDT quote, got %s", quote.Symbol)
	}
}

func TestGetPriceInvalidSymbol(t *testing.T) {
	w := serve(t, &stubMarketService{}, http.MethodGet, "/api/price/no")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetPriceNetworkErrorIs504(t *testing.T) {
	svc := &stubMarketService{err: &domain.Error{Kind: domain.ErrKindNetwork, Message: "refused"}}
	w := serve(t, svc, http.MethodGet, "/api/price/BTCUSDT")
	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", w.Code)
	}
}

func TestGetPriceUpstreamErrorIs502(t *testing.T) {
	svc := &stubMarketService{err: &domain.Error{Kind: domain.ErrKindUpstreamServer, Status: 503}}
	w := serve(t, svc, http.MethodGet, "/api/price/BTCUSDT")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestGetKlinesDefaultsAndLimits(t *testing.T) {
	svc := &stubMarketService{candles: []*domain.Candle{}}
	w := serve(t, svc, http.MethodGet, "/api/klines/BTCUSDT")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.lastInterval != "1h" || svc.lastLimit != domain.DefaultKlineLimit {
		t.Fatalf("expected defaults, got interval=%s limit=%d", svc.lastInterval, svc.lastLimit)
	}
}

func TestGetKlinesInvalidInterval(t *testing.T) {
	w := serve(t, &stubMarketService{}, http.MethodGet, "/api/klines/BTCUSDT?interval=7h")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetKlinesLimitTooLargeRejected(t *testing.T) {
	w := serve(t, &stubMarketService{}, http.MethodGet, "/api/klines/BTCUSDT?limit=1001")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized limit, got %d", w.Code)
	}
}

func TestGet24hrStats(t *testing.T) {
	svc := &stubMarketService{stats: &domain.TickerStats{Symbol: "BTCUSDT"}}
	w := serve(t, svc, http.MethodGet, "/api/stats/BTCUSDT")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetAveragePriceNoData(t *testing.T) {
	w := serve(t, &stubMarketService{average: nil}, http.MethodGet, "/api/average/BTCUSDT")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		NoData bool `json:"no_data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.NoData {
		t.Fatalf("expected explicit no_data flag, got %s", w.Body.String())
	}
}

func TestGetAveragePriceUsesAverageDefault(t *testing.T) {
	svc := &stubMarketService{average: &domain.AveragePrice{
		Symbol: "BTCUSDT", Interval: "1h",
		AveragePrice: decimal.RequireFromString("200"), PeriodCount: 3,
	}}
	w := serve(t, svc, http.MethodGet, "/api/average/BTCUSDT")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.lastLimit != domain.DefaultAverageLimit {
		t.Fatalf("expected average default limit %d, got %d", domain.DefaultAverageLimit, svc.lastLimit)
	}
}
