package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"marketlens/internal/domain"
)

// MarketService is the service surface the REST handlers consume.
type MarketService interface {
	GetPrice(ctx context.Context, symbol string) (*domain.PriceQuote, error)
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Candle, error)
	Get24hrStats(ctx context.Context, symbol string) (*domain.TickerStats, error)
	AveragePrice(ctx context.Context, symbol, interval string, limit int) (*domain.AveragePrice, error)
}

type Handler struct {
	tracer        trace.Tracer
	marketService MarketService
}

func New(tracer trace.Tracer, marketService MarketService) *Handler {
	return &Handler{
		tracer:        tracer,
		marketService: marketService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/price/:symbol", h.GetPrice)
	r.GET("/api/klines/:symbol", h.GetKlines)
	r.GET("/api/stats/:symbol", h.Get24hrStats)
	r.GET("/api/average/:symbol", h.GetAveragePrice)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
