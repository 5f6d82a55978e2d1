package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"marketlens/internal/domain"
	"marketlens/internal/validate"
)

func (h *Handler) GetPrice(c *gin.Context) {
	ctx, span := h.startSpan(c, "handler.get-price")
	defer span.End()

	symbol, err := validate.Symbol(c.Param("symbol"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("symbol", symbol))

	quote, err := h.marketService.GetPrice(ctx, symbol)
	if err != nil {
		abortWithTaxonomyError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) GetKlines(c *gin.Context) {
	ctx, span := h.startSpan(c, "handler.get-klines")
	defer span.End()

	symbol, interval, limit, ok := h.klineParams(c, domain.DefaultKlineLimit)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("symbol", symbol), attribute.String("interval", interval))

	candles, err := h.marketService.GetKlines(ctx, symbol, interval, limit)
	if err != nil {
		abortWithTaxonomyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "interval": interval, "candles": candles})
}

func (h *Handler) Get24hrStats(c *gin.Context) {
	ctx, span := h.startSpan(c, "handler.get-24hr-stats")
	defer span.End()

	symbol, err := validate.Symbol(c.Param("symbol"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("symbol", symbol))

	stats, err := h.marketService.Get24hrStats(ctx, symbol)
	if err != nil {
		abortWithTaxonomyError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetAveragePrice(c *gin.Context) {
	ctx, span := h.startSpan(c, "handler.get-average-price")
	defer span.End()

	symbol, interval, limit, ok := h.klineParams(c, domain.DefaultAverageLimit)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("symbol", symbol), attribute.String("interval", interval))

	average, err := h.marketService.AveragePrice(ctx, symbol, interval, limit)
	if err != nil {
		abortWithTaxonomyError(c, err)
		return
	}
	if average == nil {
		c.JSON(http.StatusOK, gin.H{"symbol": symbol, "interval": interval, "no_data": true})
		return
	}
	c.JSON(http.StatusOK, average)
}

func (h *Handler) klineParams(c *gin.Context, defaultLimit int) (symbol, interval string, limit int, ok bool) {
	symbol, err := validate.Symbol(c.Param("symbol"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", "", 0, false
	}

	rawInterval := c.Query("interval")
	if strings.TrimSpace(rawInterval) == "" {
		rawInterval = domain.DefaultInterval
	}
	interval, err = validate.Interval(rawInterval)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", "", 0, false
	}

	limit = defaultLimit
	if rawLimit := strings.TrimSpace(c.Query("limit")); rawLimit != "" {
		n, convErr := strconv.Atoi(rawLimit)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return "", "", 0, false
		}
		limit = n
	}
	limit, err = validate.Limit(limit, domain.MaxKlineLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", "", 0, false
	}
	return symbol, interval, limit, true
}

func (h *Handler) startSpan(c *gin.Context, name string) (context.Context, trace.Span) {
	if h.tracer == nil {
		return c.Request.Context(), trace.SpanFromContext(c.Request.Context())
	}
	return h.tracer.Start(c.Request.Context(), name)
}

// abortWithTaxonomyError maps error kinds to HTTP statuses: caller mistakes
// are 400, connectivity problems 504, everything upstream-shaped 502.
func abortWithTaxonomyError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	switch domain.KindOf(err) {
	case domain.ErrKindValidation:
		status = http.StatusBadRequest
	case domain.ErrKindNetwork:
		status = http.StatusGatewayTimeout
	case domain.ErrKindUpstreamClient, domain.ErrKindUpstreamServer, domain.ErrKindParse:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
