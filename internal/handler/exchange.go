package handler

import (
	"net/http"
	"strings"

	"stock-assistant/internal/conversation"
	"stock-assistant/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type StockResponse struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Price string `json:"price,omitempty"`
	// Formatted is the display price, e.g. "$1,234.5"; empty when unavailable.
	Formatted string `json:"formatted,omitempty"`
}

type ExchangeResponse struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Stocks []StockResponse `json:"stocks"`
}

func toExchangeResponse(ex domain.Exchange) ExchangeResponse {
	out := ExchangeResponse{
		Code:   ex.Code,
		Name:   ex.Name,
		Stocks: make([]StockResponse, 0, len(ex.Stocks)),
	}
	for _, s := range ex.Stocks {
		sr := StockResponse{Code: s.Code, Name: s.Name}
		if s.HasPrice() {
			sr.Price = s.Price.Decimal.String()
			sr.Formatted = conversation.FormatPrice(s.Price.Decimal)
		}
		out.Stocks = append(out.Stocks, sr)
	}
	return out
}

// ListExchanges godoc
// @Summary      List exchanges
// @Description  Returns every exchange with its stocks and prices
// @Tags         exchanges
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/exchanges [get]
func (h *Handler) ListExchanges(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset unavailable"})
		return
	}

	_, span := h.tracer.Start(c.Request.Context(), "handler.list-exchanges")
	defer span.End()

	exchanges := h.catalog.Exchanges()
	out := make([]ExchangeResponse, 0, len(exchanges))
	for _, ex := range exchanges {
		out = append(out, toExchangeResponse(ex))
	}
	c.JSON(http.StatusOK, gin.H{"exchanges": out})
}

// GetExchange godoc
// @Summary      Get one exchange
// @Description  Returns an exchange and its stocks by code
// @Tags         exchanges
// @Produce      json
// @Param        code  path  string  true  "Exchange code (e.g., LSE, NYSE)"
// @Success      200  {object}  ExchangeResponse
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/exchanges/{code} [get]
func (h *Handler) GetExchange(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset unavailable"})
		return
	}

	_, span := h.tracer.Start(c.Request.Context(), "handler.get-exchange")
	defer span.End()

	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	span.SetAttributes(attribute.String("exchange", code))

	ex, ok := h.catalog.Exchange(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown exchange: " + code})
		return
	}
	c.JSON(http.StatusOK, toExchangeResponse(ex))
}
