package handler

import (
	"net/http"
	"time"

	"stock-assistant/internal/conversation"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// SessionStore is the part of the session manager the API needs.
type SessionStore interface {
	Create() (string, *conversation.Controller)
	Lookup(id string) (*conversation.Controller, bool)
	Drop(id string) bool
}

type Handler struct {
	tracer   trace.Tracer
	catalog  conversation.Catalog
	sessions SessionStore
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func New(tracer trace.Tracer, catalog conversation.Catalog, sessions SessionStore, logger *log.Logger) *Handler {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("handler")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		tracer:   tracer,
		catalog:  catalog,
		sessions: sessions,
		logger:   logger.With("component", "http"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are enforced by the CORS middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/exchanges", h.ListExchanges)
	api.GET("/exchanges/:code", h.GetExchange)

	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions/:id", h.GetSession)
	api.POST("/sessions/:id/options", h.ChooseOption)
	api.DELETE("/sessions/:id", h.DeleteSession)
	api.GET("/sessions/:id/stream", h.StreamSession)
}

// CORS allows the given origins; "*" allows any.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		AllowWebSockets: true,
		MaxAge:          12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cors.New(cfg)
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}

// Health godoc
// @Summary      Health check
// @Description  Returns service status
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
