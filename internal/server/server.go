package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"cointax/internal/config"
	"cointax/internal/csvtrade"
	"cointax/internal/ledger"
	"cointax/internal/model"
)

// Ledger defines the trade book operations the HTTP layer depends on.
type Ledger interface {
	List() []model.Trade
	AddBlank() model.Trade
	Import(trades []model.Trade) int
	Update(id string, upd ledger.TradeUpdate) (model.Trade, error)
	Delete(id string) error
	Totals() model.Totals
	Subscribe() (<-chan model.Totals, func())
}

// Server exposes the ledger over a JSON API and a totals websocket stream.
type Server struct {
	logger   *slog.Logger
	cfg      *config.Config
	book     Ledger
	parser   *csvtrade.Parser
	engine   *gin.Engine
	upgrader websocket.Upgrader
}

// New creates the server and registers its routes.
func New(logger *slog.Logger, cfg *config.Config, book Ledger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		logger: logger,
		cfg:    cfg,
		book:   book,
		parser: csvtrade.NewParser(logger),
		engine: gin.New(),
		upgrader: websocket.Upgrader{
			// The form UI is served from a different origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), s.requestLogger())

	api := s.engine.Group("/api")
	{
		api.GET("/trades", s.listTrades)
		api.POST("/trades", s.addTrade)
		api.PUT("/trades/:id", s.updateTrade)
		api.DELETE("/trades/:id", s.deleteTrade)
		api.GET("/summary", s.getSummary)
		api.POST("/import", s.importCSV)
		api.GET("/template.csv", s.downloadTemplate)
	}
	s.engine.GET("/ws/summary", s.streamSummary)
	s.engine.GET("/healthz", s.healthz)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("http server listening", "addr", addr)

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
