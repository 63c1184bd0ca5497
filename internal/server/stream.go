package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"cointax/internal/model"
	"cointax/internal/tax"
)

const pingInterval = 30 * time.Second

// streamSummary upgrades the connection and pushes the rounded summary
// report: once on connect, then again every time the ledger publishes fresh
// totals. The client is not expected to send anything; its read side only
// serves to detect the connection going away.
func (s *Server) streamSummary(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel := s.book.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(t model.Totals) error {
		return conn.WriteJSON(tax.NewReport(t))
	}
	if err := send(s.book.Totals()); err != nil {
		return
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case totals := <-updates:
			if err := send(totals); err != nil {
				s.logger.Debug("summary stream closed", "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
