package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"cointax/internal/csvtrade"
	"cointax/internal/ledger"
	"cointax/internal/tax"
)

func (s *Server) listTrades(c *gin.Context) {
	c.JSON(http.StatusOK, s.book.List())
}

func (s *Server) addTrade(c *gin.Context) {
	c.JSON(http.StatusCreated, s.book.AddBlank())
}

func (s *Server) updateTrade(c *gin.Context) {
	var upd ledger.TradeUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	trade, err := s.book.Update(c.Param("id"), upd)
	if errors.Is(err, ledger.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trade)
}

func (s *Server) deleteTrade(c *gin.Context) {
	switch err := s.book.Delete(c.Param("id")); {
	case errors.Is(err, ledger.ErrLastRow):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) getSummary(c *gin.Context) {
	totals := s.book.Totals()
	c.JSON(http.StatusOK, gin.H{
		"totals": totals,
		"report": tax.NewReport(totals),
	})
}

// importCSV accepts an exchange export either as a multipart "file" part or
// as the raw request body. Unresolvable rows are dropped; the response always
// carries a one-line advisory message.
func (s *Server) importCSV(c *gin.Context) {
	body, err := s.importBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload: " + err.Error()})
		return
	}
	if closer, ok := body.(io.Closer); ok {
		defer closer.Close()
	}

	trades, skipped, err := s.parser.ParseReader(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload: " + err.Error()})
		return
	}
	if len(trades) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"added":   0,
			"skipped": skipped,
			"message": "no readable rows; check headers",
		})
		return
	}

	added := s.book.Import(trades)
	s.logger.Info("csv import", "added", added, "skipped", skipped)
	c.JSON(http.StatusOK, gin.H{
		"added":   added,
		"skipped": skipped,
		"message": fmt.Sprintf("%d rows added", added),
	})
}

func (s *Server) importBody(c *gin.Context) (io.Reader, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Import.MaxBytes)

	file, err := c.FormFile("file")
	if err == nil {
		var f multipart.File
		if f, err = file.Open(); err != nil {
			return nil, err
		}
		return f, nil
	}
	if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingFile) {
		return c.Request.Body, nil
	}
	return nil, err
}

func (s *Server) downloadTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="template.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvtrade.Template))
}
