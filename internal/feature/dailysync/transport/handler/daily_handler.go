// Package handler provides the HTTP handlers of the daily read API.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aughra/picsou/internal/feature/dailysync/domain"
	"github.com/Aughra/picsou/internal/feature/dailysync/domain/entity"
	"github.com/Aughra/picsou/internal/feature/dailysync/transport/http/dto"
)

// DailyQuery reads the synced daily table.
// Following Go convention: interfaces are defined by the consumer (handler).
type DailyQuery interface {
	ListDaily(ctx context.Context) (*entity.ViewRows, error)
	ListTotals(ctx context.Context) (*entity.ViewRows, error)
	ListAsset(ctx context.Context, symbol string) (*entity.ViewRows, error)
	ListPositions(ctx context.Context) (*entity.ViewRows, error)
}

// DailyHandler serves the daily table over HTTP.
type DailyHandler struct {
	uc DailyQuery
}

// NewDailyHandler returns a DailyHandler.
func NewDailyHandler(uc DailyQuery) *DailyHandler {
	return &DailyHandler{uc: uc}
}

// ListDaily returns every day with every column.
//
// GET /portfolio/daily
func (h *DailyHandler) ListDaily(c *gin.Context) {
	rows, err := h.uc.ListDaily(c.Request.Context())
	h.respond(c, rows, err)
}

// ListTotals returns every day with the portfolio totals.
//
// GET /portfolio/totals
func (h *DailyHandler) ListTotals(c *gin.Context) {
	rows, err := h.uc.ListTotals(c.Request.Context())
	h.respond(c, rows, err)
}

// ListPositions returns every day with the held quantity of each asset.
//
// GET /portfolio/positions
func (h *DailyHandler) ListPositions(c *gin.Context) {
	rows, err := h.uc.ListPositions(c.Request.Context())
	h.respond(c, rows, err)
}

// ListAsset returns every day with the columns of one asset.
//
// GET /portfolio/assets/:symbol
func (h *DailyHandler) ListAsset(c *gin.Context) {
	rows, err := h.uc.ListAsset(c.Request.Context(), c.Param("symbol"))
	h.respond(c, rows, err)
}

func (h *DailyHandler) respond(c *gin.Context, rows *entity.ViewRows, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownAsset):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrViewNotFound):
		// Nothing synced yet.
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: domain.ErrViewNotFound.Error()})
	case err != nil:
		slog.Error("daily read failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to read daily table"})
	default:
		c.JSON(http.StatusOK, rows)
	}
}
