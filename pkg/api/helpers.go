package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/example/shopmate/pkg/repository"
	"github.com/example/shopmate/pkg/settlement"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func pageParams(c *gin.Context, defaultSize int) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.Query("pageSize"))
	if pageSize < 1 {
		pageSize = defaultSize
	}
	return page, pageSize
}

func pages(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}

// storeError maps repository errors onto HTTP responses.
func (s *Server) storeError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"kind": "not_found", "message": notFoundMsg})
	case errors.Is(err, repository.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"kind": "already_exists", "message": "Already Exists"})
	default:
		s.logger.Error("store error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"kind": "internal", "message": "Internal Error"})
	}
}

// settlementError surfaces a settlement failure with its stable kind
// and the identifiers support needs for diagnosis.
func (s *Server) settlementError(c *gin.Context, err error) {
	var se *settlement.Error
	if !errors.As(err, &se) {
		s.logger.Error("settlement error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"kind": "internal", "message": "Internal Error"})
		return
	}

	status := http.StatusConflict
	if se.Kind == settlement.KindNotFound {
		status = http.StatusNotFound
	}
	payload := gin.H{
		"kind":    se.Kind,
		"message": se.Message,
		"order":   se.OrderID,
	}
	if se.ProductID != "" {
		payload["product"] = se.ProductID
	}
	c.JSON(status, payload)
}
