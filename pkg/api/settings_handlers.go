package api

import (
	"net/http"

	"github.com/example/shopmate/pkg/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) getSettings(c *gin.Context) {
	settings, err := s.deps.Settings.Get(c.Request.Context())
	if err != nil {
		s.storeError(c, err, "Settings Not Found")
		return
	}
	c.JSON(http.StatusOK, settings)
}

type updateSettingsRequest struct {
	ShopName     string `json:"shopName" binding:"required"`
	CurrencySign string `json:"currencySign" binding:"required"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

func (s *Server) updateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "invalid_request", "message": err.Error()})
		return
	}

	settings := &models.Settings{
		ShopName:     req.ShopName,
		CurrencySign: req.CurrencySign,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
	}
	if err := s.deps.Settings.Update(c.Request.Context(), settings); err != nil {
		s.storeError(c, err, "Settings Not Found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings Updated", "settings": settings})
}
