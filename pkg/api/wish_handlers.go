package api

import (
	"net/http"
	"time"

	"github.com/example/shopmate/pkg/auth"
	"github.com/example/shopmate/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createWishRequest struct {
	Product  string  `json:"product" binding:"required"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Discount float64 `json:"discount"`
}

func (s *Server) createWish(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	var req createWishRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "invalid_request", "message": err.Error()})
		return
	}

	now := time.Now()
	wish := &models.Wish{
		ID:        uuid.New().String(),
		User:      claims.UserID,
		Product:   req.Product,
		Name:      req.Name,
		Slug:      req.Slug,
		Image:     req.Image,
		Price:     req.Price,
		Discount:  req.Discount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deps.Wishes.Create(c.Request.Context(), wish); err != nil {
		s.storeError(c, err, "Wish Not Found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Added To Wishlist", "wish": wish})
}

func (s *Server) listWishes(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	wishes, err := s.deps.Wishes.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		s.storeError(c, err, "Wish Not Found")
		return
	}
	c.JSON(http.StatusOK, wishes)
}

type checkWishRequest struct {
	Checked bool `json:"checked"`
}

func (s *Server) checkWish(c *gin.Context) {
	var req checkWishRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "invalid_request", "message": err.Error()})
		return
	}
	if err := s.deps.Wishes.SetChecked(c.Request.Context(), c.Param("id"), req.Checked); err != nil {
		s.storeError(c, err, "Wish Not Found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Wish Updated"})
}

func (s *Server) deleteWish(c *gin.Context) {
	if err := s.deps.Wishes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.storeError(c, err, "Wish Not Found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed From Wishlist"})
}
