package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/shopmate/pkg/auth"
	"github.com/example/shopmate/pkg/models"
	"github.com/example/shopmate/pkg/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const productPageSize = 6

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.deps.Products.List(c.Request.Context(), c.Query("seller"))
	if err != nil {
		s.storeError(c, err, "Product Not Found")
		return
	}
	c.JSON(http.StatusOK, products)
}

// createProduct seeds a sample product the seller then edits, matching
// the admin dashboard's create-then-edit flow.
func (s *Server) createProduct(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	now := time.Now()
	product := &models.Product{
		ID:        uuid.New().String(),
		Seller:    claims.UserID,
		Name:      fmt.Sprintf("sample name %d", now.UnixMilli()),
		Slug:      fmt.Sprintf("sample-name-%d", now.UnixMilli()),
		Keygen:    "Men BK3569",
		Gender:    "Male",
		Category:  []string{"Men"},
		Size:      []string{"XS", "S"},
		Color:     []string{"fa-solid fa-circle cl-1"},
		Brand:     []string{"Abercrombie"},
		Image:     "/imgs/shirt1.png",
		Desc:      "Sample Description",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deps.Products.Create(c.Request.Context(), product); err != nil {
		s.storeError(c, err, "Product Not Found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Sample Product Created Successfully", "product": product})
}

type updateProductRequest struct {
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Keygen       string   `json:"keygen"`
	Gender       string   `json:"gender"`
	Category     []string `json:"category"`
	Size         []string `json:"size"`
	Color        []string `json:"color"`
	Brand        []string `json:"brand"`
	Image        string   `json:"image"`
	Images       []string `json:"images"`
	Desc         string   `json:"desc"`
	Price        float64  `json:"price"`
	CountInStock int      `json:"countInStock"`
}

func (s *Server) updateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "invalid_request", "message": err.Error()})
		return
	}

	product, err := s.deps.Products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.storeError(c, err, "Product Not Found")
		return
	}

	product.Name = req.Name
	product.Slug = req.Slug
	product.Keygen = req.Keygen
	product.Gender = req.Gender
	product.Category = req.Category
	product.Size = req.Size
	product.Color = req.Color
	product.Brand = req.Brand
	product.Image = req.Image
	product.Images = req.Images
	product.Desc = req.Desc
	product.Price = req.Price
	product.CountInStock = req.CountInStock
	product.UpdatedAt = time.Now()

	if err := s.deps.Products.Update(c.Request.Context(), product); err != nil {
		s.storeError(c, err, "Product Not Found")
		return
	}
	s.invalidateProductCache(c, product.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Product Updated"})
}

func (s *Server) deleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := s.deps.Products.Delete(c.Request.Context(), id); err != nil {
		s.storeError(c, err, "Product Not Found")
		return
	}
	s.invalidateProductCache(c, id)
	c.JSON(http.StatusOK, gin.H{"message": "Product Deleted Successfully"})
}

type createReviewRequest struct {
	Rating  float64 `json:"rating" binding:"gte=0,lte=5"`
	Comment string  `json:"comment"`
}

func (s *Server) createReview(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	var req createReviewRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "invalid_request", "message": err.Error()})
		return
	}

	product, err := s.deps.Products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.storeError(c, err, "Product Not Found")
		return
	}
	if product.Reviewed(claims.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "You already submitted a review"})
		return
	}

	product.AddReview(models.Review{
		Name:      claims.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	})
	if err := s.deps.Products.Update(c.Request.Context(), product); err != nil {
		s.storeError(c, err, "Product Not Found")
		return
	}
	s.invalidateProductCache(c, product.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Review Created",
		"review":     product.Reviews[len(product.Reviews)-1],
		"numReviews": product.NumReviews,
		"rating":     product.Rating,
	})
}

func (s *Server) adminProducts(c *gin.Context) {
	page, pageSize := pageParams(c, productPageSize)
	products, total, err := s.deps.Products.Search(c.Request.Context(), repository.ProductQuery{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		s.storeError(c, err, "Product Not Found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products":      products,
		"countProducts": total,
		"page":          page,
		"pages":         pages(total, pageSize),
	})
}

func (s *Server) searchProducts(c *gin.Context) {
	page, pageSize := pageParams(c, productPageSize)
	query := repository.ProductQuery{
		Query:    c.Query("query"),
		Category: c.Query("category"),
		Gender:   c.Query("gender"),
		Size:     c.Query("size"),
		Color:    c.Query("color"),
		Brand:    c.Query("brand"),
		Order:    c.Query("order"),
		Page:     page,
		PageSize: pageSize,
	}

	if price := c.Query("price"); price != "" && price != "all" {
		low, high, ok := strings.Cut(price, "-")
		if ok {
			query.PriceMin, _ = strconv.ParseFloat(low, 64)
			query.PriceMax, _ = strconv.ParseFloat(high, 64)
			query.HasPrice = true
		}
	}
	if rating := c.Query("rating"); rating != "" && rating != "all" {
		query.MinRating, _ = strconv.ParseFloat(rating, 64)
		query.HasRating = true
	}

	products, total, err := s.deps.Products.Search(c.Request.Context(), query)
	if err != nil {
		s.storeError(c, err, "Product Not Found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products":      products,
		"countProducts": total,
		"page":          page,
		"pages":         pages(total, pageSize),
	})
}

func (s *Server) listCategories(c *gin.Context) {
	products, err := s.deps.Products.List(c.Request.Context(), "")
	if err != nil {
		s.storeError(c, err, "Product Not Found")
		return
	}

	seen := make(map[string]bool)
	var categories []string
	for _, product := range products {
		for _, category := range product.Category {
			if !seen[category] {
				seen[category] = true
				categories = append(categories, category)
			}
		}
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) getProductBySlug(c *gin.Context) {
	product, err := s.deps.Products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		s.storeError(c, err, "Product Not Found")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) relatedProducts(c *gin.Context) {
	related, err := s.deps.Products.Related(c.Request.Context(), c.Param("id"), 6)
	if err != nil {
		s.storeError(c, err, "Product Not Found")
		return
	}
	c.JSON(http.StatusOK, related)
}

func (s *Server) getProduct(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if s.deps.Cache != nil {
		if product, err := s.deps.Cache.GetProduct(ctx, id); err == nil {
			c.JSON(http.StatusOK, product)
			return
		}
	}

	product, err := s.deps.Products.GetByID(ctx, id)
	if err != nil {
		s.storeError(c, err, "Product Not Found")
		return
	}
	if s.deps.Cache != nil {
		if err := s.deps.Cache.CacheProduct(ctx, product); err != nil {
			s.logger.Warn("product cache backfill failed", zap.String("product_id", id), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) invalidateProductCache(c *gin.Context, id string) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.InvalidateProduct(c.Request.Context(), id); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.String("product_id", id), zap.Error(err))
	}
}
