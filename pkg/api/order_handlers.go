package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/example/shopmate/pkg/auth"
	"github.com/example/shopmate/pkg/models"
	"github.com/example/shopmate/pkg/repository"
	"github.com/example/shopmate/pkg/settlement"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	adminOrderPageSize = 25
	orderListPageSize  = 15
	userOrderPageSize  = 25
)

type createOrderRequest struct {
	OrderItems      []models.OrderItem     `json:"orderItems" binding:"required,min=1"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	ItemsPrice      float64                `json:"itemsPrice" binding:"gte=0"`
	ShippingPrice   float64                `json:"shippingPrice" binding:"gte=0"`
	TaxPrice        float64                `json:"taxPrice" binding:"gte=0"`
	GrandTotal      float64                `json:"grandTotal" binding:"gte=0"`
}

func (s *Server) createOrder(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	var req createOrderRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "invalid_request", "message": err.Error()})
		return
	}

	now := time.Now()
	order := &models.Order{
		ID:              uuid.New().String(),
		User:            claims.UserID,
		Seller:          req.OrderItems[0].Seller,
		OrderItems:      req.OrderItems,
		ShippingAddress: req.ShippingAddress,
		ItemsPrice:      req.ItemsPrice,
		ShippingPrice:   req.ShippingPrice,
		TaxPrice:        req.TaxPrice,
		GrandTotal:      req.GrandTotal,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.deps.Orders.Create(c.Request.Context(), order); err != nil {
		s.storeError(c, err, "Order Not Found")
		return
	}

	if s.deps.Events != nil {
		snapshot := *order
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.deps.Events.OrderCreated(ctx, &snapshot); err != nil {
				s.logger.Warn("order created event failed",
					zap.String("order_id", snapshot.ID),
					zap.Error(err))
			}
		}()
	}

	c.JSON(http.StatusCreated, gin.H{"message": "New Order Created", "order": order})
}

func (s *Server) listOrders(c *gin.Context) {
	page, pageSize := pageParams(c, adminOrderPageSize)
	orders, total, err := s.deps.Orders.List(c.Request.Context(), repository.OrderQuery{
		Seller:   c.Query("seller"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		s.storeError(c, err, "Order Not Found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":      orders,
		"countOrders": total,
		"page":        page,
		"pages":       pages(total, pageSize),
	})
}

func (s *Server) adminOrders(c *gin.Context) {
	page, pageSize := pageParams(c, orderListPageSize)
	orders, total, err := s.deps.Orders.List(c.Request.Context(), repository.OrderQuery{
		Seller:       c.Query("seller"),
		Page:         page,
		PageSize:     pageSize,
		FeaturedSort: c.Query("order") == "featured",
	})
	if err != nil {
		s.storeError(c, err, "Order Not Found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":      orders,
		"countOrders": total,
		"page":        page,
		"pages":       pages(total, pageSize),
	})
}

func (s *Server) myOrders(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	page, pageSize := pageParams(c, userOrderPageSize)
	orders, total, err := s.deps.Orders.List(c.Request.Context(), repository.OrderQuery{
		User:     claims.UserID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		s.storeError(c, err, "Order Not Found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":      orders,
		"countOrders": total,
		"page":        page,
		"pages":       pages(total, pageSize),
	})
}

func (s *Server) getOrder(c *gin.Context) {
	order, err := s.deps.Orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.storeError(c, err, "Order Not Found")
		return
	}
	c.JSON(http.StatusOK, order)
}

type payOrderRequest struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	UpdateTime    string `json:"update_time"`
	EmailAddress  string `json:"email_address"`
	PaymentMethod string `json:"paymentMethod"`
}

func (s *Server) payOrder(c *gin.Context) {
	var req payOrderRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "invalid_request", "message": err.Error()})
		return
	}

	order, err := s.deps.Settlement.PayOrder(c.Request.Context(), c.Param("id"), settlement.PaymentPayload{
		TransactionID: req.ID,
		Status:        req.Status,
		UpdateTime:    req.UpdateTime,
		PayerEmail:    req.EmailAddress,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		s.settlementError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order Paid", "order": order})
}

func (s *Server) deliverOrder(c *gin.Context) {
	order, err := s.deps.Settlement.DeliverOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.settlementError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order Delivered", "order": order})
}

func (s *Server) deleteOrder(c *gin.Context) {
	if err := s.deps.Orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.storeError(c, err, "Order Not Found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order Deleted Successfully"})
}

func (s *Server) orderSummary(c *gin.Context) {
	summary, err := s.deps.Analytics.Summary(c.Request.Context())
	if err != nil {
		s.storeError(c, err, "Summary Unavailable")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) userSpend(c *gin.Context) {
	totals, err := s.deps.Analytics.UserSpend(c.Request.Context(), c.Query("user"))
	if err != nil {
		s.storeError(c, err, "Spend Unavailable")
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (s *Server) dailySales(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("days", "10"), 10, 64)
	buckets, err := s.deps.Analytics.DailySales(c.Request.Context(), limit)
	if err != nil {
		s.storeError(c, err, "Sales Unavailable")
		return
	}
	c.JSON(http.StatusOK, buckets)
}
