package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/shopmate/pkg/analytics"
	"github.com/example/shopmate/pkg/auth"
	"github.com/example/shopmate/pkg/config"
	"github.com/example/shopmate/pkg/models"
	"github.com/example/shopmate/pkg/repository"
	"github.com/example/shopmate/pkg/settlement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	server   *Server
	tokens   *auth.Tokens
	orders   *repository.OrderMemory
	products *repository.ProductMemory
	users    *repository.UserMemory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Auth: config.AuthConfig{Secret: "test-secret", TokenTTL: time.Hour},
		Settlement: config.SettlementConfig{
			IdempotentPayments:  true,
			RequirePaidDelivery: true,
		},
	}
	logger := zap.NewNop()

	orders := repository.NewOrderMemory()
	products := repository.NewProductMemory()
	users := repository.NewUserMemory()
	settings := repository.NewSettingsMemory(&models.Settings{
		ShopName:     "Shopmate",
		CurrencySign: "$",
	})

	tokens := auth.NewTokens(&cfg.Auth)
	ledger := settlement.NewLedger(products, cfg.Settlement.StrictStock, logger)
	svc := settlement.NewService(orders, ledger, settings, nil, nil, cfg.Settlement, logger)
	agg := analytics.NewAggregator(orders, users)

	server := NewServer(cfg, logger, Deps{
		Tokens:     tokens,
		Orders:     orders,
		Products:   products,
		Users:      users,
		Wishes:     repository.NewWishMemory(),
		Settings:   settings,
		Settlement: svc,
		Analytics:  agg,
	})

	return &testEnv{
		server:   server,
		tokens:   tokens,
		orders:   orders,
		products: products,
		users:    users,
	}
}

func (e *testEnv) seedUser(t *testing.T, user *models.User, password string) {
	t.Helper()
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		user.Password = string(hash)
	}
	require.NoError(t, e.users.Create(context.Background(), user))
}

func (e *testEnv) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := e.tokens.Issue(user)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPayOrderEndpoint(t *testing.T) {
	env := newTestEnv(t)

	buyer := &models.User{ID: "buyer-1", Name: "Alice", Email: "alice@example.com"}
	env.seedUser(t, buyer, "")
	token := env.token(t, buyer)

	require.NoError(t, env.products.Create(context.Background(), &models.Product{
		ID: "p1", Name: "Shirt", CountInStock: 5,
	}))
	require.NoError(t, env.orders.Create(context.Background(), &models.Order{
		ID:   "order-1",
		User: "buyer-1",
		OrderItems: []models.OrderItem{
			{Product: "p1", Name: "Shirt", Quantity: 2, Price: 10},
		},
		GrandTotal: 20,
		CreatedAt:  time.Now(),
	}))

	payload := map[string]string{
		"id":            "txn-42",
		"status":        "COMPLETED",
		"update_time":   "2024-03-10T12:00:00Z",
		"email_address": "alice@example.com",
		"paymentMethod": "PayPal",
	}

	rec := env.do(t, http.MethodPut, "/api/v1/orders/order-1/pay", token, payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Order Paid", body["message"])

	p1, err := env.products.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p1.CountInStock)
	assert.Equal(t, 2, p1.NumSales)

	// A repeat settlement is refused with a stable kind.
	rec = env.do(t, http.MethodPut, "/api/v1/orders/order-1/pay", token, payload)
	require.Equal(t, http.StatusConflict, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "already_settled", body["kind"])
	assert.Equal(t, "order-1", body["order"])
}

func TestPayOrderEndpointNotFound(t *testing.T) {
	env := newTestEnv(t)

	buyer := &models.User{ID: "buyer-1", Name: "Alice", Email: "alice@example.com"}
	env.seedUser(t, buyer, "")
	token := env.token(t, buyer)

	rec := env.do(t, http.MethodPut, "/api/v1/orders/ghost/pay", token, map[string]string{
		"id": "txn-1", "status": "COMPLETED",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec)["kind"])
}

func TestDeliverOrderEndpoint(t *testing.T) {
	env := newTestEnv(t)

	admin := &models.User{ID: "admin-1", Name: "Root", Email: "root@example.com", IsAdmin: true}
	env.seedUser(t, admin, "")
	token := env.token(t, admin)

	paidAt := time.Now()
	require.NoError(t, env.orders.Create(context.Background(), &models.Order{
		ID:     "order-1",
		User:   "buyer-1",
		IsPaid: true,
		PaidAt: &paidAt,
	}))
	require.NoError(t, env.orders.Create(context.Background(), &models.Order{
		ID:   "order-2",
		User: "buyer-1",
	}))

	rec := env.do(t, http.MethodPut, "/api/v1/orders/order-1/deliver", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Order Delivered", decode(t, rec)["message"])

	// Unpaid orders cannot be delivered.
	rec = env.do(t, http.MethodPut, "/api/v1/orders/order-2/deliver", token, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "not_paid", decode(t, rec)["kind"])
}

func TestCreateOrderEndpoint(t *testing.T) {
	env := newTestEnv(t)

	buyer := &models.User{ID: "buyer-1", Name: "Alice", Email: "alice@example.com"}
	env.seedUser(t, buyer, "")
	token := env.token(t, buyer)

	rec := env.do(t, http.MethodPost, "/api/v1/orders", token, map[string]any{
		"orderItems": []map[string]any{
			{"product": "p1", "seller": "s1", "name": "Shirt", "quantity": 2, "price": 10.0},
		},
		"itemsPrice":    20.0,
		"shippingPrice": 5.0,
		"taxPrice":      2.0,
		"grandTotal":    27.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "New Order Created", body["message"])

	order, ok := body["order"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "buyer-1", order["user"])
	assert.Equal(t, "s1", order["seller"])
	assert.Equal(t, false, order["isPaid"])

	count, err := env.orders.CountOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateOrderRequiresItems(t *testing.T) {
	env := newTestEnv(t)

	buyer := &models.User{ID: "buyer-1", Name: "Alice", Email: "alice@example.com"}
	env.seedUser(t, buyer, "")
	token := env.token(t, buyer)

	rec := env.do(t, http.MethodPost, "/api/v1/orders", token, map[string]any{
		"orderItems": []map[string]any{},
		"grandTotal": 0.0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMyOrdersEndpoint(t *testing.T) {
	env := newTestEnv(t)

	buyer := &models.User{ID: "buyer-1", Name: "Alice", Email: "alice@example.com"}
	env.seedUser(t, buyer, "")
	token := env.token(t, buyer)

	for i := 0; i < 3; i++ {
		require.NoError(t, env.orders.Create(context.Background(), &models.Order{
			ID:        fmt.Sprintf("mine-%d", i),
			User:      "buyer-1",
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, env.orders.Create(context.Background(), &models.Order{
		ID:   "other-1",
		User: "someone-else",
	}))

	rec := env.do(t, http.MethodGet, "/api/v1/orders/mine", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(3), body["countOrders"])
	assert.Equal(t, float64(1), body["pages"])
}

func TestOrderSummaryEndpoint(t *testing.T) {
	env := newTestEnv(t)

	admin := &models.User{ID: "admin-1", Name: "Root", Email: "root@example.com", IsAdmin: true}
	env.seedUser(t, admin, "")
	token := env.token(t, admin)

	require.NoError(t, env.orders.Create(context.Background(), &models.Order{
		ID: "o1", User: "u1", GrandTotal: 10, CreatedAt: time.Now(),
	}))

	rec := env.do(t, http.MethodGet, "/api/v1/orders/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["orders"])
	assert.Equal(t, float64(1), body["users"])

	// Ordinary users never see the dashboard.
	buyer := &models.User{ID: "buyer-1", Name: "Alice", Email: "alice@example.com"}
	env.seedUser(t, buyer, "")
	rec = env.do(t, http.MethodGet, "/api/v1/orders/summary", env.token(t, buyer), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSigninEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.seedUser(t, &models.User{
		ID:    "u1",
		Name:  "Alice",
		Email: "alice@example.com",
	}, "password123")

	t.Run("valid credentials", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/users/signin", "", map[string]string{
			"email":    "alice@example.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode(t, rec)
		assert.Equal(t, "u1", body["id"])
		assert.NotEmpty(t, body["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/users/signin", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("blocked account", func(t *testing.T) {
		_, err := env.users.SetBlocked(context.Background(), "u1", true)
		require.NoError(t, err)
		rec := env.do(t, http.MethodPost, "/api/v1/users/signin", "", map[string]string{
			"email":    "alice@example.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestSignupEndpoint(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "hunter22",
	}

	rec := env.do(t, http.MethodPost, "/api/v1/users/signup", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode(t, rec)["token"])

	rec = env.do(t, http.MethodPost, "/api/v1/users/signup", "", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/orders/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/orders/mine", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
