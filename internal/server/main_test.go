package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"vendio/internal/config"
	"vendio/internal/database"
	"vendio/internal/featureflags"
	"vendio/internal/middleware"
	"vendio/internal/models"
	"vendio/internal/repository"
	"vendio/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer builds a Server over an in-memory sqlite database with all
// routes registered. Redis, SMTP and the order feed are absent; every code
// path treats them as optional.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	linkRepo := repository.NewPaymentLinkRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	bioRepo := repository.NewLinkInBioRepository(db)

	s := &Server{
		config: &config.Config{
			JWTSecret:        "unit-test-secret-unit-test-secret",
			Env:              "test",
			PaymentRecipient: "0x52908400098527886e0f7030069857d2e4169ee7",
			PaymentNetwork:   "base-sepolia",
		},
		db:           db,
		userRepo:     userRepo,
		storeRepo:    storeRepo,
		productRepo:  productRepo,
		linkRepo:     linkRepo,
		orderRepo:    orderRepo,
		purchaseRepo: purchaseRepo,
		bioRepo:      bioRepo,
		flags:        featureflags.NewManager("order_feed=on"),
	}

	s.userService = service.NewUserService(userRepo)
	s.storeService = service.NewStoreService(storeRepo)
	s.productService = service.NewProductService(productRepo, storeRepo)
	s.linkService = service.NewPaymentLinkService(linkRepo)
	s.bioService = service.NewLinkInBioService(bioRepo)
	s.authService = service.NewAuthService(userRepo, s.storeService, s.bioService, nil)
	s.purchaseService = service.NewPurchaseService(purchaseRepo, linkRepo, userRepo, nil)
	s.orderService = service.NewOrderService(orderRepo, productRepo, storeRepo, userRepo, nil, nil)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// seedCreator provisions a full account (user, store, bio page) through the
// same signup path the handler uses.
func seedCreator(t *testing.T, s *Server, username, wallet string) *models.User {
	t.Helper()
	user, err := s.authService.Signup(context.Background(), service.SignupInput{
		Name:          username,
		Username:      username,
		Email:         username + "@example.com",
		WalletAddress: wallet,
		StoreName:     username + " store",
	})
	require.NoError(t, err)
	return user
}

// seedProductDirect adds a catalog product through the service layer.
func seedProductDirect(t *testing.T, s *Server, user *models.User, name string, price float64) *models.Product {
	t.Helper()
	product, err := s.productService.CreateProduct(context.Background(), service.CreateProductInput{
		UserID: user.ID,
		Name:   name,
		Price:  price,
		Type:   models.ProductTypeProduct,
	})
	require.NoError(t, err)
	return product
}

func uintString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// authedRequest builds a request carrying the user's session cookie.
func authedRequest(t *testing.T, s *Server, user *models.User, method, target string, body any) *http.Request {
	t.Helper()
	token, err := s.generateToken(user)
	require.NoError(t, err)
	req := jsonRequest(t, method, target, body)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest), "body: %s", raw)
}
