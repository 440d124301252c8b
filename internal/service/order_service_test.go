package service

import (
	"context"
	"strings"
	"testing"

	"vendio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buyerGuest() BuyerInput {
	return BuyerInput{Name: "Alice", Email: "alice@example.com"}
}

func TestOrderService_Checkout_TotalInvariant(t *testing.T) {
	products := map[uint]*models.Product{
		10: {ID: 10, StoreID: 3, Price: 12.5, Active: true},
		11: {ID: 11, StoreID: 3, Price: 4.0, Active: true},
	}
	productRepo := noopProductRepo()
	productRepo.getByIDFn = func(_ context.Context, id uint) (*models.Product, error) {
		p, ok := products[id]
		if !ok {
			return nil, models.NewNotFoundError("Product", id)
		}
		return p, nil
	}

	var created *models.Order
	orderRepo := noopOrderRepo()
	orderRepo.createFn = func(_ context.Context, order *models.Order) error {
		created = order
		return nil
	}

	storeRepo := noopStoreRepo()
	storeRepo.getByIDFn = func(_ context.Context, id uint) (*models.Store, error) {
		return &models.Store{ID: id, UserID: 7, Slug: "my-store"}, nil
	}

	mailer := &mailerStub{}
	notifier := &notifierStub{}
	svc := NewOrderService(orderRepo, productRepo, storeRepo, noopUserRepo(), mailer, notifier)

	order, err := svc.Checkout(context.Background(), CheckoutInput{
		Items: []CartItemInput{
			{ProductID: 10, Quantity: 2},
			{ProductID: 11}, // quantity defaults to 1
		},
		Buyer:       buyerGuest(),
		PaymentHash: "0xdeadbeef",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.InDelta(t, 29.0, order.TotalAmount, 1e-9)

	var sum float64
	for _, item := range order.Items {
		sum += item.Price * float64(item.Quantity)
	}
	assert.InDelta(t, order.TotalAmount, sum, 1e-9)

	// Snapshot: a later price change must not affect the stored items.
	products[10].Price = 99.0
	assert.InDelta(t, 12.5, order.Items[0].Price, 1e-9)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Contains(t, mailer.sent, "buyer_confirmation")
	assert.Contains(t, mailer.sent, "payment_received")
	assert.Len(t, notifier.created, 1)
}

func TestOrderService_Checkout_Validation(t *testing.T) {
	svc := NewOrderService(noopOrderRepo(), noopProductRepo(), noopStoreRepo(), noopUserRepo(), nil, nil)
	ctx := context.Background()

	t.Run("Empty Cart", func(t *testing.T) {
		_, err := svc.Checkout(ctx, CheckoutInput{Buyer: buyerGuest()})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("Missing Buyer", func(t *testing.T) {
		_, err := svc.Checkout(ctx, CheckoutInput{Items: []CartItemInput{{ProductID: 10}}})
		assert.Error(t, err)
	})

	t.Run("Wallet Buyer Accepted", func(t *testing.T) {
		_, err := svc.Checkout(ctx, CheckoutInput{
			Items: []CartItemInput{{ProductID: 10}},
			Buyer: BuyerInput{Wallet: "0x52908400098527886E0F7030069857D2E4169EE7"},
		})
		assert.NoError(t, err)
	})

	t.Run("Mixed Stores Rejected", func(t *testing.T) {
		productRepo := noopProductRepo()
		productRepo.getByIDFn = func(_ context.Context, id uint) (*models.Product, error) {
			return &models.Product{ID: id, StoreID: id, Price: 1, Active: true}, nil
		}
		mixed := NewOrderService(noopOrderRepo(), productRepo, noopStoreRepo(), noopUserRepo(), nil, nil)
		_, err := mixed.Checkout(ctx, CheckoutInput{
			Items: []CartItemInput{{ProductID: 1}, {ProductID: 2}},
			Buyer: buyerGuest(),
		})
		assert.Error(t, err)
	})

	t.Run("Inactive Product Rejected", func(t *testing.T) {
		productRepo := noopProductRepo()
		productRepo.getByIDFn = func(_ context.Context, id uint) (*models.Product, error) {
			return &models.Product{ID: id, StoreID: 3, Price: 1, Active: false}, nil
		}
		inactive := NewOrderService(noopOrderRepo(), productRepo, noopStoreRepo(), noopUserRepo(), nil, nil)
		_, err := inactive.Checkout(ctx, CheckoutInput{
			Items: []CartItemInput{{ProductID: 1}},
			Buyer: buyerGuest(),
		})
		assert.Error(t, err)
	})
}

func TestOrderService_CreatePendingOrder(t *testing.T) {
	productRepo := noopProductRepo()
	productRepo.getByIDFn = func(_ context.Context, id uint) (*models.Product, error) {
		return &models.Product{ID: id, StoreID: 3, Price: 10, Currency: "USDC", Active: true}, nil
	}
	var created *models.Order
	orderRepo := noopOrderRepo()
	orderRepo.createFn = func(_ context.Context, order *models.Order) error {
		created = order
		return nil
	}
	svc := NewOrderService(orderRepo, productRepo, noopStoreRepo(), noopUserRepo(), nil, nil)

	order, err := svc.CreatePendingOrder(context.Background(), CreatePendingOrderInput{
		ProductID: 5,
		Quantity:  3,
		Buyer:     buyerGuest(),
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Empty(t, order.PaymentHash)
	assert.InDelta(t, 30.0, order.TotalAmount, 1e-9)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "PAY-"))
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	ctx := context.Background()

	newSvc := func(order *models.Order) (*OrderService, *notifierStub) {
		orderRepo := noopOrderRepo()
		orderRepo.getByOrderNumberFn = func(_ context.Context, _ string) (*models.Order, error) {
			return order, nil
		}
		notifier := &notifierStub{}
		return NewOrderService(orderRepo, noopProductRepo(), noopStoreRepo(), noopUserRepo(), nil, notifier), notifier
	}

	t.Run("Pending To Completed", func(t *testing.T) {
		order := &models.Order{OrderNumber: "PAY-1-AAAA", Status: models.OrderStatusPending}
		svc, notifier := newSvc(order)

		got, err := svc.ConfirmPayment(ctx, PaymentCallbackInput{OrderNumber: "PAY-1-AAAA", PaymentHash: "0xabc"})
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCompleted, got.Status)
		assert.Equal(t, "0xabc", got.PaymentHash)
		assert.Equal(t, []string{models.OrderStatusPending}, notifier.transitions)
	})

	t.Run("Replay Is Idempotent", func(t *testing.T) {
		order := &models.Order{OrderNumber: "PAY-1-AAAA", Status: models.OrderStatusCompleted, PaymentHash: "0xabc"}
		svc, notifier := newSvc(order)

		got, err := svc.ConfirmPayment(ctx, PaymentCallbackInput{OrderNumber: "PAY-1-AAAA", PaymentHash: "0xabc"})
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCompleted, got.Status)
		assert.Empty(t, notifier.transitions)
	})

	t.Run("Cancelled Cannot Complete", func(t *testing.T) {
		order := &models.Order{OrderNumber: "PAY-1-AAAA", Status: models.OrderStatusCancelled}
		svc, _ := newSvc(order)

		_, err := svc.ConfirmPayment(ctx, PaymentCallbackInput{OrderNumber: "PAY-1-AAAA", PaymentHash: "0xabc"})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "CONFLICT", appErr.Code)
	})

	t.Run("Missing Fields", func(t *testing.T) {
		svc, _ := newSvc(&models.Order{})
		_, err := svc.ConfirmPayment(ctx, PaymentCallbackInput{OrderNumber: "X"})
		assert.Error(t, err)
		_, err = svc.ConfirmPayment(ctx, PaymentCallbackInput{PaymentHash: "0xabc"})
		assert.Error(t, err)
	})
}

func TestOrderService_TransitionOrder(t *testing.T) {
	ctx := context.Background()

	newSvc := func(order *models.Order, ownerStore *models.Store) *OrderService {
		orderRepo := noopOrderRepo()
		orderRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Order, error) { return order, nil }
		storeRepo := noopStoreRepo()
		storeRepo.getByUserIDFn = func(_ context.Context, _ uint) (*models.Store, error) { return ownerStore, nil }
		return NewOrderService(orderRepo, noopProductRepo(), storeRepo, noopUserRepo(), nil, nil)
	}

	t.Run("Owner Cancels Pending", func(t *testing.T) {
		order := &models.Order{ID: 1, StoreID: 3, Status: models.OrderStatusPending}
		svc := newSvc(order, &models.Store{ID: 3, UserID: 7})

		got, err := svc.TransitionOrder(ctx, 7, 1, models.OrderStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, got.Status)
	})

	t.Run("Non Owner Forbidden", func(t *testing.T) {
		order := &models.Order{ID: 1, StoreID: 3, Status: models.OrderStatusPending}
		svc := newSvc(order, &models.Store{ID: 99, UserID: 8})

		_, err := svc.TransitionOrder(ctx, 8, 1, models.OrderStatusCancelled)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "FORBIDDEN", appErr.Code)
	})

	t.Run("Invalid Transition", func(t *testing.T) {
		order := &models.Order{ID: 1, StoreID: 3, Status: models.OrderStatusRefunded}
		svc := newSvc(order, &models.Store{ID: 3, UserID: 7})

		_, err := svc.TransitionOrder(ctx, 7, 1, models.OrderStatusCompleted)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "CONFLICT", appErr.Code)
	})
}

func TestNewOrderNumber_Format(t *testing.T) {
	n1 := newOrderNumber("ORD")
	n2 := newOrderNumber("ORD")

	assert.True(t, strings.HasPrefix(n1, "ORD-"))
	assert.NotEqual(t, n1, n2, "random suffix should differ across calls")

	parts := strings.Split(n1, "-")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 4)
}
