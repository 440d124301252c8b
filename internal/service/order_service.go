package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vendio/internal/models"
	"vendio/internal/observability"
	"vendio/internal/repository"
	"vendio/internal/validation"

	"github.com/google/uuid"
)

type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	userRepo    repository.UserRepository
	mailer      OrderMailer
	notifier    OrderNotifier
}

// CartItemInput is one cart line in a checkout request. Quantity defaults
// to 1; the unit price is snapshotted from the catalog, never taken from
// the client.
type CartItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// BuyerInput captures buyer identity: either name+email (guest) or a
// wallet address (connected-wallet buyer).
type BuyerInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Wallet string `json:"wallet_address"`
}

type CheckoutInput struct {
	Items []CartItemInput `json:"items"`
	Buyer BuyerInput      `json:"buyer"`
	// PaymentHash is the client-asserted on-chain transaction id. Checkout
	// treats payment as already confirmed; the hash is stored for audit,
	// not verified against chain state.
	PaymentHash string `json:"payment_hash"`
}

type CreatePendingOrderInput struct {
	ProductID uint       `json:"product_id"`
	Quantity  int        `json:"quantity"`
	Buyer     BuyerInput `json:"buyer"`
}

type PaymentCallbackInput struct {
	OrderNumber string `json:"order_number"`
	PaymentHash string `json:"payment_hash"`
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
	mailer OrderMailer,
	notifier OrderNotifier,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		userRepo:    userRepo,
		mailer:      mailer,
		notifier:    notifier,
	}
}

// newOrderNumber builds a human-readable order number: fixed prefix, UTC
// second timestamp, and a short random suffix so concurrent creations in
// the same second do not collide.
func newOrderNumber(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UTC().Unix(), suffix)
}

func validateBuyer(b BuyerInput) error {
	if b.Wallet != "" {
		return validation.ValidateWalletAddress(b.Wallet)
	}
	if b.Name == "" || b.Email == "" {
		return fmt.Errorf("buyer must supply either a wallet address or name and email")
	}
	return validation.ValidateEmail(b.Email)
}

// Checkout converts a cart into a COMPLETED order. Payment is trusted as
// already confirmed by the caller; the order plus its items are written in
// one atomic create, with unit prices snapshotted from the catalog.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, models.NewValidationError("Cart is empty")
	}
	if err := validateBuyer(in.Buyer); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	var (
		items   []models.OrderItem
		total   float64
		storeID uint
	)
	for _, line := range in.Items {
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Active {
			return nil, models.NewValidationError(fmt.Sprintf("Product %d is not available", product.ID))
		}
		if storeID == 0 {
			storeID = product.StoreID
		} else if product.StoreID != storeID {
			return nil, models.NewValidationError("All cart items must belong to the same store")
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  qty,
			Price:     product.Price,
		})
		total += product.Price * float64(qty)
	}

	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber: newOrderNumber("ORD"),
		StoreID:     store.ID,
		BuyerName:   in.Buyer.Name,
		BuyerEmail:  in.Buyer.Email,
		BuyerWallet: validation.NormalizeWalletAddress(in.Buyer.Wallet),
		Status:      models.OrderStatusCompleted,
		PaymentHash: in.PaymentHash,
		TotalAmount: total,
		Currency:    "USDC",
		Items:       items,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	observability.OrdersCreated.WithLabelValues("checkout", order.Status).Inc()

	s.dispatchOrderEmails(ctx, order, store)
	if s.notifier != nil {
		s.notifier.OrderCreated(ctx, order)
	}
	return order, nil
}

// CreatePendingOrder starts the single-product payment flow: the order is
// written PENDING and flipped to COMPLETED later by the payment callback.
func (s *OrderService) CreatePendingOrder(ctx context.Context, in CreatePendingOrderInput) (*models.Order, error) {
	if in.ProductID == 0 {
		return nil, models.NewValidationError("product_id is required")
	}
	if err := validateBuyer(in.Buyer); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	qty := in.Quantity
	if qty <= 0 {
		qty = 1
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, models.NewValidationError("Product is not available")
	}

	order := &models.Order{
		OrderNumber: newOrderNumber("PAY"),
		StoreID:     product.StoreID,
		BuyerName:   in.Buyer.Name,
		BuyerEmail:  in.Buyer.Email,
		BuyerWallet: validation.NormalizeWalletAddress(in.Buyer.Wallet),
		Status:      models.OrderStatusPending,
		TotalAmount: product.Price * float64(qty),
		Currency:    product.Currency,
		Items: []models.OrderItem{{
			ProductID: product.ID,
			Quantity:  qty,
			Price:     product.Price,
		}},
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	observability.OrdersCreated.WithLabelValues("payments", order.Status).Inc()

	if s.notifier != nil {
		s.notifier.OrderCreated(ctx, order)
	}
	return order, nil
}

func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return s.orderRepo.GetByOrderNumber(ctx, orderNumber)
}

// GetOrderByPaymentHash is the status lookup for the payments flow.
func (s *OrderService) GetOrderByPaymentHash(ctx context.Context, paymentHash string) (*models.Order, error) {
	if paymentHash == "" {
		return nil, models.NewValidationError("Payment id is required")
	}
	return s.orderRepo.GetByPaymentHash(ctx, paymentHash)
}

// ConfirmPayment is the reconciliation writer behind the payment callback:
// it records the payment hash and flips a PENDING order to COMPLETED.
// Replayed callbacks for an already-completed order with the same hash are
// acknowledged without a second transition.
func (s *OrderService) ConfirmPayment(ctx context.Context, in PaymentCallbackInput) (*models.Order, error) {
	if in.OrderNumber == "" {
		return nil, models.NewValidationError("order_number is required")
	}
	if in.PaymentHash == "" {
		return nil, models.NewValidationError("payment_hash is required")
	}

	order, err := s.orderRepo.GetByOrderNumber(ctx, in.OrderNumber)
	if err != nil {
		return nil, err
	}

	if order.Status == models.OrderStatusCompleted && order.PaymentHash == in.PaymentHash {
		return order, nil
	}
	if !models.ValidStatusTransition(order.Status, models.OrderStatusCompleted) {
		return nil, models.NewConflictError(fmt.Sprintf("Order is %s and cannot be completed", order.Status))
	}

	from := order.Status
	order.Status = models.OrderStatusCompleted
	order.PaymentHash = in.PaymentHash
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	observability.OrderStatusTransitions.WithLabelValues(from, order.Status).Inc()

	if store, storeErr := s.storeRepo.GetByID(ctx, order.StoreID); storeErr == nil {
		s.dispatchOrderEmails(ctx, order, store)
	}
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(ctx, order, from)
	}
	return order, nil
}

// ListStoreOrders returns the caller's store orders, newest first.
func (s *OrderService) ListStoreOrders(ctx context.Context, userID uint, status string, limit, offset int) ([]models.Order, int64, error) {
	store, err := s.storeRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if store == nil {
		return nil, 0, models.NewNotFoundError("Store", userID)
	}
	if status != "" && !validOrderStatus(status) {
		return nil, 0, models.NewValidationError("Invalid order status filter")
	}
	return s.orderRepo.ListByStore(ctx, store.ID, status, limit, offset)
}

// TransitionOrder moves an order through the status machine on behalf of
// the store owner: PENDING orders can be cancelled, COMPLETED orders can
// be marked refunded.
func (s *OrderService) TransitionOrder(ctx context.Context, userID uint, orderID uint, to string) (*models.Order, error) {
	if !validOrderStatus(to) {
		return nil, models.NewValidationError("Invalid target status")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	store, err := s.storeRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if store == nil || store.ID != order.StoreID {
		return nil, models.NewForbiddenError("You do not own this order")
	}

	if !models.ValidStatusTransition(order.Status, to) {
		return nil, models.NewConflictError(fmt.Sprintf("Cannot move order from %s to %s", order.Status, to))
	}

	from := order.Status
	order.Status = to
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	observability.OrderStatusTransitions.WithLabelValues(from, to).Inc()

	if s.notifier != nil {
		s.notifier.OrderStatusChanged(ctx, order, from)
	}
	return order, nil
}

func validOrderStatus(status string) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusCompleted,
		models.OrderStatusCancelled, models.OrderStatusRefunded:
		return true
	}
	return false
}

// dispatchOrderEmails fires the buyer confirmation, seller notification and
// payment-received emails. All sends are best-effort.
func (s *OrderService) dispatchOrderEmails(ctx context.Context, order *models.Order, store *models.Store) {
	if s.mailer == nil {
		return
	}
	if order.BuyerEmail != "" {
		s.mailer.SendBuyerConfirmation(ctx, order)
	}
	if seller, err := s.userRepo.GetByID(ctx, store.UserID); err == nil && seller.Email != "" {
		s.mailer.SendSellerNotification(ctx, order, seller.Email)
	}
	if order.PaymentHash != "" {
		s.mailer.SendPaymentReceived(ctx, order)
	}
}
