package server

import (
	"vendio/internal/models"
	"vendio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Checkout handles POST /api/checkout
// @Summary Checkout a cart
// @Description Creates a COMPLETED order from a cart. Payment is asserted by the client; unit prices are snapshotted from the catalog.
// @Tags orders
// @Accept json
// @Produce json
// @Param request body service.CheckoutInput true "Cart checkout"
// @Success 201 {object} models.Order
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /checkout [post]
func (s *Server) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	order, err := s.orderService.Checkout(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// CreatePayment handles POST /api/payments
// @Summary Start a single-product payment
// @Description Creates a PENDING order for one product. The payment-callback flips it to COMPLETED once the transaction hash arrives.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body service.CreatePendingOrderInput true "Payment request"
// @Success 201 {object} models.Order
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /payments [post]
func (s *Server) CreatePayment(c *fiber.Ctx) error {
	var req service.CreatePendingOrderInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	order, err := s.orderService.CreatePendingOrder(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order":     order,
		"recipient": s.config.PaymentRecipient,
		"network":   s.config.PaymentNetwork,
	})
}

// GetPaymentStatus handles GET /api/payments?id=<payment hash>
// @Summary Look up a payment by transaction hash
// @Tags payments
// @Produce json
// @Param id query string true "Payment hash"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /payments [get]
func (s *Server) GetPaymentStatus(c *fiber.Ctx) error {
	order, err := s.orderService.GetOrderByPaymentHash(c.UserContext(), c.Query("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(order)
}

// PaymentCallback handles POST /api/payment-callback
// @Summary Confirm a pending payment
// @Description Reconciliation writer: records the transaction hash on a PENDING order and flips it to COMPLETED. Idempotent for replays carrying the same hash.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body service.PaymentCallbackInput true "Payment confirmation"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /payment-callback [post]
func (s *Server) PaymentCallback(c *fiber.Ctx) error {
	var req service.PaymentCallbackInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	order, err := s.orderService.ConfirmPayment(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(order)
}

// GetStoreOrders handles GET /api/orders
// @Summary List your store's orders
// @Tags orders
// @Produce json
// @Param status query string false "Filter by status (PENDING, COMPLETED, CANCELLED, REFUNDED)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{orders=[]models.Order,total=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /orders [get]
func (s *Server) GetStoreOrders(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	orders, total, err := s.orderService.ListStoreOrders(
		c.UserContext(), currentUserID(c), c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"orders": orders,
		"total":  total,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// UpdateOrderStatus handles PUT /api/orders/:id/status
// @Summary Transition one of your store's orders
// @Description PENDING orders may be cancelled or completed by the store owner; other transitions are rejected.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body object{status=string} true "Target status"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /orders/{id}/status [put]
func (s *Server) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	order, err := s.orderService.TransitionOrder(c.UserContext(), currentUserID(c), id, req.Status)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(order)
}
